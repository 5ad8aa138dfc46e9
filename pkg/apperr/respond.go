package apperr

import "github.com/gin-gonic/gin"

// Abort writes the error envelope and stops the handler chain.
// Response shape: {"error": {"kind": "...", "message": "..."}}
func Abort(c *gin.Context, err error) {
	e := From(err)
	c.AbortWithStatusJSON(e.HTTPStatus(), gin.H{"error": e})
}
