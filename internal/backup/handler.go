package backup

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/metrics"
)

// RegisterRoutes mounts the backup endpoints. These are gated by the shared
// backup token instead of user authentication.
func RegisterRoutes(r *gin.Engine, svc *Service) {
	handle := func(op string, fn func(c *gin.Context, token string) error) gin.HandlerFunc {
		return func(c *gin.Context) {
			var p struct {
				Token string `json:"token"`
			}
			if err := c.ShouldBindJSON(&p); err != nil {
				apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
				return
			}
			err := fn(c, p.Token)
			outcome := "ok"
			if err != nil {
				outcome = "error"
			}
			metrics.BackupRuns.WithLabelValues(op, outcome).Inc()
			if err != nil {
				apperr.Abort(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	}

	r.POST("/backups/create", handle("create", func(c *gin.Context, token string) error {
		return svc.Create(c.Request.Context(), token)
	}))
	r.POST("/backups/use", handle("use", func(c *gin.Context, token string) error {
		return svc.Use(c.Request.Context(), token)
	}))
}
