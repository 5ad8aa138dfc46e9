package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/internal/profile/service"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/metrics"
	"github.com/markhub/markhub/pkg/middleware"
)

func observe(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = string(apperr.From(err).Kind)
	}
	metrics.RequestsTotal.WithLabelValues(op, outcome).Inc()
}

// RegisterRoutes mounts the profile endpoints. Both operate on the caller's
// own record only.
func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, svc *service.Service) {
	g := r.Group("/api/profile", auth)

	g.GET("", func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), middleware.UID(c))
		observe("getYourUserProfile", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	g.PUT("", func(c *gin.Context) {
		var p service.Payload
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		out, err := svc.Update(c.Request.Context(), middleware.UID(c), p)
		observe("updateYourUserProfile", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
}
