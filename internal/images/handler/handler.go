package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/internal/images"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/metrics"
)

// RegisterRoutes mounts the image upload endpoint.
func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, svc *images.UploadService) {
	r.POST("/api/images", auth, func(c *gin.Context) {
		var p struct {
			Image string `json:"image"`
		}
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		dto, err := svc.Upload(c.Request.Context(), p.Image)
		outcome := "ok"
		if err != nil {
			outcome = string(apperr.From(err).Kind)
		}
		metrics.RequestsTotal.WithLabelValues("uploadImage", outcome).Inc()
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto)
	})
}
