package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/internal/document/service"
	"github.com/markhub/markhub/internal/rates"
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

// RegisterRoutes mounts the document endpoints. The shared listings stay
// outside the authenticated group; everything touching the caller's own
// documents requires a verified token.
func RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc, svc *service.Service, ratings *rates.Service) {
	r.GET("/api/documents/permanent", func(c *gin.Context) {
		list, err := svc.Permanent(c.Request.Context())
		observe("getPermanentDocuments", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/api/documents/accessible/:id", func(c *gin.Context) {
		dto, err := svc.Accessible(c.Request.Context(), c.Param("id"))
		observe("getAccessibleDocument", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	})

	g := r.Group("/api/documents", auth)

	g.POST("", func(c *gin.Context) {
		var p service.CreatePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		dto, err := svc.Create(c.Request.Context(), middleware.UID(c), p)
		observe("createDocument", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto)
	})

	g.GET("", func(c *gin.Context) {
		list, err := svc.YourDocuments(c.Request.Context(), middleware.UID(c))
		observe("getYourDocuments", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.PATCH("/:id/code", func(c *gin.Context) {
		var p service.UpdateCodePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		p.ID = c.Param("id")
		dto, err := svc.UpdateCode(c.Request.Context(), middleware.UID(c), p)
		observe("updateDocumentCode", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	})

	g.PATCH("/:id/name", func(c *gin.Context) {
		var p service.UpdateNamePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		p.ID = c.Param("id")
		dto, err := svc.UpdateName(c.Request.Context(), middleware.UID(c), p)
		observe("updateDocumentName", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	})

	g.PUT("/:id", func(c *gin.Context) {
		var p service.UpdatePayload
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		p.ID = c.Param("id")
		dto, err := svc.Update(c.Request.Context(), middleware.UID(c), p)
		observe("updateDoc", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, dto)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		err := svc.Delete(c.Request.Context(), middleware.UID(c), c.Param("id"))
		observe("deleteDocument", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	g.POST("/:id/rate", func(c *gin.Context) {
		var p struct {
			Value int `json:"value"`
		}
		if err := c.ShouldBindJSON(&p); err != nil {
			apperr.Abort(c, apperr.InvalidArgument("invalid request body"))
			return
		}
		rating, err := ratings.Rate(c.Request.Context(), middleware.UID(c), c.Param("id"), p.Value)
		observe("rateDocument", err)
		if err != nil {
			apperr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, rating)
	})
}
