package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/internal/profile"
	"github.com/markhub/markhub/internal/profile/repository"
	"github.com/markhub/markhub/internal/profile/service"
	"github.com/markhub/markhub/pkg/middleware"
	"github.com/stretchr/testify/require"
)

type noopAvatars struct{}

func (noopAvatars) RescaleAndUpload(context.Context, string, string) (profile.Avatar, error) {
	return profile.Avatar{}, nil
}
func (noopAvatars) Remove(context.Context, string) error { return nil }

func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUID, uid)
		c.Next()
	}
}

func newRouter(uid string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	svc := service.New(repository.NewMemoryRepo(), noopAvatars{})
	RegisterRoutes(g, asUser(uid), svc)
	return g
}

func TestProfileRoutes_GetEmptyThenUpdate(t *testing.T) {
	g := newRouter("u1")

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"displayName":null`)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"displayName":"mark","bio":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var p struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		CDate       string `json:"cdate"`
		MDate       string `json:"mdate"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	require.NotEmpty(t, p.ID)
	require.Equal(t, "mark", p.DisplayName)
	require.Equal(t, p.CDate, p.MDate)

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"displayName":"mark"`)
}

func TestProfileRoutes_InvalidDisplayNameIs400(t *testing.T) {
	g := newRouter("u1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/profile", strings.NewReader(`{"displayName":"bad name!"}`))
	req.Header.Set("Content-Type", "application/json")
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid-argument")
}
