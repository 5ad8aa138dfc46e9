package middleware

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/markhub/markhub/pkg/apperr"
)

// Token is the minimal interface for a verified token that can expose claims.
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on.
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

const (
	// ContextUID is the gin context key holding the authenticated subject.
	ContextUID = "uid"
	// ContextClaims is the gin context key holding the full claims map.
	ContextClaims = "claims"
)

// UID returns the authenticated caller id set by Authenticated.
func UID(c *gin.Context) string {
	return c.GetString(ContextUID)
}

// Authenticated returns a middleware that verifies Bearer tokens using the
// provided verifier and stores the subject and claims in the request context.
// Every failure is reported as unauthenticated before any handler logic runs.
func Authenticated(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			apperr.Abort(c, apperr.Unauthenticated("missing Authorization header"))
			return
		}
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			apperr.Abort(c, apperr.Unauthenticated("invalid Authorization header"))
			return
		}

		idToken, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			apperr.Abort(c, apperr.Unauthenticated("invalid token"))
			return
		}

		var claims map[string]interface{}
		if err := idToken.Claims(&claims); err != nil {
			apperr.Abort(c, apperr.Unauthenticated("failed to parse claims"))
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			apperr.Abort(c, apperr.Unauthenticated("token has no subject"))
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextUID, sub)
		c.Next()
	}
}
