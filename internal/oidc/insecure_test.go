package oidc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestInsecureVerifier_ExtractsClaims(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	v := NewInsecureVerifier()
	parsed, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, parsed.Claims(&claims))
	require.Equal(t, "user-42", claims["sub"])
}

func TestInsecureVerifier_RejectsGarbage(t *testing.T) {
	v := NewInsecureVerifier()
	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
}
