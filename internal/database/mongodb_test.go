package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectMongoWithRetry_ExhaustsAttempts(t *testing.T) {
	// Closed port: every attempt fails immediately with connection refused.
	_, err := ConnectMongoWithRetry(context.Background(), "mongodb://127.0.0.1:1", 200*time.Millisecond, 2)
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 2 attempts")
}
