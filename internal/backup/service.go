package backup

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/markhub/markhub/internal/config"
	"github.com/markhub/markhub/pkg/apperr"
	"github.com/markhub/markhub/pkg/logger"
)

// Service is a token-gated pass-through to the external backup API. The
// shared token is read from BACKUP_TOKEN at call time so it can be rotated
// without a restart.
type Service struct {
	cfg    config.BackupConfig
	client *http.Client
}

func New(cfg config.BackupConfig) *Service {
	return &Service{cfg: cfg, client: &http.Client{Timeout: 30 * time.Second}}
}

// Create triggers a new backup on the external API.
func (s *Service) Create(ctx context.Context, token string) error {
	if err := s.authorize(token); err != nil {
		return err
	}
	return s.call(ctx, "/create")
}

// Use restores the most recent backup on the external API.
func (s *Service) Use(ctx context.Context, token string) error {
	if err := s.authorize(token); err != nil {
		return err
	}
	return s.call(ctx, "/use")
}

func (s *Service) authorize(token string) error {
	expected := os.Getenv("BACKUP_TOKEN")
	if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		return apperr.Unauthenticated("invalid backup token")
	}
	return nil
}

func (s *Service) call(ctx context.Context, path string) error {
	if s.cfg.URL == "" {
		return apperr.Internal("backup API is not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL+path, nil)
	if err != nil {
		return apperr.Internal("failed to build backup request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		logger.Errorf("backup call %s: %v", path, err)
		return apperr.Internal("backup API is unreachable")
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.Errorf("backup call %s: status %d", path, resp.StatusCode)
		return apperr.Internal(fmt.Sprintf("backup API returned status %d", resp.StatusCode))
	}
	return nil
}
