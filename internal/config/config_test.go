package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "markhub_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.Images.MaxMegabytes <= 0 {
		t.Fatalf("image size ceiling must default to a positive value, got %d", cfg.Images.MaxMegabytes)
	}
	if cfg.Backup.CronSpec == "" {
		t.Fatalf("backup cron spec must have a default")
	}
}

func TestLoadConfig_RequiresMongoURI(t *testing.T) {
	os.Unsetenv("MONGODB_URI")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is missing")
	}
}
