package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const validYAML = `app:
  name: "LeagueHub"
  environment: "development"
  port: 8080
  base_url: "http://localhost:8080"

database:
  driver: "sqlite"
  filename: "data/leaguehub.db"

auth:
  session_ttl: "2h"

email:
  region: "us-east-1"
  sender: "scores@example.com"

jobs:
  standings_refresh: "*/30 * * * *"
  snapshot_retention_days: 14

features:
  enable_metrics: true
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`app:
  name: "LeagueHub"
  port: 8080
database:
  driver: "sqlite"
  filename: "x.db"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.App.Environment != "development" {
		t.Fatalf("expected development default, got %q", cfg.App.Environment)
	}
	if cfg.Auth.SessionTTL != defaultSessionTTL {
		t.Fatalf("expected default session ttl, got %s", cfg.Auth.SessionTTL)
	}
	if cfg.Jobs.StandingsRefresh != defaultStandingsRefreshCron {
		t.Fatalf("expected default cron, got %q", cfg.Jobs.StandingsRefresh)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoadReadsSecretsFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLERK_SECRET_KEY", "sk_test_123")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.ClerkSecretKey != "sk_test_123" {
		t.Fatalf("expected clerk secret from env, got %q", cfg.Auth.ClerkSecretKey)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Fatalf("expected 2h session ttl, got %s", cfg.Auth.SessionTTL)
	}
	if !cfg.Email.Enabled() {
		t.Fatalf("expected email enabled")
	}
	if !cfg.Features.EnableMetrics {
		t.Fatalf("expected metrics enabled")
	}
	if cfg.Jobs.SnapshotRetention != 14 {
		t.Fatalf("expected retention 14, got %d", cfg.Jobs.SnapshotRetention)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing name", func(c *Config) { c.App.Name = "" }, "app name is required"},
		{"missing port", func(c *Config) { c.App.Port = 0 }, "app port is required"},
		{"bad driver", func(c *Config) { c.Database.Driver = "postgres" }, "unsupported database driver"},
		{"missing filename", func(c *Config) { c.Database.Filename = "" }, "database filename is required"},
		{"bad cron", func(c *Config) { c.Jobs.StandingsRefresh = "every day" }, "invalid jobs.standings_refresh"},
		{"short secret in production", func(c *Config) { c.App.Environment = "production" }, "APP_SECRET_KEY"},
		{"pure driver ok", func(c *Config) { c.Database.Driver = "sqlite-pure" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(validYAML))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
