// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	defaultStandingsRefreshCron = "0 4 * * *"
	defaultSessionTTL           = 8 * time.Hour
	defaultLoginMaxFailures     = 5
	defaultLoginLockout         = 15 * time.Minute
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type AuthConfig struct {
	ClerkPublishableKey string        `yaml:"clerk_publishable_key"`
	ClerkSecretKey      string        `yaml:"-"` // Loaded from environment
	SessionTTL          time.Duration `yaml:"session_ttl"`
	LoginMaxFailures    int           `yaml:"login_max_failures"`
	LoginLockout        time.Duration `yaml:"login_lockout"`
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"` // Loaded from environment
	SecretAccessKey string `yaml:"-"` // Loaded from environment
}

// Enabled reports whether SES delivery has everything it needs.
func (e EmailConfig) Enabled() bool {
	return e.Region != "" && e.Sender != "" && e.AccessKeyID != "" && e.SecretAccessKey != ""
}

type JobsConfig struct {
	StandingsRefresh  string `yaml:"standings_refresh"`
	SnapshotRetention int    `yaml:"snapshot_retention_days"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Jobs     JobsConfig     `yaml:"jobs"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Auth.ClerkSecretKey = os.Getenv("CLERK_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults. It does not read the environment or validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.Auth.SessionTTL == 0 {
		c.Auth.SessionTTL = defaultSessionTTL
	}
	if c.Auth.LoginMaxFailures == 0 {
		c.Auth.LoginMaxFailures = defaultLoginMaxFailures
	}
	if c.Auth.LoginLockout == 0 {
		c.Auth.LoginLockout = defaultLoginLockout
	}
	if strings.TrimSpace(c.Jobs.StandingsRefresh) == "" {
		c.Jobs.StandingsRefresh = defaultStandingsRefreshCron
	}
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite", "sqlite-pure":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for %s", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if !c.IsDevelopment() && len(c.App.SecretKey) < 32 {
		return fmt.Errorf("APP_SECRET_KEY must be at least 32 characters outside development")
	}

	if _, err := cron.ParseStandard(c.Jobs.StandingsRefresh); err != nil {
		return fmt.Errorf("invalid jobs.standings_refresh %q: %w", c.Jobs.StandingsRefresh, err)
	}
	if c.Jobs.SnapshotRetention < 0 {
		return fmt.Errorf("jobs.snapshot_retention_days must be 0 or greater")
	}
	if c.Auth.LoginMaxFailures < 0 {
		return fmt.Errorf("auth.login_max_failures must be 0 or greater")
	}

	return nil
}
