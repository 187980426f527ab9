package config

import (
	"errors"
	"fmt"
	"os"

	"hotelops/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Backup     BackupConfig     `yaml:"backup"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	API        APIConfig        `yaml:"api"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Notify     NotifyConfig     `yaml:"notify"`
	Reports    ReportsConfig    `yaml:"reports"`
	Google     GoogleConfig     `yaml:"google"`
	Hotels     []models.Hotel   `yaml:"hotels"`
	Services   []models.Service `yaml:"services"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Schedule      string `yaml:"schedule"`
	RetentionDays int    `yaml:"retention_days"`
	StoragePath   string `yaml:"storage_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `yaml:"prometheus_enabled"`
	PrometheusPort    int    `yaml:"prometheus_port"`
	SweepInterval     string `yaml:"sweep_interval"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type APIConfig struct {
	Enabled   bool               `yaml:"enabled"`
	HTTP      APIHTTPConfig      `yaml:"http"`
	Auth      APIAuthConfig      `yaml:"auth"`
	RateLimit APIRateLimitConfig `yaml:"rate_limit"`
}

type APIHTTPConfig struct {
	Port int `yaml:"port"`
}

type APIAuthConfig struct {
	Enabled      bool           `yaml:"enabled"`
	HeaderAPIKey string         `yaml:"header_api_key"`
	APIKeys      []APIClientKey `yaml:"api_keys"`
}

type APIClientKey struct {
	Key         string   `yaml:"key"`
	Name        string   `yaml:"name"`
	Permissions []string `yaml:"permissions"`
}

type APIRateLimitConfig struct {
	Hits   int `yaml:"hits"`
	Window int `yaml:"window"` // seconds
}

// AlertsConfig drives the ops monitor thresholds and channels.
type AlertsConfig struct {
	WebhookURL     string  `yaml:"webhook_url"`
	TelegramToken  string  `yaml:"telegram_token"`
	TelegramChatID int64   `yaml:"telegram_chat_id"`
	BudgetPct      float64 `yaml:"budget_pct"`
	LatePct        int     `yaml:"late_pct"`
	MinClosures    int64   `yaml:"min_closures"`
}

// NotifyConfig configures guest-facing delivery (worker side).
type NotifyConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	MaxRetries int    `yaml:"max_retries"`
}

type ReportsConfig struct {
	Path string `yaml:"path"`
}

type GoogleConfig struct {
	CredentialsFile  string `yaml:"credentials_file"`
	OpsSpreadsheetID string `yaml:"ops_spreadsheet_id"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; env vars referenced in the YAML come from it.
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path is required")
	}
	return ValidateCatalog(c.Hotels, c.Services)
}

// ValidateCatalog rejects duplicate hotel ids and duplicate (hotel, key)
// pairs in the seed catalog, plus negative SLA targets.
func ValidateCatalog(hotels []models.Hotel, services []models.Service) error {
	hotelIDs := make(map[string]bool)
	for _, h := range hotels {
		if h.ID == "" {
			return fmt.Errorf("hotel '%s' has empty id", h.Name)
		}
		if hotelIDs[h.ID] {
			return fmt.Errorf("duplicate hotel id found: %s", h.ID)
		}
		hotelIDs[h.ID] = true
	}

	seen := make(map[string]bool)
	for _, s := range services {
		if s.HotelID == "" || s.Key == "" {
			return fmt.Errorf("service '%s' missing hotel_id or key", s.Label)
		}
		pair := s.HotelID + "/" + s.Key
		if seen[pair] {
			return fmt.Errorf("duplicate service found: %s", pair)
		}
		if s.SLAMinutes < 0 {
			return fmt.Errorf("service %s has negative sla_minutes", pair)
		}
		seen[pair] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.HTTP.Port == 0 {
		c.API.HTTP.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Monitoring.SweepInterval == "" {
		c.Monitoring.SweepInterval = "15m"
	}
	// auth enabled by default when API is enabled
	if c.API.Enabled && !c.API.Auth.Enabled {
		c.API.Auth.Enabled = true
	}
	if c.API.Auth.HeaderAPIKey == "" {
		c.API.Auth.HeaderAPIKey = "x-api-key"
	}
	if c.API.RateLimit.Hits == 0 {
		c.API.RateLimit.Hits = models.RateLimitHits
	}
	if c.API.RateLimit.Window == 0 {
		c.API.RateLimit.Window = models.RateLimitWindow
	}

	if c.Alerts.BudgetPct == 0 {
		c.Alerts.BudgetPct = models.BudgetAlertPct
	}
	if c.Alerts.LatePct == 0 {
		c.Alerts.LatePct = models.LateAlertPct
	}
	if c.Alerts.MinClosures == 0 {
		c.Alerts.MinClosures = models.LateAlertMinClosures
	}
	if c.Notify.MaxRetries == 0 {
		c.Notify.MaxRetries = 5
	}
}
