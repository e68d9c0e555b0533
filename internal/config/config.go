// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Sheets   SheetsConfig   `mapstructure:"sheets"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Events   EventsConfig   `mapstructure:"events"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// SheetsConfig holds the spreadsheet mirror destination. Both SpreadsheetID
// and APIKey must be set for the mirror to be active; otherwise every sync
// is a logged no-op.
type SheetsConfig struct {
	// Mode selects the client strategy: "direct" calls the spreadsheet API,
	// "proxy" delegates to a local backend that performs the external call.
	Mode           string `mapstructure:"mode"`
	SpreadsheetID  string `mapstructure:"spreadsheet_id"`
	APIKey         string `mapstructure:"api_key"`
	APIBase        string `mapstructure:"api_base"`
	ProxyBase      string `mapstructure:"proxy_base"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// DatabaseConfig controls the submission store.
type DatabaseConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
}

// StorageConfig selects and parameterizes the upload blob store.
type StorageConfig struct {
	Provider  string `mapstructure:"provider"`
	BaseDir   string `mapstructure:"base_dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
}

// UploadsConfig caps inbound file sizes.
type UploadsConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// EventsConfig holds metadata for submission-accepted notifications.
type EventsConfig struct {
	Provider  string `mapstructure:"provider"`
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// SyncConfig governs the background sheet-sync dispatcher.
type SyncConfig struct {
	Workers    int `mapstructure:"workers"`
	QueueDepth int `mapstructure:"queue_depth"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 60)
	v.SetDefault("sheets.mode", "direct")
	v.SetDefault("sheets.api_base", "https://sheets.googleapis.com/v4/spreadsheets")
	v.SetDefault("sheets.timeout_seconds", 15)
	v.SetDefault("database.provider", "noop")
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_dir", "uploads")
	v.SetDefault("uploads.max_bytes", int64(10<<20))
	v.SetDefault("events.provider", "noop")
	v.SetDefault("sync.workers", 2)
	v.SetDefault("sync.queue_depth", 64)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Sheets.Mode {
	case "direct", "proxy":
	default:
		return fmt.Errorf("sheets.mode must be direct or proxy, got %q", c.Sheets.Mode)
	}
	if c.Sheets.Mode == "proxy" && c.Sheets.ProxyBase == "" {
		return fmt.Errorf("sheets.proxy_base must be set when sheets.mode is proxy")
	}
	if c.Database.Provider == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set when database.provider is postgres")
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket must be set when storage.provider is gcs")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("uploads.max_bytes must be > 0")
	}
	if c.Sync.Workers <= 0 {
		return fmt.Errorf("sync.workers must be > 0")
	}
	if c.Sync.QueueDepth <= 0 {
		return fmt.Errorf("sync.queue_depth must be > 0")
	}
	return nil
}

// SheetTimeout returns the sheet client timeout as a duration.
func (c Config) SheetTimeout() time.Duration {
	return time.Duration(c.Sheets.TimeoutSeconds) * time.Second
}

// ServerTimeout returns the per-request timeout as a duration.
func (c Config) ServerTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
