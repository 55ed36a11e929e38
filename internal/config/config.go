// Package config loads client configuration from file, environment and
// defaults, and builds the logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// FILEBOX_SERVER_URL or FILEBOX_LOGGING_LEVEL.
const EnvPrefix = "FILEBOX"

// Config is the complete client configuration.
//
// Sources in order of precedence:
//  1. CLI flags
//  2. Environment variables (FILEBOX_*)
//  3. Configuration file (~/.config/filebox/config.yaml)
//  4. Defaults
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Realtime      RealtimeConfig      `mapstructure:"realtime"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Downloads     DownloadsConfig     `mapstructure:"downloads"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

// ServerConfig points the client at a server.
type ServerConfig struct {
	// URL is the server base URL, e.g. https://files.example.com.
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// HTTPConfig tunes the REST client.
type HTTPConfig struct {
	// Timeout bounds a single request including the response body.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	// RetryAttempts caps attempts for idempotent reads. 1 disables retry.
	RetryAttempts int `mapstructure:"retry_attempts" validate:"gte=1"`

	// RetryInterval is the fixed wait between attempts.
	RetryInterval time.Duration `mapstructure:"retry_interval" validate:"gt=0"`
}

// RealtimeConfig tunes the push connection.
type RealtimeConfig struct {
	// MaxReconnectAttempts caps consecutive failed dials before giving up.
	MaxReconnectAttempts int `mapstructure:"max_reconnect_attempts" validate:"gte=1"`

	// ReconnectInterval is the fixed wait between dials.
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval" validate:"gt=0"`
}

// NotificationsConfig tunes transient notifications.
type NotificationsConfig struct {
	// TTL is how long a notification stays visible before auto-dismissal.
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// DownloadsConfig controls where downloaded files land.
type DownloadsConfig struct {
	// Dir is the target directory. Empty means the current directory.
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Format is the output format: console or json.
	Format string `mapstructure:"format" validate:"required,oneof=console json"`
}

// Load reads configuration from file, environment and defaults. An empty
// configPath uses the default location; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	// A missing file at the default location falls through to defaults; an
	// explicitly named file that cannot be read is an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys must be registered for environment-only overrides to survive
	// Unmarshal.
	v.SetDefault("server.url", "")
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.retry_attempts", 1)
	v.SetDefault("http.retry_interval", "3s")
	v.SetDefault("realtime.max_reconnect_attempts", 5)
	v.SetDefault("realtime.reconnect_interval", "3s")
	v.SetDefault("notifications.ttl", "5s")
	v.SetDefault("downloads.dir", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(Dir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// ApplyDefaults fills in zero values. Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.HTTP.RetryAttempts == 0 {
		cfg.HTTP.RetryAttempts = 1
	}
	if cfg.HTTP.RetryInterval == 0 {
		cfg.HTTP.RetryInterval = 3 * time.Second
	}
	if cfg.Realtime.MaxReconnectAttempts == 0 {
		cfg.Realtime.MaxReconnectAttempts = 5
	}
	if cfg.Realtime.ReconnectInterval == 0 {
		cfg.Realtime.ReconnectInterval = 3 * time.Second
	}
	if cfg.Notifications.TTL == 0 {
		cfg.Notifications.TTL = 5 * time.Second
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

var validate = validator.New()

// Validate checks a loaded configuration against its constraints.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			f := errs[0]
			return fmt.Errorf("invalid value for %s (%s)", strings.ToLower(f.Namespace()), f.Tag())
		}
		return err
	}
	return nil
}

// Dir returns the configuration directory. XDG_CONFIG_HOME is honored when
// set; otherwise ~/.config/filebox.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "filebox")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "filebox")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}
