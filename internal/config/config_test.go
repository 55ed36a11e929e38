package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	// Point the search path at an empty directory so the user's real config
	// cannot leak into the test.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("default http timeout = %v, want 30s", cfg.HTTP.Timeout)
	}
	if cfg.HTTP.RetryAttempts != 1 {
		t.Errorf("default retry attempts = %d, want 1", cfg.HTTP.RetryAttempts)
	}
	if cfg.Realtime.MaxReconnectAttempts != 5 {
		t.Errorf("default reconnect attempts = %d, want 5", cfg.Realtime.MaxReconnectAttempts)
	}
	if cfg.Realtime.ReconnectInterval != 3*time.Second {
		t.Errorf("default reconnect interval = %v, want 3s", cfg.Realtime.ReconnectInterval)
	}
	if cfg.Notifications.TTL != 5*time.Second {
		t.Errorf("default notification ttl = %v, want 5s", cfg.Notifications.TTL)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Errorf("default logging = %s/%s, want info/console", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	configContent := `
server:
  url: "https://files.example.com"

realtime:
  max_reconnect_attempts: 8
  reconnect_interval: 1s

logging:
  level: "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.URL != "https://files.example.com" {
		t.Errorf("server url = %q", cfg.Server.URL)
	}
	if cfg.Realtime.MaxReconnectAttempts != 8 {
		t.Errorf("reconnect attempts = %d, want 8", cfg.Realtime.MaxReconnectAttempts)
	}
	if cfg.Realtime.ReconnectInterval != time.Second {
		t.Errorf("reconnect interval = %v, want 1s", cfg.Realtime.ReconnectInterval)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want normalized debug", cfg.Logging.Level)
	}
	// Unset sections still get defaults.
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("http timeout = %v, want default 30s", cfg.HTTP.Timeout)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"bad url", "server:\n  url: \"not a url\"\n", "server.url"},
		{"bad level", "logging:\n  level: \"loud\"\n", "logging.level"},
		{"bad format", "logging:\n  format: \"xml\"\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(configPath)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %s", err, tt.wantSub)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FILEBOX_SERVER_URL", "https://env.example.com")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "https://env.example.com" {
		t.Errorf("server url = %q, want env override", cfg.Server.URL)
	}
}

func TestBuildLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		log, err := BuildLogger(LoggingConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("BuildLogger(%s): %v", format, err)
		}
		log.Debug("probe")
	}
}
