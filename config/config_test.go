package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Eventful: EventfulConfig{
			URL:     "http://api.eventful.com/rest",
			AppKey:  "valid-app-key",
			Timeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Format: "tree",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "Missing app key",
			mutate:  func(c *Config) { c.Eventful.AppKey = "" },
			wantErr: "eventful.app_key",
		},
		{
			name:    "Placeholder app key",
			mutate:  func(c *Config) { c.Eventful.AppKey = "your-app-key-here" },
			wantErr: "eventful.app_key",
		},
		{
			name:    "Missing URL",
			mutate:  func(c *Config) { c.Eventful.URL = "" },
			wantErr: "eventful.url",
		},
		{
			name:    "Zero timeout",
			mutate:  func(c *Config) { c.Eventful.Timeout = 0 },
			wantErr: "eventful.timeout",
		},
		{
			name:   "Username without password",
			mutate: func(c *Config) { c.Eventful.Username = "alice" },
		},
		{
			name:    "Password without username",
			mutate:  func(c *Config) { c.Eventful.Password = "secret" },
			wantErr: "eventful.password requires eventful.username",
		},
		{
			name: "Username and password",
			mutate: func(c *Config) {
				c.Eventful.Username = "alice"
				c.Eventful.Password = "secret"
			},
		},
		{
			name:    "Invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level: verbose",
		},
		{
			name:    "Invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format: xml",
		},
		{
			name:    "Invalid output format",
			mutate:  func(c *Config) { c.Output.Format = "table" },
			wantErr: "invalid output.format: table",
		},
		{
			name:   "Records output format",
			mutate: func(c *Config) { c.Output.Format = "records" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %v, want message containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
eventful:
  app_key: file-app-key
  username: alice
  password: secret
  timeout: 5s
output:
  format: records
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Eventful.AppKey != "file-app-key" {
		t.Errorf("AppKey = %q, want %q", cfg.Eventful.AppKey, "file-app-key")
	}
	if cfg.Eventful.URL != "http://api.eventful.com/rest" {
		t.Errorf("URL = %q, want default", cfg.Eventful.URL)
	}
	if cfg.Eventful.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Eventful.Timeout)
	}
	if !cfg.Eventful.HasCredentials() {
		t.Error("HasCredentials() = false, want true")
	}
	if cfg.Output.Format != "records" {
		t.Errorf("Output.Format = %q, want records", cfg.Output.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("eventful:\n  app_key: file-app-key\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("EVENTFUL_APP_KEY", "env-app-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Eventful.AppKey != "env-app-key" {
		t.Errorf("AppKey = %q, want env override", cfg.Eventful.AppKey)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EVENTFUL_APP_KEY", "env-app-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Eventful.AppKey != "env-app-key" {
		t.Errorf("AppKey = %q, want %q", cfg.Eventful.AppKey, "env-app-key")
	}
	if cfg.Output.Format != "tree" {
		t.Errorf("Output.Format = %q, want default tree", cfg.Output.Format)
	}
}

func TestLoadUsernameOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("eventful:\n  app_key: k\n  username: alice\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Eventful.Username != "alice" {
		t.Errorf("Username = %q, want alice", cfg.Eventful.Username)
	}
	if cfg.Eventful.HasCredentials() {
		t.Error("HasCredentials() = true without a password")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("EVENTFUL_APP_KEY", "env-app-key")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config file")
	}
}
