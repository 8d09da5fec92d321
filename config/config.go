package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appKeyPlaceholder = "your-app-key-here"

// Load loads the configuration from file and EVENTFUL_* environment variables.
// A missing config file is only an error when configPath names one explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// EVENTFUL_EVENTFUL_APP_KEY and friends, plus the short EVENTFUL_APP_KEY alias
	v.SetEnvPrefix("eventful")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"url", "app_key", "username", "password"} {
		if err := v.BindEnv("eventful."+key, "EVENTFUL_EVENTFUL_"+strings.ToUpper(key), "EVENTFUL_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("error binding environment: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".eventful"))
		}

		// Check /etc
		v.AddConfigPath("/etc/eventful/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Eventful defaults
	v.SetDefault("eventful.url", "http://api.eventful.com/rest")
	v.SetDefault("eventful.timeout", "30s")
	v.SetDefault("eventful.debug", false)

	// Output defaults
	v.SetDefault("output.format", "tree")
	v.SetDefault("output.show_attributes", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Eventful.URL == "" {
		return fmt.Errorf("eventful.url is required")
	}

	if cfg.Eventful.AppKey == "" || cfg.Eventful.AppKey == appKeyPlaceholder {
		return fmt.Errorf("eventful.app_key must be set to a valid application key")
	}

	if cfg.Eventful.Timeout <= 0 {
		return fmt.Errorf("eventful.timeout must be positive, got %s", cfg.Eventful.Timeout)
	}

	// a username alone is fine: login prompts for the password
	if cfg.Eventful.Password != "" && cfg.Eventful.Username == "" {
		return fmt.Errorf("eventful.password requires eventful.username")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	// Validate output format
	validOutputs := map[string]bool{
		"tree":    true,
		"xml":     true,
		"records": true,
	}
	if !validOutputs[cfg.Output.Format] {
		return fmt.Errorf("invalid output.format: %s (must be 'tree', 'xml' or 'records')", cfg.Output.Format)
	}

	return nil
}
