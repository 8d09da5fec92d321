package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Eventful EventfulConfig `mapstructure:"eventful"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EventfulConfig holds Eventful API connection details and login credentials
type EventfulConfig struct {
	URL      string        `mapstructure:"url"`
	AppKey   string        `mapstructure:"app_key"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Debug    bool          `mapstructure:"debug"`
}

// HasCredentials reports whether a login can be attempted
func (c EventfulConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// OutputConfig controls how responses are printed
type OutputConfig struct {
	Format         string `mapstructure:"format"`
	ShowAttributes bool   `mapstructure:"show_attributes"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
