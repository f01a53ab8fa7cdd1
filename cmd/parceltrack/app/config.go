package app

import (
	"os"

	"github.com/spf13/viper"

	"github.com/parceltrack/parceltrack/internal/config"
)

// Config holds the client configuration plus the CLI's presentation
// settings.
type Config struct {
	*config.Config

	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. PARCELTRACK_* environment variables
// 3. .env files
// 4. Config file (~/.parceltrack.yaml, or configFile when set)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	base, err := config.Load(viper.New(), configFile)
	if err != nil {
		return nil, err
	}
	return &Config{
		Config:    base,
		NoColor:   os.Getenv("NO_COLOR") != "",
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}, nil
}

// Flags carries the values of the root command's persistent flags.
type Flags struct {
	Verbose   bool
	Quiet     bool
	NoColor   bool
	Format    string
	LogLevel  string
	APIURL    string
	SocketURL string
	Storage   string
}

// UpdateFromFlags applies parsed command flags. Flags take precedence over
// the config file and environment; empty string flags leave values alone.
func (c *Config) UpdateFromFlags(f Flags) {
	c.Verbose = f.Verbose
	c.Quiet = f.Quiet
	c.NoColor = c.NoColor || f.NoColor
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.APIURL != "" {
		c.APIURL = f.APIURL
	}
	if f.SocketURL != "" {
		c.SocketURL = f.SocketURL
	}
	if f.Storage != "" {
		c.Storage = f.Storage
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
