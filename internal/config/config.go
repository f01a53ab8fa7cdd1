// Package config loads client configuration from flags, environment,
// .env files and ~/.parceltrack.yaml, in that order of precedence.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/parceltrack/parceltrack/pkg/constants"
	"github.com/parceltrack/parceltrack/pkg/errors"
)

// EnvPrefix prefixes every environment variable, e.g. PARCELTRACK_API_URL.
const EnvPrefix = "PARCELTRACK"

// Keys understood by Load.
const (
	KeyAPIURL          = "api_url"
	KeySocketURL       = "socket_url"
	KeyStorage         = "storage"
	KeyStatePath       = "state_path"
	KeyKeyringDir      = "keyring_dir"
	KeyHTTPTimeout     = "http_timeout"
	KeyDialTimeout     = "dial_timeout"
	KeyArchiveOnLogout = "archive_on_logout"
)

// Config is the resolved client configuration.
type Config struct {
	APIURL          string
	SocketURL       string
	Storage         string
	StatePath       string
	KeyringDir      string
	HTTPTimeout     time.Duration
	DialTimeout     time.Duration
	ArchiveOnLogout bool

	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, constants.DefaultAPIURL)
	v.SetDefault(KeySocketURL, constants.DefaultSocketURL)
	v.SetDefault(KeyStorage, "sqlite")
	v.SetDefault(KeyStatePath, "~/"+constants.DefaultStatePath)
	v.SetDefault(KeyKeyringDir, "~/"+constants.DefaultKeyringDir)
	v.SetDefault(KeyHTTPTimeout, constants.DefaultHTTPTimeout)
	v.SetDefault(KeyDialTimeout, constants.DefaultDialTimeout)
	v.SetDefault(KeyArchiveOnLogout, true)
}

// Load resolves configuration into v. configFile overrides the search of
// the home and working directories for .parceltrack.yaml. A missing config
// file is not an error; an unreadable one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	LoadEnvFiles()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "reading config", err)
		}
	}

	cfg := &Config{
		APIURL:          strings.TrimSuffix(v.GetString(KeyAPIURL), "/"),
		SocketURL:       strings.TrimSuffix(v.GetString(KeySocketURL), "/"),
		Storage:         v.GetString(KeyStorage),
		StatePath:       v.GetString(KeyStatePath),
		KeyringDir:      v.GetString(KeyKeyringDir),
		HTTPTimeout:     v.GetDuration(KeyHTTPTimeout),
		DialTimeout:     v.GetDuration(KeyDialTimeout),
		ArchiveOnLogout: v.GetBool(KeyArchiveOnLogout),
		ConfigFile:      v.ConfigFileUsed(),
	}
	return cfg, cfg.Validate()
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	switch {
	case c.APIURL == "":
		return errors.NewConfigError(KeyAPIURL, "must not be empty", nil)
	case c.SocketURL == "":
		return errors.NewConfigError(KeySocketURL, "must not be empty", nil)
	case c.HTTPTimeout <= 0:
		return errors.NewConfigError(KeyHTTPTimeout, "must be positive", nil)
	case c.DialTimeout <= 0:
		return errors.NewConfigError(KeyDialTimeout, "must be positive", nil)
	}
	switch c.Storage {
	case "sqlite", "keyring", "memory":
	default:
		return errors.NewConfigError(KeyStorage, "must be sqlite, keyring or memory, got "+c.Storage, nil)
	}
	return nil
}

// LoadEnvFiles loads .env and then .env.local from the working directory.
// Variables already set in the environment win.
func LoadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
