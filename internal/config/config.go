// Package config loads the backend configuration from a file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	// Secret signs and verifies the HS256 session tokens.
	Secret string `mapstructure:"secret"`

	// HouseholdEmails lists the identities that share the household ledger.
	HouseholdEmails []string `mapstructure:"household_emails"`

	// HouseholdKey is the owner key the household emails map to.
	HouseholdKey string `mapstructure:"household_key"`
}

type SyncConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	Token      string `mapstructure:"token"`
	DebounceMS int    `mapstructure:"debounce_ms"`
}

type ShareConfig struct {
	// BaseURL is prepended to share tokens when returning shareable URLs.
	BaseURL string `mapstructure:"base_url"`

	// DefaultValidityDays is the lifetime of new share links. Zero means
	// links never expire.
	DefaultValidityDays int `mapstructure:"default_validity_days"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Share    ShareConfig    `mapstructure:"share"`
}

// Load reads the configuration from the given file path. An empty path
// defaults to "config.yaml" in the working directory. A missing file is
// fine, everything can be set via HOUSE_HELP_* environment variables, e.g.
// HOUSE_HELP_SERVER_PORT=9000.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("HOUSE_HELP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default, otherwise viper does not pick it up from
	// the environment during Unmarshal.
	v.SetDefault("server.address", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.dsn", "data/house-help.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.household_emails", []string{})
	v.SetDefault("auth.household_key", "household")
	v.SetDefault("sync.enabled", false)
	v.SetDefault("sync.url", "")
	v.SetDefault("sync.token", "")
	v.SetDefault("sync.debounce_ms", 1000)
	v.SetDefault("share.base_url", "")
	v.SetDefault("share.default_validity_days", 0)

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	err = v.Unmarshal(&c)
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if c.Auth.Secret == "" {
		return nil, errors.New("auth.secret must be configured")
	}

	if c.Sync.Enabled && c.Sync.URL == "" {
		return nil, errors.New("sync.url must be configured when sync is enabled")
	}

	return &c, nil
}
