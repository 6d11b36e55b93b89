// Package config loads process configuration: logging, the chart settings
// and locale to use, the cache tier and the default observer.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ALMAGEST_CACHE_PATH.
const EnvPrefix = "ALMAGEST"

// CacheConfig selects the memo tiers behind the position service.
type CacheConfig struct {
	// Path is the SQLite file for the persistent tier; empty keeps the
	// cache in memory only.
	Path    string `mapstructure:"path"`
	Metrics bool   `mapstructure:"metrics"`
}

// ObserverConfig is the default chart location, east longitude positive.
type ObserverConfig struct {
	Lat float64 `mapstructure:"lat"`
	Lon float64 `mapstructure:"lon"`
}

// SearchConfig bounds transit searches.
type SearchConfig struct {
	MaxIterations int `mapstructure:"max_iterations"`
}

// Config holds all runtime configuration for one almagest process.
// Values are populated from almagest.yaml, ALMAGEST_* env vars, and CLI flags.
type Config struct {
	LogLevel     string         `mapstructure:"log_level"`
	SettingsFile string         `mapstructure:"settings_file"`
	Locale       string         `mapstructure:"locale"`
	Cache        CacheConfig    `mapstructure:"cache"`
	Observer     ObserverConfig `mapstructure:"observer"`
	Search       SearchConfig   `mapstructure:"search"`
}

// New returns a viper instance carrying the defaults and environment
// binding. Callers may bind flags and read a config file before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("settings_file", "")
	v.SetDefault("locale", "en")
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.metrics", false)
	v.SetDefault("observer.lat", 0.0)
	v.SetDefault("observer.lon", 0.0)
	v.SetDefault("search.max_iterations", 10000)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads path, or almagest.yaml from the working directory when
// path is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
		return nil
	}
	v.SetConfigName("almagest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Observer.Lat <= -90 || c.Observer.Lat >= 90 {
		return fmt.Errorf("observer.lat %v out of range (-90, 90)", c.Observer.Lat)
	}
	if c.Observer.Lon < -180 || c.Observer.Lon > 180 {
		return fmt.Errorf("observer.lon %v out of range [-180, 180]", c.Observer.Lon)
	}
	if c.Search.MaxIterations <= 0 {
		return fmt.Errorf("search.max_iterations must be positive, got %d", c.Search.MaxIterations)
	}
	return nil
}
