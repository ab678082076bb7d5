package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type LogConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text / json
}

// LedgerConfig tunes the bookkeeping core.
type LedgerConfig struct {
	// DefaultHorizon is how many occurrences an unbounded master expands to.
	DefaultHorizon int `mapstructure:"default_horizon"`
	// Location names the time zone used to turn the wall clock into the
	// as-of date of a request.
	Location string `mapstructure:"location"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
}

// TimeLocation resolves Ledger.Location, defaulting to the local zone.
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Ledger.Location == "" || strings.EqualFold(c.Ledger.Location, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Ledger.Location)
	if err != nil {
		return nil, fmt.Errorf("ledger location: %w", err)
	}
	return loc, nil
}

var appConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("database.path", "data/ledger.db")
	v.SetDefault("database.log_mode", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("ledger.default_horizon", 12)
	v.SetDefault("ledger.location", "Local")
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it looks for "config.yaml" in current working directory
// and falls back to defaults when there is none.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. FL_SERVER_PORT=9000
	v.SetEnvPrefix("FL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Ledger.DefaultHorizon <= 0 {
		return nil, fmt.Errorf("ledger.default_horizon must be positive, got %d", c.Ledger.DefaultHorizon)
	}

	appConfig = &c
	return appConfig, nil
}

// Get returns the last loaded configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
