// Package config loads the chrome service settings from an optional YAML file
// with CHROME_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHROME_SERVER_ADDRESS.
const EnvPrefix = "CHROME"

// Config holds all configuration for the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Navigation NavigationConfig `mapstructure:"navigation"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	BasePath        string        `mapstructure:"base_path"`
	Environment     string        `mapstructure:"environment"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// NavigationConfig points at the bundle navigation files.
type NavigationConfig struct {
	Dir        string `mapstructure:"dir"`
	RoutesFile string `mapstructure:"routes_file"`
	Watch      bool   `mapstructure:"watch"`
}

// CacheConfig sizes the breadcrumb memo.
type CacheConfig struct {
	MaxSize int64         `mapstructure:"max_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load reads configuration into v. When file is empty, chrome.yaml is looked
// up in the working directory and its absence is not an error; an explicit
// file must exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("chrome")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Address) == "" {
		errs = append(errs, errors.New("server.address is required"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}
	if strings.TrimSpace(c.Navigation.Dir) == "" {
		errs = append(errs, errors.New("navigation.dir is required"))
	}
	if c.Cache.MaxSize <= 0 {
		errs = append(errs, errors.New("cache.max_size must be positive"))
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.base_path", "/")
	v.SetDefault("server.environment", "Development")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")

	v.SetDefault("navigation.dir", "./navigation")
	v.SetDefault("navigation.routes_file", "")
	v.SetDefault("navigation.watch", true)

	v.SetDefault("cache.max_size", 1024)
	v.SetDefault("cache.ttl", "5m")
}
