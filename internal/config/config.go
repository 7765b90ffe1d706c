// Package config loads settings from defaults and POSTCARDS_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variable names: POSTCARDS_DB_PATH sets db_path
const EnvPrefix = "POSTCARDS_"

// Config holds all runtime settings
type Config struct {
	DBPath          string        `koanf:"db_path" validate:"required"`
	Source          string        `koanf:"source"`
	HTTPAddr        string        `koanf:"http_addr" validate:"required"`
	StaticDir       string        `koanf:"static_dir"`
	LogLevel        string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `koanf:"log_format" validate:"oneof=json console"`
	CORSOrigins     string        `koanf:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	FetchTimeout    time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		DBPath:          "postcards.db",
		HTTPAddr:        ":8000",
		LogLevel:        "info",
		LogFormat:       "json",
		CORSOrigins:     "*",
		RateLimit:       300,
		ShutdownTimeout: 10 * time.Second,
		FetchTimeout:    30 * time.Second,
	}
}

// Load layers the environment over the defaults and validates the result
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps POSTCARDS_HTTP_ADDR to http_addr
func envKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Origins splits the comma separated CORS origin list
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
