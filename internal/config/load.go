package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("log.level", "info")

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.key", "catalog:courses")
	v.SetDefault("cache.dir", "./data")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.postgres_dsn", "")

	v.SetDefault("catalog.seed", 0)
	v.SetDefault("catalog.fuzzy_threshold", 0.6)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.token", "")

	v.SetDefault("views.max", 1000)
	v.SetDefault("views.create_per_minute", 30)
	v.SetDefault("views.idle_ttl", "30m")
}

// Load reads configuration. path names an explicit config file; when empty,
// catalog.{yaml,json,toml} in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalog")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
