// Package config loads service configuration from defaults, an optional
// config file and CATALOG_* environment variables, in increasing precedence.
package config

import "time"

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Views   ViewsConfig   `mapstructure:"views"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// CacheConfig selects the durable store for the generated catalog.
type CacheConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file redis postgres"`
	Key     string `mapstructure:"key"`

	Dir string `mapstructure:"dir" validate:"required_if=Backend file"`

	RedisAddr     string `mapstructure:"redis_addr" validate:"required_if=Backend redis"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`

	PostgresDSN string `mapstructure:"postgres_dsn" validate:"required_if=Backend postgres"`
}

type CatalogConfig struct {
	// Seed fixes the progress values of a generated catalog. Zero seeds from the clock.
	Seed           uint64  `mapstructure:"seed"`
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" validate:"gt=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type ViewsConfig struct {
	Max             int `mapstructure:"max" validate:"gte=0"`
	CreatePerMinute int `mapstructure:"create_per_minute" validate:"gt=0"`
	// IdleTTL drops views nobody has read or changed for this long. Zero keeps them.
	IdleTTL time.Duration `mapstructure:"idle_ttl" validate:"gte=0"`
}
