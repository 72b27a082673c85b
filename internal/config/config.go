// Package config loads runtime settings from the environment through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	AppPort        string
	DBDriver       string
	DatabaseDSN    string
	StaticDir      string
	RequestTimeout time.Duration
	AuthEnabled    bool
	JWTSecret      string
	JWTTTL         time.Duration
	RabbitMQURL    string // empty disables stock event publishing
	RabbitMQQueue  string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "gudang.db")
	v.SetDefault("STATIC_DIR", "./web")
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "stock_events")
}

// Load reads the configuration from v, falling back to defaults.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       v.GetString("DB_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		StaticDir:      v.GetString("STATIC_DIR"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		AuthEnabled:    v.GetBool("AUTH_ENABLED"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTTTL:         v.GetDuration("JWT_TTL"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:  v.GetString("RABBITMQ_QUEUE"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want memory, sqlite or postgres)", c.DBDriver)
	}
	if c.DBDriver != "memory" && c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required for DB_DRIVER %q", c.DBDriver)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.AuthEnabled && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_ENABLED is set")
	}
	return nil
}
