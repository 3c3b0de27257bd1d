package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env      string
	Port     string
	LogLevel string

	KeyCRMAPIKey   string // KEYCRM_API_KEY; empty means every CRM call fails with a configuration error
	KeyCRMBaseURL  string
	KeyCRMSourceID *int // KEYCRM_SOURCE_ID, attached to created orders when set
	KeyCRMTimeout  time.Duration

	StoreDriver string
	StoreKey    string // well-known key the certificate list is saved under
	SQLitePath  string
	DatabaseURL string
	RedisURL    string

	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	AdminKeyHash        string // bcrypt hash; when set /api/* requires X-Admin-Key
	DisplayTimezone     string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("KEYCRM_BASE_URL", "https://openapi.keycrm.app/v1")
	v.SetDefault("KEYCRM_TIMEOUT", "15s")
	v.SetDefault("STORE_DRIVER", StoreSQLite)
	v.SetDefault("STORE_KEY", "fenix_certs")
	v.SetDefault("SQLITE_PATH", "fenix_certs.db")
	v.SetDefault("DISPLAY_TIMEZONE", "Europe/Kyiv")

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(v.GetString("KEYCRM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("config: KEYCRM_TIMEOUT: %w", err)
	}

	var sourceID *int
	if raw := strings.TrimSpace(v.GetString("KEYCRM_SOURCE_ID")); raw != "" {
		id := v.GetInt("KEYCRM_SOURCE_ID")
		if id <= 0 {
			return nil, fmt.Errorf("config: KEYCRM_SOURCE_ID must be a positive integer, got %q", raw)
		}
		sourceID = &id
	}

	driver := strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER")))
	switch driver {
	case StoreSQLite, StorePostgres, StoreRedis, StoreMemory:
	default:
		return nil, fmt.Errorf("config: unknown STORE_DRIVER %q", driver)
	}

	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                v.GetString("PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		KeyCRMAPIKey:        strings.TrimSpace(v.GetString("KEYCRM_API_KEY")),
		KeyCRMBaseURL:       strings.TrimRight(v.GetString("KEYCRM_BASE_URL"), "/"),
		KeyCRMSourceID:      sourceID,
		KeyCRMTimeout:       timeout,
		StoreDriver:         driver,
		StoreKey:            v.GetString("STORE_KEY"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		AdminKeyHash:        v.GetString("ADMIN_KEY_HASH"),
		DisplayTimezone:     v.GetString("DISPLAY_TIMEZONE"),
	}, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
