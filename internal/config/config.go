// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every setting read at startup
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Shopify  ShopifyConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port         string
	AppEnv       string
	FrontendURL  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
}

// ShopifyConfig holds the bootstrap store used by GET /api/tenant
type ShopifyConfig struct {
	StoreName   string
	AccessToken string
	APIVersion  string
}

type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// MongoConfig is optional; an empty URI selects the in-memory event log
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig is optional; an empty Addr selects the in-memory sync status store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads the configuration. DATABASE_URL is required.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			AppEnv:       getEnv("APP_ENV", "production"),
			FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 60*time.Second),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		Shopify: ShopifyConfig{
			StoreName:   os.Getenv("SHOPIFY_STORE_NAME"),
			AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
			APIVersion:  getEnv("SHOPIFY_API_VERSION", "2025-01"),
		},
		Postgres: PostgresConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			AutoMigrate:     getEnvBool("AUTO_MIGRATE", true),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("MONGODB_DATABASE", "shopify_mirror"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}

	var missing []string
	if cfg.Postgres.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	return cfg, nil
}

// IsDevelopment reports whether APP_ENV selects development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.AppEnv == "dev"
}

// HasBootstrapStore reports whether the bootstrap Shopify credentials are set
func (c *ShopifyConfig) HasBootstrapStore() bool {
	return c.StoreName != "" && c.AccessToken != ""
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
