// Package config assembles the validated runtime configuration from the environment.
package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ManuelReschke/PropertyFox/internal/pkg/env"
)

// Database holds the MySQL connection settings
type Database struct {
	User     string `validate:"required"`
	Password string
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"gt=0,lt=65536"`
	Name     string `validate:"required"`
}

// DSN renders the go-sql-driver DSN
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// URL renders the golang-migrate database URL
func (d Database) URL() string {
	return "mysql://" + d.DSN() + "&multiStatements=true"
}

// Cache holds the Redis settings. LockTTL bounds a check-in unit lock.
type Cache struct {
	Host     string        `validate:"required"`
	Port     int           `validate:"gt=0,lt=65536"`
	Password string
	DB       int           `validate:"gte=0,lte=15"`
	LockTTL  time.Duration `validate:"gt=0"`
	Enabled  bool
}

// Oversight holds the anomaly thresholds
type Oversight struct {
	PriceThreshold     int64 `validate:"gt=0"`
	ViolationThreshold int   `validate:"gt=0"`
}

// S3 holds the audit export target
type S3 struct {
	Enabled         bool
	AccessKeyID     string `validate:"required_if=Enabled true"`
	SecretAccessKey string `validate:"required_if=Enabled true"`
	Region          string `validate:"required"`
	Bucket          string `validate:"required_if=Enabled true"`
	EndpointURL     string `validate:"omitempty,url"`
	Prefix          string
}

// Config is the complete runtime configuration
type Config struct {
	AppEnv    string `validate:"oneof=dev test prod"`
	Database  Database
	Cache     Cache
	Oversight Oversight
	S3        S3
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv: env.GetEnv("APP_ENV", "prod"),
		Database: Database{
			User:     env.GetEnv("DB_USER", ""),
			Password: env.GetEnv("DB_PASSWORD", ""),
			Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
			Port:     intEnv("DB_PORT", 3306),
			Name:     env.GetEnv("DB_NAME", ""),
		},
		Cache: Cache{
			Host:     env.GetEnv("CACHE_HOST", "localhost"),
			Port:     intEnv("CACHE_PORT", 6379),
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			DB:       intEnv("CACHE_DB", 0),
			LockTTL:  durationEnv("UNIT_LOCK_TTL", 10*time.Second),
			Enabled:  env.GetEnv("CACHE_ENABLED", "true") == "true",
		},
		Oversight: Oversight{
			PriceThreshold:     int64(intEnv("ANOMALY_PRICE_THRESHOLD", 4_000_000)),
			ViolationThreshold: intEnv("VIOLATION_THRESHOLD", 3),
		},
		S3: S3{
			Enabled:         env.GetEnv("AUDIT_EXPORT_ENABLED", "false") == "true",
			AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          env.GetEnv("S3_REGION", "us-west-001"),
			Bucket:          env.GetEnv("S3_BUCKET_NAME", ""),
			EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
			Prefix:          env.GetEnv("AUDIT_EXPORT_PREFIX", "audit"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func intEnv(key string, def int) int {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := env.GetEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
