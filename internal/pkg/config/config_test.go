package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/PropertyFox/internal/pkg/env"
)

func withEnv(t *testing.T, values map[string]string) {
	t.Helper()
	previous := env.Env
	env.Env = values
	t.Cleanup(func() { env.Env = previous })
}

func TestLoadDefaults(t *testing.T) {
	withEnv(t, map[string]string{
		"APP_ENV":     "dev",
		"DB_USER":     "propertyfox",
		"DB_PASSWORD": "secret",
		"DB_NAME":     "propertyfox",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, int64(4_000_000), cfg.Oversight.PriceThreshold)
	assert.Equal(t, 3, cfg.Oversight.ViolationThreshold)
	assert.Equal(t, 10*time.Second, cfg.Cache.LockTTL)
	assert.False(t, cfg.S3.Enabled)
	assert.Equal(t, "propertyfox:secret@tcp(127.0.0.1:3306)/propertyfox?charset=utf8mb4&parseTime=True&loc=UTC", cfg.Database.DSN())
}

func TestLoadOverrides(t *testing.T) {
	withEnv(t, map[string]string{
		"APP_ENV":                 "test",
		"DB_USER":                 "root",
		"DB_NAME":                 "pf_test",
		"DB_PORT":                 "3307",
		"UNIT_LOCK_TTL":           "30s",
		"ANOMALY_PRICE_THRESHOLD": "2500000",
		"VIOLATION_THRESHOLD":     "5",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.Cache.LockTTL)
	assert.Equal(t, int64(2_500_000), cfg.Oversight.PriceThreshold)
	assert.Equal(t, 5, cfg.Oversight.ViolationThreshold)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
	}{
		{"missing database user", map[string]string{"APP_ENV": "dev", "DB_NAME": "pf"}},
		{"unknown app env", map[string]string{"APP_ENV": "staging", "DB_USER": "root", "DB_NAME": "pf"}},
		{"export without bucket", map[string]string{
			"APP_ENV": "dev", "DB_USER": "root", "DB_NAME": "pf",
			"AUDIT_EXPORT_ENABLED": "true", "S3_ACCESS_KEY_ID": "key", "S3_SECRET_ACCESS_KEY": "secret",
		}},
		{"negative threshold", map[string]string{"APP_ENV": "dev", "DB_USER": "root", "DB_NAME": "pf", "VIOLATION_THRESHOLD": "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withEnv(t, tt.values)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
