package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ERROR_MAPPING", "")
	t.Setenv("VALIDATE_SNAPSHOTS", "")
	t.Setenv("REST_PORT", "")

	cfg := LoadConfig()

	assert.Equal(t, "memory", cfg.StoreConfig.Driver)
	assert.Equal(t, "trend", cfg.StoreConfig.Key)
	assert.Equal(t, ":8080", cfg.RESTPort)
	assert.Equal(t, ErrorMappingCompat, cfg.ErrorMapping)
	assert.True(t, cfg.ValidateSnapshots)
	assert.Equal(t, int64(8<<20), cfg.MaxBodyBytes)
	assert.Equal(t, time.Hour, cfg.StoreConfig.DBConfig.MaxConnLifetime)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ERROR_MAPPING", "TYPED")
	t.Setenv("VALIDATE_SNAPSHOTS", "false")
	t.Setenv("MAX_CONN_IDLE_TIME", "60")

	cfg := LoadConfig()

	assert.Equal(t, "redis", cfg.StoreConfig.Driver)
	assert.Equal(t, 3, cfg.StoreConfig.RedisDB)
	assert.Equal(t, ErrorMappingTyped, cfg.ErrorMapping)
	assert.False(t, cfg.ValidateSnapshots)
	assert.Equal(t, time.Minute, cfg.StoreConfig.DBConfig.MaxConnIdleTime)
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
