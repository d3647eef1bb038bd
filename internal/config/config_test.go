package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092 , ,kafka2:9092"))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("TS_STRING", "value")
	t.Setenv("TS_INT", "42")
	t.Setenv("TS_BAD_INT", "forty-two")
	t.Setenv("TS_DURATION", "90s")
	t.Setenv("TS_BAD_DURATION", "-5m")

	assert.Equal(t, "value", EnvDefault("TS_STRING", "def"))
	assert.Equal(t, "def", EnvDefault("TS_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("TS_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("TS_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, EnvDurationDefault("TS_DURATION", time.Minute))
	assert.Equal(t, time.Minute, EnvDurationDefault("TS_BAD_DURATION", time.Minute))
}

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://techstore.db")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("SERVER_PORT", "")

	cfg := Load()
	require.Equal(t, "sqlite://techstore.db", cfg.DatabaseURL)
	assert.Equal(t, []byte("access"), cfg.JWTAccessSecret)
	assert.Equal(t, []byte("refresh"), cfg.JWTRefreshSecret)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "devices", cfg.ESIndex)
}
