package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("UNIONHUB_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("OTP_TTL", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 5*time.Minute, cfg.Workflow.OTPTTL)
	assert.Equal(t, 3, cfg.Workflow.OTPMaxAttempts)
	assert.Equal(t, 10*time.Minute, cfg.Workflow.CastWindow)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("UNIONHUB_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("VOTE_CAST_WINDOW", "15m")
	t.Setenv("OTP_MAX_ATTEMPTS", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.Workflow.CastWindow)
	assert.Equal(t, 3, cfg.Workflow.OTPMaxAttempts)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
