package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "campuslink", cfg.Mongo.Database)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)

	assert.Equal(t, 90*time.Second, cfg.PresenceTimeout)
	assert.Equal(t, 3*time.Second, cfg.TypingTTL)
	assert.Equal(t, 5*time.Second, cfg.OutboxInterval)
	assert.Equal(t, 60, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 10, cfg.Outbox.MaxAttempts)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "9999"
presence:
  offline_after_seconds: 120
rate_limit:
  limit: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.PresenceTimeout)
	assert.Equal(t, 5, cfg.RateLimit.Limit)
	// untouched keys keep their defaults
	assert.Equal(t, "campuslink", cfg.Mongo.Database)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
