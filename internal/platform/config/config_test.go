package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("BATCH_CONCURRENCY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.GreaterOrEqual(t, cfg.BatchConcurrency, 1)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("BATCH_CONCURRENCY", "0")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 1, cfg.BatchConcurrency, "non-positive concurrency falls back to sequential")
	assert.True(t, cfg.AsyncEnabled())
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("REVIEW_API_URL", "http://review.local/api/v1/")
	t.Setenv("TRACKER_SYNC_MAX_ELAPSED", "not-a-duration")

	cfg, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://review.local/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.TrackerSyncMaxElapsed)
}
