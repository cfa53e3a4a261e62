package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pixvault")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "pixvault", cfg.Media.Folder)
	assert.Equal(t, 3*time.Second, cfg.Revalidate.Timeout)
	assert.Empty(t, cfg.Media.Bucket)
	assert.Empty(t, cfg.Revalidate.URL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/pixvault")
	t.Setenv("PORT", "8080")
	t.Setenv("MEDIA_BUCKET", "pixvault-assets")
	t.Setenv("MEDIA_FOLDER", "gallery")
	t.Setenv("REVALIDATE_WEBHOOK_URL", "http://frontend/api/revalidate")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pixvault-assets", cfg.Media.Bucket)
	assert.Equal(t, "gallery", cfg.Media.Folder)
	assert.Equal(t, "http://frontend/api/revalidate", cfg.Revalidate.URL)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}
