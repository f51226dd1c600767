package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no stray .env is read.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8585", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "./modernman.db", cfg.DSN())
	assert.Equal(t, 5*time.Second, cfg.RotateInterval)
	assert.Equal(t, 150*time.Millisecond, cfg.RenderBudget)
	assert.Equal(t, 8, cfg.SuggestionLimit)
	assert.Equal(t, 3*time.Second, cfg.Redis.ReadTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.False(t, cfg.Production())
	assert.Len(t, cfg.CSRFKey, 32)
	assert.Len(t, cfg.SessionKey, 32)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	isolate(t)
	key := strings.Repeat("k", 32)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://shop@localhost/modernman")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CSRF_KEY", base64.StdEncoding.EncodeToString([]byte(key)))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, "postgres://shop@localhost/modernman", cfg.DSN())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []byte(key), cfg.CSRFKey)
}

func TestLoadConfig_Fallbacks(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SESSION_KEY", base64.StdEncoding.EncodeToString([]byte("short")))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8585", cfg.Port)
	assert.Len(t, cfg.SessionKey, 32)
	assert.NotEqual(t, []byte("short"), cfg.SessionKey)
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	isolate(t)
	t.Setenv("FETCH_TIMEOUT", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfig_ReadsDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SUGGESTION_LIMIT=3\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SUGGESTION_LIMIT") })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SuggestionLimit)
}
