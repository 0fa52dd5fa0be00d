package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{"PORT", "SEED_FILE", "ALLOWED_ORIGINS", "REQUEST_TIMEOUT", "LOG_LEVEL", "LEGACY_GENRE_FILTER"}

// clearEnv прячет переменные окружения на время теста.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, ":1234", cfg.Addr())
	assert.Equal(t, "movies.json", cfg.SeedFile)
	assert.Equal(t, DefaultAllowedOrigins, cfg.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LegacyGenreFilter)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SEED_FILE", "/data/seed.json")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example,,")
	t.Setenv("REQUEST_TIMEOUT", "500ms")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LEGACY_GENRE_FILTER", "true")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/data/seed.json", cfg.SeedFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LegacyGenreFilter)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PORT", "http"},
		{"PORT", "70000"},
		{"REQUEST_TIMEOUT", "soon"},
		{"REQUEST_TIMEOUT", "-1s"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}

func TestNew_LoadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=4321\nSEED_FILE=from-dotenv.json\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		_ = os.Unsetenv("PORT")
		_ = os.Unsetenv("SEED_FILE")
	})

	// Переменная окружения важнее .env.
	t.Setenv("SEED_FILE", "from-env.json")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 4321, cfg.Port)
	assert.Equal(t, "from-env.json", cfg.SeedFile)
}
