// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, 15*time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 30*time.Minute, cfg.MaxFileAge)
	assert.Equal(t, 300*time.Second, cfg.DownloadGrace)
	assert.Equal(t, 4, cfg.MaxConcurrentDownloads)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("YTDL_LISTEN", ":9999")
	t.Setenv("YTDL_CLEANUP_INTERVAL", "1m")
	t.Setenv("YTDL_MAX_CONCURRENT", "2")
	t.Setenv("YTDL_ALLOWED_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, time.Minute, cfg.CleanupInterval)
	assert.Equal(t, 2, cfg.MaxConcurrentDownloads)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_FileOverridesDefaults_EnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"listenAddr: \":7000\"\nmaxFileAge: 10m\nmetricsEnabled: false\n",
	), 0o644))

	t.Setenv("YTDL_LISTEN", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	// ENV beats file, file beats defaults.
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, 10*time.Minute, cfg.MaxFileAge)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*App)
		wantErr bool
	}{
		{"valid defaults", func(*App) {}, false},
		{"empty listen addr", func(c *App) { c.ListenAddr = " " }, true},
		{"empty download dir", func(c *App) { c.DownloadDir = "" }, true},
		{"zero cleanup interval", func(c *App) { c.CleanupInterval = 0 }, true},
		{"negative grace", func(c *App) { c.DownloadGrace = -time.Second }, true},
		{"zero concurrency", func(c *App) { c.MaxConcurrentDownloads = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty-two")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DUR", "90s")

	assert.Equal(t, "value", ParseString("TEST_STR", "d"))
	assert.Equal(t, "d", ParseString("TEST_MISSING", "d"))
	assert.Equal(t, 42, ParseInt("TEST_INT", 0))
	assert.Equal(t, 7, ParseInt("TEST_INT_BAD", 7))
	assert.True(t, ParseBool("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, ParseDuration("TEST_DUR", 0))
	assert.Equal(t, time.Minute, ParseDuration("TEST_DUR_MISSING", time.Minute))
}
