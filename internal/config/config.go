// SPDX-License-Identifier: MIT

// Package config loads application configuration with precedence ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// App holds the full configuration for the downloader daemon.
type App struct {
	ListenAddr  string
	DownloadDir string

	// External tool binaries. Resolved via PATH when not absolute.
	YTDLPPath  string
	FFmpegPath string

	// Temporary-file lifecycle.
	CleanupInterval time.Duration // periodic sweep cadence
	MaxFileAge      time.Duration // sweep deletes files older than this
	DownloadGrace   time.Duration // delay before a streamed file is removed

	MaxConcurrentDownloads int

	AllowedOrigins []string
	MetricsEnabled bool

	LogLevel string
	Version  string
}

// Defaults returns the built-in configuration values.
func Defaults() App {
	return App{
		ListenAddr:             ":8000",
		DownloadDir:            os.TempDir(),
		YTDLPPath:              "yt-dlp",
		FFmpegPath:             "ffmpeg",
		CleanupInterval:        15 * time.Minute,
		MaxFileAge:             30 * time.Minute,
		DownloadGrace:          300 * time.Second,
		MaxConcurrentDownloads: 4,
		MetricsEnabled:         true,
		LogLevel:               "info",
	}
}

// Load builds the configuration: defaults, overlaid by an optional YAML file,
// overlaid by environment variables.
func Load(filePath string) (App, error) {
	cfg := Defaults()

	if filePath != "" {
		if err := mergeFile(&cfg, filePath); err != nil {
			return App{}, fmt.Errorf("config file %s: %w", filePath, err)
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return App{}, err
	}
	return cfg, nil
}

func mergeEnv(cfg *App) {
	cfg.ListenAddr = ParseString("YTDL_LISTEN", cfg.ListenAddr)
	cfg.DownloadDir = ParseString("YTDL_DOWNLOAD_DIR", cfg.DownloadDir)
	cfg.YTDLPPath = ParseString("YTDL_YTDLP_PATH", cfg.YTDLPPath)
	cfg.FFmpegPath = ParseString("YTDL_FFMPEG_PATH", cfg.FFmpegPath)
	cfg.CleanupInterval = ParseDuration("YTDL_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.MaxFileAge = ParseDuration("YTDL_MAX_FILE_AGE", cfg.MaxFileAge)
	cfg.DownloadGrace = ParseDuration("YTDL_DOWNLOAD_GRACE", cfg.DownloadGrace)
	cfg.MaxConcurrentDownloads = ParseInt("YTDL_MAX_CONCURRENT", cfg.MaxConcurrentDownloads)
	cfg.MetricsEnabled = ParseBool("YTDL_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.LogLevel = ParseString("YTDL_LOG_LEVEL", cfg.LogLevel)

	if origins := ParseString("YTDL_ALLOWED_ORIGINS", ""); origins != "" {
		var parsed []string
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				parsed = append(parsed, o)
			}
		}
		cfg.AllowedOrigins = parsed
	}
}

// Validate checks the configuration for values that cannot work at runtime.
func (c App) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	if strings.TrimSpace(c.DownloadDir) == "" {
		return fmt.Errorf("download directory must not be empty")
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive, got %s", c.CleanupInterval)
	}
	if c.MaxFileAge <= 0 {
		return fmt.Errorf("max file age must be positive, got %s", c.MaxFileAge)
	}
	if c.DownloadGrace < 0 {
		return fmt.Errorf("download grace must not be negative, got %s", c.DownloadGrace)
	}
	if c.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max concurrent downloads must be at least 1, got %d", c.MaxConcurrentDownloads)
	}
	return nil
}
