// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML configuration file. All fields are
// pointers so that absent keys leave the current value untouched.
type fileConfig struct {
	ListenAddr             *string        `yaml:"listenAddr"`
	DownloadDir            *string        `yaml:"downloadDir"`
	YTDLPPath              *string        `yaml:"ytdlpPath"`
	FFmpegPath             *string        `yaml:"ffmpegPath"`
	CleanupInterval        *time.Duration `yaml:"cleanupInterval"`
	MaxFileAge             *time.Duration `yaml:"maxFileAge"`
	DownloadGrace          *time.Duration `yaml:"downloadGrace"`
	MaxConcurrentDownloads *int           `yaml:"maxConcurrentDownloads"`
	AllowedOrigins         []string       `yaml:"allowedOrigins"`
	MetricsEnabled         *bool          `yaml:"metricsEnabled"`
	LogLevel               *string        `yaml:"logLevel"`
}

func mergeFile(cfg *App, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's --config flag
	if err != nil {
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.ListenAddr != nil {
		cfg.ListenAddr = *fc.ListenAddr
	}
	if fc.DownloadDir != nil {
		cfg.DownloadDir = *fc.DownloadDir
	}
	if fc.YTDLPPath != nil {
		cfg.YTDLPPath = *fc.YTDLPPath
	}
	if fc.FFmpegPath != nil {
		cfg.FFmpegPath = *fc.FFmpegPath
	}
	if fc.CleanupInterval != nil {
		cfg.CleanupInterval = *fc.CleanupInterval
	}
	if fc.MaxFileAge != nil {
		cfg.MaxFileAge = *fc.MaxFileAge
	}
	if fc.DownloadGrace != nil {
		cfg.DownloadGrace = *fc.DownloadGrace
	}
	if fc.MaxConcurrentDownloads != nil {
		cfg.MaxConcurrentDownloads = *fc.MaxConcurrentDownloads
	}
	if fc.AllowedOrigins != nil {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.MetricsEnabled != nil {
		cfg.MetricsEnabled = *fc.MetricsEnabled
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	return nil
}
