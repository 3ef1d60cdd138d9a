// SPDX-License-Identifier: MIT

// Command daemon runs the yt-downloader HTTP service: metadata lookup and
// media downloads backed by the external yt-dlp and ffmpeg tools, with
// automatic cleanup of temporary files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Agarwalchetan/YT-Downloader/internal/api"
	"github.com/Agarwalchetan/YT-Downloader/internal/cleanup"
	"github.com/Agarwalchetan/YT-Downloader/internal/config"
	"github.com/Agarwalchetan/YT-Downloader/internal/downloader"
	"github.com/Agarwalchetan/YT-Downloader/internal/log"
	"github.com/Agarwalchetan/YT-Downloader/internal/ytdlp"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("yt-downloader", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	cfg.Version = version

	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: "yt-downloader",
		Version: version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := ytdlp.New(ytdlp.Config{
		YTDLPPath:     cfg.YTDLPPath,
		FFmpegPath:    cfg.FFmpegPath,
		MaxConcurrent: cfg.MaxConcurrentDownloads,
	})

	// Probe the external tools up front so a misconfigured host is visible
	// in the startup log, not on the first request.
	if v, err := client.Version(ctx); err != nil {
		logger.Warn().Err(err).Msg("yt-dlp not reachable, downloads will fail")
	} else {
		logger.Info().Str("ytdlp_version", v).Msg("→ yt-dlp ready")
	}
	if !client.FFmpegAvailable() {
		logger.Warn().Msg("ffmpeg not found, stream merging and audio extraction disabled")
	}

	manager := cleanup.New(cfg.DownloadDir, cfg.MaxFileAge)
	manager.Start(cfg.CleanupInterval)
	defer manager.Stop()

	service := downloader.NewService(client, manager, downloader.Options{
		DownloadDir:   cfg.DownloadDir,
		DownloadGrace: cfg.DownloadGrace,
	})

	server := api.NewServer(service, api.Options{
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
		MetricsEnabled: cfg.MetricsEnabled,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.ListenAddr).
			Str("download_dir", cfg.DownloadDir).
			Msg("→ http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("→ daemon stopped")
}
