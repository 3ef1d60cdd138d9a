// SPDX-License-Identifier: MIT

// Package api exposes the HTTP surface: metadata lookup, downloads, health
// probes and operational endpoints.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Agarwalchetan/YT-Downloader/internal/api/middleware"
	"github.com/Agarwalchetan/YT-Downloader/internal/downloader"
)

// Downloads is the service surface the handlers depend on, implemented by
// downloader.Service.
type Downloads interface {
	Info(ctx context.Context, url string) (*downloader.VideoDetails, error)
	Download(ctx context.Context, req downloader.Request) (*downloader.Result, error)
	Status(ctx context.Context) downloader.Status
}

// Options configure the HTTP server.
type Options struct {
	Version        string
	AllowedOrigins []string
	MetricsEnabled bool
}

// Server holds the router and its dependencies.
type Server struct {
	router  chi.Router
	service Downloads
	opts    Options
}

// NewServer builds the router with the full middleware stack and all routes
// registered.
func NewServer(service Downloads, opts Options) *Server {
	s := &Server{
		service: service,
		opts:    opts,
	}
	r := middleware.NewRouter(middleware.Options{
		AllowedOrigins: opts.AllowedOrigins,
		MetricsEnabled: opts.MetricsEnabled,
	})

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/info", s.handleInfo)
		r.Post("/download", s.handleDownload)
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)
	})
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	s.router = r
	return s
}

// Handler returns the root http.Handler for the daemon's listener.
func (s *Server) Handler() http.Handler { return s.router }
