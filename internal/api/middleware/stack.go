// SPDX-License-Identifier: MIT

// Package middleware assembles the HTTP middleware stack. Order matters:
// recovery wraps everything, the request ID must exist before anything logs,
// and the request logger runs last so it observes the final status code.
package middleware

import (
	"github.com/go-chi/chi/v5"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

// Options tune the stack per deployment.
type Options struct {
	AllowedOrigins []string
	MetricsEnabled bool
}

// NewRouter returns a chi router with the full stack applied.
func NewRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(Recovery)
	r.Use(RequestID)
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(SecurityHeaders)
	if opts.MetricsEnabled {
		r.Use(Metrics)
	}
	r.Use(Tracing)
	r.Use(log.Middleware())
	return r
}
