// SPDX-License-Identifier: MIT
package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

// Recovery converts handler panics into 500 responses instead of tearing
// down the connection. It must sit at the top of the stack so it covers
// every other middleware.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger := log.WithComponentFromContext(r.Context(), "api")
				logger.Error().
					Interface("panic", rec).
					Str("path", r.URL.Path).
					Bytes("stack", debug.Stack()).
					Msg("handler panicked")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
