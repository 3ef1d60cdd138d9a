// SPDX-License-Identifier: MIT
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and echoes it on the
// response. An incoming X-Request-ID is trusted if present so IDs survive
// proxy hops.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := log.ContextWithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
