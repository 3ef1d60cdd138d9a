// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Agarwalchetan/YT-Downloader/internal/downloader"
	"github.com/Agarwalchetan/YT-Downloader/internal/log"
	"github.com/Agarwalchetan/YT-Downloader/internal/quality"
)

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP status codes. Invalid input is
// the client's fault; everything else is reported as a server-side failure
// with the detail kept in the logs, not the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.WithComponentFromContext(r.Context(), "api")
	switch {
	case errors.Is(err, downloader.ErrInvalidRequest), errors.Is(err, quality.ErrUnknownQuality):
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected request")
		writeJSON(w, http.StatusBadRequest, errorPayload{Error: err.Error()})
	case errors.Is(err, downloader.ErrExtraction), errors.Is(err, downloader.ErrDownload):
		// The message text is safe to return; it never carries stack detail,
		// only the normalized failure plus the tool's trailing output.
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("operation failed")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: err.Error()})
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("unexpected error")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Error: "internal server error"})
	}
}

// contentTypes maps output extensions (without dot) to media types. Unknown
// extensions fall back to a generic binary type.
var contentTypes = map[string]string{
	"mp4":  "video/mp4",
	"mkv":  "video/x-matroska",
	"webm": "video/webm",
	"avi":  "video/x-msvideo",
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"opus": "audio/opus",
	"ogg":  "audio/ogg",
}

// headerUnsafeChars strips anything that could break out of the
// Content-Disposition header value.
var headerUnsafeChars = regexp.MustCompile(`[^\w\s\-_\.]`)

func setDownloadHeaders(w http.ResponseWriter, filename, ext string, size int64) {
	ct, ok := contentTypes[ext]
	if !ok {
		ct = "application/octet-stream"
	}
	safe := headerUnsafeChars.ReplaceAllString(filename, "_")
	h := w.Header()
	h.Set("Content-Type", ct)
	h.Set("Content-Disposition", `attachment; filename="`+safe+`"`)
	h.Set("X-Content-Type-Options", "nosniff")
	if size > 0 {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
	}
}
