// SPDX-License-Identifier: MIT
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Agarwalchetan/YT-Downloader/internal/downloader"
	"github.com/Agarwalchetan/YT-Downloader/internal/log"
	"github.com/Agarwalchetan/YT-Downloader/internal/quality"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "yt-downloader",
		"version": s.opts.Version,
		"endpoints": []string{
			"GET /api/status",
			"POST /api/info",
			"POST /api/download",
			"GET /api/health",
			"GET /api/ready",
		},
	})
}

type statusResponse struct {
	Backend      bool    `json:"backend"`
	FFmpeg       bool    `json:"ffmpeg"`
	YTDLP        bool    `json:"ytdlp"`
	YTDLPVersion *string `json:"ytdlp_version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status(r.Context())
	resp := statusResponse{
		Backend: st.Backend,
		FFmpeg:  st.FFmpeg,
		YTDLP:   st.YTDLP,
	}
	if st.YTDLPVersion != "" {
		resp.YTDLPVersion = &st.YTDLPVersion
	}
	writeJSON(w, http.StatusOK, resp)
}

type infoRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	var req infoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed request body", downloader.ErrInvalidRequest))
		return
	}
	if req.URL == "" {
		writeError(w, r, fmt.Errorf("%w: missing url", downloader.ErrInvalidRequest))
		return
	}
	details, err := s.service.Info(r.Context(), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

type downloadRequest struct {
	URL          string `json:"url"`
	DownloadType string `json:"download_type"`
	Quality      string `json:"quality"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("%w: malformed request body", downloader.ErrInvalidRequest))
		return
	}
	if req.URL == "" {
		writeError(w, r, fmt.Errorf("%w: missing url", downloader.ErrInvalidRequest))
		return
	}
	mediaType := quality.MediaType(req.DownloadType)
	if mediaType == "" {
		mediaType = quality.Video
	}

	res, err := s.service.Download(r.Context(), downloader.Request{
		URL:     req.URL,
		Type:    mediaType,
		Quality: req.Quality,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	f, err := os.Open(res.Path)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: open output: %v", downloader.ErrDownload, err))
		return
	}
	defer f.Close()

	ext := strings.TrimPrefix(filepath.Ext(res.Filename), ".")
	setDownloadHeaders(w, res.Filename, ext, res.Size)
	n, err := io.Copy(w, f)
	bytesStreamed.Add(float64(n))
	if err != nil {
		// Headers are gone; all we can do is log the broken transfer.
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Err(err).
			Int64("bytes_sent", n).
			Int64("bytes_total", res.Size).
			Msg("download stream interrupted")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports 503 until the external downloader tool is reachable,
// so orchestrators hold traffic from instances that cannot serve downloads.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	st := s.service.Status(r.Context())
	if !st.YTDLP {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "reason": "yt-dlp not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
