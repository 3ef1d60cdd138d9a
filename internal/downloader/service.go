// SPDX-License-Identifier: MIT

// Package downloader orchestrates the extraction tool, the quality matcher
// and the cleanup manager into the two user-facing operations: fetching
// metadata and downloading media at a chosen quality.
package downloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
	"github.com/Agarwalchetan/YT-Downloader/internal/quality"
	"github.com/Agarwalchetan/YT-Downloader/internal/ytdlp"
)

// Candidate output extensions probed after the external tool finishes: the
// merge or audio-extraction step may change the extension unpredictably.
var (
	videoExtensions = []string{".mp4", ".mkv", ".webm"}
	audioExtensions = []string{".mp3", ".m4a", ".webm", ".opus"}
)

const maxDescriptionLength = 500

// Extractor is the external-tool boundary the service depends on.
type Extractor interface {
	ExtractInfo(ctx context.Context, url string) (*ytdlp.Info, error)
	Download(ctx context.Context, opts ytdlp.DownloadOptions) error
	FFmpegAvailable() bool
	Version(ctx context.Context) (string, error)
}

// DeletionScheduler registers files for delayed removal. Implemented by
// cleanup.Manager.
type DeletionScheduler interface {
	ScheduleDeletion(path string, delay time.Duration)
}

// Options configure the service.
type Options struct {
	DownloadDir   string
	DownloadGrace time.Duration // delay before a streamed file is removed
}

// Service wires the orchestration together. Construct one at startup and
// share it across requests.
type Service struct {
	extractor Extractor
	scheduler DeletionScheduler
	dir       string
	grace     time.Duration
	logger    zerolog.Logger
}

// NewService creates the orchestrator.
func NewService(extractor Extractor, scheduler DeletionScheduler, opts Options) *Service {
	return &Service{
		extractor: extractor,
		scheduler: scheduler,
		dir:       opts.DownloadDir,
		grace:     opts.DownloadGrace,
		logger:    log.WithComponent("downloader"),
	}
}

// Status reports the reachability of the service and its external tools.
type Status struct {
	Backend      bool
	FFmpeg       bool
	YTDLP        bool
	YTDLPVersion string
}

// Status probes the external tools.
func (s *Service) Status(ctx context.Context) Status {
	st := Status{Backend: true, FFmpeg: s.extractor.FFmpegAvailable()}
	if v, err := s.extractor.Version(ctx); err == nil {
		st.YTDLP = true
		st.YTDLPVersion = v
	}
	return st
}

// StreamSummary describes the best available single stream of one kind.
type StreamSummary struct {
	Resolution string  `json:"resolution,omitempty"`
	FormatNote string  `json:"format_note,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
}

// VideoDetails is the metadata payload for the info operation.
type VideoDetails struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	Description       string           `json:"description,omitempty"`
	Duration          float64          `json:"duration,omitempty"`
	DurationFormatted string           `json:"duration_formatted,omitempty"`
	Thumbnail         string           `json:"thumbnail,omitempty"`
	Uploader          string           `json:"uploader,omitempty"`
	ViewCount         int64            `json:"view_count,omitempty"`
	UploadDate        string           `json:"upload_date,omitempty"`
	WebpageURL        string           `json:"webpage_url"`
	BestVideo         *StreamSummary   `json:"best_video,omitempty"`
	BestAudio         *StreamSummary   `json:"best_audio,omitempty"`
	VideoQualities    []quality.Option `json:"video_qualities"`
	AudioQualities    []quality.Option `json:"audio_qualities"`
}

// Info fetches metadata for url and reduces the raw format list to the
// selectable quality menus.
func (s *Service) Info(ctx context.Context, rawURL string) (*VideoDetails, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: url must be a valid http(s) address", ErrInvalidRequest)
	}

	info, err := s.extractor.ExtractInfo(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	formats := matcherFormats(info.Formats)
	details := &VideoDetails{
		ID:                info.ID,
		Title:             info.Title,
		Description:       truncate(info.Description, maxDescriptionLength),
		Duration:          info.Duration,
		DurationFormatted: info.DurationFormatted(),
		Thumbnail:         info.Thumbnail,
		Uploader:          info.Uploader,
		ViewCount:         info.ViewCount,
		UploadDate:        info.UploadDate,
		WebpageURL:        info.WebpageURL,
		BestVideo:         bestVideo(info.Formats),
		BestAudio:         bestAudio(info.Formats),
		VideoQualities:    quality.SelectVideoQualities(formats),
		AudioQualities:    quality.SelectAudioQualities(formats),
	}
	if details.WebpageURL == "" {
		details.WebpageURL = rawURL
	}
	if details.Title == "" {
		details.Title = "Unknown"
	}

	s.logger.Info().
		Str("event", "info.fetched").
		Str("video_id", details.ID).
		Int("video_qualities", len(details.VideoQualities)).
		Int("audio_qualities", len(details.AudioQualities)).
		Msg("video info fetched")
	return details, nil
}

// Request describes one download operation.
type Request struct {
	URL     string
	Type    quality.MediaType
	Quality string // quality ID such as "720p" or "192kbps"; empty means best
}

// Result is a finished download: a file on disk already registered for
// delayed deletion, plus the client-facing filename.
type Result struct {
	Path     string
	Filename string
	Size     int64
}

// Download performs the full orchestration: build the format selection for
// the requested quality, invoke the external tool, locate the output file
// among the candidate extensions, and register it with the cleanup manager
// before returning. The returned file is guaranteed to be swept eventually
// even if the caller never reads it.
func (s *Service) Download(ctx context.Context, req Request) (*Result, error) {
	if err := ValidateURL(req.URL); err != nil {
		return nil, fmt.Errorf("%w: url must be a valid http(s) address", ErrInvalidRequest)
	}
	if req.Type != quality.Video && req.Type != quality.Audio {
		return nil, fmt.Errorf("%w: unsupported download type %q", ErrInvalidRequest, req.Type)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create download directory: %v", ErrDownload, err)
	}

	// Random suffix keeps concurrent downloads of the same source from
	// overwriting each other's output.
	uid := uuid.New().String()[:8]
	opts := ytdlp.DownloadOptions{
		URL:            req.URL,
		OutputTemplate: filepath.Join(s.dir, "%(title)s_"+uid+".%(ext)s"),
		Progress:       ytdlp.NewProgressState(),
	}

	ffmpegOK := s.extractor.FFmpegAvailable()
	var candidates []string
	switch req.Type {
	case quality.Audio:
		kbps, err := quality.AudioQualityKbps(req.Quality)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		opts.Format = "bestaudio/best"
		if ffmpegOK {
			opts.ExtractAudio = true
			opts.AudioFormat = "mp3"
			opts.AudioQuality = kbps
		}
		candidates = audioExtensions
	default:
		expr, err := quality.VideoFormatExpr(req.Quality, ffmpegOK)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		opts.Format = expr
		if ffmpegOK {
			opts.MergeFormat = "mp4"
		}
		candidates = videoExtensions
	}

	start := time.Now()
	if err := s.extractor.Download(ctx, opts); err != nil {
		recordDownload(string(req.Type), "error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrDownload, err)
	}

	path, ext, err := s.locateOutput(uid, candidates)
	if err != nil {
		recordDownload(string(req.Type), "missing_output", time.Since(start))
		return nil, err
	}

	// Register for deletion before handing the path out, so a crash in the
	// response layer can never leak the file indefinitely.
	s.scheduler.ScheduleDeletion(path, s.grace)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: stat output: %v", ErrDownload, err)
	}

	title := strings.TrimSuffix(filepath.Base(path), "_"+uid+ext)
	result := &Result{
		Path:     path,
		Filename: SanitizeFilename(title) + ext,
		Size:     fi.Size(),
	}

	recordDownload(string(req.Type), "ok", time.Since(start))
	s.logger.Info().
		Str("event", "download.done").
		Str("quality", req.Quality).
		Str("type", string(req.Type)).
		Str("path", path).
		Int64("bytes", result.Size).
		Dur("duration", time.Since(start)).
		Msg("download completed")
	return result, nil
}

// locateOutput finds the tool's output file by its unique suffix, probing the
// candidate extensions in preference order. No match means the tool reported
// success without producing a usable file.
func (s *Service) locateOutput(uid string, candidates []string) (path, ext string, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", "", fmt.Errorf("%w: list download directory: %v", ErrDownload, err)
	}
	for _, wantExt := range candidates {
		suffix := "_" + uid + wantExt
		for _, entry := range entries {
			if !entry.Type().IsRegular() {
				continue
			}
			if strings.HasSuffix(entry.Name(), suffix) {
				return filepath.Join(s.dir, entry.Name()), wantExt, nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: completed but no output file found", ErrDownload)
}

func matcherFormats(formats []ytdlp.Format) []quality.Format {
	out := make([]quality.Format, len(formats))
	for i, f := range formats {
		out[i] = quality.Format{
			Height: f.Height,
			VCodec: f.VCodec,
			ACodec: f.ACodec,
			ABR:    f.ABR,
			TBR:    f.TBR,
		}
	}
	return out
}

// bestVideo picks the highest video-only variant by (height, total bitrate).
func bestVideo(formats []ytdlp.Format) *StreamSummary {
	var pool []ytdlp.Format
	for _, f := range formats {
		q := quality.Format{VCodec: f.VCodec, ACodec: f.ACodec}
		if q.HasVideo() && !q.HasAudio() {
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		return nil
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Height != pool[j].Height {
			return pool[i].Height > pool[j].Height
		}
		return pool[i].TBR > pool[j].TBR
	})
	best := pool[0]
	res := best.Resolution
	if res == "" && best.Height > 0 {
		res = fmt.Sprintf("%dx%d", best.Width, best.Height)
	}
	return &StreamSummary{Resolution: res, FormatNote: best.FormatNote, FPS: best.FPS}
}

// bestAudio picks the highest audio-only variant by effective bitrate.
func bestAudio(formats []ytdlp.Format) *StreamSummary {
	var best *ytdlp.Format
	var bestBR float64
	for i, f := range formats {
		q := quality.Format{VCodec: f.VCodec, ACodec: f.ACodec, ABR: f.ABR, TBR: f.TBR}
		if !q.HasAudio() || q.HasVideo() {
			continue
		}
		if br := q.EffectiveBitrate(); best == nil || br > bestBR {
			best, bestBR = &formats[i], br
		}
	}
	if best == nil {
		return nil
	}
	return &StreamSummary{FormatNote: best.FormatNote}
}

// truncate cuts s to at most n bytes without splitting a multi-byte rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
