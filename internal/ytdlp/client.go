// SPDX-License-Identifier: MIT

// Package ytdlp wraps the external video-extraction tool behind a small,
// error-translating client. The tool itself is an opaque binary: this package
// only marshals parameters in and metadata out.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

// browserUA is sent upstream to avoid bot-detection challenges on extraction.
const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// stderrTail limits how much tool output is carried inside a ToolError.
const stderrTail = 2048

// Config for the external-tool client.
type Config struct {
	YTDLPPath     string
	FFmpegPath    string
	MaxConcurrent int // bound on simultaneous tool invocations
}

// Client invokes the external extraction tool. Safe for concurrent use; the
// number of simultaneous subprocess invocations is bounded by a semaphore so
// downloads never starve the host.
type Client struct {
	ytdlpPath  string
	ffmpegPath string
	sem        *semaphore.Weighted
	logger     zerolog.Logger

	ffmpegOnce sync.Once
	ffmpegOK   bool
}

// New creates a client. The ffmpeg availability probe runs lazily, once.
func New(cfg Config) *Client {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	return &Client{
		ytdlpPath:  cfg.YTDLPPath,
		ffmpegPath: cfg.FFmpegPath,
		sem:        semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:     log.WithComponent("ytdlp"),
	}
}

// ExtractInfo fetches metadata for url without downloading anything.
func (c *Client) ExtractInfo(ctx context.Context, url string) (*Info, error) {
	args := []string{
		"--dump-json",
		"--no-warnings",
		"--no-playlist",
		"--extractor-args", "youtube:player_client=web",
		"--user-agent", browserUA,
		url,
	}

	cmd := exec.CommandContext(ctx, c.ytdlpPath, args...) // #nosec G204 -- binary path from config, url validated upstream
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ToolError{Tool: "yt-dlp", Output: tail(stderr.String()), Err: err}
	}

	var info Info
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		return nil, &ToolError{Tool: "yt-dlp", Output: "unparseable metadata output", Err: err}
	}
	return &info, nil
}

// Download runs the tool to download (and, depending on options, merge or
// re-encode) the media at opts.URL into opts.OutputTemplate. The call blocks
// until the tool exits; run it off the request path. Progress, when non-nil,
// is kept up to date from the tool's progress output.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) error {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire download slot: %w", err)
	}
	defer c.sem.Release(1)

	args := []string{
		"-f", opts.Format,
		"-o", opts.OutputTemplate,
		"--no-warnings",
		"--no-playlist",
		"--newline",
		"--extractor-args", "youtube:player_client=web",
		"--user-agent", browserUA,
	}
	if opts.MergeFormat != "" {
		args = append(args, "--merge-output-format", opts.MergeFormat)
	}
	if opts.ExtractAudio {
		args = append(args, "-x", "--audio-format", opts.AudioFormat)
		if opts.AudioQuality != "" {
			args = append(args, "--audio-quality", opts.AudioQuality)
		}
	}
	if c.ffmpegPath != "" && c.ffmpegPath != "ffmpeg" {
		args = append(args, "--ffmpeg-location", c.ffmpegPath)
	}
	args = append(args, opts.URL)

	cmd := exec.CommandContext(ctx, c.ytdlpPath, args...) // #nosec G204 -- binary path from config, url validated upstream
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &ToolError{Tool: "yt-dlp", Err: err}
	}

	if err := cmd.Start(); err != nil {
		return &ToolError{Tool: "yt-dlp", Err: err}
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		if opts.Progress == nil {
			continue
		}
		if p, ok := parseProgressLine(scanner.Text()); ok {
			opts.Progress.Set(p)
		}
	}

	if err := cmd.Wait(); err != nil {
		if opts.Progress != nil {
			opts.Progress.Set(Progress{Stage: StageFailed})
		}
		return &ToolError{Tool: "yt-dlp", Output: tail(stderr.String()), Err: err}
	}

	if opts.Progress != nil {
		opts.Progress.Set(Progress{Stage: StageCompleted, Percent: 100})
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = s[len(s)-stderrTail:]
	}
	return s
}
