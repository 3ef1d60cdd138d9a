// SPDX-License-Identifier: MIT

package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

// Stage names for download progress.
const (
	StageStarting    = "starting"
	StageDownloading = "downloading"
	StageProcessing  = "processing"
	StageCompleted   = "completed"
	StageFailed      = "failed"
)

// Progress is a point-in-time snapshot of a running download.
type Progress struct {
	Stage   string  `json:"status"`
	Percent float64 `json:"percentage,omitempty"`
	Speed   string  `json:"speed,omitempty"`
	ETA     string  `json:"eta,omitempty"`
}

// ProgressState is a shared, thread-safe progress cell. The download goroutine
// writes the latest state; any other goroutine may read it at any time and
// always observes a complete snapshot.
type ProgressState struct {
	mu      sync.RWMutex
	current Progress
	logLim  *rate.Limiter
}

// NewProgressState returns a cell in the starting stage.
func NewProgressState() *ProgressState {
	return &ProgressState{
		current: Progress{Stage: StageStarting},
		// Progress lines arrive many times per second; log at most one.
		logLim: rate.NewLimiter(rate.Limit(1), 1),
	}
}

// Set replaces the latest progress snapshot.
func (s *ProgressState) Set(p Progress) {
	s.mu.Lock()
	s.current = p
	s.mu.Unlock()

	if s.logLim.Allow() {
		logger := log.WithComponent("ytdlp")
		logger.Debug().
			Str("stage", p.Stage).
			Float64("percent", p.Percent).
			Str("speed", p.Speed).
			Str("eta", p.ETA).
			Msg("download progress")
	}
}

// Latest returns the most recent progress snapshot.
func (s *ProgressState) Latest() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

var (
	downloadLineRe = regexp.MustCompile(`^\[download\]\s+([\d.]+)%`)
	speedRe        = regexp.MustCompile(`at\s+(\S+)`)
	etaRe          = regexp.MustCompile(`ETA\s+(\S+)`)
)

// parseProgressLine interprets one line of yt-dlp's --newline output.
// Non-progress lines return false.
func parseProgressLine(line string) (Progress, bool) {
	if m := downloadLineRe.FindStringSubmatch(line); m != nil {
		p := Progress{Stage: StageDownloading}
		p.Percent, _ = strconv.ParseFloat(m[1], 64)
		if sm := speedRe.FindStringSubmatch(line); sm != nil {
			p.Speed = sm[1]
		}
		if em := etaRe.FindStringSubmatch(line); em != nil {
			p.ETA = em[1]
		}
		if p.Percent >= 100 {
			p.Stage = StageProcessing
		}
		return p, true
	}
	// Post-processing markers: merge or audio extraction has begun.
	switch {
	case strings.HasPrefix(line, "[Merger]"),
		strings.HasPrefix(line, "[ExtractAudio]"),
		strings.HasPrefix(line, "[VideoConvertor]"):
		return Progress{Stage: StageProcessing, Percent: 100}, true
	}
	return Progress{}, false
}
