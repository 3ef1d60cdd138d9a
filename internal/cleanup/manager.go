// SPDX-License-Identifier: MIT

// Package cleanup guarantees that temporary download files are eventually
// removed from disk, without blocking the request path and without requiring
// callers to track file handles.
package cleanup

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Agarwalchetan/YT-Downloader/internal/log"
)

// stopJoinTimeout bounds how long Stop waits for the sweep loop to exit.
const stopJoinTimeout = 5 * time.Second

// Manager owns the two cleanup mechanisms for the download directory:
// one-off delayed deletions and a periodic age-based sweep.
//
// Construct exactly one Manager at process startup and share it by reference.
type Manager struct {
	dir    string
	maxAge time.Duration
	logger zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	timers  map[*time.Timer]struct{}
}

// New creates a Manager sweeping dir for files older than maxAge.
func New(dir string, maxAge time.Duration) *Manager {
	return &Manager{
		dir:    dir,
		maxAge: maxAge,
		logger: log.WithComponent("cleanup"),
		timers: make(map[*time.Timer]struct{}),
	}
}

// DeleteFile removes the file at path. It reports whether a file was actually
// deleted and never returns or panics with an error: a missing file is a
// no-op, and permission or I/O failures are logged and swallowed. Callers are
// background tasks with nobody listening for errors.
func (m *Manager) DeleteFile(path string) bool {
	err := os.Remove(path)
	switch {
	case err == nil:
		m.logger.Info().Str("event", "file.deleted").Str("path", path).Msg("deleted file")
		return true
	case os.IsNotExist(err):
		return false
	case os.IsPermission(err):
		m.logger.Warn().Str("event", "file.delete_denied").Str("path", path).Msg("permission denied when deleting")
		deleteFailures.Inc()
		return false
	default:
		m.logger.Error().Err(err).Str("event", "file.delete_failed").Str("path", path).Msg("error deleting file")
		deleteFailures.Inc()
		return false
	}
}

// ScheduleDeletion registers a one-off timer that deletes path after delay.
// Used after a file has been streamed to a client, with a grace delay so a
// slow consumer can finish reading. A failed deletion is not retried; the
// periodic sweep is the backstop.
func (m *Manager) ScheduleDeletion(path string, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// The fired callback drops its own tracking entry so the timer set stays
	// bounded by the number of pending deletions, not downloads ever served.
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		m.DeleteFile(path)
		m.mu.Lock()
		delete(m.timers, timer)
		m.mu.Unlock()
	})
	m.timers[timer] = struct{}{}
	scheduledDeletions.Inc()

	m.logger.Info().
		Str("event", "deletion.scheduled").
		Str("path", path).
		Dur("delay", delay).
		Msg("scheduled file deletion")
}

// Sweep deletes every regular file in the managed directory whose
// modification time is older than the max age. One bad file never aborts the
// sweep. Returns the number of files deleted.
func (m *Manager) Sweep() int {
	cutoff := time.Now().Add(-m.maxAge)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		m.logger.Error().Err(err).Str("event", "sweep.list_failed").Str("path", m.dir).Msg("cannot list download directory")
		return 0
	}

	deleted := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			m.logger.Error().Err(err).Str("event", "sweep.stat_failed").Str("path", entry.Name()).Msg("cannot stat file")
			continue
		}
		if info.ModTime().Before(cutoff) {
			if m.DeleteFile(filepath.Join(m.dir, entry.Name())) {
				deleted++
			}
		}
	}

	if deleted > 0 {
		filesSwept.Add(float64(deleted))
		m.logger.Info().Str("event", "sweep.done").Int("deleted", deleted).Msg("cleaned up old files")
	}
	return deleted
}

// Start launches the periodic sweep loop. Starting an already running
// manager is a no-op.
func (m *Manager) Start(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	go m.loop(interval, m.stopCh, m.doneCh)

	m.logger.Info().
		Str("event", "cleanup.started").
		Dur("interval", interval).
		Dur("max_age", m.maxAge).
		Str("path", m.dir).
		Msg("started periodic cleanup")
}

func (m *Manager) loop(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Immediate pass on startup, then on every tick.
	m.Sweep()
	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-stop:
			return
		}
	}
}

// Stop terminates the sweep loop and cancels pending one-off timers. It
// waits for the loop to exit, but no longer than a bounded join window, and
// is intended to be called exactly once at process shutdown.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	done := m.doneCh
	for t := range m.timers {
		t.Stop()
	}
	m.timers = make(map[*time.Timer]struct{})
	m.mu.Unlock()

	select {
	case <-done:
		m.logger.Info().Str("event", "cleanup.stopped").Msg("stopped periodic cleanup")
	case <-time.After(stopJoinTimeout):
		m.logger.Warn().Str("event", "cleanup.stop_timeout").Msg("sweep loop did not stop within join window")
	}
}
