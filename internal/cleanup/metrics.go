// SPDX-License-Identifier: MIT

package cleanup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytdl_cleanup_files_swept_total",
		Help: "Number of files removed by the periodic sweep",
	})

	scheduledDeletions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytdl_cleanup_scheduled_deletions_total",
		Help: "Number of one-off file deletions scheduled",
	})

	deleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ytdl_cleanup_delete_failures_total",
		Help: "Number of file deletions that failed (excluding already-missing files)",
	})
)
