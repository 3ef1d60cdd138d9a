// SPDX-License-Identifier: MIT
package downloader

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	downloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ytdl_downloads_total",
		Help: "Completed download attempts by media type and outcome.",
	}, []string{"type", "outcome"})

	downloadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ytdl_download_duration_seconds",
		Help:    "Wall-clock duration of download operations.",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	}, []string{"type"})
)

func recordDownload(mediaType, outcome string, elapsed time.Duration) {
	downloadsTotal.WithLabelValues(mediaType, outcome).Inc()
	downloadDuration.WithLabelValues(mediaType).Observe(elapsed.Seconds())
}
