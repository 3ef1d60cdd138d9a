// SPDX-License-Identifier: MIT
package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var bytesStreamed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "ytdl_bytes_streamed_total",
	Help: "Total media bytes streamed to clients.",
})
