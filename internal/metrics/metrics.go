// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FramesDropped counts frames rejected by sender verification.
	FramesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_frames_dropped_total",
		Help: "Total number of captured frames that failed sender verification",
	})

	// BlocksProcessed counts data blocks admitted to the reorder buffer.
	BlocksProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_blocks_processed_total",
		Help: "Total number of data blocks processed",
	})

	// BlocksLost counts sequence gaps detected at flush time.
	BlocksLost = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_blocks_lost_total",
		Help: "Total number of data blocks detected as missing",
	})

	// ChecksumErrors counts blocks whose trailer checksum did not match.
	ChecksumErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_checksum_errors_total",
		Help: "Total number of blocks with an invalid trailer checksum",
	})

	// FillerBytes counts bytes of filler substituted for lost blocks.
	FillerBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_filler_bytes_total",
		Help: "Total bytes of filler written in place of lost blocks",
	})

	// BytesWritten counts reconstructed payload bytes written to the sink.
	BytesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "airlink_bytes_written_total",
		Help: "Total bytes of reconstructed data written to the sink",
	})

	// SessionActive reports whether a capture session is currently running.
	SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "airlink_session_active",
		Help: "Whether a capture session is active (0 or 1)",
	})
)
