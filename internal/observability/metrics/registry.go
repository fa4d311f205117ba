// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sync metrics track channel synchronization behavior and performance.
var (
	// ChannelSyncsTotal counts sync passes per channel by result.
	// Result is one of "new_items", "no_change", "soft_failure", "storage_failure", "skipped".
	ChannelSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telenews_channel_syncs_total",
			Help: "Total number of channel sync passes by result",
		},
		[]string{"result"},
	)

	// ChannelSyncDuration measures the duration of a single channel sync.
	ChannelSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telenews_channel_sync_duration_seconds",
			Help:    "Duration of a single channel sync pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ItemsIngestedTotal counts news items stored by the synchronizer.
	ItemsIngestedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telenews_items_ingested_total",
			Help: "Total number of news items stored",
		},
	)

	// MediaDownloadsTotal counts attachment downloads by status.
	MediaDownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telenews_media_downloads_total",
			Help: "Total number of attachment downloads by status",
		},
		[]string{"status"},
	)

	// BatchRunsTotal counts whole-batch runs by trigger and outcome.
	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telenews_batch_runs_total",
			Help: "Total number of batch sync runs by trigger",
		},
		[]string{"trigger"},
	)

	// BatchRunDuration measures whole-batch run duration.
	BatchRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telenews_batch_run_duration_seconds",
			Help:    "Duration of a whole-batch sync run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// ChannelsTotal tracks the number of registered channels.
	ChannelsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "telenews_channels_total",
			Help: "Number of registered channels",
		},
	)
)
