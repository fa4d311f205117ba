package metrics

import "time"

// Sync pass results recorded via RecordChannelSync.
const (
	SyncResultNewItems       = "new_items"
	SyncResultNoChange       = "no_change"
	SyncResultSoftFailure    = "soft_failure"
	SyncResultStorageFailure = "storage_failure"
	SyncResultSkipped        = "skipped"
)

// RecordChannelSync records one sync pass for a channel.
func RecordChannelSync(result string, duration time.Duration, inserted int) {
	ChannelSyncsTotal.WithLabelValues(result).Inc()
	ChannelSyncDuration.Observe(duration.Seconds())
	if inserted > 0 {
		ItemsIngestedTotal.Add(float64(inserted))
	}
}

// RecordMediaDownload records the outcome of one attachment download.
func RecordMediaDownload(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	MediaDownloadsTotal.WithLabelValues(status).Inc()
}

// RecordBatchRun records a whole-batch run. Trigger is "scheduled",
// "manual_resync" or "registration".
func RecordBatchRun(trigger string, duration time.Duration) {
	BatchRunsTotal.WithLabelValues(trigger).Inc()
	BatchRunDuration.Observe(duration.Seconds())
}

// UpdateChannelsTotal updates the registered-channel gauge.
func UpdateChannelsTotal(count int) {
	ChannelsTotal.Set(float64(count))
}
