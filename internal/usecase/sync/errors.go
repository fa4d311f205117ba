// Package sync implements the channel synchronization engine: per-channel
// reconciliation of recent upstream posts against stored history, batch
// coordination across channels, and the destructive full-resync path.
package sync

import (
	"errors"
	"fmt"
)

// Sentinel errors for source adapter operations. Both classes are soft from
// the synchronizer's point of view: they are logged, the pass yields zero new
// items, and the channel watermark is left untouched.
var (
	// ErrChannelNotFound indicates the external source does not know the
	// channel name, or the channel is not accessible.
	ErrChannelNotFound = errors.New("channel not found on source")

	// ErrSourceUnavailable indicates the external source could not be reached:
	// upstream timeout, rate limiting, or an open circuit breaker.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// MediaDownloadError reports a failed attachment download. It is contained
// per attachment: the owning item is still stored with a null media reference.
type MediaDownloadError struct {
	URL string
	Err error
}

// Error returns a formatted error message for the download failure.
func (e *MediaDownloadError) Error() string {
	return fmt.Sprintf("download media %q: %v", e.URL, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *MediaDownloadError) Unwrap() error {
	return e.Err
}
