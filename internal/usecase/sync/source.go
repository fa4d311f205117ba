package sync

import (
	"context"
	"time"
)

// Handle identifies a channel resolved on the external source.
// It is opaque to the synchronizer beyond being passed back to ListRecent.
type Handle struct {
	Name    string
	FeedURL string
	Title   string
}

// Attachment is a downloadable media reference attached to a post.
// Channel and ExternalID carry the post identity so stored filenames can be
// derived from it rather than from any process-local state.
type Attachment struct {
	URL        string
	Channel    string
	ExternalID int64
}

// Post is one upstream post as returned by the source adapter.
// Order within a fetched window is not significant; only identity matters.
type Post struct {
	ExternalID  int64
	Text        string
	PublishedAt time.Time
	Attachment  *Attachment
}

// ChannelSource abstracts the external read-only feed.
//
// Resolve fails with ErrChannelNotFound or ErrSourceUnavailable.
// ListRecent returns up to limit most recent posts in unspecified order.
// DownloadAttachment stores the attachment under destDir and returns the
// stored filename; failures are reported as *MediaDownloadError.
type ChannelSource interface {
	Resolve(ctx context.Context, name string) (*Handle, error)
	ListRecent(ctx context.Context, handle *Handle, limit int) ([]Post, error)
	DownloadAttachment(ctx context.Context, att *Attachment, destDir string) (string, error)
}

// MediaStore abstracts the flat content directory holding downloaded
// attachments.
type MediaStore interface {
	// Dir returns the directory attachments are downloaded into.
	Dir() string
	// Purge removes every file in the store.
	Purge() error
	// SweepOrphans removes files not present in the referenced set and
	// returns the number removed.
	SweepOrphans(referenced []string) (int, error)
}
