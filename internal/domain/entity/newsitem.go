package entity

import "time"

// NewsItem is one ingested post owned by a channel.
// (ChannelID, ExternalID) is the sole deduplication key; the external id is
// only meaningful within its source channel. Items are created by the
// synchronizer and never updated in place.
type NewsItem struct {
	ID          int64
	ChannelID   int64
	Content     string
	MediaFile   *string
	PublishedAt time.Time
	ExternalID  int64
}

// NormalizedPublishedAt returns the publication timestamp in UTC.
// Upstream timestamps arrive in arbitrary zones; storage always holds UTC.
func (n *NewsItem) NormalizedPublishedAt() time.Time {
	return n.PublishedAt.UTC()
}
