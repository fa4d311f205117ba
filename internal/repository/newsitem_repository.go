package repository

import (
	"context"

	"telenews/internal/domain/entity"
)

// NewsItemWithChannel represents a news item along with its channel name.
type NewsItemWithChannel struct {
	Item        *entity.NewsItem
	ChannelName string
}

// NewsItemFilters contains optional filters for news listing.
type NewsItemFilters struct {
	GroupID *int64 // Optional: only items whose channel belongs to this group
}

type NewsItemRepository interface {
	// ListWithChannelPaginated retrieves news items newest-first with their
	// channel names, using LIMIT and OFFSET for pagination.
	ListWithChannelPaginated(ctx context.Context, filters NewsItemFilters, offset, limit int) ([]NewsItemWithChannel, error)
	// ExistsByExternalIDBatch reports, for each external id, whether an item
	// already exists for the given channel. Identity is channel-scoped: the
	// same external id under a different channel is not a duplicate.
	ExistsByExternalIDBatch(ctx context.Context, channelID int64, externalIDs []int64) (map[int64]bool, error)
	// CreateBatch stores the staged items in a single transaction so a
	// cancelled sync leaves either all of a channel's new rows or none.
	CreateBatch(ctx context.Context, items []*entity.NewsItem) error
	// DeleteAll removes every news item across all channels. Used only by the
	// destructive phase of a full resync.
	DeleteAll(ctx context.Context) error
	// ListMediaFiles returns the set of media filenames referenced by stored
	// items, for orphan sweeps of the media directory.
	ListMediaFiles(ctx context.Context) ([]string, error)
}
