package repository

import (
	"context"
	"time"

	"telenews/internal/domain/entity"
)

type ChannelRepository interface {
	Get(ctx context.Context, id int64) (*entity.Channel, error)
	// GetByName retrieves a channel by its unique name.
	// Returns (nil, nil) if no channel with that name exists.
	GetByName(ctx context.Context, name string) (*entity.Channel, error)
	List(ctx context.Context) ([]*entity.Channel, error)
	Create(ctx context.Context, channel *entity.Channel) error
	Update(ctx context.Context, channel *entity.Channel) error
	Delete(ctx context.Context, id int64) error
	// TouchSyncedAt advances the channel's freshness watermark.
	// Only the synchronizer calls this, and only after storing new items.
	TouchSyncedAt(ctx context.Context, id int64, t time.Time) error
	// DetachGroup clears the group association for every channel in the group.
	DetachGroup(ctx context.Context, groupID int64) error
}
