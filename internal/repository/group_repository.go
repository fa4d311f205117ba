package repository

import (
	"context"

	"telenews/internal/domain/entity"
)

type GroupRepository interface {
	Get(ctx context.Context, id int64) (*entity.ChannelGroup, error)
	// GetByName retrieves a group by its unique name.
	// Returns (nil, nil) if no group with that name exists.
	GetByName(ctx context.Context, name string) (*entity.ChannelGroup, error)
	List(ctx context.Context) ([]*entity.ChannelGroup, error)
	Create(ctx context.Context, group *entity.ChannelGroup) error
	Delete(ctx context.Context, id int64) error
}
