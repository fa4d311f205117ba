package channel

import (
	"context"
	"fmt"
	"log/slog"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
)

// RegistrationSyncer runs the immediate best-effort sync for a newly
// registered channel. It is the coordinator's single-channel entry point,
// so registration syncs respect the full-resync lock.
type RegistrationSyncer interface {
	SyncOne(ctx context.Context, ch *entity.Channel) (int, error)
}

// OrphanSweeper removes media files stranded by a channel deletion cascade.
type OrphanSweeper interface {
	SweepOrphanMedia(ctx context.Context) (int, error)
}

// TaskRunner schedules tracked background work.
type TaskRunner interface {
	Go(name string, fn func(ctx context.Context))
}

// CreateInput represents the input parameters for registering a channel.
type CreateInput struct {
	Name    string
	GroupID *int64
}

// UpdateInput represents the input parameters for updating a channel.
// An empty Name keeps the current one; GroupID is applied as given, so nil
// detaches the channel from its group.
type UpdateInput struct {
	ID      int64
	Name    string
	GroupID *int64
}

// Service provides channel management use cases.
type Service struct {
	Channels repository.ChannelRepository
	Groups   repository.GroupRepository
	Syncer   RegistrationSyncer
	Sweeper  OrphanSweeper
	Tasks    TaskRunner
}

// List retrieves all registered channels.
func (s *Service) List(ctx context.Context) ([]*entity.Channel, error) {
	channels, err := s.Channels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// Register creates a channel and kicks off an immediate background sync for
// it. The sync is best-effort: registration succeeds even when the first
// fetch later fails.
func (s *Service) Register(ctx context.Context, in CreateInput) (*entity.Channel, error) {
	ch := &entity.Channel{Name: in.Name, GroupID: in.GroupID}
	if err := ch.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Channels.GetByName(ctx, ch.Name)
	if err != nil {
		return nil, fmt.Errorf("check channel name: %w", err)
	}
	if existing != nil {
		return nil, ErrChannelExists
	}

	if in.GroupID != nil {
		group, err := s.Groups.Get(ctx, *in.GroupID)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if group == nil {
			return nil, ErrGroupNotFound
		}
	}

	if err := s.Channels.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	s.Tasks.Go("initial-sync-"+ch.Name, func(taskCtx context.Context) {
		if _, err := s.Syncer.SyncOne(taskCtx, ch); err != nil {
			slog.Warn("initial sync failed",
				slog.Int64("channel_id", ch.ID),
				slog.String("channel", ch.Name),
				slog.Any("error", err))
		}
	})

	return ch, nil
}

// Update renames and/or regroups a channel.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Channel, error) {
	if in.ID <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	ch, err := s.Channels.Get(ctx, in.ID)
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	if in.Name != "" {
		ch.Name = in.Name
		if err := ch.Validate(); err != nil {
			return nil, err
		}
	}
	if in.GroupID != nil {
		group, err := s.Groups.Get(ctx, *in.GroupID)
		if err != nil {
			return nil, fmt.Errorf("check group: %w", err)
		}
		if group == nil {
			return nil, ErrGroupNotFound
		}
	}
	ch.GroupID = in.GroupID

	if err := s.Channels.Update(ctx, ch); err != nil {
		return nil, fmt.Errorf("update channel: %w", err)
	}
	return ch, nil
}

// Delete removes a channel. Its news items go with it via the cascade, and
// a media sweep runs afterwards to collect the files they referenced.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	ch, err := s.Channels.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}

	if err := s.Channels.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}

	if _, err := s.Sweeper.SweepOrphanMedia(ctx); err != nil {
		// The channel is gone; stranded files only cost disk until the next sweep.
		slog.Warn("media sweep after channel deletion failed", slog.Any("error", err))
	}
	return nil
}
