// Package group provides use cases for managing channel groups.
package group

import (
	"context"
	"errors"
	"fmt"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
)

// Sentinel errors for group use case operations.
var (
	// ErrGroupNotFound indicates that the requested group was not found.
	ErrGroupNotFound = errors.New("group not found")

	// ErrGroupExists indicates that a group with the same name already exists.
	ErrGroupExists = errors.New("group already exists")
)

// Service provides channel group management use cases.
type Service struct {
	Groups   repository.GroupRepository
	Channels repository.ChannelRepository
}

// List retrieves all groups.
func (s *Service) List(ctx context.Context) ([]*entity.ChannelGroup, error) {
	groups, err := s.Groups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// Create creates a new group with a unique name.
func (s *Service) Create(ctx context.Context, name string) (*entity.ChannelGroup, error) {
	g := &entity.ChannelGroup{Name: name}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Groups.GetByName(ctx, g.Name)
	if err != nil {
		return nil, fmt.Errorf("check group name: %w", err)
	}
	if existing != nil {
		return nil, ErrGroupExists
	}

	if err := s.Groups.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

// Delete removes a group. Member channels are detached, never deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	g, err := s.Groups.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return ErrGroupNotFound
	}

	if err := s.Channels.DetachGroup(ctx, id); err != nil {
		return fmt.Errorf("detach channels: %w", err)
	}
	if err := s.Groups.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
