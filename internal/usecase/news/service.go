// Package news provides read-side use cases over ingested news items.
package news

import (
	"context"
	"fmt"

	"telenews/internal/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ListInput carries paging and filtering parameters for the news feed.
type ListInput struct {
	GroupID *int64
	Skip    int
	Limit   int
}

// Service provides news listing use cases. Items are created only by the
// synchronizer; this service never writes.
type Service struct {
	Items repository.NewsItemRepository
}

// List returns ingested items newest-first with their channel names.
func (s *Service) List(ctx context.Context, in ListInput) ([]repository.NewsItemWithChannel, error) {
	if in.Skip < 0 {
		in.Skip = 0
	}
	if in.Limit <= 0 {
		in.Limit = defaultLimit
	}
	if in.Limit > maxLimit {
		in.Limit = maxLimit
	}

	items, err := s.Items.ListWithChannelPaginated(ctx,
		repository.NewsItemFilters{GroupID: in.GroupID}, in.Skip, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	return items, nil
}
