package news_test

import (
	"context"
	"testing"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
	newsUC "telenews/internal/usecase/news"
)

type captureItemRepo struct {
	gotFilters repository.NewsItemFilters
	gotOffset  int
	gotLimit   int
	items      []repository.NewsItemWithChannel
}

func (c *captureItemRepo) ListWithChannelPaginated(_ context.Context, filters repository.NewsItemFilters, offset, limit int) ([]repository.NewsItemWithChannel, error) {
	c.gotFilters = filters
	c.gotOffset = offset
	c.gotLimit = limit
	return c.items, nil
}

func (c *captureItemRepo) ExistsByExternalIDBatch(_ context.Context, _ int64, _ []int64) (map[int64]bool, error) {
	return nil, nil
}
func (c *captureItemRepo) CreateBatch(_ context.Context, _ []*entity.NewsItem) error { return nil }
func (c *captureItemRepo) DeleteAll(_ context.Context) error                         { return nil }
func (c *captureItemRepo) ListMediaFiles(_ context.Context) ([]string, error)        { return nil, nil }

func TestList_DefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name       string
		in         newsUC.ListInput
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", in: newsUC.ListInput{}, wantOffset: 0, wantLimit: 50},
		{name: "negative skip clamped", in: newsUC.ListInput{Skip: -3}, wantOffset: 0, wantLimit: 50},
		{name: "explicit paging", in: newsUC.ListInput{Skip: 20, Limit: 10}, wantOffset: 20, wantLimit: 10},
		{name: "oversized limit clamped", in: newsUC.ListInput{Limit: 10000}, wantOffset: 0, wantLimit: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &captureItemRepo{}
			svc := &newsUC.Service{Items: repo}

			if _, err := svc.List(context.Background(), tt.in); err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if repo.gotOffset != tt.wantOffset {
				t.Errorf("offset = %d, want %d", repo.gotOffset, tt.wantOffset)
			}
			if repo.gotLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", repo.gotLimit, tt.wantLimit)
			}
		})
	}
}

func TestList_PassesGroupFilter(t *testing.T) {
	repo := &captureItemRepo{}
	svc := &newsUC.Service{Items: repo}
	groupID := int64(4)

	if _, err := svc.List(context.Background(), newsUC.ListInput{GroupID: &groupID}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if repo.gotFilters.GroupID == nil || *repo.gotFilters.GroupID != 4 {
		t.Errorf("GroupID filter = %v, want 4", repo.gotFilters.GroupID)
	}
}
