package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"telenews/internal/domain/entity"
	"telenews/internal/observability/metrics"
	"telenews/internal/repository"
)

// DefaultWindow is the fixed count of most-recent upstream posts fetched
// per sync pass.
const DefaultWindow = 40

// Service synchronizes a single channel: it fetches the recent window from
// the source, reconciles it against stored history, downloads new media and
// persists the new records before advancing the channel's watermark.
type Service struct {
	Channels repository.ChannelRepository
	Items    repository.NewsItemRepository
	Source   ChannelSource
	Media    MediaStore
	Window   int

	guard *channelGuard
}

// NewService creates a synchronizer over the given collaborators.
// A window of 0 falls back to DefaultWindow.
func NewService(
	channels repository.ChannelRepository,
	items repository.NewsItemRepository,
	source ChannelSource,
	media MediaStore,
	window int,
) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{
		Channels: channels,
		Items:    items,
		Source:   source,
		Media:    media,
		Window:   window,
		guard:    newChannelGuard(),
	}
}

// SyncChannel runs one sync pass for a channel and returns the number of
// newly stored items.
//
// Fetch-side failures (unresolvable channel, unreachable source, timeouts)
// are contained: they are logged and yield (0, nil) with the watermark left
// untouched. A failed attachment download is contained per item. Only
// storage failures return a non-nil error; they abort this channel's pass
// and leave previously committed state intact.
//
// A pass that finds another sync in flight for the same channel returns
// (0, nil) immediately instead of blocking.
func (s *Service) SyncChannel(ctx context.Context, ch *entity.Channel) (int, error) {
	logger := slog.Default()
	start := time.Now()

	if !s.guard.TryLock(ch.ID) {
		logger.Info("sync already in flight, skipping",
			slog.Int64("channel_id", ch.ID),
			slog.String("channel", ch.Name))
		metrics.RecordChannelSync(metrics.SyncResultSkipped, time.Since(start), 0)
		return 0, nil
	}
	defer s.guard.Unlock(ch.ID)

	handle, err := s.Source.Resolve(ctx, ch.Name)
	if err != nil {
		logger.Warn("channel resolution failed",
			slog.Int64("channel_id", ch.ID),
			slog.String("channel", ch.Name),
			slog.Any("error", err))
		metrics.RecordChannelSync(metrics.SyncResultSoftFailure, time.Since(start), 0)
		return 0, nil
	}

	posts, err := s.Source.ListRecent(ctx, handle, s.Window)
	if err != nil {
		logger.Warn("failed to list recent posts",
			slog.Int64("channel_id", ch.ID),
			slog.String("channel", ch.Name),
			slog.Any("error", err))
		metrics.RecordChannelSync(metrics.SyncResultSoftFailure, time.Since(start), 0)
		return 0, nil
	}

	// Posts with neither text nor attachment carry no displayable content.
	candidates := make([]Post, 0, len(posts))
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		if p.Text == "" && p.Attachment == nil {
			continue
		}
		candidates = append(candidates, p)
		ids = append(ids, p.ExternalID)
	}
	if len(candidates) == 0 {
		metrics.RecordChannelSync(metrics.SyncResultNoChange, time.Since(start), 0)
		return 0, nil
	}

	existing, err := s.Items.ExistsByExternalIDBatch(ctx, ch.ID, ids)
	if err != nil {
		metrics.RecordChannelSync(metrics.SyncResultStorageFailure, time.Since(start), 0)
		return 0, fmt.Errorf("check existing items: %w", err)
	}

	staged := s.stageNewItems(ctx, ch, candidates, existing)
	if len(staged) == 0 {
		logger.Debug("no new posts",
			slog.Int64("channel_id", ch.ID),
			slog.String("channel", ch.Name))
		metrics.RecordChannelSync(metrics.SyncResultNoChange, time.Since(start), 0)
		return 0, nil
	}

	// One transaction per channel: a cancelled sync leaves either all of the
	// staged rows or none.
	if err := s.Items.CreateBatch(ctx, staged); err != nil {
		metrics.RecordChannelSync(metrics.SyncResultStorageFailure, time.Since(start), 0)
		return 0, fmt.Errorf("store new items: %w", err)
	}

	// The watermark records last-successful-change, so it moves only when at
	// least one item was stored. The write outlives a cancellation that
	// arrives after the batch commit.
	safeCtx := context.WithoutCancel(ctx)
	if err := s.Channels.TouchSyncedAt(safeCtx, ch.ID, time.Now().UTC()); err != nil {
		metrics.RecordChannelSync(metrics.SyncResultStorageFailure, time.Since(start), len(staged))
		return len(staged), fmt.Errorf("advance watermark: %w", err)
	}

	metrics.RecordChannelSync(metrics.SyncResultNewItems, time.Since(start), len(staged))
	logger.Info("channel sync completed",
		slog.Int64("channel_id", ch.ID),
		slog.String("channel", ch.Name),
		slog.Int("fetched", len(posts)),
		slog.Int("inserted", len(staged)),
		slog.Duration("duration", time.Since(start)))
	return len(staged), nil
}

// stageNewItems builds the records to persist, downloading attachments for
// posts that are not yet stored. Download failures are logged and the item
// is staged with a null media reference.
func (s *Service) stageNewItems(ctx context.Context, ch *entity.Channel, candidates []Post, existing map[int64]bool) []*entity.NewsItem {
	logger := slog.Default()

	staged := make([]*entity.NewsItem, 0, len(candidates))
	seen := make(map[int64]struct{}, len(candidates))
	for _, post := range candidates {
		if existing[post.ExternalID] {
			continue
		}
		// Upstream windows can repeat an id (edited/forwarded posts); the
		// (channel, external id) key admits only one row.
		if _, dup := seen[post.ExternalID]; dup {
			continue
		}
		seen[post.ExternalID] = struct{}{}

		var mediaFile *string
		if post.Attachment != nil {
			name, err := s.Source.DownloadAttachment(ctx, post.Attachment, s.Media.Dir())
			if err != nil {
				logger.Warn("media download failed, storing item without media",
					slog.Int64("channel_id", ch.ID),
					slog.Int64("external_id", post.ExternalID),
					slog.Any("error", err))
				metrics.RecordMediaDownload(false)
			} else {
				mediaFile = &name
				metrics.RecordMediaDownload(true)
			}
		}

		staged = append(staged, &entity.NewsItem{
			ChannelID:   ch.ID,
			Content:     post.Text,
			MediaFile:   mediaFile,
			PublishedAt: post.PublishedAt.UTC(),
			ExternalID:  post.ExternalID,
		})
	}
	return staged
}
