package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"telenews/internal/domain/entity"
	"telenews/internal/observability/metrics"
	"telenews/internal/repository"
)

// DefaultMaxParallel bounds concurrent channel syncs within one batch.
const DefaultMaxParallel = 4

// ChannelSyncer is the per-channel synchronization contract consumed by the
// coordinator.
type ChannelSyncer interface {
	SyncChannel(ctx context.Context, ch *entity.Channel) (int, error)
}

// BatchStats summarizes one batch run.
type BatchStats struct {
	Channels int
	Synced   int
	NewItems int64
	Failed   []string
	Duration time.Duration
}

// Coordinator iterates all known channels, invoking the synchronizer for
// each with bounded parallelism and strict per-channel failure isolation.
// It also owns the destructive full-resync path.
type Coordinator struct {
	Syncer      ChannelSyncer
	Channels    repository.ChannelRepository
	Items       repository.NewsItemRepository
	Media       MediaStore
	MaxParallel int

	// resyncMu serializes the destructive phase of a full resync against
	// every other sync: channel syncs hold the read lock, the delete-and-
	// purge phase holds the write lock. A registration sync arriving during
	// that phase blocks until the deletes are done, never the other way
	// around.
	resyncMu stdsync.RWMutex
}

// NewCoordinator creates a batch coordinator. maxParallel of 0 falls back to
// DefaultMaxParallel.
func NewCoordinator(
	syncer ChannelSyncer,
	channels repository.ChannelRepository,
	items repository.NewsItemRepository,
	media MediaStore,
	maxParallel int,
) *Coordinator {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}
	return &Coordinator{
		Syncer:      syncer,
		Channels:    channels,
		Items:       items,
		Media:       media,
		MaxParallel: maxParallel,
	}
}

// SyncAll synchronizes every known channel. It never fails outright: a
// failure in one channel's sync is recorded in the returned stats and must
// not prevent subsequent channels from being attempted. Cross-channel
// ordering is unspecified; identity keys are channel-scoped so none is
// needed.
func (c *Coordinator) SyncAll(ctx context.Context) *BatchStats {
	logger := slog.Default()
	start := time.Now()
	stats := &BatchStats{}

	channels, err := c.Channels.List(ctx)
	if err != nil {
		logger.Error("failed to enumerate channels, batch aborted", slog.Any("error", err))
		stats.Duration = time.Since(start)
		return stats
	}
	stats.Channels = len(channels)
	metrics.UpdateChannelsTotal(len(channels))

	var (
		newItems int64
		synced   int64
		failedMu stdsync.Mutex
	)

	sem := semaphore.NewWeighted(int64(c.MaxParallel))
	g, gctx := errgroup.WithContext(ctx)
	for _, ch := range channels {
		ch := ch
		if err := sem.Acquire(gctx, 1); err != nil {
			// Shutdown mid-batch: remaining channels are left for the next tick.
			failedMu.Lock()
			stats.Failed = append(stats.Failed, ch.Name)
			failedMu.Unlock()
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)

			c.resyncMu.RLock()
			n, err := c.Syncer.SyncChannel(gctx, ch)
			c.resyncMu.RUnlock()

			if err != nil {
				logger.Error("channel sync failed",
					slog.Int64("channel_id", ch.ID),
					slog.String("channel", ch.Name),
					slog.Any("error", err))
				failedMu.Lock()
				stats.Failed = append(stats.Failed, ch.Name)
				failedMu.Unlock()
				// Never propagate: the batch always completes its enumeration.
				return nil
			}
			atomic.AddInt64(&newItems, int64(n))
			atomic.AddInt64(&synced, 1)
			return nil
		})
	}
	_ = g.Wait()

	stats.NewItems = atomic.LoadInt64(&newItems)
	stats.Synced = int(atomic.LoadInt64(&synced))
	stats.Duration = time.Since(start)

	logger.Info("batch sync completed",
		slog.Int("channels", stats.Channels),
		slog.Int("synced", stats.Synced),
		slog.Int("failed", len(stats.Failed)),
		slog.Int64("new_items", stats.NewItems),
		slog.Duration("duration", stats.Duration))
	return stats
}

// SyncOne synchronizes a single channel out of band, typically right after
// registration. It participates in the resync lock so it can never interleave
// with a full resync's destructive phase.
func (c *Coordinator) SyncOne(ctx context.Context, ch *entity.Channel) (int, error) {
	c.resyncMu.RLock()
	defer c.resyncMu.RUnlock()
	return c.Syncer.SyncChannel(ctx, ch)
}

// FullResync is the destructive reset behind the manual refresh action.
// It deletes every stored news item, purges the media store, and only then
// re-fetches all channels. The two delete steps run under the write lock so
// no concurrent sync can insert rows that would be swept away.
func (c *Coordinator) FullResync(ctx context.Context) (*BatchStats, error) {
	logger := slog.Default()
	start := time.Now()

	c.resyncMu.Lock()
	if err := c.Items.DeleteAll(ctx); err != nil {
		c.resyncMu.Unlock()
		return nil, fmt.Errorf("purge news items: %w", err)
	}
	if err := c.Media.Purge(); err != nil {
		c.resyncMu.Unlock()
		return nil, fmt.Errorf("purge media store: %w", err)
	}
	c.resyncMu.Unlock()
	logger.Info("full resync: history and media purged")

	stats := c.SyncAll(ctx)
	metrics.RecordBatchRun("manual_resync", time.Since(start))
	return stats, nil
}

// SweepOrphanMedia removes media files no stored item references. It runs
// after channel deletion, whose cascade can strand that channel's files.
func (c *Coordinator) SweepOrphanMedia(ctx context.Context) (int, error) {
	referenced, err := c.Items.ListMediaFiles(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced media: %w", err)
	}
	removed, err := c.Media.SweepOrphans(referenced)
	if err != nil {
		return removed, fmt.Errorf("sweep media store: %w", err)
	}
	if removed > 0 {
		slog.Default().Info("orphaned media removed", slog.Int("count", removed))
	}
	return removed, nil
}
