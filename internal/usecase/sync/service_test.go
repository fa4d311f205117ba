package sync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telenews/internal/domain/entity"
	"telenews/internal/repository"
	syncUC "telenews/internal/usecase/sync"
)

/* ───────── stubs ───────── */

type stubChannelRepo struct {
	mu       sync.Mutex
	channels []*entity.Channel
	listErr  error
	touchErr error
	touched  map[int64]time.Time
}

func (s *stubChannelRepo) List(_ context.Context) ([]*entity.Channel, error) {
	return s.channels, s.listErr
}

func (s *stubChannelRepo) TouchSyncedAt(_ context.Context, id int64, t time.Time) error {
	if s.touchErr != nil {
		return s.touchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.touched == nil {
		s.touched = make(map[int64]time.Time)
	}
	s.touched[id] = t
	return nil
}

// Unused by the synchronizer, implemented to satisfy the interface.
func (s *stubChannelRepo) Get(_ context.Context, _ int64) (*entity.Channel, error) {
	return nil, nil
}
func (s *stubChannelRepo) GetByName(_ context.Context, _ string) (*entity.Channel, error) {
	return nil, nil
}
func (s *stubChannelRepo) Create(_ context.Context, _ *entity.Channel) error { return nil }
func (s *stubChannelRepo) Update(_ context.Context, _ *entity.Channel) error { return nil }
func (s *stubChannelRepo) Delete(_ context.Context, _ int64) error           { return nil }
func (s *stubChannelRepo) DetachGroup(_ context.Context, _ int64) error      { return nil }

type stubItemRepo struct {
	mu        sync.Mutex
	stored    []*entity.NewsItem
	existsErr error
	createErr error
	nextID    int64

	deleteAllCalls int
	mediaFiles     []string
}

func (s *stubItemRepo) ExistsByExternalIDBatch(_ context.Context, channelID int64, ids []int64) (map[int64]bool, error) {
	if s.existsErr != nil {
		return nil, s.existsErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make(map[int64]bool, len(ids))
	for _, id := range ids {
		for _, it := range s.stored {
			if it.ChannelID == channelID && it.ExternalID == id {
				result[id] = true
				break
			}
		}
	}
	return result, nil
}

func (s *stubItemRepo) CreateBatch(_ context.Context, items []*entity.NewsItem) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range items {
		s.nextID++
		it.ID = s.nextID
		s.stored = append(s.stored, it)
	}
	return nil
}

func (s *stubItemRepo) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteAllCalls++
	s.stored = nil
	return nil
}

func (s *stubItemRepo) ListMediaFiles(_ context.Context) ([]string, error) {
	return s.mediaFiles, nil
}

func (s *stubItemRepo) ListWithChannelPaginated(_ context.Context, _ repository.NewsItemFilters, _, _ int) ([]repository.NewsItemWithChannel, error) {
	return nil, nil
}

func (s *stubItemRepo) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stored)
}

type stubSource struct {
	mu          sync.Mutex
	posts       []syncUC.Post
	resolveErr  error
	listErr     error
	downloadErr error
	downloads   int
}

func (s *stubSource) Resolve(_ context.Context, name string) (*syncUC.Handle, error) {
	if s.resolveErr != nil {
		return nil, s.resolveErr
	}
	return &syncUC.Handle{Name: name, FeedURL: "https://bridge.example/" + name}, nil
}

func (s *stubSource) ListRecent(_ context.Context, _ *syncUC.Handle, limit int) ([]syncUC.Post, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if len(s.posts) > limit {
		return s.posts[:limit], nil
	}
	return s.posts, nil
}

func (s *stubSource) DownloadAttachment(_ context.Context, att *syncUC.Attachment, _ string) (string, error) {
	s.mu.Lock()
	s.downloads++
	s.mu.Unlock()
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	return "file-" + att.Channel + ".jpg", nil
}

type stubMedia struct {
	purgeCalls int
	swept      []string
}

func (s *stubMedia) Dir() string { return "/tmp/media" }
func (s *stubMedia) Purge() error {
	s.purgeCalls++
	return nil
}
func (s *stubMedia) SweepOrphans(referenced []string) (int, error) {
	s.swept = referenced
	return 0, nil
}

func post(id int64, text string) syncUC.Post {
	return syncUC.Post{
		ExternalID:  id,
		Text:        text,
		PublishedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestService(channels *stubChannelRepo, items *stubItemRepo, src syncUC.ChannelSource) *syncUC.Service {
	return syncUC.NewService(channels, items, src, &stubMedia{}, 40)
}

/* ───────── tests ───────── */

func TestSyncChannel_StoresNewItemsAndAdvancesWatermark(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{post(1, "a"), post(2, "b"), post(3, "c")}}

	svc := newTestService(chRepo, itemRepo, src)
	ch := &entity.Channel{ID: 7, Name: "durov"}

	n, err := svc.SyncChannel(context.Background(), ch)
	if err != nil {
		t.Fatalf("SyncChannel() error = %v", err)
	}
	if n != 3 {
		t.Errorf("new items = %d, want 3", n)
	}
	if itemRepo.count() != 3 {
		t.Errorf("stored items = %d, want 3", itemRepo.count())
	}
	if _, ok := chRepo.touched[7]; !ok {
		t.Errorf("watermark was not advanced")
	}
}

func TestSyncChannel_SecondPassIsIdempotent(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{post(1, "a"), post(2, "b")}}

	svc := newTestService(chRepo, itemRepo, src)
	ch := &entity.Channel{ID: 1, Name: "durov"}

	if _, err := svc.SyncChannel(context.Background(), ch); err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	firstMark := chRepo.touched[1]

	n, err := svc.SyncChannel(context.Background(), ch)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if n != 0 {
		t.Errorf("second pass new items = %d, want 0", n)
	}
	if itemRepo.count() != 2 {
		t.Errorf("stored items = %d, want 2", itemRepo.count())
	}
	// No new content, so the watermark must not move.
	if chRepo.touched[1] != firstMark {
		t.Errorf("watermark moved on a no-change pass")
	}
}

func TestSyncChannel_StoresOnlyUnseenItems(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{post(1, "a"), post(2, "b"), post(3, "c")}}

	svc := newTestService(chRepo, itemRepo, src)
	ch := &entity.Channel{ID: 1, Name: "durov"}

	if _, err := svc.SyncChannel(context.Background(), ch); err != nil {
		t.Fatalf("first pass error = %v", err)
	}

	// Window slides: one old post drops out, two new ones appear.
	src.posts = []syncUC.Post{post(2, "b"), post(3, "c"), post(4, "d"), post(5, "e")}

	n, err := svc.SyncChannel(context.Background(), ch)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if n != 2 {
		t.Errorf("new items = %d, want 2", n)
	}
	if itemRepo.count() != 5 {
		t.Errorf("stored items = %d, want 5", itemRepo.count())
	}
}

func TestSyncChannel_SameExternalIDAcrossChannels(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{post(100, "shared id")}}

	svc := newTestService(chRepo, itemRepo, src)

	if _, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "alpha"}); err != nil {
		t.Fatalf("channel A error = %v", err)
	}
	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 2, Name: "beta"})
	if err != nil {
		t.Fatalf("channel B error = %v", err)
	}
	// Identity is channel-scoped: the same external id under another channel
	// is a distinct item.
	if n != 1 {
		t.Errorf("channel B new items = %d, want 1", n)
	}
	if itemRepo.count() != 2 {
		t.Errorf("stored items = %d, want 2", itemRepo.count())
	}
}

func TestSyncChannel_SkipsEmptyPosts(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{
		post(1, "text"),
		post(2, ""), // no text, no attachment: service message
		{ExternalID: 3, PublishedAt: time.Now(), Attachment: &syncUC.Attachment{URL: "https://x/y.jpg", Channel: "c", ExternalID: 3}},
	}}

	svc := newTestService(chRepo, itemRepo, src)

	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "c"})
	if err != nil {
		t.Fatalf("SyncChannel() error = %v", err)
	}
	if n != 2 {
		t.Errorf("new items = %d, want 2 (empty post skipped)", n)
	}
}

func TestSyncChannel_ResolveFailureIsSoft(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{resolveErr: syncUC.ErrChannelNotFound}

	svc := newTestService(chRepo, itemRepo, src)

	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "gone"})
	if err != nil {
		t.Fatalf("resolve failure must be contained, got error = %v", err)
	}
	if n != 0 {
		t.Errorf("new items = %d, want 0", n)
	}
	if len(chRepo.touched) != 0 {
		t.Errorf("watermark advanced on a failed pass")
	}
}

func TestSyncChannel_FetchFailureIsSoft(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{listErr: syncUC.ErrSourceUnavailable}

	svc := newTestService(chRepo, itemRepo, src)

	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "durov"})
	if err != nil {
		t.Fatalf("fetch failure must be contained, got error = %v", err)
	}
	if n != 0 {
		t.Errorf("new items = %d, want 0", n)
	}
}

func TestSyncChannel_StorageFailureIsHard(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{createErr: errors.New("disk full")}
	src := &stubSource{posts: []syncUC.Post{post(1, "a")}}

	svc := newTestService(chRepo, itemRepo, src)

	_, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "durov"})
	if err == nil {
		t.Fatalf("storage failure must surface as an error")
	}
	if len(chRepo.touched) != 0 {
		t.Errorf("watermark advanced despite storage failure")
	}
}

func TestSyncChannel_MediaFailureKeepsItem(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{
		posts: []syncUC.Post{
			{ExternalID: 1, Text: "with media", PublishedAt: time.Now(),
				Attachment: &syncUC.Attachment{URL: "https://x/a.jpg", Channel: "c", ExternalID: 1}},
			post(2, "plain"),
		},
		downloadErr: &syncUC.MediaDownloadError{URL: "https://x/a.jpg", Err: errors.New("timeout")},
	}

	svc := newTestService(chRepo, itemRepo, src)

	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "c"})
	if err != nil {
		t.Fatalf("SyncChannel() error = %v", err)
	}
	if n != 2 {
		t.Errorf("new items = %d, want 2 (item kept despite media failure)", n)
	}
	for _, it := range itemRepo.stored {
		if it.ExternalID == 1 && it.MediaFile != nil {
			t.Errorf("failed download must leave a null media reference, got %q", *it.MediaFile)
		}
	}
	if _, ok := chRepo.touched[1]; !ok {
		t.Errorf("watermark not advanced despite stored items")
	}
}

func TestSyncChannel_NormalizesPublishedAtToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{{
		ExternalID:  1,
		Text:        "zoned",
		PublishedAt: time.Date(2026, 8, 1, 17, 0, 0, 0, loc),
	}}}

	svc := newTestService(chRepo, itemRepo, src)

	if _, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "c"}); err != nil {
		t.Fatalf("SyncChannel() error = %v", err)
	}
	got := itemRepo.stored[0].PublishedAt
	if got.Location() != time.UTC {
		t.Errorf("PublishedAt location = %v, want UTC", got.Location())
	}
	if !got.Equal(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v, want 12:00 UTC", got)
	}
}

func TestSyncChannel_DuplicateIDWithinWindow(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}
	src := &stubSource{posts: []syncUC.Post{post(1, "a"), post(1, "a edited"), post(2, "b")}}

	svc := newTestService(chRepo, itemRepo, src)

	n, err := svc.SyncChannel(context.Background(), &entity.Channel{ID: 1, Name: "c"})
	if err != nil {
		t.Fatalf("SyncChannel() error = %v", err)
	}
	if n != 2 {
		t.Errorf("new items = %d, want 2 (in-window duplicate collapsed)", n)
	}
}

func TestSyncChannel_ConcurrentPassesDoNotOverlap(t *testing.T) {
	chRepo := &stubChannelRepo{}
	itemRepo := &stubItemRepo{}

	release := make(chan struct{})
	src := &blockingSource{
		release: release,
		entered: make(chan struct{}),
		posts:   []syncUC.Post{post(1, "a")},
	}

	svc := newTestService(chRepo, itemRepo, src)
	ch := &entity.Channel{ID: 1, Name: "c"}

	done := make(chan int, 1)
	go func() {
		n, _ := svc.SyncChannel(context.Background(), ch)
		done <- n
	}()

	// Wait for the first pass to be inside the source fetch.
	<-src.entered

	// The overlapping pass must skip immediately, not block.
	n, err := svc.SyncChannel(context.Background(), ch)
	if err != nil {
		t.Fatalf("overlapping pass error = %v", err)
	}
	if n != 0 {
		t.Errorf("overlapping pass new items = %d, want 0", n)
	}

	close(release)
	if n := <-done; n != 1 {
		t.Errorf("first pass new items = %d, want 1", n)
	}
}

// blockingSource parks ListRecent until released, to hold a sync in flight.
type blockingSource struct {
	posts    []syncUC.Post
	release  chan struct{}
	entered  chan struct{}
	enterOne sync.Once
}

func (b *blockingSource) Resolve(_ context.Context, name string) (*syncUC.Handle, error) {
	return &syncUC.Handle{Name: name}, nil
}

func (b *blockingSource) ListRecent(_ context.Context, _ *syncUC.Handle, _ int) ([]syncUC.Post, error) {
	b.enterOne.Do(func() { close(b.entered) })
	<-b.release
	return b.posts, nil
}

func (b *blockingSource) DownloadAttachment(_ context.Context, _ *syncUC.Attachment, _ string) (string, error) {
	return "", errors.New("unused")
}
