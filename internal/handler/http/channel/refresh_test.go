package channel_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"telenews/internal/domain/entity"
	channelHandler "telenews/internal/handler/http/channel"
)

/* ───────────────────────────── stubs ───────────────────────────── */

type stubChannelRepo struct {
	channel *entity.Channel
	getErr  error
}

func (r *stubChannelRepo) Get(ctx context.Context, id int64) (*entity.Channel, error) {
	return r.channel, r.getErr
}
func (r *stubChannelRepo) GetByName(ctx context.Context, name string) (*entity.Channel, error) {
	return nil, nil
}
func (r *stubChannelRepo) List(ctx context.Context) ([]*entity.Channel, error) { return nil, nil }
func (r *stubChannelRepo) Create(ctx context.Context, ch *entity.Channel) error {
	return nil
}
func (r *stubChannelRepo) Update(ctx context.Context, ch *entity.Channel) error {
	return nil
}
func (r *stubChannelRepo) Delete(ctx context.Context, id int64) error { return nil }
func (r *stubChannelRepo) TouchSyncedAt(ctx context.Context, id int64, t time.Time) error {
	return nil
}
func (r *stubChannelRepo) DetachGroup(ctx context.Context, groupID int64) error { return nil }

type stubRefresher struct {
	newItems int
	err      error
	got      *entity.Channel
}

func (s *stubRefresher) SyncOne(ctx context.Context, ch *entity.Channel) (int, error) {
	s.got = ch
	return s.newItems, s.err
}

/* ───────────────────────────── tests ───────────────────────────── */

// refreshRequest builds the request as the router would, with the id
// path value populated from the "POST /channels/{id}/refresh" pattern.
func refreshRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/channels/"+id+"/refresh", nil)
	req.SetPathValue("id", id)
	return req
}

func TestRefreshHandler_Success(t *testing.T) {
	repo := &stubChannelRepo{channel: &entity.Channel{ID: 5, Name: "durov"}}
	syncer := &stubRefresher{newItems: 7}
	h := channelHandler.RefreshHandler{Channels: repo, Syncer: syncer}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, refreshRequest("5"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var out map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out["new_items"] != 7 {
		t.Errorf("expected new_items=7, got %d", out["new_items"])
	}
	if syncer.got == nil || syncer.got.Name != "durov" {
		t.Errorf("expected syncer to receive the channel, got %+v", syncer.got)
	}
}

func TestRefreshHandler_UnknownChannel(t *testing.T) {
	h := channelHandler.RefreshHandler{Channels: &stubChannelRepo{}, Syncer: &stubRefresher{}}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, refreshRequest("99"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRefreshHandler_BadID(t *testing.T) {
	h := channelHandler.RefreshHandler{Channels: &stubChannelRepo{}, Syncer: &stubRefresher{}}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, refreshRequest("abc"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRefreshHandler_SyncFailure(t *testing.T) {
	repo := &stubChannelRepo{channel: &entity.Channel{ID: 5, Name: "durov"}}
	syncer := &stubRefresher{err: errors.New("persist items: connection reset")}
	h := channelHandler.RefreshHandler{Channels: repo, Syncer: syncer}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, refreshRequest("5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
