package channel

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"telenews/internal/domain/entity"
	"telenews/internal/handler/http/respond"
	"telenews/internal/repository"
)

// Refresher runs an on-demand sync for a single channel.
type Refresher interface {
	SyncOne(ctx context.Context, ch *entity.Channel) (int, error)
}

// RefreshHandler triggers an immediate synchronization of one channel.
// The sync runs synchronously; an overlapping run for the same channel
// is skipped by the synchronizer and reported as zero new items.
type RefreshHandler struct {
	Channels repository.ChannelRepository
	Syncer   Refresher
}

func (h RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid channel ID"))
		return
	}

	ch, err := h.Channels.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			respond.SafeError(w, http.StatusNotFound, errors.New("channel not found"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if ch == nil {
		respond.SafeError(w, http.StatusNotFound, errors.New("channel not found"))
		return
	}

	newItems, err := h.Syncer.SyncOne(r.Context(), ch)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int{"new_items": newItems})
}
