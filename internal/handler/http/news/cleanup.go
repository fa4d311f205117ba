package news

import (
	"context"
	"net/http"

	"telenews/internal/handler/http/respond"
	syncUC "telenews/internal/usecase/sync"
)

// Resyncer performs the destructive wipe-and-refetch cycle.
type Resyncer interface {
	FullResync(ctx context.Context) (*syncUC.BatchStats, error)
}

// CleanupHandler deletes all stored news and media, then refetches every
// channel from scratch. The operation is synchronous and can take a while
// with many channels.
type CleanupHandler struct{ Svc Resyncer }

func (h CleanupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.FullResync(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"channels":    stats.Channels,
		"synced":      stats.Synced,
		"new_items":   stats.NewItems,
		"failed":      stats.Failed,
		"duration_ms": stats.Duration.Milliseconds(),
	})
}
