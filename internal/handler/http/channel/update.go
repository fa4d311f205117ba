package channel

import (
	"encoding/json"
	"errors"
	"net/http"

	"telenews/internal/handler/http/pathutil"
	"telenews/internal/handler/http/respond"
	chanUC "telenews/internal/usecase/channel"
)

type UpdateHandler struct{ Svc *chanUC.Service }

func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/channels/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Name    string `json:"name"`
		GroupID *int64 `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), chanUC.UpdateInput{
		ID: id, Name: req.Name, GroupID: req.GroupID,
	})
	if err != nil {
		switch {
		case errors.Is(err, chanUC.ErrChannelNotFound):
			respond.SafeError(w, http.StatusNotFound, err)
		case errors.Is(err, chanUC.ErrGroupNotFound):
			respond.SafeError(w, http.StatusNotFound, err)
		default:
			respond.SafeError(w, http.StatusBadRequest, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, DTO{
		ID: c.ID, Name: c.Name,
		GroupID:      c.GroupID,
		LastSyncedAt: c.LastSyncedAt,
	})
}
