package channel

import (
	"encoding/json"
	"errors"
	"net/http"

	"telenews/internal/handler/http/respond"
	chanUC "telenews/internal/usecase/channel"
)

type CreateHandler struct{ Svc *chanUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		GroupID *int64 `json:"group_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("name required"))
		return
	}
	c, err := h.Svc.Register(r.Context(), chanUC.CreateInput{
		Name: req.Name, GroupID: req.GroupID,
	})
	if err != nil {
		switch {
		case errors.Is(err, chanUC.ErrChannelExists):
			respond.SafeError(w, http.StatusConflict, err)
		case errors.Is(err, chanUC.ErrGroupNotFound):
			respond.SafeError(w, http.StatusNotFound, err)
		default:
			respond.SafeError(w, http.StatusBadRequest, err)
		}
		return
	}
	respond.JSON(w, http.StatusCreated, DTO{
		ID: c.ID, Name: c.Name,
		GroupID:      c.GroupID,
		LastSyncedAt: c.LastSyncedAt,
	})
}
