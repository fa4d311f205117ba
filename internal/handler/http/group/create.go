package group

import (
	"encoding/json"
	"errors"
	"net/http"

	"telenews/internal/handler/http/respond"
	groupUC "telenews/internal/usecase/group"
)

type CreateHandler struct{ Svc *groupUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Name == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("name required"))
		return
	}
	g, err := h.Svc.Create(r.Context(), req.Name)
	if err != nil {
		if errors.Is(err, groupUC.ErrGroupExists) {
			respond.SafeError(w, http.StatusConflict, err)
			return
		}
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusCreated, DTO{ID: g.ID, Name: g.Name})
}
