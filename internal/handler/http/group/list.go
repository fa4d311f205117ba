package group

import (
	"net/http"

	"telenews/internal/handler/http/respond"
	groupUC "telenews/internal/usecase/group"
)

type ListHandler struct{ Svc *groupUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, g := range list {
		out = append(out, DTO{ID: g.ID, Name: g.Name})
	}
	respond.JSON(w, http.StatusOK, out)
}
