package channel

import (
	"net/http"

	"telenews/internal/handler/http/respond"
	chanUC "telenews/internal/usecase/channel"
)

type ListHandler struct{ Svc *chanUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(list))
	for _, c := range list {
		out = append(out, DTO{
			ID: c.ID, Name: c.Name,
			GroupID:      c.GroupID,
			LastSyncedAt: c.LastSyncedAt,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
