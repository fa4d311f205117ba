package channel

import (
	"errors"
	"net/http"

	"telenews/internal/handler/http/pathutil"
	"telenews/internal/handler/http/respond"
	chanUC "telenews/internal/usecase/channel"
)

type DeleteHandler struct{ Svc *chanUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/channels/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, chanUC.ErrChannelNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
