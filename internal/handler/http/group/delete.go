package group

import (
	"errors"
	"net/http"

	"telenews/internal/handler/http/pathutil"
	"telenews/internal/handler/http/respond"
	groupUC "telenews/internal/usecase/group"
)

type DeleteHandler struct{ Svc *groupUC.Service }

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/groups/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, groupUC.ErrGroupNotFound) {
			respond.SafeError(w, http.StatusNotFound, err)
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
