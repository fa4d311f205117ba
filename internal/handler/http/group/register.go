// Package group exposes channel group CRUD over HTTP.
package group

import (
	"net/http"

	groupUC "telenews/internal/usecase/group"
)

// Register registers all group-related HTTP handlers with the given mux.
// Mutating routes require authentication via the authz middleware.
func Register(mux *http.ServeMux, svc *groupUC.Service, authz func(http.Handler) http.Handler) {
	mux.Handle("GET /groups", ListHandler{svc})
	mux.Handle("POST /groups", authz(CreateHandler{svc}))
	mux.Handle("DELETE /groups/", authz(DeleteHandler{svc}))
}
