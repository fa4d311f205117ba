// Package news exposes the news feed and the destructive cleanup over HTTP.
package news

import (
	"net/http"

	newsUC "telenews/internal/usecase/news"
)

// Register registers news-related HTTP handlers with the given mux.
// Cleanup is authenticated and rate limited: it wipes every stored item
// before refetching.
func Register(
	mux *http.ServeMux,
	svc *newsUC.Service,
	resyncer Resyncer,
	authz func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
) {
	mux.Handle("GET /news", ListHandler{svc})
	mux.Handle("POST /news/cleanup", authz(limit(CleanupHandler{resyncer})))
}
