// Package channel exposes channel CRUD and on-demand sync over HTTP.
package channel

import (
	"net/http"

	"telenews/internal/repository"
	chanUC "telenews/internal/usecase/channel"
)

// Register registers all channel-related HTTP handlers with the given mux.
// Mutating routes require authentication; the refresh trigger is additionally
// rate limited because it fans out to the upstream source.
func Register(
	mux *http.ServeMux,
	svc *chanUC.Service,
	channels repository.ChannelRepository,
	syncer Refresher,
	authz func(http.Handler) http.Handler,
	limit func(http.Handler) http.Handler,
) {
	mux.Handle("GET /channels", ListHandler{svc})
	mux.Handle("POST /channels", authz(CreateHandler{svc}))
	mux.Handle("PUT /channels/", authz(UpdateHandler{svc}))
	mux.Handle("DELETE /channels/", authz(DeleteHandler{svc}))
	mux.Handle("POST /channels/{id}/refresh", authz(limit(RefreshHandler{
		Channels: channels,
		Syncer:   syncer,
	})))
}
