package news

import (
	"errors"
	"net/http"
	"strconv"

	"telenews/internal/handler/http/respond"
	newsUC "telenews/internal/usecase/news"
)

type ListHandler struct{ Svc *newsUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := newsUC.ListInput{}

	if v := q.Get("group_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid group_id"))
			return
		}
		in.GroupID = &id
	}
	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid skip"))
			return
		}
		in.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respond.SafeError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		in.Limit = n
	}

	list, err := h.Svc.List(r.Context(), in)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]DTO, 0, len(list))
	for _, it := range list {
		out = append(out, DTO{
			ID:          it.Item.ID,
			ChannelID:   it.Item.ChannelID,
			ChannelName: it.ChannelName,
			Content:     it.Item.Content,
			MediaFile:   it.Item.MediaFile,
			PublishedAt: it.Item.PublishedAt,
			ExternalID:  it.Item.ExternalID,
		})
	}
	respond.JSON(w, http.StatusOK, out)
}
