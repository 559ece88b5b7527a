package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

type ContentGet struct {
	Fetcher     datasources.ContentFetcher
	CacheMaxAge time.Duration
}

func (c ContentGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["content_id"]

	item, err := c.Fetcher.FetchContent(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "unable to fetch content")
		return
	}

	// Soft-deleted items stay visible to authenticated callers only.
	if !item.IsActive && domain.UserIDFromContext(ctx) == "" {
		respondError(ctx, w, domain.NotFoundf("unknown content [%s]", id), "content inactive")
		return
	}

	if domain.UserIDFromContext(ctx) == "" {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}

	respondJSON(ctx, w, item)
}
