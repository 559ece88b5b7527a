package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

type ContentUpdate struct {
	Repository interface {
		datasources.ContentFetcher
		datasources.ContentUpdater
	}
}

func (c ContentUpdate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["content_id"]

	var item domain.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(ctx, w, domain.InvalidInput("unable to parse request body"), "unable to parse content")
		return
	}
	item.ID = id

	if err := item.Validate(); err != nil {
		respondError(ctx, w, err, "invalid content")
		return
	}

	if err := c.Repository.UpdateContent(ctx, item); err != nil {
		respondError(ctx, w, err, "unable to update content")
		return
	}

	// Return the stored item so callers see the preserved stats and timestamps.
	updated, err := c.Repository.FetchContent(ctx, id)
	if err != nil {
		respondError(ctx, w, err, "unable to fetch updated content")
		return
	}

	respondJSON(ctx, w, updated)
}
