package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

type ContentCreate struct {
	Creator datasources.ContentCreator
}

func (c ContentCreate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var item domain.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(ctx, w, domain.InvalidInput("unable to parse request body"), "unable to parse content")
		return
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Stats = domain.Stats{}
	item.IsActive = true
	item.CreatedAt = time.Now().UTC()

	if err := item.Validate(); err != nil {
		respondError(ctx, w, err, "invalid content")
		return
	}

	if err := c.Creator.CreateContent(ctx, item); err != nil {
		respondError(ctx, w, err, "unable to create content")
		return
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "created content", "contentID", item.ID, "kind", item.Kind)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(item); err != nil {
		logger.ErrorContext(ctx, "unable to write response", "error", err)
	}
}
