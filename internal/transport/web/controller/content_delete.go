package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

type ContentDelete struct {
	Deleter datasources.ContentSoftDeleter
}

func (c ContentDelete) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["content_id"]

	if err := c.Deleter.SoftDeleteContent(ctx, id); err != nil {
		respondError(ctx, w, err, "unable to delete content")
		return
	}

	logger := domain.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "soft-deleted content", "contentID", id)

	w.WriteHeader(http.StatusNoContent)
}
