package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

type SimilarContentList struct {
	SimilarCmd  command.Command[command.SimilarContentRequest, []domain.ContentItem]
	CacheMaxAge time.Duration
}

type SimilarContentListResponse struct {
	Data []domain.ContentItem `json:"data"`
}

func (c SimilarContentList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contentID := mux.Vars(r)["content_id"]

	limit, err := limitFromQuery(r.URL.Query())
	if err != nil {
		respondError(ctx, w, domain.InvalidInput(err.Error()), "unable to parse similar limit")
		return
	}

	items, err := c.SimilarCmd.Execute(ctx, command.SimilarContentRequest{
		ContentID: contentID,
		Limit:     limit,
	})
	if err != nil {
		respondError(ctx, w, err, "unable to find similar content")
		return
	}

	if c.CacheMaxAge > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}

	respondJSON(ctx, w, SimilarContentListResponse{Data: items})
}
