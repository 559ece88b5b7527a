package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

type ContentList struct {
	Repository interface {
		datasources.ContentLister
		datasources.ContentCounter
	}
	CacheMaxAge time.Duration
}

type ContentListResponse struct {
	Data     []domain.ContentItem `json:"data"`
	Metadata ContentListMetadata  `json:"metadata"`
}

type ContentListMetadata struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func (c ContentList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	options, err := listOptionsFromQuery(r.URL.Query())
	if err != nil {
		respondError(ctx, w, domain.InvalidInput(err.Error()), "unable to parse content list options")
		return
	}

	filters := contentFiltersFromQuery(r.URL.Query())

	items, err := c.Repository.ListContent(ctx, filters, options)
	if err != nil {
		respondError(ctx, w, err, "unable to list content")
		return
	}

	total, err := c.Repository.TotalMatchingContent(ctx, filters)
	if err != nil {
		respondError(ctx, w, err, "unable to count matching content")
		return
	}

	if domain.UserIDFromContext(ctx) == "" {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))
	}

	respondJSON(ctx, w, ContentListResponse{
		Data: items,
		Metadata: ContentListMetadata{
			Total:    total,
			Page:     options.Page,
			PageSize: options.PageSize,
		},
	})
}
