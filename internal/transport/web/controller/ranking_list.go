package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

type RankingList struct {
	RankCmd     command.Command[command.RankContentRequest, []domain.ContentItem]
	CacheMaxAge time.Duration
}

type RankingListResponse struct {
	Data     []domain.ContentItem `json:"data"`
	Metadata RankingListMetadata  `json:"metadata"`
}

type RankingListMetadata struct {
	Ranking domain.RankingKind `json:"ranking"`
}

func (c RankingList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	kind := domain.RankingKind(mux.Vars(r)["ranking"])

	limit, err := limitFromQuery(r.URL.Query())
	if err != nil {
		respondError(ctx, w, domain.InvalidInput(err.Error()), "unable to parse ranking limit")
		return
	}

	items, err := c.RankCmd.Execute(ctx, command.RankContentRequest{Kind: kind, Limit: limit})
	if err != nil {
		respondError(ctx, w, err, "unable to compute ranking")
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	respondJSON(ctx, w, RankingListResponse{
		Data:     items,
		Metadata: RankingListMetadata{Ranking: kind},
	})
}
