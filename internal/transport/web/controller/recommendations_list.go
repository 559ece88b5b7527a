package controller

import (
	"net/http"

	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

type RecommendationsList struct {
	RecommendCmd command.Command[command.RecommendContentRequest, command.RecommendContentResult]
}

type RecommendationsListResponse struct {
	Data     []domain.ContentItem        `json:"data"`
	Metadata RecommendationsListMetadata `json:"metadata"`
}

type RecommendationsListMetadata struct {
	Personalized bool `json:"personalized"`
}

func (c RecommendationsList) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, err := limitFromQuery(r.URL.Query())
	if err != nil {
		respondError(ctx, w, domain.InvalidInput(err.Error()), "unable to parse recommendations limit")
		return
	}

	result, err := c.RecommendCmd.Execute(ctx, command.RecommendContentRequest{
		UserID: domain.UserIDFromContext(ctx),
		Limit:  limit,
	})
	if err != nil {
		respondError(ctx, w, err, "unable to compute recommendations")
		return
	}

	respondJSON(ctx, w, RecommendationsListResponse{
		Data:     result.Items,
		Metadata: RecommendationsListMetadata{Personalized: result.Personalized},
	})
}
