package command

import (
	"context"
	"fmt"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

// RecommendContentRequest is the request for the RecommendContent command.
type RecommendContentRequest struct {
	UserID string
	Limit  int
}

// RecommendContentResult carries the recommendations plus whether they were
// personalized or the cold-start fallback ranking.
type RecommendContentResult struct {
	Items        []domain.ContentItem
	Personalized bool
}

// RecommendContent serves personalized recommendations. Declared preferences
// win; users without any fall back to preferences revealed by what they liked;
// users with neither preferences nor history get the most-viewed ranking.
type RecommendContent struct {
	Preferences datasources.PreferenceGetter
	Interactions interface {
		datasources.LikedContentLister
		datasources.UserInteractionCounter
	}
	ContentLister datasources.ActiveContentLister
}

func (c *RecommendContent) Execute(
	ctx context.Context,
	req RecommendContentRequest,
) (RecommendContentResult, error) {
	if req.UserID == "" {
		return RecommendContentResult{}, domain.InvalidInput("user ID is required")
	}

	prefs, err := c.Preferences.GetUserPreferences(ctx, req.UserID)
	if err != nil {
		return RecommendContentResult{}, fmt.Errorf("getting user preferences: %w", err)
	}

	likedIDs, err := c.Interactions.ListLikedContentIDs(ctx, req.UserID)
	if err != nil {
		return RecommendContentResult{}, fmt.Errorf("listing liked content: %w", err)
	}

	items, err := c.ContentLister.ListActiveContent(ctx)
	if err != nil {
		return RecommendContentResult{}, fmt.Errorf("listing active content: %w", err)
	}

	if prefs.IsEmpty() {
		prefs = domain.RevealedPreferences(likedItems(items, likedIDs))
	}

	if prefs.IsEmpty() {
		count, err := c.Interactions.CountUserInteractions(ctx, req.UserID)
		if err != nil {
			return RecommendContentResult{}, fmt.Errorf("counting user interactions: %w", err)
		}
		if count == 0 {
			ranked, err := domain.Rank(items, domain.RankingKindMostViewed, domain.DefaultTrendingLikeWeight, req.Limit)
			if err != nil {
				return RecommendContentResult{}, err
			}

			logger := domain.LoggerFromContext(ctx)
			logger.DebugContext(ctx, "serving cold-start recommendations", "limit", req.Limit)

			return RecommendContentResult{Items: ranked, Personalized: false}, nil
		}
	}

	recommended, err := domain.RecommendPersonalized(items, prefs, likedIDs, req.Limit)
	if err != nil {
		return RecommendContentResult{}, err
	}

	return RecommendContentResult{Items: recommended, Personalized: true}, nil
}

func likedItems(items []domain.ContentItem, likedIDs []string) []domain.ContentItem {
	byID := make(map[string]domain.ContentItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	liked := make([]domain.ContentItem, 0, len(likedIDs))
	for _, id := range likedIDs {
		if item, ok := byID[id]; ok {
			liked = append(liked, item)
		}
	}
	return liked
}
