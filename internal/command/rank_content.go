package command

import (
	"context"
	"fmt"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

// RankContentRequest is the request for the RankContent command.
type RankContentRequest struct {
	Kind  domain.RankingKind
	Limit int
}

// RankContent computes a ranking over a snapshot of the active catalog.
type RankContent struct {
	Lister             datasources.ActiveContentLister
	TrendingLikeWeight uint64
}

func (c *RankContent) Execute(ctx context.Context, req RankContentRequest) ([]domain.ContentItem, error) {
	items, err := c.Lister.ListActiveContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active content: %w", err)
	}

	likeWeight := c.TrendingLikeWeight
	if likeWeight == 0 {
		likeWeight = domain.DefaultTrendingLikeWeight
	}

	return domain.Rank(items, req.Kind, likeWeight, req.Limit)
}
