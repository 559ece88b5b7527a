package command

import (
	"context"
	"fmt"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

// SimilarContentRequest is the request for the SimilarContent command.
type SimilarContentRequest struct {
	ContentID string
	Limit     int
}

// SimilarContent finds content similar to a subject item. When a semantic
// driver is configured it is asked first; the tag-overlap baseline serves the
// rest, including graceful degradation when the vector index is unreachable.
type SimilarContent struct {
	Fetcher  datasources.ContentFetcher
	Lister   datasources.ActiveContentLister
	Semantic datasources.SemanticSimilarityLister
}

func (c *SimilarContent) Execute(
	ctx context.Context,
	req SimilarContentRequest,
) ([]domain.ContentItem, error) {
	if req.Limit <= 0 {
		return nil, domain.InvalidInputf("similar limit must be > 0, got [%d]", req.Limit)
	}

	subject, err := c.Fetcher.FetchContent(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}
	if !subject.IsActive {
		return nil, domain.NotFoundf("unknown or inactive content [%s]", req.ContentID)
	}

	if c.Semantic != nil {
		items, err := c.similarBySemantics(ctx, req)
		if err == nil {
			return items, nil
		}

		logger := domain.LoggerFromContext(ctx)
		logger.WarnContext(ctx, "semantic similarity unavailable, falling back to tag overlap",
			"error", err, "contentID", req.ContentID)
	}

	items, err := c.Lister.ListActiveContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active content: %w", err)
	}

	return domain.SimilarByTags(subject, items, req.Limit)
}

func (c *SimilarContent) similarBySemantics(
	ctx context.Context,
	req SimilarContentRequest,
) ([]domain.ContentItem, error) {
	matches, err := c.Semantic.ListSimilarContent(ctx, req.ContentID, req.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ContentItem, 0, len(matches))
	for _, match := range matches {
		item, err := c.Fetcher.FetchContent(ctx, match.ID)
		if err != nil {
			// Vector index entries can outlive the catalog row.
			continue
		}
		if item.IsActive {
			items = append(items, item)
		}
	}
	return items, nil
}
