package datasources

import (
	"context"
)

// SimilarContent is a similarity match with its score. For the tag-overlap
// driver the score is the shared-tag count; for the semantic driver it is the
// vector similarity.
type SimilarContent struct {
	ID    string
	Score float64
}

// SemanticSimilarityLister serves similar-content queries from a vector index.
// It is an optional driver: when absent, similarity falls back to the
// tag-overlap baseline computed over the content store.
type SemanticSimilarityLister interface {
	ListSimilarContent(ctx context.Context, contentID string, limit int) ([]SimilarContent, error)
}
