package command

import (
	"context"
	"testing"
	"time"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSemanticLister struct {
	matches []datasources.SimilarContent
	err     error
}

func (s staticSemanticLister) ListSimilarContent(
	_ context.Context, _ string, _ int,
) ([]datasources.SimilarContent, error) {
	return s.matches, s.err
}

func TestSimilarContent_TagOverlap(t *testing.T) {
	store := newSeededStore(t)

	err := store.CreateContent(context.Background(), domain.ContentItem{
		ID:          "generics-deep-dive",
		Title:       "Generics Under the Hood",
		Description: "How the compiler stencils type parameters",
		Kind:        domain.ContentKindArticle,
		Category:    "technology",
		Tags:        []string{"go", "generics"},
		Stats:       domain.Stats{Views: 5},
		IsActive:    true,
		CreatedAt:   time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	err = store.CreateContent(context.Background(), domain.ContentItem{
		ID:          "go-perf-tips",
		Title:       "Go Performance Tips",
		Description: "Profiles before opinions",
		Kind:        domain.ContentKindArticle,
		Category:    "technology",
		Tags:        []string{"go", "performance"},
		Stats:       domain.Stats{Views: 10},
		IsActive:    true,
		CreatedAt:   time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	cmd := &SimilarContent{Fetcher: store, Lister: store}

	items, err := cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "go-generics-guide", Limit: 5})
	require.NoError(t, err)

	// Two shared tags beat one; items sharing no tags are absent entirely.
	assert.Equal(t, []string{"generics-deep-dive", "go-perf-tips"}, itemIDs(items))
}

func TestSimilarContent_SemanticDriver(t *testing.T) {
	store := newSeededStore(t)
	require.NoError(t, store.SoftDeleteContent(context.Background(), "chef-knife"))

	cmd := &SimilarContent{
		Fetcher: store,
		Lister:  store,
		Semantic: staticSemanticLister{matches: []datasources.SimilarContent{
			{ID: "chef-knife", Score: 0.93},
			{ID: "sourdough-basics", Score: 0.88},
			{ID: "gone-from-catalog", Score: 0.80},
		}},
	}

	items, err := cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "go-generics-guide", Limit: 5})
	require.NoError(t, err)

	// Inactive and unknown matches from the vector index are dropped.
	assert.Equal(t, []string{"sourdough-basics"}, itemIDs(items))
}

func TestSimilarContent_SemanticFailureFallsBackToTags(t *testing.T) {
	store := newSeededStore(t)

	err := store.CreateContent(context.Background(), domain.ContentItem{
		ID:          "go-perf-tips",
		Title:       "Go Performance Tips",
		Description: "Profiles before opinions",
		Kind:        domain.ContentKindArticle,
		Category:    "technology",
		Tags:        []string{"go", "performance"},
		Stats:       domain.Stats{Views: 10},
		IsActive:    true,
		CreatedAt:   time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	cmd := &SimilarContent{
		Fetcher:  store,
		Lister:   store,
		Semantic: staticSemanticLister{err: domain.Unavailable("vector index down")},
	}

	items, err := cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "go-generics-guide", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, []string{"go-perf-tips"}, itemIDs(items))
}

func TestSimilarContent_SubjectErrors(t *testing.T) {
	store := newSeededStore(t)
	require.NoError(t, store.SoftDeleteContent(context.Background(), "chef-knife"))

	cmd := &SimilarContent{Fetcher: store, Lister: store}

	_, err := cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "no-such-content", Limit: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "chef-knife", Limit: 5})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = cmd.Execute(context.Background(),
		SimilarContentRequest{ContentID: "go-generics-guide", Limit: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
