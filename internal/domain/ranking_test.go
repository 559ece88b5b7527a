package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankingFixture() []ContentItem {
	t1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	return []ContentItem{
		{
			ID: "a", Kind: ContentKindArticle, CreatedAt: t1,
			Stats: Stats{Views: 10, Likes: 2, AverageRating: 4.5, TotalRatings: 4},
		},
		{
			ID: "b", Kind: ContentKindVideo, CreatedAt: t2,
			Stats: Stats{Views: 10, Likes: 8, AverageRating: 4.5, TotalRatings: 9},
		},
		{
			ID: "c", Kind: ContentKindProduct, CreatedAt: t3,
			Stats: Stats{Views: 5, Likes: 1},
		},
	}
}

func ids(items []ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestRank_MostViewedTieBreaksByRecency(t *testing.T) {
	// a and b tie on views; b is newer so it comes first.
	ranked, err := Rank(rankingFixture(), RankingKindMostViewed, DefaultTrendingLikeWeight, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(ranked))
}

func TestRank_MostViewedTieBreaksByIDWhenSameAge(t *testing.T) {
	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	items := []ContentItem{
		{ID: "z", CreatedAt: created, Stats: Stats{Views: 7}},
		{ID: "a", CreatedAt: created, Stats: Stats{Views: 7}},
	}

	ranked, err := Rank(items, RankingKindMostViewed, DefaultTrendingLikeWeight, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, ids(ranked))
}

func TestRank_MostLiked(t *testing.T) {
	ranked, err := Rank(rankingFixture(), RankingKindMostLiked, DefaultTrendingLikeWeight, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(ranked))
}

func TestRank_TopRatedExcludesUnrated(t *testing.T) {
	// c has no ratings; whatever its zero-value average, it never appears.
	ranked, err := Rank(rankingFixture(), RankingKindTopRated, DefaultTrendingLikeWeight, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(ranked))
}

func TestRank_TopRatedTieBreaksByVolume(t *testing.T) {
	// a and b tie on average 4.5; b has more ratings.
	ranked, err := Rank(rankingFixture(), RankingKindTopRated, DefaultTrendingLikeWeight, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(ranked))
}

func TestRank_TrendingWeighsLikes(t *testing.T) {
	// Scores with W=2: a=14, b=26, c=7.
	ranked, err := Rank(rankingFixture(), RankingKindTrending, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(ranked))

	// With W=0 trending degenerates to most-viewed.
	ranked, err = Rank(rankingFixture(), RankingKindTrending, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, ids(ranked))
}

func TestRank_Boundaries(t *testing.T) {
	_, err := Rank(rankingFixture(), RankingKindMostViewed, DefaultTrendingLikeWeight, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Rank(rankingFixture(), RankingKind("popular"), DefaultTrendingLikeWeight, 5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// A limit beyond the set size returns the whole set without error.
	ranked, err := Rank(rankingFixture(), RankingKindMostViewed, DefaultTrendingLikeWeight, 1000)
	require.NoError(t, err)
	assert.Len(t, ranked, 3)

	ranked, err = Rank(nil, RankingKindTrending, DefaultTrendingLikeWeight, 5)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	items := rankingFixture()
	_, err := Rank(items, RankingKindMostViewed, DefaultTrendingLikeWeight, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
}
