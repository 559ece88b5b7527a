package domain

import (
	"cmp"
	"slices"
)

// RankingKind selects one of the derived orderings.
type RankingKind string

const (
	RankingKindMostViewed RankingKind = "most_viewed"
	RankingKindMostLiked  RankingKind = "most_liked"
	RankingKindTopRated   RankingKind = "top_rated"
	RankingKindTrending   RankingKind = "trending"
)

var ValidRankingKinds = []RankingKind{
	RankingKindMostViewed,
	RankingKindMostLiked,
	RankingKindTopRated,
	RankingKindTrending,
}

// DefaultTrendingLikeWeight is the weight of a like relative to a view in the
// trending score. The score is views + likes*W; it rewards engagement over raw
// reach and intentionally carries no recency term.
const DefaultTrendingLikeWeight = 2

// TrendingScore computes the popularity score for the trending ranking.
func TrendingScore(s Stats, likeWeight uint64) uint64 {
	return s.Views + s.Likes*likeWeight
}

// Rank orders a snapshot of active content items by the given ranking and
// returns at most limit items. Inactive items must already be excluded by the
// caller's snapshot. Rankings never mutate their input.
func Rank(items []ContentItem, kind RankingKind, likeWeight uint64, limit int) ([]ContentItem, error) {
	if limit <= 0 {
		return nil, InvalidInputf("ranking limit must be > 0, got [%d]", limit)
	}

	switch kind {
	case RankingKindMostViewed:
		return rankByScore(items, limit, func(c ContentItem) uint64 { return c.Stats.Views }), nil
	case RankingKindMostLiked:
		return rankByScore(items, limit, func(c ContentItem) uint64 { return c.Stats.Likes }), nil
	case RankingKindTrending:
		return rankByScore(items, limit, func(c ContentItem) uint64 {
			return TrendingScore(c.Stats, likeWeight)
		}), nil
	case RankingKindTopRated:
		return rankTopRated(items, limit), nil
	default:
		return nil, InvalidInputf("unknown ranking kind [%s]", kind)
	}
}

// rankByScore sorts descending by score, breaking ties by createdAt descending
// (newer first) and then by id ascending so the ordering is deterministic.
func rankByScore(items []ContentItem, limit int, score func(ContentItem) uint64) []ContentItem {
	ranked := slices.Clone(items)
	slices.SortFunc(ranked, func(a, b ContentItem) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return clampLimit(ranked, limit)
}

// rankTopRated sorts by average rating descending. Items nobody has rated are
// excluded outright: an undefined rating is not "zero is worst". Ties break by
// rating volume descending, then id ascending.
func rankTopRated(items []ContentItem, limit int) []ContentItem {
	rated := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if item.Stats.TotalRatings > 0 {
			rated = append(rated, item)
		}
	}

	slices.SortFunc(rated, func(a, b ContentItem) int {
		if c := cmp.Compare(b.Stats.AverageRating, a.Stats.AverageRating); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Stats.TotalRatings, a.Stats.TotalRatings); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return clampLimit(rated, limit)
}

func clampLimit(items []ContentItem, limit int) []ContentItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
