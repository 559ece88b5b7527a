package domain

import (
	"cmp"
	"math"
	"slices"
)

// Preference match weights. A category match is worth three tag matches;
// log(1+views) adds popularity as a dampened tiebreak.
const (
	categoryMatchWeight = 3.0
	tagMatchWeight      = 1.0
)

// PersonalScore scores one item against a user's preferences.
func PersonalScore(item ContentItem, prefs UserPreferences) float64 {
	var score float64

	if slices.Contains(prefs.Categories, item.Category) {
		score += categoryMatchWeight
	}

	for _, tag := range prefs.Tags {
		if item.HasTag(tag) {
			score += tagMatchWeight
		}
	}

	return score + math.Log1p(float64(item.Stats.Views))
}

// RecommendPersonalized orders active items for a user by preference score,
// excluding anything in likedIDs (items the user already liked). Callers are
// responsible for the documented fallback to the most-viewed ranking when the
// user has neither preferences nor history; this function assumes prefs carry
// signal.
func RecommendPersonalized(
	items []ContentItem,
	prefs UserPreferences,
	likedIDs []string,
	limit int,
) ([]ContentItem, error) {
	if limit <= 0 {
		return nil, InvalidInputf("recommendation limit must be > 0, got [%d]", limit)
	}

	liked := make(map[string]bool, len(likedIDs))
	for _, id := range likedIDs {
		liked[id] = true
	}

	candidates := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if !liked[item.ID] {
			candidates = append(candidates, item)
		}
	}

	slices.SortFunc(candidates, func(a, b ContentItem) int {
		if c := cmp.Compare(PersonalScore(b, prefs), PersonalScore(a, prefs)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return clampLimit(candidates, limit), nil
}

// RevealedPreferences derives category and tag preferences from the items a
// user has liked, for users who never declared any. Order follows first
// appearance across the liked items.
func RevealedPreferences(likedItems []ContentItem) UserPreferences {
	var prefs UserPreferences
	seenCategory := make(map[string]bool)
	seenTag := make(map[string]bool)

	for _, item := range likedItems {
		if item.Category != "" && !seenCategory[item.Category] {
			seenCategory[item.Category] = true
			prefs.Categories = append(prefs.Categories, item.Category)
		}
		for _, tag := range item.Tags {
			if !seenTag[tag] {
				seenTag[tag] = true
				prefs.Tags = append(prefs.Tags, tag)
			}
		}
	}

	return prefs
}

// TagOverlap counts shared tags between two items.
func TagOverlap(a, b ContentItem) int {
	overlap := 0
	for _, tag := range a.Tags {
		if b.HasTag(tag) {
			overlap++
		}
	}
	return overlap
}

// SimilarByTags ranks active items by tag overlap with the subject, excluding
// the subject itself. Ties break by views descending, then id ascending. Items
// sharing no tags at all are left out rather than padding the tail.
func SimilarByTags(subject ContentItem, items []ContentItem, limit int) ([]ContentItem, error) {
	if limit <= 0 {
		return nil, InvalidInputf("similar limit must be > 0, got [%d]", limit)
	}

	candidates := make([]ContentItem, 0, len(items))
	for _, item := range items {
		if item.ID == subject.ID {
			continue
		}
		if TagOverlap(subject, item) > 0 {
			candidates = append(candidates, item)
		}
	}

	slices.SortFunc(candidates, func(a, b ContentItem) int {
		if c := cmp.Compare(TagOverlap(subject, b), TagOverlap(subject, a)); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Stats.Views, a.Stats.Views); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return clampLimit(candidates, limit), nil
}
