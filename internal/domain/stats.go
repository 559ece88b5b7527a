package domain

// Apply folds one ledger outcome into the counters. It must be kept consistent
// with RecomputeStats: applying outcomes one at a time and replaying the full
// ledger from empty state have to agree exactly on the integer counters and
// within floating-point tolerance on the average rating.
func (s Stats) Apply(o Outcome) Stats {
	switch o.Kind {
	case InteractionKindView:
		if o.Applied == AppliedAdded {
			s.Views++
		}

	case InteractionKindLike:
		switch o.Applied {
		case AppliedAdded:
			s.Likes++
		case AppliedRemoved:
			if s.Likes > 0 {
				s.Likes--
			}
		}

	case InteractionKindRating:
		switch o.Applied {
		case AppliedAdded:
			oldTotal := float64(s.TotalRatings)
			s.TotalRatings++
			s.AverageRating = (s.AverageRating*oldTotal + float64(o.NewRating)) / float64(s.TotalRatings)
		case AppliedReplaced:
			// Total unchanged; shift the mean by the rating delta.
			if s.TotalRatings > 0 {
				s.AverageRating += float64(o.NewRating-o.OldRating) / float64(s.TotalRatings)
			}
		}
	}

	return s
}

// RecomputeStats rebuilds a content item's stats from the raw ledger records
// for that item. The ledger stores likes retracted-on-toggle and ratings
// replaced-in-place, so each surviving record counts once.
func RecomputeStats(records []Interaction) Stats {
	var s Stats
	var ratingSum int

	for _, rec := range records {
		switch rec.Kind {
		case InteractionKindView:
			s.Views++
		case InteractionKindLike:
			s.Likes++
		case InteractionKindRating:
			s.TotalRatings++
			ratingSum += rec.Rating
		}
	}

	if s.TotalRatings > 0 {
		s.AverageRating = float64(ratingSum) / float64(s.TotalRatings)
	}

	return s
}

// StatsTolerance is the allowed floating-point divergence between incremental
// and replayed average ratings.
const StatsTolerance = 1e-9

// StatsDrift compares incrementally maintained stats against a ledger replay.
// It returns false when counters differ or the averages diverge beyond
// tolerance.
func StatsDrift(incremental, replayed Stats) bool {
	if incremental.Views != replayed.Views ||
		incremental.Likes != replayed.Likes ||
		incremental.TotalRatings != replayed.TotalRatings {
		return true
	}

	diff := incremental.AverageRating - replayed.AverageRating
	if diff < 0 {
		diff = -diff
	}
	return diff > StatsTolerance
}
