package domain

import "time"

// InteractionKind is the type of event a user recorded against a content item.
type InteractionKind string

const (
	InteractionKindView   InteractionKind = "view"
	InteractionKindLike   InteractionKind = "like"
	InteractionKindRating InteractionKind = "rating"
)

var ValidInteractionKinds = []InteractionKind{
	InteractionKindView,
	InteractionKindLike,
	InteractionKindRating,
}

const (
	MinRating = 1
	MaxRating = 5
)

// Interaction is one ledger record. Rating is meaningful only when Kind is
// rating. Like records are retracted (removed from the ledger) when toggled
// off rather than being marked; see ResolveLike.
type Interaction struct {
	UserID    string          `json:"user_id"`
	ContentID string          `json:"content_id"`
	Kind      InteractionKind `json:"kind"`
	Rating    int             `json:"rating,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Applied describes how the ledger absorbed a recorded interaction.
type Applied string

const (
	// AppliedAdded means a new record was inserted.
	AppliedAdded Applied = "added"
	// AppliedRemoved means an existing record was retracted (like toggle off).
	AppliedRemoved Applied = "removed"
	// AppliedReplaced means an existing rating was overwritten in place.
	AppliedReplaced Applied = "replaced"
	// AppliedIgnored means the event was dropped by policy (duplicate view
	// inside the de-duplication window) and must not touch stats.
	AppliedIgnored Applied = "ignored"
)

// Outcome is what a record operation hands to the stats aggregator.
type Outcome struct {
	Kind    InteractionKind
	Applied Applied
	// OldRating and NewRating are set for rating outcomes: Added carries
	// NewRating only, Replaced carries both.
	OldRating int
	NewRating int
}

// DefaultViewDedupWindow is the rolling window inside which repeat views from
// the same user on the same item are not counted again. The window is keyed on
// the last counted view, so a user browsing back and forth within half an hour
// contributes a single view.
const DefaultViewDedupWindow = 30 * time.Minute

// ResolveView decides whether a view should count. lastCounted is the
// timestamp of the user's last counted view of this item, zero if none.
func ResolveView(lastCounted time.Time, now time.Time, window time.Duration) Outcome {
	if !lastCounted.IsZero() && now.Sub(lastCounted) < window {
		return Outcome{Kind: InteractionKindView, Applied: AppliedIgnored}
	}
	return Outcome{Kind: InteractionKindView, Applied: AppliedAdded}
}

// ResolveLike realizes toggle semantics: a like on an unliked item adds it, a
// like on an already-liked item retracts it.
func ResolveLike(alreadyLiked bool) Outcome {
	if alreadyLiked {
		return Outcome{Kind: InteractionKindLike, Applied: AppliedRemoved}
	}
	return Outcome{Kind: InteractionKindLike, Applied: AppliedAdded}
}

// ResolveRating realizes replace semantics: the new value supersedes any prior
// rating by the same user rather than adding a second record. oldRating is the
// prior value, zero if the user has not rated this item.
func ResolveRating(oldRating, newRating int) (Outcome, error) {
	if newRating < MinRating || newRating > MaxRating {
		return Outcome{}, InvalidInputf("rating must be in [%d,%d], got [%d]", MinRating, MaxRating, newRating)
	}
	if oldRating == 0 {
		return Outcome{Kind: InteractionKindRating, Applied: AppliedAdded, NewRating: newRating}, nil
	}
	return Outcome{
		Kind:      InteractionKindRating,
		Applied:   AppliedReplaced,
		OldRating: oldRating,
		NewRating: newRating,
	}, nil
}
