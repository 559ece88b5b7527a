package datasources

import (
	"context"

	"github.com/smartcontent/engine/internal/domain"
)

// InteractionRecorder appends one interaction to the ledger and folds it into
// the item's stats as a single transactional step: either both the ledger
// write and the stats update are applied, or neither is. Implementations
// serialize operations on the same (userID, contentID) pair; distinct pairs
// proceed concurrently.
//
// Returns the resolved outcome plus the stats after the update. Fails with
// NotFound when contentID is unknown or inactive, InvalidInput for an
// out-of-range rating, Conflict when optimistic retries are exhausted.
type InteractionRecorder interface {
	RecordInteraction(
		ctx context.Context,
		userID, contentID string,
		kind domain.InteractionKind,
		rating int,
	) (domain.Outcome, domain.Stats, error)
}

// ContentInteractionLister returns the surviving ledger records for one
// content item, for replay audits.
type ContentInteractionLister interface {
	ListContentInteractions(ctx context.Context, contentID string) ([]domain.Interaction, error)
}

// LikedContentLister returns the IDs of items a user currently likes.
type LikedContentLister interface {
	ListLikedContentIDs(ctx context.Context, userID string) ([]string, error)
}

// UserInteractionCounter reports how many ledger records a user has, across
// all items. The recommendation fallback keys off this.
type UserInteractionCounter interface {
	CountUserInteractions(ctx context.Context, userID string) (int64, error)
}

// InteractionRepository combines the ledger operations.
type InteractionRepository interface {
	InteractionRecorder
	ContentInteractionLister
	LikedContentLister
	UserInteractionCounter
}

// OverviewGetter computes the live aggregate over current state.
type OverviewGetter interface {
	GetOverview(ctx context.Context) (domain.Overview, error)
}
