package command

import (
	"context"
	"slices"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

// RecordInteractionRequest is the request for the RecordInteraction command.
// Rating is only read when Kind is rating.
type RecordInteractionRequest struct {
	UserID    string
	ContentID string
	Kind      domain.InteractionKind
	Rating    int
}

// RecordInteractionResult reports how the ledger absorbed the event and the
// content stats after the update.
type RecordInteractionResult struct {
	Outcome domain.Outcome `json:"outcome"`
	Stats   domain.Stats   `json:"stats"`
}

// RecordInteraction validates an interaction event and hands it to the store,
// which resolves the dedup/toggle/replace policy and updates stats atomically.
type RecordInteraction struct {
	Recorder datasources.InteractionRecorder
}

func (c *RecordInteraction) Execute(
	ctx context.Context,
	req RecordInteractionRequest,
) (RecordInteractionResult, error) {
	if req.UserID == "" {
		return RecordInteractionResult{}, domain.InvalidInput("user ID is required")
	}
	if req.ContentID == "" {
		return RecordInteractionResult{}, domain.InvalidInput("content ID is required")
	}
	if !slices.Contains(domain.ValidInteractionKinds, req.Kind) {
		return RecordInteractionResult{}, domain.InvalidInputf("unknown interaction kind [%s]", req.Kind)
	}

	outcome, stats, err := c.Recorder.RecordInteraction(ctx, req.UserID, req.ContentID, req.Kind, req.Rating)
	if err != nil {
		return RecordInteractionResult{}, err
	}

	logger := domain.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "recorded interaction",
		"contentID", req.ContentID, "kind", req.Kind, "applied", outcome.Applied)

	return RecordInteractionResult{Outcome: outcome, Stats: stats}, nil
}
