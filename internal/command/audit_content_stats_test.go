package command

import (
	"context"
	"testing"
	"time"

	"github.com/smartcontent/engine/internal/datasources/memory"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticContentLister struct {
	items []domain.ContentItem
}

func (s staticContentLister) ListActiveContent(_ context.Context) ([]domain.ContentItem, error) {
	return s.items, nil
}

type staticInteractionLister struct {
	records map[string][]domain.Interaction
}

func (s staticInteractionLister) ListContentInteractions(
	_ context.Context, contentID string,
) ([]domain.Interaction, error) {
	return s.records[contentID], nil
}

func TestAuditContentStats_CleanStore(t *testing.T) {
	// All stats flow through the ledger here, so replay must agree.
	store := memory.New(memory.WithViewDedupWindow(time.Nanosecond))
	ctx := context.Background()

	for _, id := range []string{"first-loaf", "second-loaf"} {
		err := store.CreateContent(ctx, domain.ContentItem{
			ID:          id,
			Title:       "Loaf " + id,
			Description: "A bread video",
			Kind:        domain.ContentKindVideo,
			Category:    "cooking",
			Tags:        []string{"bread"},
			Video:       &domain.VideoMeta{Duration: "10:00"},
			IsActive:    true,
			CreatedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	for _, user := range []string{"user-1", "user-2"} {
		_, _, err := store.RecordInteraction(ctx, user, "first-loaf", domain.InteractionKindView, 0)
		require.NoError(t, err)
		_, _, err = store.RecordInteraction(ctx, user, "first-loaf", domain.InteractionKindLike, 0)
		require.NoError(t, err)
		_, _, err = store.RecordInteraction(ctx, user, "second-loaf", domain.InteractionKindRating, 4)
		require.NoError(t, err)
	}
	// A toggle-off and a replace, so the replay covers retractions too.
	_, _, err := store.RecordInteraction(ctx, "user-2", "first-loaf", domain.InteractionKindLike, 0)
	require.NoError(t, err)
	_, _, err = store.RecordInteraction(ctx, "user-2", "second-loaf", domain.InteractionKindRating, 1)
	require.NoError(t, err)

	cmd := &AuditContentStats{Lister: store, Interactions: store}
	result, err := cmd.Execute(ctx, Empty{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Empty(t, result.Drifted)
}

func TestAuditContentStats_ReportsDrift(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	cmd := &AuditContentStats{
		Lister: staticContentLister{items: []domain.ContentItem{
			{ID: "clean", Stats: domain.Stats{Views: 1}, IsActive: true},
			{ID: "drifted", Stats: domain.Stats{Views: 7}, IsActive: true},
		}},
		Interactions: staticInteractionLister{records: map[string][]domain.Interaction{
			"clean": {
				{UserID: "u1", ContentID: "clean", Kind: domain.InteractionKindView, Timestamp: now},
			},
			"drifted": {
				{UserID: "u1", ContentID: "drifted", Kind: domain.InteractionKindView, Timestamp: now},
			},
		}},
	}

	result, err := cmd.Execute(context.Background(), Empty{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Checked)
	assert.Equal(t, []string{"drifted"}, result.Drifted)
}
