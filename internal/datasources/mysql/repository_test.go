package mysql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/smartcontent/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	if testing.Short() {
		t.Skip("skipping MySQL integration tests in short mode")
	}

	db, err := Connect(context.Background(), os.Getenv("MYSQL_URI"))
	if err != nil {
		t.Fatal(err)
	}

	repo := New(db)

	err = repo.CreateContent(context.Background(), domain.ContentItem{
		ID:          "concurrency-deep-dive",
		Title:       "A Deep Dive Into Goroutine Scheduling",
		Description: "How the runtime multiplexes goroutines onto threads",
		Kind:        domain.ContentKindArticle,
		Category:    "technology",
		Tags:        []string{"go", "concurrency"},
		Author:      "R. Pike",
		Article: &domain.ArticleMeta{
			Source:      "engineering-blog",
			PublishedAt: timePtr(time.Date(2024, 4, 27, 11, 13, 6, 0, time.UTC)),
		},
		IsActive:  true,
		CreatedAt: time.Date(2024, 4, 28, 0, 27, 37, 0, time.UTC),
	})
	require.NoError(t, err)

	err = repo.CreateContent(context.Background(), domain.ContentItem{
		ID:          "pasta-from-scratch",
		Title:       "Fresh Pasta From Scratch",
		Description: "Flour, eggs, and twenty minutes",
		Kind:        domain.ContentKindVideo,
		Category:    "cooking",
		Tags:        []string{"pasta", "italian"},
		Author:      "M. Rossi",
		Video:       &domain.VideoMeta{Duration: "12:41"},
		IsActive:    true,
		CreatedAt:   time.Date(2024, 4, 28, 0, 2, 13, 0, time.UTC),
	})
	require.NoError(t, err)

	err = repo.CreateContent(context.Background(), domain.ContentItem{
		ID:          "stand-mixer",
		Title:       "Counter Stand Mixer",
		Description: "Kneads the pasta dough for you",
		Kind:        domain.ContentKindProduct,
		Category:    "kitchen",
		Tags:        []string{"pasta", "appliance"},
		Author:      "",
		Product:     &domain.ProductMeta{Price: 299.99},
		IsActive:    true,
		CreatedAt:   time.Date(2024, 4, 27, 18, 45, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	return db
}

func teardownTestDB(t *testing.T, db *sql.DB) {
	if testing.Short() {
		t.Skip("skipping MySQL integration tests in short mode")
	}

	_, err := db.ExecContext(context.Background(), "DELETE FROM interaction")
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), "DELETE FROM user_preference")
	require.NoError(t, err)

	_, err = db.ExecContext(context.Background(), "DELETE FROM content")
	require.NoError(t, err)

	err = db.Close()
	require.NoError(t, err)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestRepository_ListContent(t *testing.T) {
	cases := []struct {
		name     string
		filters  domain.ContentFilters
		expected []string
	}{
		{
			name:    "all",
			filters: domain.ContentFilters{},
			expected: []string{
				"concurrency-deep-dive",
				"pasta-from-scratch",
				"stand-mixer",
			},
		},
		{
			name:     "only_videos",
			filters:  domain.ContentFilters{Kind: domain.ContentKindVideo},
			expected: []string{"pasta-from-scratch"},
		},
		{
			name:     "only_cooking",
			filters:  domain.ContentFilters{Category: "cooking"},
			expected: []string{"pasta-from-scratch"},
		},
		{
			name:    "text_query_matches_tags",
			filters: domain.ContentFilters{TextQuery: "PASTA"},
			expected: []string{
				"pasta-from-scratch",
				"stand-mixer",
			},
		},
		{
			name: "combined_filters_are_anded",
			filters: domain.ContentFilters{
				Kind:      domain.ContentKindProduct,
				TextQuery: "pasta",
			},
			expected: []string{"stand-mixer"},
		},
		{
			name:     "no_match",
			filters:  domain.ContentFilters{TextQuery: "woodworking"},
			expected: []string{},
		},
	}

	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			items, err := repo.ListContent(context.Background(), c.filters, domain.ContentListOptions{})
			require.NoError(t, err)

			ids := make([]string, 0, len(items))
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, c.expected, ids)

			count, err := repo.TotalMatchingContent(context.Background(), c.filters)
			require.NoError(t, err)
			assert.Equal(t, int64(len(c.expected)), count)
		})
	}
}

func TestRepository_ListContent_Pagination(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	items, err := repo.ListContent(context.Background(), domain.ContentFilters{},
		domain.ContentListOptions{Page: 2, PageSize: 2})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "stand-mixer", items[0].ID)
}

func TestRepository_FetchContent(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	item, err := repo.FetchContent(context.Background(), "pasta-from-scratch")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Pasta From Scratch", item.Title)
	assert.Equal(t, []string{"pasta", "italian"}, item.Tags)
	require.NotNil(t, item.Video)
	assert.Equal(t, "12:41", item.Video.Duration)

	_, err = repo.FetchContent(context.Background(), "no-such-content")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_RecordInteraction_ViewDedup(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	current := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := New(db,
		WithViewDedupWindow(30*time.Minute),
		WithClock(func() time.Time { return current }),
	)

	outcome, stats, err := repo.RecordInteraction(context.Background(),
		"user-1", "concurrency-deep-dive", domain.InteractionKindView, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedAdded, outcome.Applied)
	assert.Equal(t, uint64(1), stats.Views)

	// Repeat inside the window is dropped without touching stats.
	current = current.Add(10 * time.Minute)
	outcome, stats, err = repo.RecordInteraction(context.Background(),
		"user-1", "concurrency-deep-dive", domain.InteractionKindView, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedIgnored, outcome.Applied)
	assert.Equal(t, uint64(1), stats.Views)

	// Past the window it counts again.
	current = current.Add(30 * time.Minute)
	outcome, stats, err = repo.RecordInteraction(context.Background(),
		"user-1", "concurrency-deep-dive", domain.InteractionKindView, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedAdded, outcome.Applied)
	assert.Equal(t, uint64(2), stats.Views)
}

func TestRepository_RecordInteraction_LikeToggle(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	outcome, stats, err := repo.RecordInteraction(context.Background(),
		"user-1", "pasta-from-scratch", domain.InteractionKindLike, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedAdded, outcome.Applied)
	assert.Equal(t, uint64(1), stats.Likes)

	liked, err := repo.ListLikedContentIDs(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"pasta-from-scratch"}, liked)

	outcome, stats, err = repo.RecordInteraction(context.Background(),
		"user-1", "pasta-from-scratch", domain.InteractionKindLike, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedRemoved, outcome.Applied)
	assert.Equal(t, uint64(0), stats.Likes)

	liked, err = repo.ListLikedContentIDs(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, liked)
}

func TestRepository_RecordInteraction_RatingReplace(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	_, stats, err := repo.RecordInteraction(context.Background(),
		"user-1", "stand-mixer", domain.InteractionKindRating, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalRatings)
	assert.InDelta(t, 5.0, stats.AverageRating, domain.StatsTolerance)

	_, stats, err = repo.RecordInteraction(context.Background(),
		"user-2", "stand-mixer", domain.InteractionKindRating, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.TotalRatings)
	assert.InDelta(t, 3.5, stats.AverageRating, domain.StatsTolerance)

	// Re-rating replaces the old value instead of adding a second record.
	outcome, stats, err := repo.RecordInteraction(context.Background(),
		"user-1", "stand-mixer", domain.InteractionKindRating, 3)
	require.NoError(t, err)
	assert.Equal(t, domain.AppliedReplaced, outcome.Applied)
	assert.Equal(t, uint64(2), stats.TotalRatings)
	assert.InDelta(t, 2.5, stats.AverageRating, domain.StatsTolerance)

	_, _, err = repo.RecordInteraction(context.Background(),
		"user-1", "stand-mixer", domain.InteractionKindRating, 9)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRepository_RecordInteraction_StatsMatchReplay(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db, WithViewDedupWindow(time.Nanosecond))

	users := []string{"user-1", "user-2", "user-3"}
	for _, user := range users {
		for _, kind := range []domain.InteractionKind{
			domain.InteractionKindView,
			domain.InteractionKindLike,
		} {
			_, _, err := repo.RecordInteraction(context.Background(),
				user, "concurrency-deep-dive", kind, 0)
			require.NoError(t, err)
		}
		_, _, err := repo.RecordInteraction(context.Background(),
			user, "concurrency-deep-dive", domain.InteractionKindRating, 4)
		require.NoError(t, err)
	}
	// user-2 walks back their like and downgrades their rating.
	_, _, err := repo.RecordInteraction(context.Background(),
		"user-2", "concurrency-deep-dive", domain.InteractionKindLike, 0)
	require.NoError(t, err)
	_, stats, err := repo.RecordInteraction(context.Background(),
		"user-2", "concurrency-deep-dive", domain.InteractionKindRating, 1)
	require.NoError(t, err)

	records, err := repo.ListContentInteractions(context.Background(), "concurrency-deep-dive")
	require.NoError(t, err)
	replayed := domain.RecomputeStats(records)
	assert.False(t, domain.StatsDrift(stats, replayed))

	item, err := repo.FetchContent(context.Background(), "concurrency-deep-dive")
	require.NoError(t, err)
	assert.Equal(t, stats, item.Stats)
}

func TestRepository_SoftDeleteContent(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	err := repo.SoftDeleteContent(context.Background(), "stand-mixer")
	require.NoError(t, err)

	items, err := repo.ListContent(context.Background(), domain.ContentFilters{}, domain.ContentListOptions{})
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "stand-mixer", item.ID)
	}

	_, _, err = repo.RecordInteraction(context.Background(),
		"user-1", "stand-mixer", domain.InteractionKindLike, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.SoftDeleteContent(context.Background(), "no-such-content")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_UpdateContent_PreservesStats(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	_, _, err := repo.RecordInteraction(context.Background(),
		"user-1", "pasta-from-scratch", domain.InteractionKindLike, 0)
	require.NoError(t, err)

	item, err := repo.FetchContent(context.Background(), "pasta-from-scratch")
	require.NoError(t, err)

	item.Title = "Fresh Pasta From Scratch (Remastered)"
	item.Stats = domain.Stats{} // callers cannot clobber stats through an update
	err = repo.UpdateContent(context.Background(), item)
	require.NoError(t, err)

	updated, err := repo.FetchContent(context.Background(), "pasta-from-scratch")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Pasta From Scratch (Remastered)", updated.Title)
	assert.Equal(t, uint64(1), updated.Stats.Likes)
}

func TestRepository_UserPreferences(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	prefs, err := repo.GetUserPreferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, prefs.IsEmpty())

	err = repo.SetUserPreferences(context.Background(), "user-1", domain.UserPreferences{
		Categories: []string{"technology"},
		Tags:       []string{"go", "concurrency"},
	})
	require.NoError(t, err)

	err = repo.SetUserPreferences(context.Background(), "user-1", domain.UserPreferences{
		Categories: []string{"cooking"},
		Tags:       []string{"pasta"},
	})
	require.NoError(t, err)

	prefs, err = repo.GetUserPreferences(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cooking"}, prefs.Categories)
	assert.Equal(t, []string{"pasta"}, prefs.Tags)
}

func TestRepository_GetOverview(t *testing.T) {
	db := setupTestDB(t)
	defer teardownTestDB(t, db)

	repo := New(db)

	_, _, err := repo.RecordInteraction(context.Background(),
		"user-1", "concurrency-deep-dive", domain.InteractionKindView, 0)
	require.NoError(t, err)
	_, _, err = repo.RecordInteraction(context.Background(),
		"user-2", "pasta-from-scratch", domain.InteractionKindLike, 0)
	require.NoError(t, err)
	err = repo.SetUserPreferences(context.Background(), "user-3",
		domain.UserPreferences{Tags: []string{"pasta"}})
	require.NoError(t, err)

	overview, err := repo.GetOverview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), overview.TotalContent)
	assert.Equal(t, int64(3), overview.TotalUsers)
	assert.Equal(t, int64(2), overview.TotalInteractions)
	assert.Equal(t, uint64(1), overview.TotalViews)
	assert.Equal(t, uint64(1), overview.TotalLikes)
}
