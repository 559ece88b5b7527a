package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smartcontent/engine/internal/datasources/memory"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		return r.WithContext(ctx)
	}
}

func testContextWithUserID(userID string) func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		ctx = domain.ContextWithUserID(ctx, userID)
		return r.WithContext(ctx)
	}
}

// seedControllerStore builds a store with a small catalog whose view and like
// counts distinguish every ranking from every other.
func seedControllerStore(t *testing.T) *memory.Store {
	t.Helper()

	store := memory.New()
	items := []domain.ContentItem{
		{
			ID:          "espresso-science",
			Title:       "The Science of Espresso",
			Description: "Pressure, grind, and extraction",
			Kind:        domain.ContentKindArticle,
			Category:    "cooking",
			Tags:        []string{"coffee", "chemistry"},
			Author:      "E. Rancilio",
			Stats:       domain.Stats{Views: 90, Likes: 3, AverageRating: 4.5, TotalRatings: 2},
			IsActive:    true,
			CreatedAt:   time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "latte-art-course",
			Title:       "Latte Art in Five Lessons",
			Description: "From hearts to swans",
			Kind:        domain.ContentKindVideo,
			Category:    "cooking",
			Tags:        []string{"coffee", "latte-art"},
			Author:      "B. Arista",
			Video:       &domain.VideoMeta{Duration: "42:00"},
			Stats:       domain.Stats{Views: 40, Likes: 30},
			IsActive:    true,
			CreatedAt:   time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          "hand-grinder",
			Title:       "Conical Burr Hand Grinder",
			Description: "Consistent grounds without a motor",
			Kind:        domain.ContentKindProduct,
			Category:    "kitchen",
			Tags:        []string{"coffee", "gear"},
			Product:     &domain.ProductMeta{Price: 59.0},
			Stats:       domain.Stats{Views: 15, Likes: 1, AverageRating: 5, TotalRatings: 1},
			IsActive:    true,
			CreatedAt:   time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, item := range items {
		require.NoError(t, store.CreateContent(t.Context(), item))
	}

	return store
}

func responseIDs(t *testing.T, data []domain.ContentItem) []string {
	t.Helper()
	ids := make([]string, 0, len(data))
	for _, item := range data {
		ids = append(ids, item.ID)
	}
	return ids
}

func TestContentList_ServeHTTP(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantStatus int
		wantIDs    []string
		wantTotal  int64
	}{
		{
			name:       "all",
			query:      "",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"espresso-science", "latte-art-course", "hand-grinder"},
			wantTotal:  3,
		},
		{
			name:       "filter_by_kind",
			query:      "?kind=video",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"latte-art-course"},
			wantTotal:  1,
		},
		{
			name:       "text_query",
			query:      "?q=grinder",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"hand-grinder"},
			wantTotal:  1,
		},
		{
			name:       "pagination",
			query:      "?page=2&page_size=2",
			wantStatus: http.StatusOK,
			wantIDs:    []string{"hand-grinder"},
			wantTotal:  3,
		},
		{
			name:       "invalid_page",
			query:      "?page=0",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "oversized_page_size",
			query:      "?page_size=10000",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seedControllerStore(t)
			ctrl := ContentList{Repository: store, CacheMaxAge: time.Minute}

			req := httptest.NewRequest(http.MethodGet, "/v1/content"+tc.query, nil)
			req = testContext()(req)
			rec := httptest.NewRecorder()

			ctrl.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus != http.StatusOK {
				return
			}

			assert.Equal(t, "max-age=60", rec.Header().Get("Cache-Control"))

			var resp ContentListResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.wantIDs, responseIDs(t, resp.Data))
			assert.Equal(t, tc.wantTotal, resp.Metadata.Total)
		})
	}
}

func TestContentList_NoCacheForAuthenticatedUser(t *testing.T) {
	store := seedControllerStore(t)
	ctrl := ContentList{Repository: store, CacheMaxAge: time.Minute}

	req := httptest.NewRequest(http.MethodGet, "/v1/content", nil)
	req = testContextWithUserID("user-1")(req)
	rec := httptest.NewRecorder()

	ctrl.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}
