package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentGet_ServeHTTP(t *testing.T) {
	cases := []struct {
		name          string
		contentID     string
		setupContext  func(r *http.Request) *http.Request
		softDelete    bool
		wantStatus    int
		wantCacheCtrl string
	}{
		{
			name:          "successful_fetch",
			contentID:     "espresso-science",
			setupContext:  testContext(),
			wantStatus:    http.StatusOK,
			wantCacheCtrl: "max-age=60",
		},
		{
			name:          "no_cache_for_authenticated_user",
			contentID:     "espresso-science",
			setupContext:  testContextWithUserID("user-1"),
			wantStatus:    http.StatusOK,
			wantCacheCtrl: "",
		},
		{
			name:         "unknown_content",
			contentID:    "missing",
			setupContext: testContext(),
			wantStatus:   http.StatusNotFound,
		},
		{
			name:         "inactive_hidden_from_anonymous",
			contentID:    "espresso-science",
			setupContext: testContext(),
			softDelete:   true,
			wantStatus:   http.StatusNotFound,
		},
		{
			name:         "inactive_visible_when_authenticated",
			contentID:    "espresso-science",
			setupContext: testContextWithUserID("user-1"),
			softDelete:   true,
			wantStatus:   http.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := seedControllerStore(t)
			if tc.softDelete {
				require.NoError(t, store.SoftDeleteContent(t.Context(), tc.contentID))
			}

			ctrl := ContentGet{Fetcher: store, CacheMaxAge: time.Minute}

			req := httptest.NewRequest(http.MethodGet, "/v1/content/"+tc.contentID, nil)
			req = tc.setupContext(req)
			req = mux.SetURLVars(req, map[string]string{"content_id": tc.contentID})
			rec := httptest.NewRecorder()

			ctrl.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus != http.StatusOK {
				return
			}

			assert.Equal(t, tc.wantCacheCtrl, rec.Header().Get("Cache-Control"))

			var item domain.ContentItem
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
			assert.Equal(t, tc.contentID, item.ID)
		})
	}
}
