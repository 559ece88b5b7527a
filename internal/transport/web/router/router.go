package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/smartcontent/engine/internal/transport/web/controller"
)

// Store is the storage surface the HTTP layer reads and writes directly.
// Multi-step operations go through commands instead.
type Store interface {
	datasources.ContentRepository
	datasources.OverviewGetter
}

type Commands struct {
	RecordInteraction command.Command[command.RecordInteractionRequest, command.RecordInteractionResult]
	RankContent       command.Command[command.RankContentRequest, []domain.ContentItem]
	RecommendContent  command.Command[command.RecommendContentRequest, command.RecommendContentResult]
	SimilarContent    command.Command[command.SimilarContentRequest, []domain.ContentItem]
}

func MakeRouter(
	store Store,
	commands Commands,
	rssFeedBaseURL, rssFeedAuthorName, rssFeedAuthorEmail string,
	rankingsCacheMaxAge time.Duration,
	authMiddleware func(http.Handler) http.Handler,
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(authMiddleware)

	r.Handle("/health", controller.Health{}).
		Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/content", controller.ContentList{
		Repository:  store,
		CacheMaxAge: rankingsCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/content", requireAuthMiddleware(controller.ContentCreate{
		Creator: store,
	})).Methods(http.MethodPost)

	r.Handle("/v1/content/{content_id}", controller.ContentGet{
		Fetcher:     store,
		CacheMaxAge: rankingsCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/content/{content_id}", requireAuthMiddleware(controller.ContentUpdate{
		Repository: store,
	})).Methods(http.MethodPut)

	r.Handle("/v1/content/{content_id}", requireAuthMiddleware(controller.ContentDelete{
		Deleter: store,
	})).Methods(http.MethodDelete)

	r.Handle("/v1/content/{content_id}/interactions", requireAuthMiddleware(controller.InteractionRecord{
		RecordCmd: commands.RecordInteraction,
	})).Methods(http.MethodPost, http.MethodOptions)

	r.Handle("/v1/content/{content_id}/similar", controller.SimilarContentList{
		SimilarCmd:  commands.SimilarContent,
		CacheMaxAge: rankingsCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/rankings/{ranking}", controller.RankingList{
		RankCmd:     commands.RankContent,
		CacheMaxAge: rankingsCacheMaxAge,
	}).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/recommendations", requireAuthMiddleware(controller.RecommendationsList{
		RecommendCmd: commands.RecommendContent,
	})).Methods(http.MethodGet, http.MethodOptions)

	r.Handle("/v1/overview", controller.OverviewGet{
		Getter: store,
	}).Methods(http.MethodGet, http.MethodOptions)

	rssFeeds := []controller.RSS{
		{
			FeedHostname:    rssFeedBaseURL,
			FeedPath:        "/rss",
			FeedAuthorName:  rssFeedAuthorName,
			FeedAuthorEmail: rssFeedAuthorEmail,
			RankCmd:         commands.RankContent,
			CacheMaxAge:     rankingsCacheMaxAge,
		},
	}

	for _, feed := range rssFeeds {
		r.Handle(feed.FeedPath, feed)
	}

	return r, nil
}
