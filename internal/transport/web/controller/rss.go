package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/domain"
)

type RSS struct {
	FeedHostname    string
	FeedPath        string
	FeedAuthorName  string
	FeedAuthorEmail string
	RankCmd         command.Command[command.RankContentRequest, []domain.ContentItem]
	CacheMaxAge     time.Duration
}

func (c RSS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	feed := &feeds.Feed{
		Title:       "Trending Content",
		Link:        &feeds.Link{Href: c.FeedHostname + c.FeedPath},
		Description: "The catalog's trending articles, videos, and products",
		Author:      &feeds.Author{Name: c.FeedAuthorName, Email: c.FeedAuthorEmail},
		Created:     time.Now(),
	}

	limit, err := limitFromQuery(r.URL.Query())
	if err != nil {
		respondError(ctx, w, domain.InvalidInput(err.Error()), "unable to parse feed limit")
		return
	}

	items, err := c.RankCmd.Execute(ctx, command.RankContentRequest{
		Kind:  domain.RankingKindTrending,
		Limit: limit,
	})
	if err != nil {
		respondError(ctx, w, err, "unable to compute trending feed")
		return
	}

	for _, item := range items {
		link := item.SourceURL
		if link == "" {
			link = c.FeedHostname + "/v1/content/" + item.ID
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          item.ID,
			IsPermaLink: "false",
			Title:       item.Title,
			Link:        &feeds.Link{Href: link},
			Description: item.Description,
			Author:      &feeds.Author{Name: item.Author},
			Created:     item.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		respondError(ctx, w, err, "unable to format feed as RSS")
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.CacheMaxAge.Seconds())))

	if _, err := w.Write([]byte(rss)); err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write feed to response", "error", err)
	}
}
