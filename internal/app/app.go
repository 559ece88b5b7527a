package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/smartcontent/engine/internal/command"
	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/datasources/memory"
	"github.com/smartcontent/engine/internal/datasources/mysql"
	"github.com/smartcontent/engine/internal/datasources/pinecone"
	"github.com/smartcontent/engine/internal/domain"
	"github.com/smartcontent/engine/internal/reconcile"
	"github.com/smartcontent/engine/internal/transport/web/router"
	"github.com/smartcontent/engine/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

// defaultRankingsCacheMaxAge bounds how stale cached ranking and listing
// responses may get for anonymous callers.
const defaultRankingsCacheMaxAge = time.Minute

// Store is the full storage surface the engine is wired against. Both drivers
// implement all of it.
type Store interface {
	datasources.ContentRepository
	datasources.InteractionRepository
	datasources.PreferenceRepository
	datasources.OverviewGetter
}

func Setup(ctx context.Context) ([]Component, error) {
	store, err := setupContentStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up content store: %w", err)
	}

	similarity, err := setupSimilarityDriver(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up similarity driver: %w", err)
	}

	authMiddleware, err := setupAuthMiddleware(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up auth middleware: %w", err)
	}

	trendingLikeWeight := uint64(GetEnvAsIntOrDefault(ctx, "TRENDING_LIKE_WEIGHT", domain.DefaultTrendingLikeWeight))

	commands := router.Commands{
		RecordInteraction: &command.RecordInteraction{Recorder: store},
		RankContent: &command.RankContent{
			Lister:             store,
			TrendingLikeWeight: trendingLikeWeight,
		},
		RecommendContent: &command.RecommendContent{
			Preferences:   store,
			Interactions:  store,
			ContentLister: store,
		},
		SimilarContent: &command.SimilarContent{
			Fetcher:  store,
			Lister:   store,
			Semantic: similarity,
		},
	}

	httpRouter, err := router.MakeRouter(
		store,
		commands,
		MustGetEnvAsString(ctx, "RSS_FEED_BASE_URL"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_NAME"),
		MustGetEnvAsString(ctx, "RSS_FEED_AUTHOR_EMAIL"),
		GetEnvAsDurationOrDefault(ctx, "RANKINGS_CACHE_MAX_AGE", defaultRankingsCacheMaxAge),
		authMiddleware,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	return []Component{
		&server.Server{
			TLSDisabled:       MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:   MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostnames: MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES"),
			Router:            httpRouter,
		},
		&reconcile.Auditor{
			Schedule: GetEnvAsStringOrDefault("STATS_AUDIT_SCHEDULE", "@hourly"),
			Audit:    &command.AuditContentStats{Lister: store, Interactions: store},
		},
	}, nil
}

func setupContentStore(ctx context.Context) (Store, error) {
	viewWindow := GetEnvAsDurationOrDefault(ctx, "VIEW_DEDUP_WINDOW", domain.DefaultViewDedupWindow)

	switch driver := MustGetEnvAsString(ctx, "CONTENT_STORE_DRIVER"); driver {
	case "memory":
		return memory.New(memory.WithViewDedupWindow(viewWindow)), nil
	case "mysql":
		db, err := mysql.Connect(ctx, MustGetEnvAsString(ctx, "MYSQL_URI"))
		if err != nil {
			return nil, fmt.Errorf("connecting to MySQL: %w", err)
		}
		return mysql.New(db, mysql.WithViewDedupWindow(viewWindow)), nil
	default:
		return nil, fmt.Errorf("unknown content store driver [%s]", driver)
	}
}

func setupSimilarityDriver(ctx context.Context) (datasources.SemanticSimilarityLister, error) {
	switch driver := MustGetEnvAsString(ctx, "SIMILARITY_DRIVER"); driver {
	case "tags":
		// The tag-overlap baseline needs no external index.
		return nil, nil
	case "pinecone":
		client, err := pinecone.NewClient(
			ctx,
			MustGetEnvAsString(ctx, "PINECONE_API_KEY"),
			MustGetEnvAsString(ctx, "PINECONE_INDEX_NAME"),
		)
		if err != nil {
			return nil, fmt.Errorf("connecting to pinecone: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown similarity driver [%s]", driver)
	}
}

func setupAuthMiddleware(ctx context.Context) (func(http.Handler) http.Handler, error) {
	var validators []router.AuthValidator

	for _, driver := range MustGetEnvAsStrings(ctx, "AUTH_DRIVERS") {
		switch driver {
		case "":
			// Skip empty strings (e.g., from splitting an empty AUTH_DRIVERS)
		case "auth0":
			v, err := router.NewAuth0Validator(
				MustGetEnvAsString(ctx, "AUTH0_DOMAIN"),
				MustGetEnvAsString(ctx, "AUTH0_AUDIENCE"),
			)
			if err != nil {
				return nil, fmt.Errorf("creating Auth0 validator: %w", err)
			}
			validators = append(validators, v)
		case "dev":
			validators = append(validators, router.NewDevHeaderValidator())
		default:
			return nil, fmt.Errorf("unknown auth driver [%s]", driver)
		}
	}

	return router.NewAuthMiddleware(validators), nil
}
