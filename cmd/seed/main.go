// Package main provides a seeding tool that fills the content store with
// generated catalog items, interactions, and user preferences. It writes
// through the same store layer as the engine, so seeded stats always match
// a ledger replay.
//
// Configuration:
//
//	LOG_LEVEL                  - slog level (e.g. INFO)
//	MYSQL_URI                  - MySQL connection string
//	SEED_CONTENT_COUNT         - number of content items to create (default: 50)
//	SEED_USER_COUNT            - number of simulated users (default: 20)
//	SEED_INTERACTIONS_PER_USER - interactions recorded per user (default: 15)
//	SEED_RANDOM_SEED           - fixed seed for reproducible runs (default: random)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/smartcontent/engine/internal/app"
	"github.com/smartcontent/engine/internal/datasources/mysql"
	"github.com/smartcontent/engine/internal/domain"
)

var categories = []string{
	"technology", "cooking", "fitness", "travel", "finance", "kitchen",
}

var tagPool = map[string][]string{
	"technology": {"go", "databases", "ai", "cloud", "security", "networking"},
	"cooking":    {"pasta", "baking", "bread", "coffee", "vegetarian", "italian"},
	"fitness":    {"running", "strength", "mobility", "nutrition"},
	"travel":     {"europe", "asia", "budget", "hiking"},
	"finance":    {"investing", "budgeting", "retirement"},
	"kitchen":    {"appliance", "cooking-tools", "coffee", "gear"},
}

func main() {
	ctx := context.Background()

	var logLevel slog.Level
	logLevelStr := app.GetEnvAsStringOrDefault("LOG_LEVEL", "INFO")
	if err := logLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		panic(fmt.Sprintf("unable to setup logger, LOG_LEVEL not recognised [%s]", logLevelStr))
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	ctx = domain.ContextWithLogger(ctx, logger)

	seed := int64(app.GetEnvAsIntOrDefault(ctx, "SEED_RANDOM_SEED", int(time.Now().UnixNano())))
	faker := gofakeit.New(uint64(seed))
	rng := rand.New(rand.NewSource(seed))

	db, err := mysql.Connect(ctx, app.MustGetEnvAsString(ctx, "MYSQL_URI"))
	if err != nil {
		logger.ErrorContext(ctx, "unable to connect to MySQL", "error", err)
		os.Exit(1)
	}
	store := mysql.New(db)

	contentCount := app.GetEnvAsIntOrDefault(ctx, "SEED_CONTENT_COUNT", 50)
	userCount := app.GetEnvAsIntOrDefault(ctx, "SEED_USER_COUNT", 20)
	interactionsPerUser := app.GetEnvAsIntOrDefault(ctx, "SEED_INTERACTIONS_PER_USER", 15)

	contentIDs, err := seedContent(ctx, store, faker, rng, contentCount)
	if err != nil {
		logger.ErrorContext(ctx, "unable to seed content", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "seeded content", "count", len(contentIDs))

	userIDs := make([]string, userCount)
	for i := range userIDs {
		userIDs[i] = "seed-" + faker.Username()
	}

	if err := seedPreferences(ctx, store, rng, userIDs); err != nil {
		logger.ErrorContext(ctx, "unable to seed preferences", "error", err)
		os.Exit(1)
	}

	recorded, err := seedInteractions(ctx, store, rng, userIDs, contentIDs, interactionsPerUser)
	if err != nil {
		logger.ErrorContext(ctx, "unable to seed interactions", "error", err)
		os.Exit(1)
	}
	logger.InfoContext(ctx, "seeding complete",
		"users", len(userIDs),
		"interactions", recorded,
	)
}

func seedContent(
	ctx context.Context,
	store *mysql.Repository,
	faker *gofakeit.Faker,
	rng *rand.Rand,
	count int,
) ([]string, error) {
	ids := make([]string, 0, count)

	for i := 0; i < count; i++ {
		item := generateContentItem(faker, rng)
		if err := store.CreateContent(ctx, item); err != nil {
			return nil, fmt.Errorf("creating content [%s]: %w", item.ID, err)
		}
		ids = append(ids, item.ID)
	}

	return ids, nil
}

func generateContentItem(faker *gofakeit.Faker, rng *rand.Rand) domain.ContentItem {
	category := categories[rng.Intn(len(categories))]
	pool := tagPool[category]

	tags := make([]string, 0, 3)
	for _, idx := range rng.Perm(len(pool))[:min(3, len(pool))] {
		tags = append(tags, pool[idx])
	}

	item := domain.ContentItem{
		ID:          uuid.NewString(),
		Title:       faker.Sentence(4),
		Description: faker.Paragraph(1, 3, 10, " "),
		Category:    category,
		Tags:        tags,
		Author:      faker.Name(),
		ImageURL:    faker.ImageURL(640, 480),
		SourceURL:   faker.URL(),
		IsActive:    true,
		CreatedAt:   faker.DateRange(time.Now().AddDate(0, -6, 0), time.Now()).UTC(),
	}

	switch rng.Intn(3) {
	case 0:
		item.Kind = domain.ContentKindArticle
		published := item.CreatedAt.Add(-24 * time.Hour)
		item.Article = &domain.ArticleMeta{
			Source:      faker.Company(),
			PublishedAt: &published,
		}
	case 1:
		item.Kind = domain.ContentKindVideo
		item.Video = &domain.VideoMeta{
			Duration: fmt.Sprintf("%02d:%02d", rng.Intn(45), rng.Intn(60)),
		}
	default:
		item.Kind = domain.ContentKindProduct
		item.Product = &domain.ProductMeta{
			Price: faker.Price(5, 500),
		}
	}

	return item
}

func seedPreferences(
	ctx context.Context,
	store *mysql.Repository,
	rng *rand.Rand,
	userIDs []string,
) error {
	declared := 0

	for _, userID := range userIDs {
		// Leave some users without declared preferences so the revealed
		// preference and cold-start paths get realistic traffic.
		if rng.Intn(3) == 0 {
			continue
		}

		category := categories[rng.Intn(len(categories))]
		pool := tagPool[category]
		prefs := domain.UserPreferences{
			Categories: []string{category},
			Tags:       []string{pool[rng.Intn(len(pool))]},
		}

		if err := store.SetUserPreferences(ctx, userID, prefs); err != nil {
			return fmt.Errorf("setting preferences for [%s]: %w", userID, err)
		}
		declared++
	}

	domain.LoggerFromContext(ctx).InfoContext(ctx, "seeded preferences", "declared", declared)
	return nil
}

func seedInteractions(
	ctx context.Context,
	store *mysql.Repository,
	rng *rand.Rand,
	userIDs, contentIDs []string,
	perUser int,
) (int, error) {
	recorded := 0

	for _, userID := range userIDs {
		for i := 0; i < perUser; i++ {
			contentID := contentIDs[rng.Intn(len(contentIDs))]

			kind := domain.InteractionKindView
			rating := 0
			switch rng.Intn(10) {
			case 0, 1, 2:
				kind = domain.InteractionKindLike
			case 3:
				kind = domain.InteractionKindRating
				rating = 1 + rng.Intn(5)
			}

			_, _, err := store.RecordInteraction(ctx, userID, contentID, kind, rating)
			if err != nil {
				// Writers racing on the same pair can exhaust retries; a
				// seeded interaction lost to contention is fine to skip.
				if errors.Is(err, domain.ErrConflict) {
					continue
				}
				return recorded, fmt.Errorf("recording [%s] on [%s]: %w", kind, contentID, err)
			}
			recorded++
		}
	}

	return recorded, nil
}
