package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

var _ datasources.ContentRepository = (*Repository)(nil)
var _ datasources.InteractionRepository = (*Repository)(nil)
var _ datasources.PreferenceRepository = (*Repository)(nil)
var _ datasources.OverviewGetter = (*Repository)(nil)

// Conflict retry policy for the optimistic version check on content stats.
const (
	conflictRetries = 3
	conflictBackoff = 25 * time.Millisecond
)

type Repository struct {
	db         *sql.DB
	viewWindow time.Duration
	now        func() time.Time
}

type Option func(*Repository)

// WithViewDedupWindow overrides the rolling view de-duplication window.
func WithViewDedupWindow(window time.Duration) Option {
	return func(r *Repository) { r.viewWindow = window }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func New(db *sql.DB, opts ...Option) *Repository {
	r := &Repository{
		db:         db,
		viewWindow: domain.DefaultViewDedupWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// mapStoreErr translates storage failures into the engine error taxonomy.
// Domain errors pass through untouched.
func mapStoreErr(err error, op string) error {
	if err == nil {
		return nil
	}
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.Timeout(op + " deadline exceeded")
	}
	return domain.Unavailablef("%s: %v", op, err)
}

const contentColumns = `id, title, description, kind, category, tags, author, image_url, source_url,
	price, duration, source, published_at,
	views, likes, average_rating, total_ratings, is_active, created_at`

func scanContent(row interface{ Scan(...any) error }) (domain.ContentItem, error) {
	var (
		item        domain.ContentItem
		tags        string
		price       sql.NullFloat64
		duration    sql.NullString
		source      sql.NullString
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&item.ID, &item.Title, &item.Description, &item.Kind, &item.Category, &tags,
		&item.Author, &item.ImageURL, &item.SourceURL,
		&price, &duration, &source, &publishedAt,
		&item.Stats.Views, &item.Stats.Likes, &item.Stats.AverageRating, &item.Stats.TotalRatings,
		&item.IsActive, &item.CreatedAt,
	)
	if err != nil {
		return domain.ContentItem{}, err
	}

	if tags != "" {
		item.Tags = strings.Split(tags, ",")
	}

	switch item.Kind {
	case domain.ContentKindProduct:
		item.Product = &domain.ProductMeta{Price: price.Float64}
	case domain.ContentKindVideo:
		if duration.Valid {
			item.Video = &domain.VideoMeta{Duration: duration.String}
		}
	case domain.ContentKindArticle:
		if source.Valid || publishedAt.Valid {
			meta := &domain.ArticleMeta{Source: source.String}
			if publishedAt.Valid {
				t := publishedAt.Time
				meta.PublishedAt = &t
			}
			item.Article = meta
		}
	}

	return item, nil
}

// ===== Content store =====

func (r *Repository) FetchContent(ctx context.Context, id string) (domain.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+contentColumns+" FROM content WHERE id = ?", id)

	item, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ContentItem{}, domain.NotFoundf("unknown content [%s]", id)
	}
	if err != nil {
		return domain.ContentItem{}, mapStoreErr(err, "fetching content")
	}
	return item, nil
}

func (r *Repository) ListContent(
	ctx context.Context,
	filters domain.ContentFilters,
	options domain.ContentListOptions,
) ([]domain.ContentItem, error) {
	sb := sqlbuilder.Select(contentColumns)
	sb.From("content")
	sb.Where(buildContentConditions(sb, filters)...)
	sb.OrderBy("created_at DESC", "id ASC")

	page, pageSize := options.Page, options.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize > 0 {
		sb.Offset((page - 1) * pageSize)
		sb.Limit(pageSize)
	}

	query, args := sb.Build()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapStoreErr(err, "listing content")
	}
	defer func() { _ = rows.Close() }()

	items := []domain.ContentItem{}
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, mapStoreErr(err, "scanning content")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err, "iterating content rows")
	}

	return items, nil
}

func (r *Repository) TotalMatchingContent(ctx context.Context, filters domain.ContentFilters) (int64, error) {
	sb := sqlbuilder.Select("COUNT(*)")
	sb.From("content")
	sb.Where(buildContentConditions(sb, filters)...)

	query, args := sb.Build()
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapStoreErr(err, "counting matching content")
	}
	return count, nil
}

func buildContentConditions(sb *sqlbuilder.SelectBuilder, filters domain.ContentFilters) []string {
	conds := []string{sb.Equal("is_active", true)}

	if filters.Kind != "" {
		conds = append(conds, sb.Equal("kind", string(filters.Kind)))
	}
	if filters.Category != "" {
		conds = append(conds, sb.Equal("category", filters.Category))
	}
	if filters.TextQuery != "" {
		pattern := "%" + strings.ToLower(filters.TextQuery) + "%"
		conds = append(conds, sb.Or(
			sb.Like("LOWER(title)", pattern),
			sb.Like("LOWER(description)", pattern),
			sb.Like("LOWER(tags)", pattern),
		))
	}

	return conds
}

func (r *Repository) ListActiveContent(ctx context.Context) ([]domain.ContentItem, error) {
	return r.ListContent(ctx, domain.ContentFilters{}, domain.ContentListOptions{})
}

func (r *Repository) CreateContent(ctx context.Context, item domain.ContentItem) error {
	ib := sqlbuilder.InsertInto("content")
	ib.Cols("id", "title", "description", "kind", "category", "tags", "author",
		"image_url", "source_url", "price", "duration", "source", "published_at",
		"views", "likes", "average_rating", "total_ratings", "version", "is_active", "created_at")
	ib.Values(
		item.ID, item.Title, item.Description, string(item.Kind), item.Category,
		strings.Join(item.Tags, ","), item.Author, item.ImageURL, item.SourceURL,
		productPrice(item), videoDuration(item), articleSource(item), articlePublishedAt(item),
		item.Stats.Views, item.Stats.Likes, item.Stats.AverageRating, item.Stats.TotalRatings,
		0, item.IsActive, item.CreatedAt,
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return mapStoreErr(err, "creating content")
	}
	return nil
}

func (r *Repository) UpdateContent(ctx context.Context, item domain.ContentItem) error {
	ub := sqlbuilder.Update("content")
	ub.Set(
		ub.Assign("title", item.Title),
		ub.Assign("description", item.Description),
		ub.Assign("kind", string(item.Kind)),
		ub.Assign("category", item.Category),
		ub.Assign("tags", strings.Join(item.Tags, ",")),
		ub.Assign("author", item.Author),
		ub.Assign("image_url", item.ImageURL),
		ub.Assign("source_url", item.SourceURL),
		ub.Assign("price", productPrice(item)),
		ub.Assign("duration", videoDuration(item)),
		ub.Assign("source", articleSource(item)),
		ub.Assign("published_at", articlePublishedAt(item)),
		ub.Assign("is_active", item.IsActive),
	)
	ub.Where(ub.Equal("id", item.ID))

	query, args := ub.Build()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapStoreErr(err, "updating content")
	}
	return requireRowAffected(res, item.ID)
}

func (r *Repository) SoftDeleteContent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE content SET is_active = FALSE WHERE id = ?", id)
	if err != nil {
		return mapStoreErr(err, "soft-deleting content")
	}
	return requireRowAffected(res, id)
}

func requireRowAffected(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return mapStoreErr(err, "reading affected rows")
	}
	if affected == 0 {
		return domain.NotFoundf("unknown content [%s]", id)
	}
	return nil
}

func productPrice(item domain.ContentItem) any {
	if item.Product != nil {
		return item.Product.Price
	}
	return nil
}

func videoDuration(item domain.ContentItem) any {
	if item.Video != nil {
		return item.Video.Duration
	}
	return nil
}

func articleSource(item domain.ContentItem) any {
	if item.Article != nil {
		return item.Article.Source
	}
	return nil
}

func articlePublishedAt(item domain.ContentItem) any {
	if item.Article != nil && item.Article.PublishedAt != nil {
		return *item.Article.PublishedAt
	}
	return nil
}

// ===== Interaction ledger =====

// statsRow is the stats and version snapshot a record transaction starts from.
type statsRow struct {
	stats    domain.Stats
	version  uint64
	isActive bool
}

// RecordInteraction appends to the ledger and updates stats in one
// transaction. Stats carry an optimistic version; losing a concurrent race
// rolls back and retries with fresh state, so read-then-write sequences on the
// same (user, content) pair serialize without a shared lock.
func (r *Repository) RecordInteraction(
	ctx context.Context,
	userID, contentID string,
	kind domain.InteractionKind,
	rating int,
) (domain.Outcome, domain.Stats, error) {
	var lastErr error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return domain.Outcome{}, domain.Stats{}, mapStoreErr(ctx.Err(), "recording interaction")
			case <-time.After(conflictBackoff * time.Duration(attempt)):
			}
		}

		outcome, stats, err := r.recordOnce(ctx, userID, contentID, kind, rating)
		if errors.Is(err, domain.ErrConflict) {
			lastErr = err
			continue
		}
		return outcome, stats, err
	}
	return domain.Outcome{}, domain.Stats{}, lastErr
}

func (r *Repository) recordOnce(
	ctx context.Context,
	userID, contentID string,
	kind domain.InteractionKind,
	rating int,
) (domain.Outcome, domain.Stats, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Outcome{}, domain.Stats{}, mapStoreErr(err, "starting transaction")
	}
	defer func() { _ = tx.Rollback() }()

	current, err := r.contentStatsForUpdate(ctx, tx, contentID)
	if err != nil {
		return domain.Outcome{}, domain.Stats{}, err
	}
	if !current.isActive {
		return domain.Outcome{}, domain.Stats{}, domain.NotFoundf("unknown or inactive content [%s]", contentID)
	}

	now := r.now()
	outcome, err := r.resolveAndWrite(ctx, tx, userID, contentID, kind, rating, now)
	if err != nil {
		return domain.Outcome{}, domain.Stats{}, err
	}

	newStats := current.stats.Apply(outcome)
	if outcome.Applied != domain.AppliedIgnored {
		if err := applyStatsVersioned(ctx, tx, contentID, newStats, current.version); err != nil {
			return domain.Outcome{}, domain.Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Outcome{}, domain.Stats{}, mapStoreErr(err, "committing transaction")
	}
	return outcome, newStats, nil
}

func (r *Repository) contentStatsForUpdate(ctx context.Context, tx *sql.Tx, contentID string) (statsRow, error) {
	var row statsRow
	err := tx.QueryRowContext(ctx,
		"SELECT views, likes, average_rating, total_ratings, version, is_active FROM content WHERE id = ?",
		contentID,
	).Scan(&row.stats.Views, &row.stats.Likes, &row.stats.AverageRating, &row.stats.TotalRatings,
		&row.version, &row.isActive)
	if errors.Is(err, sql.ErrNoRows) {
		return statsRow{}, domain.NotFoundf("unknown or inactive content [%s]", contentID)
	}
	if err != nil {
		return statsRow{}, mapStoreErr(err, "reading content stats")
	}
	return row, nil
}

func (r *Repository) resolveAndWrite(
	ctx context.Context,
	tx *sql.Tx,
	userID, contentID string,
	kind domain.InteractionKind,
	rating int,
	now time.Time,
) (domain.Outcome, error) {
	switch kind {
	case domain.InteractionKindView:
		return r.resolveView(ctx, tx, userID, contentID, now)
	case domain.InteractionKindLike:
		return r.resolveLike(ctx, tx, userID, contentID, now)
	case domain.InteractionKindRating:
		return r.resolveRating(ctx, tx, userID, contentID, rating, now)
	default:
		return domain.Outcome{}, domain.InvalidInputf("unknown interaction kind [%s]", kind)
	}
}

func (r *Repository) resolveView(
	ctx context.Context, tx *sql.Tx, userID, contentID string, now time.Time,
) (domain.Outcome, error) {
	var lastCounted sql.NullTime
	err := tx.QueryRowContext(ctx,
		"SELECT MAX(created_at) FROM interaction WHERE user_id = ? AND content_id = ? AND kind = 'view'",
		userID, contentID,
	).Scan(&lastCounted)
	if err != nil {
		return domain.Outcome{}, mapStoreErr(err, "reading last counted view")
	}

	outcome := domain.ResolveView(lastCounted.Time, now, r.viewWindow)
	if outcome.Applied == domain.AppliedAdded {
		if err := insertInteraction(ctx, tx, userID, contentID, domain.InteractionKindView, 0, now); err != nil {
			return domain.Outcome{}, err
		}
	}
	return outcome, nil
}

func (r *Repository) resolveLike(
	ctx context.Context, tx *sql.Tx, userID, contentID string, now time.Time,
) (domain.Outcome, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM interaction WHERE user_id = ? AND content_id = ? AND kind = 'like'",
		userID, contentID,
	).Scan(&count)
	if err != nil {
		return domain.Outcome{}, mapStoreErr(err, "reading like state")
	}

	outcome := domain.ResolveLike(count > 0)
	if outcome.Applied == domain.AppliedAdded {
		if err := insertInteraction(ctx, tx, userID, contentID, domain.InteractionKindLike, 0, now); err != nil {
			return domain.Outcome{}, err
		}
	} else {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM interaction WHERE user_id = ? AND content_id = ? AND kind = 'like'",
			userID, contentID)
		if err != nil {
			return domain.Outcome{}, mapStoreErr(err, "retracting like")
		}
	}
	return outcome, nil
}

func (r *Repository) resolveRating(
	ctx context.Context, tx *sql.Tx, userID, contentID string, rating int, now time.Time,
) (domain.Outcome, error) {
	var oldRating int
	err := tx.QueryRowContext(ctx,
		"SELECT rating FROM interaction WHERE user_id = ? AND content_id = ? AND kind = 'rating'",
		userID, contentID,
	).Scan(&oldRating)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Outcome{}, mapStoreErr(err, "reading prior rating")
	}

	outcome, err := domain.ResolveRating(oldRating, rating)
	if err != nil {
		return domain.Outcome{}, err
	}

	if outcome.Applied == domain.AppliedAdded {
		if err := insertInteraction(ctx, tx, userID, contentID, domain.InteractionKindRating, rating, now); err != nil {
			return domain.Outcome{}, err
		}
	} else {
		_, err := tx.ExecContext(ctx,
			"UPDATE interaction SET rating = ?, created_at = ? WHERE user_id = ? AND content_id = ? AND kind = 'rating'",
			rating, now, userID, contentID)
		if err != nil {
			return domain.Outcome{}, mapStoreErr(err, "replacing rating")
		}
	}
	return outcome, nil
}

func insertInteraction(
	ctx context.Context, tx *sql.Tx,
	userID, contentID string, kind domain.InteractionKind, rating int, now time.Time,
) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO interaction (user_id, content_id, kind, rating, created_at) VALUES (?, ?, ?, ?, ?)",
		userID, contentID, string(kind), rating, now)
	if err != nil {
		return mapStoreErr(err, "inserting interaction")
	}
	return nil
}

func applyStatsVersioned(
	ctx context.Context, tx *sql.Tx, contentID string, stats domain.Stats, version uint64,
) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE content
		 SET views = ?, likes = ?, average_rating = ?, total_ratings = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		stats.Views, stats.Likes, stats.AverageRating, stats.TotalRatings, contentID, version)
	if err != nil {
		return mapStoreErr(err, "applying stats")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return mapStoreErr(err, "reading affected rows")
	}
	if affected == 0 {
		return domain.Conflict("concurrent stats update, retry")
	}
	return nil
}

func (r *Repository) ListContentInteractions(ctx context.Context, contentID string) ([]domain.Interaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, content_id, kind, rating, created_at FROM interaction WHERE content_id = ? ORDER BY created_at",
		contentID)
	if err != nil {
		return nil, mapStoreErr(err, "listing interactions")
	}
	defer func() { _ = rows.Close() }()

	records := []domain.Interaction{}
	for rows.Next() {
		var rec domain.Interaction
		if err := rows.Scan(&rec.UserID, &rec.ContentID, &rec.Kind, &rec.Rating, &rec.Timestamp); err != nil {
			return nil, mapStoreErr(err, "scanning interaction")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err, "iterating interaction rows")
	}
	return records, nil
}

func (r *Repository) ListLikedContentIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT content_id FROM interaction WHERE user_id = ? AND kind = 'like'", userID)
	if err != nil {
		return nil, mapStoreErr(err, "listing liked content")
	}
	defer func() { _ = rows.Close() }()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapStoreErr(err, "scanning liked content id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, mapStoreErr(err, "iterating liked content rows")
	}
	return ids, nil
}

func (r *Repository) CountUserInteractions(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM interaction WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, mapStoreErr(err, "counting user interactions")
	}
	return count, nil
}

// ===== Preferences =====

func (r *Repository) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var categories, tags string
	err := r.db.QueryRowContext(ctx,
		"SELECT categories, tags FROM user_preference WHERE user_id = ?", userID,
	).Scan(&categories, &tags)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserPreferences{}, nil
	}
	if err != nil {
		return domain.UserPreferences{}, mapStoreErr(err, "reading user preferences")
	}

	var prefs domain.UserPreferences
	if categories != "" {
		prefs.Categories = strings.Split(categories, ",")
	}
	if tags != "" {
		prefs.Tags = strings.Split(tags, ",")
	}
	return prefs, nil
}

func (r *Repository) SetUserPreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_preference (user_id, categories, tags) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE categories = VALUES(categories), tags = VALUES(tags)`,
		userID, strings.Join(prefs.Categories, ","), strings.Join(prefs.Tags, ","))
	if err != nil {
		return mapStoreErr(err, "storing user preferences")
	}
	return nil
}

// ===== Overview =====

func (r *Repository) GetOverview(ctx context.Context) (domain.Overview, error) {
	var overview domain.Overview
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(views), 0), COALESCE(SUM(likes), 0)
		 FROM content WHERE is_active = TRUE`,
	).Scan(&overview.TotalContent, &overview.TotalViews, &overview.TotalLikes)
	if err != nil {
		return domain.Overview{}, mapStoreErr(err, "aggregating content stats")
	}

	err = r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM interaction").Scan(&overview.TotalInteractions)
	if err != nil {
		return domain.Overview{}, mapStoreErr(err, "counting interactions")
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (
			SELECT user_id FROM interaction
			UNION
			SELECT user_id FROM user_preference
		 ) AS users`,
	).Scan(&overview.TotalUsers)
	if err != nil {
		return domain.Overview{}, mapStoreErr(err, "counting users")
	}

	return overview, nil
}
