// Package memory implements the content, ledger, and preference stores in
// process memory. It is the default driver for development and the reference
// implementation the MySQL driver is tested against.
package memory

import (
	"cmp"
	"context"
	"hash/fnv"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/smartcontent/engine/internal/datasources"
	"github.com/smartcontent/engine/internal/domain"
)

var _ datasources.ContentRepository = (*Store)(nil)
var _ datasources.InteractionRepository = (*Store)(nil)
var _ datasources.PreferenceRepository = (*Store)(nil)
var _ datasources.OverviewGetter = (*Store)(nil)

const pairLockStripes = 64

type pairKey struct {
	userID    string
	contentID string
}

// Store keeps all engine state behind two levels of locking: a striped
// per-(user, content) mutex serializes the read-then-write sequence of a
// single interaction, and the store mutex guards map structure so snapshot
// reads never observe a half-applied stats update.
type Store struct {
	viewWindow time.Duration
	now        func() time.Time

	pairLocks [pairLockStripes]sync.Mutex

	mu           sync.RWMutex
	content      map[string]domain.ContentItem
	interactions map[string][]domain.Interaction // by content ID, surviving records only
	liked        map[pairKey]bool
	ratings      map[pairKey]int
	lastView     map[pairKey]time.Time // last counted view per pair
	userCounts   map[string]int64      // surviving ledger records per user
	prefs        map[string]domain.UserPreferences
	totalRecords int64
}

type Option func(*Store)

// WithViewDedupWindow overrides the rolling window inside which repeat views
// from the same user are not counted.
func WithViewDedupWindow(window time.Duration) Option {
	return func(s *Store) { s.viewWindow = window }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		viewWindow:   domain.DefaultViewDedupWindow,
		now:          time.Now,
		content:      map[string]domain.ContentItem{},
		interactions: map[string][]domain.Interaction{},
		liked:        map[pairKey]bool{},
		ratings:      map[pairKey]int{},
		lastView:     map[pairKey]time.Time{},
		userCounts:   map[string]int64{},
		prefs:        map[string]domain.UserPreferences{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) pairLock(key pairKey) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.userID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(key.contentID))
	return &s.pairLocks[h.Sum32()%pairLockStripes]
}

func ctxErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return domain.Timeout("store operation deadline exceeded")
	default:
		return domain.Unavailable("store operation cancelled")
	}
}

// ===== Content store =====

func (s *Store) FetchContent(ctx context.Context, id string) (domain.ContentItem, error) {
	if err := ctxErr(ctx); err != nil {
		return domain.ContentItem{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.content[id]
	if !ok {
		return domain.ContentItem{}, domain.NotFoundf("unknown content [%s]", id)
	}
	return cloneItem(item), nil
}

func (s *Store) ListContent(
	ctx context.Context,
	filters domain.ContentFilters,
	options domain.ContentListOptions,
) ([]domain.ContentItem, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	matched := s.matchingContent(filters)

	page, pageSize := options.Page, options.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(matched)
	}

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.ContentItem{}, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *Store) TotalMatchingContent(ctx context.Context, filters domain.ContentFilters) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}
	return int64(len(s.matchingContent(filters))), nil
}

// matchingContent returns active items matching the filters, ordered by
// createdAt descending then ID ascending so pagination is stable.
func (s *Store) matchingContent(filters domain.ContentFilters) []domain.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.ContentItem
	for _, item := range s.content {
		if !item.IsActive {
			continue
		}
		if filters.Kind != "" && item.Kind != filters.Kind {
			continue
		}
		if filters.Category != "" && item.Category != filters.Category {
			continue
		}
		if filters.TextQuery != "" && !matchesQuery(item, filters.TextQuery) {
			continue
		}
		matched = append(matched, cloneItem(item))
	}

	sortByRecency(matched)
	return matched
}

func matchesQuery(item domain.ContentItem, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(item.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Description), q) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (s *Store) ListActiveContent(ctx context.Context) ([]domain.ContentItem, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.ContentItem, 0, len(s.content))
	for _, item := range s.content {
		if item.IsActive {
			items = append(items, cloneItem(item))
		}
	}
	return items, nil
}

func (s *Store) CreateContent(ctx context.Context, item domain.ContentItem) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.content[item.ID]; exists {
		return domain.Conflict("content id already exists")
	}
	s.content[item.ID] = cloneItem(item)
	return nil
}

func (s *Store) UpdateContent(ctx context.Context, item domain.ContentItem) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.content[item.ID]
	if !ok {
		return domain.NotFoundf("unknown content [%s]", item.ID)
	}

	// Stats, identity, and creation time are not admin-editable.
	item.Stats = existing.Stats
	item.CreatedAt = existing.CreatedAt
	s.content[item.ID] = cloneItem(item)
	return nil
}

func (s *Store) SoftDeleteContent(ctx context.Context, id string) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.content[id]
	if !ok {
		return domain.NotFoundf("unknown content [%s]", id)
	}
	item.IsActive = false
	s.content[id] = item
	return nil
}

// ===== Interaction ledger =====

func (s *Store) RecordInteraction(
	ctx context.Context,
	userID, contentID string,
	kind domain.InteractionKind,
	rating int,
) (domain.Outcome, domain.Stats, error) {
	if err := ctxErr(ctx); err != nil {
		return domain.Outcome{}, domain.Stats{}, err
	}

	key := pairKey{userID: userID, contentID: contentID}
	lock := s.pairLock(key)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.content[contentID]
	if !ok || !item.IsActive {
		return domain.Outcome{}, domain.Stats{}, domain.NotFoundf("unknown or inactive content [%s]", contentID)
	}

	now := s.now()
	var outcome domain.Outcome

	switch kind {
	case domain.InteractionKindView:
		outcome = domain.ResolveView(s.lastView[key], now, s.viewWindow)
		if outcome.Applied == domain.AppliedAdded {
			s.lastView[key] = now
			s.appendRecord(domain.Interaction{
				UserID: userID, ContentID: contentID, Kind: kind, Timestamp: now,
			})
		}

	case domain.InteractionKindLike:
		outcome = domain.ResolveLike(s.liked[key])
		if outcome.Applied == domain.AppliedAdded {
			s.liked[key] = true
			s.appendRecord(domain.Interaction{
				UserID: userID, ContentID: contentID, Kind: kind, Timestamp: now,
			})
		} else {
			s.liked[key] = false
			s.retractLike(key)
		}

	case domain.InteractionKindRating:
		var err error
		outcome, err = domain.ResolveRating(s.ratings[key], rating)
		if err != nil {
			return domain.Outcome{}, domain.Stats{}, err
		}
		if outcome.Applied == domain.AppliedAdded {
			s.appendRecord(domain.Interaction{
				UserID: userID, ContentID: contentID, Kind: kind, Rating: rating, Timestamp: now,
			})
		} else {
			s.replaceRating(key, rating, now)
		}
		s.ratings[key] = rating

	default:
		return domain.Outcome{}, domain.Stats{}, domain.InvalidInputf("unknown interaction kind [%s]", kind)
	}

	item.Stats = item.Stats.Apply(outcome)
	s.content[contentID] = item
	return outcome, item.Stats, nil
}

// appendRecord and the retract/replace helpers run under s.mu.
func (s *Store) appendRecord(rec domain.Interaction) {
	s.interactions[rec.ContentID] = append(s.interactions[rec.ContentID], rec)
	s.userCounts[rec.UserID]++
	s.totalRecords++
}

func (s *Store) retractLike(key pairKey) {
	records := s.interactions[key.contentID]
	out := records[:0]
	for _, rec := range records {
		if rec.Kind == domain.InteractionKindLike && rec.UserID == key.userID {
			s.userCounts[key.userID]--
			s.totalRecords--
			continue
		}
		out = append(out, rec)
	}
	s.interactions[key.contentID] = out
}

func (s *Store) replaceRating(key pairKey, rating int, now time.Time) {
	records := s.interactions[key.contentID]
	for i := range records {
		if records[i].Kind == domain.InteractionKindRating && records[i].UserID == key.userID {
			records[i].Rating = rating
			records[i].Timestamp = now
		}
	}
}

func (s *Store) ListContentInteractions(ctx context.Context, contentID string) ([]domain.Interaction, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.content[contentID]; !ok {
		return nil, domain.NotFoundf("unknown content [%s]", contentID)
	}

	records := s.interactions[contentID]
	out := make([]domain.Interaction, len(records))
	copy(out, records)
	return out, nil
}

func (s *Store) ListLikedContentIDs(ctx context.Context, userID string) ([]string, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for key, active := range s.liked {
		if active && key.userID == userID {
			ids = append(ids, key.contentID)
		}
	}
	return ids, nil
}

func (s *Store) CountUserInteractions(ctx context.Context, userID string) (int64, error) {
	if err := ctxErr(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userCounts[userID], nil
}

// ===== Preferences =====

func (s *Store) GetUserPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	if err := ctxErr(ctx); err != nil {
		return domain.UserPreferences{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs[userID], nil
}

func (s *Store) SetUserPreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
	return nil
}

// ===== Overview =====

func (s *Store) GetOverview(ctx context.Context) (domain.Overview, error) {
	if err := ctxErr(ctx); err != nil {
		return domain.Overview{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := domain.Overview{TotalInteractions: s.totalRecords}
	for _, item := range s.content {
		if !item.IsActive {
			continue
		}
		overview.TotalContent++
		overview.TotalViews += item.Stats.Views
		overview.TotalLikes += item.Stats.Likes
	}

	users := make(map[string]bool)
	for userID, count := range s.userCounts {
		if count > 0 {
			users[userID] = true
		}
	}
	for userID := range s.prefs {
		users[userID] = true
	}
	overview.TotalUsers = int64(len(users))

	return overview, nil
}

func sortByRecency(items []domain.ContentItem) {
	slices.SortFunc(items, func(a, b domain.ContentItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func cloneItem(item domain.ContentItem) domain.ContentItem {
	out := item
	out.Tags = append([]string(nil), item.Tags...)
	if item.Article != nil {
		meta := *item.Article
		out.Article = &meta
	}
	if item.Video != nil {
		meta := *item.Video
		out.Video = &meta
	}
	if item.Product != nil {
		meta := *item.Product
		out.Product = &meta
	}
	return out
}
