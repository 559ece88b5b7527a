package datasources

import (
	"context"

	"github.com/smartcontent/engine/internal/domain"
)

// ContentFetcher retrieves one content item by ID. Returns a NotFound domain
// error for unknown IDs; soft-deleted items are still fetchable (IsActive
// false) so admin surfaces can see them.
type ContentFetcher interface {
	FetchContent(ctx context.Context, id string) (domain.ContentItem, error)
}

// ContentLister retrieves filtered pages of content. Filters are ANDed; the
// text query matches case-insensitively against title, description, and tags.
// Only active items are listed.
type ContentLister interface {
	ListContent(
		ctx context.Context,
		filters domain.ContentFilters,
		options domain.ContentListOptions,
	) ([]domain.ContentItem, error)
}

// ContentCounter reports how many active items match the filters, for list
// metadata.
type ContentCounter interface {
	TotalMatchingContent(ctx context.Context, filters domain.ContentFilters) (int64, error)
}

// ActiveContentLister returns a consistent snapshot of every active item.
// Rankings and recommendations read this; a snapshot must never expose a
// half-applied stats update.
type ActiveContentLister interface {
	ListActiveContent(ctx context.Context) ([]domain.ContentItem, error)
}

type ContentCreator interface {
	CreateContent(ctx context.Context, item domain.ContentItem) error
}

// ContentUpdater replaces the admin-editable fields of an item. Stats are
// owned by the interaction ledger and are not touched by updates.
type ContentUpdater interface {
	UpdateContent(ctx context.Context, item domain.ContentItem) error
}

// ContentSoftDeleter marks an item inactive. Items are never physically
// deleted while interaction records reference them.
type ContentSoftDeleter interface {
	SoftDeleteContent(ctx context.Context, id string) error
}

// ContentRepository combines the content store operations.
type ContentRepository interface {
	ContentFetcher
	ContentLister
	ContentCounter
	ActiveContentLister
	ContentCreator
	ContentUpdater
	ContentSoftDeleter
}
