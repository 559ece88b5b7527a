package domain

import (
	"time"
)

// ContentKind identifies what sort of catalogued item a ContentItem is.
type ContentKind string

const (
	ContentKindArticle ContentKind = "article"
	ContentKindVideo   ContentKind = "video"
	ContentKindProduct ContentKind = "product"
)

var ValidContentKinds = []ContentKind{
	ContentKindArticle,
	ContentKindVideo,
	ContentKindProduct,
}

// Stats are the denormalized engagement counters embedded in a content item.
// They are a cache over the interaction ledger, never a source of truth:
// replaying the ledger from empty must reproduce them (see RecomputeStats).
type Stats struct {
	Views         uint64  `json:"views"`
	Likes         uint64  `json:"likes"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  uint64  `json:"total_ratings"`
}

// ArticleMeta is only valid on items of kind article.
type ArticleMeta struct {
	Source      string     `json:"source,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// VideoMeta is only valid on items of kind video.
type VideoMeta struct {
	Duration string `json:"duration,omitempty"`
}

// ProductMeta is only valid on items of kind product.
type ProductMeta struct {
	Price float64 `json:"price"`
}

type ContentItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Kind        ContentKind `json:"kind"`
	Category    string      `json:"category"`
	Tags        []string    `json:"tags"`
	Author      string      `json:"author"`
	ImageURL    string      `json:"image_url,omitempty"`
	SourceURL   string      `json:"source_url,omitempty"`

	// Exactly one of these is set, matching Kind. Article and Video metadata
	// may be nil when the item has none; Product is always set for products.
	Article *ArticleMeta `json:"article,omitempty"`
	Video   *VideoMeta   `json:"video,omitempty"`
	Product *ProductMeta `json:"product,omitempty"`

	Stats     Stats     `json:"stats"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the type-shape constraints on a content item. It does not
// validate stats; those are owned by the ledger.
func (c ContentItem) Validate() error {
	if c.Title == "" {
		return InvalidInput("content title is required")
	}
	if c.Description == "" {
		return InvalidInput("content description is required")
	}
	if c.Category == "" {
		return InvalidInput("content category is required")
	}

	switch c.Kind {
	case ContentKindArticle, ContentKindVideo:
		if c.Product != nil {
			return InvalidInputf("product metadata is invalid on kind [%s]", c.Kind)
		}
	case ContentKindProduct:
		if c.Product == nil {
			return InvalidInput("product metadata is required on kind product")
		}
		if c.Product.Price < 0 {
			return InvalidInputf("product price must be >= 0, got [%v]", c.Product.Price)
		}
	default:
		return InvalidInputf("unknown content kind [%s]", c.Kind)
	}

	return nil
}

// HasTag reports whether the item carries the given tag. Tag comparison is
// exact; tags are stored normalized by the admin surface.
func (c ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type ContentFilters struct {
	Kind     ContentKind
	Category string
	// TextQuery matches case-insensitively as a substring of the title,
	// description, or any tag. Combined filters are ANDed.
	TextQuery string
}

type ContentListOptions struct {
	Page, PageSize int
}

// UserPreferences is the declared-preference state consumed read-only by the
// recommendation engine.
type UserPreferences struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// IsEmpty reports whether the user has declared no preferences at all.
func (p UserPreferences) IsEmpty() bool {
	return len(p.Categories) == 0 && len(p.Tags) == 0
}

// Overview is the live aggregate over current state; nothing here is cached.
type Overview struct {
	TotalContent      int64  `json:"total_content"`
	TotalUsers        int64  `json:"total_users"`
	TotalInteractions int64  `json:"total_interactions"`
	TotalViews        uint64 `json:"total_views"`
	TotalLikes        uint64 `json:"total_likes"`
}
