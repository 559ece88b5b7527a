package controller

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/smartcontent/engine/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100

	defaultLimit = 10
	maxLimit     = 100
)

func listOptionsFromQuery(q url.Values) (domain.ContentListOptions, error) {
	options := domain.ContentListOptions{
		Page:     defaultPage,
		PageSize: defaultPageSize,
	}

	if q.Has("page") {
		page, err := strconv.ParseInt(q.Get("page"), 10, 32)
		if err != nil {
			return domain.ContentListOptions{}, fmt.Errorf("unable to parse page from query: %w", err)
		}
		if page < 1 {
			return domain.ContentListOptions{}, fmt.Errorf("invalid page value [%d]", page)
		}
		options.Page = int(page)
	}

	if q.Has("page_size") {
		pageSize, err := strconv.ParseInt(q.Get("page_size"), 10, 32)
		if err != nil {
			return domain.ContentListOptions{}, fmt.Errorf("unable to parse page size from query: %w", err)
		}
		if pageSize > maxPageSize {
			return domain.ContentListOptions{}, fmt.Errorf("page size [%d] exceeds limit [%d]",
				pageSize, maxPageSize)
		}
		if pageSize < 1 {
			return domain.ContentListOptions{}, fmt.Errorf("invalid page size value [%d]", pageSize)
		}
		options.PageSize = int(pageSize)
	}

	return options, nil
}

func contentFiltersFromQuery(q url.Values) domain.ContentFilters {
	return domain.ContentFilters{
		Kind:      domain.ContentKind(q.Get("kind")),
		Category:  q.Get("category"),
		TextQuery: q.Get("q"),
	}
}

func limitFromQuery(q url.Values) (int, error) {
	if !q.Has("limit") {
		return defaultLimit, nil
	}

	limit, err := strconv.ParseInt(q.Get("limit"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("unable to parse limit from query: %w", err)
	}
	if limit < 1 || limit > maxLimit {
		return 0, fmt.Errorf("limit [%d] out of range [1,%d]", limit, maxLimit)
	}
	return int(limit), nil
}
