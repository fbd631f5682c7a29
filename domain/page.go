package domain

import (
	"strings"

	"wtfTube/errs"
)

// Pagination bounds shared by every feed.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
)

// Sort directions accepted in sortType query params. Anything else falls
// back to ascending.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// FeedSortFields is the sort allow-list shared by every feed. Requests
// naming any other field are rejected, never silently remapped.
var FeedSortFields = []string{"createdAt", "updatedAt"}

// PageRequest is the transient, never-persisted paging input of a feed
// query. Raw values go in as parsed (zero for absent or garbage input);
// Normalize produces the effective values.
type PageRequest struct {
	Page     int
	Limit    int
	SortBy   string
	SortType string
}

// Normalize clamps page and limit, defaults the sort field to the first
// allowed one and validates it against the allow-list. It is called by
// the feed aggregator itself on every query so that no resource type can
// end up with divergent defaults.
func (p PageRequest) Normalize(allowed ...string) (PageRequest, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.SortBy == "" {
		p.SortBy = allowed[0]
	}
	ok := false
	for _, f := range allowed {
		if p.SortBy == f {
			ok = true
			break
		}
	}
	if !ok {
		return p, errs.Errorf(errs.EINVALID, "Invalid sortBy field. Allowed fields: %s.", strings.Join(allowed, ", "))
	}
	if p.SortType != SortDesc {
		p.SortType = SortAsc
	}
	return p, nil
}

// Offset converts the normalized page/limit pair into a query offset.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the envelope shared by all list responses.
type Page[T any] struct {
	Page         int `json:"page"`
	Limit        int `json:"limit"`
	TotalPages   int `json:"totalPages"`
	TotalResults int `json:"totalResults"`
	Items        []T `json:"items"`
}

// NewPage wraps items in the shared envelope. An empty result is a valid
// page with zero totals, not an error.
func NewPage[T any](items []T, total int, req PageRequest) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return &Page[T]{
		Page:         req.Page,
		Limit:        req.Limit,
		TotalPages:   totalPages,
		TotalResults: total,
		Items:        items,
	}
}
