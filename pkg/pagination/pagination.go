// Package pagination converts requested page/page-size values into
// validated skip/take offsets and total-page counts. It is shared by
// every listing endpoint so the math lives in exactly one place.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is used when the requested page is absent or invalid.
	DefaultPage = 1
	// DefaultPageSize is used when the requested page size is absent or invalid.
	DefaultPageSize = 10
)

// Params holds the raw pagination values extracted from a request.
// Zero means "not provided"; negative values are kept as-is and
// normalized by Resolve.
type Params struct {
	Page     int
	PageSize int
}

// Pages holds the resolved offsets for a bounded list query.
type Pages struct {
	Skip        int `json:"skip"`
	Take        int `json:"take"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// FromRequest extracts pagination parameters from the request query string.
// Non-numeric values are treated as absent.
func FromRequest(r *http.Request) Params {
	var p Params
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil {
		p.PageSize = v
	}
	return p
}

// Paginate resolves the requested page and page size against a total count.
// Numeric input is taken by absolute value, so page=-3 behaves as page=3.
// Absent or zero values fall back to the defaults, and TotalPages is always
// at least 1 so an empty result set still reports one empty page.
func Paginate(page, pageSize, totalCount int) Pages {
	current := abs(page)
	if current < 1 {
		current = DefaultPage
	}

	take := abs(pageSize)
	if take < 1 {
		take = DefaultPageSize
	}

	skip := (current - 1) * take
	if skip < 0 {
		skip = 0
	}

	totalPages := (totalCount + take - 1) / take
	if totalPages < 1 {
		totalPages = 1
	}

	return Pages{
		Skip:        skip,
		Take:        take,
		TotalPages:  totalPages,
		CurrentPage: current,
	}
}

// Resolve is shorthand for Paginate over already-extracted Params.
func Resolve(p Params, totalCount int) Pages {
	return Paginate(p.Page, p.PageSize, totalCount)
}

// Meta is the pagination metadata attached to list responses.
type Meta struct {
	TotalCount  int `json:"total_count"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalPages  int `json:"total_pages"`
}

// NewMeta builds response metadata from resolved pages and a total count.
func NewMeta(p Pages, totalCount int) Meta {
	return Meta{
		TotalCount:  totalCount,
		CurrentPage: p.CurrentPage,
		PageSize:    p.Take,
		TotalPages:  p.TotalPages,
	}
}

// Result wraps a page of data with its pagination metadata.
type Result[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewResult builds a Result, normalizing nil data to an empty slice so the
// JSON encoding is always an array.
func NewResult[T any](data []T, p Pages, totalCount int) Result[T] {
	if data == nil {
		data = []T{}
	}
	return Result[T]{Data: data, Meta: NewMeta(p, totalCount)}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
