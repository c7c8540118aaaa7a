// Package pagination turns page/size requests into LIMIT/OFFSET windows and builds the
// paginated response envelope returned by every search endpoint.
package pagination

import (
	"fmt"
	"math"
)

// MaxOffset is the largest number of rows a page window may skip. Pages starting
// beyond it are past the end of any result set.
const MaxOffset = math.MaxInt32

// Request holds the 1-based page number and page size of a search.
// Zero values are replaced by defaults in Normalize.
type Request struct {
	Page int `query:"current_page" json:"current_page" validate:"omitempty,min=1"`
	Size int `query:"size"         json:"size"         validate:"omitempty,min=1,max=100"`
}

// Normalize applies defaults to unset fields and caps the size when a maximum is configured.
func (r *Request) Normalize(opts ...Option) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = o.DefaultPageSize
	}
	if o.MaxPageSize > 0 && r.Size > o.MaxPageSize {
		r.Size = o.MaxPageSize
	}
}

// Limit returns the number of rows of one page.
func (r Request) Limit() int {
	return r.Size
}

// Offset returns the number of rows preceding the requested page, saturated at MaxOffset.
func (r Request) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if !r.Reachable() {
		return MaxOffset
	}
	return (r.Page - 1) * r.Size
}

// Reachable reports whether the page starts within MaxOffset rows. An unreachable page
// is always empty and needs no query.
func (r Request) Reachable() bool {
	if r.Page <= 1 || r.Size <= 0 {
		return true
	}
	return r.Page-1 <= MaxOffset/r.Size
}

// String returns a short representation used in logs.
func (r Request) String() string {
	return fmt.Sprintf("page=%d size=%d", r.Page, r.Size)
}

// Meta describes where a page sits in the full result set.
type Meta struct {
	TotalItems  int64 `json:"total_items"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
	TotalPages  int   `json:"total_pages"`
}

// HasNext reports whether a page follows the current one.
func (m Meta) HasNext() bool {
	return m.CurrentPage < m.TotalPages
}

// String returns a short representation used in logs.
func (m Meta) String() string {
	return fmt.Sprintf("page %d of %d (total: %d, size: %d)", m.CurrentPage, m.TotalPages, m.TotalItems, m.PageSize)
}

// Response is the envelope of a paginated search.
type Response[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewResponse builds a Response for a normalized request. total is the number of rows
// matching the filter across all pages; an empty result has zero pages.
// A nil data slice is replaced by an empty one so it encodes as [].
func NewResponse[T any](req Request, data []T, total int64) Response[T] {
	if data == nil {
		data = make([]T, 0)
	}

	return Response[T]{
		Data: data,
		Pagination: Meta{
			TotalItems:  total,
			CurrentPage: req.Page,
			PageSize:    req.Size,
			TotalPages:  totalPages(total, req.Size),
		},
	}
}

func totalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	s := int64(size)
	return int((total + s - 1) / s)
}
