package pagination_test

import (
	"encoding/json"
	"testing"

	"github.com/rise-and-shine/popreg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		req      pagination.Request
		opts     []pagination.Option
		expected pagination.Request
	}{
		{
			name:     "defaults",
			req:      pagination.Request{},
			expected: pagination.Request{Page: 1, Size: 10},
		},
		{
			name:     "negative values fall back to defaults",
			req:      pagination.Request{Page: -3, Size: -1},
			expected: pagination.Request{Page: 1, Size: 10},
		},
		{
			name:     "explicit values kept",
			req:      pagination.Request{Page: 4, Size: 25},
			expected: pagination.Request{Page: 4, Size: 25},
		},
		{
			name:     "large size is capped at 100 by default",
			req:      pagination.Request{Size: 1000},
			expected: pagination.Request{Page: 1, Size: 100},
		},
		{
			name:     "cap can be lifted",
			req:      pagination.Request{Size: 1000},
			opts:     []pagination.Option{pagination.WithMaxPageSize(0)},
			expected: pagination.Request{Page: 1, Size: 1000},
		},
		{
			name:     "custom default and cap",
			req:      pagination.Request{},
			opts:     []pagination.Option{pagination.WithDefaultPageSize(50), pagination.WithMaxPageSize(20)},
			expected: pagination.Request{Page: 1, Size: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.Normalize(tt.opts...)
			assert.Equal(t, tt.expected, req)
		})
	}
}

func TestRequestWindow(t *testing.T) {
	tests := []struct {
		page, size    int
		limit, offset int
	}{
		{page: 1, size: 10, limit: 10, offset: 0},
		{page: 3, size: 10, limit: 10, offset: 20},
		{page: 2, size: 7, limit: 7, offset: 7},
	}

	for _, tt := range tests {
		req := pagination.Request{Page: tt.page, Size: tt.size}
		assert.Equal(t, tt.limit, req.Limit())
		assert.Equal(t, tt.offset, req.Offset())
		assert.True(t, req.Reachable())
	}
}

func TestRequestReachable(t *testing.T) {
	tests := []struct {
		name      string
		req       pagination.Request
		reachable bool
		offset    int
	}{
		{name: "last page within the limit", req: pagination.Request{Page: 200_000_000, Size: 10}, reachable: true, offset: 1_999_999_990},
		{name: "exactly at the limit", req: pagination.Request{Page: pagination.MaxOffset + 1, Size: 1}, reachable: true, offset: pagination.MaxOffset},
		{name: "one page past the limit", req: pagination.Request{Page: pagination.MaxOffset + 2, Size: 1}, reachable: false, offset: pagination.MaxOffset},
		{name: "offset above int32", req: pagination.Request{Page: 300_000_000, Size: 10}, reachable: false, offset: pagination.MaxOffset},
		{name: "product overflows int", req: pagination.Request{Page: 1 << 62, Size: 4}, reachable: false, offset: pagination.MaxOffset},
		{name: "unnormalized request", req: pagination.Request{Page: -5, Size: 0}, reachable: true, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.reachable, tt.req.Reachable())
			assert.Equal(t, tt.offset, tt.req.Offset())
			assert.GreaterOrEqual(t, tt.req.Offset(), 0)
		})
	}
}

func TestNewResponse(t *testing.T) {
	tests := []struct {
		name       string
		req        pagination.Request
		total      int64
		totalPages int
	}{
		{name: "25 items in pages of 10", req: pagination.Request{Page: 1, Size: 10}, total: 25, totalPages: 3},
		{name: "exact multiple", req: pagination.Request{Page: 1, Size: 10}, total: 30, totalPages: 3},
		{name: "single item", req: pagination.Request{Page: 1, Size: 10}, total: 1, totalPages: 1},
		{name: "no items", req: pagination.Request{Page: 1, Size: 10}, total: 0, totalPages: 0},
		{name: "out of range page keeps totals", req: pagination.Request{Page: 9, Size: 10}, total: 25, totalPages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := pagination.NewResponse[string](tt.req, nil, tt.total)

			assert.NotNil(t, resp.Data)
			assert.Empty(t, resp.Data)
			assert.Equal(t, tt.total, resp.Pagination.TotalItems)
			assert.Equal(t, tt.req.Page, resp.Pagination.CurrentPage)
			assert.Equal(t, tt.req.Size, resp.Pagination.PageSize)
			assert.Equal(t, tt.totalPages, resp.Pagination.TotalPages)
		})
	}
}

func TestResponseJSON(t *testing.T) {
	resp := pagination.NewResponse[int](pagination.Request{Page: 1, Size: 10}, nil, 0)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":[],"pagination":{"total_items":0,"current_page":1,"page_size":10,"total_pages":0}}`,
		string(b),
	)
}
