package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_Defaults(t *testing.T) {
	p := Paginate(0, 0, 0)

	assert.Equal(t, 0, p.Skip)
	assert.Equal(t, 10, p.Take)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestPaginate_FirstPageEmptySet(t *testing.T) {
	p := Paginate(1, 10, 0)

	assert.Equal(t, Pages{Skip: 0, Take: 10, TotalPages: 1, CurrentPage: 1}, p)
}

func TestPaginate_SkipCalculation(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		skip     int
	}{
		{"first page", 1, 10, 0},
		{"second page", 2, 10, 10},
		{"third page custom size", 3, 25, 50},
		{"fifth page", 5, 20, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.page, tt.pageSize, 100)
			assert.Equal(t, tt.skip, p.Skip)
			assert.Equal(t, tt.pageSize, p.Take)
		})
	}
}

func TestPaginate_NegativeInputTakenAbsolute(t *testing.T) {
	neg := Paginate(-3, 0, 0)
	pos := Paginate(3, 10, 0)

	assert.Equal(t, pos, neg)
	assert.Equal(t, 3, neg.CurrentPage)
	assert.Equal(t, 20, neg.Skip)
}

func TestPaginate_TotalPages(t *testing.T) {
	tests := []struct {
		totalCount int
		pageSize   int
		want       int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{11, 5, 3},
		{100, 20, 5},
		{101, 20, 6},
	}

	for _, tt := range tests {
		p := Paginate(1, tt.pageSize, tt.totalCount)
		assert.Equal(t, tt.want, p.TotalPages,
			"totalCount=%d pageSize=%d", tt.totalCount, tt.pageSize)
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	a := Paginate(7, 13, 999)
	b := Paginate(7, 13, 999)
	assert.Equal(t, a, b)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	p := FromRequest(req)

	assert.Equal(t, 0, p.Page)
	assert.Equal(t, 0, p.PageSize)

	pages := Resolve(p, 0)
	assert.Equal(t, 1, pages.CurrentPage)
	assert.Equal(t, 10, pages.Take)
}

func TestFromRequest_NonNumericTreatedAsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users?page=-3&page_size=x", nil)
	p := FromRequest(req)

	pages := Resolve(p, 0)
	assert.Equal(t, Paginate(3, 10, 0), pages)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/users?page=4&page_size=50", nil)
	pages := Resolve(FromRequest(req), 200)

	assert.Equal(t, 4, pages.CurrentPage)
	assert.Equal(t, 50, pages.Take)
	assert.Equal(t, 150, pages.Skip)
	assert.Equal(t, 4, pages.TotalPages)
}

func TestNewResult_NilData(t *testing.T) {
	pages := Paginate(1, 10, 0)
	res := NewResult[string](nil, pages, 0)

	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, Meta{TotalCount: 0, CurrentPage: 1, PageSize: 10, TotalPages: 1}, res.Meta)
}

func TestNewResult_Meta(t *testing.T) {
	pages := Paginate(2, 5, 11)
	res := NewResult([]int{6, 7, 8, 9, 10}, pages, 11)

	assert.Len(t, res.Data, 5)
	assert.Equal(t, 11, res.Meta.TotalCount)
	assert.Equal(t, 2, res.Meta.CurrentPage)
	assert.Equal(t, 5, res.Meta.PageSize)
	assert.Equal(t, 3, res.Meta.TotalPages)
}
