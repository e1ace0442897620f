package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestPageQuery_Resolve(t *testing.T) {
	tests := []struct {
		name                string
		query               PageQuery
		page, limit, offset int
	}{
		{"defaults", PageQuery{}, 1, 10, 0},
		{"third page", PageQuery{Page: intPtr(3), Limit: intPtr(20)}, 3, 20, 40},
		{"limit clamped", PageQuery{Limit: intPtr(500)}, 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit, offset := tt.query.Resolve()
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated[string](nil, 2, 10, 21)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
	assert.Equal(t, PaginationMeta{CurrentPage: 2, TotalPages: 3, TotalItems: 21, Limit: 10}, p.Meta)

	assert.Equal(t, 0, NewMeta(1, 10, 0).TotalPages)
	assert.Equal(t, 1, NewMeta(1, 10, 10).TotalPages)
}
