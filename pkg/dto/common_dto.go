package dto

import "github.com/google/uuid"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery is embedded in every list filter. Pointers distinguish an absent
// parameter from an explicit zero, which must be rejected.
type PageQuery struct {
	Page  *int `form:"page" binding:"omitempty,min=1"`
	Limit *int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Resolve returns page, limit and the matching offset with defaults applied.
func (q PageQuery) Resolve() (page, limit, offset int) {
	page, limit = DefaultPage, DefaultLimit
	if q.Page != nil && *q.Page > 0 {
		page = *q.Page
	}
	if q.Limit != nil && *q.Limit > 0 {
		limit = *q.Limit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit, (page - 1) * limit
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	Limit       int   `json:"limit"`
}

func NewMeta(page, limit int, total int64) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PaginationMeta{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  total,
		Limit:       limit,
	}
}

// Paginated wraps a page of results.
type Paginated[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

func NewPaginated[T any](data []T, page, limit int, total int64) *Paginated[T] {
	if data == nil {
		data = []T{}
	}
	return &Paginated[T]{Data: data, Meta: NewMeta(page, limit, total)}
}

// Actor is the authenticated caller as seen by the service layer.
type Actor struct {
	UserID uuid.UUID
	Role   string
}
