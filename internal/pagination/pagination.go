// Package pagination pages through a household's transaction history.
package pagination

import (
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// PageRequest holds the page and page_size query parameters.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// Normalize returns a copy with defaults applied and page_size capped.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize < 1:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows before the requested page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one slice of a listing plus totals.
type Page[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a Page; data is never encoded as null.
func NewPage[T any](data []T, req PageRequest, totalItems int64) Page[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if req.PageSize > 0 {
		pages = int((totalItems + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	return Page[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: pages,
	}
}

// Scope applies OFFSET and LIMIT for req.
func Scope(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}

// Map converts the items of a page, keeping the totals.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Data))
	for i, v := range p.Data {
		out[i] = fn(v)
	}
	return Page[U]{
		Data:       out,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
	}
}
