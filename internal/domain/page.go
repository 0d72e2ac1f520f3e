package domain

import (
	"errors"
	"math"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Page > math.MaxInt/p.Limit {
		p.Page = math.MaxInt / p.Limit
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing plus the metadata clients use to paginate.
type Page[T any] struct {
	Docs        []T  `json:"docs"`
	TotalDocs   int  `json:"totalDocs"`
	Limit       int  `json:"limit"`
	Page        int  `json:"page"`
	TotalPages  int  `json:"totalPages"`
	HasPrevPage bool `json:"hasPrevPage"`
	HasNextPage bool `json:"hasNextPage"`
	PrevPage    *int `json:"prevPage"`
	NextPage    *int `json:"nextPage"`
}

func NewPage[T any](docs []T, total int, req PageRequest) *Page[T] {
	req = req.Normalize()
	if docs == nil {
		docs = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	page := &Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       req.Limit,
		Page:        req.Page,
		TotalPages:  totalPages,
		HasPrevPage: req.Page > 1,
		HasNextPage: req.Page < totalPages,
	}
	if page.HasPrevPage {
		prev := req.Page - 1
		page.PrevPage = &prev
	}
	if page.HasNextPage {
		next := req.Page + 1
		page.NextPage = &next
	}
	return page
}
