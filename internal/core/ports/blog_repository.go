package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// BlogFilter selects a page of blogs, newest first.
type BlogFilter struct {
	AuthorID string // empty = all authors
	Page     int    // 1-based
	Limit    int
}

// BlogRepository defines persistence operations for blogs. Malformed ids are
// reported as domain.ErrInvalidID.
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	FindByID(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context, filter BlogFilter) ([]*domain.Blog, int64, error)
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id string) error
}
