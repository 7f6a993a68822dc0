package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// BlogInput carries the editable fields of a blog.
type BlogInput struct {
	Title   string
	Content string
}

// BlogPage is one page of a blog listing.
type BlogPage struct {
	Blogs       []*domain.Blog
	Total       int64
	HasMore     bool
	CurrentPage int
	Limit       int
}

// BlogService defines blog use cases. Update and Delete enforce ownership.
type BlogService interface {
	Create(ctx context.Context, authorID string, input BlogInput) (*domain.Blog, error)
	Get(ctx context.Context, id string) (*domain.Blog, error)
	List(ctx context.Context, page, limit int) (*BlogPage, error)
	ListByAuthor(ctx context.Context, authorID string, page, limit int) (*BlogPage, error)
	Update(ctx context.Context, userID, id string, input BlogInput) (*domain.Blog, error)
	Delete(ctx context.Context, userID, id string) error
}
