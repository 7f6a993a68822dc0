package memory

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

type BlogRepository struct {
	mu    sync.RWMutex
	blogs map[string]*domain.Blog
}

func NewBlogRepository() *BlogRepository {
	return &BlogRepository{blogs: make(map[string]*domain.Blog)}
}

func (r *BlogRepository) Create(_ context.Context, blog *domain.Blog) (*domain.Blog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := *blog
	b.ID = primitive.NewObjectID().Hex()
	r.blogs[b.ID] = &b

	out := b
	return &out, nil
}

func (r *BlogRepository) FindByID(_ context.Context, id string) (*domain.Blog, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.blogs[id]
	if !ok {
		return nil, domain.ErrBlogNotFound
	}
	out := *b
	return &out, nil
}

// List mirrors the Mongo query: newest first, ties broken by id.
func (r *BlogRepository) List(_ context.Context, f ports.BlogFilter) ([]*domain.Blog, int64, error) {
	r.mu.RLock()
	matched := make([]*domain.Blog, 0, len(r.blogs))
	for _, b := range r.blogs {
		if f.AuthorID != "" && b.AuthorID != f.AuthorID {
			continue
		}
		c := *b
		matched = append(matched, &c)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) {
		return []*domain.Blog{}, total, nil
	}
	end := len(matched)
	if f.Limit > 0 && skip+f.Limit < end {
		end = skip + f.Limit
	}
	return matched[skip:end], total, nil
}

func (r *BlogRepository) Update(_ context.Context, blog *domain.Blog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blogs[blog.ID]; !ok {
		return domain.ErrBlogNotFound
	}
	b := *blog
	r.blogs[b.ID] = &b
	return nil
}

func (r *BlogRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.blogs[id]; !ok {
		return domain.ErrBlogNotFound
	}
	delete(r.blogs, id)
	return nil
}
