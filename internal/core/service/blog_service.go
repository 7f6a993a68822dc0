package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	// maxPage keeps (page-1)*limit well inside int64.
	maxPage = 1_000_000
)

type BlogService struct {
	blogs ports.BlogRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewBlogService(blogs ports.BlogRepository, users ports.UserRepository, log zerolog.Logger) *BlogService {
	return &BlogService{blogs: blogs, users: users, log: log}
}

func (s *BlogService) Create(ctx context.Context, authorID string, in ports.BlogInput) (*domain.Blog, error) {
	title, content, err := validateBlogInput(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	blog, err := s.blogs.Create(ctx, &domain.Blog{
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	if err := s.withAuthors(ctx, blog); err != nil {
		return nil, err
	}

	s.log.Info().Str("blog_id", blog.ID).Str("author_id", authorID).Msg("blog created")
	return blog, nil
}

func (s *BlogService) Get(ctx context.Context, id string) (*domain.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withAuthors(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// List returns a page of all blogs, newest first.
func (s *BlogService) List(ctx context.Context, page, limit int) (*ports.BlogPage, error) {
	return s.list(ctx, ports.BlogFilter{Page: page, Limit: limit})
}

// ListByAuthor returns a page of the given author's blogs, newest first.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID string, page, limit int) (*ports.BlogPage, error) {
	return s.list(ctx, ports.BlogFilter{AuthorID: authorID, Page: page, Limit: limit})
}

// Update replaces title and content. Only the author may update a blog.
func (s *BlogService) Update(ctx context.Context, userID, id string, in ports.BlogInput) (*domain.Blog, error) {
	title, content, err := validateBlogInput(in)
	if err != nil {
		return nil, err
	}

	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !blog.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}

	blog.Title = title
	blog.Content = content
	blog.UpdatedAt = time.Now().UTC()
	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if err := s.withAuthors(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// Delete removes a blog. Only the author may delete it.
func (s *BlogService) Delete(ctx context.Context, userID, id string) error {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !blog.OwnedBy(userID) {
		return domain.ErrForbidden
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}

	s.log.Info().Str("blog_id", id).Str("author_id", userID).Msg("blog deleted")
	return nil
}

func (s *BlogService) list(ctx context.Context, f ports.BlogFilter) (*ports.BlogPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > maxPage {
		return nil, domain.NewValidationError("page", fmt.Sprintf("page must be at most %d", maxPage))
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}

	blogs, total, err := s.blogs.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	if err := s.withAuthors(ctx, blogs...); err != nil {
		return nil, err
	}

	skip := int64(f.Page-1) * int64(f.Limit)
	return &ports.BlogPage{
		Blogs:       blogs,
		Total:       total,
		HasMore:     total > skip+int64(len(blogs)),
		CurrentPage: f.Page,
		Limit:       f.Limit,
	}, nil
}

// withAuthors fills AuthorUsername for every blog with one user lookup.
func (s *BlogService) withAuthors(ctx context.Context, blogs ...*domain.Blog) error {
	if len(blogs) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(blogs))
	ids := make([]string, 0, len(blogs))
	for _, b := range blogs {
		if _, ok := seen[b.AuthorID]; ok || b.AuthorID == "" {
			continue
		}
		seen[b.AuthorID] = struct{}{}
		ids = append(ids, b.AuthorID)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load authors: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	for _, b := range blogs {
		b.AuthorUsername = names[b.AuthorID]
	}
	return nil
}

func validateBlogInput(in ports.BlogInput) (string, string, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)

	ve := &domain.ValidationError{Message: "validation failed"}
	if title == "" {
		ve.Add("title", "title is required")
	}
	if content == "" {
		ve.Add("content", "content is required")
	}
	return title, content, ve.OrNil()
}
