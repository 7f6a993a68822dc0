package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserRepository is the credential store. Username and email are unique;
// Create reports collisions as domain.ErrDuplicateEmail or
// domain.ErrDuplicateUsername.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDs returns the users that exist among ids, in no particular order.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
}
