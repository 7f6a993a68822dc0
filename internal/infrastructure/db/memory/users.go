// Package memory provides mutex-guarded in-process implementations of the
// repository ports. It backs STORE_DRIVER=memory and the test suites.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// UserRepository enforces the same uniqueness rules as the Mongo indexes.
type UserRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	email map[string]string
	name  map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:  make(map[string]*domain.User),
		email: make(map[string]string),
		name:  make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.email[user.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	if _, ok := r.name[user.Username]; ok {
		return nil, domain.ErrDuplicateUsername
	}

	u := *user
	u.ID = primitive.NewObjectID().Hex()
	r.byID[u.ID] = &u
	r.email[u.Email] = u.ID
	r.name[u.Username] = u.ID

	out := u
	return &out, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.email[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *UserRepository) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}
