package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inkpost/blog-api/internal/core/domain"
)

type RefreshTokenRepository struct {
	mu      sync.Mutex
	byToken map[string]*domain.RefreshToken
	now     func() time.Time
}

func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{
		byToken: make(map[string]*domain.RefreshToken),
		now:     time.Now,
	}
}

func (r *RefreshTokenRepository) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byToken[token.Token]; ok {
		return domain.ErrDuplicateToken
	}
	t := *token
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	r.byToken[t.Token] = &t
	return nil
}

func (r *RefreshTokenRepository) FindActive(_ context.Context, token string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[token]
	if !ok || t.IsRevoked {
		return nil, domain.ErrRefreshTokenNotFound
	}
	out := *t
	return &out, nil
}

func (r *RefreshTokenRepository) Revoke(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.byToken[token]
	if !ok || t.IsRevoked {
		return false, nil
	}
	t.IsRevoked = true
	t.RevokedAt = r.now().UTC()
	return true, nil
}

func (r *RefreshTokenRepository) RevokeAll(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := r.now().UTC()
	for _, t := range r.byToken {
		if t.UserID == userID && !t.IsRevoked {
			t.IsRevoked = true
			t.RevokedAt = now
			n++
		}
	}
	return n, nil
}

func (r *RefreshTokenRepository) DeleteExpired(_ context.Context, now, revokedBefore time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for key, t := range r.byToken {
		expired := !now.Before(t.ExpiresAt)
		staleRevoked := t.IsRevoked && !t.RevokedAt.After(revokedBefore)
		if expired || staleRevoked {
			delete(r.byToken, key)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored records, revoked ones included.
func (r *RefreshTokenRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byToken)
}
