package ports

import (
	"context"
	"time"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// RefreshTokenRepository is the source of truth for refresh-token validity
// independent of the token signature.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error

	// FindActive returns the record only when it is not revoked. Expiry is not
	// filtered here; the verifier checks the signed claim and the sweeper
	// purges stale rows.
	FindActive(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Revoke is idempotent. The result reports whether this call moved an
	// active record to revoked.
	Revoke(ctx context.Context, token string) (bool, error)

	// RevokeAll revokes every active token owned by userID.
	RevokeAll(ctx context.Context, userID string) (int64, error)

	// DeleteExpired removes rows expired at now and rows revoked before
	// revokedBefore.
	DeleteExpired(ctx context.Context, now, revokedBefore time.Time) (int64, error)
}
