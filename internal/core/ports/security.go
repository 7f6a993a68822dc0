package ports

import (
	"context"

	"github.com/inkpost/blog-api/internal/core/domain"
)

// PasswordHasher performs one-way salted hashing of plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify returns false on mismatch and an error only for a malformed hash.
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer mints an access/refresh pair and persists the refresh half.
type TokenIssuer interface {
	Issue(ctx context.Context, userID string) (*domain.TokenPair, error)
}

// AccessTokenVerifier checks access tokens statelessly.
type AccessTokenVerifier interface {
	VerifyAccess(token string) (*domain.TokenClaims, error)
}

// TokenVerifier checks both token kinds. VerifyRefresh also requires an
// active store record.
type TokenVerifier interface {
	AccessTokenVerifier
	VerifyRefresh(ctx context.Context, token string) (*domain.TokenClaims, error)
}
