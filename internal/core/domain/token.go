package domain

import "time"

// RefreshToken is the persisted record backing an issued refresh token.
// A record is usable iff it is not revoked and ExpiresAt is in the future.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	IsRevoked bool
	RevokedAt time.Time
}

// Active reports whether the record can still be exchanged at the given instant.
func (t *RefreshToken) Active(now time.Time) bool {
	return !t.IsRevoked && now.Before(t.ExpiresAt)
}

// TokenPair is the result of a successful issuance.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenClaims is the identity recovered from a verified token.
type TokenClaims struct {
	UserID    string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
