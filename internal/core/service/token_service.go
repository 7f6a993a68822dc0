package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultIssuer     = "blog-api"
)

// TokenConfig holds the signing material and lifetimes for both token kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// tokenClaims is the JWT payload shared by access and refresh tokens. The
// random ID (jti) keeps two pairs minted in the same second distinct.
type tokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access and refresh tokens. Access tokens
// are verified by signature and expiry only; refresh tokens additionally need
// an active record in the refresh token store.
type TokenService struct {
	cfg   TokenConfig
	store ports.RefreshTokenRepository
	now   func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuance and verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService validates cfg and returns a ready TokenService. Missing or
// shared secrets yield a *domain.ConfigError so the process can fail at startup.
func NewTokenService(cfg TokenConfig, store ports.RefreshTokenRepository, opts ...TokenOption) (*TokenService, error) {
	switch {
	case cfg.AccessSecret == "":
		return nil, &domain.ConfigError{Field: "JWT_SECRET", Reason: "must be set"}
	case cfg.RefreshSecret == "":
		return nil, &domain.ConfigError{Field: "REFRESH_TOKEN_SECRET", Reason: "must be set"}
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, &domain.ConfigError{Field: "REFRESH_TOKEN_SECRET", Reason: "must differ from JWT_SECRET"}
	case store == nil:
		return nil, &domain.ConfigError{Field: "refresh token store", Reason: "is required"}
	}

	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}

	s := &TokenService{cfg: cfg, store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue mints a new access/refresh pair for userID and persists the refresh
// token with an expiry equal to its signed exp claim.
func (s *TokenService) Issue(ctx context.Context, userID string) (*domain.TokenPair, error) {
	if userID == "" {
		return nil, errors.New("issue tokens: empty user id")
	}

	now := s.now().UTC()
	access, accessExp, err := s.sign(userID, now, s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, refreshExp, err := s.sign(userID, now, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	record := &domain.RefreshToken{
		Token:     refresh,
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: refreshExp,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccess checks signature and expiry against the access secret. Every
// failure is reported as domain.ErrInvalidToken.
func (s *TokenService) VerifyAccess(raw string) (*domain.TokenClaims, error) {
	claims, err := s.parse(raw, s.cfg.AccessSecret)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return toDomainClaims(claims), nil
}

// VerifyRefresh checks signature and expiry against the refresh secret and
// requires an active store record owned by the same user. Invalid, revoked and
// unknown tokens are all domain.ErrInvalidRefreshToken; store failures are
// returned wrapped.
func (s *TokenService) VerifyRefresh(ctx context.Context, raw string) (*domain.TokenClaims, error) {
	claims, err := s.parse(raw, s.cfg.RefreshSecret)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	record, err := s.store.FindActive(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("verify refresh token: %w", err)
	}
	if record.UserID != claims.UserID || !record.Active(s.now()) {
		return nil, domain.ErrInvalidRefreshToken
	}

	return toDomainClaims(claims), nil
}

func (s *TokenService) sign(userID string, now time.Time, ttl time.Duration, secret string) (string, time.Time, error) {
	exp := jwt.NewNumericDate(now.Add(ttl))
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp.Time, nil
}

func (s *TokenService) parse(raw, secret string) (*tokenClaims, error) {
	if raw == "" {
		return nil, domain.ErrInvalidToken
	}

	claims := &tokenClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.UserID == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func toDomainClaims(c *tokenClaims) *domain.TokenClaims {
	out := &domain.TokenClaims{UserID: c.UserID, TokenID: c.ID}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
