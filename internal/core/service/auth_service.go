package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// TokenManager is the issuer and verifier pair the auth flows depend on.
// *TokenService satisfies it.
type TokenManager interface {
	ports.TokenIssuer
	ports.TokenVerifier
}

// AuthService implements registration, login and the refresh token lifecycle.
type AuthService struct {
	users         ports.UserRepository
	refreshTokens ports.RefreshTokenRepository
	tokens        TokenManager
	hasher        ports.PasswordHasher
	log           zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	refreshTokens ports.RefreshTokenRepository,
	tokens TokenManager,
	hasher ports.PasswordHasher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		hasher:        hasher,
		log:           log,
	}
}

// Register creates the account, hashing the password before the record is
// built, and issues the first token pair.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)

	ve := &domain.ValidationError{Message: "validation failed"}
	if username == "" {
		ve.Add("username", "username is required")
	}
	if email == "" {
		ve.Add("email", "email is required")
	}
	switch {
	case in.Password == "":
		ve.Add("password", "password is required")
	case len(in.Password) < domain.MinPasswordLength:
		ve.Add("password", fmt.Sprintf("password must be at least %d characters", domain.MinPasswordLength))
	case len(in.Password) > domain.MaxPasswordBytes:
		ve.Add("password", fmt.Sprintf("password must be at most %d bytes", domain.MaxPasswordBytes))
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return nil, domain.NewValidationError("email", "email is already registered")
	case errors.Is(err, domain.ErrDuplicateUsername):
		return nil, domain.NewValidationError("username", "username is already taken")
	case err != nil:
		return nil, fmt.Errorf("create user: %w", err)
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Login checks the credentials and issues a new token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)

	ve := &domain.ValidationError{Message: "all fields are required"}
	if email == "" {
		ve.Add("email", "email is required")
	}
	if password == "" {
		ve.Add("password", "password is required")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return &ports.AuthResult{User: user, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked before the new pair is minted, so each refresh token works once.
// Revoke and reissue are separate writes; a failure in between leaves the
// user logged out rather than holding two live tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.NewValidationError("refreshToken", "refresh token is required")
	}

	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.refreshTokens.Revoke(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if !revoked {
		// A concurrent exchange consumed it first.
		s.log.Warn().Str("user_id", claims.UserID).Msg("refresh token reused during exchange")
		return nil, domain.ErrInvalidRefreshToken
	}

	pair, err := s.tokens.Issue(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return pair, nil
}

// Logout revokes a single refresh token. Empty, unknown and already revoked
// tokens are not errors.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if _, err := s.refreshTokens.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// LogoutAll revokes every active refresh token of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	n, err := s.refreshTokens.RevokeAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	s.log.Info().Str("user_id", userID).Int64("revoked", n).Msg("user logged out everywhere")
	return nil
}

// CurrentUser loads the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
