package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Authentication failures. Token errors deliberately never say why a token
// was rejected.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrMissingToken        = errors.New("missing bearer token")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrBlogNotFound         = errors.New("blog not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrForbidden            = errors.New("access forbidden")
	ErrInvalidID            = errors.New("invalid id")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrDuplicateUsername    = errors.New("username already taken")
	ErrDuplicateToken       = errors.New("refresh token already exists")
)

// ErrStoreUnavailable marks persistence timeouts and connectivity failures.
// Callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// ValidationError reports bad client input, optionally per field.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, detail string) *ValidationError {
	return &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{field: detail},
	}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

// Add records a field failure, allocating the map on first use.
func (e *ValidationError) Add(field, detail string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = detail
}

// OrNil returns e when at least one field failed, nil otherwise.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// ConfigError is returned when required configuration is missing or unusable.
// It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Field, e.Reason)
}
