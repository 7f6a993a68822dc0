package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Message: "validation failed"}
	if ve.OrNil() != nil {
		t.Fatalf("expected nil for empty field set")
	}

	ve.Add("password", "password must be at least 6 characters")
	ve.Add("email", "email is required")

	want := "validation failed (email: email is required; password: password must be at least 6 characters)"
	if got := ve.Error(); got != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", got, want)
	}

	var target *ValidationError
	if !errors.As(fmt.Errorf("register: %w", ve.OrNil()), &target) {
		t.Fatalf("expected wrapped ValidationError to be recoverable")
	}
}

func TestRefreshToken_Active(t *testing.T) {
	now := time.Now()
	tok := &RefreshToken{ExpiresAt: now.Add(time.Minute)}
	if !tok.Active(now) {
		t.Fatalf("expected fresh token to be active")
	}
	if tok.Active(now.Add(2 * time.Minute)) {
		t.Fatalf("expected expired token to be inactive")
	}
	tok.IsRevoked = true
	if tok.Active(now) {
		t.Fatalf("expected revoked token to be inactive")
	}
}

func TestBlog_OwnedBy(t *testing.T) {
	b := &Blog{AuthorID: "u1"}
	if !b.OwnedBy("u1") || b.OwnedBy("u2") || b.OwnedBy("") {
		t.Fatalf("unexpected ownership result")
	}
}
