package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	alice, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)
	require.NotEmpty(t, alice.ID)

	_, err = repo.Create(ctx, &domain.User{Username: "alice2", Email: "alice@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = repo.Create(ctx, &domain.User{Username: "alice", Email: "other@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	found, err := repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	users, err := repo.FindByIDs(ctx, []string{alice.ID, "65f000000000000000000000"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRefreshTokenRepository_RevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()

	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "t1", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.RefreshToken{Token: "t1", UserID: "u1"}), domain.ErrDuplicateToken)

	revoked, err := repo.Revoke(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.Revoke(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.Revoke(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = repo.FindActive(ctx, "t1")
	assert.ErrorIs(t, err, domain.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRepository_RevokeAll(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	exp := time.Now().Add(time.Hour)

	for _, tok := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: tok, UserID: "u1", ExpiresAt: exp}))
	}
	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "other", UserID: "u2", ExpiresAt: exp}))
	_, _ = repo.Revoke(ctx, "a")

	n, err := repo.RevokeAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindActive(ctx, "other")
	assert.NoError(t, err)
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewRefreshTokenRepository()
	now := time.Now().UTC()

	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "expired", UserID: "u1", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "live", UserID: "u1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "old-revoked", UserID: "u1", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &domain.RefreshToken{Token: "new-revoked", UserID: "u1", ExpiresAt: now.Add(time.Hour)}))

	repo.now = func() time.Time { return now.Add(-48 * time.Hour) }
	_, _ = repo.Revoke(ctx, "old-revoked")
	repo.now = func() time.Time { return now }
	_, _ = repo.Revoke(ctx, "new-revoked")

	n, err := repo.DeleteExpired(ctx, now, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2, repo.Len())

	_, err = repo.FindActive(ctx, "live")
	assert.NoError(t, err)
}

func TestBlogRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewBlogRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		author := "u1"
		if i%2 == 1 {
			author = "u2"
		}
		_, err := repo.Create(ctx, &domain.Blog{Title: "t", Content: "c", AuthorID: author, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
	}

	page, total, err := repo.List(ctx, ports.BlogFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))
	assert.Equal(t, base.Add(4*time.Hour), page[0].CreatedAt)

	page, total, err = repo.List(ctx, ports.BlogFilter{AuthorID: "u2", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, page, 2)

	page, _, err = repo.List(ctx, ports.BlogFilter{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}
