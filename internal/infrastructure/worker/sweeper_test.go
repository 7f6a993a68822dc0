package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/infrastructure/db/memory"
)

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewRefreshTokenRepository()
	userID := "65f0c0ffee0000000000aa01"

	seed := []domain.RefreshToken{
		{Token: "active", UserID: userID, ExpiresAt: now.Add(time.Hour)},
		{Token: "expired", UserID: userID, ExpiresAt: now.Add(-time.Minute)},
		{Token: "revoked-old", UserID: userID, ExpiresAt: now.Add(time.Hour), IsRevoked: true, RevokedAt: now.Add(-48 * time.Hour)},
		{Token: "revoked-recent", UserID: userID, ExpiresAt: now.Add(time.Hour), IsRevoked: true, RevokedAt: now.Add(-time.Hour)},
	}
	for i := range seed {
		require.NoError(t, store.Create(ctx, &seed[i]))
	}

	s := NewSweeper(store, time.Hour, 24*time.Hour, zerolog.Nop())
	s.now = func() time.Time { return now }

	n, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 2, store.Len())

	_, err = store.FindActive(ctx, "active")
	assert.NoError(t, err)
}

type purgerFunc func(ctx context.Context, now, revokedBefore time.Time) (int64, error)

func (f purgerFunc) DeleteExpired(ctx context.Context, now, revokedBefore time.Time) (int64, error) {
	return f(ctx, now, revokedBefore)
}

func TestSweepOnceError(t *testing.T) {
	boom := errors.New("boom")
	s := NewSweeper(purgerFunc(func(context.Context, time.Time, time.Time) (int64, error) {
		return 0, boom
	}), 0, 0, zerolog.Nop())

	_, err := s.SweepOnce(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSweeperDefaults(t *testing.T) {
	s := NewSweeper(nil, 0, -1, zerolog.Nop())
	assert.Equal(t, defaultSweepInterval, s.interval)
	assert.Equal(t, defaultRevokedRetention, s.retention)
}

func TestSweeperStartStops(t *testing.T) {
	var calls atomic.Int32
	s := NewSweeper(purgerFunc(func(context.Context, time.Time, time.Time) (int64, error) {
		calls.Add(1)
		return 0, nil
	}), 5*time.Millisecond, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Start(ctx)

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
