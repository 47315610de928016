package repository

import (
	"context"
	"testing"
	"time"

	"github.com/halaltools/amanah/internal/quota/domain"
	"github.com/halaltools/amanah/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) domain.Repository {
	t.Helper()
	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.UsageAccount{}))
	return New(conn)
}

func TestFindMissingAccount(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Find(context.Background(), "ip:203.0.113.1")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestConsumeOneStopsAtZero(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.UsageAccount{
		Identity:      "user:1",
		RemainingUses: 2,
		LastReset:     now,
		LastUsedAt:    now,
	}))

	for i := 0; i < 2; i++ {
		consumed, err := repo.ConsumeOne(ctx, "user:1", now)
		require.NoError(t, err)
		assert.True(t, consumed)
	}

	consumed, err := repo.ConsumeOne(ctx, "user:1", now)
	require.NoError(t, err)
	assert.False(t, consumed, "expected no consume once balance is zero")

	account, err := repo.Find(ctx, "user:1")
	require.NoError(t, err)
	assert.Equal(t, 0, account.RemainingUses)
}

func TestConsumeOneUnknownIdentity(t *testing.T) {
	repo := setupRepo(t)

	consumed, err := repo.ConsumeOne(context.Background(), "ip:198.51.100.9", time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, consumed)
}

func TestResetRefillsBalance(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.UsageAccount{
		Identity:      "user:2",
		RemainingUses: 0,
		LastReset:     created,
		LastUsedAt:    created,
	}))

	resetAt := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Reset(ctx, "user:2", 5, resetAt))

	account, err := repo.Find(ctx, "user:2")
	require.NoError(t, err)
	assert.Equal(t, 5, account.RemainingUses)
	assert.Equal(t, resetAt.Unix(), account.LastReset.Unix())
}
