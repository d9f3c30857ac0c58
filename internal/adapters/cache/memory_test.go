package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"schoolrec/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_ClaimConsumesOnMatch(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{
		Code:      "123456",
		ExpiresAt: now.Add(5 * time.Minute),
	}))

	status, err := store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimOK, status)

	status, err = store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimNotFound, status)
}

func TestMemoryStore_ClaimExpiredDeletes(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{
		Code:      "123456",
		ExpiresAt: now.Add(-time.Second),
	}))

	status, err := store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimExpired, status)

	status, err = store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimNotFound, status)
}

func TestMemoryStore_ClaimMismatchKeepsEntry(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{
		Code:      "123456",
		ExpiresAt: now.Add(5 * time.Minute),
	}))

	status, err := store.Claim(ctx, "a@x.com", "654321", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimMismatch, status)

	status, err = store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimOK, status)
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{Code: "111111", ExpiresAt: now.Add(5 * time.Minute)}))
	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{Code: "222222", ExpiresAt: now.Add(5 * time.Minute)}))

	status, err := store.Claim(ctx, "a@x.com", "111111", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimMismatch, status)

	status, err = store.Claim(ctx, "a@x.com", "222222", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimOK, status)
}

// Exactly one of many concurrent verifiers may consume a challenge.
func TestMemoryStore_ClaimIsAtomic(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{
		Code:      "123456",
		ExpiresAt: now.Add(5 * time.Minute),
	}))

	const workers = 32
	results := make(chan domain.ClaimStatus, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := store.Claim(ctx, "a@x.com", "123456", now)
			assert.NoError(t, err)
			results <- status
		}()
	}
	wg.Wait()
	close(results)

	ok, notFound := 0, 0
	for status := range results {
		switch status {
		case domain.ClaimOK:
			ok++
		case domain.ClaimNotFound:
			notFound++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, notFound)
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "old@x.com", &domain.Challenge{Code: "111111", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Put(ctx, "fresh@x.com", &domain.Challenge{Code: "222222", ExpiresAt: now.Add(time.Minute)}))

	purged, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	status, err := store.Claim(ctx, "fresh@x.com", "222222", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimOK, status)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryChallengeStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, "a@x.com", &domain.Challenge{Code: "123456", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, store.Delete(ctx, "a@x.com"))

	status, err := store.Claim(ctx, "a@x.com", "123456", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimNotFound, status)
}
