package cache

import (
	"context"
	"sync"
	"time"

	"schoolrec/internal/core/domain"
)

// MemoryChallengeStore keeps challenges in a process-local map.
// Suitable for single-instance deployments and tests; multi-instance
// deployments should use the Redis store instead.
type MemoryChallengeStore struct {
	entries map[string]*domain.Challenge
	mu      sync.Mutex
}

// NewMemoryChallengeStore creates an in-process challenge store
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[string]*domain.Challenge),
	}
}

// Put stores a challenge, replacing any existing one for the email
func (s *MemoryChallengeStore) Put(ctx context.Context, email string, challenge *domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = challenge
	return nil
}

// Claim resolves a code against the stored challenge. The whole
// read-check-delete runs under one lock hold.
func (s *MemoryChallengeStore) Claim(ctx context.Context, email, code string, now time.Time) (domain.ClaimStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.entries[email]
	if !ok {
		return domain.ClaimNotFound, nil
	}

	if challenge.Expired(now) {
		delete(s.entries, email)
		return domain.ClaimExpired, nil
	}

	if challenge.Code != code {
		return domain.ClaimMismatch, nil
	}

	delete(s.entries, email)
	return domain.ClaimOK, nil
}

// Delete removes the challenge for an email
func (s *MemoryChallengeStore) Delete(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}

// PurgeExpired removes challenges past expiry and reports how many went
func (s *MemoryChallengeStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for email, challenge := range s.entries {
		if challenge.Expired(now) {
			delete(s.entries, email)
			purged++
		}
	}
	return purged, nil
}
