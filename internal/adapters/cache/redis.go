package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"schoolrec/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const challengeKeyPrefix = "otp:challenge:"

// entryGrace keeps expired entries around past their logical expiry so a
// verify attempt can still be answered with "expired" instead of
// "not found". After the grace window Redis evicts the key and the
// answer degrades to not-found, matching a swept memory store.
const entryGrace = 10 * time.Minute

// claimScript performs the read-check-delete atomically on the Redis side.
// Returns: ok | not_found | expired | mismatch
var claimScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  return 'not_found'
end
local ch = cjson.decode(v)
if tonumber(ARGV[2]) > tonumber(ch.expires_at_unix) then
  redis.call('DEL', KEYS[1])
  return 'expired'
end
if ch.code ~= ARGV[1] then
  return 'mismatch'
end
redis.call('DEL', KEYS[1])
return 'ok'
`)

type redisEntry struct {
	Code          string `json:"code"`
	ExpiresAtUnix int64  `json:"expires_at_unix"`
}

// RedisChallengeStore keeps challenges in a shared Redis instance so
// multiple API instances see the same live challenge per email.
type RedisChallengeStore struct {
	client *redis.Client
}

// NewRedisChallengeStore creates a Redis-backed challenge store
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

// Put stores a challenge, replacing any existing one for the email
func (s *RedisChallengeStore) Put(ctx context.Context, email string, challenge *domain.Challenge) error {
	entry := redisEntry{
		Code:          challenge.Code,
		ExpiresAtUnix: challenge.ExpiresAt.Unix(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	ttl := time.Until(challenge.ExpiresAt) + entryGrace
	if err := s.client.Set(ctx, challengeKeyPrefix+email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store challenge: %w", err)
	}
	return nil
}

// Claim resolves a code against the stored challenge via the Lua script
func (s *RedisChallengeStore) Claim(ctx context.Context, email, code string, now time.Time) (domain.ClaimStatus, error) {
	result, err := claimScript.Run(ctx, s.client,
		[]string{challengeKeyPrefix + email},
		code, now.Unix(),
	).Text()
	if err != nil {
		return domain.ClaimNotFound, fmt.Errorf("claim challenge: %w", err)
	}

	switch result {
	case "ok":
		return domain.ClaimOK, nil
	case "expired":
		return domain.ClaimExpired, nil
	case "mismatch":
		return domain.ClaimMismatch, nil
	default:
		return domain.ClaimNotFound, nil
	}
}

// Delete removes the challenge for an email
func (s *RedisChallengeStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, challengeKeyPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete challenge: %w", err)
	}
	return nil
}

// PurgeExpired is a no-op: Redis evicts entries by TTL
func (s *RedisChallengeStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
