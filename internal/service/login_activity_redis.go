package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/edge-auth/internal/domain"
)

// loginHistoryCap bounds the per-user history; the push evicts everything
// past it.
const loginHistoryCap = 10

// LoginActivityStore owns a user's trusted-device set and bounded login
// history. Both are monotonically informative: append-only, trimmed by the
// cap, never rolled back.
type LoginActivityStore interface {
	// RecordLogin adds the device fingerprint to the trusted set
	// (idempotent) and pushes a history entry, atomically, so concurrent
	// logins on different devices cannot lose an update to a race.
	RecordLogin(ctx context.Context, userID uint, deviceID string, rec domain.LoginRecord) error
	IsTrustedDevice(ctx context.Context, userID uint, deviceID string) (bool, error)
	LoginHistory(ctx context.Context, userID uint) ([]domain.LoginRecord, error)
}

// Set-add plus bounded list-push in one round trip. Correctness under
// concurrency is delegated to redis, not an in-process lock.
var redisRecordLoginScript = redis.NewScript(`
redis.call("SADD", KEYS[1], ARGV[1])
redis.call("LPUSH", KEYS[2], ARGV[2])
redis.call("LTRIM", KEYS[2], 0, tonumber(ARGV[3]) - 1)
return 1
`)

type RedisLoginActivityStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisLoginActivityStore(client redis.UniversalClient, prefix string) *RedisLoginActivityStore {
	if prefix == "" {
		prefix = "activity"
	}
	return &RedisLoginActivityStore{client: client, prefix: prefix}
}

func (s *RedisLoginActivityStore) devicesKey(userID uint) string {
	return fmt.Sprintf("%s:%d:devices", s.prefix, userID)
}

func (s *RedisLoginActivityStore) historyKey(userID uint) string {
	return fmt.Sprintf("%s:%d:history", s.prefix, userID)
}

func (s *RedisLoginActivityStore) RecordLogin(ctx context.Context, userID uint, deviceID string, rec domain.LoginRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal login record: %w", err)
	}
	err = redisRecordLoginScript.Run(
		ctx,
		s.client,
		[]string{s.devicesKey(userID), s.historyKey(userID)},
		deviceID,
		payload,
		loginHistoryCap,
	).Err()
	if err != nil {
		return fmt.Errorf("record login for user %d: %w", userID, err)
	}
	return nil
}

func (s *RedisLoginActivityStore) IsTrustedDevice(ctx context.Context, userID uint, deviceID string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, s.devicesKey(userID), deviceID).Result()
	if err != nil {
		return false, fmt.Errorf("trusted device check for user %d: %w", userID, err)
	}
	return ok, nil
}

func (s *RedisLoginActivityStore) LoginHistory(ctx context.Context, userID uint) ([]domain.LoginRecord, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("login history for user %d: %w", userID, err)
	}
	records := make([]domain.LoginRecord, 0, len(raw))
	for _, entry := range raw {
		var rec domain.LoginRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			// Skip entries written by an incompatible release rather
			// than failing the whole risk read.
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
