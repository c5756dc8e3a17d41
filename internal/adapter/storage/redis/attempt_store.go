package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"secure-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

const (
	attemptKeyPrefix  = "attempts:"
	fieldFailCount    = "fail_count"
	fieldLockoutUntil = "lockout_until" // unix seconds, 0 = none
)

// AttemptStore implements ports.AttemptRepository on Redis. One hash per
// email holds the fail counter and the lockout expiry; a missing hash is a
// clear record.
type AttemptStore struct {
	client *goredis.Client
}

// NewAttemptStore creates a Redis-backed attempt store.
func NewAttemptStore(client *goredis.Client) *AttemptStore {
	return &AttemptStore{client: client}
}

// Get reads the attempt record; a zero record for a never-seen email.
func (s *AttemptStore) Get(ctx context.Context, email string) (*domain.AttemptRecord, error) {
	fields, err := s.client.HGetAll(ctx, attemptKeyPrefix+email).Result()
	if err != nil {
		return nil, fmt.Errorf("redis attempt get: %w", err)
	}

	rec := &domain.AttemptRecord{}
	if v, ok := fields[fieldFailCount]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse fail_count %q: %w", v, err)
		}
		rec.FailCount = n
	}
	if v, ok := fields[fieldLockoutUntil]; ok {
		unix, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse lockout_until %q: %w", v, err)
		}
		if unix > 0 {
			until := time.Unix(unix, 0)
			rec.LockoutUntil = &until
		}
	}
	return rec, nil
}

// Put writes the attempt record.
func (s *AttemptStore) Put(ctx context.Context, email string, record *domain.AttemptRecord) error {
	var lockout int64
	if record.LockoutUntil != nil {
		lockout = record.LockoutUntil.Unix()
	}

	err := s.client.HSet(ctx, attemptKeyPrefix+email,
		fieldFailCount, record.FailCount,
		fieldLockoutUntil, lockout,
	).Err()
	if err != nil {
		return fmt.Errorf("redis attempt put: %w", err)
	}
	return nil
}
