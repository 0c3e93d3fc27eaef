package member

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	recordPrefix = "subscriber:"
	lockPrefix   = "lock:subscriber:"

	lockRetryWait = 50 * time.Millisecond
)

// LockTTL is the per-email lease duration. It must exceed the longest
// deadline any Update mutator can run under (the one-minute claim
// handler budget, gateway calls included) so a slow Telegram round trip
// cannot expire the lease while its holder is still inside the critical
// section.
const LockTTL = 2 * time.Minute

// releaseScript deletes the lock only if we still own it, so an expired
// lease taken over by another worker is never released from here.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// saveScript persists the record only while we still hold the lease.
// The ownership check and the write are one atomic script, so a worker
// that lost its lease can never clobber the record persisted by the
// lease's next holder.
var saveScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	redis.call("SET", KEYS[2], ARGV[2])
	return 1
end
return 0
`)

// RedisStore is an alternative record backend. Update serializes per email
// with a SetNX lease; the mutator runs exactly once per call, so gateway
// side effects issued inside it are not replayed on contention.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, email string) (*Record, error) {
	val, err := s.client.Get(ctx, recordPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("member: load record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("member: decode record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Update(ctx context.Context, email string, fn UpdateFunc) error {
	token, err := s.acquire(ctx, email)
	if err != nil {
		return err
	}
	defer s.release(email, token)

	current, err := s.Get(ctx, email)
	if err != nil {
		return err
	}

	updated, err := fn(current)
	if err != nil {
		return err
	}
	if updated == nil {
		return nil
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("member: marshal record: %w", err)
	}

	saved, err := saveScript.Run(ctx, s.client,
		[]string{lockPrefix + email, recordPrefix + email},
		token, data,
	).Int()
	if err != nil {
		return fmt.Errorf("member: save %s: %w", email, err)
	}
	if saved == 0 {
		return fmt.Errorf("member: lease on %s expired before persist", email)
	}
	return nil
}

func (s *RedisStore) acquire(ctx context.Context, email string) (string, error) {
	token := uuid.NewString()
	for {
		ok, err := s.client.SetNX(ctx, lockPrefix+email, token, LockTTL).Result()
		if err != nil {
			return "", fmt.Errorf("member: acquire lock for %s: %w", email, err)
		}
		if ok {
			return token, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("member: acquire lock for %s: %w", email, ctx.Err())
		case <-time.After(lockRetryWait):
		}
	}
}

func (s *RedisStore) release(email, token string) {
	// Release runs even when the caller's context is already canceled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = releaseScript.Run(ctx, s.client, []string{lockPrefix + email}, token).Err()
}
