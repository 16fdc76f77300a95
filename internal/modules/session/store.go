// README: Phone-number prefill storage (the single persisted key).
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// phoneKey matches the key the mobile client used in device storage.
const phoneKey = "phoneNumber"

// PhoneStore persists the last successfully used phone number so the login
// form can prefill it on the next start. It is the only durable state in the
// application; everything else is session-scoped.
type PhoneStore interface {
	SavePhone(ctx context.Context, phone string) error
	LoadPhone(ctx context.Context) (string, error)
}

// RedisPhoneStore keeps the phone key in Redis.
type RedisPhoneStore struct {
	rdb *redis.Client
}

func NewRedisPhoneStore(rdb *redis.Client) *RedisPhoneStore {
	return &RedisPhoneStore{rdb: rdb}
}

func (s *RedisPhoneStore) SavePhone(ctx context.Context, phone string) error {
	return s.rdb.Set(ctx, phoneKey, phone, 0).Err()
}

// LoadPhone returns an empty string, not an error, when nothing is stored
// yet; a first start has no phone to prefill.
func (s *RedisPhoneStore) LoadPhone(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, phoneKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// MemoryPhoneStore backs tests and runs without Redis configured.
type MemoryPhoneStore struct {
	mu    sync.Mutex
	phone string
}

func NewMemoryPhoneStore() *MemoryPhoneStore {
	return &MemoryPhoneStore{}
}

func (s *MemoryPhoneStore) SavePhone(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phone = phone
	return nil
}

func (s *MemoryPhoneStore) LoadPhone(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone, nil
}
