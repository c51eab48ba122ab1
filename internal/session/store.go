package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, identity domain.Identity) (string, error)
	Get(ctx context.Context, id string) (*domain.Identity, error)
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Create stores identity under a fresh 128-bit id and returns the id.
func (s *RedisStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	id, err := newID()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}
	ok, err := s.client.SetNX(ctx, key(id), payload, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return "", errors.New("session id collision")
	}
	return id, nil
}

// Get loads the identity. The expiry set at Create is left untouched.
func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Identity, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var identity domain.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !identity.Authenticated() {
		return nil, ErrNotFound
	}
	return &identity, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, key(id)).Err()
}

func key(id string) string {
	return "session:" + id
}

func newID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

var _ Store = (*RedisStore)(nil)
