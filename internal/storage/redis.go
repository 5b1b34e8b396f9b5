package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/garrettladley/whoopy/internal/oauth"
)

const (
	backendRedis   = "redis"
	tokenKeyPrefix = "whoopy:token:"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the token under a single key with no expiry; the token's
// own lifetime is enforced by the refresh logic, not by redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, name string) *RedisStore {
	if name == "" {
		name = DefaultName
	}
	return &RedisStore{client: client, key: tokenKeyPrefix + name}
}

func (s *RedisStore) Load(ctx context.Context) (*oauth.Token, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, s.fail(OpLoad, ErrNotFound)
	}
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}

	token, err := Unmarshal(data)
	if err != nil {
		return nil, s.fail(OpLoad, err)
	}
	return token, nil
}

func (s *RedisStore) Save(ctx context.Context, token *oauth.Token) error {
	data, err := Marshal(token)
	if err != nil {
		return s.fail(OpSave, err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return s.fail(OpSave, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return s.fail(OpDelete, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) fail(op Op, err error) *StorageError {
	return &StorageError{Op: op, Backend: backendRedis, Location: s.key, Err: err}
}
