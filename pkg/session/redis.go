package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON values whose TTL matches ExpiresAt.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return gerrors.New("session already expired")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return gerrors.Wrap(err, "marshal session")
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return gerrors.Wrap(err, "save session")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "load session")
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, gerrors.Wrap(err, "unmarshal session")
	}
	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return gerrors.Wrap(err, "delete session")
	}
	return nil
}

// NewRedisClient accepts either a redis:// URL or a bare host:port address.
func NewRedisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opts, err := redis.ParseURL(addr)
		if err != nil {
			return nil, gerrors.Wrap(err, "parse redis url")
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}
