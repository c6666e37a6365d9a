package audit

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "liars:audit:"

// Redis is a Store backed by Redis string keys
type Redis struct {
	rdb *redis.Client
}

// NewRedis returns a store that uses rdb
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Dial connects to Redis and verifies the connection
func Dial(ctx context.Context, addr, password string, db int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return NewRedis(rdb), nil
}

// Put stores the content unless the key already exists
func (r *Redis) Put(ctx context.Context, content []byte) (ID, error) {
	id := ContentID(content)
	if err := r.rdb.SetNX(ctx, keyPrefix+string(id), content, 0).Err(); err != nil {
		return "", err
	}

	return id, nil
}

// Get returns the content, checking that it still hashes to the ID
func (r *Redis) Get(ctx context.Context, id ID) ([]byte, error) {
	content, err := r.rdb.Get(ctx, keyPrefix+string(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	if !id.Verify(content) {
		return nil, ErrCorrupt
	}

	return content, nil
}

// Close closes the underlying client
func (r *Redis) Close() error {
	return r.rdb.Close()
}
