package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"tokopos/internal/domain"
)

const cartKeyPrefix = "tokopos:cart:"

type RedisCartStore struct {
	client *redis.Client
}

func NewRedisCartStore(addr string, password string, db int) *RedisCartStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCartStore{client: client}
}

func (c *RedisCartStore) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCartStore) Close() error {
	return c.client.Close()
}

func (c *RedisCartStore) Load(ctx context.Context, id string) (*domain.CartSnapshot, bool, error) {
	val, err := c.client.Get(ctx, cartKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var cart domain.CartSnapshot
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, false, err
	}
	return &cart, true, nil
}

func (c *RedisCartStore) Save(ctx context.Context, cart domain.CartSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cartKeyPrefix+cart.ID, payload, ttl).Err()
}

func (c *RedisCartStore) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, cartKeyPrefix+id).Err()
}
