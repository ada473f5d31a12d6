package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AhmedZafar5533/marbo-go/app/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cart JSON under a single key, namespaced per device
// profile so several storefront instances can share one Redis.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	key := CartKey
	if profile != "" {
		key = profile + ":" + CartKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (models.Cart, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.EmptyCart(), nil
		}
		return models.EmptyCart(), fmt.Errorf("failed to read cart from redis: %w", err)
	}

	var inputs []models.LineItemInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return models.EmptyCart(), nil
	}

	cart := models.Cart{Items: models.NormalizeItems(inputs)}
	cart.Recount()
	return cart, nil
}

func (s *RedisStore) Save(ctx context.Context, cart models.Cart) error {
	data, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write cart to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear cart in redis: %w", err)
	}
	return nil
}
