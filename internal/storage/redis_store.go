package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammi749/gamekeys/internal/domain"
)

// RedisStore keeps client state in Redis, keyed per owner. Meant for
// kiosk-style deployments where several terminals share one session.
type RedisStore struct {
	client  *redis.Client
	owner   string
	cartTTL time.Duration
}

func NewRedisStore(client *redis.Client, owner string) *RedisStore {
	return &RedisStore{
		client:  client,
		owner:   owner,
		cartTTL: 30 * 24 * time.Hour,
	}
}

func (r *RedisStore) LoadCart(ctx context.Context) (domain.Cart, error) {
	data, err := r.client.Get(ctx, r.key("cart")).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return cart, nil
}

func (r *RedisStore) SaveCart(ctx context.Context, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, r.key("cart"), data, r.cartTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) LoadTokens(ctx context.Context) (domain.TokenPair, error) {
	data, err := r.client.Get(ctx, r.key("tokens")).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.TokenPair{}, ErrNotFound
	}
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("redis get failed: %w", err)
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return domain.TokenPair{}, fmt.Errorf("unmarshal tokens failed: %w", err)
	}
	return pair, nil
}

func (r *RedisStore) SaveTokens(ctx context.Context, pair domain.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("marshal tokens failed: %w", err)
	}
	if err := r.client.Set(ctx, r.key("tokens"), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearTokens(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key("tokens")).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) PendingOrder(ctx context.Context) (int64, error) {
	id, err := r.client.Get(ctx, r.key("pending_order")).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failed: %w", err)
	}
	return id, nil
}

func (r *RedisStore) SetPendingOrder(ctx context.Context, orderID int64) error {
	if err := r.client.Set(ctx, r.key("pending_order"), orderID, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStore) ClearPendingOrder(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key("pending_order")).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (r *RedisStore) key(kind string) string {
	return fmt.Sprintf("storefront:%s:%s", kind, r.owner)
}
