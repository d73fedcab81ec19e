package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shareit/internal/config"
	"shareit/internal/models"
)

// RedisProjectionCache хранит проекции пользователей и вещей в Redis
type RedisProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisProjectionCache(client *redis.Client, ttl time.Duration) *RedisProjectionCache {
	return &RedisProjectionCache{
		client: client,
		ttl:    ttl,
	}
}

func userKey(id int64) string { return fmt.Sprintf("user_proj:%d", id) }
func itemKey(id int64) string { return fmt.Sprintf("item_proj:%d", id) }

func (r *RedisProjectionCache) GetUser(ctx context.Context, id int64) (*models.UserSimple, error) {
	var user models.UserSimple
	ok, err := r.get(ctx, userKey(id), &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *RedisProjectionCache) SetUser(ctx context.Context, user *models.UserSimple) error {
	return r.set(ctx, userKey(user.ID), user)
}

func (r *RedisProjectionCache) InvalidateUser(ctx context.Context, id int64) error {
	return r.del(ctx, userKey(id))
}

func (r *RedisProjectionCache) GetItem(ctx context.Context, id int64) (*models.ItemSimple, error) {
	var item models.ItemSimple
	ok, err := r.get(ctx, itemKey(id), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (r *RedisProjectionCache) SetItem(ctx context.Context, item *models.ItemSimple) error {
	return r.set(ctx, itemKey(item.ID), item)
}

func (r *RedisProjectionCache) InvalidateItem(ctx context.Context, id int64) error {
	return r.del(ctx, itemKey(id))
}

func (r *RedisProjectionCache) get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get projection from redis: %w", err)
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal projection: %w", err)
	}
	return true, nil
}

func (r *RedisProjectionCache) set(ctx context.Context, key string, value interface{}) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set projection in redis: %w", err)
	}
	return nil
}

func (r *RedisProjectionCache) del(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete projection from redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
