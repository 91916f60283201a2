package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"todoapi/internal/config"
	"todoapi/internal/model"
)

// CategoriesKey holds the JSON-encoded category list.
const CategoriesKey = "todoapi:categories"

// ErrMiss is returned by Get when nothing is cached.
var ErrMiss = errors.New("cache miss")

type CategoryCache interface {
	Get(ctx context.Context) ([]model.Category, error)
	Set(ctx context.Context, categories []model.Category) error
	Invalidate(ctx context.Context) error
}

type RedisCategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*RedisCategoryCache)(nil)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisCategoryCache(client *redis.Client, ttl time.Duration) *RedisCategoryCache {
	return &RedisCategoryCache{client: client, ttl: ttl}
}

func (c *RedisCategoryCache) Get(ctx context.Context) ([]model.Category, error) {
	raw, err := c.client.Get(ctx, CategoriesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var categories []model.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, fmt.Errorf("decode cached categories: %w", err)
	}
	return categories, nil
}

func (c *RedisCategoryCache) Set(ctx context.Context, categories []model.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	if err := c.client.Set(ctx, CategoriesKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisCategoryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, CategoriesKey).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
