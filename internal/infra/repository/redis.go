package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lms-connector/internal/domain/interfaces/repository"

	"github.com/redis/go-redis/v9"
)

// RedisRepository keeps JSON documents under "<collection>:<key>".
type RedisRepository[T any] struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository[T any](client *redis.Client, ttl time.Duration) *RedisRepository[T] {
	return &RedisRepository[T]{client: client, ttl: ttl}
}

func redisKey(collectionName, key string) string {
	return fmt.Sprintf("%s:%s", collectionName, key)
}

func (r *RedisRepository[T]) Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error) {
	payload, err := json.Marshal(entity)
	if err != nil {
		return entity, fmt.Errorf("failed to marshal entity: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(collectionName, key), payload, r.ttl).Err(); err != nil {
		return entity, err
	}
	return entity, nil
}

func (r *RedisRepository[T]) FindByKey(ctx context.Context, collectionName string, key string) (T, error) {
	var entity T
	payload, err := r.client.Get(ctx, redisKey(collectionName, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity, repository.ErrNotFound
	}
	if err != nil {
		return entity, err
	}
	if err := json.Unmarshal(payload, &entity); err != nil {
		return entity, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return entity, nil
}

func (r *RedisRepository[T]) Delete(ctx context.Context, collectionName string, key string) error {
	return r.client.Del(ctx, redisKey(collectionName, key)).Err()
}
