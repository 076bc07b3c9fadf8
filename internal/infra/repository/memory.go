package repository

import (
	"context"
	"sync"

	"lms-connector/internal/domain/interfaces/repository"
)

// MemoryRepository is the default store when no database is configured.
type MemoryRepository[T any] struct {
	mu   sync.RWMutex
	data map[string]map[string]T
}

func NewMemoryRepository[T any]() *MemoryRepository[T] {
	return &MemoryRepository[T]{data: make(map[string]map[string]T)}
}

func (r *MemoryRepository[T]) Upsert(_ context.Context, collectionName string, key string, entity T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collection, ok := r.data[collectionName]
	if !ok {
		collection = make(map[string]T)
		r.data[collectionName] = collection
	}
	collection[key] = entity
	return entity, nil
}

func (r *MemoryRepository[T]) FindByKey(_ context.Context, collectionName string, key string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, ok := r.data[collectionName][key]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return entity, nil
}

func (r *MemoryRepository[T]) Delete(_ context.Context, collectionName string, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data[collectionName], key)
	return nil
}
