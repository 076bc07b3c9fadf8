package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by every Repository implementation when a key has no document.
var ErrNotFound = errors.New("document not found")

type Repository[T any] interface {
	Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error)
	FindByKey(ctx context.Context, collectionName string, key string) (T, error)
	Delete(ctx context.Context, collectionName string, key string) error
}
