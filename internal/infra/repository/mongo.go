package repository

import (
	"context"
	"errors"

	"lms-connector/internal/domain/interfaces/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores one document per key, matched on keyField.
type MongoRepository[T any] struct {
	mongo    *mongo.Database
	keyField string
}

func NewMongoRepository[T any](mongo *mongo.Database, keyField string) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo, keyField: keyField}
}

func (r *MongoRepository[T]) Upsert(ctx context.Context, collectionName string, key string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}

	update := bson.M{
		"$set": entity,
	}

	_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return entity, err
}

func (r *MongoRepository[T]) FindByKey(ctx context.Context, collectionName string, key string) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}
	err := collection.FindOne(ctx, filter).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity, repository.ErrNotFound
	}
	return entity, err
}

func (r *MongoRepository[T]) Delete(ctx context.Context, collectionName string, key string) error {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{r.keyField: key}
	_, err := collection.DeleteOne(ctx, filter)
	return err
}
