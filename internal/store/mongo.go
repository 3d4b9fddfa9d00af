// server/internal/store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workforce-ops-api-server/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the MongoDB-backed Repository.
type Mongo[T any] struct {
	coll *mongo.Collection
}

func NewMongo[T any](db *mongo.Database, collection string) *Mongo[T] {
	return &Mongo[T]{coll: db.Collection(collection)}
}

func (m *Mongo[T]) Insert(ctx context.Context, doc *T) error {
	now := time.Now().UTC()
	base := meta(doc)
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now

	result, err := m.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		base.ID = oid
	}
	return nil
}

func (m *Mongo[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func (m *Mongo[T]) Find(ctx context.Context, q query.Query) ([]T, error) {
	cursor, err := m.coll.Find(ctx, q.BSON(), q.FindOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", m.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", m.coll.Name(), err)
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

func (m *Mongo[T]) Count(ctx context.Context, q query.Query) (int64, error) {
	return m.coll.CountDocuments(ctx, q.BSON())
}

func (m *Mongo[T]) Replace(ctx context.Context, doc *T) error {
	base := meta(doc)
	base.UpdatedAt = time.Now().UTC()

	result, err := m.coll.ReplaceOne(ctx, bson.M{"_id": base.ID}, doc)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo[T]) AddToSet(ctx context.Context, id primitive.ObjectID, field string, values ...string) (*T, error) {
	update := bson.M{
		"$addToSet": bson.M{field: bson.M{"$each": values}},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	return m.findOneAndUpdate(ctx, id, update)
}

func (m *Mongo[T]) Pull(ctx context.Context, id primitive.ObjectID, field, value string) (*T, error) {
	update := bson.M{
		"$pull": bson.M{field: value},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return m.findOneAndUpdate(ctx, id, update)
}

func (m *Mongo[T]) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, update bson.M) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc T
	if err := m.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return &doc, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}
