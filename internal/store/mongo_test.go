package store

import (
	"context"
	"os"
	"testing"
	"time"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func getMongoDB(t *testing.T) *mongo.Database {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("workforce_ops_test")
	t.Cleanup(func() { _ = db.Drop(context.Background()) })
	return db
}

func TestMongoRoundTrip(t *testing.T) {
	db := getMongoDB(t)
	ctx := context.Background()

	coll := db.Collection("inventory_items")
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sku", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	require.NoError(t, err)

	repo := NewMongo[models.InventoryItem](db, "inventory_items")
	item := models.InventoryItem{SKU: "RT-1", Name: "Gloves", Department: models.DeptKitchen, Quantity: 3}
	require.NoError(t, repo.Insert(ctx, &item))
	assert.False(t, item.ID.IsZero())

	err = repo.Insert(ctx, &models.InventoryItem{SKU: "RT-1"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gloves", got.Name)

	items, total, err := List[models.InventoryItem](ctx, repo, query.Query{
		Equals: []query.Condition{{Field: "department", Value: "kitchen"}},
		Search: "glo", SearchFields: []string{"name"},
		Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoAddToSet(t *testing.T) {
	db := getMongoDB(t)
	ctx := context.Background()

	repo := NewMongo[models.Shift](db, "shifts")
	s := models.Shift{Name: "Morning", StartTime: "09:00", EndTime: "17:00", Employees: []string{"e1"}}
	require.NoError(t, repo.Insert(ctx, &s))

	got, err := repo.AddToSet(ctx, s.ID, "employees", "e1", "e2")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"e1", "e2"}, got.Employees)

	got, err = repo.Pull(ctx, s.ID, "employees", "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2"}, got.Employees)
}
