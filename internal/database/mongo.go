// server/internal/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"workforce-ops-api-server/config"
	"workforce-ops-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Tên collection dùng chung giữa store và index.
const (
	CollInventory   = "inventory_items"
	CollShifts      = "shifts"
	CollBriefings   = "staff_briefings"
	CollTrainings   = "training_sessions"
	CollMachines    = "machines"
	CollInvoices    = "invoices"
	CollPayments    = "payments"
	CollExpenses    = "expenses"
	CollRoster      = "roster_entries"
	CollSupervisors = "supervisors"
	CollUsers       = "users"
	CollAlerts      = "alerts"
)

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// UniqueKeys lists the natural keys enforced by a unique index, per collection. The
// in-memory store is configured from the same table.
var UniqueKeys = map[string][]string{
	CollInventory:   {"sku"},
	CollMachines:    {"machineCode"},
	CollInvoices:    {"invoiceNumber"},
	CollSupervisors: {"email"},
	CollUsers:       {"email"},
}

var secondaryIndexes = map[string][]bson.D{
	CollBriefings: {{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}, {{Key: "department", Value: 1}, {Key: "shift", Value: 1}}},
	CollTrainings: {{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}, {{Key: "status", Value: 1}, {Key: "type", Value: 1}}},
	CollInventory: {{{Key: "department", Value: 1}, {Key: "category", Value: 1}}},
	CollRoster:    {{{Key: "date", Value: -1}, {Key: "employeeId", Value: 1}}},
	CollAlerts:    {{{Key: "createdAt", Value: -1}}},
}

// EnsureIndexes creates the unique and listing indexes. Creating an existing index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, fields := range UniqueKeys {
		models := make([]mongo.IndexModel, 0, len(fields))
		for _, f := range fields {
			models = append(models, mongo.IndexModel{
				Keys:    bson.D{{Key: f, Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create unique indexes on %s: %w", coll, err)
		}
	}
	for coll, keys := range secondaryIndexes {
		models := make([]mongo.IndexModel, 0, len(keys))
		for _, k := range keys {
			models = append(models, mongo.IndexModel{Keys: k})
		}
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// Repo returns the Mongo-backed repository for coll, or an in-memory one with the same
// unique keys when db is nil.
func Repo[T any](db *mongo.Database, coll string) store.Repository[T] {
	if db == nil {
		return store.NewMemory[T](UniqueKeys[coll]...)
	}
	return store.NewMongo[T](db, coll)
}
