// server/internal/sequence/sequence.go
package sequence

import (
	"context"
	"fmt"

	"workforce-ops-api-server/internal/query"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	StrategyCount = "count"
	StrategyMongo = "mongo"
	StrategyRedis = "redis"
)

// Generator produces human-readable display ids such as BRI007.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// Format: <PREFIX><n zero-padded to 3 digits>.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// Counter is satisfied by every store.Repository.
type Counter interface {
	Count(ctx context.Context, q query.Query) (int64, error)
}

// CountBased đếm số document rồi cộng 1. Không nguyên tử: hai request đồng thời có thể
// nhận cùng một id.
type CountBased struct {
	Prefix string
	Source Counter
}

func (g CountBased) Next(ctx context.Context) (string, error) {
	n, err := g.Source.Count(ctx, query.Query{})
	if err != nil {
		return "", fmt.Errorf("failed to count documents for %s id: %w", g.Prefix, err)
	}
	return Format(g.Prefix, n+1), nil
}

// MongoCounter keeps one document per sequence in the counters collection and bumps it with $inc.
type MongoCounter struct {
	coll   *mongo.Collection
	name   string
	prefix string
}

func NewMongoCounter(db *mongo.Database, name, prefix string) *MongoCounter {
	return &MongoCounter{coll: db.Collection("counters"), name: name, prefix: prefix}
}

func (g *MongoCounter) Next(ctx context.Context) (string, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := g.coll.FindOneAndUpdate(ctx, bson.M{"_id": g.name}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("failed to increment counter %s: %w", g.name, err)
	}
	return Format(g.prefix, counter.Seq), nil
}

// Seed raises the counter to at least floor so ids continue after existing documents.
func (g *MongoCounter) Seed(ctx context.Context, floor int64) error {
	_, err := g.coll.UpdateOne(ctx, bson.M{"_id": g.name}, bson.M{"$max": bson.M{"seq": floor}}, options.Update().SetUpsert(true))
	return err
}

// RedisCounter dùng INCR của Redis.
type RedisCounter struct {
	client *redis.Client
	key    string
	prefix string
}

func NewRedisCounter(client *redis.Client, name, prefix string) *RedisCounter {
	return &RedisCounter{client: client, key: "seq:" + name, prefix: prefix}
}

func (g *RedisCounter) Next(ctx context.Context) (string, error) {
	n, err := g.client.Incr(ctx, g.key).Result()
	if err != nil {
		return "", fmt.Errorf("failed to increment counter %s: %w", g.key, err)
	}
	return Format(g.prefix, n), nil
}

// Seed sets the counter only when the key does not exist yet.
func (g *RedisCounter) Seed(ctx context.Context, floor int64) error {
	return g.client.SetNX(ctx, g.key, floor, 0).Err()
}

// Backends holds the optional infrastructure the atomic strategies need.
type Backends struct {
	DB    *mongo.Database
	Redis *redis.Client
}

// New builds the generator for strategy. Atomic counters are seeded from the current
// document count so a switch from the count strategy does not reuse ids.
func New(ctx context.Context, strategy, name, prefix string, src Counter, b Backends) (Generator, error) {
	switch strategy {
	case "", StrategyCount:
		return CountBased{Prefix: prefix, Source: src}, nil
	case StrategyMongo:
		if b.DB == nil {
			return nil, fmt.Errorf("sequence strategy %q requires MongoDB", strategy)
		}
		g := NewMongoCounter(b.DB, name, prefix)
		return g, seed(ctx, g.Seed, src)
	case StrategyRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("sequence strategy %q requires Redis", strategy)
		}
		g := NewRedisCounter(b.Redis, name, prefix)
		return g, seed(ctx, g.Seed, src)
	default:
		return nil, fmt.Errorf("unknown sequence strategy %q", strategy)
	}
}

func seed(ctx context.Context, fn func(context.Context, int64) error, src Counter) error {
	n, err := src.Count(ctx, query.Query{})
	if err != nil {
		return err
	}
	return fn(ctx, n)
}
