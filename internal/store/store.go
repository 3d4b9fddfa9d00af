// server/internal/store/store.go
package store

import (
	"context"
	"errors"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Repository is the persistence contract every resource service is written against.
// T must be a model embedding models.Base.
type Repository[T any] interface {
	Insert(ctx context.Context, doc *T) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Find(ctx context.Context, q query.Query) ([]T, error)
	Count(ctx context.Context, q query.Query) (int64, error)
	Replace(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// AddToSet và Pull là thao tác nguyên tử trên một mảng string của document.
	AddToSet(ctx context.Context, id primitive.ObjectID, field string, values ...string) (*T, error)
	Pull(ctx context.Context, id primitive.ObjectID, field, value string) (*T, error)
}

// List chạy Find và Count song song trên cùng một filter.
func List[T any](ctx context.Context, repo Repository[T], q query.Query) ([]T, int64, error) {
	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = repo.Find(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = repo.Count(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func meta[T any](doc *T) *models.Base {
	return any(doc).(models.Document).Meta()
}
