// server/internal/services/inventory.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"
)

const msgDuplicateSKU = "Item with this SKU already exists"

var inventorySchema = query.Schema{
	Fields: map[query.Key]query.Field{
		query.KeyDepartment: {Name: "department", Allowed: models.Departments},
		query.KeyCategory:   {Name: "category"},
	},
	SearchFields: []string{"name", "sku", "category", "supplier", "site", "description"},
	Sort:         query.DefaultSort,
}

// InventoryInput is the writable form of an inventory item.
type InventoryInput struct {
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Department   string  `json:"department"`
	Category     string  `json:"category"`
	Site         string  `json:"site"`
	Manager      string  `json:"manager"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	CostPrice    float64 `json:"costPrice"`
	Supplier     string  `json:"supplier"`
	ReorderLevel int     `json:"reorderLevel"`
	Description  string  `json:"description"`
}

func buildInventory(in InventoryInput) (models.InventoryItem, error) {
	var item models.InventoryItem
	sku, err := required("sku", in.SKU)
	if err != nil {
		return item, err
	}
	name, err := required("name", in.Name)
	if err != nil {
		return item, err
	}
	dept, err := enum("department", in.Department, "", models.Departments)
	if err != nil {
		return item, err
	}
	switch {
	case in.Quantity < 0:
		return item, apperr.Validation("quantity cannot be negative")
	case in.Price < 0 || in.CostPrice < 0:
		return item, apperr.Validation("price cannot be negative")
	case in.ReorderLevel < 0:
		return item, apperr.Validation("reorderLevel cannot be negative")
	}

	return models.InventoryItem{
		SKU:          strings.ToUpper(sku),
		Name:         name,
		Department:   models.Department(dept),
		Category:     strings.TrimSpace(in.Category),
		Site:         strings.TrimSpace(in.Site),
		Manager:      strings.TrimSpace(in.Manager),
		Quantity:     in.Quantity,
		Price:        in.Price,
		CostPrice:    in.CostPrice,
		Supplier:     strings.TrimSpace(in.Supplier),
		ReorderLevel: in.ReorderLevel,
		Description:  strings.TrimSpace(in.Description),
	}, nil
}

func inventoryInput(it models.InventoryItem) InventoryInput {
	return InventoryInput{
		SKU: it.SKU, Name: it.Name, Department: string(it.Department), Category: it.Category,
		Site: it.Site, Manager: it.Manager, Quantity: it.Quantity, Price: it.Price,
		CostPrice: it.CostPrice, Supplier: it.Supplier, ReorderLevel: it.ReorderLevel,
		Description: it.Description,
	}
}

type InventoryService struct {
	res resource[models.InventoryItem]
	now func() time.Time
}

func NewInventoryService(repo store.Repository[models.InventoryItem], log *slog.Logger) *InventoryService {
	return &InventoryService{
		res: resource[models.InventoryItem]{name: "Inventory item", repo: repo, schema: inventorySchema, log: log},
		now: time.Now,
	}
}

func (s *InventoryService) List(ctx context.Context, f query.Filter) ([]models.InventoryItem, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *InventoryService) Get(ctx context.Context, id string) (*models.InventoryItem, error) {
	return s.res.get(ctx, id)
}

// Create inserts a new item. A SKU clash is detected by the unique index, not by a lookup.
func (s *InventoryService) Create(ctx context.Context, in InventoryInput, user string) (*models.InventoryItem, error) {
	item, err := buildInventory(in)
	if err != nil {
		return nil, err
	}
	item.History = []models.InventoryHistory{{
		Date:          s.now().UTC(),
		Change:        "Item created",
		User:          userOrSystem(user),
		QuantityDelta: item.Quantity,
	}}
	if err := s.res.repo.Insert(ctx, &item); err != nil {
		return nil, s.res.duplicate(err, "create", msgDuplicateSKU)
	}
	return &item, nil
}

// Update applies a partial update. A quantity change is recorded in the history log.
func (s *InventoryService) Update(ctx context.Context, id string, patch []byte, user string) (*models.InventoryItem, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(inventoryInput(*current), patch)
	if err != nil {
		return nil, err
	}
	item, err := buildInventory(in)
	if err != nil {
		return nil, err
	}
	item.Base = current.Base
	item.History = current.History
	if delta := item.Quantity - current.Quantity; delta != 0 {
		item.History = append(item.History, models.InventoryHistory{
			Date:          s.now().UTC(),
			Change:        fmt.Sprintf("Quantity updated from %d to %d", current.Quantity, item.Quantity),
			User:          userOrSystem(user),
			QuantityDelta: delta,
		})
	}
	if err := s.res.repo.Replace(ctx, &item); err != nil {
		return nil, s.res.duplicate(err, "update", msgDuplicateSKU)
	}
	return &item, nil
}

// AdjustQuantity adds delta (which may be negative) to the stock level. The result may not
// drop below zero.
func (s *InventoryService) AdjustQuantity(ctx context.Context, id string, delta int, user, reason string) (*models.InventoryItem, error) {
	if delta == 0 {
		return nil, apperr.Validation("delta must not be zero")
	}
	item, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := item.Quantity + delta
	if next < 0 {
		return nil, apperr.Validation("Insufficient quantity: %d in stock, cannot remove %d", item.Quantity, -delta)
	}
	change := strings.TrimSpace(reason)
	if change == "" {
		if delta > 0 {
			change = fmt.Sprintf("Added %d units", delta)
		} else {
			change = fmt.Sprintf("Removed %d units", -delta)
		}
	}
	item.Quantity = next
	item.History = append(item.History, models.InventoryHistory{
		Date:          s.now().UTC(),
		Change:        change,
		User:          userOrSystem(user),
		QuantityDelta: delta,
	})
	if err := s.res.repo.Replace(ctx, item); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

// LowStock returns items at or below their reorder level.
func (s *InventoryService) LowStock(ctx context.Context, f query.Filter) ([]models.InventoryItem, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]models.InventoryItem, 0)
	for _, it := range items {
		if it.LowStock() {
			out = append(out, it)
		}
	}
	return out, nil
}

// All returns the filtered listing without pagination, used by the xlsx export.
func (s *InventoryService) All(ctx context.Context, f query.Filter) ([]models.InventoryItem, error) {
	return s.res.all(ctx, f)
}

func (s *InventoryService) Stats(ctx context.Context) (stats.Inventory, error) {
	items, err := s.res.all(ctx, query.Filter{})
	if err != nil {
		return stats.Inventory{}, err
	}
	return stats.InventoryStats(items), nil
}

func userOrSystem(user string) string {
	if u := strings.TrimSpace(user); u != "" {
		return u
	}
	return "system"
}
