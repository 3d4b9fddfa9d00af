package services

import (
	"context"
	"testing"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/logger"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryService() *InventoryService {
	svc := NewInventoryService(store.NewMemory[models.InventoryItem]("sku"), logger.Discard())
	svc.now = clock
	return svc
}

func gloves() InventoryInput {
	return InventoryInput{SKU: "glv-01", Name: "Nitrile gloves", Department: "kitchen", Quantity: 10, ReorderLevel: 5, Price: 2.5}
}

func TestInventoryCreateNormalizesAndRecordsHistory(t *testing.T) {
	svc := newInventoryService()
	item, err := svc.Create(context.Background(), gloves(), "")
	require.NoError(t, err)
	assert.Equal(t, "GLV-01", item.SKU)
	require.Len(t, item.History, 1)
	assert.Equal(t, "Item created", item.History[0].Change)
	assert.Equal(t, "system", item.History[0].User)
	assert.Equal(t, 10, item.History[0].QuantityDelta)
}

func TestInventoryDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService()
	_, err := svc.Create(ctx, gloves(), "admin")
	require.NoError(t, err)

	in := gloves()
	in.SKU = "GLV-01"
	_, err = svc.Create(ctx, in, "admin")
	requireKind(t, err, apperr.KindDuplicate)
	assert.Equal(t, "Item with this SKU already exists", apperr.MessageOf(err))
}

func TestInventoryValidation(t *testing.T) {
	svc := newInventoryService()
	cases := map[string]func(*InventoryInput){
		"missing name":       func(in *InventoryInput) { in.Name = "" },
		"unknown department": func(in *InventoryInput) { in.Department = "garden" },
		"negative quantity":  func(in *InventoryInput) { in.Quantity = -1 },
		"negative price":     func(in *InventoryInput) { in.Price = -0.01 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := gloves()
			mutate(&in)
			_, err := svc.Create(context.Background(), in, "")
			requireKind(t, err, apperr.KindValidation)
		})
	}
}

func TestInventoryAdjustQuantityNeverBelowZero(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService()
	item, err := svc.Create(ctx, gloves(), "")
	require.NoError(t, err)
	id := item.ID.Hex()

	item, err = svc.AdjustQuantity(ctx, id, -4, "minh", "")
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, "Removed 4 units", item.History[len(item.History)-1].Change)

	_, err = svc.AdjustQuantity(ctx, id, -7, "minh", "")
	requireKind(t, err, apperr.KindValidation)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	_, err = svc.AdjustQuantity(ctx, id, 0, "minh", "")
	requireKind(t, err, apperr.KindValidation)
}

func TestInventoryUpdateRecordsQuantityChange(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService()
	item, err := svc.Create(ctx, gloves(), "")
	require.NoError(t, err)

	item, err = svc.Update(ctx, item.ID.Hex(), []byte(`{"quantity":3,"supplier":"ACME"}`), "lan")
	require.NoError(t, err)
	assert.Equal(t, "ACME", item.Supplier)
	assert.Equal(t, "Nitrile gloves", item.Name)
	require.Len(t, item.History, 2)
	assert.Equal(t, "Quantity updated from 10 to 3", item.History[1].Change)
	assert.Equal(t, -7, item.History[1].QuantityDelta)

	item, err = svc.Update(ctx, item.ID.Hex(), []byte(`{"description":"size M"}`), "lan")
	require.NoError(t, err)
	assert.Len(t, item.History, 2)
}

func TestInventoryLowStockAndStats(t *testing.T) {
	ctx := context.Background()
	svc := newInventoryService()
	low := gloves()
	low.Quantity = 5
	_, err := svc.Create(ctx, low, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, InventoryInput{SKU: "MOP-1", Name: "Mop", Department: "housekeeping", Quantity: 20, ReorderLevel: 2, Price: 10}, "")
	require.NoError(t, err)

	items, err := svc.LowStock(ctx, query.Filter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "GLV-01", items[0].SKU)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalItems)
	assert.Equal(t, 25, st.TotalQuantity)
	assert.Equal(t, 212.5, st.TotalValue)
	assert.Equal(t, 1, st.LowStockItems)
}
