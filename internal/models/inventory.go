// server/internal/models/inventory.go
package models

import "time"

// InventoryHistory là một dòng trong nhật ký thay đổi của mặt hàng.
type InventoryHistory struct {
	Date          time.Time `bson:"date" json:"date"`
	Change        string    `bson:"change" json:"change"`
	User          string    `bson:"user" json:"user"`
	QuantityDelta int       `bson:"quantityDelta" json:"quantityDelta"`
}

type InventoryItem struct {
	Base         `bson:",inline"`
	SKU          string             `bson:"sku" json:"sku"` // unique, uppercase
	Name         string             `bson:"name" json:"name"`
	Department   Department         `bson:"department" json:"department"`
	Category     string             `bson:"category" json:"category"`
	Site         string             `bson:"site" json:"site"`
	Manager      string             `bson:"manager" json:"manager"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	Price        float64            `bson:"price" json:"price"`
	CostPrice    float64            `bson:"costPrice" json:"costPrice"`
	Supplier     string             `bson:"supplier" json:"supplier"`
	ReorderLevel int                `bson:"reorderLevel" json:"reorderLevel"`
	Description  string             `bson:"description" json:"description"`
	History      []InventoryHistory `bson:"history" json:"history"`
}

// LowStock reports whether the item is at or below its reorder level.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
