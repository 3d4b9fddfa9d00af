// server/internal/export/inventory.go
package export

import (
	"bytes"
	"fmt"

	"workforce-ops-api-server/internal/models"

	"github.com/xuri/excelize/v2"
)

const InventorySheet = "Inventory"

// XLSXContentType is the MIME type of the generated workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var inventoryHeader = []interface{}{
	"SKU", "Name", "Department", "Category", "Site", "Manager",
	"Quantity", "Reorder Level", "Price", "Cost Price", "Stock Value", "Supplier", "Low Stock",
}

// InventoryXLSX renders items as a single-sheet workbook, one row per item.
func InventoryXLSX(items []models.InventoryItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	first := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(first, InventorySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(InventorySheet, "A1", &inventoryHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(InventorySheet, 1, 1, style)
	}

	for i, it := range items {
		lowStock := "no"
		if it.LowStock() {
			lowStock = "yes"
		}
		row := []interface{}{
			it.SKU, it.Name, string(it.Department), it.Category, it.Site, it.Manager,
			it.Quantity, it.ReorderLevel, it.Price, it.CostPrice, float64(it.Quantity) * it.Price, it.Supplier, lowStock,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(InventorySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(InventorySheet, "A", "M", 16)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
