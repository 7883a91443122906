package stock

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

// Issue is a cart line whose quantity exceeds the lead warehouse availability.
type Issue struct {
	ItemID        string `json:"item_id"`
	ProductID     string `json:"product_id"`
	Model         string `json:"model"`
	RequestedQty  int    `json:"requested_qty"`
	AvailableQty  int    `json:"available_qty"`
	WarehouseID   string `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
}

// Reconcile recomputes the full issue list. An unknown unit yields no issues, and a line
// whose product has no entry for the warehouse is skipped rather than treated as zero stock.
func Reconcile(lines []types.CartLine, stock map[string]types.StockByWarehouse, unit string, warehouses WarehouseMap) []Issue {
	issues := []Issue{}
	warehouseID, ok := warehouses.Lookup(unit)
	if !ok {
		return issues
	}

	for _, line := range lines {
		byWarehouse, ok := stock[line.ProductID]
		if !ok {
			continue
		}
		entry, ok := byWarehouse.Find(warehouseID)
		if !ok {
			continue
		}
		if line.Quantity <= entry.Available {
			continue
		}
		issues = append(issues, Issue{
			ItemID:        line.ID,
			ProductID:     line.ProductID,
			Model:         line.Model(),
			RequestedQty:  line.Quantity,
			AvailableQty:  entry.Available,
			WarehouseID:   warehouseID,
			WarehouseName: entry.Name,
		})
	}
	return issues
}

// GateResult decides whether the lead may be converted into an order.
type GateResult struct {
	Allowed bool     `json:"allowed"`
	Models  []string `json:"models"`
	Tooltip string   `json:"tooltip,omitempty"`
}

// Gate blocks conversion while any issue exists and lists the offending models.
func Gate(issues []Issue) GateResult {
	if len(issues) == 0 {
		return GateResult{Allowed: true, Models: []string{}}
	}
	models := make([]string, 0, len(issues))
	seen := map[string]struct{}{}
	for _, issue := range issues {
		name := issue.Model
		if name == "" {
			name = issue.ProductID
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		models = append(models, name)
	}
	return GateResult{
		Allowed: false,
		Models:  models,
		Tooltip: fmt.Sprintf("Insufficient stock for: %s", strings.Join(models, ", ")),
	}
}
