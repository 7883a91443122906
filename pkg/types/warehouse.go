package types

import "encoding/json"

// WarehouseStock is one warehouse's availability for a product.
type WarehouseStock struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Available int    `json:"available"`
}

// UnmarshalJSON accepts numeric warehouse ids.
func (w *WarehouseStock) UnmarshalJSON(data []byte) error {
	type plain WarehouseStock
	aux := struct {
		*plain
		ID LooseString `json:"id"`
	}{plain: (*plain)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.ID = aux.ID.String()
	return nil
}

// StockByWarehouse is the product service stock breakdown.
type StockByWarehouse struct {
	Warehouses     []WarehouseStock `json:"warehouses"`
	TotalAvailable int              `json:"totalAvailable"`
}

// Find returns the warehouse entry with the given id.
func (s StockByWarehouse) Find(warehouseID string) (WarehouseStock, bool) {
	for _, w := range s.Warehouses {
		if w.ID == warehouseID {
			return w, true
		}
	}
	return WarehouseStock{}, false
}
