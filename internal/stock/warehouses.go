package stock

import (
	"sort"
	"strings"
)

// WarehouseMap translates a lead's emitting unit into the warehouse used for stock checks.
type WarehouseMap map[string]string

// DefaultWarehouseMap is the five-unit production layout.
func DefaultWarehouseMap() WarehouseMap {
	return WarehouseMap{
		"1": "109",
		"2": "209",
		"3": "309",
		"4": "409",
		"5": "509",
	}
}

// NewWarehouseMap copies raw, trimming keys and values and dropping blank entries.
func NewWarehouseMap(raw map[string]string) WarehouseMap {
	out := make(WarehouseMap, len(raw))
	for unit, warehouse := range raw {
		unit, warehouse = strings.TrimSpace(unit), strings.TrimSpace(warehouse)
		if unit == "" || warehouse == "" {
			continue
		}
		out[unit] = warehouse
	}
	return out
}

// Lookup returns the warehouse for unit. Unknown units report false.
func (w WarehouseMap) Lookup(unit string) (string, bool) {
	warehouse, ok := w[strings.TrimSpace(unit)]
	return warehouse, ok
}

// Units lists the configured units in sorted order.
func (w WarehouseMap) Units() []string {
	units := make([]string, 0, len(w))
	for unit := range w {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}
