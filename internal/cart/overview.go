package cart

import (
	"encoding/json"

	"github.com/angelmondragon/leadquote-backend/internal/discounts"
	"github.com/angelmondragon/leadquote-backend/internal/resolver"
	"github.com/angelmondragon/leadquote-backend/internal/stock"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// LineOverview is a cart line with its resolved display state.
type LineOverview struct {
	types.CartLine
	Subtotal decimal.Decimal         `json:"subtotal"`
	View     resolver.ItemView       `json:"view"`
	Pricing  *types.PricingResult    `json:"pricing,omitempty"`
	Stock    *types.StockByWarehouse `json:"stock,omitempty"`
}

// UnmarshalJSON decodes the flattened line fields and the display state separately,
// since the embedded line has its own decoder.
func (o *LineOverview) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &o.CartLine); err != nil {
		return err
	}
	var rest struct {
		Subtotal decimal.Decimal         `json:"subtotal"`
		View     resolver.ItemView       `json:"view"`
		Pricing  *types.PricingResult    `json:"pricing"`
		Stock    *types.StockByWarehouse `json:"stock"`
	}
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	o.Subtotal = rest.Subtotal
	o.View = rest.View
	o.Pricing = rest.Pricing
	o.Stock = rest.Stock
	return nil
}

// Overview is the full cart as presented to sellers.
type Overview struct {
	Lead        types.Lead       `json:"lead"`
	Lines       []LineOverview   `json:"lines"`
	Totals      types.CartTotals `json:"totals"`
	StockIssues []stock.Issue    `json:"stock_issues"`
	Conversion  stock.GateResult `json:"conversion"`
}

// Overview resolves every line against idx and attaches pricing results and stock.
func (c *Container) Overview(idx *discounts.Index) Overview {
	lead, lines := c.Snapshot()
	results := c.PricingResults()
	issues := c.StockIssues()

	out := Overview{
		Lead:        lead,
		Lines:       make([]LineOverview, 0, len(lines)),
		Totals:      c.Totals(),
		StockIssues: issues,
		Conversion:  stock.Gate(issues),
	}
	for _, line := range lines {
		lo := LineOverview{
			CartLine: line,
			Subtotal: line.Subtotal(),
			View:     resolver.Resolve(line, idx),
		}
		if r, ok := results[line.ID]; ok {
			lo.Pricing = &r
		}
		if s, ok := c.StockFor(line.ProductID); ok {
			lo.Stock = &s
		}
		out.Lines = append(out.Lines, lo)
	}
	return out
}
