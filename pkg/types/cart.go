package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the catalog snapshot embedded in a cart line.
type Product struct {
	ID    string              `json:"id"`
	SKU   string              `json:"sku"`
	Model string              `json:"model"`
	Brand string              `json:"brand"`
	Price decimal.NullDecimal `json:"price"`
}

// UnmarshalJSON accepts numeric product ids and skus.
func (p *Product) UnmarshalJSON(data []byte) error {
	type plain Product
	aux := struct {
		*plain
		ID  LooseString `json:"id"`
		SKU LooseString `json:"sku"`
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = aux.ID.String()
	p.SKU = aux.SKU.String()
	return nil
}

// CartLine is one item of a lead's cart as returned by the cart service.
type CartLine struct {
	ID            string              `json:"id"`
	ProductID     string              `json:"product_id"`
	Product       *Product            `json:"product,omitempty"`
	Quantity      int                 `json:"quantity"`
	UnitPrice     decimal.Decimal     `json:"price"`
	ConsumerPrice decimal.NullDecimal `json:"consumer_price"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	Times         Installments        `json:"times"`
	IPI           decimal.NullDecimal `json:"ipi"`
	ST            decimal.NullDecimal `json:"st"`
	TTD           string              `json:"ttd,omitempty"`
}

// Subtotal is always derived from quantity and unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UnmarshalJSON accepts numeric line and product ids.
func (l *CartLine) UnmarshalJSON(data []byte) error {
	type plain CartLine
	aux := struct {
		*plain
		ID        LooseString `json:"id"`
		ProductID LooseString `json:"product_id"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.ID = aux.ID.String()
	l.ProductID = aux.ProductID.String()
	return nil
}

// Model returns the product model string, or "" when the product is unknown.
func (l CartLine) Model() string {
	if l.Product == nil {
		return ""
	}
	return l.Product.Model
}

// SKU returns the pricing identifier for the line, preferring the catalog sku.
func (l CartLine) SKU() string {
	if l.Product != nil && l.Product.SKU != "" {
		return l.Product.SKU
	}
	return l.ProductID
}

// ItemPayload is the body sent to add or update a cart line.
type ItemPayload struct {
	ProductID     string              `json:"product_id"`
	Quantity      int                 `json:"quantity"`
	Price         decimal.Decimal     `json:"price"`
	ConsumerPrice decimal.NullDecimal `json:"consumer_price"`
	Times         Installments        `json:"times"`
	IPI           decimal.NullDecimal `json:"ipi"`
	ST            decimal.NullDecimal `json:"st"`
	TTD           string              `json:"ttd,omitempty"`
}

// PayloadFromLine copies the persisted fields of a line into an update payload.
func PayloadFromLine(l CartLine) ItemPayload {
	return ItemPayload{
		ProductID:     l.ProductID,
		Quantity:      l.Quantity,
		Price:         l.UnitPrice,
		ConsumerPrice: l.ConsumerPrice,
		Times:         l.Times,
		IPI:           l.IPI,
		ST:            l.ST,
		TTD:           l.TTD,
	}
}

// CartTotals mirrors the cart service totals calculation.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TotalIPI   decimal.Decimal `json:"total_ipi"`
	TotalST    decimal.Decimal `json:"total_st"`
	Freight    decimal.Decimal `json:"freight"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Lead is a draft sales order.
type Lead struct {
	ID           string `json:"id"`
	CustomerID   string `json:"customer_id"`
	SellerID     string `json:"seller_id,omitempty"`
	EmittingUnit string `json:"emitting_unit"`
	Status       string `json:"status,omitempty"`
}

// UnmarshalJSON accepts numeric ids and emitting units.
func (l *Lead) UnmarshalJSON(data []byte) error {
	type plain Lead
	aux := struct {
		*plain
		ID           LooseString `json:"id"`
		CustomerID   LooseString `json:"customer_id"`
		SellerID     LooseString `json:"seller_id"`
		EmittingUnit LooseString `json:"emitting_unit"`
	}{plain: (*plain)(l)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	l.ID = aux.ID.String()
	l.CustomerID = aux.CustomerID.String()
	l.SellerID = aux.SellerID.String()
	l.EmittingUnit = aux.EmittingUnit.String()
	return nil
}

// ConversionResult is returned when a lead becomes a firm order.
type ConversionResult struct {
	LeadID  string `json:"lead_id"`
	OrderID string `json:"order_id"`
}

// UnmarshalJSON accepts numeric lead and order ids.
func (r *ConversionResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		LeadID  LooseString `json:"lead_id"`
		OrderID LooseString `json:"order_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.LeadID = aux.LeadID.String()
	r.OrderID = aux.OrderID.String()
	return nil
}
