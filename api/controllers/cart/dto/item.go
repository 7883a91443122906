package cartdto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/leadquote-backend/pkg/types"
)

// ItemRequest is the body used to add a line or fully replace one.
type ItemRequest struct {
	ProductID     string              `json:"product_id" validate:"required,max=64"`
	Quantity      int                 `json:"quantity"`
	Price         decimal.Decimal     `json:"price"`
	ConsumerPrice decimal.NullDecimal `json:"consumer_price"`
	Times         types.Installments  `json:"times"`
	IPI           decimal.NullDecimal `json:"ipi"`
	ST            decimal.NullDecimal `json:"st"`
	TTD           string              `json:"ttd" validate:"max=64"`
}

// InlineEditRequest edits a single numeric field of a line.
type InlineEditRequest struct {
	Field string      `json:"field" validate:"required,oneof=quantity price times"`
	Value InlineValue `json:"value" validate:"required"`
}

// InlineValue accepts the raw cell content as either a JSON string or number.
type InlineValue string

func (v *InlineValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = InlineValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("value must be a string or number: %w", err)
	}
	*v = InlineValue(n.String())
	return nil
}
