package cart

import (
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/angelmondragon/leadquote-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// InlineField is a cart line field editable directly in the cart table.
type InlineField string

const (
	InlineFieldQuantity InlineField = "quantity"
	InlineFieldPrice    InlineField = "price"
	InlineFieldTimes    InlineField = "times"
)

// ParseInlineField converts raw input into an InlineField.
func ParseInlineField(value string) (InlineField, error) {
	switch InlineField(strings.ToLower(strings.TrimSpace(value))) {
	case InlineFieldQuantity:
		return InlineFieldQuantity, nil
	case InlineFieldPrice:
		return InlineFieldPrice, nil
	case InlineFieldTimes:
		return InlineFieldTimes, nil
	}
	return "", pkgerrors.Newf(pkgerrors.CodeValidation, "field %q cannot be edited inline", value)
}

func validatePayload(p types.ItemPayload) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.ProductID) == "" {
		fields["product_id"] = "select a product"
	}
	if p.Quantity < 1 {
		fields["quantity"] = "must be at least 1"
	}
	if p.Price.IsNegative() {
		fields["price"] = "must not be negative"
	}
	if p.ConsumerPrice.Valid && p.ConsumerPrice.Decimal.IsNegative() {
		fields["consumer_price"] = "must not be negative"
	}
	if p.Times.Valid && p.Times.Value < 0 {
		fields["times"] = "must not be negative"
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart item").WithDetails(fields)
	}
	return nil
}

// applyInline parses raw for field and writes it into payload.
func applyInline(payload *types.ItemPayload, field InlineField, raw string) error {
	value := strings.TrimSpace(raw)
	switch field {
	case InlineFieldQuantity:
		qty, err := strconv.Atoi(value)
		if err != nil || qty < 1 {
			return inlineError(field, "must be a whole number of at least 1")
		}
		payload.Quantity = qty
	case InlineFieldPrice:
		price, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
		if err != nil || price.IsNegative() {
			return inlineError(field, "must be a non-negative amount")
		}
		payload.Price = price
	case InlineFieldTimes:
		times, err := strconv.Atoi(value)
		if err != nil || times < 0 {
			return inlineError(field, "must be a whole number")
		}
		payload.Times = types.NewInstallments(times)
	default:
		return inlineError(field, "is not editable")
	}
	return nil
}

func inlineError(field InlineField, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid inline value").
		WithDetails(map[string]string{string(field): msg})
}
