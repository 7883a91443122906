package pricing

import (
	"bytes"
	"encoding/json"
	"strings"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// TotalDiscountKey is the explanation value holding the applied discount percentage.
const TotalDiscountKey = "Total de Descontos Aplicados"

// Variant identifies which known response nesting was decoded.
type Variant string

const (
	VariantDoubleNested Variant = "data.result.result"
	VariantSingleNested Variant = "data.result"
)

// PriceOrigin names the field the preferred price was read from.
type PriceOrigin string

const (
	PriceOriginExecution PriceOrigin = "execution.actions[0].new_price"
	PriceOriginDecision  PriceOrigin = "decision.final_price"
	PriceOriginNone      PriceOrigin = "none"
)

type Decision struct {
	FinalPrice      decimal.NullDecimal `json:"final_price"`
	DiscountAllowed decimal.NullDecimal `json:"discount_allowed"`
	DiscountFromPT  decimal.NullDecimal `json:"discount_from_pt"`
	AppliedMode     string              `json:"applied_mode"`
	TierCode        string              `json:"tier_code"`
	Explanation     json.RawMessage     `json:"explanation"`
	Reason          string              `json:"reason"`
	DecisionType    string              `json:"decision_type"`
}

type Action struct {
	NewPrice decimal.NullDecimal `json:"new_price"`
}

type Execution struct {
	Actions []Action `json:"actions"`
}

// DecodedDecision is the typed result of a pricing-decision response.
type DecodedDecision struct {
	Variant   Variant
	Decision  Decision
	Execution Execution
}

type decisionPayload struct {
	Decision  *Decision  `json:"decision"`
	Execution *Execution `json:"execution"`
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// DecodeDecision validates data against the two known response variants. The
// doubly-nested form is tried first. Anything else is a dependency error.
func DecodeDecision(data json.RawMessage) (DecodedDecision, error) {
	var outer struct {
		Result json.RawMessage `json:"result"`
	}
	if !isObject(data) {
		return DecodedDecision{}, pkgerrors.New(pkgerrors.CodeDependency, "pricing response data is not an object")
	}
	if err := json.Unmarshal(data, &outer); err != nil {
		return DecodedDecision{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode pricing response data")
	}
	if !isObject(outer.Result) {
		return DecodedDecision{}, pkgerrors.New(pkgerrors.CodeDependency, "pricing response missing data.result")
	}

	var probe struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(outer.Result, &probe); err != nil {
		return DecodedDecision{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode data.result")
	}

	body, variant := outer.Result, VariantSingleNested
	if isObject(probe.Result) {
		body, variant = probe.Result, VariantDoubleNested
	}

	var payload decisionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return DecodedDecision{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+string(variant))
	}
	if payload.Decision == nil {
		return DecodedDecision{}, pkgerrors.Newf(pkgerrors.CodeDependency, "pricing response missing %s.decision", variant)
	}

	out := DecodedDecision{Variant: variant, Decision: *payload.Decision}
	if payload.Execution != nil {
		out.Execution = *payload.Execution
	}
	return out, nil
}

// PreferredPrice returns execution.actions[0].new_price, falling back to
// decision.final_price. ok is false when neither is present.
func PreferredPrice(d DecodedDecision) (decimal.Decimal, PriceOrigin, bool) {
	if len(d.Execution.Actions) > 0 && d.Execution.Actions[0].NewPrice.Valid {
		return d.Execution.Actions[0].NewPrice.Decimal, PriceOriginExecution, true
	}
	if d.Decision.FinalPrice.Valid {
		return d.Decision.FinalPrice.Decimal, PriceOriginDecision, true
	}
	return decimal.Zero, PriceOriginNone, false
}

// RoundUp leaves whole amounts untouched and raises fractional amounts to the next unit.
func RoundUp(price decimal.Decimal) decimal.Decimal {
	if price.Equal(price.Truncate(0)) {
		return price
	}
	return price.Ceil()
}

var hundred = decimal.NewFromInt(100)

// TotalDiscount extracts the applied discount as a fraction, trying the explanation
// step value, then discount_allowed, then discount_from_pt / 100.
func TotalDiscount(d Decision) (decimal.Decimal, bool) {
	if v, ok := explanationDiscount(d.Explanation); ok {
		return v, true
	}
	if d.DiscountAllowed.Valid {
		return d.DiscountAllowed.Decimal, true
	}
	if d.DiscountFromPT.Valid {
		return d.DiscountFromPT.Decimal.Div(hundred), true
	}
	return decimal.Zero, false
}

func explanationDiscount(raw json.RawMessage) (decimal.Decimal, bool) {
	if !isObject(raw) {
		return decimal.Zero, false
	}
	var explanation struct {
		Steps []struct {
			Values map[string]json.RawMessage `json:"values"`
		} `json:"steps"`
	}
	if err := json.Unmarshal(raw, &explanation); err != nil {
		return decimal.Zero, false
	}
	for _, step := range explanation.Steps {
		value, ok := step.Values[TotalDiscountKey]
		if !ok {
			continue
		}
		if pct, ok := parsePercent(value); ok {
			return pct, true
		}
	}
	return decimal.Zero, false
}

// parsePercent turns "12.50%", "12,50 %" or 12.5 into 0.125.
func parsePercent(raw json.RawMessage) (decimal.Decimal, bool) {
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return decimal.Zero, false
		}
		text = num.String()
	}
	text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	text = strings.ReplaceAll(text, ",", ".")
	if text == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return v.Div(hundred), true
}
