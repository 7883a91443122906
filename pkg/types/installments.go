package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultInstallments is used when a new cart line does not specify installments.
const DefaultInstallments = 5

// Installments is the cart line "times" field. Upstream sends it as a number, a
// numeric string or garbage; Valid is false unless a whole number was received.
type Installments struct {
	Value int
	Valid bool
}

// NewInstallments builds a valid installments value.
func NewInstallments(v int) Installments {
	return Installments{Value: v, Valid: v >= 0}
}

// OrDefault returns the value when valid, otherwise fallback.
func (i Installments) OrDefault(fallback int) int {
	if !i.Valid {
		return fallback
	}
	return i.Value
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (i *Installments) UnmarshalJSON(data []byte) error {
	*i = Installments{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil
	}
	*i = Installments{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes the number, or null when invalid.
func (i Installments) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(i.Value)), nil
}
