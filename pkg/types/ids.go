package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LooseString is an identifier the sales service may send as a JSON string or number.
// Numbers keep their literal text, so 109 decodes to "109".
type LooseString string

// UnmarshalJSON accepts strings, numbers and null.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	*s = ""
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = LooseString(v)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("identifier must be a string or number, got %s", trimmed)
	}
	*s = LooseString(n.String())
	return nil
}

func (s LooseString) String() string { return string(s) }
