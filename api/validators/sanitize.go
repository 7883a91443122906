package validators

import (
	"strings"
	"unicode"

	pkgerrors "github.com/angelmondragon/leadquote-backend/pkg/errors"
)

// MaxIDLength bounds lead, item and seller identifiers.
const MaxIDLength = 64

// ParseID validates an identifier taken from a path segment or header. Surrounding
// space is trimmed; empty, oversized or non-printable values are rejected, never cut.
func ParseID(field, raw string) (string, error) {
	id := strings.TrimSpace(raw)
	switch {
	case id == "":
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", field)
	case len(id) > MaxIDLength:
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be at most %d characters", field, MaxIDLength)
	case strings.IndexFunc(id, invalidIDRune) >= 0:
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s contains invalid characters", field)
	}
	return id, nil
}

// OptionalID is ParseID for values that may be absent; malformed input yields "".
func OptionalID(raw string) string {
	id, err := ParseID("id", raw)
	if err != nil {
		return ""
	}
	return id
}

func invalidIDRune(r rune) bool {
	return r == '/' || r == '\\' || unicode.IsSpace(r) || !unicode.IsPrint(r)
}
