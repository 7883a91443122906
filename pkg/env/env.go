package env

import (
	"os"
	"strings"
)

const prefix = "LEADQUOTE_"

// Get returns the value of LEADQUOTE_<key>, then <key>, or fallback when neither is set.
// It serves settings read before config.Load, such as the log format.
func Get(key, fallback string) string {
	for _, name := range []string{prefix + key, key} {
		if val := strings.TrimSpace(os.Getenv(name)); val != "" {
			return val
		}
	}
	return fallback
}
