package instance

import (
	"os"
	"strings"
)

const fallbackID = "leadquote-0"

// GetID identifies this process among API replicas. It prefers LEADQUOTE_INSTANCE_ID,
// then the platform dyno name, then the hostname.
func GetID() string {
	for _, key := range []string{"LEADQUOTE_INSTANCE_ID", "DYNO"} {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
