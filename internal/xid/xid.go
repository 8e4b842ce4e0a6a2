package xid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a random UUID string. Sale, item and movement ids all use it so
// that Short can derive the human-readable reference from any of them.
func New() string {
	return uuid.NewString()
}

// Short returns the first 8 hex characters of id, uppercased.
func Short(id string) string {
	compact := strings.ReplaceAll(id, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return strings.ToUpper(compact)
}

// Valid reports whether id parses as a UUID.
func Valid(id string) bool {
	return uuid.Validate(id) == nil
}
