package core

import (
	"strings"

	"github.com/google/uuid"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// CleanStringPtr applies CleanString to a non-nil pointer in place.
func CleanStringPtr(s *string) {
	if s != nil {
		*s = CleanString(*s)
	}
}

// NewID returns a new random resource ID.
func NewID() string {
	return uuid.NewString()
}

// NewPublicID returns a short URL-safe ID used to share resources publicly.
func NewPublicID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
