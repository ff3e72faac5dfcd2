package model

import (
	"strings"
	"time"
)

// ParseGameTime parses a schedule timestamp as the portal renders it.
// Returns the zero time if no known format matches; callers drop such rows.
// Supported formats: "02.01.2006 15:04", "02.01.2006", "2006-01-02 15:04".
func ParseGameTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse("02.01.2006 15:04", s)
	if err == nil {
		return t
	}

	t, err = time.Parse("02.01.2006", s)
	if err == nil {
		return t
	}

	// Export cells occasionally come back ISO-formatted.
	t, err = time.Parse("2006-01-02 15:04", s)
	if err == nil {
		return t
	}

	return time.Time{}
}

// FormatGameTime renders a tip-off time back in the portal's notation.
func FormatGameTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}
