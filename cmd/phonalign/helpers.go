package main

import (
	"strings"
	"time"
)

const summaryElapsedPrecision = 10 * time.Millisecond

// truncate shortens a string for table display, appending an ellipsis when
// content was cut.
func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if max <= 3 || len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

// shortHash returns the leading portion of a voice key hash for display.
func shortHash(hash string) string {
	if len(hash) <= 12 {
		return hash
	}
	return hash[:12]
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}
