package ingest

import (
	"strconv"
	"strings"
)

const (
	minYear     = 1800
	maxYear     = 2100
	defaultYear = 1900
)

// ExtractYear reads the year from a "DD.MM.YYYY"-style date, trying the
// primary field first, then the secondary one, and defaulting to 1900.
func ExtractYear(primary, secondary string) int {
	if y, ok := parseYear(primary); ok {
		return y
	}
	if y, ok := parseYear(secondary); ok {
		return y
	}
	return defaultYear
}

// parseYear takes the segment after the last period as the year
func parseYear(date string) (int, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return 0, false
	}
	parts := strings.Split(date, ".")
	y, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}
