package utils

import (
	"strconv"
)

// Lenient query-parameter parsers. Zero values stand in for missing or
// malformed input; callers validate ranges themselves.

func ParseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

func ParseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}

func ParseBool(s string) bool {
	if s == "" {
		return false
	}
	val, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return val
}
