package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseUintParam parses a route/form parameter into a uint id.
func ParseUintParam(s string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// ParseOptionalUint parses an optional form field; empty means nil, and a
// malformed value also degrades to nil rather than failing the request.
func ParseOptionalUint(s string) *uint {
	if s == "" {
		return nil
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(val)
	return &id
}

// ParseOptionalInt parses an optional numeric form field into *int.
func ParseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &val
}
