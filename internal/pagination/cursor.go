// Package pagination implements the cursor conventions shared by the post
// feed, the root-comment feed and reply expansion: opaque string cursors
// that encode the last-seen sort key, overfetch-by-one windows, and the
// items/next_cursor/has_more response shape.
package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the client sends no size.
	DefaultPageSize = 10
	// MaxPageSize caps the window; out-of-range sizes are clamped, not
	// rejected.
	MaxPageSize = 50
)

// Page is the uniform paginated response shape.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

// ClampSize normalizes a requested page size into [1, MaxPageSize].
func ClampSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// ParseIDCursor decodes a single-key cursor (a decimal id). A missing or
// malformed cursor resets to the first page; it is never an error the
// caller sees.
func ParseIDCursor(cursor string) (uint, bool) {
	if cursor == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(cursor, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// FormatIDCursor encodes a single-key cursor.
func FormatIDCursor(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseHotCursor decodes the composite "<likeCount>-<id>" cursor used by
// the hot-first root-comment feed. Same degradation rule as ParseIDCursor:
// anything that does not split into two decimal fields means "no cursor".
func ParseHotCursor(cursor string) (likeCount int, id uint, ok bool) {
	if cursor == "" {
		return 0, 0, false
	}
	parts := strings.Split(cursor, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	likes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	rawID, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return likes, uint(rawID), true
}

// FormatHotCursor encodes the composite cursor.
func FormatHotCursor(likeCount int, id uint) string {
	return fmt.Sprintf("%d-%d", likeCount, id)
}

// BuildPage applies the shared overfetch-by-one convention: rows holds up
// to size+1 entries ordered by the pagination key; the extra row only
// signals has_more and is dropped. The next cursor is re-emitted from the
// last returned row even on the final page, so clients must stop on
// has_more rather than on cursor absence.
func BuildPage[T any](rows []T, size int, cursorOf func(T) string) Page[T] {
	page := Page[T]{Items: rows}
	if len(rows) > size {
		page.HasMore = true
		page.Items = rows[:size]
	}
	if len(page.Items) > 0 {
		page.NextCursor = cursorOf(page.Items[len(page.Items)-1])
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page
}
