package utils

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// LetterDateLayout matches the en-US short date shown on letters, e.g. "Feb 16, 2025"
const LetterDateLayout = "Jan 2, 2006"

// FormatLetterDate formats t for display on a letter
func FormatLetterDate(t time.Time) string {
	return t.Format(LetterDateLayout)
}

// TimestampID returns a millisecond timestamp token for use as a record id
func TimestampID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ContainsFold reports whether substr is within s, ignoring case
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
