package daily

import (
	"time"

	"github.com/pollar/powiazania/internal/puzzle"
)

// DateKey returns the local calendar day of t as YYYY-MM-DD.
// Puzzles roll over at local midnight, not UTC.
func DateKey(t time.Time) string {
	return t.Local().Format(puzzle.DateLayout)
}

// Clock returns the current time. Swapped out in tests.
type Clock func() time.Time

// Today returns the day key for c, or for time.Now when c is nil.
func (c Clock) Today() string {
	if c == nil {
		return DateKey(time.Now())
	}
	return DateKey(c())
}
