// internal/sequence/sequence.go
//
// Core data type for cascade: an ordered list of floating-point values.
// Everything here is pure and in-memory. Reading values from the user
// lives in internal/intake, presentation lives in internal/tui.

package sequence

import (
	"strconv"
	"strings"
)

// MaxLen is the hard cap on how many values a single sequence may hold.
// Requests for more are truncated, never rejected.
const MaxLen = 10

// Sequence is an ordered list of floating-point values.
type Sequence []float64

// Concat returns a new sequence holding a's elements followed by b's.
// Neither input is modified and the result shares no storage with them.
func Concat(a, b Sequence) Sequence {
	merged := make(Sequence, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return merged
}

// SortDescending orders s in place from highest to lowest using a
// selection sort: each pass scans the unsorted remainder for its maximum
// and swaps it into position. The comparison is strict, so equal values
// keep their relative order and the first occurrence of a repeated
// maximum wins. Sequences of length zero or one are left untouched.
func SortDescending(s Sequence) {
	for i := 0; i < len(s)-1; i++ {
		maxIndex := i
		for j := i + 1; j < len(s); j++ {
			if s[j] > s[maxIndex] {
				maxIndex = j
			}
		}
		s[i], s[maxIndex] = s[maxIndex], s[i]
	}
}

// String renders the sequence as space-separated values. Each value uses
// the shortest decimal form that round-trips back to the same float64,
// so whole numbers print without a decimal point.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
