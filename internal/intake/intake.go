// internal/intake/intake.go
//
// Parsing and validation for user-typed input. The rules follow the two
// collection prompts: sizes must be positive whole numbers, values must be
// finite floats. Parsing never panics and never aborts a session; a bad
// token is reported to the caller, which re-prompts.

package intake

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kingrea/cascade/internal/sequence"
)

// ErrNotPositiveInt reports a size entry that is not a positive whole number.
var ErrNotPositiveInt = errors.New("intake: not a positive whole number")

// ErrNotANumber reports a value entry that does not parse as a finite float.
var ErrNotANumber = errors.New("intake: not a valid number")

// ParseSize reads a requested sequence size from one line of input. The
// line must carry exactly one token and that token must parse as a whole
// number greater than zero. The returned size is raw: callers that need
// the cap applied go through ClampSize.
func ParseSize(raw string) (int, error) {
	fields := strings.Fields(raw)
	if len(fields) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrNotPositiveInt, strings.TrimSpace(raw))
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotPositiveInt, fields[0])
	}
	return n, nil
}

// ClampSize truncates a requested size to the sequence cap. The
// truncation is silent: asking for more than sequence.MaxLen values is
// answered with exactly sequence.MaxLen, not an error.
func ClampSize(n int) int {
	if n > sequence.MaxLen {
		return sequence.MaxLen
	}
	return n
}

// ParseValues reads whitespace-separated floats from one line of input,
// consuming at most limit tokens (no limit when limit <= 0). Tokens are
// parsed left to right; on the first token that is not a finite number the
// values collected so far are returned together with ErrNotANumber, so a
// half-good line still contributes its good prefix. Tokens past the limit
// are ignored. NaN and the infinities are rejected like any other bad
// token even though strconv accepts them.
func ParseValues(raw string, limit int) ([]float64, error) {
	fields := strings.Fields(raw)
	if limit > 0 && len(fields) > limit {
		fields = fields[:limit]
	}
	vals := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return vals, fmt.Errorf("%w: %q", ErrNotANumber, field)
		}
		vals = append(vals, v)
	}
	return vals, nil
}
