// internal/tui/steps.go
//
// Step progression for a cascade session. The flow is strictly linear:
// size and values for the first sequence, size and values for the second,
// then the merged result. There is no branching and no way back.

package tui

// step represents a stage in the collect-merge-sort session
type step int

const (
	stepFirstSize step = iota
	stepFirstValues
	stepSecondSize
	stepSecondValues
	stepResult
)

// stepCount is how many stages the progress header counts, result included.
const stepCount = int(stepResult) + 1

// String returns a short identifier for the step
func (s step) String() string {
	switch s {
	case stepFirstSize:
		return "first-size"
	case stepFirstValues:
		return "first-values"
	case stepSecondSize:
		return "second-size"
	case stepSecondValues:
		return "second-values"
	case stepResult:
		return "result"
	default:
		return "unknown"
	}
}

// FriendlyName returns a description suitable for the progress header
func (s step) FriendlyName() string {
	switch s {
	case stepFirstSize:
		return "First Array Size"
	case stepFirstValues:
		return "First Array Values"
	case stepSecondSize:
		return "Second Array Size"
	case stepSecondValues:
		return "Second Array Values"
	case stepResult:
		return "Merged Result"
	default:
		return s.String()
	}
}

// Next returns the step that follows this one
func (s step) Next() step {
	if s >= stepResult {
		return stepResult
	}
	return s + 1
}

// IsTerminal returns true once the session has produced its result
func (s step) IsTerminal() bool {
	return s == stepResult
}

// Position returns the 1-based ordinal of the step for progress display
func (s step) Position() int {
	if s < stepFirstSize || s > stepResult {
		return stepCount
	}
	return int(s) + 1
}
