package segraph

import (
	"fmt"

	"github.com/pkg/errors"
)

// Bounds are the engine's injectable termination limits.
type Bounds struct {
	// MaxSteps bounds total interpreted elements per method.
	MaxSteps int

	// MaxExecProgramPoint bounds distinct visits to a single program
	// point along one path — the primary loop-termination
	// guarantee.
	MaxExecProgramPoint int

	// MaxNestedBooleanStates bounds the recursive assume steps one arm
	// of an AssumeDual call may take before raising
	// TooManyNestedBooleanStates.
	MaxNestedBooleanStates int

	// MaxConstraintsSize is the constraints_size() threshold used by the
	// oversize guard: steps+worklist > MaxSteps/2 AND
	// constraints_size() > MaxConstraintsSize triggers an abort.
	MaxConstraintsSize int
}

// DefaultBounds returns the engine's default termination limits.
func DefaultBounds() Bounds {
	return Bounds{
		MaxSteps:               DefaultMaxSteps,
		MaxExecProgramPoint:    DefaultMaxExecProgramPoint,
		MaxNestedBooleanStates: DefaultMaxNestedBooleanStates,
		MaxConstraintsSize:     DefaultMaxConstraintsSize,
	}
}

// StepOutcome is the explicit result variant a single walker step
// returns; the execute loop unwraps it rather than relying on a panic
// for ordinary bound-exceeded termination.
type StepOutcome int

const (
	// StepOK means the step completed normally; the worklist loop
	// continues.
	StepOK StepOutcome = iota

	// StepBoundExceeded means MAX_STEPS was exceeded.
	StepBoundExceeded

	// StepOversizeState means the constraints-too-big guard tripped or
	// AssumeDual exceeded MAX_NESTED_BOOLEAN_STATES.
	StepOversizeState
)

// String implements fmt.Stringer.
func (o StepOutcome) String() string {
	switch o {
	case StepOK:
		return "ok"
	case StepBoundExceeded:
		return "bound-exceeded"
	case StepOversizeState:
		return "oversize-state"
	default:
		return fmt.Sprintf("StepOutcome(%d)", int(o))
	}
}

// Terminating reports whether the outcome ends the current method's
// analysis (anything other than StepOK).
func (o StepOutcome) Terminating() bool {
	return o != StepOK
}

// InvariantError indicates a programming bug — an invariant the core
// relies on was violated (e.g. popping an empty stack, an unexpected
// terminator kind). These are never recovered; the engine panics with
// this type, carrying enough context to locate the method and program
// point, and the caller is expected to let it propagate.
type InvariantError struct {
	Message string
	Method  string
	Point   ProgramPoint
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	if e.Method == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (method=%s point=%s)", e.Message, e.Method, e.Point)
}

// newInvariantError builds a stack-wrapped InvariantError for panic: the
// wrapping captures a trace at the point of the violation, which a bare
// fmt.Sprintf panic does not.
func newInvariantError(method string, point ProgramPoint, format string, args ...interface{}) error {
	return errors.WithStack(&InvariantError{
		Message: fmt.Sprintf(format, args...),
		Method:  method,
		Point:   point,
	})
}
