// Package segraph implements the core of an exploded-graph symbolic
// execution engine: the fixed-point exploration of a per-method
// control-flow graph parameterised by an immutable program state, feeding
// abstract events to a pluggable set of checkers.
//
// The package does not parse source, build control-flow graphs, resolve
// names, or serialise issues. It consumes a CFG and a symbol oracle (see
// cfg.go) and drives a Dispatcher of Checkers (see checker.go) to
// completion for a single method body.
package segraph

import "fmt"

// Compile-time bounds. See Bounds for the injectable equivalents.
const (
	DefaultMaxSteps               = 10000
	DefaultMaxExecProgramPoint    = 2
	DefaultMaxNestedBooleanStates = 10000
	DefaultMaxConstraintsSize     = 75
)

// assert panics with context if condition is false. Used for invariants
// that indicate a programming bug rather than an expected termination
// signal (see errors.go for the latter).
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
	}
}
