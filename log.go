package segraph

import "github.com/go-logr/logr"

// discardLogger is the zero-value-safe default a Walker logs to when no
// logr.Logger is supplied via SetLogger. The core never imports a concrete
// backend; callers wire one in at cmd/segraph via go-logr/zapr.
var discardLogger = logr.Discard()

// logStep emits one V(2) line per interpreted step as a structured
// field set rather than a raw printf line.
func logStep(l logr.Logger, point ProgramPoint, kind ElementKind) {
	l.V(2).Info("step", "point", point.String(), "kind", int(kind))
}

// logFork emits one V(2) line per assume_dual split.
func logFork(l logr.Logger, point ProgramPoint, falseCount, trueCount int) {
	l.V(2).Info("fork", "point", point.String(), "false", falseCount, "true", trueCount)
}

// logBoundTrip emits one V(1) line whenever a bound terminates a
// method's analysis.
func logBoundTrip(l logr.Logger, method MethodSymbol, outcome StepOutcome) {
	l.V(1).Info("bound exceeded", "method", method.Name(), "outcome", outcome.String())
}

// logDebugDump renders a node's state at V(4), a structured-logging
// replacement for a debug-only print-state hook.
func logDebugDump(l logr.Logger, point ProgramPoint, state ProgramState) {
	l.V(4).Info("state", "point", point.String(), "dump", state.Dump())
}
