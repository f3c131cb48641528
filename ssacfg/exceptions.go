package ssacfg

import "github.com/gowalk/segraph"

// tryCatchOracle implements segraph.TryCatchOracle by reporting no
// enclosing try-statements, ever. Go's panic/recover is not lexically
// block-scoped the way a try-statement is: a recover() call inside a
// deferred closure intercepts a panic from anywhere in the function,
// not from one syntactically delimited region, and the exploded-graph
// walker's exception routing was built around the latter shape.
// Every panic this adapter surfaces is therefore routed as uncaught
// (segraph.ExceptionNoHandler) — a safe, if imprecise, answer: the
// engine still registers the exceptional yield and ends the path at
// the method's exit block, it just never attributes it to a specific
// recover site.
type tryCatchOracle struct{}

func (tryCatchOracle) EnclosingTryStatements(segraph.Tree) []segraph.TryStatement { return nil }

// NewTryCatchOracle returns the no-handlers-ever TryCatchOracle
// described above.
func NewTryCatchOracle() segraph.TryCatchOracle { return tryCatchOracle{} }
