// Package checkers implements the six mandatory checkers of a Checker
// pipeline (segraph.Dispatcher), each a small, independently-testable
// rule over segraph's core types, in the core's own idiom (BaseChecker
// embedding, optional interfaces, registered constraint kinds) and
// registered in a fixed dispatch order.
package checkers

import (
	"fmt"

	"github.com/gowalk/segraph"
)

// AlwaysTrueOrFalse reports a conditional whose branch is infeasible on
// one side — the condition can only ever evaluate one way at that
// program point (scenarios "nested condition always true" and "unary
// reasserting"). It also reports a returned boolean expression whose
// value is already fixed at the return terminator, such as `!(a==a)`
// (scenario "equals on self"); assignments are not checked.
type AlwaysTrueOrFalse struct {
	segraph.BaseChecker
}

var _ segraph.BranchObserver = (*AlwaysTrueOrFalse)(nil)

// ObserveBranch implements segraph.BranchObserver.
func (c *AlwaysTrueOrFalse) ObserveBranch(ctx *segraph.CheckerContext, terminator segraph.Tree, falseFeasible, trueFeasible, checkPath bool) {
	if !checkPath {
		return
	}
	switch {
	case trueFeasible && !falseFeasible:
		ctx.ReportIssue("always-true-false", terminator, "condition is always true")
	case falseFeasible && !trueFeasible:
		ctx.ReportIssue("always-true-false", terminator, "condition is always false")
	}
}

// PostStatement implements segraph.Checker: it reports a return
// terminator whose operand is a non-singleton SV (not a TRUE/FALSE
// literal) already carrying a Boolean constraint. It does not tell a
// value fixed at creation from one fixed by an earlier branch on the
// same SV.
func (c *AlwaysTrueOrFalse) PostStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	if element.Kind() != segraph.ElementReturnTerminator {
		return nil
	}
	sv := ctx.State.Peek()
	if sv == nil || sv.IsSingleton() {
		return nil
	}
	b, ok := ctx.State.ConstraintsOf(sv).Get(segraph.KindBoolean)
	if !ok {
		return nil
	}
	ctx.ReportIssue("always-true-false", element, fmt.Sprintf("returned expression always evaluates to %s", b.Value))
	return nil
}
