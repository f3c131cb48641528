package checkers

import "github.com/gowalk/segraph"

// NoWayOutLoop reports a loop whose header condition is a literal true
// with no reachable break or return: every path this checker watched
// funnel back into the loop header without a single path reaching
// method exit. It infers that from the walk's own termination: if the
// whole method walk finished with every path explored (EndOfExecution)
// without a single end_of_execution_path or exception_end_of_execution_path
// call, nothing the Walker explored ever left the loop. A walk cut short
// by a bound ends in ExceptionEndOfExecution, which this checker does not
// handle, so it reports nothing for that method.
type NoWayOutLoop struct {
	segraph.BaseChecker

	candidates []segraph.Tree
	sawExit    bool
	lastCtx    *segraph.CheckerContext
}

func NewNoWayOutLoop() *NoWayOutLoop {
	return &NoWayOutLoop{}
}

func (c *NoWayOutLoop) Init(method segraph.MethodSymbol) {
	c.candidates = nil
	c.sawExit = false
	c.lastCtx = nil
}

var _ segraph.BranchObserver = (*NoWayOutLoop)(nil)

// ObserveBranch records an infinite-loop header: a loop terminator whose
// condition is a literal true, so only the true successor is feasible.
func (c *NoWayOutLoop) ObserveBranch(ctx *segraph.CheckerContext, terminator segraph.Tree, falseFeasible, trueFeasible, checkPath bool) {
	c.lastCtx = ctx
	if falseFeasible || !trueFeasible {
		return
	}
	lit, ok := terminator.(segraph.LiteralConditionTree)
	if !ok || !lit.IsLiteralCondition() || !lit.LiteralBoolValue() {
		return
	}
	switch terminator.Kind() {
	case segraph.ElementForTerminator, segraph.ElementWhileTerminator, segraph.ElementDoWhileTerminator:
		c.candidates = append(c.candidates, terminator)
	}
}

func (c *NoWayOutLoop) EndOfExecutionPath(ctx *segraph.CheckerContext) {
	c.lastCtx = ctx
	c.sawExit = true
}

func (c *NoWayOutLoop) ExceptionEndOfExecutionPath(ctx *segraph.CheckerContext, exception *segraph.SymbolicValue) {
	c.lastCtx = ctx
	c.sawExit = true
}

// EndOfExecution reports every candidate loop header if the method walk
// never produced a single completed or exceptional path.
func (c *NoWayOutLoop) EndOfExecution(method segraph.MethodSymbol) {
	if c.sawExit || c.lastCtx == nil {
		return
	}
	for _, header := range c.candidates {
		c.lastCtx.ReportIssue("no-way-out-loop", header, "loop condition is always true and no path escapes it")
	}
}
