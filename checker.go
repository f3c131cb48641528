package segraph

// Checker is the plugin contract for a single rule. A
// Checker is stateful across one method's walk and is reset between
// methods by the Walker; its hooks fire at fixed points of the
// per-element dispatch, never interleaved with another checker's hooks
// for the same point — ordering is the Dispatcher's contract, not
// something a Checker can rely on relative to sibling checkers beyond
// that order.
//
// Hooks that can split or discard states return a slice of ProgramState
// (possibly containing the input state unmodified, possibly empty to
// discard the path entirely); hooks that cannot affect flow return
// nothing.
type Checker interface {
	// Init runs once per method walk, before the first node is enqueued,
	// letting a checker seed per-method bookkeeping.
	Init(method MethodSymbol)

	// PreStatement runs just before a statement-kind element is
	// interpreted; may inspect or veto.
	PreStatement(ctx *CheckerContext, element Tree) []ProgramState

	// PostStatement runs just after a statement-kind element has been
	// interpreted, and on every terminator (branches included) after
	// its PreStatement and before the block exit is handled.
	PostStatement(ctx *CheckerContext, element Tree) []ProgramState

	// EndOfExecutionPath runs when a path reaches a method-exit node.
	// A path ended by an uncaught throw reaches it too, after
	// ExceptionEndOfExecutionPath has run for it.
	EndOfExecutionPath(ctx *CheckerContext)

	// ExceptionEndOfExecutionPath runs when a path reaches method exit
	// via an uncaught exception.
	ExceptionEndOfExecutionPath(ctx *CheckerContext, exception *SymbolicValue)

	// EndOfExecution runs once after every path of the method has been
	// explored to completion, letting a checker report issues that
	// depend on the complete picture.
	EndOfExecution(method MethodSymbol)

	// ExceptionEndOfExecution runs instead of EndOfExecution when a
	// bound aborted the method's walk before every path finished: the
	// partial yields collected so far are still visible on the
	// MethodBehavior, but a checker that only draws conclusions from a
	// complete exploration (e.g. "no path ever escaped") must not treat
	// this the same as a clean finish.
	ExceptionEndOfExecution(method MethodSymbol)
}

// BaseChecker is embedded by concrete checkers to satisfy Checker
// without implementing every hook; embedders override just the methods they care
// about.
type BaseChecker struct{}

func (BaseChecker) Init(MethodSymbol)                                             {}
func (BaseChecker) PreStatement(*CheckerContext, Tree) []ProgramState             { return nil }
func (BaseChecker) PostStatement(*CheckerContext, Tree) []ProgramState            { return nil }
func (BaseChecker) EndOfExecutionPath(*CheckerContext)                           {}
func (BaseChecker) ExceptionEndOfExecutionPath(*CheckerContext, *SymbolicValue)  {}
func (BaseChecker) EndOfExecution(MethodSymbol)                                   {}
func (BaseChecker) ExceptionEndOfExecution(MethodSymbol)                          {}

// CheckerContext is the narrow view of the walk a Checker hook is given
//: the current state, the program point it was reached at,
// and the ability to report an issue or mint new SVs/constraints via the
// shared ConstraintManager, without exposing the worklist itself.
type CheckerContext struct {
	State   ProgramState
	Point   ProgramPoint
	Method  MethodSymbol
	Oracle  SymbolOracle
	cm      *ConstraintManager
	issues  *[]Issue
}

// ConstraintManager exposes the shared C4 instance so a checker can mint
// SVs and assert constraints consistently with the walker.
func (c *CheckerContext) ConstraintManager() *ConstraintManager { return c.cm }

// ReportIssue records a finding, attributed
// to the tree that triggered it.
func (c *CheckerContext) ReportIssue(rule string, on Tree, message string) {
	*c.issues = append(*c.issues, Issue{
		Rule:    rule,
		Pos:     on.Pos(),
		Message: message,
		Method:  c.Method,
	})
}


// WithState returns a shallow copy of the context pinned to a different
// state, used when a hook needs to report against a state it derived
// rather than ctx.State (e.g. one arm of a checker-internal split).
func (c *CheckerContext) WithState(state ProgramState) *CheckerContext {
	copy := *c
	copy.State = state
	return &copy
}

// BranchObserver is an optional Checker extension notified about branch
// feasibility; the built-in implementers are the always-true/false
// checker and NoWayOutLoop.
type BranchObserver interface {
	Checker
	ObserveBranch(ctx *CheckerContext, terminator Tree, falseFeasible, trueFeasible, checkPath bool)
}

// NoYieldObserver is an optional Checker extension notified when a call
// site's method behavior carries yields but none replay against the
// caller state.
type NoYieldObserver interface {
	Checker
	ObserveNoYield(ctx *CheckerContext, call Tree, callee MethodSymbol, nullnessFlavoured bool)
}

// Dispatcher runs an ordered, fixed pipeline of Checkers against every
// hook point the Walker exposes.
type Dispatcher struct {
	checkers []Checker
	issues   []Issue
}

// NewDispatcher returns a Dispatcher running checkers in exactly the
// given order.
func NewDispatcher(checkers ...Checker) *Dispatcher {
	return &Dispatcher{checkers: checkers}
}

// Issues returns every issue reported so far across every method walked
// with this Dispatcher.
func (d *Dispatcher) Issues() []Issue {
	return d.issues
}

func (d *Dispatcher) newContext(state ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager) *CheckerContext {
	return &CheckerContext{
		State:  state,
		Point:  point,
		Method: method,
		Oracle: oracle,
		cm:     cm,
		issues: &d.issues,
	}
}

// Init fires Init on every checker, in order.
func (d *Dispatcher) Init(method MethodSymbol) {
	for _, c := range d.checkers {
		c.Init(method)
	}
}

// PreStatement threads state through every checker's PreStatement hook
// in order: each checker sees every state the previous checker's hook
// produced, so an earlier checker narrowing or splitting the state is
// visible to later ones.
func (d *Dispatcher) PreStatement(states []ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, element Tree) []ProgramState {
	return d.threadHook(states, point, method, oracle, cm, func(ctx *CheckerContext, c Checker) []ProgramState {
		return c.PreStatement(ctx, element)
	})
}

// PostStatement is PreStatement's post-interpretation counterpart.
func (d *Dispatcher) PostStatement(states []ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, element Tree) []ProgramState {
	return d.threadHook(states, point, method, oracle, cm, func(ctx *CheckerContext, c Checker) []ProgramState {
		return c.PostStatement(ctx, element)
	})
}

func (d *Dispatcher) threadHook(states []ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, call func(*CheckerContext, Checker) []ProgramState) []ProgramState {
	for _, c := range d.checkers {
		var next []ProgramState
		for _, s := range states {
			ctx := d.newContext(s, point, method, oracle, cm)
			out := call(ctx, c)
			if out == nil {
				out = []ProgramState{s}
			}
			next = append(next, out...)
		}
		states = next
	}
	return states
}

// EndOfExecutionPath fires every checker's end_of_execution_path hook,
// in order, against one completed feasible path.
func (d *Dispatcher) EndOfExecutionPath(state ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager) {
	for _, c := range d.checkers {
		c.EndOfExecutionPath(d.newContext(state, point, method, oracle, cm))
	}
}

// ExceptionEndOfExecutionPath is EndOfExecutionPath's exceptional
// counterpart.
func (d *Dispatcher) ExceptionEndOfExecutionPath(state ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, exception *SymbolicValue) {
	for _, c := range d.checkers {
		c.ExceptionEndOfExecutionPath(d.newContext(state, point, method, oracle, cm), exception)
	}
}

// EndOfExecution fires every checker's whole-method closing hook, in
// order, once the walk of one method has finished.
func (d *Dispatcher) EndOfExecution(method MethodSymbol) {
	for _, c := range d.checkers {
		c.EndOfExecution(method)
	}
}

// ExceptionEndOfExecution fires every checker's abort hook, in order,
// in place of EndOfExecution when a bound cut the method's walk short.
func (d *Dispatcher) ExceptionEndOfExecution(method MethodSymbol) {
	for _, c := range d.checkers {
		c.ExceptionEndOfExecution(method)
	}
}

// ObserveBranch notifies every checker implementing BranchObserver of a
// branch's feasibility outcome.
func (d *Dispatcher) ObserveBranch(state ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, terminator Tree, falseFeasible, trueFeasible, checkPath bool) {
	ctx := d.newContext(state, point, method, oracle, cm)
	for _, c := range d.checkers {
		if bo, ok := c.(BranchObserver); ok {
			bo.ObserveBranch(ctx, terminator, falseFeasible, trueFeasible, checkPath)
		}
	}
}

// ObserveNoYield notifies every checker implementing NoYieldObserver
// that a call site's behavior yields were all incompatible with the
// caller state.
func (d *Dispatcher) ObserveNoYield(state ProgramState, point ProgramPoint, method MethodSymbol, oracle SymbolOracle, cm *ConstraintManager, call Tree, callee MethodSymbol, nullnessFlavoured bool) {
	ctx := d.newContext(state, point, method, oracle, cm)
	for _, c := range d.checkers {
		if no, ok := c.(NoYieldObserver); ok {
			no.ObserveNoYield(ctx, call, callee, nullnessFlavoured)
		}
	}
}
