package checkers

import "github.com/gowalk/segraph"

// lockState is a constraint kind tracking whether a lock value is held.
const lockState segraph.ConstraintKind = "checkers.lock-state"

const (
	lockLocked   = "LOCKED"
	lockUnlocked = "UNLOCKED"
)

func init() {
	// The newer lock state replaces the older one, so an unlock() can
	// move a LOCKED value to UNLOCKED.
	segraph.RegisterConstraintKind(lockState, func(a, b segraph.Constraint) (segraph.Constraint, bool) {
		return b, true
	})
}

// LocksNotUnlocked reports a lock that is still held when a path
// reaches method exit. Unlike UnclosedResources, a lock value is
// usually a field or parameter rather than something freshly
// constructed in the method body, so this checker starts tracking a
// receiver the first time it sees lock() called on it rather than at
// construction.
type LocksNotUnlocked struct {
	segraph.BaseChecker

	sites map[*segraph.SymbolicValue]segraph.Tree
}

func NewLocksNotUnlocked() *LocksNotUnlocked {
	return &LocksNotUnlocked{sites: make(map[*segraph.SymbolicValue]segraph.Tree)}
}

func (c *LocksNotUnlocked) Init(method segraph.MethodSymbol) {
	c.sites = make(map[*segraph.SymbolicValue]segraph.Tree)
}

// PreStatement marks a lock LOCKED on lock(), and UNLOCKED on unlock().
// lock()/unlock() are no-arg, so the receiver sits on top of the stack,
// but that is ArgCount()'s depth, not an assumption specific to this
// checker — a method-invocation always pushes receiver-then-args.
func (c *LocksNotUnlocked) PreStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	mi, ok := element.(segraph.MethodInvocationTree)
	if !ok || mi.Method() == nil {
		return nil
	}

	var target string
	switch mi.Method().Name() {
	case "lock":
		target = lockLocked
	case "unlock":
		target = lockUnlocked
	default:
		return nil
	}

	receiver := ctx.State.PeekDepth(mi.ArgCount())
	if receiver == nil {
		return nil
	}
	if target == lockLocked {
		c.sites[receiver] = element
	}
	state, ok := ctx.State.AddConstraint(receiver, segraph.Constraint{Kind: lockState, Value: target})
	if !ok {
		return nil
	}
	return []segraph.ProgramState{state}
}

// EndOfExecutionPath reports every lock still LOCKED when a path
// completes.
func (c *LocksNotUnlocked) EndOfExecutionPath(ctx *segraph.CheckerContext) {
	for sv, site := range c.sites {
		if st, ok := ctx.State.ConstraintsOf(sv).Get(lockState); ok && st.Value == lockLocked {
			ctx.ReportIssue("locks-not-unlocked", site, "lock is never released on this path")
		}
	}
}
