package checkers

import "github.com/gowalk/segraph"

// resourceState is a constraint kind this checker registers with the
// constraint manager, tracking whether a resource value is still open.
const resourceState segraph.ConstraintKind = "checkers.resource-state"

const (
	resourceOpen   = "OPEN"
	resourceClosed = "CLOSED"
)

func init() {
	// The newer resource state replaces the older one, so a close() can
	// move an OPEN value to CLOSED.
	segraph.RegisterConstraintKind(resourceState, func(a, b segraph.Constraint) (segraph.Constraint, bool) {
		return b, true
	})
}

// AutoCloseableConstructorTree marks a new-object element as
// constructing a value whose type requires a matching close() call. CFG
// providers attach this only for types they know implement the
// analyzed language's Closeable-equivalent contract.
type AutoCloseableConstructorTree interface {
	segraph.Tree
	IsAutoCloseableConstructor() bool
}

// UnclosedResources reports a constructed resource that is still OPEN
// when a path reaches method exit.
type UnclosedResources struct {
	segraph.BaseChecker

	// sites maps an open resource's SV to the tree that constructed it,
	// for issue reporting. Reset at the start of each method.
	sites map[*segraph.SymbolicValue]segraph.Tree
}

func NewUnclosedResources() *UnclosedResources {
	return &UnclosedResources{sites: make(map[*segraph.SymbolicValue]segraph.Tree)}
}

func (c *UnclosedResources) Init(method segraph.MethodSymbol) {
	c.sites = make(map[*segraph.SymbolicValue]segraph.Tree)
}

// PostStatement marks a freshly constructed resource OPEN.
func (c *UnclosedResources) PostStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	if element.Kind() != segraph.ElementNewObject {
		return nil
	}
	ac, ok := element.(AutoCloseableConstructorTree)
	if !ok || !ac.IsAutoCloseableConstructor() {
		return nil
	}
	sv := ctx.State.Peek()
	if sv == nil {
		return nil
	}
	state, ok := ctx.State.AddConstraint(sv, segraph.Constraint{Kind: resourceState, Value: resourceOpen})
	if !ok {
		return nil
	}
	c.sites[sv] = element
	return []segraph.ProgramState{state}
}

// PreStatement marks a resource CLOSED when its close() method is
// called on it. close() is no-arg, so the receiver sits on top of the
// stack, but that is ArgCount()'s depth — a method-invocation always
// pushes receiver-then-args.
func (c *UnclosedResources) PreStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	mi, ok := element.(segraph.MethodInvocationTree)
	if !ok || mi.Method() == nil || mi.Method().Name() != "close" {
		return nil
	}
	receiver := ctx.State.PeekDepth(mi.ArgCount())
	if receiver == nil {
		return nil
	}
	if _, ok := ctx.State.ConstraintsOf(receiver).Get(resourceState); !ok {
		return nil
	}
	state, ok := ctx.State.AddConstraint(receiver, segraph.Constraint{Kind: resourceState, Value: resourceClosed})
	if !ok {
		return nil
	}
	return []segraph.ProgramState{state}
}

// EndOfExecutionPath reports every resource still OPEN when a path
// completes.
//
// TODO: suppress the report when the resource SV is the value this
// method itself returns to its caller — ownership has been handed off
// and the caller is now responsible for closing it.
func (c *UnclosedResources) EndOfExecutionPath(ctx *segraph.CheckerContext) {
	for sv, site := range c.sites {
		if st, ok := ctx.State.ConstraintsOf(sv).Get(resourceState); ok && st.Value == resourceOpen {
			ctx.ReportIssue("unclosed-resources", site, "resource is never closed on this path")
		}
	}
}
