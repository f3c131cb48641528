package checkers

import (
	"github.com/gowalk/segraph"
)

// NullDereference reports a member-select or method invocation whose
// receiver is definitely NULL in the current state (scenarios "null
// reassignment then deref" and "flow-combined null"). It never splits
// the state itself — that is assume_dual's job when the nullness came
// from a branch; this checker only reads the nullness fact that is
// already on the receiver SV by the time its element is reached.
type NullDereference struct {
	segraph.BaseChecker
}

// PreStatement implements segraph.Checker. A member-select consumes its
// receiver as the sole operand on top of the stack. A method-invocation
// pushes its receiver first and its arguments after, so the receiver
// sits at stack depth ArgCount(), below any pushed arguments — not on
// top.
func (c *NullDereference) PreStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	var receiver *segraph.SymbolicValue
	switch element.Kind() {
	case segraph.ElementMemberSelect:
		receiver = ctx.State.Peek()
	case segraph.ElementMethodInvocation:
		mi, ok := element.(segraph.MethodInvocationTree)
		if !ok {
			return nil
		}
		receiver = ctx.State.PeekDepth(mi.ArgCount())
	default:
		return nil
	}

	if receiver == nil {
		return nil
	}
	if n, ok := ctx.State.ConstraintsOf(receiver).Get(segraph.KindNullness); ok && n.Value == segraph.ValueNull {
		ctx.ReportIssue("null-dereference", element, "dereference of a value that is always null")
		return []segraph.ProgramState{} // sink: an NPE here is not a recoverable continuation.
	}
	return nil
}
