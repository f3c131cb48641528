package checkers

import "github.com/gowalk/segraph"

const nonnullAnnotation = "javax.annotation.Nonnull"

// NonNullSetToNull reports a variable declared or annotated Nonnull
// that is assigned a value known to be NULL.
type NonNullSetToNull struct {
	segraph.BaseChecker
}

// PostStatement implements segraph.Checker. By the time the element has
// been interpreted, the target symbol already holds the assigned value;
// read it back from the resulting state rather than re-deriving it from
// the stack, since plain assignment and variable-decl-with-init push
// different things.
func (c *NonNullSetToNull) PostStatement(ctx *segraph.CheckerContext, element segraph.Tree) []segraph.ProgramState {
	switch element.Kind() {
	case segraph.ElementAssignment, segraph.ElementVariableDeclWithInit:
	default:
		return nil
	}

	symbol, ok := ctx.Oracle.SymbolOf(element)
	if !ok || !ctx.Oracle.HasAnnotation(symbol, nonnullAnnotation) {
		return nil
	}
	sv, ok := ctx.State.Get(symbol)
	if !ok {
		return nil
	}
	if n, ok := ctx.State.ConstraintsOf(sv).Get(segraph.KindNullness); ok && n.Value == segraph.ValueNull {
		ctx.ReportIssue("non-null-set-to-null", element, "a Nonnull value is set to null")
	}
	return nil
}
