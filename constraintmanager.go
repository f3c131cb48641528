package segraph

// ConstraintManager mints SymbolicValues and implements AssumeDual,
// the state-splitting primitive that asserts a branch condition true in
// one arm and false in the other. Splitting lives here
// rather than in the walker so that relational SVs (built from ==, !=,
// !) can propagate implications onto their operands uniformly, and so
// checker-registered constraint kinds are branchable too — the same
// separation the walker draws between "the dispatcher drives element
// interpretation" and "the constraint manager decides satisfiability",
// except here the "solver" is the constraint domain's own meet function
// rather than a real SMT decision procedure.
type ConstraintManager struct {
	bounds Bounds

	// nestedBooleanStates counts recursive assume() calls made within
	// the current arm of an AssumeDual invocation; reset before each
	// arm. Exceeding bounds.MaxNestedBooleanStates raises
	// errTooManyNestedBooleanStates.
	nestedBooleanStates int
}

// NewConstraintManager returns a ConstraintManager enforcing the given
// bounds.
func NewConstraintManager(bounds Bounds) *ConstraintManager {
	return &ConstraintManager{bounds: bounds}
}

// errTooManyNestedBooleanStates is a sentinel carried out of assume()'s
// recursion; AssumeDual converts it into the oversize outcome at the
// walker boundary.
type errTooManyNestedBooleanStates struct{}

func (errTooManyNestedBooleanStates) Error() string { return "too many nested boolean states" }

// CreateSymbolicValue mints a fresh SV for a generic creation site.
func (cm *ConstraintManager) CreateSymbolicValue(kind SyntaxKind) *SymbolicValue {
	return fresh(kind)
}

// CreateRelationalSymbolicValue mints a fresh SV for a binary comparison
// (==, !=) or logical-not, recording its operands so AssumeDual can
// propagate implications later.
func (cm *ConstraintManager) CreateRelationalSymbolicValue(kind SyntaxKind, operands ...*SymbolicValue) *SymbolicValue {
	return fresh(kind).ComputedFrom(operands...)
}

// CreateSymbolicExceptionValue mints a dedicated exception SV.
func (cm *ConstraintManager) CreateSymbolicExceptionValue(exceptionType string) *SymbolicValue {
	return NewExceptionSymbolicValue(exceptionType)
}

// SetSingleConstraint asserts a constraint the caller knows cannot
// contradict the current state,
// e.g. "new object is NOT_NULL". Panics (invariant violation) if the
// assertion is in fact infeasible — that would mean the caller's
// assumption was wrong, a programming bug rather than an expected
// branch-infeasibility outcome.
func (cm *ConstraintManager) SetSingleConstraint(state ProgramState, sv *SymbolicValue, c Constraint) ProgramState {
	next, ok := state.AddConstraint(sv, c)
	assert(ok, "set_single_constraint: constraint %v on %v is infeasible", c, sv)
	return next
}

// AssumeDual asserts the top-of-stack SV true in one branch and false in
// the other, popping the operand in both. Either returned
// slice may be empty if that branch is infeasible. err is non-nil only
// on nested-boolean-state overflow, in which case both slices are nil
// and the walker must treat it as an oversize abort.
func (cm *ConstraintManager) AssumeDual(state ProgramState) (falseStates, trueStates []ProgramState, err error) {
	cond := state.Peek()
	assert(cond != nil, "assume_dual: empty stack")
	base, _ := state.Unstack(1)

	cm.nestedBooleanStates = 0

	if s, ok, aerr := cm.assume(base, cond, false); aerr != nil {
		return nil, nil, aerr
	} else if ok {
		falseStates = append(falseStates, s)
	}

	cm.nestedBooleanStates = 0
	if s, ok, aerr := cm.assume(base, cond, true); aerr != nil {
		return nil, nil, aerr
	} else if ok {
		trueStates = append(trueStates, s)
	}

	return falseStates, trueStates, nil
}

// assume asserts sv == truth in state, recursively propagating
// implications for relational SVs (logical-not, ==, !=), and returns the
// resulting state, or ok=false if the assertion is infeasible.
func (cm *ConstraintManager) assume(state ProgramState, sv *SymbolicValue, truth bool) (ProgramState, bool, error) {
	cm.nestedBooleanStates++
	if cm.nestedBooleanStates > cm.bounds.MaxNestedBooleanStates {
		return state, false, errTooManyNestedBooleanStates{}
	}

	desired := BoolFalse
	if truth {
		desired = BoolTrue
	}
	next, ok := state.AddConstraint(sv, desired)
	if !ok {
		return state, false, nil
	}

	switch sv.Kind() {
	case SyntaxLogicalNot:
		operand := sv.Operands()[0]
		return cm.assume(next, operand, !truth)

	case SyntaxEqual:
		return cm.assumeEquality(next, sv, truth)

	case SyntaxNotEqual:
		return cm.assumeEquality(next, sv, !truth)

	default:
		return next, true, nil
	}
}

// assumeEquality propagates the implications of "operands are equal" vs
// "operands are not equal" onto the operands themselves. This is the extension point that makes
// scenarios like `if (a == null) { b = a; b.toString(); }` work: the
// EQ SV's own boolean constraint alone says nothing about `a`; asserting
// it true/false must also tell `a` whether it is null.
func (cm *ConstraintManager) assumeEquality(state ProgramState, eq *SymbolicValue, equal bool) (ProgramState, bool, error) {
	ops := eq.Operands()
	x, y := ops[0], ops[1]

	if x == y {
		// An SV is trivially equal to itself: asserting "not equal" is
		// infeasible, asserting "equal" adds nothing further.
		if !equal {
			return state, false, nil
		}
		return state, true, nil
	}

	// Propagate a known nullness fact from one operand to the other.
	if nx, ok := state.ConstraintsOf(x).Get(KindNullness); ok {
		target := nx
		if !equal {
			target = flipNullness(nx)
		}
		next, ok := state.AddConstraint(y, target)
		if !ok {
			return state, false, nil
		}
		state = next
	}
	if ny, ok := state.ConstraintsOf(y).Get(KindNullness); ok {
		target := ny
		if !equal {
			target = flipNullness(ny)
		}
		next, ok := state.AddConstraint(x, target)
		if !ok {
			return state, false, nil
		}
		state = next
	}

	// x == NULL / x != NULL is the common case even when x carried no
	// prior nullness fact: the NULL singleton itself is the signal.
	if x == NULL {
		state, ok := cm.assumeNullLiteral(state, y, equal)
		return state, ok, nil
	}
	if y == NULL {
		state, ok := cm.assumeNullLiteral(state, x, equal)
		return state, ok, nil
	}

	return state, true, nil
}

// assumeNullLiteral asserts that sv is NULL (equal=true) or NOT_NULL
// (equal=false), used when the other side of an equality is the NULL
// singleton itself.
func (cm *ConstraintManager) assumeNullLiteral(state ProgramState, sv *SymbolicValue, equal bool) (ProgramState, bool) {
	c := NotNull
	if equal {
		c = Null
	}
	next, ok := state.AddConstraint(sv, c)
	return next, ok
}

// flipNullness returns NOT_NULL for NULL and vice versa; only meaningful
// for the two-valued Nullness domain.
func flipNullness(c Constraint) Constraint {
	if c.Value == ValueNull {
		return NotNull
	}
	return Null
}
