package segraph

// Yield summarises one completed path of a method: constraints on each
// parameter SV and on the return SV, plus side-effect markers. Yields are replayed at call sites.
type Yield struct {
	// ParameterConstraints holds, per parameter index, the constraint
	// set that parameter's SV carried when this path finished.
	ParameterConstraints []ConstraintSet

	// ResultConstraints holds the constraint set the return SV carried,
	// empty for a void yield.
	ResultConstraints ConstraintSet

	// Void marks a yield produced by a bare `return;`/fall-off-the-end
	// void method exit.
	Void bool

	// Exceptional marks a yield produced by an uncaught throw reaching
	// method exit: ResultConstraints then describes the
	// thrown exception SV, not a return value.
	Exceptional bool

	// HavocsFields marks a yield whose path called ResetFieldValues
	// (local invocation or synchronized block) — callers replaying this
	// yield must havoc their own fields too.
	HavocsFields bool
}

// compatibleState replays this yield against a caller's state:
//  1. unify each yield parameter constraint with the caller's current
//     argument SV, via the domain meet — incompatible discards the yield;
//  2. push resultSV and apply the yield's return constraint to it, so
//     the call site's push-1 arity holds regardless of which yield
//     replayed or whether it was void;
//  3. return the resulting caller state, or ok=false if incompatible.
func (y Yield) compatibleState(state ProgramState, argSVs []*SymbolicValue, resultSV *SymbolicValue, oracle SymbolOracle) (ProgramState, bool) {
	if len(argSVs) != len(y.ParameterConstraints) {
		return state, false
	}
	for i, argSV := range argSVs {
		for _, c := range y.ParameterConstraints[i] {
			next, ok := state.AddConstraint(argSV, c)
			if !ok {
				return state, false
			}
			state = next
		}
	}
	if y.Void {
		return state.StackValue(resultSV), true
	}
	state = state.StackValue(resultSV)
	for _, c := range y.ResultConstraints {
		next, ok := state.AddConstraint(resultSV, c)
		if !ok {
			return state, false
		}
		state = next
	}
	return state, true
}

// incompatibilityIsNullness reports whether replaying this yield against
// argSVs would fail specifically because of a nullness mismatch, used by
// the walker's no-yield reporting to choose between a
// null-dereference-flavoured message and a generic incompatibility one.
func (y Yield) incompatibilityIsNullness(state ProgramState, argSVs []*SymbolicValue) bool {
	if len(argSVs) != len(y.ParameterConstraints) {
		return false
	}
	for i, argSV := range argSVs {
		for _, c := range y.ParameterConstraints[i] {
			if c.Kind != KindNullness {
				continue
			}
			if existing, ok := state.ConstraintsOf(argSV).Get(KindNullness); ok && existing.Value != c.Value {
				return true
			}
		}
	}
	return false
}

// MethodBehavior is the per-method summary: parameter symbols, the
// yields collected as the walker explores that method, and the flags
// needed to synthesize an exit yield.
type MethodBehavior struct {
	method       MethodSymbol
	parameters   []Symbol
	paramSVs     []*SymbolicValue
	yields       []Yield
	isConstructor bool
	isVoidMethod  bool
}

// NewMethodBehavior returns a MethodBehavior for the given method
// symbol, ready to be populated by a Walker as paths complete.
func NewMethodBehavior(method MethodSymbol) *MethodBehavior {
	return &MethodBehavior{
		method:        method,
		isConstructor: method.IsConstructor(),
		isVoidMethod:  method.IsVoid(),
	}
}

// IsConstructor/IsVoidMethod report the flags used by the walker's
// method-exit handling.
func (mb *MethodBehavior) IsConstructor() bool { return mb.isConstructor }
func (mb *MethodBehavior) IsVoidMethod() bool  { return mb.isVoidMethod }

// AddParameter records a parameter symbol/SV pair, in declaration order.
func (mb *MethodBehavior) AddParameter(symbol Symbol, sv *SymbolicValue) {
	mb.parameters = append(mb.parameters, symbol)
	mb.paramSVs = append(mb.paramSVs, sv)
}

// InterfaceSymbols returns the method's parameter symbols — part of the
// "method-behavior-interface symbols" that must never be cleaned up as
// dead.
func (mb *MethodBehavior) InterfaceSymbols() SymbolSet {
	return NewSymbolSet(mb.parameters...)
}

// AddYield records a completed path's parameter/return constraints as a
// new yield. resultSV may be nil
// for a void yield.
func (mb *MethodBehavior) AddYield(state ProgramState, resultSV *SymbolicValue, exceptional, havocsFields bool) {
	y := Yield{
		ParameterConstraints: make([]ConstraintSet, len(mb.paramSVs)),
		Exceptional:          exceptional,
		HavocsFields:         havocsFields,
	}
	for i, sv := range mb.paramSVs {
		y.ParameterConstraints[i] = state.ConstraintsOf(sv)
	}
	if resultSV == nil {
		y.Void = true
	} else {
		y.ResultConstraints = state.ConstraintsOf(resultSV)
	}
	mb.yields = append(mb.yields, y)
}

// AddVoidYield records a completed void-return path.
func (mb *MethodBehavior) AddVoidYield(state ProgramState) {
	mb.AddYield(state, nil, false, false)
}

// Yields returns every yield collected so far.
func (mb *MethodBehavior) Yields() []Yield {
	return mb.yields
}

// InvocationYields replays every yield of this behavior against a call
// site's argument SVs, returning the set of caller states produced.
// Yields whose parameter constraints contradict the caller's current
// state are silently dropped.
func (mb *MethodBehavior) InvocationYields(state ProgramState, argSVs []*SymbolicValue, resultSV *SymbolicValue, oracle SymbolOracle) []ProgramState {
	var out []ProgramState
	for _, y := range mb.yields {
		next, ok := y.compatibleState(state, argSVs, resultSV, oracle)
		if ok {
			out = append(out, next)
		}
	}
	return out
}

// NoYieldIssueIsNullness reports whether every yield that failed to
// replay against argSVs failed due to a nullness mismatch — used to pick
// the no-yield-compatible issue's flavour.
func (mb *MethodBehavior) NoYieldIssueIsNullness(state ProgramState, argSVs []*SymbolicValue) bool {
	if len(mb.yields) == 0 {
		return false
	}
	for _, y := range mb.yields {
		if !y.incompatibilityIsNullness(state, argSVs) {
			return false
		}
	}
	return true
}

// Registry maps method symbols to their behaviors. Populated in a pre-pass or lazily; a
// behavior under active construction (the method currently being
// walked) is still readable by nested/recursive calls, returning
// whatever yields have been collected so far — the
// "return-something-usable-even-if-in-progress" reentrancy contract.
type Registry struct {
	behaviors map[MethodSymbol]*MethodBehavior
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{behaviors: make(map[MethodSymbol]*MethodBehavior)}
}

// Get returns the behavior for a method symbol, or nil if none is known.
func (r *Registry) Get(method MethodSymbol) *MethodBehavior {
	return r.behaviors[method]
}

// Put installs (or replaces) a method's behavior, called once the
// walker has built or rebuilt it.
func (r *Registry) Put(method MethodSymbol, mb *MethodBehavior) {
	r.behaviors[method] = mb
}

// DefaultResultState builds the "unknown method" default:
// stack a fresh SV as return; NOT_NULL if the method is Nonnull-annotated;
// ResetFieldValues if it is a heap-escaping sentinel like Object.wait.
func DefaultResultState(cm *ConstraintManager, state ProgramState, resultSV *SymbolicValue, isNonNull, heapEscaping bool, oracle SymbolOracle) ProgramState {
	state = state.StackValue(resultSV)
	if isNonNull {
		state = cm.SetSingleConstraint(state, resultSV, NotNull)
	}
	if heapEscaping {
		state = state.ResetFieldValues(oracle)
	}
	return state
}
