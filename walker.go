package segraph

import "github.com/go-logr/logr"

// errSystemExit is interpretElement's sink signal for a System.exit
// call: an unconditional sink, so the path terminates without a yield.
type errSystemExit struct{}

func (errSystemExit) Error() string { return "System.exit: path terminates" }

// explodedNode is one dequeued work item: a program point paired with a
// state, plus the two flags that affect how step() treats it without
// being part of the state's own observable identity.
type explodedNode struct {
	point ProgramPoint
	state ProgramState

	// exitPath is true while this node's lineage is traversing a
	// finally block on an exceptional/early-exit route.
	exitPath bool

	// yielded is true once a yield has already been registered for
	// this lineage by an explicit return/throw terminator, so arm 1 of
	// step() does not synthesize a second, implicit one when the path
	// reaches the method's exit block.
	yielded bool
}

// nodeKey is explodedNode's interning key: two enqueues whose point,
// state-equivalence-class, exitPath and yielded flag all agree collapse
// onto the same node; a later enqueue is then a no-op.
type nodeKey struct {
	point    ProgramPoint
	key      equalityKey
	exitPath bool
	yielded  bool
}

// Walker is the worklist driver that interprets a method's CFG against
// a program state, handling branches, calls, and exceptions, and
// enforcing the step/fork bounds. One Walker is reused across methods;
// all per-method mutable bookkeeping lives in the
// unexported `walk` it constructs for each Execute call.
type Walker struct {
	bounds     Bounds
	dispatcher *Dispatcher
	registry   *Registry
	exceptions *ExceptionWalker
	logger     logr.Logger
}

// NewWalker returns a Walker enforcing bounds, dispatching to the given
// checker pipeline, reading/writing method behaviors in registry, and
// routing thrown exceptions via exceptions.
func NewWalker(bounds Bounds, dispatcher *Dispatcher, registry *Registry, exceptions *ExceptionWalker) *Walker {
	return &Walker{
		bounds:     bounds,
		dispatcher: dispatcher,
		registry:   registry,
		exceptions: exceptions,
		logger:     discardLogger,
	}
}

// SetLogger installs a structured logger; the zero value keeps logging
// discarded.
func (w *Walker) SetLogger(l logr.Logger) { w.logger = l }

// walk holds one Execute call's transient state: the worklist, the node
// cache, the method behavior under construction, and the collaborators
// needed to interpret one method's elements. It is discarded in full
// when Execute returns.
type walk struct {
	*Walker

	method   MethodSymbol
	cfg      CFG
	oracle   SymbolOracle
	liveness LivenessOracle
	cm       *ConstraintManager
	behavior *MethodBehavior

	seen     map[nodeKey]bool
	worklist []explodedNode
	steps    int
	exitBlk  Block
	exitSet  bool
}

// Execute runs the walker to completion over one method. It returns StepOK once every reachable path has terminated
// (return/throw-uncaught/sink/fallthrough) within bounds, or the
// terminating bound that aborted the analysis early.
func (w *Walker) Execute(cfg CFG, method MethodSymbol, oracle SymbolOracle, liveness LivenessOracle) StepOutcome {
	wk := &walk{
		Walker:   w,
		method:   method,
		cfg:      cfg,
		oracle:   oracle,
		liveness: liveness,
		cm:       NewConstraintManager(w.bounds),
		behavior: NewMethodBehavior(method),
		seen:     make(map[nodeKey]bool),
	}
	w.registry.Put(method, wk.behavior)
	w.dispatcher.Init(method)

	for _, state := range wk.startingStates() {
		wk.enqueue(ProgramPoint{Block: cfg.Entry(), Index: 0}, state, false, false)
	}

	outcome := StepOK
loop:
	for len(wk.worklist) > 0 {
		node := wk.pop()
		wk.steps++

		if wk.steps > w.bounds.MaxSteps {
			outcome = StepBoundExceeded
			break loop
		}
		if wk.steps+len(wk.worklist) > w.bounds.MaxSteps/2 && node.state.ConstraintsSize() > w.bounds.MaxConstraintsSize {
			outcome = StepOversizeState
			break loop
		}

		if err := wk.step(node); err != nil {
			if _, ok := err.(errTooManyNestedBooleanStates); ok {
				outcome = StepOversizeState
				break loop
			}
			panic(err)
		}
	}

	if outcome != StepOK {
		logBoundTrip(w.logger, method, outcome)
		w.dispatcher.ExceptionEndOfExecution(method)
		return outcome
	}

	w.dispatcher.EndOfExecution(method)
	return StepOK
}

func (wk *walk) pop() explodedNode {
	n := len(wk.worklist) - 1
	node := wk.worklist[n]
	wk.worklist = wk.worklist[:n]
	return node
}

// enqueue adds (point, state) to the worklist, subject to the visit
// bound and node interning.
func (wk *walk) enqueue(point ProgramPoint, state ProgramState, exitPath, yielded bool) {
	visited := state.NumberOfTimesVisited(point) + 1
	if visited > wk.bounds.MaxExecProgramPoint {
		return
	}
	state = state.VisitedPoint(point, visited)

	key := nodeKey{point: point, key: state.equalityKey(), exitPath: exitPath, yielded: yielded}
	if wk.seen[key] {
		return
	}
	wk.seen[key] = true
	wk.worklist = append(wk.worklist, explodedNode{point: point, state: state, exitPath: exitPath, yielded: yielded})
}

// startingStates builds the initial states at the CFG entry. A
// Nullable/CheckForNull parameter, and the single parameter of an
// equals(Object) method whatever its annotations, is split into a NULL
// and a NOT_NULL starting state; any other Nonnull parameter starts
// NOT_NULL.
func (wk *walk) startingStates() []ProgramState {
	states := []ProgramState{EmptyState()}
	params := wk.method.Parameters()
	isEqualsMethod := wk.method.Name() == "equals" && len(params) == 1

	for _, p := range params {
		sv := wk.cm.CreateSymbolicValue(SyntaxIdentifier)
		wk.behavior.AddParameter(p, sv)

		nonnull := wk.oracle.HasAnnotation(p, "javax.annotation.Nonnull")
		nullable := wk.oracle.HasAnnotation(p, "javax.annotation.Nullable") ||
			wk.oracle.HasAnnotation(p, "javax.annotation.CheckForNull")

		var next []ProgramState
		for _, st := range states {
			st = st.Put(p, sv)
			switch {
			case nullable || isEqualsMethod:
				next = append(next,
					wk.cm.SetSingleConstraint(st, sv, Null),
					wk.cm.SetSingleConstraint(st, sv, NotNull))
			case nonnull:
				next = append(next, wk.cm.SetSingleConstraint(st, sv, NotNull))
			default:
				next = append(next, st)
			}
		}
		states = next
	}
	return states
}

// methodExitBlock locates the CFG's designated exit block by BFS from
// the entry, caching the result for the rest of this walk. cfg.go does
// not expose a direct accessor (only Entry()), so the walker discovers
// it the same way a CFG consumer must: by walking successors/exit-block
// edges until it finds the block the provider marked terminal.
func (wk *walk) methodExitBlock() Block {
	if wk.exitSet {
		return wk.exitBlk
	}
	wk.exitSet = true

	visited := map[int]bool{}
	queue := []Block{wk.cfg.Entry()}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if b == nil || visited[b.ID()] {
			continue
		}
		visited[b.ID()] = true
		if b.IsMethodExitBlock() {
			wk.exitBlk = b
			return b
		}
		queue = append(queue, b.Successors()...)
		if eb := b.ExitBlock(); eb != nil {
			queue = append(queue, eb)
		}
	}
	return nil
}

// step dispatches one dequeued node.
func (wk *walk) step(node explodedNode) error {
	block := node.point.Block
	index := node.point.Index

	if len(block.Successors()) == 0 || block.IsMethodExitBlock() {
		wk.dispatcher.EndOfExecutionPath(node.state, node.point, wk.method, wk.oracle, wk.cm)
		if !node.yielded {
			wk.synthesizeFallthroughYield(node.state)
		}
		return nil
	}

	elements := block.Elements()
	switch {
	case index < len(elements):
		logStep(wk.logger, node.point, elements[index].Kind())
		return wk.interpretStep(block, elements[index], node)

	case block.Terminator() == nil:
		return wk.handleBlockExit(block, nil, node.state, node.exitPath)

	case index == len(elements):
		// pre_statement(terminator) fires first and may sink the path (e.g.
		// a guard against a definitely-null receiver in a call that also
		// terminates the block); whatever survives runs through
		// post_statement(terminator), then handle_block_exit. A second pass
		// over the same (point, state) could never produce a distinct node
		// under node interning, so there's no separate index-overflow case
		// to handle — see `enqueue`.
		preStates := wk.dispatcher.PreStatement([]ProgramState{node.state}, node.point, wk.method, wk.oracle, wk.cm, block.Terminator())
		if len(preStates) == 0 {
			wk.synthesizeSinkException(node.state, node.point)
			return nil
		}
		for _, ps := range preStates {
			states := wk.dispatcher.PostStatement([]ProgramState{ps}, node.point, wk.method, wk.oracle, wk.cm, block.Terminator())
			for _, s := range states {
				if err := wk.handleBlockExit(block, block.Terminator(), s, node.exitPath); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return newInvariantError(wk.method.Name(), node.point, "program point index %d exceeds dispatch range (%d elements)", index, len(elements))
	}
}

// synthesizeFallthroughYield registers the implicit yield for a path
// that reached method exit without going through an explicit return or
// throw terminator.
func (wk *walk) synthesizeFallthroughYield(state ProgramState) {
	switch {
	case wk.method.IsConstructor():
		thisSV := wk.cm.CreateSymbolicValue(SyntaxIdentifier)
		state = wk.cm.SetSingleConstraint(state, thisSV, NotNull)
		wk.behavior.AddYield(state, thisSV, false, false)
	default:
		// Void methods fall through with no value; a non-void method
		// reaching exit with no prior return is an unreachable-CFG edge
		// or a bug in the analyzed program — either way there is no
		// oracle-given type to fabricate a result SV from, so this is
		// recorded the same as a void exit.
		wk.behavior.AddVoidYield(state)
	}
}

// synthesizeSinkException handles a PreStatement veto (e.g.
// NullDereference rejecting a definitely-null receiver before the
// element it guards is ever interpreted): mints a NullPointerException
// SV, pushes it, and records the path's exceptional yield, the same way
// handleThrow does for a source-level throw. The path stops here; there
// is no successor to enqueue.
func (wk *walk) synthesizeSinkException(state ProgramState, point ProgramPoint) {
	excSV := wk.cm.CreateSymbolicExceptionValue("java.lang.NullPointerException")
	state = state.StackValue(excSV)
	wk.behavior.AddYield(state, excSV, true, false)
	wk.dispatcher.ExceptionEndOfExecutionPath(state, point, wk.method, wk.oracle, wk.cm, excSV)
}

// interpretStep runs the pre_statement/interpret/post_statement
// sequence for one regular (non-terminator) element.
func (wk *walk) interpretStep(block Block, element Tree, node explodedNode) error {
	point := node.point
	preStates := wk.dispatcher.PreStatement([]ProgramState{node.state}, point, wk.method, wk.oracle, wk.cm, element)
	if len(preStates) == 0 {
		wk.synthesizeSinkException(node.state, point)
		return nil
	}

	for _, s := range preStates {
		results, err := wk.interpretElement(element, s, point)
		if err != nil {
			if _, ok := err.(errSystemExit); ok {
				continue // sink: this path simply ends, nothing enqueued.
			}
			return err
		}
		if len(results) == 0 {
			continue // e.g. a call site with no compatible yield.
		}

		postStates := wk.dispatcher.PostStatement(results, point, wk.method, wk.oracle, wk.cm, element)
		if et, ok := element.(ExpressionStatementTree); ok && et.IsExpressionStatementParent() {
			for i := range postStates {
				postStates[i] = postStates[i].ClearStack()
			}
		}
		for _, s2 := range postStates {
			wk.enqueue(ProgramPoint{Block: block, Index: point.Index + 1}, s2, node.exitPath, false)
		}
	}
	return nil
}

// interpretElement transforms one state through a single element's
// stack/binding effect. Most rows produce exactly one
// successor state; method invocation may produce many (one per
// compatible yield) or none (sink, or no yield replays).
func (wk *walk) interpretElement(element Tree, state ProgramState, point ProgramPoint) ([]ProgramState, error) {
	cm := wk.cm
	oracle := wk.oracle
	one := func(s ProgramState) ([]ProgramState, error) { return []ProgramState{s}, nil }

	switch element.Kind() {
	case ElementIntLiteral, ElementLongLiteral, ElementFloatLiteral, ElementDoubleLiteral, ElementCharLiteral, ElementStringLiteral:
		sv := cm.CreateSymbolicValue(SyntaxLiteral)
		state = cm.SetSingleConstraint(state, sv, NotNull)
		return one(state.StackValue(sv))

	case ElementBooleanLiteral:
		if lb, ok := element.(LiteralConditionTree); ok && !lb.LiteralBoolValue() {
			return one(state.StackValue(FALSE))
		}
		return one(state.StackValue(TRUE))

	case ElementNullLiteral:
		return one(state.StackValue(NULL))

	case ElementIdentifier:
		symbol, ok := oracle.SymbolOf(element)
		if !ok {
			return nil, newInvariantError(wk.method.Name(), point, "identifier element carries no symbol")
		}
		sv, ok := state.Get(symbol)
		if !ok {
			sv = cm.CreateSymbolicValue(SyntaxIdentifier)
			state = state.Put(symbol, sv)
		}
		return one(state.StackValue(sv))

	case ElementMemberSelect:
		if dc, ok := element.(DotClassTree); ok && dc.IsDotClass() {
			return one(state.StackValue(cm.CreateSymbolicValue(SyntaxUnknown)))
		}
		state, _ = state.Unstack(1)
		return one(state.StackValue(cm.CreateSymbolicValue(SyntaxUnknown)))

	case ElementArrayAccess:
		state, _ = state.Unstack(2)
		return one(state.StackValue(cm.CreateSymbolicValue(SyntaxUnknown)))

	case ElementNewObject, ElementNewArray:
		n := 0
		if at, ok := element.(ArityTree); ok {
			n = at.Arity()
		}
		state, _ = state.Unstack(n)
		kind := SyntaxNewObject
		if element.Kind() == ElementNewArray {
			kind = SyntaxNewArray
		}
		sv := cm.CreateSymbolicValue(kind)
		state = cm.SetSingleConstraint(state, sv, NotNull)
		return one(state.StackValue(sv))

	case ElementBinaryArithmetic, ElementBinaryLogical:
		state, ops := state.Unstack(2)
		sv := cm.CreateRelationalSymbolicValue(SyntaxBinary, ops[1], ops[0])
		return one(state.StackValue(sv))

	case ElementBinaryRelational:
		state, ops := state.Unstack(2)
		kind := relationalKind(element)
		sv := cm.CreateRelationalSymbolicValue(kind, ops[1], ops[0])
		// An operand compared against itself is decided at creation
		// time rather than waiting for a branch to assert it — nothing
		// ever asks assume_dual about this SV if it is only ever
		// returned, never branched on.
		if ops[0] == ops[1] {
			switch kind {
			case SyntaxEqual:
				state = cm.SetSingleConstraint(state, sv, BoolTrue)
			case SyntaxNotEqual:
				state = cm.SetSingleConstraint(state, sv, BoolFalse)
			}
		}
		return one(state.StackValue(sv))

	case ElementUnary:
		state, ops := state.Unstack(1)
		kind := unaryKind(element)
		sv := cm.CreateRelationalSymbolicValue(kind, ops[0])
		if kind == SyntaxLogicalNot {
			if operandBool, ok := state.ConstraintsOf(ops[0]).Get(KindBoolean); ok {
				flipped := BoolTrue
				if operandBool.Value == ValueTrue {
					flipped = BoolFalse
				}
				state = cm.SetSingleConstraint(state, sv, flipped)
			}
		}
		return one(state.StackValue(sv))

	case ElementPrefixIncDec, ElementPostfixIncDec:
		state, ops := state.Unstack(1)
		original := ops[0]
		symbol, ok := oracle.SymbolOf(element)
		if !ok {
			return nil, newInvariantError(wk.method.Name(), point, "inc/dec element carries no target symbol")
		}
		updated := cm.CreateSymbolicValue(SyntaxUnknown)
		state = state.Put(symbol, updated)
		if element.Kind() == ElementPostfixIncDec {
			return one(state.StackValue(original))
		}
		return one(state.StackValue(updated))

	case ElementAssignment:
		state, ops := state.Unstack(2)
		rhs := ops[0]
		// Only an identifier LHS updates a binding; array/field LHS are
		// opaque no-ops that still produce the assigned value for stack
		// arity.
		if symbol, ok := oracle.SymbolOf(element); ok {
			state = state.Put(symbol, rhs)
		}
		return one(state.StackValue(rhs))

	case ElementCompoundAssignment:
		state, ops := state.Unstack(2)
		lhs, rhs := ops[1], ops[0]
		result := cm.CreateRelationalSymbolicValue(SyntaxBinary, lhs, rhs)
		if symbol, ok := oracle.SymbolOf(element); ok {
			state = state.Put(symbol, result)
		}
		return one(state.StackValue(result))

	case ElementTypeCastPrimitive:
		state, _ = state.Unstack(1)
		return one(state.StackValue(cm.CreateSymbolicValue(SyntaxUnknown)))

	case ElementTypeCastReference:
		return one(state) // passes its operand through unchanged.

	case ElementVariableDeclWithInit:
		state, ops := state.Unstack(1)
		symbol, ok := oracle.SymbolOf(element)
		if !ok {
			return nil, newInvariantError(wk.method.Name(), point, "variable-decl element carries no symbol")
		}
		return one(state.Put(symbol, ops[0]))

	case ElementVariableDeclNoInit:
		symbol, ok := oracle.SymbolOf(element)
		if !ok {
			return one(state)
		}
		if fe, ok := element.(ForEachVariableDecl); ok && fe.IsForEachIterationVariable() {
			return one(state.Put(symbol, cm.CreateSymbolicValue(SyntaxUnknown)))
		}
		if oracle.IsBooleanType(element) {
			return one(state.Put(symbol, FALSE))
		}
		if oracle.IsReferenceType(element) {
			return one(state.Put(symbol, NULL))
		}
		return one(state) // primitive, left unbound.

	case ElementMethodInvocation:
		return wk.interpretMethodInvocation(element, state, point)

	case ElementLambdaOrMethodRef:
		return one(state.StackValue(cm.CreateSymbolicValue(SyntaxUnknown)))

	case ElementSystemExit:
		return nil, errSystemExit{}

	default:
		return nil, newInvariantError(wk.method.Name(), point, "unexpected element kind %d", element.Kind())
	}
}

// relationalKind picks the SyntaxKind recorded for a binary-relational
// element, distinguishing equality (which AssumeDual propagates
// implications for) from ordering comparisons (which it does not).
func relationalKind(element Tree) SyntaxKind {
	if rk, ok := element.(relationalOpTree); ok {
		if rk.IsNotEqual() {
			return SyntaxNotEqual
		}
		if rk.IsEqual() {
			return SyntaxEqual
		}
	}
	return SyntaxBinary
}

// unaryKind picks the SyntaxKind for a unary element, distinguishing
// logical-not and instanceof (which AssumeDual treats specially) from
// every other unary operator.
func unaryKind(element Tree) SyntaxKind {
	if uk, ok := element.(unaryOpTree); ok {
		if uk.IsLogicalNot() {
			return SyntaxLogicalNot
		}
		if uk.IsInstanceOf() {
			return SyntaxInstanceOf
		}
	}
	return SyntaxUnaryOther
}

// relationalOpTree and unaryOpTree are further optional Tree interfaces
// (see element.go), kept local to walker.go since nothing outside the
// interpreter's own dispatch needs to know about them.
type relationalOpTree interface {
	Tree
	IsEqual() bool
	IsNotEqual() bool
}

type unaryOpTree interface {
	Tree
	IsLogicalNot() bool
	IsInstanceOf() bool
}

// heapEscapingSentinels names callees whose invocation is known to
// alias onto the receiver's fields regardless of what the oracle
// reports: a monitor wait can resume with fields mutated by another
// thread, so conservatively invalidating them is the only sound answer.
var heapEscapingSentinels = map[string]bool{
	"wait": true, "notify": true, "notifyAll": true,
}

// interpretMethodInvocation handles a method-invocation element,
// threading the call through the behavior registry's replay algorithm.
func (wk *walk) interpretMethodInvocation(element Tree, state ProgramState, point ProgramPoint) ([]ProgramState, error) {
	mi, ok := element.(MethodInvocationTree)
	if !ok {
		return nil, newInvariantError(wk.method.Name(), point, "method-invocation element missing MethodInvocationTree")
	}

	n := mi.ArgCount()
	state, popped := state.Unstack(n + 1)
	receiver := popped[n]
	_ = receiver
	args := make([]*SymbolicValue, n)
	for i := 0; i < n; i++ {
		args[i] = popped[n-1-i]
	}

	if mi.IsLocalCall() {
		state = state.ResetFieldValues(wk.oracle)
	}

	callee := mi.Method()
	if callee == nil {
		resultSV := wk.cm.CreateSymbolicValue(SyntaxMethodCall)
		return []ProgramState{DefaultResultState(wk.cm, state, resultSV, false, false, wk.oracle)}, nil
	}

	behavior := wk.registry.Get(callee)
	if behavior == nil || len(behavior.Yields()) == 0 {
		isNonNull := wk.oracle.HasAnnotation(callee, "javax.annotation.Nonnull")
		heapEscaping := heapEscapingSentinels[callee.Name()]
		resultSV := wk.cm.CreateSymbolicValue(SyntaxMethodCall)
		return []ProgramState{DefaultResultState(wk.cm, state, resultSV, isNonNull, heapEscaping, wk.oracle)}, nil
	}

	resultSV := wk.cm.CreateSymbolicValue(SyntaxMethodCall)
	next := behavior.InvocationYields(state, args, resultSV, wk.oracle)
	if len(next) == 0 {
		wk.dispatcher.ObserveNoYield(state, point, wk.method, wk.oracle, wk.cm, element, callee, behavior.NoYieldIssueIsNullness(state, args))
		return nil, nil
	}
	return next, nil
}

// handleBlockExit runs cleanup then dispatches on the terminator kind
//. terminator is nil
// for a fallthrough block with no explicit terminator.
func (wk *walk) handleBlockExit(block Block, terminator Tree, state ProgramState, exitPath bool) error {
	live := wk.liveness.LiveOut(block).Union(wk.behavior.InterfaceSymbols())
	state = state.CleanupDeadSymbols(live).CleanupConstraints()

	if terminator == nil {
		wk.enqueueSuccessors(block, state, exitPath)
		return nil
	}

	kind := terminator.Kind()
	switch {
	case kind.IsBranchTerminator():
		return wk.handleBranch(block, terminator, state, exitPath)
	case kind == ElementReturnTerminator:
		wk.handleReturn(block, state)
		return nil
	case kind == ElementThrowTerminator:
		wk.handleThrow(block, terminator, state)
		return nil
	case kind == ElementSynchronizedTerminator:
		state = state.ResetFieldValues(wk.oracle)
		wk.enqueueSuccessors(block, state, exitPath)
		return nil
	default: // ElementUnconditionalTerminator and anything else falls through.
		wk.enqueueSuccessors(block, state, exitPath)
		return nil
	}
}

// enqueueSuccessors enqueues state at every successor of block, index 0, special-
// casing a finally block on an exit-path route: only its designated
// exit-block successor is on the originating route.
func (wk *walk) enqueueSuccessors(block Block, state ProgramState, exitPath bool) {
	if exitPath && block.IsFinallyBlock() {
		if eb := block.ExitBlock(); eb != nil {
			wk.enqueue(ProgramPoint{Block: eb, Index: 0}, state, exitPath, false)
			return
		}
	}
	for _, succ := range block.Successors() {
		wk.enqueue(ProgramPoint{Block: succ, Index: 0}, state, exitPath, false)
	}
}

// handleBranch implements assume_dual-driven branching.
func (wk *walk) handleBranch(block Block, terminator Tree, state ProgramState, exitPath bool) error {
	falseStates, trueStates, err := wk.cm.AssumeDual(state)
	if err != nil {
		return err
	}
	logFork(wk.logger, ProgramPoint{Block: block}, len(falseStates), len(trueStates))

	checkPath := wk.checkPathFor(terminator)
	wk.dispatcher.ObserveBranch(state, ProgramPoint{Block: block}, wk.method, wk.oracle, wk.cm, terminator, len(falseStates) > 0, len(trueStates) > 0, checkPath)

	for _, s := range falseStates {
		wk.enqueue(ProgramPoint{Block: block.FalseSuccessor(), Index: 0}, s.StackValue(FALSE), exitPath, false)
	}
	for _, s := range trueStates {
		wk.enqueue(ProgramPoint{Block: block.TrueSuccessor(), Index: 0}, s.StackValue(TRUE), exitPath, false)
	}
	return nil
}

// checkPathFor decides the checkPath flag BranchObservers receive for a
// branch terminator, i.e. whether it may be reported as
// always-true/false: a `for` with no condition and a literal boolean
// condition are both exempt.
func (wk *walk) checkPathFor(terminator Tree) bool {
	if terminator.Kind() == ElementForTerminator {
		if nc, ok := terminator.(NoConditionTree); ok && nc.HasNoCondition() {
			return false
		}
	}
	if lc, ok := terminator.(LiteralConditionTree); ok && lc.IsLiteralCondition() {
		return false
	}
	return true
}

// handleReturn implements `return`'s unconditional-exit handling.
func (wk *walk) handleReturn(block Block, state ProgramState) {
	var resultSV *SymbolicValue
	if !wk.method.IsVoid() {
		var popped []*SymbolicValue
		state, popped = state.Unstack(1)
		resultSV = popped[0]
	}
	if wk.method.IsConstructor() {
		thisSV := wk.cm.CreateSymbolicValue(SyntaxIdentifier)
		state = wk.cm.SetSingleConstraint(state, thisSV, NotNull)
		resultSV = thisSV
	}
	if resultSV == nil {
		wk.behavior.AddVoidYield(state)
	} else {
		wk.behavior.AddYield(state, resultSV, false, false)
	}
	for _, succ := range block.Successors() {
		wk.enqueue(ProgramPoint{Block: succ, Index: 0}, state, false, true)
	}
}

// handleThrow implements `throw`'s unconditional-exit handling and
// routes the thrown value via the exception walker.
func (wk *walk) handleThrow(block Block, terminator Tree, state ProgramState) {
	state, _ = state.Unstack(1)

	excType := ""
	if et, ok := terminator.(ExceptionTypeTree); ok {
		excType = et.ExceptionType()
	}
	excSV := wk.cm.CreateSymbolicExceptionValue(excType)
	state = state.StackValue(excSV)

	target, handler := wk.exceptions.Route(terminator, excType)
	switch target {
	case ExceptionToCatch:
		wk.enqueue(ProgramPoint{Block: handler, Index: 0}, state, false, false)
	case ExceptionToFinally:
		wk.enqueue(ProgramPoint{Block: handler, Index: 0}, state, true, false)
	default:
		wk.behavior.AddYield(state, excSV, true, false)
		wk.dispatcher.ExceptionEndOfExecutionPath(state, ProgramPoint{Block: block}, wk.method, wk.oracle, wk.cm, excSV)
		if exit := wk.methodExitBlock(); exit != nil {
			wk.enqueue(ProgramPoint{Block: exit, Index: 0}, state, false, true)
		}
	}
}
