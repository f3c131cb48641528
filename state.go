package segraph

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/benbjohnson/immutable"
)

// symbolHasher hashes Symbol values by identity. Symbol is required to
// compare reliably with == (cfg.go); a package-level identity table
// assigns each distinct Symbol a stable integer the first time it is
// seen, avoiding any assumption about the CFG provider's concrete
// Symbol representation (pointer, interned string, etc).
type symbolHasher struct{}

var (
	symbolIDMu  sync.Mutex
	symbolIDs   = make(map[Symbol]uint32)
	symbolIDSeq uint32
)

func symbolID(s Symbol) uint32 {
	symbolIDMu.Lock()
	defer symbolIDMu.Unlock()
	if id, ok := symbolIDs[s]; ok {
		return id
	}
	symbolIDSeq++
	symbolIDs[s] = symbolIDSeq
	return symbolIDSeq
}

func (symbolHasher) Hash(value interface{}) uint32 {
	return symbolID(value.(Symbol))
}

func (symbolHasher) Equal(a, b interface{}) bool {
	return a.(Symbol) == b.(Symbol)
}

// svHasher hashes *SymbolicValue keys by their process-wide id, the
// constraints map's key type.
type svHasher struct{}

func (svHasher) Hash(value interface{}) uint32 {
	sv := value.(*SymbolicValue)
	return uint32(sv.id) ^ uint32(sv.id>>32)
}

func (svHasher) Equal(a, b interface{}) bool {
	return a.(*SymbolicValue) == b.(*SymbolicValue)
}

// ProgramState is the immutable snapshot of bindings, constraints,
// operand stack, and per-path visit counts at one point in the walk.
// Every transformation returns a new ProgramState; the underlying
// immutable.Map tries share structure across transformations, a
// hash-trie keyed by
// Symbol and *SymbolicValue rather than a sorted heap keyed by uint64
// address.
type ProgramState struct {
	bindings    *immutable.Map // Symbol -> *SymbolicValue
	constraints *immutable.Map // *SymbolicValue -> ConstraintSet
	stack       []*SymbolicValue
	visits      *immutable.Map // ProgramPoint -> int
}

// EmptyState is the starting point for every method's analysis: no
// bindings, no user constraints, empty stack, no visits — but with the
// three singletons' intrinsic constraints already attached.
func EmptyState() ProgramState {
	constraints := immutable.NewMap(svHasher{})
	constraints = constraints.Set(NULL, ConstraintSet{KindNullness: Null})
	constraints = constraints.Set(TRUE, ConstraintSet{KindBoolean: BoolTrue})
	constraints = constraints.Set(FALSE, ConstraintSet{KindBoolean: BoolFalse})
	return ProgramState{
		bindings:    immutable.NewMap(symbolHasher{}),
		constraints: constraints,
		visits:      immutable.NewMap(programPointHasher{}),
	}
}

// StackValue pushes sv on the operand stack.
func (s ProgramState) StackValue(sv *SymbolicValue) ProgramState {
	stack := make([]*SymbolicValue, len(s.stack)+1)
	copy(stack, s.stack)
	stack[len(stack)-1] = sv
	s.stack = stack
	return s
}

// Unstack pops n values from the top of the stack.
// The returned slice is top-first. Panics (invariant violation) if the
// stack is shorter than n.
func (s ProgramState) Unstack(n int) (ProgramState, []*SymbolicValue) {
	if n == 0 {
		return s, nil
	}
	assert(len(s.stack) >= n, "unstack: stack has %d elements, want %d", len(s.stack), n)
	popped := make([]*SymbolicValue, n)
	top := len(s.stack)
	for i := 0; i < n; i++ {
		popped[i] = s.stack[top-1-i]
	}
	s.stack = s.stack[:top-n]
	return s, popped
}

// Peek returns the top-of-stack value, or nil if the stack is empty.
func (s ProgramState) Peek() *SymbolicValue {
	return s.PeekDepth(0)
}

// PeekDepth returns the stack value depth slots below the top (depth 0
// is Peek's value), or nil if the stack is shorter than depth+1. A
// method-invocation element pushes its receiver first and its
// arguments after (ssacfg's push-receiver-then-args lowering), so the
// receiver sits at depth ArgCount() at pre-statement time, not at the
// top.
func (s ProgramState) PeekDepth(depth int) *SymbolicValue {
	i := len(s.stack) - 1 - depth
	if i < 0 {
		return nil
	}
	return s.stack[i]
}

// ClearStack empties the operand stack, invoked after expression
// statements.
func (s ProgramState) ClearStack() ProgramState {
	s.stack = nil
	return s
}

// Put binds symbol to sv. Returns s unchanged if the
// symbol is already bound to the same value, preserving structural
// sharing.
func (s ProgramState) Put(symbol Symbol, sv *SymbolicValue) ProgramState {
	if existing, ok := s.bindings.Get(symbol); ok && existing.(*SymbolicValue) == sv {
		return s
	}
	s.bindings = s.bindings.Set(symbol, sv)
	return s
}

// Get looks up symbol's current binding.
func (s ProgramState) Get(symbol Symbol) (*SymbolicValue, bool) {
	v, ok := s.bindings.Get(symbol)
	if !ok {
		return nil, false
	}
	return v.(*SymbolicValue), true
}

// ConstraintsOf returns the constraint set attached to sv, or an empty
// set if sv carries none.
func (s ProgramState) ConstraintsOf(sv *SymbolicValue) ConstraintSet {
	v, ok := s.constraints.Get(sv)
	if !ok {
		return nil
	}
	return v.(ConstraintSet)
}

// AddConstraint merges c into sv's constraint set via the kind's meet
// function. ok is false if the state
// becomes infeasible (meet is bottom); in that case s is returned
// unchanged and the caller must drop the state.
func (s ProgramState) AddConstraint(sv *SymbolicValue, c Constraint) (ProgramState, bool) {
	existing := s.ConstraintsOf(sv)
	updated, ok := existing.With(c)
	if !ok {
		return s, false
	}
	s.constraints = s.constraints.Set(sv, updated)
	return s, true
}

// ResetFieldValues forgets every binding whose symbol is a field,
// rebinding it to a fresh SV.
func (s ProgramState) ResetFieldValues(oracle SymbolOracle) ProgramState {
	itr := s.bindings.Iterator()
	type rebind struct {
		symbol Symbol
		sv     *SymbolicValue
	}
	var rebinds []rebind
	for !itr.Done() {
		k, v := itr.Next()
		symbol := k.(Symbol)
		if oracle.IsField(symbol) {
			rebinds = append(rebinds, rebind{symbol, v.(*SymbolicValue)})
		}
	}
	for _, r := range rebinds {
		s.bindings = s.bindings.Set(r.symbol, fresh(SyntaxUnknown))
	}
	return s
}

// CleanupDeadSymbols drops bindings whose symbol is not in live. live is
// typically live-out(block) UNION method-behavior-interface-symbols.
func (s ProgramState) CleanupDeadSymbols(live SymbolSet) ProgramState {
	itr := s.bindings.Iterator()
	var drop []Symbol
	for !itr.Done() {
		k, _ := itr.Next()
		symbol := k.(Symbol)
		if !live.Contains(symbol) {
			drop = append(drop, symbol)
		}
	}
	for _, symbol := range drop {
		s.bindings = s.bindings.Delete(symbol)
	}
	return s
}

// CleanupConstraints drops constraints on SVs no longer reachable from
// remaining bindings or the stack,
// except the three singletons, whose intrinsic constraints must always
// be present.
func (s ProgramState) CleanupConstraints() ProgramState {
	reachable := make(map[*SymbolicValue]struct{})
	reachable[NULL] = struct{}{}
	reachable[TRUE] = struct{}{}
	reachable[FALSE] = struct{}{}

	itr := s.bindings.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		markReachable(v.(*SymbolicValue), reachable)
	}
	for _, sv := range s.stack {
		markReachable(sv, reachable)
	}

	citr := s.constraints.Iterator()
	var drop []*SymbolicValue
	for !citr.Done() {
		k, _ := citr.Next()
		sv := k.(*SymbolicValue)
		if _, ok := reachable[sv]; !ok {
			drop = append(drop, sv)
		}
	}
	for _, sv := range drop {
		s.constraints = s.constraints.Delete(sv)
	}
	return s
}

// markReachable walks sv's computed_from chain, marking every operand
// reachable too — an SV's constraints can only be meaningfully
// interpreted alongside the operands it was computed from, mirroring how
// AssumeDual consults operand constraints for relational inference.
func markReachable(sv *SymbolicValue, reachable map[*SymbolicValue]struct{}) {
	if sv == nil {
		return
	}
	if _, ok := reachable[sv]; ok {
		return
	}
	reachable[sv] = struct{}{}
	for _, op := range sv.Operands() {
		markReachable(op, reachable)
	}
}

// VisitedPoint returns a new state recording that pp has been visited
// count times along the current path.
func (s ProgramState) VisitedPoint(pp ProgramPoint, count int) ProgramState {
	s.visits = s.visits.Set(pp, count)
	return s
}

// NumberOfTimesVisited returns how many times pp has been visited along
// this path so far.
func (s ProgramState) NumberOfTimesVisited(pp ProgramPoint) int {
	v, ok := s.visits.Get(pp)
	if !ok {
		return 0
	}
	return v.(int)
}

// ConstraintsSize returns the total number of constraint facts held
// across all SVs, used by the oversize guard.
func (s ProgramState) ConstraintsSize() int {
	total := 0
	itr := s.constraints.Iterator()
	for !itr.Done() {
		_, v := itr.Next()
		total += len(v.(ConstraintSet))
	}
	return total
}

// equalityKey captures the three fields forgetful equality compares: bindings, constraints, and top-of-stack —
// never the rest of the stack, never visits. Two states with an equal
// key are the same exploded-graph node.
type equalityKey struct {
	bindingsFP    string
	constraintsFP string
	peek          *SymbolicValue
}

// Equal implements the forgetful equality contract: S1 == S2
// iff (bindings, constraints, peek) agree.
func (s ProgramState) Equal(other ProgramState) bool {
	return s.equalityKey() == other.equalityKey()
}

// equalityKey computes a comparable fingerprint of the state's
// observable identity. Fingerprinting (rather than comparing the maps
// structurally pair-by-pair) keeps node interning's map lookups O(1)
// amortized; the fingerprint is a sorted dump of (symbol,sv-id) and
// (sv-id,constraint) pairs, which is stable regardless of trie internal
// layout.
func (s ProgramState) equalityKey() equalityKey {
	return equalityKey{
		bindingsFP:    fingerprintBindings(s.bindings),
		constraintsFP: fingerprintConstraints(s.constraints),
		peek:          s.Peek(),
	}
}

func fingerprintBindings(m *immutable.Map) string {
	pairs := make([]string, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		// symbolID, not Name(): two distinct Symbols can share a name
		// (e.g. same-named locals in different scopes), and the
		// bindings map itself is already keyed by symbolHasher's
		// identity, not by name — the fingerprint must agree with it or
		// forgetful equality can over-merge two genuinely different
		// states into one exploded-graph node.
		pairs = append(pairs, fmt.Sprintf("%d=%d", symbolID(k.(Symbol)), v.(*SymbolicValue).ID()))
	}
	return sortedJoin(pairs)
}

func fingerprintConstraints(m *immutable.Map) string {
	pairs := make([]string, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		sv := k.(*SymbolicValue)
		cs := v.(ConstraintSet)
		facts := make([]string, 0, len(cs))
		for _, c := range cs {
			facts = append(facts, c.String())
		}
		pairs = append(pairs, fmt.Sprintf("%d:[%s]", sv.ID(), sortedJoin(facts)))
	}
	return sortedJoin(pairs)
}

// sortedJoin sorts and joins strings deterministically, used only to
// build an order-independent fingerprint from an unordered trie
// iteration.
func sortedJoin(ss []string) string {
	insertionSort(ss)
	var buf bytes.Buffer
	for i, s := range ss {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteString(s)
	}
	return buf.String()
}

// insertionSort sorts small string slices in place. Fingerprints never
// hold more than a handful of live symbols/constraints after cleanup,
// so an O(n^2) sort avoids pulling in sort.Strings for what is, in the
// steady state, a handful of elements.
func insertionSort(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}

// Dump returns a human-readable rendering of the state, for debug
// logging, mirroring ExecutionState.Dump()'s role in the executor.
func (s ProgramState) Dump() string {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "PROGRAM STATE")
	fmt.Fprintln(&buf, "bindings:")
	itr := s.bindings.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		fmt.Fprintf(&buf, "  %s -> %s\n", k.(Symbol).Name(), v.(*SymbolicValue))
	}
	fmt.Fprintln(&buf, "constraints:")
	citr := s.constraints.Iterator()
	for !citr.Done() {
		k, v := citr.Next()
		fmt.Fprintf(&buf, "  %s: %v\n", k.(*SymbolicValue), v.(ConstraintSet))
	}
	fmt.Fprintf(&buf, "stack: %v\n", s.stack)
	return buf.String()
}
