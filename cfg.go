package segraph

import "go/token"

// Tree is the analyzed language's syntax node. The core treats it as
// opaque beyond source position and identity; kind dispatch for element
// interpretation happens through ElementKind (see walker.go), which the
// CFG provider attaches out of band via Block.Elements ordering and the
// SymbolOracle.
type Tree interface {
	// Pos returns the position of the tree in the analyzed source, used
	// only for issue reporting and debug logging.
	Pos() token.Pos

	// Kind identifies which row of the element-interpretation table
	// this tree corresponds to.
	Kind() ElementKind
}

// Block is one basic block of a method's control-flow graph.
type Block interface {
	ID() int

	// Elements returns the ordered sequence of non-terminator trees in
	// this block.
	Elements() []Tree

	// Terminator returns the block's terminating tree (branch, return,
	// throw, synchronized-block header, ...), or nil if the block falls
	// through unconditionally.
	Terminator() Tree

	// Successors returns every successor block. For a conditional
	// terminator this is exactly {FalseSuccessor(), TrueSuccessor()}.
	Successors() []Block

	// TrueSuccessor/FalseSuccessor are meaningful only when Terminator
	// is a conditional (if/&&/||/?:/for/while/do).
	TrueSuccessor() Block
	FalseSuccessor() Block

	// ExitBlock returns the finally-exit block reachable from this
	// block, or nil.
	ExitBlock() Block

	IsFinallyBlock() bool
	IsMethodExitBlock() bool
}

// CFG is an ordered set of blocks produced by an external CFG provider.
type CFG interface {
	Entry() Block

	// MethodName/ClassName are used only for error context and logging.
	MethodName() string
	ClassName() string
}

// Symbol is an opaque handle for an analyzed-language symbol (local
// variable, parameter, or field). Equality must be reliable: two Symbol
// values referring to the same analyzed-language entity must compare
// equal with ==.
type Symbol interface {
	// Name is used only for debug logging and issue messages.
	Name() string
}

// SymbolSet is an unordered collection of symbols, as returned by
// LivenessOracle.LiveOut.
type SymbolSet map[Symbol]struct{}

// NewSymbolSet returns a SymbolSet containing the given symbols.
func NewSymbolSet(symbols ...Symbol) SymbolSet {
	s := make(SymbolSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}

// Union returns a new SymbolSet containing every symbol in s or other.
func (s SymbolSet) Union(other SymbolSet) SymbolSet {
	out := make(SymbolSet, len(s)+len(other))
	for sym := range s {
		out[sym] = struct{}{}
	}
	for sym := range other {
		out[sym] = struct{}{}
	}
	return out
}

// Contains returns true if sym is a member of s.
func (s SymbolSet) Contains(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// LivenessOracle reports, per block, which symbols are live on exit.
// Required input for cleanup_dead_symbols.
type LivenessOracle interface {
	LiveOut(b Block) SymbolSet
}

// SymbolOracle classifies tree nodes and reports annotations. The core
// never resolves names itself.
type SymbolOracle interface {
	// SymbolOf returns the symbol an identifier/declaration tree refers
	// to, if any.
	SymbolOf(t Tree) (Symbol, bool)

	IsField(s Symbol) bool
	IsParameter(s Symbol) bool

	// IsBooleanType reports whether the static type of an expression
	// tree is the analyzed language's boolean primitive.
	IsBooleanType(t Tree) bool

	// IsReferenceType reports whether the static type of an expression
	// or declaration tree is a reference (non-primitive) type.
	IsReferenceType(t Tree) bool

	// HasAnnotation reports whether symbol s carries the annotation
	// named by its fully qualified name (e.g. "javax.annotation.Nonnull").
	HasAnnotation(s Symbol, fqn string) bool
}

// MethodSymbol identifies a callable method, used as the
// MethodBehaviorRegistry's key.
type MethodSymbol interface {
	Symbol
	IsConstructor() bool
	IsVoid() bool
	Parameters() []Symbol
}
