package segraph

import "fmt"

// SyntaxKind tags the syntactic operation a SymbolicValue was minted for,
// enabling constraint inference in AssumeDual (e.g. asserting an EQ
// result true yields a relational fact between its two operands).
type SyntaxKind int

const (
	SyntaxUnknown SyntaxKind = iota
	SyntaxLiteral
	SyntaxIdentifier
	SyntaxEqual
	SyntaxNotEqual
	SyntaxLogicalNot
	SyntaxInstanceOf
	SyntaxMethodCall
	SyntaxNewObject
	SyntaxNewArray
	SyntaxBinary
	SyntaxUnaryOther
	SyntaxException
)

// svIDSeq is a process-wide monotonic counter used only to give
// SymbolicValues a stable, comparable identity for hashing (see
// svHasher in state.go) without requiring callers to compare pointers
// directly. It is not exposed.
var svIDSeq uint64

// SymbolicValue is an opaque identity token for a runtime value.
// Non-singleton values are minted fresh at each creation site; NULL,
// TRUE, FALSE are process-wide singletons.
type SymbolicValue struct {
	id   uint64
	kind SyntaxKind

	// operands records the computed_from relation: the SVs
	// this value was computed from, in operand order. Empty for
	// literals, identifiers, and the three singletons.
	operands []*SymbolicValue

	// exceptionType is set only for SVs minted by
	// CreateSymbolicExceptionValue; it names the thrown exception's
	// fully-qualified type for ExceptionWalker's catch-clause matching.
	exceptionType string

	label string // debug-only, e.g. "NULL", "TRUE", "sv#42"
}

// Well-known singletons. Constraints are attached to these in
// state.go's EmptyState so every state starts with NULL's nullness and
// TRUE's/FALSE's boolean value already fixed.
var (
	NULL  = &SymbolicValue{id: 1, kind: SyntaxLiteral, label: "NULL"}
	TRUE  = &SymbolicValue{id: 2, kind: SyntaxLiteral, label: "TRUE"}
	FALSE = &SymbolicValue{id: 3, kind: SyntaxLiteral, label: "FALSE"}
)

func init() {
	// Singletons occupy ids 1-3; fresh() starts past them so no
	// non-singleton SV ever collides with a singleton's id.
	svIDSeq = 3
}

// fresh mints a new, uniquely-identified SymbolicValue of the given kind.
func fresh(kind SyntaxKind) *SymbolicValue {
	svIDSeq++
	return &SymbolicValue{id: svIDSeq, kind: kind}
}

// NewSymbolicValue mints a fresh SV for a generic creation site. The
// syntax token itself is not retained — only its kind — since the core
// only needs positions for issue reporting, which checkers already get
// from the Tree passed to their hooks.
func NewSymbolicValue(kind SyntaxKind) *SymbolicValue {
	return fresh(kind)
}

// NewExceptionSymbolicValue mints a dedicated SV subclass carrying the
// thrown type. The walker
// detects it via IsException on top-of-stack to initiate exceptional
// propagation.
func NewExceptionSymbolicValue(exceptionType string) *SymbolicValue {
	sv := fresh(SyntaxException)
	sv.exceptionType = exceptionType
	return sv
}

// IsException reports whether sv was minted by NewExceptionSymbolicValue.
func (sv *SymbolicValue) IsException() bool {
	return sv.kind == SyntaxException
}

// ExceptionType returns the thrown type name, or "" if sv is not an
// exception value.
func (sv *SymbolicValue) ExceptionType() string {
	return sv.exceptionType
}

// Kind returns the syntactic kind this SV was minted for.
func (sv *SymbolicValue) Kind() SyntaxKind {
	return sv.kind
}

// ComputedFrom records operand provenance. Called once at
// creation; operands are returned by Operands for relational inference.
func (sv *SymbolicValue) ComputedFrom(operands ...*SymbolicValue) *SymbolicValue {
	sv.operands = operands
	return sv
}

// Operands returns the SVs sv was computed from, or nil.
func (sv *SymbolicValue) Operands() []*SymbolicValue {
	return sv.operands
}

// IsSingleton reports whether sv is one of NULL, TRUE, FALSE.
func (sv *SymbolicValue) IsSingleton() bool {
	return sv == NULL || sv == TRUE || sv == FALSE
}

// ID returns sv's process-wide unique identity, used only for hashing in
// persistent maps (state.go) and debug output. It carries no semantic
// meaning on its own.
func (sv *SymbolicValue) ID() uint64 {
	return sv.id
}

// String implements fmt.Stringer for debug dumps (log.go's logDebugDump).
func (sv *SymbolicValue) String() string {
	if sv.label != "" {
		return sv.label
	}
	if sv.IsException() {
		return fmt.Sprintf("sv#%d<throw %s>", sv.id, sv.exceptionType)
	}
	return fmt.Sprintf("sv#%d", sv.id)
}
