package ssacfg

import (
	"go/token"
	"go/types"

	"github.com/gowalk/segraph"
)

// elem is the single segraph.Tree implementation this package needs.
// Rather than one Go type per element.go optional interface, elem
// implements every optional method unconditionally; which ones the
// core actually calls is governed entirely by Kind(), exactly as
// element.go documents ("a provider that never produces the
// corresponding ElementKind need not implement the matching
// interface" — elem produces several kinds, so it implements all of
// their interfaces rather than picking one per type).
type elem struct {
	kind segraph.ElementKind
	pos  token.Pos

	sym *symbol // SymbolOf target, for identifier/decl/assignment kinds

	isEqual, isNotEqual           bool
	isLogicalNot, isInstanceOf    bool
	litBool, isLiteralCond        bool
	hasNoCond                     bool
	isDotClass                    bool
	isExprStmtParent              bool
	isForEachVar                  bool
	arity                         int
	excType                       string
	call                          *callInfo
	typ                           types.Type // static type, for IsBooleanType/IsReferenceType
}

func (e *elem) Pos() token.Pos            { return e.pos }
func (e *elem) Kind() segraph.ElementKind { return e.kind }

// Most of element.go's optional interfaces are asked for via a type
// assertion against Tree itself, not through a dedicated accessor —
// e.g. segraph.ExceptionTypeTree wants ExceptionType() string directly
// on the Tree. elem implements every one of those methods below.

func (e *elem) IsEqual() bool               { return e.isEqual }
func (e *elem) IsNotEqual() bool            { return e.isNotEqual }
func (e *elem) IsLogicalNot() bool          { return e.isLogicalNot }
func (e *elem) IsInstanceOf() bool          { return e.isInstanceOf }
func (e *elem) LiteralBoolValue() bool      { return e.litBool }
func (e *elem) IsLiteralCondition() bool    { return e.isLiteralCond }
func (e *elem) HasNoCondition() bool        { return e.hasNoCond }
func (e *elem) IsDotClass() bool            { return e.isDotClass }
func (e *elem) IsExpressionStatementParent() bool { return e.isExprStmtParent }
func (e *elem) IsForEachIterationVariable() bool  { return e.isForEachVar }
func (e *elem) Arity() int                  { return e.arity }
func (e *elem) ExceptionType() string       { return e.excType }

// MethodInvocationTree. call is nil on every elem that isn't an
// ElementMethodInvocation; guard against that rather than relying on
// callers to check Kind() before asserting the interface, since the
// interface's method set doesn't depend on Kind().
func (e *elem) ArgCount() int {
	if e.call == nil {
		return 0
	}
	return e.call.argCount
}
func (e *elem) Method() segraph.MethodSymbol {
	if e.call == nil || e.call.callee == nil {
		return nil
	}
	return e.call.callee
}
func (e *elem) IsLocalCall() bool { return e.call != nil && e.call.isLocal }

type callInfo struct {
	argCount int
	callee   *methodSymbol
	isLocal  bool
}

var _ segraph.Tree = (*elem)(nil)
