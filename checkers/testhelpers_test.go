package checkers

import (
	"go/token"

	"github.com/gowalk/segraph"
)

type fakeSymbol struct{ name string }

func (s *fakeSymbol) Name() string { return s.name }

type fakeMethod struct {
	fakeSymbol
	ctor bool
	void bool
}

func (m *fakeMethod) IsConstructor() bool    { return m.ctor }
func (m *fakeMethod) IsVoid() bool           { return m.void }
func (m *fakeMethod) Parameters() []segraph.Symbol { return nil }

type fakeOracle struct {
	symbols     map[segraph.Tree]segraph.Symbol
	annotations map[segraph.Symbol]string
}

func (o *fakeOracle) SymbolOf(t segraph.Tree) (segraph.Symbol, bool) {
	if o.symbols == nil {
		return nil, false
	}
	s, ok := o.symbols[t]
	return s, ok
}
func (o *fakeOracle) IsField(segraph.Symbol) bool     { return false }
func (o *fakeOracle) IsParameter(segraph.Symbol) bool { return false }
func (o *fakeOracle) IsBooleanType(segraph.Tree) bool { return false }
func (o *fakeOracle) IsReferenceType(segraph.Tree) bool { return false }
func (o *fakeOracle) HasAnnotation(s segraph.Symbol, fqn string) bool {
	return o.annotations != nil && o.annotations[s] == fqn
}

// fakeTree is a minimal Tree double with a fixed kind.
type fakeTree struct {
	kind segraph.ElementKind
}

func (t *fakeTree) Pos() token.Pos           { return token.NoPos }
func (t *fakeTree) Kind() segraph.ElementKind { return t.kind }

// fakeLiteralCondTree adds LiteralConditionTree to a terminator kind.
type fakeLiteralCondTree struct {
	fakeTree
	literal bool
	value   bool
}

func (t *fakeLiteralCondTree) IsLiteralCondition() bool { return t.literal }
func (t *fakeLiteralCondTree) LiteralBoolValue() bool   { return t.value }

// fakeInvocationTree adds MethodInvocationTree to ElementMethodInvocation.
type fakeInvocationTree struct {
	fakeTree
	method  segraph.MethodSymbol
	argc    int
	local   bool
}

func (t *fakeInvocationTree) ArgCount() int               { return t.argc }
func (t *fakeInvocationTree) Method() segraph.MethodSymbol { return t.method }
func (t *fakeInvocationTree) IsLocalCall() bool           { return t.local }

// fakeAutoCloseableTree adds AutoCloseableConstructorTree to ElementNewObject.
type fakeAutoCloseableTree struct {
	fakeTree
	autoCloseable bool
}

func (t *fakeAutoCloseableTree) IsAutoCloseableConstructor() bool { return t.autoCloseable }

func newTestMethod(name string) *fakeMethod {
	return &fakeMethod{fakeSymbol: fakeSymbol{name: name}}
}
