package ssacfg

import "github.com/gowalk/segraph"

// oracle implements segraph.SymbolOracle over a Function, read as the
// distinct type it's defined as (rather than a method on *Function
// itself) so Function's own exported surface stays limited to Entry/
// MethodName/ClassName/Method/Oracle/Liveness.
type oracle Function

func (o *oracle) SymbolOf(t segraph.Tree) (segraph.Symbol, bool) {
	e, ok := t.(*elem)
	if !ok || e.sym == nil {
		return nil, false
	}
	return e.sym, true
}

func (o *oracle) IsField(s segraph.Symbol) bool {
	sym, ok := s.(*symbol)
	return ok && sym.isField
}

func (o *oracle) IsParameter(s segraph.Symbol) bool {
	sym, ok := s.(*symbol)
	return ok && sym.isParam
}

func (o *oracle) IsBooleanType(t segraph.Tree) bool {
	e, ok := t.(*elem)
	if !ok || e.typ == nil {
		return false
	}
	return isBoolType(e.typ)
}

func (o *oracle) IsReferenceType(t segraph.Tree) bool {
	e, ok := t.(*elem)
	if !ok || e.typ == nil {
		return false
	}
	return isReferenceType(e.typ)
}

// HasAnnotation reports a doc-comment directive on a parameter (see
// annotations.go); fields and other symbols never carry one, since Go
// struct fields have no equivalent source-level convention this
// package establishes.
func (o *oracle) HasAnnotation(s segraph.Symbol, fqn string) bool {
	sym, ok := s.(*symbol)
	if !ok || !sym.isParam {
		return false
	}
	byFQN := Function(*o).annotations[sym.value.Name()]
	return byFQN != nil && byFQN[fqn]
}
