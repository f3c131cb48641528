package checkers

import (
	"testing"

	"github.com/gowalk/segraph"
)

func TestNonNullSetToNullReportsAnnotatedField(t *testing.T) {
	d := segraph.NewDispatcher(&NonNullSetToNull{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	field := &fakeSymbol{name: "f"}
	element := &fakeTree{kind: segraph.ElementAssignment}
	oracle := &fakeOracle{
		symbols:     map[segraph.Tree]segraph.Symbol{element: field},
		annotations: map[segraph.Symbol]string{field: nonnullAnnotation},
	}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, ok := segraph.EmptyState().Put(field, sv).AddConstraint(sv, segraph.Null)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}

	d.PostStatement([]segraph.ProgramState{state}, point, method, oracle, cm, element)

	issues := d.Issues()
	if len(issues) != 1 || issues[0].Rule != "non-null-set-to-null" {
		t.Fatalf("Issues() = %+v, want one non-null-set-to-null issue", issues)
	}
}

func TestNonNullSetToNullIgnoresUnannotatedField(t *testing.T) {
	d := segraph.NewDispatcher(&NonNullSetToNull{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	field := &fakeSymbol{name: "f"}
	element := &fakeTree{kind: segraph.ElementAssignment}
	oracle := &fakeOracle{symbols: map[segraph.Tree]segraph.Symbol{element: field}}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, _ := segraph.EmptyState().Put(field, sv).AddConstraint(sv, segraph.Null)

	d.PostStatement([]segraph.ProgramState{state}, point, method, oracle, cm, element)

	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none (field carries no Nonnull annotation)", d.Issues())
	}
}

func TestNonNullSetToNullIgnoresNonNullValue(t *testing.T) {
	d := segraph.NewDispatcher(&NonNullSetToNull{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	field := &fakeSymbol{name: "f"}
	element := &fakeTree{kind: segraph.ElementVariableDeclWithInit}
	oracle := &fakeOracle{
		symbols:     map[segraph.Tree]segraph.Symbol{element: field},
		annotations: map[segraph.Symbol]string{field: nonnullAnnotation},
	}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, ok := segraph.EmptyState().Put(field, sv).AddConstraint(sv, segraph.NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}

	d.PostStatement([]segraph.ProgramState{state}, point, method, oracle, cm, element)

	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none (value is NotNull)", d.Issues())
	}
}
