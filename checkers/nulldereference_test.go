package checkers

import (
	"testing"

	"github.com/gowalk/segraph"
)

func TestNullDereferenceReportsOnNullReceiver(t *testing.T) {
	d := segraph.NewDispatcher(&NullDereference{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, ok := segraph.EmptyState().StackValue(sv).AddConstraint(sv, segraph.Null)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}

	element := &fakeTree{kind: segraph.ElementMemberSelect}
	out := d.PreStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, element)

	if len(out) != 0 {
		t.Fatalf("PreStatement() returned %d states, want 0 (null dereference is a sink)", len(out))
	}
	issues := d.Issues()
	if len(issues) != 1 || issues[0].Rule != "null-dereference" {
		t.Fatalf("Issues() = %+v, want one null-dereference issue", issues)
	}
}

func TestNullDereferenceIgnoresNotNullReceiver(t *testing.T) {
	d := segraph.NewDispatcher(&NullDereference{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, ok := segraph.EmptyState().StackValue(sv).AddConstraint(sv, segraph.NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}

	element := &fakeInvocationTree{fakeTree: fakeTree{kind: segraph.ElementMethodInvocation}}
	out := d.PreStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, element)

	if len(out) != 1 {
		t.Fatalf("PreStatement() returned %d states, want 1 (no veto)", len(out))
	}
	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none", d.Issues())
	}
}

func TestNullDereferenceReportsOnNullReceiverBelowArguments(t *testing.T) {
	d := segraph.NewDispatcher(&NullDereference{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	receiver := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	arg := segraph.NewSymbolicValue(segraph.SyntaxLiteral)
	state, ok := segraph.EmptyState().
		StackValue(receiver).
		StackValue(arg).
		AddConstraint(receiver, segraph.Null)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}
	state, ok = state.AddConstraint(arg, segraph.NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint(arg) failed")
	}

	// foo.bar(arg): receiver pushed first, then the one argument, so
	// the receiver sits at depth ArgCount() == 1, not on top.
	element := &fakeInvocationTree{fakeTree: fakeTree{kind: segraph.ElementMethodInvocation}, argc: 1}
	out := d.PreStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, element)

	if len(out) != 0 {
		t.Fatalf("PreStatement() returned %d states, want 0 (null dereference is a sink)", len(out))
	}
	issues := d.Issues()
	if len(issues) != 1 || issues[0].Rule != "null-dereference" {
		t.Fatalf("Issues() = %+v, want one null-dereference issue", issues)
	}
}

func TestNullDereferenceIgnoresNullArgumentWithNotNullReceiver(t *testing.T) {
	d := segraph.NewDispatcher(&NullDereference{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	receiver := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	arg := segraph.NewSymbolicValue(segraph.SyntaxLiteral)
	state, ok := segraph.EmptyState().
		StackValue(receiver).
		StackValue(arg).
		AddConstraint(receiver, segraph.NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}
	state, ok = state.AddConstraint(arg, segraph.Null)
	if !ok {
		t.Fatal("setup: AddConstraint(arg) failed")
	}

	// foo.bar(null): the argument is null, not the receiver — must not
	// be mistaken for a null-receiver dereference.
	element := &fakeInvocationTree{fakeTree: fakeTree{kind: segraph.ElementMethodInvocation}, argc: 1}
	out := d.PreStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, element)

	if len(out) != 1 {
		t.Fatalf("PreStatement() returned %d states, want 1 (no veto; it's the argument that's null, not the receiver)", len(out))
	}
	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none", d.Issues())
	}
}

func TestNullDereferenceIgnoresOtherElementKinds(t *testing.T) {
	d := segraph.NewDispatcher(&NullDereference{})
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	sv := segraph.NewSymbolicValue(segraph.SyntaxIdentifier)
	state, _ := segraph.EmptyState().StackValue(sv).AddConstraint(sv, segraph.Null)

	element := &fakeTree{kind: segraph.ElementAssignment}
	out := d.PreStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, element)

	if len(out) != 1 {
		t.Fatalf("PreStatement() returned %d states, want 1", len(out))
	}
	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none (element kind is not a dereference)", d.Issues())
	}
}
