package checkers

import (
	"testing"

	"github.com/gowalk/segraph"
)

func TestUnclosedResourcesReportsOpenAtExit(t *testing.T) {
	c := NewUnclosedResources()
	d := segraph.NewDispatcher(c)
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	d.Init(method)

	ctor := &fakeAutoCloseableTree{fakeTree: fakeTree{kind: segraph.ElementNewObject}, autoCloseable: true}
	sv := segraph.NewSymbolicValue(segraph.SyntaxNewObject)
	state := segraph.EmptyState().StackValue(sv)

	out := d.PostStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, ctor)
	if len(out) != 1 {
		t.Fatalf("PostStatement() returned %d states, want 1", len(out))
	}

	d.EndOfExecutionPath(out[0], point, method, &fakeOracle{}, cm)

	issues := d.Issues()
	if len(issues) != 1 || issues[0].Rule != "unclosed-resources" {
		t.Fatalf("Issues() = %+v, want one unclosed-resources issue", issues)
	}
}

func TestUnclosedResourcesSkipsNonAutoCloseable(t *testing.T) {
	c := NewUnclosedResources()
	d := segraph.NewDispatcher(c)
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	d.Init(method)

	ctor := &fakeAutoCloseableTree{fakeTree: fakeTree{kind: segraph.ElementNewObject}, autoCloseable: false}
	sv := segraph.NewSymbolicValue(segraph.SyntaxNewObject)
	state := segraph.EmptyState().StackValue(sv)

	out := d.PostStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, ctor)
	d.EndOfExecutionPath(out[0], point, method, &fakeOracle{}, cm)

	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none", d.Issues())
	}
}

func TestUnclosedResourcesNoIssueWhenClosed(t *testing.T) {
	c := NewUnclosedResources()
	d := segraph.NewDispatcher(c)
	cm := segraph.NewConstraintManager(segraph.DefaultBounds())
	method := newTestMethod("m")
	point := segraph.ProgramPoint{}

	d.Init(method)

	ctor := &fakeAutoCloseableTree{fakeTree: fakeTree{kind: segraph.ElementNewObject}, autoCloseable: true}
	sv := segraph.NewSymbolicValue(segraph.SyntaxNewObject)
	state := segraph.EmptyState().StackValue(sv)
	states := d.PostStatement([]segraph.ProgramState{state}, point, method, &fakeOracle{}, cm, ctor)

	closeMethod := newTestMethod("close")
	closeCall := &fakeInvocationTree{fakeTree: fakeTree{kind: segraph.ElementMethodInvocation}, method: closeMethod}
	states = d.PreStatement(states, point, method, &fakeOracle{}, cm, closeCall)

	d.EndOfExecutionPath(states[0], point, method, &fakeOracle{}, cm)

	if len(d.Issues()) != 0 {
		t.Fatalf("Issues() = %+v, want none (resource was closed on this path)", d.Issues())
	}
}
