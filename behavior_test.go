package segraph

import "testing"

func newTestMethod(name string, params ...Symbol) *fakeMethod {
	return &fakeMethod{fakeSymbol: fakeSymbol{name: name}, params: params}
}

func TestMethodBehaviorYieldRoundTrip(t *testing.T) {
	param := &fakeSymbol{name: "p"}
	method := newTestMethod("m", param)
	mb := NewMethodBehavior(method)

	paramSV := NewSymbolicValue(SyntaxIdentifier)
	mb.AddParameter(param, paramSV)

	s := EmptyState()
	s, ok := s.AddConstraint(paramSV, NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint failed")
	}
	resultSV := NewSymbolicValue(SyntaxNewObject)
	s, ok = s.AddConstraint(resultSV, NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint(resultSV) failed")
	}
	mb.AddYield(s, resultSV, false, false)

	if got := len(mb.Yields()); got != 1 {
		t.Fatalf("Yields() len = %d, want 1", got)
	}

	argSV := NewSymbolicValue(SyntaxIdentifier)
	callerState, ok := EmptyState().AddConstraint(argSV, NotNull)
	if !ok {
		t.Fatal("setup: AddConstraint(argSV) failed")
	}
	callResultSV := NewSymbolicValue(SyntaxUnknown)

	produced := mb.InvocationYields(callerState, []*SymbolicValue{argSV}, callResultSV, nil)
	if len(produced) != 1 {
		t.Fatalf("InvocationYields len = %d, want 1", len(produced))
	}
	if c, ok := produced[0].ConstraintsOf(callResultSV).Get(KindNullness); !ok || c.Value != ValueNotNull {
		t.Fatalf("replayed result constraint = %v, %v", c, ok)
	}
	if produced[0].Peek() != callResultSV {
		t.Fatalf("InvocationYields must push callResultSV onto the stack, Peek() = %v", produced[0].Peek())
	}
}

func TestMethodBehaviorIncompatibleYieldDropped(t *testing.T) {
	param := &fakeSymbol{name: "p"}
	method := newTestMethod("m", param)
	mb := NewMethodBehavior(method)

	paramSV := NewSymbolicValue(SyntaxIdentifier)
	mb.AddParameter(param, paramSV)

	s, _ := EmptyState().AddConstraint(paramSV, Null)
	mb.AddVoidYield(s)

	argSV := NewSymbolicValue(SyntaxIdentifier)
	callerState, _ := EmptyState().AddConstraint(argSV, NotNull)

	produced := mb.InvocationYields(callerState, []*SymbolicValue{argSV}, nil, nil)
	if len(produced) != 0 {
		t.Fatalf("expected the incompatible yield to be dropped, got %d states", len(produced))
	}
	if !mb.NoYieldIssueIsNullness(callerState, []*SymbolicValue{argSV}) {
		t.Fatal("the sole incompatibility was a nullness mismatch; NoYieldIssueIsNullness should report true")
	}
}

func TestMethodBehaviorVoidYieldSkipsResult(t *testing.T) {
	method := newTestMethod("m")
	mb := NewMethodBehavior(method)
	mb.AddVoidYield(EmptyState())

	callResultSV := NewSymbolicValue(SyntaxUnknown)
	produced := mb.InvocationYields(EmptyState(), nil, callResultSV, nil)
	if len(produced) != 1 {
		t.Fatalf("InvocationYields len = %d, want 1", len(produced))
	}
	if !mb.Yields()[0].Void {
		t.Fatal("AddVoidYield must record a void yield")
	}
	// Every method invocation pops n_args+1 and pushes exactly 1, void
	// or not: a void yield must still push its (unconstrained) result SV.
	if produced[0].Peek() != callResultSV {
		t.Fatalf("void yield replay must still push callResultSV, Peek() = %v", produced[0].Peek())
	}
}

func TestMethodBehaviorInterfaceSymbols(t *testing.T) {
	p1, p2 := &fakeSymbol{name: "a"}, &fakeSymbol{name: "b"}
	method := newTestMethod("m", p1, p2)
	mb := NewMethodBehavior(method)
	mb.AddParameter(p1, NewSymbolicValue(SyntaxIdentifier))
	mb.AddParameter(p2, NewSymbolicValue(SyntaxIdentifier))

	iface := mb.InterfaceSymbols()
	if !iface.Contains(p1) || !iface.Contains(p2) {
		t.Fatalf("InterfaceSymbols() = %v, want both parameters", iface)
	}
}

func TestRegistryGetPut(t *testing.T) {
	r := NewRegistry()
	method := newTestMethod("m")
	if r.Get(method) != nil {
		t.Fatal("unregistered method must return nil")
	}
	mb := NewMethodBehavior(method)
	r.Put(method, mb)
	if r.Get(method) != mb {
		t.Fatal("Get must return the behavior installed by Put")
	}
}

func TestDefaultResultState(t *testing.T) {
	cm := NewConstraintManager(DefaultBounds())

	t.Run("NonNull", func(t *testing.T) {
		s := EmptyState()
		sv := NewSymbolicValue(SyntaxUnknown)
		s = DefaultResultState(cm, s, sv, true, false, &fakeOracle{})
		if s.Peek() != sv {
			t.Fatal("result SV must be pushed")
		}
		if c, ok := s.ConstraintsOf(sv).Get(KindNullness); !ok || c.Value != ValueNotNull {
			t.Fatalf("NotNull-annotated default result = %v, %v", c, ok)
		}
	})

	t.Run("HeapEscaping", func(t *testing.T) {
		field := &fakeSymbol{name: "f"}
		s := EmptyState().Put(field, NewSymbolicValue(SyntaxIdentifier))
		oracle := &fakeOracle{fields: map[Symbol]bool{field: true}}
		before, _ := s.Get(field)

		sv := NewSymbolicValue(SyntaxUnknown)
		s = DefaultResultState(cm, s, sv, false, true, oracle)

		after, _ := s.Get(field)
		if after == before {
			t.Fatal("heap-escaping default result must havoc field bindings")
		}
	})
}
