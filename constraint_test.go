package segraph

import "testing"

func TestConstraintSetWith(t *testing.T) {
	var cs ConstraintSet
	cs, ok := cs.With(Null)
	if !ok {
		t.Fatal("adding Null to an empty set must succeed")
	}
	if got, ok := cs.Get(KindNullness); !ok || got.Value != ValueNull {
		t.Fatalf("Get(KindNullness) = %v, %v", got, ok)
	}

	// Re-adding the same fact is idempotent and returns the same map.
	same, ok := cs.With(Null)
	if !ok {
		t.Fatal("re-adding an identical constraint must succeed")
	}
	if len(same) != len(cs) {
		t.Fatalf("idempotent With changed set size: %v vs %v", same, cs)
	}
}

func TestConstraintSetWithContradiction(t *testing.T) {
	cs, ok := ConstraintSet{}.With(Null)
	if !ok {
		t.Fatal("setup: adding Null failed")
	}
	_, ok = cs.With(NotNull)
	if ok {
		t.Fatal("NULL and NOT_NULL must not meet")
	}
}

func TestConstraintSetEqual(t *testing.T) {
	a, _ := ConstraintSet{}.With(Null)
	b, _ := ConstraintSet{}.With(NullWithProvenance("some tree"))
	if !a.Equal(b) {
		t.Fatal("Equal must ignore Provenance")
	}

	c, _ := ConstraintSet{}.With(NotNull)
	if a.Equal(c) {
		t.Fatal("NULL and NOT_NULL sets must not compare equal")
	}
}

func TestRegisterConstraintKindCustomMeet(t *testing.T) {
	const kindResource ConstraintKind = "resource_state_test"
	RegisterConstraintKind(kindResource, func(a, b Constraint) (Constraint, bool) {
		if a.Value == "CLOSED" || b.Value == "CLOSED" {
			return Constraint{Kind: kindResource, Value: "CLOSED"}, true
		}
		return a, true
	})

	cs, ok := ConstraintSet{}.With(Constraint{Kind: kindResource, Value: "OPEN"})
	if !ok {
		t.Fatal("setup: adding OPEN failed")
	}
	cs, ok = cs.With(Constraint{Kind: kindResource, Value: "CLOSED"})
	if !ok {
		t.Fatal("custom meet rejected a compatible transition")
	}
	if got, _ := cs.Get(kindResource); got.Value != "CLOSED" {
		t.Fatalf("custom meet result = %v, want CLOSED", got)
	}
}

func TestMeetPanicsOnUnregisteredKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for an unregistered constraint kind")
		}
	}()
	meet(Constraint{Kind: "never_registered"}, Constraint{Kind: "never_registered"})
}

func TestMeetPanicsOnKindMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when constraint kinds disagree")
		}
	}()
	meet(Null, BoolTrue)
}
