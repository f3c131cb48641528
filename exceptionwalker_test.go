package segraph

import "testing"

type fakeTryCatchOracle struct {
	statements []TryStatement
}

func (o fakeTryCatchOracle) EnclosingTryStatements(Tree) []TryStatement { return o.statements }

type fakeAssignableOracle struct {
	pairs map[[2]string]bool
}

func (o fakeAssignableOracle) IsAssignableTo(thrown, caught string) bool {
	return o.pairs[[2]string{thrown, caught}]
}

func TestExceptionWalkerNoHandler(t *testing.T) {
	ew := NewExceptionWalker(nil, nil)
	target, block := ew.Route(nil, "java.lang.RuntimeException")
	if target != ExceptionNoHandler || block != nil {
		t.Fatalf("Route() = %v, %v, want ExceptionNoHandler, nil", target, block)
	}
}

func TestExceptionWalkerExactMatch(t *testing.T) {
	catchBlock := &wBlock{id: 1}
	oracle := fakeTryCatchOracle{statements: []TryStatement{
		{Catches: []CatchClause{{ExceptionTypes: []string{"java.io.IOException"}, Block: catchBlock}}},
	}}
	ew := NewExceptionWalker(oracle, nil)

	target, block := ew.Route(nil, "java.io.IOException")
	if target != ExceptionToCatch || block != catchBlock {
		t.Fatalf("Route() = %v, %v, want ExceptionToCatch, %v", target, block, catchBlock)
	}
}

func TestExceptionWalkerFallsThroughToFinally(t *testing.T) {
	finallyBlock := &wBlock{id: 2}
	oracle := fakeTryCatchOracle{statements: []TryStatement{
		{Catches: []CatchClause{{ExceptionTypes: []string{"java.io.IOException"}}}, Finally: finallyBlock},
	}}
	ew := NewExceptionWalker(oracle, nil)

	target, block := ew.Route(nil, "java.lang.RuntimeException")
	if target != ExceptionToFinally || block != finallyBlock {
		t.Fatalf("Route() = %v, %v, want ExceptionToFinally, %v", target, block, finallyBlock)
	}
}

func TestExceptionWalkerSearchesOuterTryStatements(t *testing.T) {
	outerCatch := &wBlock{id: 3}
	oracle := fakeTryCatchOracle{statements: []TryStatement{
		{Catches: []CatchClause{{ExceptionTypes: []string{"java.io.IOException"}}}}, // no finally either: keep searching
		{Catches: []CatchClause{{ExceptionTypes: []string{"java.lang.RuntimeException"}, Block: outerCatch}}},
	}}
	ew := NewExceptionWalker(oracle, nil)

	target, block := ew.Route(nil, "java.lang.RuntimeException")
	if target != ExceptionToCatch || block != outerCatch {
		t.Fatalf("Route() = %v, %v, want ExceptionToCatch, %v", target, block, outerCatch)
	}
}

func TestExceptionWalkerUsesTypeOracleForSubtyping(t *testing.T) {
	catchBlock := &wBlock{id: 4}
	oracle := fakeTryCatchOracle{statements: []TryStatement{
		{Catches: []CatchClause{{ExceptionTypes: []string{"java.lang.Exception"}, Block: catchBlock}}},
	}}
	typeOracle := fakeAssignableOracle{pairs: map[[2]string]bool{
		{"java.io.IOException", "java.lang.Exception"}: true,
	}}
	ew := NewExceptionWalker(oracle, typeOracle)

	target, block := ew.Route(nil, "java.io.IOException")
	if target != ExceptionToCatch || block != catchBlock {
		t.Fatalf("Route() = %v, %v, want ExceptionToCatch, %v", target, block, catchBlock)
	}

	// Without the type oracle's subtyping fact, only exact names match.
	ew2 := NewExceptionWalker(oracle, nil)
	target2, _ := ew2.Route(nil, "java.io.IOException")
	if target2 != ExceptionNoHandler {
		t.Fatalf("Route() without a type oracle = %v, want ExceptionNoHandler", target2)
	}
}
