package ssacfg

import "github.com/gowalk/segraph"

// liveness implements segraph.LivenessOracle by reporting every symbol
// the function ever binds as live out of every block. CleanupDeadSymbols
// is a state-size optimization, not a correctness requirement (state.go
// never relies on a symbol having been pruned) — over-approximating
// liveness this way is always a safe answer, just a less aggressive
// one than a real per-block liveness analysis would give.
type liveness Function

func (l *liveness) LiveOut(segraph.Block) segraph.SymbolSet {
	f := Function(*l)
	return f.allSymbols()
}

func (f *Function) allSymbols() segraph.SymbolSet {
	syms := make([]segraph.Symbol, 0, len(f.symbols))
	for _, s := range f.symbols {
		syms = append(syms, s)
	}
	return segraph.NewSymbolSet(syms...)
}
