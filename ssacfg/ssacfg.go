// Package ssacfg adapts golang.org/x/tools/go/ssa function bodies into
// segraph's CFG provider contract (segraph.CFG, segraph.Block,
// segraph.SymbolOracle, segraph.LivenessOracle, segraph.MethodSymbol),
// so the engine can walk a real Go function rather than a test fixture.
//
// go/ssa has already lowered a function body to three-address code:
// every intermediate result is a named ssa.Value rather than an
// implicit stack slot. segraph's element model expects the opposite —
// a sequence of push/pop operations per basic block. Build bridges the
// two by treating every value-producing ssa.Instruction as an implicit
// local: its operands are pushed (as identifier loads of whatever
// instruction produced them, or as literals for *ssa.Const), the
// instruction's own element pops them and pushes the result, and a
// synthetic variable-declaration element immediately binds that result
// to a Symbol keyed by the ssa.Value's identity — one program-state
// register per ssa.Value rather than a reconstructed source-level
// stack.
package ssacfg

import (
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/gowalk/segraph"
)

// Function adapts one *ssa.Function into a segraph.CFG plus the oracles
// the Walker needs alongside it.
type Function struct {
	fn     *ssa.Function
	blocks map[*ssa.BasicBlock]*block
	entry  *block
	exit   *block

	symbols     map[ssa.Value]*symbol
	params      []segraph.Symbol
	method      *methodSymbol
	annotations map[string]map[string]bool // param/field name -> fqn -> present
}

// Build constructs a Function adapter for fn. fn must have its blocks
// built (fn.Blocks != nil) — i.e. prog.Build() must have already run.
func Build(fn *ssa.Function) *Function {
	f := &Function{
		fn:      fn,
		blocks:  make(map[*ssa.BasicBlock]*block),
		symbols: make(map[ssa.Value]*symbol),
	}
	for _, p := range fn.Params {
		s := f.symbolFor(p)
		s.isParam = true
		f.params = append(f.params, s)
	}
	f.annotations = parseAnnotationComments(fn)
	f.method = &methodSymbol{fn: fn, params: f.params}

	exit := &block{owner: f, id: len(fn.Blocks), exitBlock: true}

	for _, b := range fn.Blocks {
		f.blocks[b] = &block{owner: f, raw: b, id: b.Index}
	}
	for _, b := range fn.Blocks {
		blk := f.blocks[b]
		switch term := b.Instrs[len(b.Instrs)-1].(type) {
		case *ssa.Return:
			// A Return block must still carry a non-empty Successors() —
			// see DESIGN.md's ssacfg notes for why an empty list would short-
			// circuit step() before the return terminator is ever
			// interpreted — so every return funnels into the one shared
			// exit block rather than having no successor of its own.
			blk.succs = []*block{exit}
		case *ssa.Panic:
			// Routing an uncaught throw goes through methodExitBlock()
			// directly (walker.go's handleThrow), never through
			// Successors(); this entry exists only to keep the list
			// non-empty for the same reason as the Return case.
			blk.succs = []*block{exit}
		default:
			_ = term
			for _, succ := range b.Succs {
				blk.succs = append(blk.succs, f.blocks[succ])
			}
		}
	}
	f.exit = exit
	if len(fn.Blocks) > 0 {
		f.entry = f.blocks[fn.Blocks[0]]
	}

	for _, blk := range f.blocks {
		blk.build()
	}

	return f
}

// Entry implements segraph.CFG.
func (f *Function) Entry() segraph.Block {
	if f.entry == nil {
		return nil
	}
	return f.entry
}

// MethodName implements segraph.CFG.
func (f *Function) MethodName() string { return f.fn.Name() }

// ClassName implements segraph.CFG. An ssa.Function's receiver type (if
// any) stands in for the analyzed language's enclosing class.
func (f *Function) ClassName() string {
	if recv := f.fn.Signature.Recv(); recv != nil {
		return types.TypeString(recv.Type(), nil)
	}
	if f.fn.Pkg != nil {
		return f.fn.Pkg.Pkg.Path()
	}
	return ""
}

// Method returns the segraph.MethodSymbol describing fn itself, the key
// the engine's method-behavior registry uses.
func (f *Function) Method() segraph.MethodSymbol { return f.method }

// Oracle returns the segraph.SymbolOracle for fn's body.
func (f *Function) Oracle() segraph.SymbolOracle { return (*oracle)(f) }

// Liveness returns the segraph.LivenessOracle for fn's body. See
// liveness.go — it is a deliberately conservative over-approximation.
func (f *Function) Liveness() segraph.LivenessOracle { return (*liveness)(f) }

// symbolFor returns the Symbol standing in for ssa.Value v, minting one
// on first use. Distinct ssa.Values always get distinct Symbols: go/ssa
// is already in single-assignment form, so there is no aliasing to
// collapse the way there would be for source-level local variables.
func (f *Function) symbolFor(v ssa.Value) *symbol {
	if s, ok := f.symbols[v]; ok {
		return s
	}
	s := &symbol{value: v}
	f.symbols[v] = s
	return s
}

// symbol is segraph.Symbol's ssa.Value-backed implementation.
type symbol struct {
	value    ssa.Value
	isField  bool
	isParam  bool
}

func (s *symbol) Name() string {
	if s.value.Name() != "" {
		return s.value.Name()
	}
	return s.value.String()
}
