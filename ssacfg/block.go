package ssacfg

import (
	"golang.org/x/tools/go/ssa"

	"github.com/gowalk/segraph"
)

// block adapts one *ssa.BasicBlock into segraph.Block. The synthesized
// method-exit block (see Build) has raw == nil.
type block struct {
	owner *Function
	raw   *ssa.BasicBlock
	id    int

	succs     []*block
	exitBlock bool

	elements   []segraph.Tree
	terminator segraph.Tree
}

func (b *block) ID() int { return b.id }

func (b *block) Elements() []segraph.Tree { return b.elements }

func (b *block) Terminator() segraph.Tree { return b.terminator }

func (b *block) Successors() []segraph.Block {
	out := make([]segraph.Block, len(b.succs))
	for i, s := range b.succs {
		out[i] = s
	}
	return out
}

func (b *block) TrueSuccessor() segraph.Block {
	if len(b.succs) < 1 {
		return nil
	}
	return b.succs[0]
}

func (b *block) FalseSuccessor() segraph.Block {
	if len(b.succs) < 2 {
		return nil
	}
	return b.succs[1]
}

// ExitBlock is always nil: ssacfg never models a finally clause, since
// go/ssa's defer chain has no lexical finally block to point at — see
// exceptions.go.
func (b *block) ExitBlock() segraph.Block { return nil }

func (b *block) IsFinallyBlock() bool { return false }

func (b *block) IsMethodExitBlock() bool { return b.exitBlock }
