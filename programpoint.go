package segraph

import "fmt"

// ProgramPoint is a pair (block, index-within-block-or-terminator).
// Index equal to len(block.Elements()) denotes "evaluate the
// terminator" — pre_statement, post_statement, and handle_block_exit
// all dispatch off this single index, since node interning never
// produces a second, distinct pass over the same point (see
// walker.go's step()).
type ProgramPoint struct {
	Block Block
	Index int
}

// String implements fmt.Stringer, for debug logging.
func (pp ProgramPoint) String() string {
	return fmt.Sprintf("(block=%d,i=%d)", pp.Block.ID(), pp.Index)
}

// programPointHasher hashes ProgramPoint values by (block id, index),
// the key type for ProgramState's visits map and the
// exploded graph's node-interning cache.
type programPointHasher struct{}

func (programPointHasher) Hash(value interface{}) uint32 {
	pp := value.(ProgramPoint)
	h := uint32(pp.Block.ID())*2654435761 + uint32(pp.Index)
	return h
}

func (programPointHasher) Equal(a, b interface{}) bool {
	pa, pb := a.(ProgramPoint), b.(ProgramPoint)
	return pa.Block.ID() == pb.Block.ID() && pa.Index == pb.Index
}
