package ssacfg

import (
	"go/constant"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/gowalk/segraph"
)

// build populates b.elements and b.terminator from the underlying
// ssa.BasicBlock's instruction list. The synthesized method-exit block
// (raw == nil) has nothing to build.
func (b *block) build() {
	if b.raw == nil {
		return
	}
	instrs := b.raw.Instrs
	for _, instr := range instrs[:len(instrs)-1] {
		b.elements = append(b.elements, b.owner.lowerInstruction(instr)...)
	}
	b.lowerTerminator(instrs[len(instrs)-1])
}

// lowerTerminator builds the block's terminator element (or leaves it
// nil for an unconditional *ssa.Jump) and appends whatever operand
// pushes the terminator itself needs — e.g. an *ssa.If's condition must
// already be on the stack by the time AssumeDual runs.
func (b *block) lowerTerminator(instr ssa.Instruction) {
	switch t := instr.(type) {
	case *ssa.Jump:
		// Pure fallthrough: Terminator() stays nil, Successors() was
		// already set to the single raw successor in Build.

	case *ssa.If:
		b.elements = append(b.elements, b.owner.pushValue(t.Cond, t.Pos())...)
		e := &elem{kind: segraph.ElementIfTerminator, pos: t.Pos()}
		if c, ok := t.Cond.(*ssa.Const); ok && c.Value != nil && c.Value.Kind() == constant.Bool {
			e.isLiteralCond = true
			e.litBool = constant.BoolVal(c.Value)
		}
		b.terminator = e

	case *ssa.Return:
		if len(t.Results) > 0 {
			// Only the first result is modeled; see DESIGN.md's ssacfg
			// "Known simplifications" on Go's multi-value returns for why.
			b.elements = append(b.elements, b.owner.pushValue(t.Results[0], t.Pos())...)
		}
		b.terminator = &elem{kind: segraph.ElementReturnTerminator, pos: t.Pos()}

	case *ssa.Panic:
		b.elements = append(b.elements, b.owner.pushValue(t.X, t.Pos())...)
		b.terminator = &elem{
			kind:    segraph.ElementThrowTerminator,
			pos:     t.Pos(),
			excType: types.TypeString(t.X.Type(), nil),
		}

	default:
		// Every ssa.BasicBlock ends with exactly one of the above; a
		// value-producing instruction never appears last.
		b.terminator = &elem{kind: segraph.ElementUnconditionalTerminator, pos: instr.Pos()}
	}
}

// pushValue returns the element(s) that push v's current value onto
// the stack: a literal element for a compile-time constant, or an
// identifier load of whatever instruction (or parameter) produced v
// otherwise.
func (f *Function) pushValue(v ssa.Value, pos token.Pos) []segraph.Tree {
	if c, ok := v.(*ssa.Const); ok {
		return []segraph.Tree{f.lowerConst(c, pos)}
	}
	sym := f.symbolFor(v)
	return []segraph.Tree{&elem{kind: segraph.ElementIdentifier, pos: pos, sym: sym, typ: v.Type()}}
}

// lowerConst maps a *ssa.Const to the matching literal ElementKind.
func (f *Function) lowerConst(c *ssa.Const, pos token.Pos) *elem {
	if c.Value == nil {
		return &elem{kind: segraph.ElementNullLiteral, pos: pos}
	}
	switch c.Value.Kind() {
	case constant.Bool:
		return &elem{kind: segraph.ElementBooleanLiteral, pos: pos, isLiteralCond: true, litBool: constant.BoolVal(c.Value)}
	case constant.String:
		return &elem{kind: segraph.ElementStringLiteral, pos: pos}
	case constant.Float:
		return &elem{kind: segraph.ElementDoubleLiteral, pos: pos}
	default:
		return &elem{kind: segraph.ElementIntLiteral, pos: pos}
	}
}

// bind appends a synthetic variable-declaration element binding v's
// result to the Symbol Build gives it, completing the push/op/bind
// triplet every value-producing instruction lowers to.
func (f *Function) bind(v ssa.Value, pos token.Pos) segraph.Tree {
	sym := f.symbolFor(v)
	return &elem{kind: segraph.ElementVariableDeclWithInit, pos: pos, sym: sym, typ: v.Type()}
}

// opaque mints an unconstrained value with no operand pushes, for
// instructions with no closer segraph element-table analogue (channel
// ops, map/slice construction, type switches, SSA Phi merges). See
// DESIGN.md's ssacfg "Known simplifications" note.
func opaque(pos token.Pos) *elem {
	return &elem{kind: segraph.ElementLambdaOrMethodRef, pos: pos}
}

// lowerInstruction returns the element sequence for one non-terminator
// ssa.Instruction: zero or more operand pushes, the instruction's own
// element, and (if it produces a value) a bind.
func (f *Function) lowerInstruction(instr ssa.Instruction) []segraph.Tree {
	pos := instr.Pos()

	switch t := instr.(type) {
	case *ssa.BinOp:
		out := append(f.pushValue(t.X, pos), f.pushValue(t.Y, pos)...)
		e := &elem{kind: segraph.ElementBinaryArithmetic, pos: pos}
		switch t.Op {
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
			e.kind = segraph.ElementBinaryRelational
			e.isEqual = t.Op == token.EQL
			e.isNotEqual = t.Op == token.NEQ
		}
		out = append(out, e, f.bind(t, pos))
		return out

	case *ssa.UnOp:
		out := append(f.pushValue(t.X, pos), &elem{kind: segraph.ElementUnary, pos: pos, isLogicalNot: t.Op == token.NOT})
		out = append(out, f.bind(t, pos))
		return out

	case *ssa.Store:
		out := f.pushValue(t.Addr, pos)
		out = append(out, f.pushValue(t.Val, pos)...)
		e := &elem{kind: segraph.ElementAssignment, pos: pos}
		if alloc, ok := t.Addr.(*ssa.Alloc); ok {
			e.sym = f.symbolFor(alloc)
		}
		return append(out, e)

	case *ssa.Alloc:
		e := &elem{kind: segraph.ElementNewObject, pos: pos, arity: 0}
		return []segraph.Tree{e, f.bind(t, pos)}

	case *ssa.FieldAddr:
		out := f.pushValue(t.X, pos)
		return append(out, &elem{kind: segraph.ElementMemberSelect, pos: pos}, f.bind(t, pos))

	case *ssa.Field:
		out := f.pushValue(t.X, pos)
		return append(out, &elem{kind: segraph.ElementMemberSelect, pos: pos}, f.bind(t, pos))

	case *ssa.IndexAddr:
		out := append(f.pushValue(t.X, pos), f.pushValue(t.Index, pos)...)
		return append(out, &elem{kind: segraph.ElementArrayAccess, pos: pos}, f.bind(t, pos))

	case *ssa.Index:
		out := append(f.pushValue(t.X, pos), f.pushValue(t.Index, pos)...)
		return append(out, &elem{kind: segraph.ElementArrayAccess, pos: pos}, f.bind(t, pos))

	case *ssa.Extract:
		out := f.pushValue(t.Tuple, pos)
		return append(out, &elem{kind: segraph.ElementMemberSelect, pos: pos}, f.bind(t, pos))

	case *ssa.Convert:
		out := f.pushValue(t.X, pos)
		if isReferenceType(t.Type()) {
			return append(out, f.bind(t, pos))
		}
		return append(out, &elem{kind: segraph.ElementTypeCastPrimitive, pos: pos}, f.bind(t, pos))

	case *ssa.ChangeType:
		out := f.pushValue(t.X, pos)
		return append(out, f.bind(t, pos))

	case *ssa.MakeClosure:
		e := &elem{kind: segraph.ElementLambdaOrMethodRef, pos: pos}
		return []segraph.Tree{e, f.bind(t, pos)}

	case *ssa.Call:
		return f.lowerCall(t, pos)

	case *ssa.Go, *ssa.Defer, *ssa.Send, *ssa.MapUpdate, *ssa.RunDefers, *ssa.DebugRef:
		// No segraph element models fire-and-forget concurrency or debug
		// metadata; see DESIGN.md's ssacfg "Known simplifications" note.
		return nil

	default:
		if v, ok := instr.(ssa.Value); ok {
			return []segraph.Tree{opaque(pos), f.bind(v, pos)}
		}
		return nil
	}
}

// lowerCall builds the push-receiver/push-args/invoke/bind sequence
// for one *ssa.Call. Go's method calls and free-function calls both
// go through *ssa.CallCommon; segraph's element table assumes every
// invocation has a receiver (its SonarJava heritage), so a free
// function call gets a synthesized never-null placeholder receiver
// that nothing ever reads back.
func (f *Function) lowerCall(t *ssa.Call, pos token.Pos) []segraph.Tree {
	cc := t.Call
	callee := cc.StaticCallee()

	var receiver ssa.Value
	args := cc.Args
	if cc.IsInvoke() {
		receiver = cc.Value
	} else if callee != nil && callee.Signature.Recv() != nil && len(cc.Args) > 0 {
		receiver, args = cc.Args[0], cc.Args[1:]
	}

	var out []segraph.Tree
	if receiver != nil {
		out = append(out, f.pushValue(receiver, pos)...)
	} else {
		out = append(out, &elem{kind: segraph.ElementNewObject, pos: pos, arity: 0})
	}
	for _, a := range args {
		out = append(out, f.pushValue(a, pos)...)
	}

	call := &callInfo{argCount: len(args)}
	if callee != nil {
		call.callee = &methodSymbol{fn: callee}
		call.isLocal = f.fn.Signature.Recv() != nil && callee.Signature.Recv() != nil
	}

	out = append(out, &elem{kind: segraph.ElementMethodInvocation, pos: pos, call: call}, f.bind(t, pos))
	return out
}
