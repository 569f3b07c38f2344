package analyze

import (
	"fmt"

	"github.com/shadelang/shade/compiler/ir"
)

// discover processes ops [begin, end). depth and maskID describe the
// scope reads happen in; writeDepth and writeMaskID the scope writes
// land in. The pairs differ only inside loop condition blocks: the
// first condition evaluation gates entry from the enclosing scope,
// every later one runs under the previous iteration's body mask.
func (a *Analysis) discover(begin, end, depth, writeDepth, maskID, writeMaskID int) {
	if a.tr.If("discover") {
		a.tr.Printw("discover", "begin", begin, "end", end, "depth", depth, "wdepth", writeDepth, "mask", maskID, "wmask", writeMaskID)
	}

	for opIndex := begin; opIndex < end; opIndex++ {
		op := a.inst.Op(opIndex)

		var reads, writes []ir.SymID

		for _, arg := range op.Args {
			if arg.Write {
				writes = append(writes, arg.Sym)
			}
			if arg.Read {
				reads = append(reads, arg.Sym)
			}

			a.seed(arg.Sym)
		}

		for _, r := range reads {
			for _, w := range writes {
				a.feeds.Insert(r, w)
			}

			a.ensureWritesMasked(r, depth, maskID)
		}

		for _, w := range writes {
			info := a.usageOf(w)
			info.lastDepth = writeDepth
			info.lastMaskID = writeMaskID
			info.pending = append(info.pending, pendingWrite{depth: writeDepth, op: opIndex})
		}

		// writes under an open condition depend on it: control
		// dependence becomes data dependence
		for _, cond := range a.condStack {
			for _, w := range writes {
				a.feeds.Insert(cond, w)
			}
		}

		if op.HasJumps() {
			a.nested(op, opIndex, depth, writeDepth, maskID, writeMaskID, reads)
		}

		switch op.Name {
		case ir.OpBreak:
			a.breakOp(opIndex, writeDepth, writeMaskID)
		case ir.OpGetAttribute:
			a.attrWrites = append(a.attrWrites, writes...)
		}

		// skip over the structured range the dispatch just walked
		if next := op.FarthestJump(); next >= 0 {
			opIndex = next - 1
		}
	}
}

// nested walks the structured ranges of a branching op in the same
// order the code generator emits them.
func (a *Analysis) nested(op *ir.Op, opIndex, depth, writeDepth, maskID, writeMaskID int, reads []ir.SymID) {
	switch op.Name {
	case ir.OpIf:
		cond := a.condOf(op, opIndex, reads)

		a.condStack = append(a.condStack, cond)

		thenMask := a.newMaskID()
		a.discover(opIndex+1, a.jump(op, opIndex, 0), depth+1, depth+1, thenMask, thenMask)

		elseMask := a.newMaskID()
		a.discover(a.jump(op, opIndex, 0), a.jump(op, opIndex, 1), depth+1, depth+1, elseMask, elseMask)

		a.condStack = a.condStack[:len(a.condStack)-1]

	case ir.OpFor, ir.OpWhile, ir.OpDoWhile:
		// init runs unconditionally in the enclosing scope
		a.discover(opIndex+1, a.jump(op, opIndex, 0), depth, depth, maskID, maskID)

		cond := a.condOf(op, opIndex, reads)

		a.condStack = append(a.condStack, cond)
		a.loopStack = append(a.loopStack, cond)

		bodyDepth := depth + 1
		bodyMask := a.newMaskID()

		a.discover(a.jump(op, opIndex, 1), a.jump(op, opIndex, 2), bodyDepth, bodyDepth, bodyMask, bodyMask)

		// the step executes once per surviving iteration, same
		// scope as the body
		a.discover(a.jump(op, opIndex, 2), a.jump(op, opIndex, 3), bodyDepth, bodyDepth, bodyMask, bodyMask)

		// Condition block last, so writes to anything it reads are
		// already recorded: reads gate entry at the enclosing scope,
		// writes land under the body mask.
		a.discover(a.jump(op, opIndex, 0), a.jump(op, opIndex, 1), depth, bodyDepth, maskID, bodyMask)

		// The loop exit is a horizontal all-false test over the
		// condition lanes; varying writes to it must be masked.
		a.ensureWritesMasked(cond, depth, maskID)

		a.loopStack = a.loopStack[:len(a.loopStack)-1]
		a.condStack = a.condStack[:len(a.condStack)-1]

	case ir.OpFunctionCall:
		// no predication introduced by the call itself
		a.discover(opIndex+1, a.jump(op, opIndex, 0), depth, writeDepth, maskID, writeMaskID)

	default:
		panic(fmt.Sprintf("op %v (index %d) has jumps but is not a structured opcode; the analysis walk must match the code generator", op.Name, opIndex))
	}
}

// breakOp feeds every condition opened inside the loop into the loop
// condition: any varying inner condition lets lanes leave the loop
// independently, which makes the loop exit varying. The break also
// counts as a write to the loop condition.
func (a *Analysis) breakOp(opIndex, writeDepth, writeMaskID int) {
	if len(a.loopStack) == 0 {
		panic(fmt.Sprintf("break (index %d) with no enclosing loop", opIndex))
	}

	loopCond := a.loopStack[len(a.loopStack)-1]

	at := -1

	for i, cond := range a.condStack {
		if cond == loopCond {
			at = i
			break
		}
	}

	if at < 0 {
		panic(fmt.Sprintf("break (index %d): loop condition is not on the enclosing condition stack", opIndex))
	}

	for _, cond := range a.condStack[at+1:] {
		a.feeds.Insert(cond, loopCond)
	}

	info := a.usageOf(loopCond)
	if writeDepth > info.lastDepth {
		info.lastDepth = writeDepth
		info.lastMaskID = writeMaskID
	}

	info.pending = append(info.pending, pendingWrite{depth: writeDepth, op: opIndex})
}

func (a *Analysis) condOf(op *ir.Op, opIndex int, reads []ir.SymID) ir.SymID {
	if len(reads) != 1 {
		panic(fmt.Sprintf("conditional op %v (index %d) must read exactly one symbol, reads %d", op.Name, opIndex, len(reads)))
	}

	return reads[0]
}

func (a *Analysis) jump(op *ir.Op, opIndex, slot int) int {
	t := op.Jump[slot]
	if t < 0 || t > a.inst.NumOps() {
		panic(fmt.Sprintf("op %v (index %d): jump %d target %d out of range [0, %d]", op.Name, opIndex, slot, t, a.inst.NumOps()))
	}

	return t
}
