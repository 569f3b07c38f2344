package analyze

import (
	"fmt"

	"github.com/shadelang/shade/compiler/ir"
)

// IsUniform reports whether the symbol holds one value shared by the
// whole batch. A symbol never touched by any op defaults to uniform,
// except output params: their slots are wide by the output contract.
func (a *Analysis) IsUniform(s *ir.Symbol) bool {
	if !a.discovered.IsSet(s.ID) {
		return s.SymType != ir.SymTypeOutputParam
	}

	return !a.varying.IsSet(s.ID)
}

func (a *Analysis) RequiresMasking(opIndex int) bool {
	if opIndex < 0 || opIndex >= a.inst.NumOps() {
		panic(fmt.Sprintf("op index %d out of range [0, %d)", opIndex, a.inst.NumOps()))
	}

	return a.masked.IsSet(opIndex)
}

// MaskedOps lists the flagged op indexes in order.
func (a *Analysis) MaskedOps() []int {
	var r []int

	a.masked.Range(func(i int) bool {
		r = append(r, i)

		return true
	})

	return r
}

// The emitter maintains this stack while it walks the same IR to wire
// up break and continue handling. nil marks a loop whose condition is
// uniform. The analysis only keeps the stack, it does not interpret
// the contents.

func (a *Analysis) PushVaryingLoopCondition(cond *ir.Symbol) {
	a.genLoopCond = append(a.genLoopCond, cond)
}

func (a *Analysis) VaryingConditionOfInnermostLoop() *ir.Symbol {
	if len(a.genLoopCond) == 0 {
		panic("no generated loop is open")
	}

	return a.genLoopCond[len(a.genLoopCond)-1]
}

func (a *Analysis) PopVaryingLoopCondition() {
	if len(a.genLoopCond) == 0 {
		panic("no generated loop is open")
	}

	a.genLoopCond = a.genLoopCond[:len(a.genLoopCond)-1]
}
