package analyze

import (
	"github.com/shadelang/shade/compiler/globals"
	"github.com/shadelang/shade/compiler/ir"
)

// propagate flips every symbol reachable from a varying seed over the
// feed-forward graph. Everything else keeps the optimistic uniform
// classification from the walk.
func (a *Analysis) propagate() {
	for _, s := range a.inst.Syms {
		if !a.discovered.IsSet(s.ID) {
			continue
		}

		if a.isVaryingSeed(s) {
			a.markVarying(s.ID)
		}
	}

	// Output slots are wide even when only uniform values are
	// written: force them varying so stores promote.
	for _, s := range a.inst.Params() {
		if s.SymType == ir.SymTypeOutputParam {
			a.markVarying(s.ID)
		}
	}

	for _, id := range a.attrWrites {
		a.markVarying(id)
	}
}

func (a *Analysis) isVaryingSeed(s *ir.Symbol) bool {
	switch s.SymType {
	case ir.SymTypeGlobal:
		if globals.Index(s.Name) < 0 {
			a.tr.Printw("global is not in the shader globals record, classified varying", "layer", a.inst.Name, "sym", s.Name)

			return true
		}

		return !globals.IsUniformName(s.Name)

	case ir.SymTypeParam:
		// supplied by an upstream layer whose output may vary
		return s.Connected

	case ir.SymTypeOutputParam:
		return true
	}

	return false
}

// markVarying flips id and recurses into everything it feeds. The
// flip is monotone, so the recursion terminates at already-varying
// nodes.
func (a *Analysis) markVarying(id ir.SymID) {
	wasUniform := a.discovered.IsSet(id) && !a.varying.IsSet(id)

	a.discovered.Set(id)
	a.varying.Set(id)

	if !wasUniform {
		return
	}

	for _, w := range a.feeds.Edges(id) {
		a.markVarying(w)
	}
}
