package analyze

import (
	"github.com/shadelang/shade/compiler/ir"
)

// ensureWritesMasked is called at every read of sym. If the last
// write happened deeper, under a mask that is no longer in scope, the
// write only preserved per-lane semantics if it was masked: flag
// every pending write deeper than the read retroactively. Shallower
// pending writes stay pending, a still-shallower read may claim them
// later.
func (a *Analysis) ensureWritesMasked(sym ir.SymID, depth, maskID int) {
	info, ok := a.usage[sym]
	if !ok {
		return
	}

	if info.lastDepth <= depth || info.lastMaskID == maskID {
		return
	}

	remaining := info.pending[:0]

	for _, u := range info.pending {
		if u.depth > depth {
			a.masked.Set(u.op)

			if a.tr.If("masking") {
				a.tr.Printw("op requires masking", "op", u.op, "sym", a.inst.Symbol(sym).Name, "wdepth", u.depth, "rdepth", depth)
			}
		} else {
			remaining = append(remaining, u)
		}
	}

	info.pending = remaining

	// Deeper writes are handled; record the read's depth so the same
	// site doesn't redo the work.
	info.lastDepth = depth
}
