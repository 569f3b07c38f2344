// Package analyze classifies every symbol of a shader layer as
// uniform or varying and decides which ops must have their writes
// predicated by the execution mask when lowered to batched code.
//
// The walk mirrors the code generator's traversal exactly so that
// block depths and mask identities line up between analysis and
// emission.
package analyze

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/shadelang/shade/compiler/df"
	"github.com/shadelang/shade/compiler/ir"
	"github.com/shadelang/shade/compiler/set"
)

type (
	Options struct {
		// DebugUninit includes local and temp default-value init ops
		// in the first walk pass.
		DebugUninit bool

		// LazyUserdata skips interpolated params that are
		// initialized lazily at first use.
		LazyUserdata bool
	}

	// Analysis owns the per-layer classification tables. After Layer
	// returns they are frozen; only the loop-condition stack, used by
	// the code emitter during its own walk, stays mutable.
	Analysis struct {
		inst *ir.Inst
		opts Options

		discovered set.Bits[ir.SymID]
		varying    set.Bits[ir.SymID]
		masked     set.Bits[int]

		feeds *df.FeedForward
		usage map[ir.SymID]*usageInfo

		condStack []ir.SymID // conditions of open if/loop scopes
		loopStack []ir.SymID // loop conditions only, consulted by break

		attrWrites []ir.SymID // symbols written by getattribute

		nextMaskID int

		genLoopCond []*ir.Symbol

		tr tlog.Span
	}

	usageInfo struct {
		lastDepth  int
		lastMaskID int

		// writes not yet known to need masking
		pending []pendingWrite
	}

	pendingWrite struct {
		depth int
		op    int
	}
)

// Layer analyzes one layer instance and returns its frozen tables.
// Malformed IR (an unstructured branching op, a conditional that does
// not read exactly one symbol, a jump out of range, a break outside a
// loop) is a
// precondition failure and panics; the driver is expected to recover
// and attach the layer name.
func Layer(ctx context.Context, inst *ir.Inst, opts Options) *Analysis {
	a := &Analysis{
		inst: inst,
		opts: opts,

		discovered: set.MakeBits[ir.SymID](),
		varying:    set.MakeBits[ir.SymID](),
		masked:     set.MakeBits[int](),

		feeds: df.NewFeedForward(),
		usage: map[ir.SymID]*usageInfo{},

		tr: tlog.SpanFromContext(ctx),
	}

	mainMask := a.newMaskID()

	// The discovery order must match the emitter: symbol init ops,
	// then param init ops, then the main range.
	for _, s := range inst.Syms {
		if s.SymType == ir.SymTypeConst {
			continue
		}
		if s.SymType == ir.SymTypeParam || s.SymType == ir.SymTypeOutputParam || s.SymType == ir.SymTypeGlobal {
			continue
		}
		if !s.Constant && !s.Type.IsClosureBased() && !s.Type.IsStringBased() &&
			!((s.SymType == ir.SymTypeLocal || s.SymType == ir.SymTypeTemp) && opts.DebugUninit) {
			continue
		}

		if s.HasInitOps() && s.Source == ir.DefaultVal {
			a.discover(s.InitBegin, s.InitEnd, 0, 0, mainMask, mainMask)
		}
	}

	for _, s := range inst.Params() {
		if a.skipParam(s) {
			continue
		}

		if s.HasInitOps() && s.Source == ir.DefaultVal {
			a.discover(s.InitBegin, s.InitEnd, 0, 0, mainMask, mainMask)
		}
	}

	a.discover(inst.MainBegin, inst.MainEnd, 0, 0, mainMask, mainMask)

	// Output writes may have no read inside the layer at all; the
	// downstream connection is the read. Simulate it here so deeper
	// writes get masked.
	for _, s := range inst.Params() {
		if a.skipParam(s) {
			continue
		}

		if s.SymType == ir.SymTypeOutputParam {
			a.ensureWritesMasked(s.ID, 0, mainMask)
		}
	}

	a.propagate()

	if a.tr.If("classification") {
		for _, s := range inst.Syms {
			a.tr.Printw("symbol", "layer", inst.Name, "sym", s.Name, "symtype", s.SymType, "uniform", a.IsUniform(s))
		}

		a.masked.Range(func(i int) bool {
			a.tr.Printw("masked op", "layer", inst.Name, "op", i, "opname", inst.Op(i).Name)

			return true
		})
	}

	// Walk-only state is dead once the tables are frozen.
	a.feeds = nil
	a.usage = nil
	a.condStack = nil
	a.loopStack = nil
	a.attrWrites = nil

	return a
}

func (a *Analysis) Inst() *ir.Inst { return a.inst }

func (a *Analysis) newMaskID() int {
	id := a.nextMaskID
	a.nextMaskID++

	return id
}

// seed optimistically assumes uniform; varying seeds cascade over the
// feed-forward graph afterwards, which yields the minimal varying set.
func (a *Analysis) seed(id ir.SymID) {
	a.discovered.Set(id)
}

func (a *Analysis) usageOf(id ir.SymID) *usageInfo {
	info, ok := a.usage[id]
	if !ok {
		info = &usageInfo{}
		a.usage[id] = info
	}

	return info
}

func (a *Analysis) skipParam(s *ir.Symbol) bool {
	// never read, not connected either direction, not a renderer
	// output: the param cannot influence anything
	if !s.Everread && !s.ConnectedDown && !s.Connected && !s.RendererOutput {
		return true
	}

	// interpolated userdata initialized lazily at first use
	if s.SymType == ir.SymTypeParam &&
		!s.Lockgeom && !s.Type.IsClosureBased() &&
		!s.Connected && !s.ConnectedDown &&
		a.opts.LazyUserdata {
		return true
	}

	return false
}
