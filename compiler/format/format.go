// Package format renders IR back into the textual layer dump format
// the parser reads.
package format

import (
	"fmt"

	"github.com/shadelang/shade/compiler/ir"
)

func Group(b []byte, g *ir.Group) []byte {
	b = fmt.Appendf(b, "group %s\n", g.Name)

	for _, n := range g.Layers {
		b = append(b, '\n')
		b = Layer(b, n)
	}

	return b
}

func Layer(b []byte, n *ir.Inst) []byte {
	b = fmt.Appendf(b, "layer %s\n", n.Name)

	for _, s := range n.Syms {
		b = symbol(b, s)
	}

	for i := range n.Ops {
		b = op(b, n, &n.Ops[i])
	}

	b = fmt.Appendf(b, "main %d %d\n", n.MainBegin, n.MainEnd)

	return b
}

func symbol(b []byte, s *ir.Symbol) []byte {
	b = fmt.Appendf(b, "sym %v %s %v", s.SymType, s.Name, s.Type.Kind)

	if s.Type.IsArray() {
		b = fmt.Appendf(b, "[%d]", s.Type.Len)
	}

	if s.Connected {
		b = append(b, " connected"...)
	}
	if s.ConnectedDown {
		b = append(b, " connecteddown"...)
	}
	if s.Everread {
		b = append(b, " everread"...)
	}
	if s.Lockgeom {
		b = append(b, " lockgeom"...)
	}
	if s.RendererOutput {
		b = append(b, " rendererout"...)
	}
	if s.Derivs {
		b = append(b, " derivs"...)
	}
	if s.Constant && s.SymType != ir.SymTypeConst {
		b = append(b, " constant"...)
	}

	if s.HasInitOps() {
		b = fmt.Appendf(b, " init=%d:%d", s.InitBegin, s.InitEnd)
	}

	if s.Source != ir.DefaultVal {
		b = fmt.Appendf(b, " source=%s", source(s.Source))
	}

	b = append(b, '\n')

	return b
}

func op(b []byte, n *ir.Inst, op *ir.Op) []byte {
	b = fmt.Appendf(b, "op %s", op.Name)

	for _, a := range op.Args {
		switch {
		case a.Read && a.Write:
			b = append(b, " rw:"...)
		case a.Read:
			b = append(b, " r:"...)
		case a.Write:
			b = append(b, " w:"...)
		default:
			b = append(b, " r:"...)
		}

		b = append(b, n.Symbol(a.Sym).Name...)
	}

	if op.HasJumps() {
		b = append(b, " j="...)

		for i, j := range op.Jump {
			if j < 0 {
				break
			}

			if i != 0 {
				b = append(b, ',')
			}

			b = fmt.Appendf(b, "%d", j)
		}
	}

	b = append(b, '\n')

	return b
}

func source(v ir.ValueSource) string {
	switch v {
	case ir.InstanceVal:
		return "instance"
	case ir.GeomVal:
		return "geom"
	case ir.ConnectedVal:
		return "connected"
	default:
		return "default"
	}
}
