// Package parse reads the textual layer dump format:
//
//	group spot
//
//	layer surface
//	sym global P vec3
//	sym param scale float connected everread
//	sym oparam Cout vec3 everread
//	sym temp cond int
//	sym local x float init=0:1
//	sym const c1 float constant
//	op assign w:x r:c1
//	op compare w:cond r:scale
//	op if r:cond j=4,5
//	op assign w:x r:P
//	op mul w:Cout r:x r:scale
//	main 1 5
//
// One line per symbol or op. Arg prefixes r:, w: and rw: carry the
// read/write flags. j= lists jump targets in opcode order. main sets
// the main code range; it defaults to all ops of the layer.
package parse

import (
	"context"
	"os"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/shadelang/shade/compiler/ir"
	"github.com/shadelang/shade/compiler/tp"
)

type (
	state struct {
		g *ir.Group

		n       *ir.Inst
		syms    map[string]ir.SymID
		mainSet bool
	}
)

func File(ctx context.Context, name string) (*ir.Group, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read")
	}

	return Group(ctx, name, text)
}

func Group(ctx context.Context, name string, text []byte) (*ir.Group, error) {
	s := &state{
		g: &ir.Group{Name: name},
	}

	for i, l := range strings.Split(string(text), "\n") {
		err := s.line(strings.TrimSpace(l))
		if err != nil {
			return nil, errors.Wrap(err, "line %d", i+1)
		}
	}

	err := s.endLayer()
	if err != nil {
		return nil, err
	}

	return s.g, nil
}

// Layer parses text containing exactly one layer.
func Layer(ctx context.Context, name string, text []byte) (*ir.Inst, error) {
	g, err := Group(ctx, name, text)
	if err != nil {
		return nil, err
	}

	if len(g.Layers) != 1 {
		return nil, errors.New("expected one layer, got %d", len(g.Layers))
	}

	return g.Layers[0], nil
}

func (s *state) line(l string) error {
	if l == "" || strings.HasPrefix(l, "#") {
		return nil
	}

	f := strings.Fields(l)

	switch f[0] {
	case "group":
		if len(f) != 2 {
			return errors.New("group takes one name")
		}

		s.g.Name = f[1]

		return nil
	case "layer":
		if len(f) != 2 {
			return errors.New("layer takes one name")
		}

		err := s.endLayer()
		if err != nil {
			return err
		}

		s.n = ir.NewInst(f[1])
		s.syms = map[string]ir.SymID{}

		return nil
	case "sym":
		return s.sym(f[1:])
	case "op":
		return s.op(f[1:])
	case "main":
		return s.mainRange(f[1:])
	default:
		return errors.New("unexpected directive: %v", f[0])
	}
}

func (s *state) sym(f []string) error {
	if s.n == nil {
		return errors.New("sym outside of a layer")
	}

	if len(f) < 3 {
		return errors.New("sym takes symtype, name and type")
	}

	st, ok := ir.SymTypeByName(f[0])
	if !ok {
		return errors.New("unknown symtype: %v", f[0])
	}

	spec, err := typeSpec(f[2])
	if err != nil {
		return err
	}

	sym := &ir.Symbol{
		Name:    f[1],
		SymType: st,
		Type:    spec,

		Constant: st == ir.SymTypeConst,
	}

	for _, flag := range f[3:] {
		err = symFlag(sym, flag)
		if err != nil {
			return err
		}
	}

	if _, ok := s.syms[sym.Name]; ok {
		return errors.New("symbol redefined: %v", sym.Name)
	}

	s.syms[sym.Name] = s.n.AddSymbol(sym)

	return nil
}

func symFlag(sym *ir.Symbol, flag string) error {
	switch flag {
	case "connected":
		sym.Connected = true
	case "connecteddown":
		sym.ConnectedDown = true
	case "everread":
		sym.Everread = true
	case "lockgeom":
		sym.Lockgeom = true
	case "rendererout":
		sym.RendererOutput = true
	case "derivs":
		sym.Derivs = true
	case "constant":
		sym.Constant = true
	default:
		switch {
		case strings.HasPrefix(flag, "init="):
			a, b, ok := strings.Cut(flag[len("init="):], ":")
			if !ok {
				return errors.New("init takes begin:end, got %v", flag)
			}

			var err error

			sym.InitBegin, err = strconv.Atoi(a)
			if err != nil {
				return errors.Wrap(err, "init begin")
			}

			sym.InitEnd, err = strconv.Atoi(b)
			if err != nil {
				return errors.Wrap(err, "init end")
			}
		case strings.HasPrefix(flag, "source="):
			switch v := flag[len("source="):]; v {
			case "default":
				sym.Source = ir.DefaultVal
			case "instance":
				sym.Source = ir.InstanceVal
			case "geom":
				sym.Source = ir.GeomVal
			case "connected":
				sym.Source = ir.ConnectedVal
			default:
				return errors.New("unknown value source: %v", v)
			}
		default:
			return errors.New("unknown symbol flag: %v", flag)
		}
	}

	return nil
}

func (s *state) op(f []string) error {
	if s.n == nil {
		return errors.New("op outside of a layer")
	}

	if len(f) < 1 {
		return errors.New("op takes a name")
	}

	op := ir.NewOp(f[0])

	for _, t := range f[1:] {
		switch {
		case strings.HasPrefix(t, "rw:"):
			id, err := s.symID(t[3:])
			if err != nil {
				return err
			}

			op.Args = append(op.Args, ir.ReadWrite(id))
		case strings.HasPrefix(t, "r:"):
			id, err := s.symID(t[2:])
			if err != nil {
				return err
			}

			op.Args = append(op.Args, ir.Read(id))
		case strings.HasPrefix(t, "w:"):
			id, err := s.symID(t[2:])
			if err != nil {
				return err
			}

			op.Args = append(op.Args, ir.Write(id))
		case strings.HasPrefix(t, "j="):
			targets := strings.Split(t[2:], ",")
			if len(targets) > len(op.Jump) {
				return errors.New("too many jump targets: %d", len(targets))
			}

			for i, target := range targets {
				j, err := strconv.Atoi(target)
				if err != nil {
					return errors.Wrap(err, "jump target")
				}

				op.Jump[i] = j
			}
		default:
			return errors.New("unexpected op token: %v", t)
		}
	}

	s.n.AddOp(op)

	return nil
}

func (s *state) symID(name string) (ir.SymID, error) {
	id, ok := s.syms[name]
	if !ok {
		return 0, errors.New("unknown symbol: %v", name)
	}

	return id, nil
}

func (s *state) mainRange(f []string) error {
	if s.n == nil {
		return errors.New("main outside of a layer")
	}

	if len(f) != 2 {
		return errors.New("main takes begin and end")
	}

	var err error

	s.n.MainBegin, err = strconv.Atoi(f[0])
	if err != nil {
		return errors.Wrap(err, "main begin")
	}

	s.n.MainEnd, err = strconv.Atoi(f[1])
	if err != nil {
		return errors.Wrap(err, "main end")
	}

	s.mainSet = true

	return nil
}

func (s *state) endLayer() error {
	if s.n == nil {
		return nil
	}

	if !s.mainSet {
		s.n.MainBegin, s.n.MainEnd = 0, len(s.n.Ops)
	}

	if s.n.MainBegin < 0 || s.n.MainEnd > len(s.n.Ops) || s.n.MainBegin > s.n.MainEnd {
		return errors.New("layer %v: main range [%d, %d) outside of code [0, %d)", s.n.Name, s.n.MainBegin, s.n.MainEnd, len(s.n.Ops))
	}

	s.g.Layers = append(s.g.Layers, s.n)

	s.n = nil
	s.syms = nil
	s.mainSet = false

	return nil
}

func typeSpec(t string) (tp.Spec, error) {
	name, rest, arr := strings.Cut(t, "[")

	k, ok := tp.KindByName(name)
	if !ok {
		return tp.Spec{}, errors.New("unknown type: %v", name)
	}

	spec := tp.Spec{Kind: k}

	if arr {
		if !strings.HasSuffix(rest, "]") {
			return tp.Spec{}, errors.New("malformed array type: %v", t)
		}

		l, err := strconv.Atoi(rest[:len(rest)-1])
		if err != nil {
			return tp.Spec{}, errors.Wrap(err, "array len")
		}

		spec.Len = l
	}

	return spec, nil
}
