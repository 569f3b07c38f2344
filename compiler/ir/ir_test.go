package ir

import (
	"testing"
)

func TestFarthestJump(t *testing.T) {
	op := NewOp("assign", Write(0), Read(1))

	if op.HasJumps() {
		t.Errorf("straight-line op has jumps")
	}

	if j := op.FarthestJump(); j != -1 {
		t.Errorf("farthest jump: %d, want -1", j)
	}

	op = NewOp(OpIf, Read(0))
	op.Jump[0] = 4
	op.Jump[1] = 7

	if !op.HasJumps() {
		t.Errorf("if op has no jumps")
	}

	if j := op.FarthestJump(); j != 7 {
		t.Errorf("farthest jump: %d, want 7", j)
	}
}

func TestNumRead(t *testing.T) {
	op := NewOp("add", Write(0), Read(1), ReadWrite(2))

	if r := op.NumRead(); r != 2 {
		t.Errorf("reads: %d, want 2", r)
	}
}

func TestSymTypeByName(t *testing.T) {
	for st := SymTypeGlobal; st <= SymTypeConst; st++ {
		got, ok := SymTypeByName(st.String())
		if !ok || got != st {
			t.Errorf("symtype %v did not round trip: %v %v", st, got, ok)
		}
	}

	if _, ok := SymTypeByName("register"); ok {
		t.Errorf("unexpected symtype")
	}
}

func TestInstSymbols(t *testing.T) {
	n := NewInst("l")

	p := n.AddSymbol(&Symbol{Name: "scale", SymType: SymTypeParam})
	o := n.AddSymbol(&Symbol{Name: "out", SymType: SymTypeOutputParam})
	l := n.AddSymbol(&Symbol{Name: "x", SymType: SymTypeLocal})

	if p != 0 || o != 1 || l != 2 {
		t.Errorf("ids not dense: %v %v %v", p, o, l)
	}

	if s := n.FindSymbol("out"); s == nil || s.ID != o {
		t.Errorf("find symbol: %v", s)
	}

	if s := n.FindSymbol("missing"); s != nil {
		t.Errorf("found missing symbol: %v", s)
	}

	params := n.Params()
	if len(params) != 2 || params[0].Name != "scale" || params[1].Name != "out" {
		t.Errorf("params: %v", params)
	}

	i := n.AddOp(NewOp("assign", Write(l), Read(p)))

	if s := n.OpArgSym(n.Op(i), 1); s.Name != "scale" {
		t.Errorf("op arg sym: %v", s.Name)
	}
}
