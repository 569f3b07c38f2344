package ir

func NewInst(name string) *Inst {
	return &Inst{
		Name: name,
	}
}

func (n *Inst) AddSymbol(s *Symbol) SymID {
	s.ID = SymID(len(n.Syms))
	n.Syms = append(n.Syms, s)

	return s.ID
}

func (n *Inst) AddOp(op Op) int {
	n.Ops = append(n.Ops, op)

	return len(n.Ops) - 1
}

func (n *Inst) Symbol(id SymID) *Symbol {
	return n.Syms[id]
}

func (n *Inst) FindSymbol(name string) *Symbol {
	for _, s := range n.Syms {
		if s.Name == name {
			return s
		}
	}

	return nil
}

func (n *Inst) Op(i int) *Op { return &n.Ops[i] }

func (n *Inst) NumOps() int { return len(n.Ops) }

func (n *Inst) OpArgSym(op *Op, k int) *Symbol {
	return n.Syms[op.Args[k].Sym]
}

// Params returns param and output-param symbols in declaration order.
func (n *Inst) Params() []*Symbol {
	var p []*Symbol

	for _, s := range n.Syms {
		if s.SymType == SymTypeParam || s.SymType == SymTypeOutputParam {
			p = append(p, s)
		}
	}

	return p
}

func (s *Symbol) HasInitOps() bool { return s.InitEnd > s.InitBegin }

// NewOp builds a straight-line op; jump slots start unset.
func NewOp(name string, args ...Arg) Op {
	return Op{
		Name: name,
		Args: args,
		Jump: [4]int{-1, -1, -1, -1},
	}
}

func (op *Op) HasJumps() bool { return op.Jump[0] >= 0 }

// FarthestJump is the largest valid target, bounding the op's
// structured extent. -1 for straight-line ops.
func (op *Op) FarthestJump() int {
	far := -1

	for _, j := range op.Jump {
		if j > far {
			far = j
		}
	}

	return far
}

// NumRead counts args the op reads.
func (op *Op) NumRead() (r int) {
	for _, a := range op.Args {
		if a.Read {
			r++
		}
	}

	return r
}

func Read(s SymID) Arg      { return Arg{Sym: s, Read: true} }
func Write(s SymID) Arg     { return Arg{Sym: s, Write: true} }
func ReadWrite(s SymID) Arg { return Arg{Sym: s, Read: true, Write: true} }
