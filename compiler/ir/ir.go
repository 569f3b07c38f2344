package ir

import (
	"github.com/shadelang/shade/compiler/tp"
)

type (
	// SymID is a dense index into the owning layer's symbol table.
	SymID int32

	SymType int

	// ValueSource tells where a parameter's initial value comes from.
	ValueSource int

	Symbol struct {
		ID   SymID
		Name string

		SymType SymType
		Type    tp.Spec

		Derivs   bool
		Constant bool

		Connected      bool
		ConnectedDown  bool
		RendererOutput bool

		Everread bool
		Lockgeom bool

		Source ValueSource

		// Default-value init ops occupy [InitBegin, InitEnd).
		InitBegin, InitEnd int
	}

	Arg struct {
		Sym   SymID
		Read  bool
		Write bool
	}

	// Op is one instruction. Jump slots not used by the opcode are -1.
	//
	//	if           jump[0] else begin, jump[1] end
	//	for/while/do jump[0] cond begin, jump[1] body begin, jump[2] step begin, jump[3] end
	//	functioncall jump[0] function end
	Op struct {
		Name string
		Args []Arg
		Jump [4]int
	}

	// Inst is one layer instance of a shader group. The analysis
	// treats it as read only: built up front, never mutated after.
	Inst struct {
		Name string

		Syms []*Symbol
		Ops  []Op

		MainBegin, MainEnd int
	}

	Group struct {
		Name string

		Layers []*Inst
	}
)

const (
	SymTypeGlobal SymType = iota
	SymTypeParam
	SymTypeOutputParam
	SymTypeLocal
	SymTypeTemp
	SymTypeConst
)

const (
	DefaultVal ValueSource = iota
	InstanceVal
	GeomVal
	ConnectedVal
)

// Control flow opcode vocabulary. Every other opcode must be
// straight line, no jumps.
const (
	OpIf           = "if"
	OpFor          = "for"
	OpWhile        = "while"
	OpDoWhile      = "dowhile"
	OpFunctionCall = "functioncall"
	OpBreak        = "break"
	OpContinue     = "continue"
	OpGetAttribute = "getattribute"
)

func (t SymType) String() string {
	switch t {
	case SymTypeGlobal:
		return "global"
	case SymTypeParam:
		return "param"
	case SymTypeOutputParam:
		return "oparam"
	case SymTypeLocal:
		return "local"
	case SymTypeTemp:
		return "temp"
	case SymTypeConst:
		return "const"
	default:
		return "unknown"
	}
}

func SymTypeByName(name string) (SymType, bool) {
	for t := SymTypeGlobal; t <= SymTypeConst; t++ {
		if t.String() == name {
			return t, true
		}
	}

	return 0, false
}
