package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadelang/shade/compiler/ir"
	"github.com/shadelang/shade/compiler/parse"
)

func layer(t *testing.T, text string) *ir.Inst {
	t.Helper()

	n, err := parse.Layer(context.Background(), t.Name(), []byte(text))
	require.NoError(t, err)

	return n
}

func run(t *testing.T, text string) (*ir.Inst, *Analysis) {
	t.Helper()

	n := layer(t, text)

	return n, Layer(context.Background(), n, Options{})
}

func uniform(t *testing.T, a *Analysis, n *ir.Inst, name string) bool {
	t.Helper()

	s := n.FindSymbol(name)
	require.NotNil(t, s, "symbol %v", name)

	return a.IsUniform(s)
}

func TestStraightLineUniform(t *testing.T) {
	n, a := run(t, `
layer straight
sym local l float
sym local o float
sym const c1 float
op assign w:l r:c1
op add w:o r:l r:l
`)

	assert.True(t, uniform(t, a, n, "l"))
	assert.True(t, uniform(t, a, n, "o"))
	assert.Empty(t, a.MaskedOps())
}

func TestVaryingGlobalRead(t *testing.T) {
	n, a := run(t, `
layer varglobal
sym global P vec3
sym local l vec3
sym local o vec3
op assign w:l r:P
op assign w:o r:l
`)

	assert.False(t, uniform(t, a, n, "P"))
	assert.False(t, uniform(t, a, n, "l"))
	assert.False(t, uniform(t, a, n, "o"))
	assert.Empty(t, a.MaskedOps())
}

func TestUniformGlobalRead(t *testing.T) {
	n, a := run(t, `
layer uniglobal
sym global raytype int
sym local l int
op assign w:l r:raytype
`)

	assert.True(t, uniform(t, a, n, "raytype"))
	assert.True(t, uniform(t, a, n, "l"))
}

func TestUnknownGlobalIsVarying(t *testing.T) {
	n, a := run(t, `
layer unknownglobal
sym global mystery float
sym local l float
op assign w:l r:mystery
`)

	assert.False(t, uniform(t, a, n, "mystery"))
	assert.False(t, uniform(t, a, n, "l"))
}

func TestConnectedParamIsVarying(t *testing.T) {
	n, a := run(t, `
layer connected
sym param scale float connected everread
sym param plain float everread
sym local x float
sym local y float
op assign w:x r:scale
op assign w:y r:plain
`)

	assert.False(t, uniform(t, a, n, "scale"))
	assert.False(t, uniform(t, a, n, "x"))
	assert.True(t, uniform(t, a, n, "plain"))
	assert.True(t, uniform(t, a, n, "y"))
}

func TestIfVaryingCondition(t *testing.T) {
	n, a := run(t, `
layer ifvar
sym global u float
sym temp cond int
sym local x float
sym local y float
sym const c1 float
sym const c2 float
op compare w:cond r:u
op if r:cond j=3,4
op assign w:x r:c1
op assign w:x r:c2
op assign w:y r:x
`)

	assert.False(t, uniform(t, a, n, "cond"))
	assert.False(t, uniform(t, a, n, "x"))
	assert.False(t, uniform(t, a, n, "y"))

	// both conditional writes of x are observed by the read after
	// the if and must be predicated
	assert.True(t, a.RequiresMasking(2))
	assert.True(t, a.RequiresMasking(3))

	assert.False(t, a.RequiresMasking(0))
	assert.False(t, a.RequiresMasking(1))
	assert.False(t, a.RequiresMasking(4))
}

func TestIfUniformConditionDeadLocals(t *testing.T) {
	n, a := run(t, `
layer ifdead
sym temp cond int
sym local x float
sym const c0 int
sym const c1 float
sym const c2 float
op compare w:cond r:c0
op if r:cond j=3,4
op assign w:x r:c1
op assign w:x r:c2
`)

	assert.True(t, uniform(t, a, n, "cond"))
	assert.True(t, uniform(t, a, n, "x"))

	// x is never read after the if, the pending writes are never
	// promoted
	assert.Empty(t, a.MaskedOps())
}

func TestUniformForLoop(t *testing.T) {
	n, a := run(t, `
layer forloop
sym local i int
sym local a int
sym temp cond int
sym const c0 int
sym const c1 int
sym const c10 int
op for r:cond j=2,3,4,5
op assign w:i r:c0
op less w:cond r:i r:c10
op assign w:a r:i
op add rw:i r:c1
`)

	for _, name := range []string{"i", "a", "cond"} {
		assert.True(t, uniform(t, a, n, name), "symbol %v", name)
	}

	// the body write is not observed outside the loop
	assert.False(t, a.RequiresMasking(3))

	// The condition block reads i at the enclosing scope while the
	// step writes it under the body mask, and the loop exit is a
	// horizontal all-false test over the condition lanes. Both
	// writes are flagged no matter how the classification turns
	// out; a uniform loop is lowered scalar and ignores the flags.
	assert.Equal(t, []int{2, 4}, a.MaskedOps())
}

func TestBreakPropagatesVarying(t *testing.T) {
	n, a := run(t, `
layer loopbreak
sym global u float
sym local cond int
sym temp icond int
sym const c0 int
op for r:cond j=1,2,5,5
op assign w:cond r:c0
op compare w:icond r:u
op if r:icond j=5,5
op break
`)

	assert.False(t, uniform(t, a, n, "icond"))

	// the break lets lanes leave independently: the loop control
	// symbol inherits the inner condition's varying
	assert.False(t, uniform(t, a, n, "cond"))

	// the break counts as a conditional write to the loop condition,
	// promoted when the next iteration gate reads it
	assert.True(t, a.RequiresMasking(4))

	// so does the condition recomputation under the body mask
	assert.True(t, a.RequiresMasking(1))
}

func TestNestedLoopBreakStaysInner(t *testing.T) {
	n, a := run(t, `
layer nested
sym global u float
sym local oc int
sym local icnd int
sym temp bc int
sym const c0 int
op for r:oc j=1,2,7,7
op assign w:oc r:c0
op for r:icnd j=3,4,7,7
op assign w:icnd r:c0
op compare w:bc r:u
op if r:bc j=7,7
op break
`)

	assert.False(t, uniform(t, a, n, "bc"))
	assert.False(t, uniform(t, a, n, "icnd"))

	// the break feeds the innermost loop only
	assert.True(t, uniform(t, a, n, "oc"))

	assert.True(t, a.RequiresMasking(6), "break")
	assert.True(t, a.RequiresMasking(3), "inner condition write")
}

func TestOutputParamAlwaysVarying(t *testing.T) {
	n, a := run(t, `
layer output
sym oparam cout float everread
sym oparam dangling float everread
sym const c1 float
op assign w:cout r:c1
`)

	// only uniform values are written, the slot is wide regardless
	assert.False(t, uniform(t, a, n, "cout"))

	// never touched by any op, still a wide slot
	assert.False(t, uniform(t, a, n, "dangling"))

	// the write happens at the outermost scope, nothing to mask
	assert.Empty(t, a.MaskedOps())
}

func TestOutputParamConditionalWriteMasked(t *testing.T) {
	n, a := run(t, `
layer outmask
sym global u float
sym temp cond int
sym oparam cout float everread
sym const c1 float
op compare w:cond r:u
op if r:cond j=3,3
op assign w:cout r:c1
`)

	assert.False(t, uniform(t, a, n, "cout"))

	// no read of cout inside the layer; the downstream connection
	// observes it at the outermost scope
	assert.True(t, a.RequiresMasking(2))
}

func TestGetAttributeResultVarying(t *testing.T) {
	n, a := run(t, `
layer getattr
sym const aname string
sym local dest float
sym local ok int
sym local y float
op getattribute w:ok r:aname w:dest
op assign w:y r:dest
`)

	assert.False(t, uniform(t, a, n, "ok"))
	assert.False(t, uniform(t, a, n, "dest"))
	assert.False(t, uniform(t, a, n, "y"))
}

func TestFunctionCallKeepsScope(t *testing.T) {
	n, a := run(t, `
layer fncall
sym local x float
sym local y float
sym const c1 float
op functioncall j=3
op assign w:x r:c1
op assign w:y r:x
`)

	assert.True(t, uniform(t, a, n, "x"))
	assert.True(t, uniform(t, a, n, "y"))
	assert.Empty(t, a.MaskedOps())
}

func TestEmptyLayer(t *testing.T) {
	_, a := run(t, `
layer empty
`)

	assert.Empty(t, a.MaskedOps())
	assert.Panics(t, func() { a.RequiresMasking(0) })
}

func TestRequiresMaskingBounds(t *testing.T) {
	_, a := run(t, `
layer bounds
sym local l float
sym const c1 float
op assign w:l r:c1
`)

	assert.False(t, a.RequiresMasking(0))
	assert.Panics(t, func() { a.RequiresMasking(-1) })
	assert.Panics(t, func() { a.RequiresMasking(1) })
}
