package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rill-lang/rill/compiler/ir"
)

func TestParseGraph(t *testing.T) {
	text := `
; small graph
arg %a missing
arg %b

%c0 = arith.const value=2
%c1 = arith.const value=-3
%s = arith.add %c0, %c1
%p = arith.cmp %c0, %c1 cond=lt	; trailing comment
%m = missing.is %a
`

	f, err := Parse(context.Background(), []byte(text))
	require.NoError(t, err)

	g := f.Graph

	require.Len(t, g.In, 2)
	assert.Equal(t, "a", g.Name(g.In[0]))
	assert.Equal(t, map[ir.Value]string{g.In[0]: "missing"}, f.Marks)

	require.Len(t, g.Ops, 5)

	c0 := g.Ops[0]
	assert.Equal(t, ir.KindConst, c0.Kind)
	assert.Equal(t, ir.DialectArith, c0.Dialect)
	assert.Equal(t, ir.Attr(ir.Int(2)), c0.Attr("value"))

	c1 := g.Ops[1]
	assert.Equal(t, ir.Attr(ir.Int(-3)), c1.Attr("value"))

	sum := g.Ops[2]
	assert.Equal(t, []ir.Value{c0.Results[0], c1.Results[0]}, sum.Args)
	assert.Equal(t, "s", g.Name(sum.Results[0]))

	cmp := g.Ops[3]
	assert.Equal(t, ir.Attr(ir.Str("lt")), cmp.Attr("cond"))

	is := g.Ops[4]
	assert.Equal(t, ir.KindMissingIs, is.Kind)
	assert.Equal(t, ir.DialectMissing, is.Dialect)
	assert.Equal(t, []ir.Value{g.In[0]}, is.Args)
}

func TestParseRegion(t *testing.T) {
	text := `arg %n
%r = loop.for %n {
	%c = arith.const value=1
	%s = arith.add %c, %c
}
`

	f, err := Parse(context.Background(), []byte(text))
	require.NoError(t, err)

	g := f.Graph

	require.Len(t, g.Ops, 1)

	op := g.Ops[0]
	require.Len(t, op.Regions, 1)
	require.Len(t, op.Regions[0].Ops, 2)

	assert.Equal(t, ir.KindAdd, op.Regions[0].Ops[1].Kind)
}

func TestParseMultiResult(t *testing.T) {
	text := `arg %x
%q, %r = arith.divmod %x, %x
`

	f, err := Parse(context.Background(), []byte(text))
	require.NoError(t, err)

	op := f.Graph.Ops[0]
	require.Len(t, op.Results, 2)
	assert.Equal(t, "q", f.Graph.Name(op.Results[0]))
	assert.Equal(t, "r", f.Graph.Name(op.Results[1]))
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		text string
	}{
		{"unknown value", "%s = arith.add %x, %y\n"},
		{"redefined", "arg %a\n%a = arith.const value=1\n"},
		{"bad mark", "arg %a sometimes\n"},
		{"no kind", "%s = \n"},
		{"unclosed region", "%r = loop.for {\n"},
		{"garbage", "what %is this\n"},
	} {
		_, err := Parse(context.Background(), []byte(tc.text))
		assert.Error(t, err, tc.name)
	}
}

func TestParseErrorLine(t *testing.T) {
	_, err := Parse(context.Background(), []byte("arg %a\n%s = arith.add %zz\n"))
	require.Error(t, err)

	var se SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Line)
}
