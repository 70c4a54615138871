package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFoldConst(t *testing.T) {
	g := NewGraph()
	op := g.NewOp(KindConst, 1).SetAttr("value", Int(7))

	res, err := op.Fold(nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, Attr(Int(7)), res[0].Attr)
}

func TestFoldArith(t *testing.T) {
	g := NewGraph()
	x := g.Arg("x")
	y := g.Arg("y")

	for _, tc := range []struct {
		kind string
		in   []Attr
		out  Attr
	}{
		{KindAdd, []Attr{Int(2), Int(3)}, Int(5)},
		{KindMul, []Attr{Int(2), Int(3)}, Int(6)},
		{KindNeg, []Attr{Int(2)}, Int(-2)},
	} {
		op := g.NewOp(tc.kind, 1, x, y)

		res, err := op.Fold(tc.in)
		require.NoError(t, err, tc.kind)
		require.Len(t, res, 1, tc.kind)
		assert.Equal(t, tc.out, res[0].Attr, tc.kind)
	}
}

func TestFoldCmp(t *testing.T) {
	g := NewGraph()
	x := g.Arg("x")
	y := g.Arg("y")

	for _, tc := range []struct {
		cond Str
		out  Bool
	}{
		{"eq", false},
		{"ne", true},
		{"lt", true},
		{"le", true},
	} {
		op := g.NewOp(KindCmp, 1, x, y).SetAttr("cond", tc.cond)

		res, err := op.Fold([]Attr{Int(2), Int(3)})
		require.NoError(t, err, tc.cond)
		assert.Equal(t, Attr(tc.out), res[0].Attr, tc.cond)
	}

	op := g.NewOp(KindCmp, 1, x, y).SetAttr("cond", Str("gt"))

	_, err := op.Fold([]Attr{Int(2), Int(3)})
	assert.Error(t, err)
}

func TestFoldNonConstOperand(t *testing.T) {
	g := NewGraph()
	x := g.Arg("x")
	y := g.Arg("y")
	op := g.NewOp(KindAdd, 1, x, y)

	_, err := op.Fold([]Attr{Int(2), nil})
	assert.ErrorIs(t, err, ErrNoFold)
}

func TestFoldForwardsValue(t *testing.T) {
	g := NewGraph()
	x := g.Arg("x")
	op := g.NewOp(KindID, 1, x)

	res, err := op.Fold([]Attr{nil})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.False(t, res[0].IsAttr())
	assert.Equal(t, x, res[0].Value)
}

func TestFoldWrongArity(t *testing.T) {
	g := NewGraph()
	x := g.Arg("x")

	op := g.NewOp(KindAdd, 1, x)
	_, err := op.Fold([]Attr{Int(2)})
	assert.ErrorIs(t, err, ErrNoFold)

	op = g.NewOp(KindNeg, 1)
	_, err = op.Fold(nil)
	assert.ErrorIs(t, err, ErrNoFold)

	op = g.NewOp(KindCmp, 1, x)
	_, err = op.Fold([]Attr{Int(2)})
	assert.ErrorIs(t, err, ErrNoFold)

	op = g.NewOp(KindID, 1)
	_, err = op.Fold(nil)
	assert.ErrorIs(t, err, ErrNoFold)
}

func TestFoldUnknownKind(t *testing.T) {
	g := NewGraph()
	op := g.NewOp("loop.for", 1)

	_, err := op.Fold(nil)
	assert.ErrorIs(t, err, ErrNoFold)
}

func TestKindDialect(t *testing.T) {
	assert.Equal(t, DialectArith, KindDialect(KindAdd))
	assert.Equal(t, DialectMissing, KindDialect(KindMissingIs))
	assert.Equal(t, Dialect(""), KindDialect("plain"))
}
