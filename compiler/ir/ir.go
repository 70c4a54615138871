package ir

import "strings"

type (
	// Value is a dense id of an ssa value.
	// Each value is produced by exactly one op result slot or is a graph argument.
	Value int

	Dialect string

	// Attr is a constant attribute. Concrete attrs are comparable values,
	// equality by == is what the analyses rely on.
	Attr any

	Int  int64
	Bool bool
	Str  string

	Op struct {
		Kind    string
		Dialect Dialect

		Args    []Value
		Results []Value

		Attrs map[string]Attr

		Regions []*Region
	}

	// Region is a nested sub-graph owned by an op.
	// Analyses treat its presence as opaque control flow.
	Region struct {
		In  []Value
		Ops []*Op
	}

	Graph struct {
		In  []Value
		Ops []*Op

		names []string // value -> name, "" means unnamed
	}
)

const Nil Value = -1

const (
	DialectArith   Dialect = "arith"
	DialectMissing Dialect = "missing"
)

const (
	KindConst     = "arith.const"
	KindAdd       = "arith.add"
	KindMul       = "arith.mul"
	KindNeg       = "arith.neg"
	KindCmp       = "arith.cmp"
	KindID        = "arith.id"
	KindMissingIs = "missing.is"
	KindMissing   = "missing.missing"
)

func NewGraph() *Graph {
	return &Graph{}
}

func (g *Graph) NumValues() int {
	return len(g.names)
}

func (g *Graph) Arg(name string) Value {
	v := g.alloc(name)
	g.In = append(g.In, v)

	return v
}

// NewOp appends an op with nres fresh results to the top level of the graph.
func (g *Graph) NewOp(kind string, nres int, args ...Value) *Op {
	op := g.newOp(kind, nres, args)
	g.Ops = append(g.Ops, op)

	return op
}

// NewRegionOp is NewOp plus one empty nested region.
func (g *Graph) NewRegionOp(kind string, nres int, args ...Value) *Op {
	op := g.NewOp(kind, nres, args...)
	op.Regions = append(op.Regions, &Region{})

	return op
}

// AddToRegion appends an op to r. Region values share the graph value space.
func (g *Graph) AddToRegion(r *Region, kind string, nres int, args ...Value) *Op {
	op := g.newOp(kind, nres, args)
	r.Ops = append(r.Ops, op)

	return op
}

func (g *Graph) newOp(kind string, nres int, args []Value) *Op {
	op := &Op{
		Kind:    kind,
		Dialect: KindDialect(kind),
		Args:    args,
	}

	for i := 0; i < nres; i++ {
		op.Results = append(op.Results, g.alloc(""))
	}

	return op
}

func (g *Graph) Name(v Value) string {
	if v < 0 || int(v) >= len(g.names) {
		return ""
	}

	return g.names[v]
}

func (g *Graph) SetName(v Value, name string) {
	g.names[v] = name
}

func (g *Graph) alloc(name string) Value {
	v := Value(len(g.names))
	g.names = append(g.names, name)

	return v
}

// KindDialect is the prefix of a qualified op kind.
func KindDialect(kind string) Dialect {
	d, _, ok := strings.Cut(kind, ".")
	if !ok {
		return ""
	}

	return Dialect(d)
}

func (op *Op) SetAttr(key string, a Attr) *Op {
	if op.Attrs == nil {
		op.Attrs = map[string]Attr{}
	}

	op.Attrs[key] = a

	return op
}

func (op *Op) Attr(key string) Attr {
	return op.Attrs[key]
}
