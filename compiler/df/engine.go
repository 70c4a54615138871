package df

import (
	"context"

	"nikand.dev/go/heap"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/rill-lang/rill/compiler/ir"
	"github.com/rill-lang/rill/compiler/set"
)

type (
	// Engine drives ConstProp to a fixpoint over one graph.
	// Single writer, no locking: ops are visited one at a time and
	// every changed result requeues its users.
	Engine struct {
		g   *ir.Graph
		src MissingnessSource

		cp ConstProp

		lat   []ConstLat
		users [][]int // value -> indexes into g.Ops

		cur int // op being visited
		wl  worklist
	}

	// Result is the lattice state the fixpoint converged to.
	Result struct {
		g   *ir.Graph
		lat []ConstLat
	}

	worklist struct {
		heap.Heap[int]
		queued set.Bitmap
	}
)

// Run computes the constant lattice fixpoint for g.
// A nil src means every value is Present.
func Run(ctx context.Context, g *ir.Graph, src MissingnessSource) *Result {
	e := New(g, src)
	e.Fixpoint(ctx)

	return e.Result()
}

func New(g *ir.Graph, src MissingnessSource) *Engine {
	if src == nil {
		src = SourceFunc(func(ir.Value) Missingness { return Present })
	}

	e := &Engine{
		g:     g,
		src:   src,
		lat:   make([]ConstLat, g.NumValues()),
		users: make([][]int, g.NumValues()),
		wl: worklist{
			Heap:   heap.Heap[int]{Less: opOrder},
			queued: set.MakeBitmap(len(g.Ops)),
		},
	}

	// Sparse analysis: only top level ops are scheduled,
	// region bodies are left to the region guard.
	for i, op := range g.Ops {
		for _, a := range op.Args {
			e.users[a] = append(e.users[a], i)
		}
	}

	return e
}

func (e *Engine) Fixpoint(ctx context.Context) {
	tr := tlog.SpanFromContext(ctx)

	for i := range e.g.Ops {
		e.wl.push(i)
	}

	visits := 0

	for e.wl.Len() != 0 {
		i := e.wl.pop()
		e.cur = i
		visits++

		tr.V("fixpoint").Printw("visit", "i", i, "kind", e.g.Ops[i].Kind)

		e.cp.Visit(e.g.Ops[i], e)
	}

	tr.V("fixpoint").Printw("fixpoint reached", "ops", len(e.g.Ops), "visits", visits)
}

func (e *Engine) Result() *Result {
	return &Result{g: e.g, lat: e.lat}
}

// MissingnessOf implements Env.
func (e *Engine) MissingnessOf(v ir.Value) Missingness {
	return e.src.MissingnessOf(v)
}

// Lattice implements Env.
func (e *Engine) Lattice(v ir.Value) *ConstLat {
	return &e.lat[v]
}

// Propagate implements Env. Changed results reschedule their users.
func (e *Engine) Propagate(v ir.Value, changed bool) {
	if !changed {
		return
	}

	tlog.V("prop").Printw("lattice changed", "value", v, "lat", e.lat[v], "users", e.users[v], "op", e.cur)

	for _, i := range e.users[v] {
		e.wl.push(i)
	}
}

func (r *Result) Lat(v ir.Value) ConstLat {
	return r.lat[v]
}

func (r *Result) Const(v ir.Value) (Const, bool) {
	return r.lat[v].Const()
}

func opOrder(d []int, i, j int) bool { return d[i] < d[j] }

func (w *worklist) push(i int) {
	if w.queued.IsSet(i) {
		return
	}

	tlog.V("wl_push").Printw("op queued", "i", i, "from", loc.Caller(1))

	w.queued.Set(i)
	w.Heap.Push(i)
}

func (w *worklist) pop() int {
	i := w.Heap.Pop()
	w.queued.Clear(i)

	return i
}
