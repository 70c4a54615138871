package df

import (
	"tlog.app/go/tlog"

	"github.com/rill-lang/rill/compiler/ir"
)

type (
	// Env is what one transfer function invocation sees of the engine:
	// the two lattices and the change reporting used for rescheduling.
	Env interface {
		MissingnessOf(v ir.Value) Missingness
		Lattice(v ir.Value) *ConstLat
		Propagate(v ir.Value, changed bool)
	}

	// ConstProp is the missingness aware constant propagation transfer
	// function. It simulates folding out of place and never rewrites the
	// graph: the constants fed to folds are approximations, not the
	// values an op is guaranteed to see at runtime.
	ConstProp struct{}
)

func (cp ConstProp) Visit(op *ir.Op, env Env) {
	tlog.V("visit").Printw("visit op", "kind", op.Kind, "args", op.Args, "results", op.Results)

	if op.Kind == ir.KindMissingIs {
		cp.visitMissingIs(op, env)
		return
	}

	// Region bodies may have arbitrary control flow a fold cannot
	// summarize, so their results are never simulated.
	if len(op.Regions) != 0 {
		return
	}

	// Wait for every operand's missingness to be known, and only
	// propagate constants if no operand is missing.
	for _, a := range op.Args {
		m := env.MissingnessOf(a)
		if m == MissingUninit || m == Missing {
			return
		}
	}

	operands := make([]ir.Attr, len(op.Args))

	for i, a := range op.Args {
		if c, ok := env.Lattice(a).Const(); ok {
			operands[i] = c.Attr
		}
	}

	// Snapshot the op's observable state in case the fold is in place.
	origArgs := dup(op.Args)
	origAttrs := dupMap(op.Attrs)

	res, err := op.Fold(operands)
	if err != nil {
		cp.markAllOverdefined(op, env)
		return
	}

	// An in-place fold is undone and treated like a failure:
	// simulated execution must leave the op untouched.
	if len(res) == 0 {
		op.Args = origArgs
		op.Attrs = origAttrs

		cp.markAllOverdefined(op, env)

		return
	}

	// A fold breaking its one-result-per-slot contract is degraded
	// like a failed fold, the analysis itself never aborts.
	if len(res) != len(op.Results) {
		tlog.V("fold").Printw("fold result count mismatch", "kind", op.Kind, "got", len(res), "want", len(op.Results))

		cp.markAllOverdefined(op, env)

		return
	}

	for i, fr := range res {
		r := op.Results[i]
		cell := env.Lattice(r)

		if fr.IsAttr() {
			tlog.V("fold").Printw("folded to constant", "kind", op.Kind, "result", r, "attr", fr.Attr)

			env.Propagate(r, cell.Join(MakeConst(fr.Attr, op.Dialect)))
		} else {
			tlog.V("fold").Printw("folded to value", "kind", op.Kind, "result", r, "value", fr.Value)

			env.Propagate(r, cell.JoinLat(*env.Lattice(fr.Value)))
		}
	}
}

func (cp ConstProp) visitMissingIs(op *ir.Op, env Env) {
	// a malformed test op cannot be simulated
	if len(op.Args) != 1 || len(op.Results) != 1 {
		cp.markAllOverdefined(op, env)
		return
	}

	r := op.Results[0]

	switch m := env.MissingnessOf(op.Args[0]); m {
	case MissingUninit:
		// wait
	case Missing:
		env.Propagate(r, env.Lattice(r).Join(MakeConst(ir.Bool(true), op.Dialect)))
	case Present:
		env.Propagate(r, env.Lattice(r).Join(MakeConst(ir.Bool(false), op.Dialect)))
	default:
		env.Propagate(r, env.Lattice(r).Join(Overdefined()))
	}
}

func (cp ConstProp) markAllOverdefined(op *ir.Op, env Env) {
	for _, r := range op.Results {
		env.Propagate(r, env.Lattice(r).MarkOverdefined())
	}
}

func dup[T any](s []T) []T {
	if s == nil {
		return nil
	}

	return append([]T{}, s...)
}

func dupMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return nil
	}

	cp := make(map[K]V, len(m))

	for k, v := range m {
		cp[k] = v
	}

	return cp
}
