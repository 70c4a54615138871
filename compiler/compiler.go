package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/rill-lang/rill/compiler/df"
	"github.com/rill-lang/rill/compiler/ir"
	"github.com/rill-lang/rill/compiler/parse"
)

func AnalyzeFile(ctx context.Context, name string) (out []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Analyze(ctx, name, text)
}

// Analyze parses a textual graph, runs constant propagation to a fixpoint
// and renders the graph annotated with the resulting lattice state.
func Analyze(ctx context.Context, name string, text []byte) (out []byte, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "analyze graph", "name", name)
	defer tr.Finish("err", &err)

	f, err := parse.Parse(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	res := df.Run(ctx, f.Graph, Annotations(f))

	out = ir.AppendAnnotated(nil, f.Graph, func(v ir.Value) string {
		return res.Lat(v).String()
	})

	return out, nil
}

// Annotations builds the missingness input for a parsed graph: arg marks
// plus the results of missing literals. Missingness is an input here, the
// analysis itself never infers it.
func Annotations(f *parse.File) *df.Annotations {
	ann := df.NewAnnotations()

	for v, mark := range f.Marks {
		switch mark {
		case "missing":
			ann.Set(v, df.Missing)
		case "maybe":
			ann.Set(v, df.MaybeMissing)
		}
	}

	for _, op := range f.Graph.Ops {
		if op.Kind != ir.KindMissing {
			continue
		}

		for _, r := range op.Results {
			ann.Set(r, df.Missing)
		}
	}

	return ann
}
