package df

import "github.com/rill-lang/rill/compiler/ir"

type (
	// Missingness is the null-like property of a value.
	// It is an input to constant propagation, never computed here.
	Missingness int

	// MissingnessSource answers missingness queries per value.
	MissingnessSource interface {
		MissingnessOf(v ir.Value) Missingness
	}

	SourceFunc func(v ir.Value) Missingness

	// Annotations is a map-backed source. Unlisted values are Present.
	Annotations struct {
		m map[ir.Value]Missingness
	}
)

const (
	MissingUninit Missingness = iota
	Missing
	Present
	MaybeMissing
)

func (f SourceFunc) MissingnessOf(v ir.Value) Missingness { return f(v) }

func NewAnnotations() *Annotations {
	return &Annotations{
		m: map[ir.Value]Missingness{},
	}
}

func (a *Annotations) Set(v ir.Value, m Missingness) {
	a.m[v] = m
}

func (a *Annotations) MissingnessOf(v ir.Value) Missingness {
	if m, ok := a.m[v]; ok {
		return m
	}

	return Present
}

func (m Missingness) String() string {
	switch m {
	case MissingUninit:
		return "uninit"
	case Missing:
		return "missing"
	case Present:
		return "present"
	case MaybeMissing:
		return "maybe"
	default:
		return "unknown"
	}
}
