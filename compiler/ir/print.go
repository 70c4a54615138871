package ir

import (
	"fmt"
	"sort"
	"strconv"
)

// NoteFunc returns a per-value annotation for AppendAnnotated, "" to omit.
type NoteFunc func(v Value) string

func Append(b []byte, g *Graph) []byte {
	return AppendAnnotated(b, g, nil)
}

func AppendAnnotated(b []byte, g *Graph, note NoteFunc) []byte {
	for _, v := range g.In {
		b = append(b, "arg "...)
		b = append(b, g.ref(v)...)
		b = appendNotes(b, note, v)
		b = append(b, '\n')
	}

	for _, op := range g.Ops {
		b = g.appendOp(b, op, note, 0)
	}

	return b
}

func (g *Graph) appendOp(b []byte, op *Op, note NoteFunc, depth int) []byte {
	for i := 0; i < depth; i++ {
		b = append(b, '\t')
	}

	for i, r := range op.Results {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = append(b, g.ref(r)...)
	}

	if len(op.Results) != 0 {
		b = append(b, " = "...)
	}

	b = append(b, op.Kind...)

	for i, a := range op.Args {
		if i != 0 {
			b = append(b, ',')
		}

		b = append(b, ' ')
		b = append(b, g.ref(a)...)
	}

	for _, k := range sortedKeys(op.Attrs) {
		b = fmt.Appendf(b, " %s=%v", k, op.Attrs[k])
	}

	for _, r := range op.Regions {
		b = append(b, " {\n"...)

		for _, sub := range r.Ops {
			b = g.appendOp(b, sub, note, depth+1)
		}

		for i := 0; i < depth; i++ {
			b = append(b, '\t')
		}

		b = append(b, '}')
	}

	b = appendNotes(b, note, op.Results...)
	b = append(b, '\n')

	return b
}

func (g *Graph) ref(v Value) string {
	if name := g.Name(v); name != "" {
		return "%" + name
	}

	return "%" + strconv.Itoa(int(v))
}

func appendNotes(b []byte, note NoteFunc, vals ...Value) []byte {
	if note == nil {
		return b
	}

	first := true

	for _, v := range vals {
		n := note(v)
		if n == "" {
			continue
		}

		if first {
			b = append(b, "\t; "...)
			first = false
		} else {
			b = append(b, ", "...)
		}

		b = append(b, n...)
	}

	return b
}

func sortedKeys(m map[string]Attr) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
