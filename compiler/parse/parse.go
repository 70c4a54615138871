package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"

	"tlog.app/go/errors"

	"github.com/rill-lang/rill/compiler/ir"
)

type (
	// File is one parsed textual graph plus the per-value missingness
	// marks found on its args.
	File struct {
		Graph *ir.Graph
		Marks map[ir.Value]string
	}

	state struct {
		b []byte
		i int

		g     *ir.Graph
		names map[string]ir.Value
		marks map[ir.Value]string
	}

	SyntaxError struct {
		Line int
		Msg  string
	}
)

func ParseFile(ctx context.Context, name string) (*File, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Parse(ctx, text)
}

func Parse(ctx context.Context, text []byte) (f *File, err error) {
	s := &state{
		b:     text,
		g:     ir.NewGraph(),
		names: map[string]ir.Value{},
		marks: map[ir.Value]string{},
	}

	err = s.graph(nil)
	if err != nil {
		return nil, err
	}

	return &File{Graph: s.g, Marks: s.marks}, nil
}

// graph parses op lines until eof, or until the closing brace of reg.
func (s *state) graph(reg *ir.Region) error {
	for {
		s.skipBlank()

		if s.i == len(s.b) {
			if reg != nil {
				return s.err("unclosed region")
			}

			return nil
		}

		if s.b[s.i] == '}' {
			if reg == nil {
				return s.err("unexpected }")
			}

			s.i++

			return nil
		}

		err := s.line(reg)
		if err != nil {
			return err
		}
	}
}

func (s *state) line(reg *ir.Region) error {
	if s.b[s.i] != '%' {
		kw := s.ident()

		if kw != "arg" {
			return s.err("arg or result expected")
		}
		if reg != nil {
			return s.err("arg inside region")
		}

		return s.arg()
	}

	return s.op(reg)
}

func (s *state) arg() error {
	s.skipSpace()

	name, err := s.ref()
	if err != nil {
		return err
	}

	if _, ok := s.names[name]; ok {
		return s.err("redefined: %" + name)
	}

	v := s.g.Arg(name)
	s.names[name] = v

	s.skipSpace()

	if mark := s.ident(); mark != "" {
		switch mark {
		case "missing", "maybe":
			s.marks[v] = mark
		default:
			return s.err("unknown mark: " + mark)
		}
	}

	return s.eol()
}

func (s *state) op(reg *ir.Region) error {
	var results []string

	for {
		name, err := s.ref()
		if err != nil {
			return err
		}

		if _, ok := s.names[name]; ok {
			return s.err("redefined: %" + name)
		}

		results = append(results, name)

		s.skipSpace()

		if s.i < len(s.b) && s.b[s.i] == ',' {
			s.i++
			s.skipSpace()

			continue
		}

		break
	}

	if !s.eat('=') {
		return s.err("= expected")
	}

	s.skipSpace()

	kind := s.ident()
	if kind == "" {
		return s.err("op kind expected")
	}

	var args []ir.Value

	for {
		s.skipSpace()

		if s.i == len(s.b) || s.b[s.i] != '%' {
			break
		}

		name, err := s.ref()
		if err != nil {
			return err
		}

		v, ok := s.names[name]
		if !ok {
			return s.err("unknown value: %" + name)
		}

		args = append(args, v)

		s.skipSpace()

		if s.i < len(s.b) && s.b[s.i] == ',' {
			s.i++
			continue
		}

		break
	}

	var op *ir.Op

	if reg == nil {
		op = s.g.NewOp(kind, len(results), args...)
	} else {
		op = s.g.AddToRegion(reg, kind, len(results), args...)
	}

	for i, name := range results {
		s.g.SetName(op.Results[i], name)
		s.names[name] = op.Results[i]
	}

	err := s.attrs(op)
	if err != nil {
		return err
	}

	s.skipSpace()

	if s.eat('{') {
		sub := &ir.Region{}
		op.Regions = append(op.Regions, sub)

		err = s.graph(sub)
		if err != nil {
			return errors.Wrap(err, "region of %v", kind)
		}

		return s.eol()
	}

	return s.eol()
}

func (s *state) attrs(op *ir.Op) error {
	for {
		s.skipSpace()

		st := s.i
		key := s.ident()

		if key == "" || !s.eat('=') {
			s.i = st
			return nil
		}

		a, err := s.attrValue()
		if err != nil {
			return err
		}

		op.SetAttr(key, a)
	}
}

func (s *state) attrValue() (ir.Attr, error) {
	st := s.i

	for s.i < len(s.b) && !isSpace(s.b[s.i]) && s.b[s.i] != '\n' && s.b[s.i] != '{' {
		s.i++
	}

	tok := string(s.b[st:s.i])

	switch {
	case tok == "":
		return nil, s.err("attr value expected")
	case tok == "true":
		return ir.Bool(true), nil
	case tok == "false":
		return ir.Bool(false), nil
	case tok[0] == '-' || tok[0] >= '0' && tok[0] <= '9':
		x, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, s.err("bad int: " + tok)
		}

		return ir.Int(x), nil
	default:
		return ir.Str(tok), nil
	}
}

func (s *state) ref() (string, error) {
	if !s.eat('%') {
		return "", s.err("% expected")
	}

	name := s.ident()
	if name == "" {
		return "", s.err("value name expected")
	}

	return name, nil
}

// ident reads a word of letters, digits, dots and underscores.
func (s *state) ident() string {
	st := s.i

	for s.i < len(s.b) && isIdent(s.b[s.i]) {
		s.i++
	}

	return string(s.b[st:s.i])
}

func (s *state) eat(c byte) bool {
	s.skipSpace()

	if s.i < len(s.b) && s.b[s.i] == c {
		s.i++
		return true
	}

	return false
}

func (s *state) eol() error {
	s.skipSpace()
	s.skipComment()

	if s.i == len(s.b) {
		return nil
	}

	if s.b[s.i] != '\n' {
		return s.err("end of line expected")
	}

	s.i++

	return nil
}

func (s *state) skipSpace() {
	for s.i < len(s.b) && isSpace(s.b[s.i]) {
		s.i++
	}
}

func (s *state) skipComment() {
	if s.i < len(s.b) && s.b[s.i] == ';' {
		for s.i < len(s.b) && s.b[s.i] != '\n' {
			s.i++
		}
	}
}

func (s *state) skipBlank() {
	for s.i < len(s.b) {
		s.skipSpace()
		s.skipComment()

		if s.i < len(s.b) && s.b[s.i] == '\n' {
			s.i++
			continue
		}

		return
	}
}

func (s *state) err(msg string) error {
	return SyntaxError{
		Line: 1 + bytes.Count(s.b[:s.i], []byte{'\n'}),
		Msg:  msg,
	}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isIdent(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '.' || c == '_'
}
