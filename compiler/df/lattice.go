package df

import (
	"fmt"

	"github.com/rill-lang/rill/compiler/ir"
)

type (
	// Const is the payload of a constant lattice cell.
	// The zero Const carries no attr and joins a cell to overdefined.
	Const struct {
		Attr    ir.Attr
		Dialect ir.Dialect
	}

	// ConstLat is one value's constant lattice cell.
	// It only ever moves uninit -> const -> overdefined.
	ConstLat struct {
		state latState
		c     Const
	}

	latState int
)

const (
	latUninit latState = iota
	latConst
	latOver
)

func MakeConst(a ir.Attr, d ir.Dialect) Const {
	return Const{Attr: a, Dialect: d}
}

func Overdefined() Const { return Const{} }

func (c Const) IsConst() bool { return c.Attr != nil }

func (l ConstLat) IsUninit() bool { return l.state == latUninit }

func (l ConstLat) IsOverdefined() bool { return l.state == latOver }

func (l ConstLat) Const() (Const, bool) {
	if l.state != latConst {
		return Const{}, false
	}

	return l.c, true
}

// Join merges x into the cell and reports whether the cell changed.
func (l *ConstLat) Join(x Const) bool {
	if !x.IsConst() {
		return l.MarkOverdefined()
	}

	switch l.state {
	case latUninit:
		l.state = latConst
		l.c = x

		return true
	case latConst:
		if l.c.Attr == x.Attr {
			return false
		}

		return l.MarkOverdefined()
	default:
		return false
	}
}

// JoinLat merges another cell into this one. An uninit x is a no-op.
func (l *ConstLat) JoinLat(x ConstLat) bool {
	switch x.state {
	case latUninit:
		return false
	case latConst:
		return l.Join(x.c)
	default:
		return l.MarkOverdefined()
	}
}

func (l *ConstLat) MarkOverdefined() bool {
	if l.state == latOver {
		return false
	}

	l.state = latOver
	l.c = Const{}

	return true
}

func (l ConstLat) String() string {
	switch l.state {
	case latUninit:
		return "uninit"
	case latConst:
		return fmt.Sprintf("const %v", l.c.Attr)
	default:
		return "overdefined"
	}
}
