package ir

import "tlog.app/go/errors"

type (
	// FoldResult is one folded result slot: either a literal attr or
	// a reference to an existing value whose state should be forwarded.
	FoldResult struct {
		Attr  Attr
		Value Value
	}

	// FoldFunc simulates op over constant operands.
	// operands has one entry per op operand, nil where no constant is known.
	//
	// Outcomes: a non-nil error means folding failed; a nil error with no
	// results means the op was folded in place; otherwise it returns one
	// FoldResult per op result.
	FoldFunc func(op *Op, operands []Attr) ([]FoldResult, error)
)

var ErrNoFold = errors.New("no fold")

var folds = map[string]FoldFunc{}

func RegisterFold(kind string, fn FoldFunc) {
	folds[kind] = fn
}

func (op *Op) Fold(operands []Attr) ([]FoldResult, error) {
	fn, ok := folds[op.Kind]
	if !ok {
		return nil, ErrNoFold
	}

	return fn(op, operands)
}

func FoldAttr(a Attr) FoldResult { return FoldResult{Attr: a, Value: Nil} }

func FoldValue(v Value) FoldResult { return FoldResult{Value: v} }

func (r FoldResult) IsAttr() bool { return r.Attr != nil }

func init() {
	RegisterFold(KindConst, func(op *Op, _ []Attr) ([]FoldResult, error) {
		a := op.Attr("value")
		if a == nil {
			return nil, errors.New("const without value")
		}

		return []FoldResult{FoldAttr(a)}, nil
	})

	RegisterFold(KindID, func(op *Op, _ []Attr) ([]FoldResult, error) {
		if len(op.Args) != 1 {
			return nil, ErrNoFold
		}

		return []FoldResult{FoldValue(op.Args[0])}, nil
	})

	RegisterFold(KindAdd, intFold2(func(l, r Int) Attr { return l + r }))
	RegisterFold(KindMul, intFold2(func(l, r Int) Attr { return l * r }))

	RegisterFold(KindNeg, func(op *Op, operands []Attr) ([]FoldResult, error) {
		if len(operands) != 1 {
			return nil, ErrNoFold
		}

		x, ok := operands[0].(Int)
		if !ok {
			return nil, ErrNoFold
		}

		return []FoldResult{FoldAttr(-x)}, nil
	})

	RegisterFold(KindCmp, func(op *Op, operands []Attr) ([]FoldResult, error) {
		if len(operands) != 2 {
			return nil, ErrNoFold
		}

		l, ok := operands[0].(Int)
		if !ok {
			return nil, ErrNoFold
		}

		r, ok := operands[1].(Int)
		if !ok {
			return nil, ErrNoFold
		}

		cond, _ := op.Attr("cond").(Str)

		var res bool

		switch cond {
		case "", "eq":
			res = l == r
		case "ne":
			res = l != r
		case "lt":
			res = l < r
		case "le":
			res = l <= r
		default:
			return nil, errors.New("cmp cond: %v", cond)
		}

		return []FoldResult{FoldAttr(Bool(res))}, nil
	})

	// missing ops carry no generic fold.
	// missing.is is simulated by the constant propagation itself
	// and missing.missing has no constant to fold to.
}

func intFold2(f func(l, r Int) Attr) FoldFunc {
	return func(op *Op, operands []Attr) ([]FoldResult, error) {
		if len(operands) != 2 {
			return nil, ErrNoFold
		}

		l, ok := operands[0].(Int)
		if !ok {
			return nil, ErrNoFold
		}

		r, ok := operands[1].(Int)
		if !ok {
			return nil, ErrNoFold
		}

		return []FoldResult{FoldAttr(f(l, r))}, nil
	}
}
