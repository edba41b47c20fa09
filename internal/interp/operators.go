package interp

import (
	"math"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

// asFloat widens an Int or Float value to a float64; ok is false for any
// other type.
func asFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case value.Int:
		return float64(x), true
	case value.Float:
		return float64(x), true
	}
	return 0, false
}

func isNumeric(v value.Value) bool {
	_, okI := v.(value.Int)
	_, okF := v.(value.Float)
	return okI || okF
}

// BinaryOp implements the per-type semantics of §4.3 for every operator
// except OpDot, which requires access to the evaluator's scope/instance
// machinery and lives in eval_expr.go.
func BinaryOp(ps *ParseSession, op ir.Operator, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	switch op {
	case ir.OpAdd:
		return opAdd(ps, lhs, rhs, ctx, pos)
	case ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod, ir.OpPow:
		return opArith(ps, op, lhs, rhs, ctx, pos)
	case ir.OpLt, ir.OpGt:
		return opCompare(ps, op, lhs, rhs, ctx, pos)
	case ir.OpEq, ir.OpNeq:
		return opEquality(ps, op, lhs, rhs, ctx, pos)
	case ir.OpAnd, ir.OpOr:
		return opBoolean(ps, op, lhs, rhs, ctx, pos)
	}
	return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
}

func opAdd(ps *ParseSession, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	li, lIsInt := lhs.(value.Int)
	ri, rIsInt := rhs.(value.Int)
	if lIsInt && rIsInt {
		return li + ri, nil
	}
	if lf, ok := asFloat(lhs); ok {
		if rf, ok := asFloat(rhs); ok {
			return value.Float(lf + rf), nil
		}
	}
	if ls, ok := lhs.(value.Str); ok {
		if rs, ok := rhs.(value.Str); ok {
			return value.NewStr(ls.Get() + rs.Get()), nil
		}
	}
	return nil, errors.NewInvalidOperationForTypes(ctx, pos, "+", ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
}

func opArith(ps *ParseSession, op ir.Operator, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	if op == ir.OpMul {
		if v, ok := stringRepeat(lhs, rhs); ok {
			return v, nil
		}
	}

	li, lIsInt := lhs.(value.Int)
	ri, rIsInt := rhs.(value.Int)
	bothInt := lIsInt && rIsInt && op != ir.OpPow

	if bothInt {
		switch op {
		case ir.OpSub:
			return li - ri, nil
		case ir.OpMul:
			return li * ri, nil
		case ir.OpDiv:
			if ri == 0 {
				return nil, errors.New(ctx, pos, errors.ZeroDivision)
			}
			return li / ri, nil
		case ir.OpMod:
			if ri == 0 {
				return nil, errors.New(ctx, pos, errors.ZeroDivision)
			}
			return li % ri, nil
		}
	}

	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
	}
	switch op {
	case ir.OpSub:
		return value.Float(lf - rf), nil
	case ir.OpMul:
		return value.Float(lf * rf), nil
	case ir.OpDiv:
		if rf == 0 {
			return nil, errors.New(ctx, pos, errors.ZeroDivision)
		}
		return value.Float(lf / rf), nil
	case ir.OpMod:
		if rf == 0 {
			return nil, errors.New(ctx, pos, errors.ZeroDivision)
		}
		return value.Float(math.Mod(lf, rf)), nil
	case ir.OpPow:
		return value.Float(math.Pow(lf, rf)), nil
	}
	return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
}

// stringRepeat implements `string*int` and `int*string` (§4.3).
func stringRepeat(lhs, rhs value.Value) (value.Value, bool) {
	if s, ok := lhs.(value.Str); ok {
		if n, ok := rhs.(value.Int); ok {
			return value.NewStr(repeat(s.Get(), n)), true
		}
	}
	if n, ok := lhs.(value.Int); ok {
		if s, ok := rhs.(value.Str); ok {
			return value.NewStr(repeat(s.Get(), n)), true
		}
	}
	return nil, false
}

func repeat(s string, n value.Int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, len(s)*int(n))
	for i := value.Int(0); i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func opCompare(ps *ParseSession, op ir.Operator, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	if ls, ok := lhs.(value.Str); ok {
		if rs, ok := rhs.(value.Str); ok {
			if op == ir.OpLt {
				return value.Bool(ls.Get() < rs.Get()), nil
			}
			return value.Bool(ls.Get() > rs.Get()), nil
		}
	}
	lf, lok := asFloat(lhs)
	rf, rok := asFloat(rhs)
	if !lok || !rok {
		return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
	}
	if op == ir.OpLt {
		return value.Bool(lf < rf), nil
	}
	return value.Bool(lf > rf), nil
}

func opEquality(ps *ParseSession, op ir.Operator, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	eq, ok := value.Equal(lhs, rhs)
	if !ok {
		return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
	}
	if op == ir.OpNeq {
		eq = !eq
	}
	return value.Bool(eq), nil
}

func opBoolean(ps *ParseSession, op ir.Operator, lhs, rhs value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	lb, lok := lhs.(value.Bool)
	rb, rok := rhs.(value.Bool)
	if !lok || !rok {
		return nil, errors.NewInvalidOperationForTypes(ctx, pos, op.String(), ps.TypeName(lhs.TypeID()), ps.TypeName(rhs.TypeID()))
	}
	if op == ir.OpAnd {
		return value.Bool(lb && rb), nil
	}
	return value.Bool(lb || rb), nil
}

// UnaryOp implements neg, not, and typeof (§4.3).
func UnaryOp(ps *ParseSession, op ir.Operator, operand value.Value, ctx errors.Context, pos int) (value.Value, *errors.Error) {
	switch op {
	case ir.OpNeg:
		switch x := operand.(type) {
		case value.Int:
			return -x, nil
		case value.Float:
			return -x, nil
		}
		return nil, errors.With2(ctx, pos, errors.InvalidOperationForType, "neg", ps.TypeName(operand.TypeID()))
	case ir.OpNot:
		if b, ok := operand.(value.Bool); ok {
			return !b, nil
		}
		return nil, errors.With2(ctx, pos, errors.InvalidOperationForType, "not", ps.TypeName(operand.TypeID()))
	case ir.OpTypeof:
		return value.NewStr(ps.TypeName(operand.TypeID())), nil
	}
	return nil, errors.With2(ctx, pos, errors.InvalidOperationForType, op.String(), ps.TypeName(operand.TypeID()))
}
