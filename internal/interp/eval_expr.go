package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

// operandKind discriminates the three shapes an operand stack entry can
// take before it is resolved.
type operandKind int

const (
	opResolved operandKind = iota
	opIdent
	opCall
)

// operand is an entry on the postfix evaluation stack: either an already
// resolved Value, or a lazy identifier/call token resolved by whichever
// operator consumes it next. The `.` handler needs the raw, unresolved
// form so it can tell a property read from a method call (§4.5).
type operand struct {
	kind  operandKind
	value value.Value

	ident    string
	identPos int

	call    *ir.Call
	callPos int
}

// resolve forces an operand to a Value: an already-resolved operand is
// returned as-is; an identifier is looked up in the active scope; a call
// is evaluated as an ordinary (non-member) function call.
func (ev *Evaluator) resolve(op operand, expr *ir.Expression) (value.Value, *errors.Error) {
	switch op.kind {
	case opResolved:
		return op.value, nil
	case opCall:
		return ev.evalCall(op.call, expr, op.callPos, nil)
	default:
		v, ok := ev.Exec.Lookup(op.ident)
		if !ok {
			return nil, errors.New(expr.Span, op.identPos, errors.IdentifierNotFound)
		}
		return v.Value, nil
	}
}

// EvalExpression runs expr's postfix token stream against a fresh operand
// stack (§4.5).
func (ev *Evaluator) EvalExpression(expr *ir.Expression) (value.Value, *errors.Error) {
	stack := make([]operand, 0, len(expr.Tokens))

	for _, tok := range expr.Tokens {
		switch tok.Kind {
		case ir.TokImmediate:
			stack = append(stack, operand{kind: opResolved, value: tok.Immediate})

		case ir.TokIdent:
			stack = append(stack, operand{kind: opIdent, ident: tok.Ident, identPos: tok.Pos})

		case ir.TokCall:
			stack = append(stack, operand{kind: opCall, call: tok.Call, callPos: tok.Pos})

		case ir.TokOperator:
			if tok.Op == ir.OpDot {
				rhs := stack[len(stack)-1]
				lhs := stack[len(stack)-2]
				stack = stack[:len(stack)-2]
				v, err := ev.evalDot(lhs, rhs, expr, tok.Pos)
				if err != nil {
					return nil, err
				}
				stack = append(stack, operand{kind: opResolved, value: v})
				continue
			}

			if tok.Op.IsUnary() {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				operandVal, err := ev.resolve(top, expr)
				if err != nil {
					return nil, err
				}
				v, err := UnaryOp(ev.Parse, tok.Op, operandVal, expr.Span, tok.Pos)
				if err != nil {
					return nil, err
				}
				stack = append(stack, operand{kind: opResolved, value: v})
				continue
			}

			rhsOp := stack[len(stack)-1]
			lhsOp := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			lhsVal, err := ev.resolve(lhsOp, expr)
			if err != nil {
				return nil, err
			}
			rhsVal, err := ev.resolve(rhsOp, expr)
			if err != nil {
				return nil, err
			}
			v, err := BinaryOp(ev.Parse, tok.Op, lhsVal, rhsVal, expr.Span, tok.Pos)
			if err != nil {
				return nil, err
			}
			stack = append(stack, operand{kind: opResolved, value: v})
		}
	}

	return ev.resolve(stack[0], expr)
}

// evalDot implements the `.` handler (§4.5): member access on a property
// name, or a method call binding lhs to self. Every type from type-id 2
// upward (int, float, string, bool, Vec, Result, File, Fs, Math, and every
// user class) owns a ClassDefinition with methods (§3 "CLASSLESS_TYPES_COUNT
// = 2" — only dyn and none have no class slot), so a method call dispatches
// off lhs's own TypeID rather than requiring a value.Class wrapper. Named
// property access, by contrast, only exists on value.Class instances: no
// built-in type stores named properties, only methods.
func (ev *Evaluator) evalDot(lhsOp, rhsOp operand, expr *ir.Expression, pos int) (value.Value, *errors.Error) {
	lhsVal, err := ev.resolve(lhsOp, expr)
	if err != nil {
		return nil, err
	}

	switch rhsOp.kind {
	case opCall:
		if rhsOp.call.Assoc != nil {
			return nil, errors.New(expr.Span, rhsOp.callPos, errors.InvalidScopeAccess)
		}
		return ev.evalCall(rhsOp.call, expr, rhsOp.callPos, lhsVal)

	case opIdent:
		cls, ok := lhsVal.(value.Class)
		if !ok {
			return nil, errors.New(expr.Span, pos, errors.InvalidMemberAccess)
		}
		inst := cls.Instance.(*Instance)
		privateAccess := expr.PrivateAccessType != nil && *expr.PrivateAccessType == inst.TypeID
		return inst.GetProperty(rhsOp.ident, privateAccess)

	default:
		return nil, errors.New(expr.Span, pos, errors.InvalidMemberAccess)
	}
}

// evalCall dispatches a function-call node. self is non-nil when the call
// arrived through `.` (instance.method()); it is bound as the `self`
// parameter (§4.5). self may be any Value, not only a value.Class instance —
// a method on int, string, Vec, etc. binds self to that raw primitive.
func (ev *Evaluator) evalCall(call *ir.Call, expr *ir.Expression, callPos int, self value.Value) (value.Value, *errors.Error) {
	fn, ferr := ev.resolveCallee(call, expr, self)
	if ferr != nil {
		ferr.Context = expr.Span
		ferr.Pos = callPos
		return nil, ferr
	}

	if len(call.Args) != len(fn.Params) {
		return nil, errors.New(expr.Span, callPos, errors.InvalidNumberOfArguments)
	}

	bound := make(map[string]*value.Variable, len(fn.Params)+2)
	evaluatedArgs := make([]value.Value, len(call.Args))
	for i, argExpr := range call.Args {
		argVal, err := ev.EvalExpression(&argExpr)
		if err != nil {
			return nil, err
		}
		param := fn.Params[i]
		if param.TypeID != value.TypeDyn && argVal.TypeID() != param.TypeID {
			return nil, errors.With2(argExpr.Span, 0, errors.InvalidArgumentType, ev.Parse.TypeName(argVal.TypeID()), ev.Parse.TypeName(param.TypeID))
		}
		v := value.NewVariable(argVal, param.TypeID == value.TypeDyn)
		bound[param.Name] = &v
		evaluatedArgs[i] = argVal
	}
	if call.Assoc != nil {
		typeidVar := value.NewVariable(value.Int(call.Assoc.TypeID), true)
		bound["#"] = &typeidVar
	}
	if self != nil {
		selfVar := value.NewVariable(self, true)
		bound["self"] = &selfVar
	}

	if enterErr := ev.Exec.EnterCall(); enterErr != nil {
		ev.Exec.ExitCall()
		return nil, enterErr
	}
	ev.Exec.PushScope(bound)
	defer func() {
		ev.Exec.PopScope()
		ev.Exec.ExitCall()
	}()

	result, callErr := ev.runCallBody(fn, expr.Span, callPos, evaluatedArgs, self)

	if callErr != nil && (!fn.IsBuiltin() || call.Name == "new") {
		line, col := errors.LineColumn(expr.Span.Start+callPos, ev.Parse.SourceCode)
		ev.Exec.Backtrace = append(ev.Exec.Backtrace, errors.BacktraceItem{Name: call.Name, Line: line, Col: col})
	}
	return result, callErr
}

// resolveCallee looks up the callee. When self is non-nil the call arrived
// as instance.method(...): the owning class is self's own TypeID (whatever
// concrete type that is), not call.Assoc, which is set only for the scoped
// associated-function form (Type::name(...)).
func (ev *Evaluator) resolveCallee(call *ir.Call, expr *ir.Expression, self value.Value) (*Function, *errors.Error) {
	if self != nil {
		privateAccess := expr.PrivateAccessType != nil && *expr.PrivateAccessType == self.TypeID()
		return ev.Parse.ResolveFunction(call.Name, &FunctionQuery{
			AssocTypeID:   self.TypeID(),
			MemberOnly:    true,
			PrivateAccess: privateAccess,
		})
	}
	if call.Assoc == nil {
		return ev.Parse.ResolveFunction(call.Name, nil)
	}
	privateAccess := expr.PrivateAccessType != nil && *expr.PrivateAccessType == call.Assoc.TypeID
	return ev.Parse.ResolveFunction(call.Name, &FunctionQuery{
		AssocTypeID:   call.Assoc.TypeID,
		MemberOnly:    false,
		PrivateAccess: privateAccess,
	})
}

// runCallBody executes fn's native implementation or interpreted body and
// applies the return-type contract of §4.5.
func (ev *Evaluator) runCallBody(fn *Function, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	if fn.IsBuiltin() {
		return fn.Native(ev.Exec, ev.Parse, ctx, pos, args, self)
	}

	ev.returnStack = append(ev.returnStack, fn)
	sig, v, err := ev.ExecBlock(fn.Body)
	ev.returnStack = ev.returnStack[:len(ev.returnStack)-1]
	if err != nil {
		return nil, err
	}

	if sig == sigReturn {
		return v, nil
	}
	// Fell off the end without an explicit return: treated as `return;`.
	if fn.ReturnAnnotated && !fn.ReturnIsDyn && fn.ReturnTypeID != value.TypeNone {
		return nil, errors.With2(ctx, pos, errors.InvalidReturnType, "none", ev.Parse.TypeName(fn.ReturnTypeID))
	}
	return value.None{}, nil
}
