package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

// Evaluator walks lowered IR against a Session (C6). Apart from the stack
// of executing functions used for return-type checks, all of its state
// lives in the Session, mirroring the teacher's Interpreter type that
// closes over an Environment and re-enters itself for nested blocks.
type Evaluator struct {
	Parse *ParseSession
	Exec  *ExecSession

	// returnStack tracks the function currently executing, innermost last,
	// so a `return` statement can check its value against that function's
	// declared return type (§4.5); empty at top level, where bare `return`
	// does not occur in valid programs.
	returnStack []*Function
}

// NewEvaluator builds an Evaluator over an existing Session.
func NewEvaluator(s *Session) *Evaluator {
	return &Evaluator{Parse: s.Parse, Exec: s.Exec}
}

// signal is the control-flow outcome of executing a block of Instructions.
type signal int

const (
	sigNone signal = iota
	sigReturn
	sigBreak
)

// ExecProgram runs a sequence of top-level instructions, stopping at the
// first error (§7 "a top-level error stops execution of the remaining
// top-level statements").
func (ev *Evaluator) ExecProgram(instrs []ir.Instruction) *errors.Error {
	_, _, err := ev.ExecBlock(instrs)
	return err
}

// ExecBlock runs instrs top to bottom, stopping early on Return/Break or
// the first error (§5 "within a block, statements run top to bottom").
func (ev *Evaluator) ExecBlock(instrs []ir.Instruction) (signal, value.Value, *errors.Error) {
	for _, instr := range instrs {
		sig, v, err := ev.execInstruction(instr)
		if err != nil {
			return sigNone, nil, err
		}
		if sig != sigNone {
			return sig, v, nil
		}
	}
	return sigNone, nil, nil
}

func (ev *Evaluator) execInstruction(instr ir.Instruction) (signal, value.Value, *errors.Error) {
	switch instr.Kind {
	case ir.IExpression:
		_, err := ev.EvalExpression(instr.ExprStmt)
		return sigNone, nil, err

	case ir.IBranch:
		return ev.execBranch(instr.Branch)

	case ir.IWhileLoop:
		return ev.execWhile(instr.While)

	case ir.IForLoop:
		return ev.execFor(instr.For)

	case ir.IReturn:
		var curFn *Function
		if n := len(ev.returnStack); n > 0 {
			curFn = ev.returnStack[n-1]
		}
		checked := curFn != nil && curFn.ReturnAnnotated && !curFn.ReturnIsDyn

		if instr.Return.Expr == nil {
			if checked && curFn.ReturnTypeID != value.TypeNone {
				return sigNone, nil, errors.With2(instr.Span, instr.Return.Pos, errors.InvalidReturnType, "none", ev.Parse.TypeName(curFn.ReturnTypeID))
			}
			return sigReturn, value.None{}, nil
		}
		v, err := ev.EvalExpression(instr.Return.Expr)
		if err != nil {
			return sigNone, nil, err
		}
		if checked && v.TypeID() != curFn.ReturnTypeID {
			return sigNone, nil, errors.With2(instr.Return.Expr.Span, instr.Return.Pos, errors.InvalidReturnType, ev.Parse.TypeName(v.TypeID()), ev.Parse.TypeName(curFn.ReturnTypeID))
		}
		return sigReturn, v, nil

	case ir.IBreak:
		return sigBreak, nil, nil

	case ir.IVariableInit:
		return sigNone, nil, ev.execVariableInit(instr.VarInit)

	case ir.IVariableAssign:
		return sigNone, nil, ev.execVariableAssign(instr.VarAssign)
	}
	return sigNone, nil, nil
}

func (ev *Evaluator) execBranch(b *ir.BranchInstr) (signal, value.Value, *errors.Error) {
	cond, err := ev.EvalExpression(&b.Cond)
	if err != nil {
		return sigNone, nil, err
	}
	bc, ok := cond.(value.Bool)
	if !ok {
		return sigNone, nil, errors.With1(b.Cond.Span, 0, errors.ConditionalExpressionNotBool, ev.Parse.TypeName(cond.TypeID()))
	}
	if bool(bc) {
		return ev.ExecBlock(b.Body)
	}
	for _, ei := range b.ElseIfs {
		c, err := ev.EvalExpression(&ei.Cond)
		if err != nil {
			return sigNone, nil, err
		}
		bc, ok := c.(value.Bool)
		if !ok {
			return sigNone, nil, errors.With1(ei.Cond.Span, 0, errors.ConditionalExpressionNotBool, ev.Parse.TypeName(c.TypeID()))
		}
		if bool(bc) {
			return ev.ExecBlock(ei.Body)
		}
	}
	if b.ElseBody != nil {
		return ev.ExecBlock(b.ElseBody)
	}
	return sigNone, nil, nil
}

func (ev *Evaluator) execWhile(w *ir.WhileInstr) (signal, value.Value, *errors.Error) {
	for {
		cond, err := ev.EvalExpression(&w.Cond)
		if err != nil {
			return sigNone, nil, err
		}
		bc, ok := cond.(value.Bool)
		if !ok {
			return sigNone, nil, errors.With1(w.Cond.Span, 0, errors.ConditionalExpressionNotBool, ev.Parse.TypeName(cond.TypeID()))
		}
		if !bool(bc) {
			return sigNone, nil, nil
		}
		sig, v, err := ev.ExecBlock(w.Body)
		if err != nil {
			return sigNone, nil, err
		}
		switch sig {
		case sigBreak:
			return sigNone, nil, nil
		case sigReturn:
			return sigReturn, v, nil
		}
	}
}

func (ev *Evaluator) execFor(f *ir.ForInstr) (signal, value.Value, *errors.Error) {
	operand, err := ev.EvalExpression(&f.Operand)
	if err != nil {
		return sigNone, nil, err
	}
	vec, ok := operand.(value.Vec)
	if !ok {
		return sigNone, nil, errors.With1(f.Operand.Span, 0, errors.ForLoopNotVec, ev.Parse.TypeName(operand.TypeID()))
	}

	// Re-check length each step rather than snapshotting, per the canonical
	// semantics this spec commits to for mutation-during-iteration (§9).
	for i := 0; i < vec.Len(); i++ {
		ev.Exec.Bind(f.Alias, value.NewVariable(vec.At(i), false))
		sig, v, err := ev.ExecBlock(f.Body)
		if err != nil {
			return sigNone, nil, err
		}
		switch sig {
		case sigBreak:
			return sigNone, nil, nil
		case sigReturn:
			return sigReturn, v, nil
		}
	}
	return sigNone, nil, nil
}

func (ev *Evaluator) execVariableInit(vi *ir.VariableInit) *errors.Error {
	v, err := ev.EvalExpression(&vi.Expr)
	if err != nil {
		return err
	}
	for _, id := range vi.Ids {
		switch {
		case !id.HasAnnotation:
			ev.Exec.Bind(id.Name, value.NewVariable(v, false))
		case id.TypeID == value.TypeDyn:
			ev.Exec.Bind(id.Name, value.NewVariable(v, true))
		case id.TypeID == v.TypeID():
			ev.Exec.Bind(id.Name, value.NewVariable(v, false))
		default:
			return errors.With2(vi.Expr.Span, vi.AssignPos, errors.InvalidAssignment, ev.Parse.TypeName(id.TypeID), ev.Parse.TypeName(v.TypeID()))
		}
	}
	return nil
}

func (ev *Evaluator) execVariableAssign(va *ir.VariableAssign) *errors.Error {
	v, err := ev.EvalExpression(&va.Expr)
	if err != nil {
		return err
	}

	if va.Source == nil {
		existing, ok := ev.Exec.Lookup(va.ID)
		if !ok {
			return errors.New(va.Expr.Span, va.Pos, errors.IdentifierNotFound)
		}
		if !existing.IsDynamic && existing.Value.TypeID() != v.TypeID() {
			return errors.With2(va.Expr.Span, va.Pos, errors.InvalidAssignment, ev.Parse.TypeName(existing.Value.TypeID()), ev.Parse.TypeName(v.TypeID()))
		}
		existing.Value = v
		return nil
	}

	srcVal, err := ev.EvalExpression(va.Source)
	if err != nil {
		return err
	}
	cls, ok := srcVal.(value.Class)
	if !ok {
		return errors.With2(va.Source.Span, va.Pos, errors.InvalidOperationForType, ".", ev.Parse.TypeName(srcVal.TypeID()))
	}
	inst := cls.Instance.(*Instance)
	privateAccess := va.Source.PrivateAccessType != nil && *va.Source.PrivateAccessType == inst.TypeID
	return inst.SetProperty(ev.Parse, va.ID, v, privateAccess)
}
