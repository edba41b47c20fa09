package interp

import (
	"testing"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

func boolExpr(b bool) ir.Expression { return immediateExpr(value.Bool(b)) }

func TestExecBranch_TakesFirstTrueClause(t *testing.T) {
	s := NewSession()
	ev := NewEvaluator(s)

	b := &ir.BranchInstr{
		Cond: boolExpr(false),
		Body: []ir.Instruction{{Kind: ir.IVariableInit, VarInit: &ir.VariableInit{
			Ids: []value.OptAnnotatedIdentifier{{Name: "hit"}}, Expr: immediateExpr(value.NewStr("if")),
		}}},
		ElseIfs: []ir.ElseIf{{
			Cond: boolExpr(true),
			Body: []ir.Instruction{{Kind: ir.IVariableInit, VarInit: &ir.VariableInit{
				Ids: []value.OptAnnotatedIdentifier{{Name: "hit"}}, Expr: immediateExpr(value.NewStr("elseif")),
			}}},
		}},
		ElseBody: []ir.Instruction{{Kind: ir.IVariableInit, VarInit: &ir.VariableInit{
			Ids: []value.OptAnnotatedIdentifier{{Name: "hit"}}, Expr: immediateExpr(value.NewStr("else")),
		}}},
	}

	if _, _, err := ev.execBranch(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hit, ok := s.Exec.Lookup("hit")
	if !ok {
		t.Fatal("expected hit to be bound")
	}
	if got := hit.Value.(value.Str).Get(); got != "elseif" {
		t.Fatalf("got %q, want elseif", got)
	}
}

func TestExecBranch_NonBoolConditionErrors(t *testing.T) {
	ev := NewEvaluator(NewSession())
	b := &ir.BranchInstr{Cond: immediateExpr(value.Int(1))}
	if _, _, err := ev.execBranch(b); err == nil || err.Kind != errors.ConditionalExpressionNotBool {
		t.Fatalf("got %v, want ConditionalExpressionNotBool", err)
	}
}

func TestExecWhile_BreakStopsLoop(t *testing.T) {
	s := NewSession()
	ev := NewEvaluator(s)
	s.Exec.Bind("n", value.NewVariable(value.Int(0), false))

	w := &ir.WhileInstr{
		Cond: boolExpr(true),
		Body: []ir.Instruction{{Kind: ir.IBreak}},
	}
	sig, _, err := ev.execWhile(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != sigNone {
		t.Fatalf("expected break to be absorbed, got signal %v", sig)
	}
}

func TestExecWhile_ReturnPropagatesSignal(t *testing.T) {
	ev := NewEvaluator(NewSession())
	retExpr := immediateExpr(value.Int(9))
	w := &ir.WhileInstr{
		Cond: boolExpr(true),
		Body: []ir.Instruction{{Kind: ir.IReturn, Return: &ir.ReturnInstr{Expr: &retExpr}}},
	}
	sig, v, err := ev.execWhile(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != sigReturn || v != value.Int(9) {
		t.Fatalf("got sig=%v v=%v, want sigReturn 9", sig, v)
	}
}

func TestExecFor_SumsOverVec(t *testing.T) {
	s := NewSession()
	ev := NewEvaluator(s)
	vec := value.NewVecFrom([]value.Value{value.Int(1), value.Int(2), value.Int(3)})
	s.Exec.Bind("total", value.NewVariable(value.Int(0), false))

	f := &ir.ForInstr{
		Alias:   "x",
		Operand: immediateExpr(vec),
		Body: []ir.Instruction{{Kind: ir.IVariableAssign, VarAssign: &ir.VariableAssign{
			ID: "total",
			Expr: ir.Expression{Tokens: []ir.ExprToken{
				{Kind: ir.TokIdent, Ident: "total"},
				{Kind: ir.TokIdent, Ident: "x"},
				{Kind: ir.TokOperator, Op: ir.OpAdd},
			}},
		}}},
	}
	if _, _, err := ev.execFor(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total, _ := s.Exec.Lookup("total")
	if total.Value != value.Int(6) {
		t.Fatalf("got %v, want 6", total.Value)
	}
}

func TestExecFor_NonVecOperandErrors(t *testing.T) {
	ev := NewEvaluator(NewSession())
	f := &ir.ForInstr{Alias: "x", Operand: immediateExpr(value.Int(1))}
	if _, _, err := ev.execFor(f); err == nil || err.Kind != errors.ForLoopNotVec {
		t.Fatalf("got %v, want ForLoopNotVec", err)
	}
}

func TestExecVariableInit_DynAcceptsAnyType(t *testing.T) {
	s := NewSession()
	ev := NewEvaluator(s)
	vi := &ir.VariableInit{
		Ids:  []value.OptAnnotatedIdentifier{{Name: "x", HasAnnotation: true, TypeID: value.TypeDyn}},
		Expr: immediateExpr(value.Int(1)),
	}
	if err := ev.execVariableInit(vi); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	x, _ := s.Exec.Lookup("x")
	if !x.IsDynamic {
		t.Fatal("expected x to be bound as dynamic")
	}
}

func TestExecVariableInit_AnnotationMismatchErrors(t *testing.T) {
	ev := NewEvaluator(NewSession())
	vi := &ir.VariableInit{
		Ids:  []value.OptAnnotatedIdentifier{{Name: "x", HasAnnotation: true, TypeID: value.TypeString}},
		Expr: immediateExpr(value.Int(1)),
	}
	if err := ev.execVariableInit(vi); err == nil || err.Kind != errors.InvalidAssignment {
		t.Fatalf("got %v, want InvalidAssignment", err)
	}
}

func TestExecVariableAssign_PlainRejectsUnknownIdentifier(t *testing.T) {
	ev := NewEvaluator(NewSession())
	va := &ir.VariableAssign{ID: "nope", Expr: immediateExpr(value.Int(1))}
	if err := ev.execVariableAssign(va); err == nil || err.Kind != errors.IdentifierNotFound {
		t.Fatalf("got %v, want IdentifierNotFound", err)
	}
}

func TestExecVariableAssign_MemberFormSetsInstanceProperty(t *testing.T) {
	s := NewSession()
	ev := NewEvaluator(s)
	cd := NewClassDefinition(value.FirstUserClassTypeID, "Counter", nil)
	s.Parse.RegisterClass(cd)
	in := NewInstance(cd)
	in.Props["n"] = &instanceProperty{Var: value.NewVariable(value.Int(0), false), IsPublic: true}
	s.Exec.Bind("c", value.NewVariable(value.Class{Instance: in}, false))

	srcExpr := ir.Expression{Tokens: []ir.ExprToken{{Kind: ir.TokIdent, Ident: "c"}}}
	va := &ir.VariableAssign{Source: &srcExpr, ID: "n", Expr: immediateExpr(value.Int(5))}
	if err := ev.execVariableAssign(va); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := in.GetProperty("n", false)
	if n != value.Int(5) {
		t.Fatalf("got %v, want 5", n)
	}
}
