package parser

import (
	"testing"

	"github.com/duskrun/dust/internal/ir"
)

func TestParseVariableInit_PlainAndAnnotated(t *testing.T) {
	p := newTestParser("let x = 1")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IVariableInit {
		t.Fatalf("got kind %v", instr.Kind)
	}
	if len(instr.VarInit.Ids) != 1 || instr.VarInit.Ids[0].Name != "x" || instr.VarInit.Ids[0].HasAnnotation {
		t.Fatalf("got %+v", instr.VarInit.Ids)
	}
}

func TestParseVariableInit_MultipleIds(t *testing.T) {
	p := newTestParser("let a, b: int = 1")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := instr.VarInit.Ids
	if len(ids) != 2 || ids[0].Name != "a" || ids[1].Name != "b" || !ids[1].HasAnnotation {
		t.Fatalf("got %+v", ids)
	}
}

func TestParseExprOrAssign_PlainAssign(t *testing.T) {
	p := newTestParser("x = 5")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IVariableAssign {
		t.Fatalf("got kind %v", instr.Kind)
	}
	if instr.VarAssign.Source != nil || instr.VarAssign.ID != "x" {
		t.Fatalf("got %+v", instr.VarAssign)
	}
}

func TestParseExprOrAssign_MemberAssign(t *testing.T) {
	p := newTestParser("a.n = 5")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IVariableAssign {
		t.Fatalf("got kind %v", instr.Kind)
	}
	va := instr.VarAssign
	if va.Source == nil || va.ID != "n" {
		t.Fatalf("got %+v", va)
	}
	if len(va.Source.Tokens) != 1 || va.Source.Tokens[0].Ident != "a" {
		t.Fatalf("source expr = %+v", va.Source.Tokens)
	}
}

func TestParseExprOrAssign_NestedMemberAssign(t *testing.T) {
	p := newTestParser("a.b.c = 5")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	va := instr.VarAssign
	if va.Source == nil || va.ID != "c" {
		t.Fatalf("got %+v", va)
	}
	got := postfixOps(t, *va.Source)
	want := []string{"a", "b", "."}
	if !equalStrs(got, want) {
		t.Fatalf("source postfix = %v, want %v", got, want)
	}
}

func TestParseExprOrAssign_PlainExpressionStatement(t *testing.T) {
	p := newTestParser("println(1)")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IExpression {
		t.Fatalf("got kind %v", instr.Kind)
	}
}

func TestParseBranch_ElseIfChain(t *testing.T) {
	p := newTestParser("if x { 1 } else if y { 2 } else { 3 }")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IBranch {
		t.Fatalf("got kind %v", instr.Kind)
	}
	b := instr.Branch
	if len(b.ElseIfs) != 1 {
		t.Fatalf("got %d else-ifs", len(b.ElseIfs))
	}
	if b.ElseBody == nil {
		t.Fatal("expected an else body")
	}
}

func TestParseFor_BindsAliasAndOperand(t *testing.T) {
	p := newTestParser("for item in v { println(item) }")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Kind != ir.IForLoop {
		t.Fatalf("got kind %v", instr.Kind)
	}
	if instr.For.Alias != "item" {
		t.Fatalf("alias = %q", instr.For.Alias)
	}
}

func TestParseReturn_BareVsValued(t *testing.T) {
	p := newTestParser("return")
	instr, err := p.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr.Return.Expr != nil {
		t.Fatalf("expected a bare return, got %+v", instr.Return.Expr)
	}

	p2 := newTestParser("return 1 + 2")
	instr2, err := p2.parseStatement()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if instr2.Return.Expr == nil {
		t.Fatal("expected a valued return")
	}
}
