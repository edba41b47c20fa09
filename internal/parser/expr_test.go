package parser

import (
	"testing"

	"github.com/duskrun/dust/internal/interp"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/lexer"
	"github.com/duskrun/dust/internal/token"
)

func newTestParser(src string) *Parser {
	return newTestParserOnSession(interp.NewParseSession(), src)
}

func newTestParserOnSession(ps *interp.ParseSession, src string) *Parser {
	ps.AppendSource(src)
	p := &Parser{ps: ps, offset: ps.Offset}
	lx := lexer.New(src)
	for {
		t := lx.NextToken()
		p.toks = append(p.toks, t)
		if t.Kind == token.EOF {
			break
		}
	}
	return p
}

func postfixOps(t *testing.T, expr ir.Expression) []string {
	t.Helper()
	var out []string
	for _, tok := range expr.Tokens {
		switch tok.Kind {
		case ir.TokOperator:
			out = append(out, tok.Op.String())
		case ir.TokIdent:
			out = append(out, tok.Ident)
		case ir.TokCall:
			out = append(out, tok.Call.Name+"()")
		case ir.TokImmediate:
			out = append(out, "#imm")
		}
	}
	return out
}

func TestParseExpression_UnaryChainStaysInOrder(t *testing.T) {
	p := newTestParser("not typeof x")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := postfixOps(t, expr)
	want := []string{"x", "typeof", "not"}
	if !equalStrs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExpression_UnaryThenBinary(t *testing.T) {
	p := newTestParser("- x + y")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := postfixOps(t, expr)
	want := []string{"x", "neg", "y", "+"}
	if !equalStrs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExpression_DotChainsLeftAssociative(t *testing.T) {
	p := newTestParser("a.b.c")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := postfixOps(t, expr)
	want := []string{"a", "b", ".", "c", "."}
	if !equalStrs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExpression_ArithmeticPrecedence(t *testing.T) {
	p := newTestParser("1 + 2 * 3")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := postfixOps(t, expr)
	want := []string{"#imm", "#imm", "#imm", "*", "+"}
	if !equalStrs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExpression_ParenGroupingSplicesTokens(t *testing.T) {
	p := newTestParser("(1 + 2) * 3")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := postfixOps(t, expr)
	want := []string{"#imm", "#imm", "+", "#imm", "*"}
	if !equalStrs(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseExpression_ScopedCall(t *testing.T) {
	p := newTestParser("Vec::new()")
	expr, err := p.parseExpression()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Tokens) != 1 || expr.Tokens[0].Kind != ir.TokCall {
		t.Fatalf("expected a single call token, got %v", expr.Tokens)
	}
	call := expr.Tokens[0].Call
	if call.Name != "new" || call.Assoc == nil {
		t.Fatalf("expected a scoped call to new, got %+v", call)
	}
}

func TestParseExpression_UnknownScopeType(t *testing.T) {
	p := newTestParser("Bogus::new()")
	_, err := p.parseExpression()
	if err == nil {
		t.Fatal("expected an UnknownType error")
	}
}

func equalStrs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
