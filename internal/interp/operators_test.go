package interp

import (
	"testing"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

func TestBinaryOp_IntAdd(t *testing.T) {
	ps := NewParseSession()
	v, err := BinaryOp(ps, ir.OpAdd, value.Int(2), value.Int(3), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Int(5) {
		t.Fatalf("got %v, want 5", v)
	}
}

func TestBinaryOp_IntFloatPromotion(t *testing.T) {
	ps := NewParseSession()
	v, err := BinaryOp(ps, ir.OpAdd, value.Int(2), value.Float(1.5), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Float(3.5) {
		t.Fatalf("got %v, want 3.5", v)
	}
}

func TestBinaryOp_StringConcat(t *testing.T) {
	ps := NewParseSession()
	v, err := BinaryOp(ps, ir.OpAdd, value.NewStr("foo"), value.NewStr("bar"), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(value.Str); !ok || s.Get() != "foobar" {
		t.Fatalf("got %v", v)
	}
}

func TestBinaryOp_StringRepeat(t *testing.T) {
	ps := NewParseSession()
	v, err := BinaryOp(ps, ir.OpMul, value.NewStr("ab"), value.Int(3), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, ok := v.(value.Str); !ok || s.Get() != "ababab" {
		t.Fatalf("got %v", v)
	}
}

func TestBinaryOp_DivisionByZero(t *testing.T) {
	ps := NewParseSession()
	_, err := BinaryOp(ps, ir.OpDiv, value.Int(1), value.Int(0), errors.Context{}, 0)
	if err == nil || err.Kind != errors.ZeroDivision {
		t.Fatalf("got %v, want ZeroDivision", err)
	}
}

func TestBinaryOp_PowAlwaysFloat(t *testing.T) {
	ps := NewParseSession()
	v, err := BinaryOp(ps, ir.OpPow, value.Int(2), value.Int(3), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != value.Float(8) {
		t.Fatalf("got %v, want 8.0", v)
	}
}

func TestBinaryOp_EqualityAcrossMismatchedTypes(t *testing.T) {
	ps := NewParseSession()
	_, err := BinaryOp(ps, ir.OpEq, value.Int(1), value.NewStr("1"), errors.Context{}, 0)
	if err == nil {
		t.Fatal("expected an error comparing int and string for equality")
	}
}

func TestUnaryOp_NegNotTypeof(t *testing.T) {
	ps := NewParseSession()

	v, err := UnaryOp(ps, ir.OpNeg, value.Int(5), errors.Context{}, 0)
	if err != nil || v != value.Int(-5) {
		t.Fatalf("neg: got %v, %v", v, err)
	}

	v, err = UnaryOp(ps, ir.OpNot, value.Bool(true), errors.Context{}, 0)
	if err != nil || v != value.Bool(false) {
		t.Fatalf("not: got %v, %v", v, err)
	}

	v, err = UnaryOp(ps, ir.OpTypeof, value.Int(5), errors.Context{}, 0)
	if err != nil {
		t.Fatalf("typeof: unexpected error %v", err)
	}
	if s, ok := v.(value.Str); !ok || s.Get() != "int" {
		t.Fatalf("typeof: got %v", v)
	}
}

func TestUnaryOp_NegOnStringIsInvalid(t *testing.T) {
	ps := NewParseSession()
	_, err := UnaryOp(ps, ir.OpNeg, value.NewStr("x"), errors.Context{}, 0)
	if err == nil || err.Kind != errors.InvalidOperationForType {
		t.Fatalf("got %v, want InvalidOperationForType", err)
	}
}
