package interp

import (
	"testing"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

func TestConstructInstance_RunsPropertyInitializersInOrder(t *testing.T) {
	s := NewSession()
	cd := &ClassDefinition{
		TypeID: value.FirstUserClassTypeID,
		Name:   "Point",
		Properties: []PropertyDefinition{
			{Name: "x", TypeID: value.TypeInt, IsPublic: true, Init: immediateExpr(value.Int(1))},
			{Name: "y", TypeID: value.TypeInt, IsPublic: true, Init: immediateExpr(value.Int(2))},
		},
	}
	s.Parse.RegisterClass(cd)

	ev := NewEvaluator(s)
	inst, err := ConstructInstance(ev, cd, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	x, err := inst.GetProperty("x", false)
	if err != nil || x != value.Int(1) {
		t.Fatalf("x = %v, %v", x, err)
	}
	y, err := inst.GetProperty("y", false)
	if err != nil || y != value.Int(2) {
		t.Fatalf("y = %v, %v", y, err)
	}
}

func TestInstance_PrivatePropertyRequiresPrivateAccess(t *testing.T) {
	cd := &ClassDefinition{TypeID: value.FirstUserClassTypeID, Name: "Secret"}
	in := NewInstance(cd)
	in.Props["hidden"] = &instanceProperty{Var: value.NewVariable(value.Int(7), false), IsPublic: false}

	if _, err := in.GetProperty("hidden", false); err == nil || err.Kind != errors.MemberIsPrivate {
		t.Fatalf("expected MemberIsPrivate, got %v", err)
	}
	v, err := in.GetProperty("hidden", true)
	if err != nil || v != value.Int(7) {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestInstance_SetPropertyTypeMismatch(t *testing.T) {
	ps := NewParseSession()
	cd := &ClassDefinition{TypeID: value.FirstUserClassTypeID, Name: "Box"}
	in := NewInstance(cd)
	in.Props["n"] = &instanceProperty{Var: value.NewVariable(value.Int(1), false), IsPublic: true}

	if err := in.SetProperty(ps, "n", value.NewStr("oops"), false); err == nil || err.Kind != errors.InvalidAssignment {
		t.Fatalf("expected InvalidAssignment, got %v", err)
	}
	if err := in.SetProperty(ps, "n", value.Int(42), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, _ := in.GetProperty("n", false)
	if v != value.Int(42) {
		t.Fatalf("got %v", v)
	}
}

func TestClassByTypeID_OutOfRange(t *testing.T) {
	ps := NewParseSession()
	if ps.ClassByTypeID(value.TypeDyn) != nil {
		t.Fatal("expected nil for dyn, which has no class slot")
	}
	if ps.ClassByTypeID(9999) != nil {
		t.Fatal("expected nil for an out-of-range typeid")
	}
	if ps.ClassByTypeID(value.TypeInt) == nil {
		t.Fatal("expected a ClassDefinition for int")
	}
}

// immediateExpr builds a single-token Expression yielding v, for tests that
// need a minimal property initializer without going through the parser.
func immediateExpr(v value.Value) ir.Expression {
	return ir.Expression{Tokens: []ir.ExprToken{{Kind: ir.TokImmediate, Immediate: v}}}
}
