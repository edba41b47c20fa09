package interp

import (
	"testing"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func TestResolveFunction_FreeFunctionLookup(t *testing.T) {
	ps := NewParseSession()
	ps.FunctionStore["double"] = &Function{Params: []value.AnnotatedIdentifier{{Name: "n", TypeID: value.TypeInt}}}

	fn, err := ps.ResolveFunction("double", nil)
	if err != nil || fn == nil {
		t.Fatalf("got %v, %v", fn, err)
	}

	if _, err := ps.ResolveFunction("missing", nil); err == nil || err.Kind != errors.FunctionNotFound {
		t.Fatalf("expected FunctionNotFound, got %v", err)
	}
}

func TestResolveFunction_MemberVsFreeModeDistinction(t *testing.T) {
	ps := NewParseSession()
	cd := NewClassDefinition(value.FirstUserClassTypeID, "Counter", nil)
	cd.AddMethod("inc", &Function{UsesSelf: true}, true)
	cd.AddMethod("zero", &Function{UsesSelf: false}, true)
	ps.RegisterClass(cd)

	if _, err := ps.ResolveFunction("inc", &FunctionQuery{AssocTypeID: cd.TypeID, MemberOnly: true}); err != nil {
		t.Fatalf("inc as member call: unexpected error %v", err)
	}
	if _, err := ps.ResolveFunction("inc", &FunctionQuery{AssocTypeID: cd.TypeID, MemberOnly: false}); err == nil {
		t.Fatal("expected inc to be rejected as a scoped (non-member) call")
	}
	if _, err := ps.ResolveFunction("zero", &FunctionQuery{AssocTypeID: cd.TypeID, MemberOnly: false}); err != nil {
		t.Fatalf("zero as scoped call: unexpected error %v", err)
	}
}

func TestResolveFunction_PrivateMemberRequiresAccess(t *testing.T) {
	ps := NewParseSession()
	cd := NewClassDefinition(value.FirstUserClassTypeID, "Box", nil)
	cd.AddMethod("helper", &Function{UsesSelf: true}, false)
	ps.RegisterClass(cd)

	q := &FunctionQuery{AssocTypeID: cd.TypeID, MemberOnly: true}
	if _, err := ps.ResolveFunction("helper", q); err == nil || err.Kind != errors.MemberFunctionIsPrivate {
		t.Fatalf("got %v, want MemberFunctionIsPrivate", err)
	}
	q.PrivateAccess = true
	if _, err := ps.ResolveFunction("helper", q); err != nil {
		t.Fatalf("unexpected error with private access: %v", err)
	}
}

func TestClassDefinition_AddMethodRejectsDuplicate(t *testing.T) {
	cd := NewClassDefinition(value.FirstUserClassTypeID, "Dup", nil)
	if !cd.AddMethod("m", &Function{}, true) {
		t.Fatal("first AddMethod should succeed")
	}
	if cd.AddMethod("m", &Function{}, true) {
		t.Fatal("second AddMethod with the same name should fail")
	}
}

func TestClassDefinition_HasMemberCoversPropertiesAndMethods(t *testing.T) {
	cd := NewClassDefinition(value.FirstUserClassTypeID, "Mixed", nil)
	cd.Properties = append(cd.Properties, PropertyDefinition{Name: "x"})
	cd.AddMethod("m", &Function{}, true)

	if !cd.HasMember("x") || !cd.HasMember("m") {
		t.Fatal("expected both the property and the method to be reported as members")
	}
	if cd.HasMember("absent") {
		t.Fatal("did not expect an unrelated name to be reported as a member")
	}
}

func TestEnterCall_FailsPastFunctionCallLimit(t *testing.T) {
	es := NewExecSession()
	for i := 0; i < FunctionCallLimit; i++ {
		if err := es.EnterCall(); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}
	if err := es.EnterCall(); err == nil || err.Kind != errors.IterationLimitReached {
		t.Fatalf("got %v, want IterationLimitReached", err)
	}
}

func TestScope_PushBindLookupPop(t *testing.T) {
	es := NewExecSession()
	es.Bind("g", value.NewVariable(value.Int(1), false))

	es.PushScope(map[string]*value.Variable{"g": ptr(value.NewVariable(value.Int(2), false))})
	v, ok := es.Lookup("g")
	if !ok || v.Value != value.Int(2) {
		t.Fatalf("expected the local shadow, got %v, %v", v, ok)
	}
	es.PopScope()

	v, ok = es.Lookup("g")
	if !ok || v.Value != value.Int(1) {
		t.Fatalf("expected the global binding restored, got %v, %v", v, ok)
	}
}

func TestSession_ClearResetsToFreshState(t *testing.T) {
	s := NewSession()
	s.Exec.Bind("x", value.NewVariable(value.Int(9), false))
	s.Parse.FunctionStore["f"] = &Function{}

	s.Clear()

	if _, ok := s.Exec.Lookup("x"); ok {
		t.Fatal("expected the global scope to be cleared")
	}
	if _, ok := s.Parse.FunctionStore["f"]; ok {
		t.Fatal("expected the function store to be cleared")
	}
}

func ptr(v value.Variable) *value.Variable { return &v }
