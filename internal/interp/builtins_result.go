package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

// makeResult builds a Result instance with the three private properties
// builtin.rs's make_result constructs: is_ok, value, and is_checked (the
// "check before use" discipline's hidden flag, §3).
func makeResult(ps *ParseSession, isOk bool, v value.Value) value.Value {
	cd := ps.ClassByTypeID(value.TypeResult)
	in := NewInstance(cd)
	in.Props["is_ok"] = &instanceProperty{Var: value.NewVariable(value.Bool(isOk), false)}
	in.Props["value"] = &instanceProperty{Var: value.NewVariable(v, true)}
	in.Props["is_checked"] = &instanceProperty{Var: value.NewVariable(value.Bool(false), false)}
	return value.Class{Instance: in}
}

func makeResultClass() *ClassDefinition {
	fns := map[string]*classMember{
		"new": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeBool}, {Name: "b", TypeID: value.TypeDyn}},
			Native: resultNew,
		}, true),
		"is_ok":  member(&Function{UsesSelf: true, Native: resultIsOk}, true),
		"value":  member(&Function{UsesSelf: true, Native: resultValue}, true),
		"unwrap": member(&Function{UsesSelf: true, Native: resultUnwrap}, true),
	}
	return &ClassDefinition{TypeID: value.TypeResult, Name: "Result", Functions: fns}
}

func resultNew(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return makeResult(ps, bool(args[0].(value.Bool)), args[1]), nil
}

func asResultInstance(self value.Value) *Instance {
	return self.(value.Class).Instance.(*Instance)
}

func resultIsOk(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	in := asResultInstance(self)
	isOk := bool(in.Props["is_ok"].Var.Value.(value.Bool))
	in.Props["is_checked"].Var.Value = value.Bool(true)
	return value.Bool(isOk), nil
}

func resultValue(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	in := asResultInstance(self)
	if !bool(in.Props["is_checked"].Var.Value.(value.Bool)) {
		return nil, errors.NewCustom(ctx, pos, "A 'Result' must be checked with 'is_ok()' before accessing its value")
	}
	return in.Props["value"].Var.Value, nil
}

func resultUnwrap(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	in := asResultInstance(self)
	if !bool(in.Props["is_ok"].Var.Value.(value.Bool)) {
		return nil, errors.NewCustom(ctx, pos, "Unwrap called on a 'Result' containing an error")
	}
	return in.Props["value"].Var.Value, nil
}
