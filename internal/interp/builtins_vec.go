package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeVecClass() *ClassDefinition {
	fns := map[string]*classMember{
		"new": member(&Function{Native: vecNew}, true),
		"push": member(&Function{
			UsesSelf: true,
			Params:   []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeDyn}},
			Native:   vecPush,
		}, true),
		"get": member(&Function{
			UsesSelf: true,
			Params:   []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}},
			Native:   vecGet,
		}, true),
		"set": member(&Function{
			UsesSelf: true,
			Params:   []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}, {Name: "b", TypeID: value.TypeDyn}},
			Native:   vecSet,
		}, true),
		"remove": member(&Function{
			UsesSelf: true,
			Params:   []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}},
			Native:   vecRemove,
		}, true),
		"pop":   member(&Function{UsesSelf: true, Native: vecPop}, true),
		"clear": member(&Function{UsesSelf: true, Native: vecClear}, true),
		"len":   member(&Function{UsesSelf: true, Native: vecLen}, true),
	}
	return &ClassDefinition{TypeID: value.TypeVec, Name: "Vec", Functions: fns}
}

func vecNew(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.NewVec(), nil
}

func vecPush(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	self.(value.Vec).Push(args[0])
	return value.None{}, nil
}

func vecGet(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	vec := self.(value.Vec)
	idx := int64(args[0].(value.Int))
	if idx < 0 || idx >= int64(vec.Len()) {
		return nil, errors.WithIndex(ctx, pos, idx, vec.Len())
	}
	return vec.At(int(idx)), nil
}

func vecSet(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	vec := self.(value.Vec)
	idx := int64(args[0].(value.Int))
	if idx < 0 || idx >= int64(vec.Len()) {
		return nil, errors.WithIndex(ctx, pos, idx, vec.Len())
	}
	vec.Set(int(idx), args[1])
	return value.None{}, nil
}

func vecRemove(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	vec := self.(value.Vec)
	idx := int64(args[0].(value.Int))
	if idx < 0 || idx >= int64(vec.Len()) {
		return nil, errors.WithIndex(ctx, pos, idx, vec.Len())
	}
	return vec.RemoveAt(int(idx)), nil
}

func vecPop(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	v, ok := self.(value.Vec).Pop()
	if !ok {
		return value.None{}, nil
	}
	return v, nil
}

func vecClear(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	self.(value.Vec).Clear()
	return value.None{}, nil
}

func vecLen(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Int(self.(value.Vec).Len()), nil
}
