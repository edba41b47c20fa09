package interp

import (
	"strconv"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeIntClass() *ClassDefinition {
	fns := map[string]*classMember{
		"parse": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: intParse,
		}, true),
		"abs":       member(&Function{UsesSelf: true, Native: intAbs}, true),
		"to_float":  member(&Function{UsesSelf: true, Native: intToFloat}, true),
		"to_string": member(&Function{UsesSelf: true, Native: selfToString}, true),
	}
	return &ClassDefinition{TypeID: value.TypeInt, Name: "int", Functions: fns}
}

func intParse(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	text := args[0].(value.Str).Get()
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.Int(n)), nil
}

func intAbs(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	n := int64(self.(value.Int))
	if n < 0 {
		n = -n
	}
	return value.Int(n), nil
}

func intToFloat(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Float(float64(self.(value.Int))), nil
}
