package interp

import (
	"strconv"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeBoolClass() *ClassDefinition {
	fns := map[string]*classMember{
		"parse": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: boolParse,
		}, true),
		"to_string": member(&Function{UsesSelf: true, Native: selfToString}, true),
	}
	return &ClassDefinition{TypeID: value.TypeBool, Name: "bool", Functions: fns}
}

func boolParse(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	text := args[0].(value.Str).Get()
	b, err := strconv.ParseBool(text)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.Bool(b)), nil
}
