package interp

import (
	"math"
	"strconv"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeFloatClass() *ClassDefinition {
	fns := map[string]*classMember{
		"parse": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: floatParse,
		}, true),
		"abs":       member(&Function{UsesSelf: true, Native: floatAbs}, true),
		"is_nan":    member(&Function{UsesSelf: true, Native: floatIsNaN}, true),
		"to_int":    member(&Function{UsesSelf: true, Native: floatToInt}, true),
		"pi":        member(&Function{Native: floatPi}, true),
		"to_string": member(&Function{UsesSelf: true, Native: selfToString}, true),
	}
	return &ClassDefinition{TypeID: value.TypeFloat, Name: "float", Functions: fns}
}

func floatParse(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	text := args[0].(value.Str).Get()
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.Float(f)), nil
}

func floatAbs(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Float(math.Abs(float64(self.(value.Float)))), nil
}

func floatIsNaN(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Bool(math.IsNaN(float64(self.(value.Float)))), nil
}

func floatToInt(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Int(int64(math.Round(float64(self.(value.Float))))), nil
}

func floatPi(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Float(math.Pi), nil
}
