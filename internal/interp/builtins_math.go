package interp

import (
	"math"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

// makeMathClass builds Math's built-in surface (builtin.rs's
// make_math_class): every method is static, taking one float argument named
// "a". The `d`-suffixed trig functions work in degrees.
func makeMathClass() *ClassDefinition {
	trig := map[string]func(float64) float64{
		"sin":   math.Sin,
		"sind":  func(a float64) float64 { return math.Sin(toRadians(a)) },
		"asin":  math.Asin,
		"asind": func(a float64) float64 { return toDegrees(math.Asin(a)) },
		"cos":   math.Cos,
		"cosd":  func(a float64) float64 { return math.Cos(toRadians(a)) },
		"acos":  math.Acos,
		"acosd": func(a float64) float64 { return toDegrees(math.Acos(a)) },
		"tan":   math.Tan,
		"tand":  func(a float64) float64 { return math.Tan(toRadians(a)) },
		"atan":  math.Atan,
		"atand": func(a float64) float64 { return toDegrees(math.Atan(a)) },
		"ln":    math.Log,
		"log":   math.Log10,
	}

	fns := make(map[string]*classMember, len(trig))
	for name, fn := range trig {
		fns[name] = member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeFloat}},
			Native: mathUnary(fn),
		}, true)
	}
	return &ClassDefinition{TypeID: value.TypeMath, Name: "Math", Functions: fns}
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }
func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

// mathUnary lifts a float64->float64 function into the Native signature,
// reading "a" from args the way every Math method does.
func mathUnary(fn func(float64) float64) func(*ExecSession, *ParseSession, errors.Context, int, []value.Value, value.Value) (value.Value, *errors.Error) {
	return func(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
		return value.Float(fn(float64(args[0].(value.Float)))), nil
	}
}
