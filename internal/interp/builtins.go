package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

// registerBuiltinClasses pre-registers the nine built-in classes (int,
// float, string, bool, Vec, Result, File, Fs, Math) at their reserved
// type-ids 2 through 10, grounded on builtin.rs's
// load_builtin_class_definitions, which pushes them in this exact order so
// each one lands at its TYPEID_* constant.
func registerBuiltinClasses(ps *ParseSession) {
	registerFreeBuiltins(ps.FunctionStore)

	ps.RegisterClass(makeIntClass())
	ps.RegisterClass(makeFloatClass())
	ps.RegisterClass(makeStringClass())
	ps.RegisterClass(makeBoolClass())
	ps.RegisterClass(makeVecClass())
	ps.RegisterClass(makeResultClass())
	ps.RegisterClass(makeFileClass())
	ps.RegisterClass(makeFsClass())
	ps.RegisterClass(makeMathClass())
}

// member is a small literal-friendly constructor for classMember, used by
// every makeXClass function below.
func member(fn *Function, isPublic bool) *classMember {
	return &classMember{Fn: fn, IsPublic: isPublic}
}

// selfToString renders self the same way println does; shared by every
// primitive class's to_string() method (builtin.rs's self_to_string).
func selfToString(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.NewStr(value.ToDisplayString(self, ps.TypeName, nil)), nil
}
