package interp

import (
	"os"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeFileClass() *ClassDefinition {
	fns := map[string]*classMember{
		"read": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fileRead,
		}, true),
		"write": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}, {Name: "b", TypeID: value.TypeString}},
			Native: fileWrite,
		}, true),
		"append": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}, {Name: "b", TypeID: value.TypeString}},
			Native: fileAppend,
		}, true),
	}
	return &ClassDefinition{TypeID: value.TypeFile, Name: "File", Functions: fns}
}

func fileRead(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	contents, err := os.ReadFile(path)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.NewStr(string(contents))), nil
}

func fileWrite(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	contents := args[1].(value.Str).Get()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fileAppend(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	contents := args[1].(value.Str).Get()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}
