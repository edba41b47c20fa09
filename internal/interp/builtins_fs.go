package interp

import (
	"os"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeFsClass() *ClassDefinition {
	fns := map[string]*classMember{
		"current_directory": member(&Function{Native: fsCurrentDirectory}, true),
		"change_directory": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsChangeDirectory,
		}, true),
		"exists": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsExists,
		}, true),
		"list": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsList,
		}, true),
		"remove_file": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsRemoveFile,
		}, true),
		"remove_directory": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsRemoveDirectory,
		}, true),
		"create_directory": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
			Native: fsCreateDirectory,
		}, true),
		"copy": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}, {Name: "b", TypeID: value.TypeString}},
			Native: fsCopy,
		}, true),
		"move": member(&Function{
			Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}, {Name: "b", TypeID: value.TypeString}},
			Native: fsMove,
		}, true),
	}
	return &ClassDefinition{TypeID: value.TypeFs, Name: "Fs", Functions: fns}
}

func fsCurrentDirectory(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	wd, err := os.Getwd()
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.NewStr(wd)), nil
}

func fsChangeDirectory(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	if err := os.Chdir(path); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fsExists(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	_, err := os.Stat(path)
	return value.Bool(err == nil), nil
}

func fsList(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	entries, err := os.ReadDir(path)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	names := make([]value.Value, len(entries))
	for i, e := range entries {
		names[i] = value.NewStr(e.Name())
	}
	return makeResult(ps, true, value.NewVecFrom(names)), nil
}

func fsRemoveFile(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	if err := os.Remove(path); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fsRemoveDirectory(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	if err := os.RemoveAll(path); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fsCreateDirectory(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	path := args[0].(value.Str).Get()
	if err := os.MkdirAll(path, 0o755); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fsCopy(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	src := args[0].(value.Str).Get()
	dst := args[1].(value.Str).Get()
	data, err := os.ReadFile(src)
	if err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}

func fsMove(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	src := args[0].(value.Str).Get()
	dst := args[1].(value.Str).Get()
	if err := os.Rename(src, dst); err != nil {
		return makeResult(ps, false, value.NewStr(err.Error())), nil
	}
	return makeResult(ps, true, value.None{}), nil
}
