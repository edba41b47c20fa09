package interp

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

// stdin is buffered once and reused across input() calls, mirroring the
// teacher's single shared *bufio.Scanner for the REPL's own line reads.
var stdin = bufio.NewReader(os.Stdin)

// registerFreeBuiltins installs println/print/input/rand/range/panic into
// fs, grounded directly on builtin.rs's load_builtin_functions (§C8).
func registerFreeBuiltins(fs map[string]*Function) {
	fs["println"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeDyn}},
		Native: builtinPrintln,
	}
	fs["print"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeDyn}},
		Native: builtinPrint,
	}
	fs["input"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
		Native: builtinInput,
	}
	fs["rand"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}, {Name: "b", TypeID: value.TypeInt}},
		Native: builtinRand,
	}
	fs["range"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}, {Name: "b", TypeID: value.TypeInt}},
		Native: builtinRange,
	}
	fs["panic"] = &Function{
		Params: []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeString}},
		Native: builtinPanic,
	}
}

func builtinPrintln(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	fmt.Println(value.ToDisplayString(args[0], ps.TypeName, nil))
	return value.None{}, nil
}

func builtinPrint(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	fmt.Print(value.ToDisplayString(args[0], ps.TypeName, nil))
	return value.None{}, nil
}

func builtinInput(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	prompt := args[0].(value.Str)
	fmt.Print(prompt.Get())
	line, _ := stdin.ReadString('\n')
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return value.NewStr(line), nil
}

func builtinRand(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	min := int64(args[0].(value.Int))
	max := int64(args[1].(value.Int))
	if max < min {
		min, max = max, min
	}
	return value.Int(min + rand.Int63n(max-min+1)), nil
}

func builtinRange(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	min := int64(args[0].(value.Int))
	max := int64(args[1].(value.Int))
	elems := make([]value.Value, 0, max-min)
	for i := min; i < max; i++ {
		elems = append(elems, value.Int(i))
	}
	return value.NewVecFrom(elems), nil
}

func builtinPanic(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	msg := args[0].(value.Str).Get()
	return nil, errors.NewCustom(ctx, pos, "Explicit panic: "+msg)
}
