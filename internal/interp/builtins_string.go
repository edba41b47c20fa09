package interp

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

func makeStringClass() *ClassDefinition {
	arg := func(name string, t value.TypeID) []value.AnnotatedIdentifier {
		return []value.AnnotatedIdentifier{{Name: name, TypeID: t}}
	}
	fns := map[string]*classMember{
		"join":         member(&Function{UsesSelf: true, Params: arg("a", value.TypeString), Native: stringJoin}, true),
		"starts_with":  member(&Function{UsesSelf: true, Params: arg("a", value.TypeString), Native: stringStartsWith}, true),
		"ends_with":    member(&Function{UsesSelf: true, Params: arg("a", value.TypeString), Native: stringEndsWith}, true),
		"contains":     member(&Function{UsesSelf: true, Params: arg("a", value.TypeString), Native: stringContains}, true),
		"pop":          member(&Function{UsesSelf: true, Native: stringPop}, true),
		"trim":         member(&Function{UsesSelf: true, Native: stringTrim}, true),
		"to_lowercase": member(&Function{UsesSelf: true, Native: stringToLowercase}, true),
		"to_uppercase": member(&Function{UsesSelf: true, Native: stringToUppercase}, true),
		"len":          member(&Function{UsesSelf: true, Native: stringLen}, true),
		"chars":        member(&Function{UsesSelf: true, Native: stringChars}, true),
		"substring": member(&Function{
			UsesSelf: true,
			Params:   []value.AnnotatedIdentifier{{Name: "a", TypeID: value.TypeInt}, {Name: "b", TypeID: value.TypeInt}},
			Native:   stringSubstring,
		}, true),
		"split": member(&Function{UsesSelf: true, Params: arg("a", value.TypeString), Native: stringSplit}, true),
	}
	return &ClassDefinition{TypeID: value.TypeString, Name: "string", Functions: fns}
}

func stringJoin(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	s := self.(value.Str)
	s.Set(s.Get() + args[0].(value.Str).Get())
	return value.None{}, nil
}

func stringStartsWith(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Bool(strings.HasPrefix(self.(value.Str).Get(), args[0].(value.Str).Get())), nil
}

func stringEndsWith(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Bool(strings.HasSuffix(self.(value.Str).Get(), args[0].(value.Str).Get())), nil
}

func stringContains(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Bool(strings.Contains(self.(value.Str).Get(), args[0].(value.Str).Get())), nil
}

// stringPop removes and returns the last rune, not byte, of self — matching
// the original's char-based String::pop (Value::new_string(ch.to_string())).
func stringPop(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	s := self.(value.Str)
	text := s.Get()
	if text == "" {
		return value.None{}, nil
	}
	runes := []rune(text)
	last := runes[len(runes)-1]
	s.Set(string(runes[:len(runes)-1]))
	return value.NewStr(string(last)), nil
}

func stringTrim(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.NewStr(strings.TrimSpace(norm.NFC.String(self.(value.Str).Get()))), nil
}

func stringToLowercase(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.NewStr(strings.ToLower(norm.NFC.String(self.(value.Str).Get()))), nil
}

func stringToUppercase(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.NewStr(strings.ToUpper(norm.NFC.String(self.(value.Str).Get()))), nil
}

func stringLen(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	return value.Int(len(self.(value.Str).Get())), nil
}

func stringChars(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	runes := []rune(self.(value.Str).Get())
	elems := make([]value.Value, len(runes))
	for i, r := range runes {
		elems[i] = value.NewStr(string(r))
	}
	return value.NewVecFrom(elems), nil
}

func stringSubstring(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	text := self.(value.Str).Get()
	start := int(args[0].(value.Int))
	end := int(args[1].(value.Int))
	if start < 0 || end > len(text) || start > end || !utf8.ValidString(text[start:end]) {
		return makeResult(ps, false, value.None{}), nil
	}
	return makeResult(ps, true, value.NewStr(text[start:end])), nil
}

func stringSplit(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	delim := args[0].(value.Str).Get()
	if utf8.RuneCountInString(delim) != 1 {
		return nil, errors.NewCustom(ctx, pos, "Delimiter must be a single character")
	}
	parts := strings.Split(self.(value.Str).Get(), delim)
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.NewStr(p)
	}
	return value.NewVecFrom(elems), nil
}
