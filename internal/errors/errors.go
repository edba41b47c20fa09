// Package errors defines the closed taxonomy of interpreter error kinds and
// renders them with source-marked backtraces, following the same
// line-gutter-plus-caret convention the teacher uses in its own
// compiler-error formatter.
package errors

import "fmt"

// Context is a half-open source span [Start, End) into the accumulated
// source buffer. Every IR node carries at least one Context; operators,
// identifiers, and call names also carry a local position relative to
// their expression's start, used for precise marker rendering.
type Context struct {
	Start int
	End   int
}

// Kind is the closed taxonomy of error kinds the interpreter can raise.
type Kind int

const (
	CustomError Kind = iota

	SyntaxError
	ZeroDivision
	FunctionNotFound
	FunctionAlreadyDefined
	IdentifierNotFound
	IdentifierIsKeyword
	IdentifierIsTypename
	InvalidNumberOfArguments
	IterationLimitReached
	IndexOutOfRange

	UnknownType
	InvalidOperationForType
	InvalidOperationForTypes
	ConditionalExpressionNotBool
	InvalidAssignment
	InvalidArgumentType
	InvalidReturnType
	ForLoopNotVec
	MissingAnnotation

	HasNoMember
	InvalidMemberAccess
	InvalidScopeAccess
	SelfOutsideMethod
	MemberAlreadyDefined
	RecursiveType
	MemberIsPrivate
	MemberFunctionIsPrivate
)

// Error is a single interpreter error: a kind plus the arguments needed to
// render its message, anchored at a Context and a local position within it.
type Error struct {
	Context Context
	Pos     int
	Kind    Kind

	Message string // CustomError message; the operator for InvalidOperationForTypes
	Str1    string // first %s-style argument, kind-dependent
	Str2    string // second %s-style argument, kind-dependent
	Int1    int64  // IndexOutOfRange index
	Int2    int    // IndexOutOfRange length
}

// New creates an Error carrying no extra arguments (e.g. SyntaxError).
func New(ctx Context, pos int, kind Kind) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: kind}
}

// NewCustom creates a CustomError with a formatted message.
func NewCustom(ctx Context, pos int, format string, args ...any) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: CustomError, Message: fmt.Sprintf(format, args...)}
}

// With1 creates an Error that carries a single string argument
// (UnknownType, ForLoopNotVec, ConditionalExpressionNotBool, MemberIsPrivate,
// MemberFunctionIsPrivate).
func With1(ctx Context, pos int, kind Kind, s1 string) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: kind, Str1: s1}
}

// With2 creates an Error that carries two string arguments
// (InvalidOperationForType, InvalidAssignment, InvalidArgumentType,
// InvalidReturnType, HasNoMember). InvalidOperationForTypes needs three
// and has its own constructor, NewInvalidOperationForTypes.
func With2(ctx Context, pos int, kind Kind, s1, s2 string) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: kind, Str1: s1, Str2: s2}
}

// WithIndex creates an IndexOutOfRange error.
func WithIndex(ctx Context, pos int, idx int64, length int) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: IndexOutOfRange, Int1: idx, Int2: length}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	return e.Kind.message(e)
}

func (k Kind) message(e *Error) string {
	switch k {
	case CustomError:
		return e.Message
	case SyntaxError:
		return "Syntax error"
	case ZeroDivision:
		return "Division by zero"
	case FunctionNotFound:
		return "Function not found"
	case FunctionAlreadyDefined:
		return "Function is already defined"
	case IdentifierNotFound:
		return "Identifier not found"
	case IdentifierIsKeyword:
		return "Expected identifier, found keyword"
	case IdentifierIsTypename:
		return "Expected identifier, found type"
	case InvalidNumberOfArguments:
		return "Invalid number of arguments passed to function"
	case IterationLimitReached:
		return "Maximum iteration count reached"
	case IndexOutOfRange:
		return fmt.Sprintf("Index '%d' is out of range for size '%d'", e.Int1, e.Int2)
	case UnknownType:
		return fmt.Sprintf("Unknown type '%s'", e.Str1)
	case InvalidOperationForType:
		return fmt.Sprintf("Invalid operation '%s' for type '%s'", e.Str1, e.Str2)
	case InvalidOperationForTypes:
		return fmt.Sprintf("Invalid operation '%s' for types '%s' and '%s'", e.Message, e.Str1, e.Str2)
	case ConditionalExpressionNotBool:
		return fmt.Sprintf("Conditional statement must receive a 'bool', found '%s'", e.Str1)
	case InvalidAssignment:
		return fmt.Sprintf("Cannot assign to variable with type '%s' a value of type '%s'", e.Str1, e.Str2)
	case InvalidArgumentType:
		return fmt.Sprintf("Invalid argument type '%s', expected '%s'", e.Str1, e.Str2)
	case InvalidReturnType:
		return fmt.Sprintf("Function returned type '%s', but its signature expects '%s'", e.Str1, e.Str2)
	case ForLoopNotVec:
		return fmt.Sprintf("For loop operand is of type '%s' but it must be of type 'Vec'", e.Str1)
	case MissingAnnotation:
		return "Missing type annotation"
	case HasNoMember:
		return fmt.Sprintf("Object of type '%s' has no member called '%s'", e.Str1, e.Str2)
	case InvalidMemberAccess:
		return "Invalid member access"
	case InvalidScopeAccess:
		return "Invalid scope access"
	case SelfOutsideMethod:
		return "The 'self' parameter is only allowed in methods"
	case MemberAlreadyDefined:
		return "A member with this name is already defined"
	case RecursiveType:
		return "Recursive types are not allowed during initialization"
	case MemberIsPrivate:
		return fmt.Sprintf("Member '%s' is private", e.Str1)
	case MemberFunctionIsPrivate:
		return fmt.Sprintf("Member function '%s' is private", e.Str1)
	default:
		return "Unknown error"
	}
}

// NewInvalidOperationForTypes is a dedicated constructor because this kind
// needs three strings (operator, type1, type2) rather than the usual two.
func NewInvalidOperationForTypes(ctx Context, pos int, op, t1, t2 string) *Error {
	return &Error{Context: ctx, Pos: pos, Kind: InvalidOperationForTypes, Message: op, Str1: t1, Str2: t2}
}
