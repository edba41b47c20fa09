// Package interp implements the scope/session layer (C5), the expression
// and statement evaluator (C6), class/method dispatch (C7), and the
// built-in function library (C8). The spec calls these four components out
// as tightly coupled — the same ParseSession/ExecSession pair threads
// through dispatch, evaluation, and error reporting — so, following the
// teacher's own precedent of a single flat internal/interp package holding
// dozens of files (environment, class, builtins_*), they live together
// here rather than split across import-cycle-prone packages.
package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/ir"
	"github.com/duskrun/dust/internal/value"
)

// FunctionCallLimit bounds recursion depth (§4.4, invariant 5). The release
// build uses 1000; a dustdebug build tag lowers it to 100 so call-depth
// bugs surface quickly under `go test -tags dustdebug`.
var FunctionCallLimit = functionCallLimit()

// Function is either a user-defined function (interpreted from its IR body)
// or a built-in implemented natively in Go, per §3's Function union.
type Function struct {
	Params          []value.AnnotatedIdentifier
	UsesSelf        bool
	ReturnAnnotated bool
	ReturnIsDyn     bool
	ReturnTypeID    value.TypeID
	IsPublic        bool

	Body []ir.Instruction // nil for a built-in

	Native func(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error)
}

// IsBuiltin reports whether fn is implemented natively rather than
// interpreted.
func (fn *Function) IsBuiltin() bool { return fn.Native != nil }

// classMember is one named member (function) of a class, paired with its
// visibility.
type classMember struct {
	Fn       *Function
	IsPublic bool
}

// ClassDefinition is a class's static shape: its constructor signature,
// property initializers (in declaration order, for `new`), and methods.
type ClassDefinition struct {
	TypeID     value.TypeID
	Name       string
	CtorParams []value.AnnotatedIdentifier
	Properties []PropertyDefinition
	Functions  map[string]*classMember
}

// NewClassDefinition builds an empty ClassDefinition ready to receive
// properties and methods, used by the parser while lowering a `class`
// declaration — classMember stays unexported so the evaluator remains the
// only place that constructs one.
func NewClassDefinition(typeid value.TypeID, name string, ctorParams []value.AnnotatedIdentifier) *ClassDefinition {
	return &ClassDefinition{
		TypeID:     typeid,
		Name:       name,
		CtorParams: ctorParams,
		Functions:  make(map[string]*classMember),
	}
}

// AddMethod installs fn as cd's named method, failing if the name is
// already taken (§4.2 "MemberAlreadyDefined"/"FunctionAlreadyDefined").
func (cd *ClassDefinition) AddMethod(name string, fn *Function, isPublic bool) bool {
	if _, exists := cd.Functions[name]; exists {
		return false
	}
	cd.Functions[name] = &classMember{Fn: fn, IsPublic: isPublic}
	return true
}

// HasMember reports whether cd already has a method or property named name
// (§4.2 duplicate-member detection spans both kinds together).
func (cd *ClassDefinition) HasMember(name string) bool {
	if _, ok := cd.Functions[name]; ok {
		return true
	}
	for _, prop := range cd.Properties {
		if prop.Name == name {
			return true
		}
	}
	return false
}

// PropertyDefinition is one class property's declared shape.
type PropertyDefinition struct {
	Name     string
	TypeID   value.TypeID
	IsDyn    bool
	IsPublic bool
	Init     ir.Expression
}

// ParseSession holds everything the lowering pass accumulates and the
// evaluator later treats as read-only: registered functions and classes,
// the type-name table, and the ever-growing concatenated source buffer
// (§4.4, §9 "source spans that cross REPL inputs").
type ParseSession struct {
	FunctionStore    map[string]*Function
	ClassDefinitions []*ClassDefinition // indexed by typeid - value.ClasslessTypesCount
	TypeNames        map[string]value.TypeID

	SourceCode string
	Offset     int // byte offset where the most recent input begins
}

// NewParseSession builds a ParseSession with the reserved type names and
// built-in classes (int, float, string, bool, Vec, Result, File, Fs, Math)
// pre-registered, matching the reserved type-id table in §3.
func NewParseSession() *ParseSession {
	ps := &ParseSession{
		FunctionStore:    make(map[string]*Function),
		ClassDefinitions: make([]*ClassDefinition, 0, 16),
		TypeNames:        make(map[string]value.TypeID),
	}
	ps.TypeNames["dyn"] = value.TypeDyn
	ps.TypeNames["none"] = value.TypeNone
	ps.TypeNames["int"] = value.TypeInt
	ps.TypeNames["float"] = value.TypeFloat
	ps.TypeNames["string"] = value.TypeString
	ps.TypeNames["bool"] = value.TypeBool
	ps.TypeNames["Vec"] = value.TypeVec
	ps.TypeNames["Result"] = value.TypeResult
	ps.TypeNames["File"] = value.TypeFile
	ps.TypeNames["Fs"] = value.TypeFs
	ps.TypeNames["Math"] = value.TypeMath

	registerBuiltinClasses(ps)
	return ps
}

// classSlot converts a class typeid to its index into ClassDefinitions.
func classSlot(typeid value.TypeID) int { return typeid - value.ClasslessTypesCount }

// ClassByTypeID returns the ClassDefinition for typeid, or nil if typeid
// names dyn/none or is out of range.
func (ps *ParseSession) ClassByTypeID(typeid value.TypeID) *ClassDefinition {
	slot := classSlot(typeid)
	if slot < 0 || slot >= len(ps.ClassDefinitions) {
		return nil
	}
	return ps.ClassDefinitions[slot]
}

// TypeName resolves typeid to its canonical display name, used by typeof
// and every error message that names a type.
func (ps *ParseSession) TypeName(typeid value.TypeID) string {
	if name := value.ReservedTypeName(typeid); name != "" {
		return name
	}
	if cd := ps.ClassByTypeID(typeid); cd != nil {
		return cd.Name
	}
	return "unknown"
}

// NextClassTypeID returns the type-id that a class declared right now would
// receive — assigned BEFORE lowering its body so recursive self-mentions
// can be detected during lowering (§4.2 "Class declaration ordering").
func (ps *ParseSession) NextClassTypeID() value.TypeID {
	return value.ClasslessTypesCount + len(ps.ClassDefinitions)
}

// RegisterClass appends cd at its pre-assigned typeid slot.
func (ps *ParseSession) RegisterClass(cd *ClassDefinition) {
	ps.ClassDefinitions = append(ps.ClassDefinitions, cd)
}

// AppendSource appends newInput to the accumulated source buffer and
// updates Offset to where it begins, so spans produced while lowering
// newInput land at the right place in the buffer every later error marker
// renders against (§9).
func (ps *ParseSession) AppendSource(newInput string) {
	ps.Offset = len(ps.SourceCode)
	ps.SourceCode += newInput
}

// FunctionQuery narrows function resolution to a class's members (§4.4).
type FunctionQuery struct {
	AssocTypeID   value.TypeID
	MemberOnly    bool
	PrivateAccess bool
}

// ResolveFunction looks up a callable function. With query == nil it
// consults the free-function store; otherwise it looks up a member of
// query.AssocTypeID's class and enforces the uses_self/visibility rules.
func (ps *ParseSession) ResolveFunction(name string, query *FunctionQuery) (*Function, *errors.Error) {
	if query == nil {
		fn, ok := ps.FunctionStore[name]
		if !ok {
			return nil, errors.New(errors.Context{}, 0, errors.FunctionNotFound)
		}
		return fn, nil
	}

	cd := ps.ClassByTypeID(query.AssocTypeID)
	if cd == nil {
		return nil, errors.New(errors.Context{}, 0, errors.FunctionNotFound)
	}
	member, ok := cd.Functions[name]
	if !ok {
		return nil, errors.New(errors.Context{}, 0, errors.FunctionNotFound)
	}
	if member.Fn.UsesSelf != query.MemberOnly {
		return nil, errors.New(errors.Context{}, 0, errors.FunctionNotFound)
	}
	if !member.IsPublic && !query.PrivateAccess {
		return nil, errors.With1(errors.Context{}, 0, errors.MemberFunctionIsPrivate, name)
	}
	return member.Fn, nil
}

// ExecSession is the mutable execution state: the global scope, a stack of
// local scopes pushed per function call, the live call-depth counter, and
// the current backtrace (§4.4).
type ExecSession struct {
	Global    map[string]*value.Variable
	Locals    []map[string]*value.Variable
	CallCount int
	Backtrace []errors.BacktraceItem
}

// NewExecSession builds an empty ExecSession with just the global scope.
func NewExecSession() *ExecSession {
	return &ExecSession{Global: make(map[string]*value.Variable)}
}

// topScope returns the active scope: the innermost local scope if any is
// pushed, else the global scope (§4.4 "Variable lookup/insert always
// targets the top-most scope").
func (es *ExecSession) topScope() map[string]*value.Variable {
	if n := len(es.Locals); n > 0 {
		return es.Locals[n-1]
	}
	return es.Global
}

// Lookup finds a variable by name in the active scope.
func (es *ExecSession) Lookup(name string) (*value.Variable, bool) {
	v, ok := es.topScope()[name]
	return v, ok
}

// Bind inserts or overwrites name in the active scope.
func (es *ExecSession) Bind(name string, v value.Variable) {
	es.topScope()[name] = &v
}

// PushScope pushes a fresh local scope seeded with bound, the function's
// parameters already evaluated and bound (§4.5 FunctionCall.call).
func (es *ExecSession) PushScope(bound map[string]*value.Variable) {
	if bound == nil {
		bound = make(map[string]*value.Variable)
	}
	es.Locals = append(es.Locals, bound)
}

// PopScope removes the innermost local scope.
func (es *ExecSession) PopScope() {
	es.Locals = es.Locals[:len(es.Locals)-1]
}

// EnterCall increments the call counter and fails with IterationLimitReached
// once it exceeds FunctionCallLimit (§4.4, invariant 5).
func (es *ExecSession) EnterCall() *errors.Error {
	es.CallCount++
	if es.CallCount > FunctionCallLimit {
		return errors.New(errors.Context{}, 0, errors.IterationLimitReached)
	}
	return nil
}

// ExitCall decrements the call counter; always invoked on the way out of a
// call, success or error, alongside PopScope.
func (es *ExecSession) ExitCall() { es.CallCount-- }

// ClearBacktrace drops the recorded backtrace after a top-level error has
// been rendered (§7 "cleared after each top-level error is rendered").
func (es *ExecSession) ClearBacktrace() { es.Backtrace = nil }

// Session bundles the two cooperating session objects (§4.4).
type Session struct {
	Parse *ParseSession
	Exec  *ExecSession
}

// NewSession builds a fresh Session with built-in classes registered.
func NewSession() *Session {
	return &Session{Parse: NewParseSession(), Exec: NewExecSession()}
}

// Clear resets a Session back to its just-constructed state (the REPL's
// `reset` command, §6).
func (s *Session) Clear() {
	*s = *NewSession()
}
