package interp

import (
	"github.com/duskrun/dust/internal/errors"
	"github.com/duskrun/dust/internal/value"
)

// instanceProperty is one stored property slot of an Instance (§3 "Instance:
// { typeid, properties: name→{var, is_public} }").
type instanceProperty struct {
	Var      value.Variable
	IsPublic bool
}

// Instance is a class instance's runtime storage. It implements
// value.ClassInstance so internal/value can represent it without importing
// this package.
type Instance struct {
	TypeID     value.TypeID
	Props      map[string]*instanceProperty
	definition *ClassDefinition
}

// ClassTypeID implements value.ClassInstance.
func (in *Instance) ClassTypeID() value.TypeID { return in.TypeID }

// ClassName implements value.ClassInstance.
func (in *Instance) ClassName() string {
	if in.definition != nil {
		return in.definition.Name
	}
	return "unknown"
}

// NewInstance allocates a bare instance of cd with no properties set; used
// by the built-in constructor before property initializers run.
func NewInstance(cd *ClassDefinition) *Instance {
	return &Instance{TypeID: cd.TypeID, Props: make(map[string]*instanceProperty), definition: cd}
}

// GetProperty reads a named property, honoring private-access (§4.6): a
// private property is only readable when privateAccess is true (the caller
// is lowered inside the owning class).
func (in *Instance) GetProperty(name string, privateAccess bool) (value.Value, *errors.Error) {
	p, ok := in.Props[name]
	if !ok {
		return nil, errors.With2(errors.Context{}, 0, errors.HasNoMember, in.ClassName(), name)
	}
	if !p.IsPublic && !privateAccess {
		return nil, errors.With1(errors.Context{}, 0, errors.MemberIsPrivate, name)
	}
	return p.Var.Value, nil
}

// SetProperty assigns a named property, obeying the same dyn-or-matching
// rule as a plain variable assignment (§4.5 VariableAssign, member form).
func (in *Instance) SetProperty(ps *ParseSession, name string, v value.Value, privateAccess bool) *errors.Error {
	p, ok := in.Props[name]
	if !ok {
		return errors.With2(errors.Context{}, 0, errors.HasNoMember, in.ClassName(), name)
	}
	if !p.IsPublic && !privateAccess {
		return errors.With1(errors.Context{}, 0, errors.MemberIsPrivate, name)
	}
	if !p.Var.IsDynamic && p.Var.Value.TypeID() != v.TypeID() {
		return errors.With2(errors.Context{}, 0, errors.InvalidAssignment, ps.TypeName(p.Var.Value.TypeID()), ps.TypeName(v.TypeID()))
	}
	p.Var.Value = v
	return nil
}

// LookupMethod resolves a method by name on cd, without the uses_self
// filtering ResolveFunction applies (callers that already know which call
// form — Self::m() vs instance.m() — they're handling use this directly;
// the general two-mode lookup lives in ParseSession.ResolveFunction).
func (cd *ClassDefinition) LookupMethod(name string) (*Function, bool, bool) {
	m, ok := cd.Functions[name]
	if !ok {
		return nil, false, false
	}
	return m.Fn, m.IsPublic, true
}

// ConstructInstance runs the synthetic `new` body for cd: it evaluates each
// property initializer in declaration order, type-checks it against the
// property's annotation, and stores it with IsDynamic set iff the property
// was declared `dyn` (§4.6).
func ConstructInstance(ev *Evaluator, cd *ClassDefinition, ctorArgs []value.Value) (*Instance, *errors.Error) {
	in := NewInstance(cd)

	// Bind constructor parameters into a scope the property initializers can
	// see, mirroring how a user function's parameters are visible to its body.
	bound := make(map[string]*value.Variable, len(cd.CtorParams))
	for i, p := range cd.CtorParams {
		if i < len(ctorArgs) {
			v := value.NewVariable(ctorArgs[i], p.TypeID == value.TypeDyn)
			bound[p.Name] = &v
		}
	}
	ev.Exec.PushScope(bound)
	defer ev.Exec.PopScope()

	for _, pd := range cd.Properties {
		initVal, err := ev.EvalExpression(&pd.Init)
		if err != nil {
			return nil, err
		}
		if !pd.IsDyn && initVal.TypeID() != pd.TypeID {
			return nil, errors.With2(pd.Init.Span, 0, errors.InvalidAssignment,
				ev.Parse.TypeName(pd.TypeID), ev.Parse.TypeName(initVal.TypeID()))
		}
		in.Props[pd.Name] = &instanceProperty{
			Var:      value.NewVariable(initVal, pd.IsDyn),
			IsPublic: pd.IsPublic,
		}
	}
	return in, nil
}

// ConstructorNative is the native body installed as every user class's
// synthetic `new` method (§9 "implicit # parameter"): evalCall already binds
// the scope variable "#" to the scoped call's resolved type-id before a
// native function runs, so this one generic body — rather than a
// per-class closure — can look that type-id up, find the matching
// ClassDefinition, and run its property initializers.
func ConstructorNative(es *ExecSession, ps *ParseSession, ctx errors.Context, pos int, args []value.Value, self value.Value) (value.Value, *errors.Error) {
	typeidVar, ok := es.Lookup("#")
	if !ok {
		return nil, errors.New(ctx, pos, errors.FunctionNotFound)
	}
	typeid := value.TypeID(typeidVar.Value.(value.Int))
	cd := ps.ClassByTypeID(typeid)
	if cd == nil {
		return nil, errors.New(ctx, pos, errors.FunctionNotFound)
	}
	ev := &Evaluator{Parse: ps, Exec: es}
	inst, err := ConstructInstance(ev, cd, args)
	if err != nil {
		return nil, err
	}
	return value.Class{Instance: inst}, nil
}
