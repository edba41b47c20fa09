// Package value implements the tagged value union of the interpreter
// (C1): primitives copied by value, and reference-counted interior-mutable
// handles for strings, vectors, and class instances, mirroring the
// teacher's runtime.Value family (internal/interp/runtime/primitives.go)
// but following this interpreter's own type-id scheme.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TypeID is a dense non-negative integer type identity. Reserved ids are
// fixed; program-declared classes start at FirstUserClassTypeID in
// declaration order.
type TypeID = int

const (
	TypeDyn TypeID = iota
	TypeNone
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeVec
	TypeResult
	TypeFile
	TypeFs
	TypeMath
)

// ClasslessTypesCount is the number of reserved type-ids that have no
// backing ClassDefinition slot (dyn and none).
const ClasslessTypesCount = 2

// FirstClassTypeID is the first type-id with a backing ClassDefinition slot:
// int, the first of the nine built-in classes (int, float, string, bool,
// Vec, Result, File, Fs, Math) registered before any program-declared class.
const FirstClassTypeID = ClasslessTypesCount

// FirstUserClassTypeID is the type-id assigned to the first class a program
// declares, after the nine built-in classes occupy 2 through 10.
const FirstUserClassTypeID = FirstClassTypeID + 9

// ReservedTypeName returns the canonical name of a reserved (non-class)
// type, or "" if typeid does not name one of dyn/none.
func ReservedTypeName(typeid TypeID) string {
	switch typeid {
	case TypeDyn:
		return "dyn"
	case TypeNone:
		return "none"
	}
	return ""
}

// Value is the tagged union of runtime values: None, Int, Float, Str, Bool,
// Vector, Class. Int/Float/Bool/None are copied by value (ordinary Go value
// types); Str/Vector/Class hold a pointer to shared, interior-mutable state,
// so assigning a Value of one of those kinds is the "clone" spec.md talks
// about: a new handle to the same backing object, observable through every
// other handle (invariant 4).
type Value interface {
	TypeID() TypeID
	valueMarker()
}

// None is the unit value.
type None struct{}

func (None) TypeID() TypeID { return TypeNone }
func (None) valueMarker()   {}

// Int is a 64-bit signed integer value.
type Int int64

func (Int) TypeID() TypeID { return TypeInt }
func (Int) valueMarker()   {}

// Float is an IEEE-754 double value.
type Float float64

func (Float) TypeID() TypeID { return TypeFloat }
func (Float) valueMarker()   {}

// Bool is a boolean value.
type Bool bool

func (Bool) TypeID() TypeID { return TypeBool }
func (Bool) valueMarker()   {}

// strData is the shared, mutable backing buffer for a Str value.
type strData struct {
	data string
}

// Str is a handle to a shared, mutable UTF-8 string. Two Str values created
// by copying the same handle observe each other's mutations; == compares
// contents, not identity (see Equal).
type Str struct {
	obj *strData
}

func (Str) TypeID() TypeID { return TypeString }
func (Str) valueMarker()   {}

// NewStr allocates a fresh, independently-owned string object.
func NewStr(s string) Str { return Str{obj: &strData{data: s}} }

// Get returns the current contents of the string.
func (s Str) Get() string { return s.obj.data }

// Set overwrites the contents of the string, observable through every
// other handle to the same object.
func (s Str) Set(v string) { s.obj.data = v }

// Identity returns a value suitable for pointer-identity comparison.
func (s Str) Identity() any { return s.obj }

// vecData is the shared, mutable backing slice for a Vec value.
type vecData struct {
	elems []Value
}

// Vec is a handle to a shared, mutable ordered sequence of Values.
type Vec struct {
	obj *vecData
}

func (Vec) TypeID() TypeID { return TypeVec }
func (Vec) valueMarker()   {}

// NewVec allocates a fresh, empty vector object.
func NewVec() Vec { return Vec{obj: &vecData{}} }

// NewVecFrom allocates a fresh vector object seeded with elems.
func NewVecFrom(elems []Value) Vec { return Vec{obj: &vecData{elems: elems}} }

func (v Vec) Len() int             { return len(v.obj.elems) }
func (v Vec) At(i int) Value       { return v.obj.elems[i] }
func (v Vec) Set(i int, x Value)   { v.obj.elems[i] = x }
func (v Vec) Push(x Value)         { v.obj.elems = append(v.obj.elems, x) }
func (v Vec) Clear()               { v.obj.elems = v.obj.elems[:0] }
func (v Vec) Identity() any        { return v.obj }
func (v Vec) Elements() []Value    { return v.obj.elems }

// Pop removes and returns the last element; ok is false on an empty vector.
func (v Vec) Pop() (Value, bool) {
	n := len(v.obj.elems)
	if n == 0 {
		return None{}, false
	}
	last := v.obj.elems[n-1]
	v.obj.elems = v.obj.elems[:n-1]
	return last, true
}

// RemoveAt removes and returns the element at index i.
func (v Vec) RemoveAt(i int) Value {
	removed := v.obj.elems[i]
	v.obj.elems = append(v.obj.elems[:i], v.obj.elems[i+1:]...)
	return removed
}

// InsertAt inserts x at index i, shifting later elements up.
func (v Vec) InsertAt(i int, x Value) {
	v.obj.elems = append(v.obj.elems, None{})
	copy(v.obj.elems[i+1:], v.obj.elems[i:])
	v.obj.elems[i] = x
}

// ClassInstance is implemented by the interp package's class instance type.
// It is defined here, rather than imported, so that this package never
// depends on the evaluator/class-dispatch layer above it.
type ClassInstance interface {
	ClassTypeID() TypeID
	ClassName() string
}

// Class is a handle to a user- or builtin-class instance.
type Class struct {
	Instance ClassInstance
}

func (c Class) TypeID() TypeID { return c.Instance.ClassTypeID() }
func (Class) valueMarker()     {}

// Identity returns a value suitable for pointer-identity comparison.
func (c Class) Identity() any { return c.Instance }

// Equal implements the structural/pointer-identity equality rules of §4.3:
// numeric with promotion, structural strings, pointer identity for
// Vector/Class, and None's special-cased reflexivity.
func Equal(a, b Value) (bool, bool) {
	if _, ok := a.(None); ok {
		_, bNone := b.(None)
		return bNone, true
	}
	if _, ok := b.(None); ok {
		return false, true
	}
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return av == bv, true
		case Float:
			return float64(av) == float64(bv), true
		}
	case Float:
		switch bv := b.(type) {
		case Int:
			return float64(av) == float64(bv), true
		case Float:
			return av == bv, true
		}
	case Str:
		if bv, ok := b.(Str); ok {
			return av.Get() == bv.Get(), true
		}
	case Bool:
		if bv, ok := b.(Bool); ok {
			return av == bv, true
		}
	case Vec:
		if bv, ok := b.(Vec); ok {
			return av.Identity() == bv.Identity(), true
		}
	case Class:
		if bv, ok := b.(Class); ok {
			return av.Identity() == bv.Identity(), true
		}
	}
	return false, false
}

// ToDisplayString renders a Value for print/println. classNamer resolves a
// class type-id to its declared name (used only by Vec elements and
// top-level Class values; Class values always render as their type name per
// the cycle-safety design in §9 — a class is never recursed into). seen
// tracks vectors currently being rendered so a self-referential vector
// prints "[...]" instead of recursing forever (§9, §8 testable property).
func ToDisplayString(v Value, classNamer func(TypeID) string, seen map[*vecData]bool) string {
	switch x := v.(type) {
	case None:
		return "none"
	case Int:
		return strconv.FormatInt(int64(x), 10)
	case Float:
		return formatFloat(float64(x))
	case Bool:
		if x {
			return "true"
		}
		return "false"
	case Str:
		return x.Get()
	case Vec:
		if seen == nil {
			seen = make(map[*vecData]bool)
		}
		if seen[x.obj] {
			return "[...]"
		}
		seen[x.obj] = true
		defer delete(seen, x.obj)

		parts := make([]string, len(x.obj.elems))
		for i, e := range x.obj.elems {
			parts[i] = ToDisplayString(e, classNamer, seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case Class:
		return classNamer(x.TypeID())
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	if math.IsInf(f, -1) {
		return "-inf"
	}
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Variable is a named binding: a Value plus whether it accepts reassignment
// across types (the "dyn" escape hatch).
type Variable struct {
	Value     Value
	IsDynamic bool
}

// NewVariable builds a Variable bound to value with the given dynamic flag.
func NewVariable(v Value, isDynamic bool) Variable {
	return Variable{Value: v, IsDynamic: isDynamic}
}

// TypeID returns the type-id of the variable's current value.
func (vr Variable) TypeID() TypeID { return vr.Value.TypeID() }

// AnnotatedIdentifier is a name bound to a required type-id (function and
// constructor parameters, which are never left unannotated).
type AnnotatedIdentifier struct {
	Name   string
	TypeID TypeID
}

// OptAnnotatedIdentifier is a name with an optional type annotation, used by
// `let` declarations: HasAnnotation distinguishes "no annotation" (infer
// from the RHS value) from an explicit `dyn`/concrete annotation.
type OptAnnotatedIdentifier struct {
	Name          string
	HasAnnotation bool
	TypeID        TypeID
}
