package types

import (
	"fmt"
	"strings"
)

// ArrayType is an array of a base type. A multi-level array such as
// int[][] nests ArrayTypes: its base is itself an ArrayType. Each level has
// its own dimension count (int[,] is one level of two dimensions).
//
// Arrays are invariant and are erased to an instantiation of the generic
// Array class whenever array logic defers to class logic.
type ArrayType struct {
	base       Type
	dimensions int
	nullable   bool
	modifiers  Modifiers
	generic    *ClassType // the registry's Array<T>
}

// newArrayType builds nested levels from dims, outermost first.
func newArrayType(generic *ClassType, base Type, dims []int) *ArrayType {
	if len(dims) == 0 {
		dims = []int{1}
	}
	elem := base
	if len(dims) > 1 {
		elem = newArrayType(generic, base, dims[1:])
	}
	return &ArrayType{
		base:       elem,
		dimensions: dims[0],
		modifiers:  base.Modifiers().Without(Immutable),
		generic:    generic,
	}
}

// BaseType is the element type of this level.
func (a *ArrayType) BaseType() Type { return a.base }

// Dimensions is the dimension count of this level.
func (a *ArrayType) Dimensions() int { return a.dimensions }

// IsNullable reports whether elements of this array may be null.
func (a *ArrayType) IsNullable() bool { return a.nullable }

// SuperBaseType is the innermost non-array element type.
func (a *ArrayType) SuperBaseType() Type {
	if inner, ok := a.base.(*ArrayType); ok {
		return inner.SuperBaseType()
	}
	return a.base
}

func (a *ArrayType) brackets() string {
	var b strings.Builder
	for t := Type(a); ; {
		arr, ok := t.(*ArrayType)
		if !ok {
			break
		}
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", arr.dimensions-1))
		b.WriteByte(']')
		t = arr.base
	}
	return b.String()
}

// Name is the super base type's name followed by one bracket group per
// level: int[,] for a two-dimensional array, int[][] for nested arrays.
func (a *ArrayType) Name() string     { return a.SuperBaseType().Name() + a.brackets() }
func (a *ArrayType) BaseName() string { return a.Name() }
func (a *ArrayType) Package() string  { return a.SuperBaseType().Package() }
func (a *ArrayType) Kind() Kind       { return KindClass }
func (a *ArrayType) Outer() Type      { return a.SuperBaseType().Outer() }
func (a *ArrayType) Modifiers() Modifiers {
	if a.nullable {
		return a.modifiers.With(Nullable)
	}
	return a.modifiers
}

func (a *ArrayType) String() string {
	if a.nullable {
		return "nullable " + a.Name()
	}
	return a.Name()
}

// QualifiedName leaves value element types unqualified.
func (a *ArrayType) QualifiedName() string {
	super := a.SuperBaseType()
	if IsValueType(super) {
		return a.Name()
	}
	if _, ok := super.(*TypeParameter); ok {
		return a.Name()
	}
	return qualify(super.Package(), a.Name())
}

// MangledName appends _A<dims> to the base type's mangled name.
func (a *ArrayType) MangledName() string {
	return fmt.Sprintf("%s_A%d", mangle(a.base), a.dimensions)
}

// IsSubtype applies invariant array subtyping. Arrays are subtypes of
// Object; other targets are checked against the generic erasure.
func (a *ArrayType) IsSubtype(other Type) bool {
	if other == nil || IsUnknown(other) {
		return false
	}
	if Equal(a, other) {
		return true
	}
	if IsObject(other) {
		return true
	}
	if o, ok := other.(*ArrayType); ok {
		if a.nullable != o.nullable || a.dimensions != o.dimensions {
			return false
		}
		return Equal(a.base, o.base)
	}
	generic := a.ConvertToGeneric()
	return generic != nil && generic.IsSubtype(other)
}

// ConvertToGeneric returns the Array<T> instantiation for this array's
// element type, or nil when no generic Array class is attached.
func (a *ArrayType) ConvertToGeneric() *ClassType {
	if a.generic == nil {
		return nil
	}
	return a.generic.instantiate([]Type{a.base})
}

// ConvertToNullable returns the nullable-element variant of a.
func (a *ArrayType) ConvertToNullable() *ArrayType {
	n := *a
	n.nullable = true
	return &n
}

// MatchingMethod defers to the generic Array class's method table.
func (a *ArrayType) MatchingMethod(name string, args *SequenceType) (*MethodSignature, bool) {
	generic := a.ConvertToGeneric()
	if generic == nil {
		return nil, false
	}
	return generic.MatchingMethod(name, args)
}

// ContainsUnboundTypeParameters reports whether the element type still
// mentions an uninstantiated type parameter.
func (a *ArrayType) ContainsUnboundTypeParameters() bool {
	return containsTypeParameter(a.base)
}
