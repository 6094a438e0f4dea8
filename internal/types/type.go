package types

import "errors"

// StandardPackage is the package of every built-in type.
const StandardPackage = "shadow:standard"

// Type is any type known to the compiler.
//
// Implementations: *ClassType, *ArrayType, *SequenceType, *TypeParameter,
// *PointerType, *MethodType, *PropertyType, and the null and unknown types
// owned by a Registry.
type Type interface {
	// Name is the local name, including type arguments and array brackets
	// (e.g. "List<int>", "int[,]").
	Name() string

	// BaseName is the local name without type arguments (e.g. "List").
	BaseName() string

	// Package is the owning package, empty for types without one.
	Package() string

	// QualifiedName is the name used for equality: "pkg@Name",
	// "default@Name" when the package is empty, or the bare name for
	// primitives and special types.
	QualifiedName() string

	Kind() Kind
	Modifiers() Modifiers

	// Outer is the enclosing type, or nil. It is a weak back-reference.
	Outer() Type

	// IsSubtype reports whether a value of this type may be used where
	// other is expected. It is reflexive and never panics.
	IsSubtype(other Type) bool

	String() string
}

// ModifiedType pairs a type with the modifiers of the position holding it.
type ModifiedType struct {
	Type      Type
	Modifiers Modifiers
}

func (m ModifiedType) String() string {
	if m.Type == nil {
		return "<nil>"
	}
	if m.Modifiers == 0 {
		return m.Type.Name()
	}
	return m.Modifiers.String() + " " + m.Type.Name()
}

// Registry and declaration errors.
var (
	ErrRegistryFrozen   = errors.New("type registry is frozen")
	ErrDuplicateType    = errors.New("duplicate type declaration")
	ErrUnknownType      = errors.New("unknown type")
	ErrSealed           = errors.New("type is sealed")
	ErrInheritanceCycle = errors.New("inheritance cycle")
	ErrTypeArguments    = errors.New("type arguments do not satisfy type parameters")
	ErrNotGeneric       = errors.New("type is not generic")
	ErrBadTypeName      = errors.New("malformed type name")
)

// Equal reports whether a and b denote the same type.
//
// Equality is by qualified name: two independently built instances with
// the same qualified name are interchangeable. Arrays additionally compare
// nullability, and sequences compare element-wise.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && x.nullable == y.nullable && x.dimensions == y.dimensions && Equal(x.base, y.base)
	case *SequenceType:
		y, ok := b.(*SequenceType)
		return ok && x.matches(y.elems)
	}
	if _, ok := b.(*ArrayType); ok {
		return false
	}
	return a.QualifiedName() == b.QualifiedName()
}

// SamePackageAndName reports whether a and b agree on both package and
// local base name. It is the deliberate secondary equality used by IR
// operand checking to accept two independently constructed instantiations
// of the same generic type; general type equality does not use it.
func SamePackageAndName(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Package() == b.Package() && a.BaseName() == b.BaseName()
}

// Names of the primitive types.
const (
	NameBoolean = "boolean"
	NameByte    = "byte"
	NameUByte   = "ubyte"
	NameShort   = "short"
	NameUShort  = "ushort"
	NameInt     = "int"
	NameUInt    = "uint"
	NameLong    = "long"
	NameULong   = "ulong"
	NameFloat   = "float"
	NameDouble  = "double"
	NameCode    = "code"
	NameString  = "String"
	NameObject  = "Object"
)

var (
	numericalNames = map[string]bool{
		NameByte: true, NameUByte: true, NameShort: true, NameUShort: true,
		NameInt: true, NameUInt: true, NameLong: true, NameULong: true,
		NameCode: true, NameFloat: true, NameDouble: true,
	}
	integralNames = map[string]bool{
		NameByte: true, NameUByte: true, NameShort: true, NameUShort: true,
		NameInt: true, NameUInt: true, NameLong: true, NameULong: true,
		NameCode: true,
	}
	unsignedNames = map[string]bool{
		NameUByte: true, NameUShort: true, NameUInt: true, NameULong: true,
	}
)

// isStandard reports whether t is the built-in of the given name.
func isStandard(t Type, name string) bool {
	c, ok := t.(*ClassType)
	return ok && c.generic == nil && c.pkg == StandardPackage && c.name == name
}

func isPrimitiveName(t Type, set map[string]bool) bool {
	c, ok := t.(*ClassType)
	return ok && c.primitive && set[c.name]
}

// IsNumerical reports whether arithmetic is defined on t.
func IsNumerical(t Type) bool { return isPrimitiveName(t, numericalNames) }

// IsIntegral reports whether t is an integer type (bitwise operations,
// array bounds, switch statements).
func IsIntegral(t Type) bool { return isPrimitiveName(t, integralNames) }

// IsUnsigned reports whether t is an unsigned integer type.
func IsUnsigned(t Type) bool { return isPrimitiveName(t, unsignedNames) }

// IsPrimitive reports whether t is a primitive, which is one of the
// numerical types. boolean is a value type but not a primitive.
func IsPrimitive(t Type) bool { return IsNumerical(t) }

// IsValueType reports whether values of t are held by value: the
// primitives and boolean. Value types are boxed on conversion to a
// reference type and are never reference counted.
func IsValueType(t Type) bool {
	c, ok := t.(*ClassType)
	return ok && c.primitive
}

// IsBoolean reports whether t is boolean.
func IsBoolean(t Type) bool { return isPrimitiveName(t, map[string]bool{NameBoolean: true}) }

// IsString reports whether t is the built-in String class.
func IsString(t Type) bool { return isStandard(t, NameString) }

// IsObject reports whether t is the root Object class.
func IsObject(t Type) bool { return isStandard(t, NameObject) }

// IsBuiltIn reports whether t is Object, String or a value type.
func IsBuiltIn(t Type) bool {
	return IsValueType(t) || IsString(t) || IsObject(t)
}

// IsNull reports whether t is the null type.
func IsNull(t Type) bool {
	s, ok := t.(*specialType)
	return ok && s.null
}

// IsUnknown reports whether t is the unknown type used after a failed
// resolution.
func IsUnknown(t Type) bool {
	s, ok := t.(*specialType)
	return ok && !s.null
}

// specialType implements the null and unknown types.
type specialType struct {
	name string
	null bool
}

func (s *specialType) Name() string          { return s.name }
func (s *specialType) BaseName() string      { return s.name }
func (s *specialType) Package() string       { return "" }
func (s *specialType) QualifiedName() string { return s.name }
func (s *specialType) Kind() Kind            { return KindClass }
func (s *specialType) Modifiers() Modifiers  { return 0 }
func (s *specialType) Outer() Type           { return nil }
func (s *specialType) String() string        { return s.name }

// IsSubtype: null is a subtype of every type; unknown is a subtype of
// nothing but itself.
func (s *specialType) IsSubtype(other Type) bool {
	if other == nil {
		return false
	}
	return s.null || other == Type(s)
}

// qualify builds a qualified name from a package and local name.
func qualify(pkg, name string) string {
	if pkg == "" {
		return "default@" + name
	}
	return pkg + "@" + name
}
