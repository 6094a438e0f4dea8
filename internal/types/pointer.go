package types

// PointerType is the raw address type used for low-level interop. It sits
// outside the object hierarchy: it is a subtype only of itself.
type PointerType struct{}

func (*PointerType) Name() string          { return "Pointer Type" }
func (*PointerType) BaseName() string      { return "Pointer Type" }
func (*PointerType) Package() string       { return "" }
func (*PointerType) QualifiedName() string { return "Pointer Type" }
func (*PointerType) Kind() Kind            { return KindClass }
func (*PointerType) Modifiers() Modifiers  { return 0 }
func (*PointerType) Outer() Type           { return nil }
func (*PointerType) String() string        { return "Pointer Type" }

func (*PointerType) IsSubtype(other Type) bool {
	_, ok := other.(*PointerType)
	return ok
}

// IsPointer reports whether t is the pointer type.
func IsPointer(t Type) bool {
	_, ok := t.(*PointerType)
	return ok
}
