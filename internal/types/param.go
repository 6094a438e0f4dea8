package types

import "fmt"

// TypeParameter is a generic placeholder with upper-bound constraints.
// IR operand checking erases an expected TypeParameter to Object when the
// operand is concrete.
type TypeParameter struct {
	name   string
	bounds []Type
	sealed bool
}

// NewTypeParameter creates an unbounded type parameter.
func NewTypeParameter(name string) *TypeParameter {
	return &TypeParameter{name: name}
}

// AddBound adds an upper bound. Bounds may mention the parameter itself.
func (p *TypeParameter) AddBound(bound Type) error {
	if p.sealed {
		return fmt.Errorf("type parameter %s: %w", p.name, ErrSealed)
	}
	p.bounds = append(p.bounds, bound)
	return nil
}

// Bounds returns the declared upper bounds.
func (p *TypeParameter) Bounds() []Type { return p.bounds }

func (p *TypeParameter) Name() string          { return p.name }
func (p *TypeParameter) BaseName() string      { return p.name }
func (p *TypeParameter) Package() string       { return "" }
func (p *TypeParameter) QualifiedName() string { return p.name }
func (p *TypeParameter) Kind() Kind            { return KindClass }
func (p *TypeParameter) Modifiers() Modifiers  { return 0 }
func (p *TypeParameter) Outer() Type           { return nil }

// String renders the parameter with its bounds, as documentation shows it.
func (p *TypeParameter) String() string {
	if len(p.bounds) == 0 {
		return p.name
	}
	s := p.name + " is "
	for i, b := range p.bounds {
		if i > 0 {
			s += " and "
		}
		s += b.Name()
	}
	return s
}

// IsSubtype holds for the parameter itself, Object, and anything one of
// its bounds is a subtype of.
func (p *TypeParameter) IsSubtype(other Type) bool {
	if other == nil || IsUnknown(other) {
		return false
	}
	if Equal(p, other) || IsObject(other) {
		return true
	}
	for _, b := range p.bounds {
		if b.IsSubtype(other) {
			return true
		}
	}
	return false
}
