package types

import (
	"fmt"
	"strings"
)

// Field is a named member variable of a class.
type Field struct {
	Name string
	Type ModifiedType
}

// ClassType is a nominal type: a class, interface, enum, exception, error
// or view, including the built-in primitives. A ClassType is either a
// declaration (possibly generic, with type parameters) or an instantiation
// of a generic declaration bound to fixed type arguments.
//
// Declarations are mutable until sealed by Registry.Freeze. Instantiations
// are never mutable: their members are the declaration's members with type
// parameters replaced by the type arguments.
type ClassType struct {
	name      string
	pkg       string
	kind      Kind
	modifiers Modifiers
	outer     Type
	primitive bool

	extends    *ClassType
	interfaces []*ClassType
	typeParams []*TypeParameter
	fields     []Field
	methods    []*MethodSignature

	generic  *ClassType
	typeArgs []Type

	sealed bool
}

// NewClassType creates a declaration of the given kind.
func NewClassType(name, pkg string, kind Kind, mods Modifiers, outer Type) *ClassType {
	return &ClassType{name: name, pkg: pkg, kind: kind, modifiers: mods, outer: outer}
}

func (c *ClassType) BaseName() string     { return c.name }
func (c *ClassType) Package() string      { return c.pkg }
func (c *ClassType) Kind() Kind           { return c.kind }
func (c *ClassType) Modifiers() Modifiers { return c.modifiers }
func (c *ClassType) Outer() Type          { return c.outer }
func (c *ClassType) String() string       { return c.Name() }

// Name renders the local name with outer types and type arguments (or, for
// an uninstantiated generic, its type parameters).
func (c *ClassType) Name() string {
	var b strings.Builder
	if c.outer != nil {
		b.WriteString(c.outer.Name())
		b.WriteByte(':')
	}
	b.WriteString(c.name)
	switch {
	case len(c.typeArgs) > 0:
		writeTypeList(&b, c.typeArgs)
	case len(c.typeParams) > 0:
		params := make([]Type, len(c.typeParams))
		for i, p := range c.typeParams {
			params[i] = p
		}
		writeTypeList(&b, params)
	}
	return b.String()
}

func writeTypeList(b *strings.Builder, ts []Type) {
	b.WriteByte('<')
	for i, t := range ts {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Name())
	}
	b.WriteByte('>')
}

func (c *ClassType) QualifiedName() string {
	if c.primitive {
		return c.name
	}
	return qualify(c.pkg, c.Name())
}

// MangledName is the symbol-safe name used by code emission.
func (c *ClassType) MangledName() string {
	var b strings.Builder
	b.WriteString(strings.NewReplacer(":", "_", "@", "_").Replace(c.pkg))
	if b.Len() > 0 {
		b.WriteByte('_')
	}
	b.WriteString(c.name)
	for _, arg := range c.typeArgs {
		b.WriteString("_L")
		b.WriteString(mangle(arg))
	}
	return b.String()
}

func mangle(t Type) string {
	switch x := t.(type) {
	case *ClassType:
		return x.MangledName()
	case *ArrayType:
		return x.MangledName()
	default:
		return t.Name()
	}
}

// IsPrimitive reports whether c is one of the numerical primitives.
func (c *ClassType) IsPrimitive() bool { return c.primitive && c.name != NameBoolean }

// IsValueType reports whether c is a primitive or boolean.
func (c *ClassType) IsValueType() bool { return c.primitive }

// Generic returns the declaration c instantiates, or nil for a declaration.
func (c *ClassType) Generic() *ClassType { return c.generic }

// TypeParameters returns the declaration's type parameters.
func (c *ClassType) TypeParameters() []*TypeParameter {
	if c.generic != nil {
		return c.generic.typeParams
	}
	return c.typeParams
}

// TypeArguments returns the bound type arguments of an instantiation.
func (c *ClassType) TypeArguments() []Type { return c.typeArgs }

// IsParameterized reports whether c declares type parameters.
func (c *ClassType) IsParameterized() bool { return len(c.TypeParameters()) > 0 }

// IsFullyInstantiated reports whether c has no unbound type parameters.
func (c *ClassType) IsFullyInstantiated() bool {
	if c.generic == nil {
		return len(c.typeParams) == 0
	}
	for _, arg := range c.typeArgs {
		if containsTypeParameter(arg) {
			return false
		}
	}
	return true
}

func containsTypeParameter(t Type) bool {
	switch x := t.(type) {
	case *TypeParameter:
		return true
	case *ClassType:
		if x.generic == nil {
			return len(x.typeParams) > 0
		}
		for _, arg := range x.typeArgs {
			if containsTypeParameter(arg) {
				return true
			}
		}
	case *ArrayType:
		return containsTypeParameter(x.base)
	}
	return false
}

// substitution maps the declaration's type parameters to c's arguments.
func (c *ClassType) substitution() map[*TypeParameter]Type {
	if c.generic == nil {
		return nil
	}
	subst := make(map[*TypeParameter]Type, len(c.typeArgs))
	for i, p := range c.generic.typeParams {
		subst[p] = c.typeArgs[i]
	}
	return subst
}

// Extends returns the superclass, or nil.
func (c *ClassType) Extends() *ClassType {
	if c.generic == nil {
		return c.extends
	}
	return replaceClass(c.generic.Extends(), c.substitution())
}

// Interfaces returns the directly implemented interfaces.
func (c *ClassType) Interfaces() []*ClassType {
	if c.generic == nil {
		return c.interfaces
	}
	subst := c.substitution()
	out := make([]*ClassType, len(c.generic.interfaces))
	for i, iface := range c.generic.interfaces {
		out[i] = replaceClass(iface, subst)
	}
	return out
}

// Fields returns the fields declared directly on c.
func (c *ClassType) Fields() []Field {
	if c.generic == nil {
		return c.fields
	}
	subst := c.substitution()
	out := make([]Field, len(c.generic.fields))
	for i, f := range c.generic.fields {
		out[i] = Field{Name: f.Name, Type: ModifiedType{Type: replace(f.Type.Type, subst), Modifiers: f.Type.Modifiers}}
	}
	return out
}

// Field looks up a field on c or its superclasses.
func (c *ClassType) Field(name string) (ModifiedType, bool) {
	seen := map[string]bool{}
	for t := c; t != nil && !seen[t.QualifiedName()]; t = t.Extends() {
		seen[t.QualifiedName()] = true
		for _, f := range t.Fields() {
			if f.Name == name {
				return f.Type, true
			}
		}
	}
	return ModifiedType{}, false
}

// Methods returns the methods declared directly on c.
func (c *ClassType) Methods() []*MethodSignature {
	if c.generic == nil {
		return c.methods
	}
	subst := c.substitution()
	out := make([]*MethodSignature, len(c.generic.methods))
	for i, m := range c.generic.methods {
		out[i] = m.replace(c, subst)
	}
	return out
}

// MethodsNamed returns every method called name on c and its supertypes,
// nearest first.
func (c *ClassType) MethodsNamed(name string) []*MethodSignature {
	var out []*MethodSignature
	c.walkSupertypes(func(t *ClassType) bool {
		for _, m := range t.Methods() {
			if m.Name == name {
				out = append(out, m)
			}
		}
		return false
	})
	return out
}

// MatchingMethod resolves a call of name with the given argument types.
// An exact match wins; otherwise exactly one method must accept the
// arguments. Ambiguity and absence both report false.
func (c *ClassType) MatchingMethod(name string, args *SequenceType) (*MethodSignature, bool) {
	candidates := c.MethodsNamed(name)
	for _, m := range candidates {
		if m.Params.matchesTypes(args) {
			return m, true
		}
	}
	var found *MethodSignature
	for _, m := range candidates {
		if m.Params.CanAccept(args) {
			if found != nil && !m.Params.matchesTypes(found.Params) {
				return nil, false
			}
			if found == nil {
				found = m
			}
		}
	}
	return found, found != nil
}

// walkSupertypes visits c and then every supertype breadth-first, each
// once. It stops early when visit returns true.
func (c *ClassType) walkSupertypes(visit func(*ClassType) bool) bool {
	seen := map[string]bool{}
	queue := []*ClassType{c}
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if t == nil || seen[t.QualifiedName()] {
			continue
		}
		seen[t.QualifiedName()] = true
		if visit(t) {
			return true
		}
		queue = append(queue, t.Extends())
		queue = append(queue, t.Interfaces()...)
	}
	return false
}

// IsSubtype walks the nominal hierarchy. Every class-like type, interfaces
// included, is a subtype of Object.
func (c *ClassType) IsSubtype(other Type) bool {
	if other == nil || IsUnknown(other) {
		return false
	}
	if Equal(c, other) {
		return true
	}
	target, ok := other.(*ClassType)
	if !ok {
		return false
	}
	if IsObject(target) {
		return true
	}
	return c.walkSupertypes(func(t *ClassType) bool {
		return Equal(t, target)
	})
}

// IsStrictSubtype reports a subtype relation between two unequal types.
func (c *ClassType) IsStrictSubtype(other Type) bool {
	return !Equal(c, other) && c.IsSubtype(other)
}

// reachesDeclaration reports whether target's declaration is c's
// declaration or one of its supertypes' declarations.
func (c *ClassType) reachesDeclaration(target *ClassType) bool {
	return c.walkSupertypes(func(t *ClassType) bool {
		return SamePackageAndName(t, target)
	})
}

func (c *ClassType) checkMutable() error {
	if c.sealed {
		return fmt.Errorf("%s: %w", c.Name(), ErrSealed)
	}
	if c.generic != nil {
		return fmt.Errorf("%s: instantiations cannot be modified: %w", c.Name(), ErrSealed)
	}
	return nil
}

// SetExtends sets the superclass. Closing an inheritance cycle fails with
// ErrInheritanceCycle.
func (c *ClassType) SetExtends(super *ClassType) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if super != nil && super.reachesDeclaration(c) {
		return fmt.Errorf("%s extends %s: %w", c.Name(), super.Name(), ErrInheritanceCycle)
	}
	c.extends = super
	return nil
}

// AddInterface adds a directly implemented interface.
func (c *ClassType) AddInterface(iface *ClassType) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if iface.reachesDeclaration(c) {
		return fmt.Errorf("%s implements %s: %w", c.Name(), iface.Name(), ErrInheritanceCycle)
	}
	c.interfaces = append(c.interfaces, iface)
	return nil
}

// AddTypeParameter appends a type parameter to a generic declaration.
func (c *ClassType) AddTypeParameter(p *TypeParameter) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.typeParams = append(c.typeParams, p)
	return nil
}

// TypeParameter looks up a declared type parameter by name.
func (c *ClassType) TypeParameter(name string) (*TypeParameter, bool) {
	for _, p := range c.TypeParameters() {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// AddField declares a field.
func (c *ClassType) AddField(name string, t ModifiedType) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.fields = append(c.fields, Field{Name: name, Type: t})
	return nil
}

// AddMethod declares a method; its Outer is set to c.
func (c *ClassType) AddMethod(m *MethodSignature) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	m.Outer = c
	c.methods = append(c.methods, m)
	return nil
}

func (c *ClassType) seal() {
	c.sealed = true
	for _, p := range c.typeParams {
		p.sealed = true
	}
}

// Instantiate binds the declaration's type parameters to args. Each
// argument must be a subtype of its parameter's bounds, with the bounds
// themselves instantiated.
func (c *ClassType) Instantiate(args ...Type) (*ClassType, error) {
	if c.generic != nil || len(c.typeParams) == 0 {
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNotGeneric)
	}
	if len(args) != len(c.typeParams) {
		return nil, fmt.Errorf("%s: want %d type arguments, got %d: %w",
			c.Name(), len(c.typeParams), len(args), ErrTypeArguments)
	}
	inst := c.instantiate(args)
	subst := inst.substitution()
	for i, p := range c.typeParams {
		for _, bound := range p.bounds {
			if !args[i].IsSubtype(replace(bound, subst)) {
				return nil, fmt.Errorf("%s: %s is not a subtype of %s: %w",
					c.Name(), args[i].Name(), replace(bound, subst).Name(), ErrTypeArguments)
			}
		}
	}
	return inst, nil
}

// instantiate binds arguments without checking bounds.
func (c *ClassType) instantiate(args []Type) *ClassType {
	return &ClassType{
		name:      c.name,
		pkg:       c.pkg,
		kind:      c.kind,
		modifiers: c.modifiers,
		outer:     c.outer,
		generic:   c,
		typeArgs:  append([]Type(nil), args...),
		sealed:    true,
	}
}

// Replace substitutes types throughout t, returning t unchanged when no
// substitution applies.
func Replace(t Type, subst map[*TypeParameter]Type) Type {
	return replace(t, subst)
}

func replace(t Type, subst map[*TypeParameter]Type) Type {
	if t == nil || len(subst) == 0 {
		return t
	}
	switch x := t.(type) {
	case *TypeParameter:
		if r, ok := subst[x]; ok {
			return r
		}
		return x
	case *ClassType:
		if x.generic == nil {
			return x
		}
		changed := false
		args := make([]Type, len(x.typeArgs))
		for i, arg := range x.typeArgs {
			args[i] = replace(arg, subst)
			changed = changed || args[i] != arg
		}
		if !changed {
			return x
		}
		return x.generic.instantiate(args)
	case *ArrayType:
		base := replace(x.base, subst)
		if base == x.base {
			return x
		}
		return &ArrayType{base: base, dimensions: x.dimensions, nullable: x.nullable, generic: x.generic, modifiers: x.modifiers}
	case *SequenceType:
		out := NewSequenceType()
		for _, e := range x.elems {
			out.Append(replace(e.Type, subst), e.Modifiers)
		}
		return out
	case *MethodType:
		return &MethodType{sig: x.sig.replace(x.sig.Outer, subst)}
	case *PropertyType:
		p := &PropertyType{Getter: x.Getter.replace(x.Getter.Outer, subst)}
		if x.Setter != nil {
			p.Setter = x.Setter.replace(x.Setter.Outer, subst)
		}
		return p
	}
	return t
}

func replaceClass(c *ClassType, subst map[*TypeParameter]Type) *ClassType {
	if c == nil {
		return nil
	}
	if r, ok := replace(c, subst).(*ClassType); ok {
		return r
	}
	return c
}
