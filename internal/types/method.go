package types

import "fmt"

// MethodSignature describes one method of a class.
type MethodSignature struct {
	Name      string
	Outer     *ClassType
	Modifiers Modifiers
	Params    *SequenceType
	Returns   *SequenceType

	// Static methods take no implicit receiver.
	Static bool
}

// NewMethodSignature creates a signature with empty parameter and return
// lists when nil is passed.
func NewMethodSignature(name string, mods Modifiers, params, returns *SequenceType) *MethodSignature {
	if params == nil {
		params = NewSequenceType()
	}
	if returns == nil {
		returns = NewSequenceType()
	}
	return &MethodSignature{Name: name, Modifiers: mods, Params: params, Returns: returns}
}

// Type returns the method's type.
func (m *MethodSignature) Type() *MethodType { return &MethodType{sig: m} }

// FullParams returns the parameters with the receiver prepended for
// instance methods.
func (m *MethodSignature) FullParams() *SequenceType {
	if m.Static || m.Outer == nil {
		return m.Params
	}
	full := NewSequenceOf(ModifiedType{Type: m.Outer})
	for _, p := range elemsOf(m.Params) {
		full.elems = append(full.elems, p)
	}
	return full
}

// SymbolName is the mangled name used by emission.
func (m *MethodSignature) SymbolName() string {
	if m.Outer == nil {
		return m.Name
	}
	return m.Outer.MangledName() + "_M" + m.Name
}

func (m *MethodSignature) String() string {
	owner := ""
	if m.Outer != nil {
		owner = m.Outer.Name() + "."
	}
	return fmt.Sprintf("%s%s%s => %s", owner, m.Name, m.Params.Name(), m.Returns.Name())
}

func (m *MethodSignature) replace(outer *ClassType, subst map[*TypeParameter]Type) *MethodSignature {
	params, _ := replace(m.Params, subst).(*SequenceType)
	returns, _ := replace(m.Returns, subst).(*SequenceType)
	if params == nil {
		params = m.Params
	}
	if returns == nil {
		returns = m.Returns
	}
	return &MethodSignature{Name: m.Name, Outer: outer, Modifiers: m.Modifiers, Params: params, Returns: returns, Static: m.Static}
}

// MethodType is the type of a method value (a method pointer).
type MethodType struct {
	sig *MethodSignature
}

// Signature returns the method this type describes.
func (t *MethodType) Signature() *MethodSignature { return t.sig }

func (t *MethodType) Name() string          { return t.sig.Params.Name() + " => " + t.sig.Returns.Name() }
func (t *MethodType) BaseName() string      { return t.Name() }
func (t *MethodType) Package() string       { return "" }
func (t *MethodType) QualifiedName() string { return t.Name() }
func (t *MethodType) Kind() Kind            { return KindMethod }
func (t *MethodType) Modifiers() Modifiers  { return t.sig.Modifiers }
func (t *MethodType) Outer() Type {
	if t.sig.Outer == nil {
		return nil
	}
	return t.sig.Outer
}
func (t *MethodType) String() string { return t.Name() }

// IsSubtype requires matching parameters and covariant returns.
func (t *MethodType) IsSubtype(other Type) bool {
	o, ok := other.(*MethodType)
	if !ok {
		return false
	}
	return t.sig.Params.Matches(o.sig.Params) && o.sig.Returns.CanAccept(t.sig.Returns)
}

// PropertyType is the type of a property access: it reads through a getter
// and optionally writes through a setter.
type PropertyType struct {
	Getter *MethodSignature
	Setter *MethodSignature
}

// GetType returns the getter's single return.
func (p *PropertyType) GetType() ModifiedType {
	if p.Getter == nil || p.Getter.Returns.Len() != 1 {
		return ModifiedType{}
	}
	return p.Getter.Returns.At(0)
}

func (p *PropertyType) Name() string {
	if t := p.GetType().Type; t != nil {
		return "property " + t.Name()
	}
	return "property"
}
func (p *PropertyType) BaseName() string      { return p.Name() }
func (p *PropertyType) Package() string       { return "" }
func (p *PropertyType) QualifiedName() string { return p.Name() }
func (p *PropertyType) Kind() Kind            { return KindMethod }
func (p *PropertyType) Modifiers() Modifiers  { return p.GetType().Modifiers }
func (p *PropertyType) Outer() Type {
	if p.Getter == nil || p.Getter.Outer == nil {
		return nil
	}
	return p.Getter.Outer
}
func (p *PropertyType) String() string { return p.Name() }

// IsSubtype compares the read type.
func (p *PropertyType) IsSubtype(other Type) bool {
	t := p.GetType().Type
	if t == nil {
		return false
	}
	if o, ok := other.(*PropertyType); ok {
		return t.IsSubtype(o.GetType().Type)
	}
	return t.IsSubtype(other)
}
