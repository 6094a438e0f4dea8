package tac

import (
	"github.com/shadow-language/shadowc/internal/types"
)

// Check validates operand against the expected type and returns the
// operand to use in its place. The policy, in order:
//
//  1. An expected type parameter is erased to Object unless the operand's
//     type is itself a type parameter.
//  2. An operand whose type is a strict subtype of the expected type is
//     wrapped in an implicit Cast (upcast, interface, box or null).
//  3. An expected property type is replaced by its getter's type.
//  4. The operand is accepted if its type equals the expected type.
//  5. Otherwise it is accepted if both types have the same package and
//     base name, so two separately built instantiations of one generic
//     are interchangeable.
//  6. Otherwise Check fails with ErrOperandType.
//
// Checking the returned operand again against the same type returns it
// unchanged.
func (b *Builder) Check(operand NodeID, expected types.Type) (NodeID, error) {
	if err := b.begin(KindInvalid); err != nil {
		return NoNode, err
	}
	id, err := b.check(KindInvalid, operand, expected)
	if err != nil {
		return b.abort(err)
	}
	return id, nil
}

func (b *Builder) check(by Kind, operand NodeID, expected types.Type) (NodeID, error) {
	return b.checkOperand(by, operand, expected, true)
}

// checkPhiInput runs Check without step 2. A phi input is read on its
// predecessor edge, so a cast appended here would sit after the phi
// instead of before the predecessor's branch; strict subtypes are
// rejected and must be cast in the predecessor.
func (b *Builder) checkPhiInput(operand NodeID, expected types.Type) (NodeID, error) {
	return b.checkOperand(KindPhi, operand, expected, false)
}

func (b *Builder) checkOperand(by Kind, operand NodeID, expected types.Type, virtual bool) (NodeID, error) {
	v, err := b.value(by, operand)
	if err != nil {
		return NoNode, err
	}
	if expected == nil {
		return NoNode, newError(CodeOperandType, by, "no expected type for operand %s", operand)
	}

	if _, ok := expected.(*types.TypeParameter); ok {
		if _, ok := v.Type().(*types.TypeParameter); !ok {
			expected = b.reg.Object()
		}
	}

	if virtual {
		v = b.checkVirtual(v, expected)
	} else if isStrictSubtype(v.Type(), expected) {
		return NoNode, newError(CodeOperandType, by, "operand %s has type %s, a subtype of %s; cast it in the predecessor",
			operand, v.Type(), typeName(expected))
	}

	if p, ok := expected.(*types.PropertyType); ok {
		expected = p.GetType().Type
	}

	actual := v.Type()
	if types.Equal(actual, expected) || types.SamePackageAndName(actual, expected) {
		return v.ID(), nil
	}
	return NoNode, newError(CodeOperandType, by, "operand %s has type %s, want %s",
		operand, actual, typeName(expected))
}

// checkVirtual wraps v in an implicit cast when its type is a strict
// subtype of expected.
func (b *Builder) checkVirtual(v Value, expected types.Type) Value {
	actual := v.Type()
	if !isStrictSubtype(actual, expected) {
		return v
	}
	kind := implicitCastKind(actual, expected)
	c := &Cast{
		nodeBase:  nodeBase{ops: []NodeID{v.ID()}},
		valueBase: valueBase{typ: expected, mods: v.Modifiers()},
		CastKind:  kind,
		Implicit:  true,
	}
	b.add(c)
	b.logger.Debug("implicit cast inserted",
		"unit", b.list.Name,
		"node", c.ID().String(),
		"cast", kind.String(),
		"from", actual.String(),
		"to", expected.String(),
	)
	return c
}

func isStrictSubtype(actual, expected types.Type) bool {
	switch expected.(type) {
	case *types.SequenceType, *types.MethodType, *types.PropertyType:
		return false
	}
	return !types.Equal(actual, expected) && actual.IsSubtype(expected)
}

func implicitCastKind(from, to types.Type) CastKind {
	switch {
	case types.IsNull(from):
		return CastNull
	case types.IsValueType(from) && !types.IsValueType(to):
		return CastBox
	case to.Kind() == types.KindInterface:
		return CastInterface
	}
	return CastUpcast
}

// value resolves an operand reference to a value node of the list.
func (b *Builder) value(by Kind, id NodeID) (Value, error) {
	n := b.list.Node(id)
	if n == nil {
		return nil, newError(CodeDanglingOperand, by, "operand %s is not in %q", id, b.list.Name)
	}
	v, ok := n.(Value)
	if !ok {
		return nil, newError(CodeOperandType, by, "operand %s is a %s, not a value", id, n.Kind())
	}
	if v.Type() == nil {
		return nil, newError(CodeOperandType, by, "operand %s has no type", id)
	}
	return v, nil
}

func typeName(t types.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

// isReference reports whether values of type t are reference counted.
func isReference(t types.Type) bool {
	switch x := t.(type) {
	case *types.ClassType:
		return !x.IsValueType()
	case *types.ArrayType, *types.TypeParameter:
		return true
	}
	return false
}
