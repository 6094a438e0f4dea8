package tac

import (
	"slices"

	"github.com/shadow-language/shadowc/internal/types"
)

// RefKind says what a Ref addresses.
type RefKind uint8

const (
	// RefVariable addresses a local variable in memory.
	RefVariable RefKind = iota + 1
	// RefField addresses a field of an object.
	RefField
	// RefElement addresses an array element.
	RefElement
	// RefGlobal addresses a named global.
	RefGlobal
	// RefRecovered addresses a slot obtained by LocalRecover.
	RefRecovered
)

func (k RefKind) String() string {
	switch k {
	case RefVariable:
		return "variable"
	case RefField:
		return "field"
	case RefElement:
		return "element"
	case RefGlobal:
		return "global"
	case RefRecovered:
		return "recovered"
	}
	return "?"
}

// Ref is a memory location read by Load and written by Store. Object and
// Indices are operands; Type is filled in by the Builder from the location,
// except for globals, whose type the caller supplies.
type Ref struct {
	Kind      RefKind
	Variable  VariableID
	Object    NodeID
	Indices   []NodeID
	Field     string
	Global    string
	Type      types.Type
	Modifiers types.Modifiers
}

// VariableRef addresses local variable v.
func VariableRef(v VariableID) Ref { return Ref{Kind: RefVariable, Variable: v} }

// FieldRef addresses field name of object.
func FieldRef(object NodeID, name string) Ref {
	return Ref{Kind: RefField, Object: object, Field: name}
}

// ElementRef addresses an element of array, one index per dimension.
func ElementRef(array NodeID, indices ...NodeID) Ref {
	return Ref{Kind: RefElement, Object: array, Indices: indices}
}

// GlobalRef addresses the global name of type t.
func GlobalRef(name string, t types.Type, mods types.Modifiers) Ref {
	return Ref{Kind: RefGlobal, Global: name, Type: t, Modifiers: mods}
}

// RecoveredRef addresses the slot produced by a LocalRecover node.
func RecoveredRef(recover NodeID) Ref { return Ref{Kind: RefRecovered, Object: recover} }

func (r Ref) operands() []NodeID {
	switch r.Kind {
	case RefField, RefRecovered:
		return []NodeID{r.Object}
	case RefElement:
		return append([]NodeID{r.Object}, r.Indices...)
	}
	return nil
}

// shape drops the operands, which the node keeps in its operand list.
func (r Ref) shape() Ref {
	r.Object = NoNode
	r.Indices = nil
	return r
}

func (r Ref) withOperands(ops []NodeID) Ref {
	switch r.Kind {
	case RefField, RefRecovered:
		r.Object = ops[0]
	case RefElement:
		r.Object = ops[0]
		r.Indices = slices.Clone(ops[1:])
	}
	return r
}
