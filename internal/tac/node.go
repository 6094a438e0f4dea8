package tac

import (
	"fmt"
	"slices"

	"github.com/shadow-language/shadowc/internal/types"
)

// Node is one TAC instruction. The set of node kinds is closed: every
// implementation lives in this package.
//
// Operands are held in a fixed declared order, so generic passes can
// rewrite them without knowing each concrete kind.
type Node interface {
	ID() NodeID
	Kind() Kind
	NumOperands() int
	// Operand returns the i-th operand. An index outside [0, NumOperands())
	// fails with ErrOperandIndex.
	Operand(i int) (NodeID, error)
	// Operands returns a copy of all operands in order.
	Operands() []NodeID

	header() *nodeBase
	clone() Node
}

// Value is a node usable as an operand. Its Type is never nil.
type Value interface {
	Node
	Type() types.Type
	Modifiers() types.Modifiers
}

type nodeBase struct {
	id  NodeID
	ops []NodeID
}

func (n *nodeBase) ID() NodeID         { return n.id }
func (n *nodeBase) NumOperands() int   { return len(n.ops) }
func (n *nodeBase) Operands() []NodeID { return slices.Clone(n.ops) }
func (n *nodeBase) header() *nodeBase  { return n }

func (n *nodeBase) Operand(i int) (NodeID, error) {
	if i < 0 || i >= len(n.ops) {
		return NoNode, &InternalError{
			Code:    CodeOperandIndex,
			Node:    n.id,
			Message: fmt.Sprintf("operand %d out of range [0, %d)", i, len(n.ops)),
		}
	}
	return n.ops[i], nil
}

type valueBase struct {
	typ  types.Type
	mods types.Modifiers
}

func (v *valueBase) Type() types.Type           { return v.typ }
func (v *valueBase) Modifiers() types.Modifiers { return v.mods }

// ModifiedType returns a value's type together with its modifiers.
func ModifiedType(v Value) types.ModifiedType {
	return types.ModifiedType{Type: v.Type(), Modifiers: v.Modifiers()}
}
