// Package tac is the three-address-code intermediate representation that
// method bodies are lowered into after type checking.
//
// A method body is a List: an append-only arena of nodes addressed by
// NodeID. Operands are NodeIDs into the same List, and a node may only
// reference nodes appended before it (phi incoming values are the one
// exception; they are attached after the phi exists). Lists are built
// through a Builder, which type-checks every operand as it is consumed
// and inserts implicit casts where an operand is a strict subtype of the
// expected type.
//
// Passes traverse a List with Walk and a Visitor. Exception handling is
// described by a FuncletTable owned by the List; pad and return nodes
// refer to funclets by FuncletID.
package tac
