package tac

import "fmt"

// NodeID identifies a node within a List. IDs start at 1.
type NodeID uint32

// LabelID identifies a label within a List.
type LabelID uint32

// VariableID identifies a local variable within a List.
type VariableID uint32

// FuncletID identifies an exception-handling region in a FuncletTable.
type FuncletID uint32

// Invalid ID constants (zero is sentinel).
const (
	NoNode     NodeID     = 0
	NoLabel    LabelID    = 0
	NoVariable VariableID = 0
	NoFunclet  FuncletID  = 0
)

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool     { return id != NoNode }
func (id LabelID) IsValid() bool    { return id != NoLabel }
func (id VariableID) IsValid() bool { return id != NoVariable }
func (id FuncletID) IsValid() bool  { return id != NoFunclet }

func (id NodeID) String() string    { return fmt.Sprintf("%%%d", id) }
func (id LabelID) String() string   { return fmt.Sprintf("L%d", id) }
func (id FuncletID) String() string { return fmt.Sprintf("funclet#%d", id) }
