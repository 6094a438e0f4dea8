package tac

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes internal errors.
type ErrorCode string

const (
	// CodeOperandType is raised when an operand fails type checking.
	CodeOperandType ErrorCode = "operand_type"

	// CodeOperandIndex is raised for an operand, parameter or element index
	// outside its valid range.
	CodeOperandIndex ErrorCode = "operand_index"

	// CodeDanglingOperand is raised when an operand does not name a node
	// already in the list.
	CodeDanglingOperand ErrorCode = "dangling_operand"

	// CodeNilNode is raised when a traversal reaches a missing node.
	CodeNilNode ErrorCode = "nil_node"

	// CodeBadFunclet is raised for a funclet reference of the wrong kind or
	// outside the table.
	CodeBadFunclet ErrorCode = "bad_funclet"

	// CodeBadLabel is raised for labels that are undefined or placed twice.
	CodeBadLabel ErrorCode = "bad_label"

	// CodeEscapeIndex is raised when a recover names a slot its escape does
	// not have.
	CodeEscapeIndex ErrorCode = "escape_index"

	// CodeIllegalOperator is raised when an operator does not apply to its
	// operand types.
	CodeIllegalOperator ErrorCode = "illegal_operator"

	// CodeBuilderFailed is returned by every Builder call after the first
	// failure.
	CodeBuilderFailed ErrorCode = "builder_failed"
)

// InternalError reports an internal-consistency violation while building
// or traversing a List. It signals a compiler bug, never a user error, and
// aborts the current unit.
type InternalError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Kind is the node kind under construction or being visited.
	Kind Kind

	// Node is the offending node, when there is one.
	Node NodeID

	// Message is a human-readable description.
	Message string
}

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrOperandType     = &InternalError{Code: CodeOperandType}
	ErrOperandIndex    = &InternalError{Code: CodeOperandIndex}
	ErrDanglingOperand = &InternalError{Code: CodeDanglingOperand}
	ErrNilNode         = &InternalError{Code: CodeNilNode}
	ErrBadFunclet      = &InternalError{Code: CodeBadFunclet}
	ErrBadLabel        = &InternalError{Code: CodeBadLabel}
	ErrEscapeIndex     = &InternalError{Code: CodeEscapeIndex}
	ErrIllegalOperator = &InternalError{Code: CodeIllegalOperator}
	ErrBuilderFailed   = &InternalError{Code: CodeBuilderFailed}
)

// Error implements the error interface.
func (e *InternalError) Error() string {
	switch {
	case e.Kind != KindInvalid && e.Node.IsValid():
		return fmt.Sprintf("tac: %s: %s %s: %s", e.Code, e.Kind, e.Node, e.Message)
	case e.Kind != KindInvalid:
		return fmt.Sprintf("tac: %s: %s: %s", e.Code, e.Kind, e.Message)
	case e.Message != "":
		return fmt.Sprintf("tac: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("tac: %s", e.Code)
}

// Is matches any InternalError with the same Code.
func (e *InternalError) Is(target error) bool {
	t, ok := target.(*InternalError)
	return ok && t.Code == e.Code
}

// CodeOf returns the code of the first InternalError in err's chain, or ""
// if there is none.
func CodeOf(err error) ErrorCode {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

func newError(code ErrorCode, kind Kind, format string, args ...any) *InternalError {
	return &InternalError{Code: code, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *InternalError) at(id NodeID) *InternalError {
	e.Node = id
	return e
}
