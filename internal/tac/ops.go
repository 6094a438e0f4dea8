package tac

import "github.com/shadow-language/shadowc/internal/types"

// BinaryOp is the operator of a Binary node.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota + 1
	OpSubtract
	OpMultiply
	OpDivide
	OpModulus
	OpShiftLeft
	OpShiftRight
	OpRotateLeft
	OpRotateRight
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpLogicalAnd
	OpLogicalOr
	OpLogicalXor
	OpEqual
	OpNotEqual
	OpReferenceEqual
	OpReferenceNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
)

var binaryOpSymbols = map[BinaryOp]string{
	OpAdd:               "+",
	OpSubtract:          "-",
	OpMultiply:          "*",
	OpDivide:            "/",
	OpModulus:           "%",
	OpShiftLeft:         "<<",
	OpShiftRight:        ">>",
	OpRotateLeft:        "<<<",
	OpRotateRight:       ">>>",
	OpBitwiseAnd:        "&",
	OpBitwiseOr:         "|",
	OpBitwiseXor:        "^",
	OpLogicalAnd:        "and",
	OpLogicalOr:         "or",
	OpLogicalXor:        "xor",
	OpEqual:             "==",
	OpNotEqual:          "!=",
	OpReferenceEqual:    "===",
	OpReferenceNotEqual: "!==",
	OpLess:              "<",
	OpLessEqual:         "<=",
	OpGreater:           ">",
	OpGreaterEqual:      ">=",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpSymbols[op]; ok {
		return s
	}
	return "?"
}

// ParseBinaryOp maps an operator symbol back to its BinaryOp.
func ParseBinaryOp(s string) (BinaryOp, bool) {
	for op, sym := range binaryOpSymbols {
		if sym == s {
			return op, true
		}
	}
	return 0, false
}

// IsComparison reports whether op yields boolean regardless of its operand
// types.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEqual && op <= OpGreaterEqual
}

// accepts reports whether op applies to operands of type t.
func (op BinaryOp) accepts(t types.Type) bool {
	switch op {
	case OpAdd:
		return types.IsNumerical(t) || types.IsString(t)
	case OpSubtract, OpMultiply, OpDivide, OpModulus,
		OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return types.IsNumerical(t)
	case OpShiftLeft, OpShiftRight, OpRotateLeft, OpRotateRight,
		OpBitwiseAnd, OpBitwiseOr, OpBitwiseXor:
		return types.IsIntegral(t)
	case OpLogicalAnd, OpLogicalOr, OpLogicalXor:
		return types.IsBoolean(t)
	case OpEqual, OpNotEqual:
		return !types.IsUnknown(t)
	case OpReferenceEqual, OpReferenceNotEqual:
		return !types.IsValueType(t) && !types.IsUnknown(t)
	}
	return false
}

// UnaryOp is the operator of a Unary node. Boolean negation is the separate
// Not node.
type UnaryOp uint8

const (
	OpNegate UnaryOp = iota + 1
	OpComplement
)

func (op UnaryOp) String() string {
	switch op {
	case OpNegate:
		return "-"
	case OpComplement:
		return "~"
	}
	return "?"
}

func (op UnaryOp) accepts(t types.Type) bool {
	switch op {
	case OpNegate:
		return types.IsNumerical(t)
	case OpComplement:
		return types.IsIntegral(t)
	}
	return false
}

// CastKind says what a Cast node converts.
type CastKind uint8

const (
	// CastUpcast converts a class to one of its superclasses.
	CastUpcast CastKind = iota + 1
	// CastDowncast is a checked conversion to a subclass.
	CastDowncast
	// CastInterface converts an object to an interface it implements.
	CastInterface
	// CastBox wraps a primitive as an object.
	CastBox
	// CastUnbox extracts a primitive from an object.
	CastUnbox
	// CastPrimitive converts between numeric primitives.
	CastPrimitive
	// CastNull gives the null literal a concrete type.
	CastNull
)

var castKindNames = map[CastKind]string{
	CastUpcast:    "upcast",
	CastDowncast:  "downcast",
	CastInterface: "interface",
	CastBox:       "box",
	CastUnbox:     "unbox",
	CastPrimitive: "primitive",
	CastNull:      "null",
}

func (k CastKind) String() string {
	if s, ok := castKindNames[k]; ok {
		return s
	}
	return "?"
}

// ParseCastKind maps a cast kind name back to its CastKind.
func ParseCastKind(s string) (CastKind, bool) {
	for k, name := range castKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// BranchKind distinguishes the three branch forms.
type BranchKind uint8

const (
	BranchDirect BranchKind = iota + 1
	BranchConditional
	BranchIndirect
)
