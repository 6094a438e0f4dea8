package tac

// Kind enumerates the node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindLabel
	KindLabelAddress
	KindBranch
	KindLiteral
	KindParameter
	KindAllocateVariable
	KindLocalLoad
	KindLocalStore
	KindLoad
	KindStore
	KindBinary
	KindUnary
	KindNot
	KindCast
	KindCall
	KindReturn
	KindNewObject
	KindNewArray
	KindSequence
	KindSequenceElement
	KindPhi
	KindTypeID
	KindClass
	KindBaseClass
	KindClassData
	KindMethodName
	KindMethodPointer
	KindMethodTable
	KindChangeReferenceCount
	KindCopyMemory
	KindLongToPointer
	KindPointerToLong
	KindLength
	KindThrow
	KindResume
	KindLandingPad
	KindCatch
	KindCatchPad
	KindCatchRet
	KindCleanupPad
	KindCleanupRet
	KindCallFinallyFunction
	KindLocalEscape
	KindLocalRecover
)

var kindNames = [...]string{
	KindInvalid:              "invalid",
	KindLabel:                "label",
	KindLabelAddress:         "label_address",
	KindBranch:               "branch",
	KindLiteral:              "literal",
	KindParameter:            "parameter",
	KindAllocateVariable:     "allocate_variable",
	KindLocalLoad:            "local_load",
	KindLocalStore:           "local_store",
	KindLoad:                 "load",
	KindStore:                "store",
	KindBinary:               "binary",
	KindUnary:                "unary",
	KindNot:                  "not",
	KindCast:                 "cast",
	KindCall:                 "call",
	KindReturn:               "return",
	KindNewObject:            "new_object",
	KindNewArray:             "new_array",
	KindSequence:             "sequence",
	KindSequenceElement:      "sequence_element",
	KindPhi:                  "phi",
	KindTypeID:               "type_id",
	KindClass:                "class",
	KindBaseClass:            "base_class",
	KindClassData:            "class_data",
	KindMethodName:           "method_name",
	KindMethodPointer:        "method_pointer",
	KindMethodTable:          "method_table",
	KindChangeReferenceCount: "change_reference_count",
	KindCopyMemory:           "copy_memory",
	KindLongToPointer:        "long_to_pointer",
	KindPointerToLong:        "pointer_to_long",
	KindLength:               "length",
	KindThrow:                "throw",
	KindResume:               "resume",
	KindLandingPad:           "landing_pad",
	KindCatch:                "catch",
	KindCatchPad:             "catch_pad",
	KindCatchRet:             "catch_ret",
	KindCleanupPad:           "cleanup_pad",
	KindCleanupRet:           "cleanup_ret",
	KindCallFinallyFunction:  "call_finally_function",
	KindLocalEscape:          "local_escape",
	KindLocalRecover:         "local_recover",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := KindLabel; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}
