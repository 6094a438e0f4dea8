package tac

// Visitor has one method per node kind. Passes embed BaseVisitor and
// override the kinds they handle.
type Visitor interface {
	VisitLabel(n *Label) error
	VisitLabelAddress(n *LabelAddress) error
	VisitBranch(n *Branch) error
	VisitLiteral(n *Literal) error
	VisitParameter(n *Parameter) error
	VisitAllocateVariable(n *AllocateVariable) error
	VisitLocalLoad(n *LocalLoad) error
	VisitLocalStore(n *LocalStore) error
	VisitLoad(n *Load) error
	VisitStore(n *Store) error
	VisitBinary(n *Binary) error
	VisitUnary(n *Unary) error
	VisitNot(n *Not) error
	VisitCast(n *Cast) error
	VisitCall(n *Call) error
	VisitReturn(n *Return) error
	VisitNewObject(n *NewObject) error
	VisitNewArray(n *NewArray) error
	VisitSequence(n *Sequence) error
	VisitSequenceElement(n *SequenceElement) error
	VisitPhi(n *Phi) error
	VisitTypeID(n *TypeID) error
	VisitClass(n *Class) error
	VisitBaseClass(n *BaseClass) error
	VisitClassData(n *ClassData) error
	VisitMethodName(n *MethodName) error
	VisitMethodPointer(n *MethodPointer) error
	VisitMethodTable(n *MethodTable) error
	VisitChangeReferenceCount(n *ChangeReferenceCount) error
	VisitCopyMemory(n *CopyMemory) error
	VisitLongToPointer(n *LongToPointer) error
	VisitPointerToLong(n *PointerToLong) error
	VisitLength(n *Length) error
	VisitThrow(n *Throw) error
	VisitResume(n *Resume) error
	VisitLandingPad(n *LandingPad) error
	VisitCatch(n *Catch) error
	VisitCatchPad(n *CatchPad) error
	VisitCatchRet(n *CatchRet) error
	VisitCleanupPad(n *CleanupPad) error
	VisitCleanupRet(n *CleanupRet) error
	VisitCallFinallyFunction(n *CallFinallyFunction) error
	VisitLocalEscape(n *LocalEscape) error
	VisitLocalRecover(n *LocalRecover) error
}

// BaseVisitor implements every Visitor method as a no-op.
type BaseVisitor struct{}

func (BaseVisitor) VisitLabel(*Label) error                               { return nil }
func (BaseVisitor) VisitLabelAddress(*LabelAddress) error                 { return nil }
func (BaseVisitor) VisitBranch(*Branch) error                             { return nil }
func (BaseVisitor) VisitLiteral(*Literal) error                           { return nil }
func (BaseVisitor) VisitParameter(*Parameter) error                       { return nil }
func (BaseVisitor) VisitAllocateVariable(*AllocateVariable) error         { return nil }
func (BaseVisitor) VisitLocalLoad(*LocalLoad) error                       { return nil }
func (BaseVisitor) VisitLocalStore(*LocalStore) error                     { return nil }
func (BaseVisitor) VisitLoad(*Load) error                                 { return nil }
func (BaseVisitor) VisitStore(*Store) error                               { return nil }
func (BaseVisitor) VisitBinary(*Binary) error                             { return nil }
func (BaseVisitor) VisitUnary(*Unary) error                               { return nil }
func (BaseVisitor) VisitNot(*Not) error                                   { return nil }
func (BaseVisitor) VisitCast(*Cast) error                                 { return nil }
func (BaseVisitor) VisitCall(*Call) error                                 { return nil }
func (BaseVisitor) VisitReturn(*Return) error                             { return nil }
func (BaseVisitor) VisitNewObject(*NewObject) error                       { return nil }
func (BaseVisitor) VisitNewArray(*NewArray) error                         { return nil }
func (BaseVisitor) VisitSequence(*Sequence) error                         { return nil }
func (BaseVisitor) VisitSequenceElement(*SequenceElement) error           { return nil }
func (BaseVisitor) VisitPhi(*Phi) error                                   { return nil }
func (BaseVisitor) VisitTypeID(*TypeID) error                             { return nil }
func (BaseVisitor) VisitClass(*Class) error                               { return nil }
func (BaseVisitor) VisitBaseClass(*BaseClass) error                       { return nil }
func (BaseVisitor) VisitClassData(*ClassData) error                       { return nil }
func (BaseVisitor) VisitMethodName(*MethodName) error                     { return nil }
func (BaseVisitor) VisitMethodPointer(*MethodPointer) error               { return nil }
func (BaseVisitor) VisitMethodTable(*MethodTable) error                   { return nil }
func (BaseVisitor) VisitChangeReferenceCount(*ChangeReferenceCount) error { return nil }
func (BaseVisitor) VisitCopyMemory(*CopyMemory) error                     { return nil }
func (BaseVisitor) VisitLongToPointer(*LongToPointer) error               { return nil }
func (BaseVisitor) VisitPointerToLong(*PointerToLong) error               { return nil }
func (BaseVisitor) VisitLength(*Length) error                             { return nil }
func (BaseVisitor) VisitThrow(*Throw) error                               { return nil }
func (BaseVisitor) VisitResume(*Resume) error                             { return nil }
func (BaseVisitor) VisitLandingPad(*LandingPad) error                     { return nil }
func (BaseVisitor) VisitCatch(*Catch) error                               { return nil }
func (BaseVisitor) VisitCatchPad(*CatchPad) error                         { return nil }
func (BaseVisitor) VisitCatchRet(*CatchRet) error                         { return nil }
func (BaseVisitor) VisitCleanupPad(*CleanupPad) error                     { return nil }
func (BaseVisitor) VisitCleanupRet(*CleanupRet) error                     { return nil }
func (BaseVisitor) VisitCallFinallyFunction(*CallFinallyFunction) error   { return nil }
func (BaseVisitor) VisitLocalEscape(*LocalEscape) error                   { return nil }
func (BaseVisitor) VisitLocalRecover(*LocalRecover) error                 { return nil }

// Accept dispatches n to the visitor method for its kind. A nil node is an
// internal error.
func Accept(n Node, v Visitor) error {
	switch n := n.(type) {
	case nil:
		return newError(CodeNilNode, KindInvalid, "visit of nil node")
	case *Label:
		return v.VisitLabel(n)
	case *LabelAddress:
		return v.VisitLabelAddress(n)
	case *Branch:
		return v.VisitBranch(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *Parameter:
		return v.VisitParameter(n)
	case *AllocateVariable:
		return v.VisitAllocateVariable(n)
	case *LocalLoad:
		return v.VisitLocalLoad(n)
	case *LocalStore:
		return v.VisitLocalStore(n)
	case *Load:
		return v.VisitLoad(n)
	case *Store:
		return v.VisitStore(n)
	case *Binary:
		return v.VisitBinary(n)
	case *Unary:
		return v.VisitUnary(n)
	case *Not:
		return v.VisitNot(n)
	case *Cast:
		return v.VisitCast(n)
	case *Call:
		return v.VisitCall(n)
	case *Return:
		return v.VisitReturn(n)
	case *NewObject:
		return v.VisitNewObject(n)
	case *NewArray:
		return v.VisitNewArray(n)
	case *Sequence:
		return v.VisitSequence(n)
	case *SequenceElement:
		return v.VisitSequenceElement(n)
	case *Phi:
		return v.VisitPhi(n)
	case *TypeID:
		return v.VisitTypeID(n)
	case *Class:
		return v.VisitClass(n)
	case *BaseClass:
		return v.VisitBaseClass(n)
	case *ClassData:
		return v.VisitClassData(n)
	case *MethodName:
		return v.VisitMethodName(n)
	case *MethodPointer:
		return v.VisitMethodPointer(n)
	case *MethodTable:
		return v.VisitMethodTable(n)
	case *ChangeReferenceCount:
		return v.VisitChangeReferenceCount(n)
	case *CopyMemory:
		return v.VisitCopyMemory(n)
	case *LongToPointer:
		return v.VisitLongToPointer(n)
	case *PointerToLong:
		return v.VisitPointerToLong(n)
	case *Length:
		return v.VisitLength(n)
	case *Throw:
		return v.VisitThrow(n)
	case *Resume:
		return v.VisitResume(n)
	case *LandingPad:
		return v.VisitLandingPad(n)
	case *Catch:
		return v.VisitCatch(n)
	case *CatchPad:
		return v.VisitCatchPad(n)
	case *CatchRet:
		return v.VisitCatchRet(n)
	case *CleanupPad:
		return v.VisitCleanupPad(n)
	case *CleanupRet:
		return v.VisitCleanupRet(n)
	case *CallFinallyFunction:
		return v.VisitCallFinallyFunction(n)
	case *LocalEscape:
		return v.VisitLocalEscape(n)
	case *LocalRecover:
		return v.VisitLocalRecover(n)
	}
	return newError(CodeNilNode, n.Kind(), "no visitor method")
}

// Walk visits every node of l exactly once, starting at entry and wrapping
// around to the nodes before it. It stops at the first error.
func Walk(l *List, entry NodeID, v Visitor) error {
	if !l.contains(entry) {
		return newError(CodeNilNode, KindInvalid, "entry %s is not in %q", entry, l.Name)
	}
	n := len(l.nodes)
	start := int(entry) - 1
	for i := range n {
		idx := (start + i) % n
		node := l.nodes[idx]
		if node == nil {
			return newError(CodeNilNode, KindInvalid, "no node at %s", NodeID(idx+1))
		}
		if err := Accept(node, v); err != nil {
			return err
		}
	}
	return nil
}
