package tac

import (
	"go/constant"
	"slices"

	"github.com/shadow-language/shadowc/internal/types"
)

// Label marks a position that branches can target.
type Label struct {
	nodeBase
	Label LabelID
}

// LabelAddress takes the address of a label for an indirect branch.
type LabelAddress struct {
	nodeBase
	valueBase
	Label LabelID
}

// Branch transfers control. A direct branch has one target; a conditional
// branch has a boolean operand and true/false targets; an indirect branch
// has an address operand and the set of labels it may reach.
type Branch struct {
	nodeBase
	Form    BranchKind
	Targets []LabelID
}

// Condition returns the operand of a conditional branch.
func (n *Branch) Condition() NodeID {
	if n.Form != BranchConditional {
		return NoNode
	}
	return n.ops[0]
}

// Address returns the operand of an indirect branch.
func (n *Branch) Address() NodeID {
	if n.Form != BranchIndirect {
		return NoNode
	}
	return n.ops[0]
}

// Literal is a constant. A nil Value is the null literal.
type Literal struct {
	nodeBase
	valueBase
	Value constant.Value
}

// Parameter reads the method's Index-th parameter, the receiver included.
type Parameter struct {
	nodeBase
	valueBase
	Index int
}

// AllocateVariable reserves storage for a local variable.
type AllocateVariable struct {
	nodeBase
	Variable VariableID
}

// LocalLoad reads a local variable.
type LocalLoad struct {
	nodeBase
	valueBase
	Variable VariableID
}

// LocalStore writes a local variable.
type LocalStore struct {
	nodeBase
	Variable VariableID
}

func (n *LocalStore) Value() NodeID { return n.ops[0] }

// Load reads through a reference.
type Load struct {
	nodeBase
	valueBase
	ref Ref
}

func (n *Load) Ref() Ref { return n.ref.withOperands(n.ops) }

// Store writes a value through a reference.
type Store struct {
	nodeBase
	ref Ref
}

func (n *Store) Ref() Ref      { return n.ref.withOperands(n.ops[:len(n.ops)-1]) }
func (n *Store) Value() NodeID { return n.ops[len(n.ops)-1] }

// Binary applies Op to two operands of the same type.
type Binary struct {
	nodeBase
	valueBase
	Op BinaryOp
}

func (n *Binary) Left() NodeID  { return n.ops[0] }
func (n *Binary) Right() NodeID { return n.ops[1] }

// Unary applies Op to one operand.
type Unary struct {
	nodeBase
	valueBase
	Op UnaryOp
}

func (n *Unary) Input() NodeID { return n.ops[0] }

// Not is boolean negation.
type Not struct {
	nodeBase
	valueBase
}

func (n *Not) Input() NodeID { return n.ops[0] }

// Cast converts its operand to Type. Implicit casts are the ones the
// builder inserts while checking operands.
type Cast struct {
	nodeBase
	valueBase
	CastKind CastKind
	Implicit bool
}

func (n *Cast) Input() NodeID { return n.ops[0] }

// Call invokes Method. Its operands are the full argument list, receiver
// first for instance methods.
type Call struct {
	nodeBase
	valueBase
	Method *types.MethodSignature
}

func (n *Call) Args() []NodeID { return n.Operands() }

// Return leaves the method with zero or more values.
type Return struct {
	nodeBase
}

func (n *Return) Values() []NodeID { return n.Operands() }

// NewObject allocates an instance of Class.
type NewObject struct {
	nodeBase
	valueBase
	Class *types.ClassType
}

// NewArray allocates an array with one length operand per dimension.
type NewArray struct {
	nodeBase
	valueBase
	Array *types.ArrayType
}

func (n *NewArray) Lengths() []NodeID { return n.Operands() }

// Sequence packs several values into one multi-valued result.
type Sequence struct {
	nodeBase
	valueBase
}

func (n *Sequence) Elements() []NodeID { return n.Operands() }

// SequenceElement extracts one value from a sequence.
type SequenceElement struct {
	nodeBase
	valueBase
	Index int
}

func (n *SequenceElement) Sequence() NodeID { return n.ops[0] }

// TypeID reads the numeric identifier of a class object.
type TypeID struct {
	nodeBase
	valueBase
}

func (n *TypeID) Input() NodeID { return n.ops[0] }

// Class produces the class object describing ClassOf.
type Class struct {
	nodeBase
	valueBase
	ClassOf types.Type
}

// BaseClass produces the class object of an array's element type.
type BaseClass struct {
	nodeBase
	valueBase
}

func (n *BaseClass) Input() NodeID { return n.ops[0] }

// ClassData addresses the static data record of ClassOf: its method
// table, interface tables and type metadata laid out for the runtime.
type ClassData struct {
	nodeBase
	valueBase
	ClassOf *types.ClassType
}

// MethodName refers to a method by symbol.
type MethodName struct {
	nodeBase
	valueBase
	Method *types.MethodSignature
}

// MethodPointer reinterprets a raw pointer as a method of Method's type.
type MethodPointer struct {
	nodeBase
	valueBase
	Method *types.MethodSignature
}

func (n *MethodPointer) Input() NodeID { return n.ops[0] }

// MethodTable reads the method table of an object.
type MethodTable struct {
	nodeBase
	valueBase
}

func (n *MethodTable) Input() NodeID { return n.ops[0] }

// ChangeReferenceCount increments or decrements an object's reference
// count.
type ChangeReferenceCount struct {
	nodeBase
	Increment bool
}

func (n *ChangeReferenceCount) Input() NodeID { return n.ops[0] }

// CopyMemory copies Size bytes from Source to Destination.
type CopyMemory struct {
	nodeBase
}

func (n *CopyMemory) Destination() NodeID { return n.ops[0] }
func (n *CopyMemory) Source() NodeID      { return n.ops[1] }
func (n *CopyMemory) Size() NodeID        { return n.ops[2] }

// LongToPointer reinterprets a long as a raw pointer.
type LongToPointer struct {
	nodeBase
	valueBase
}

func (n *LongToPointer) Input() NodeID { return n.ops[0] }

// PointerToLong reinterprets a raw pointer as a long.
type PointerToLong struct {
	nodeBase
	valueBase
}

func (n *PointerToLong) Input() NodeID { return n.ops[0] }

// Length reads the length of one dimension of an array.
type Length struct {
	nodeBase
	valueBase
	Dimension int
}

func (n *Length) Input() NodeID { return n.ops[0] }

// Throw raises an exception.
type Throw struct {
	nodeBase
}

func (n *Throw) Input() NodeID { return n.ops[0] }

// Resume continues unwinding with an in-flight exception.
type Resume struct {
	nodeBase
}

func (n *Resume) Input() NodeID { return n.ops[0] }

// LandingPad is the unwind target of a protected region.
type LandingPad struct {
	nodeBase
	Funclet FuncletID
}

// Catch is the dispatcher of a catch funclet. It routes an in-flight
// exception to the clause whose type matches.
type Catch struct {
	nodeBase
	Funclet FuncletID
}

// CatchPad enters one catch clause and yields the caught exception.
type CatchPad struct {
	nodeBase
	valueBase
	Funclet FuncletID
	Clause  int
}

// CatchRet leaves a catch clause for one of the funclet's resumption
// labels.
type CatchRet struct {
	nodeBase
	Funclet FuncletID
	Clause  int
	Label   LabelID
}

// CleanupPad enters a cleanup funclet.
type CleanupPad struct {
	nodeBase
	Funclet FuncletID
}

// CleanupRet leaves a cleanup funclet, continuing to unwind at Unwind or
// out of the method when Unwind is NoLabel.
type CleanupRet struct {
	nodeBase
	Funclet FuncletID
	Unwind  LabelID
}

// CallFinallyFunction runs a cleanup funclet's body on the normal path.
type CallFinallyFunction struct {
	nodeBase
	Funclet FuncletID
}

// LocalEscape exposes local variables to separately generated routines.
// Slot i is Variables[i].
type LocalEscape struct {
	nodeBase
	Variables []VariableID
}

// EscapeSlot names slot Index of the LocalEscape node Node in List.
type EscapeSlot struct {
	List  *List
	Node  NodeID
	Index int
}

// LocalRecover yields the address of an escaped slot of another List.
type LocalRecover struct {
	nodeBase
	valueBase
	Escape EscapeSlot
}

func (*Label) Kind() Kind                { return KindLabel }
func (*LabelAddress) Kind() Kind         { return KindLabelAddress }
func (*Branch) Kind() Kind               { return KindBranch }
func (*Literal) Kind() Kind              { return KindLiteral }
func (*Parameter) Kind() Kind            { return KindParameter }
func (*AllocateVariable) Kind() Kind     { return KindAllocateVariable }
func (*LocalLoad) Kind() Kind            { return KindLocalLoad }
func (*LocalStore) Kind() Kind           { return KindLocalStore }
func (*Load) Kind() Kind                 { return KindLoad }
func (*Store) Kind() Kind                { return KindStore }
func (*Binary) Kind() Kind               { return KindBinary }
func (*Unary) Kind() Kind                { return KindUnary }
func (*Not) Kind() Kind                  { return KindNot }
func (*Cast) Kind() Kind                 { return KindCast }
func (*Call) Kind() Kind                 { return KindCall }
func (*Return) Kind() Kind               { return KindReturn }
func (*NewObject) Kind() Kind            { return KindNewObject }
func (*NewArray) Kind() Kind             { return KindNewArray }
func (*Sequence) Kind() Kind             { return KindSequence }
func (*SequenceElement) Kind() Kind      { return KindSequenceElement }
func (*Phi) Kind() Kind                  { return KindPhi }
func (*TypeID) Kind() Kind               { return KindTypeID }
func (*Class) Kind() Kind                { return KindClass }
func (*BaseClass) Kind() Kind            { return KindBaseClass }
func (*ClassData) Kind() Kind            { return KindClassData }
func (*MethodName) Kind() Kind           { return KindMethodName }
func (*MethodPointer) Kind() Kind        { return KindMethodPointer }
func (*MethodTable) Kind() Kind          { return KindMethodTable }
func (*ChangeReferenceCount) Kind() Kind { return KindChangeReferenceCount }
func (*CopyMemory) Kind() Kind           { return KindCopyMemory }
func (*LongToPointer) Kind() Kind        { return KindLongToPointer }
func (*PointerToLong) Kind() Kind        { return KindPointerToLong }
func (*Length) Kind() Kind               { return KindLength }
func (*Throw) Kind() Kind                { return KindThrow }
func (*Resume) Kind() Kind               { return KindResume }
func (*LandingPad) Kind() Kind           { return KindLandingPad }
func (*Catch) Kind() Kind                { return KindCatch }
func (*CatchPad) Kind() Kind             { return KindCatchPad }
func (*CatchRet) Kind() Kind             { return KindCatchRet }
func (*CleanupPad) Kind() Kind           { return KindCleanupPad }
func (*CleanupRet) Kind() Kind           { return KindCleanupRet }
func (*CallFinallyFunction) Kind() Kind  { return KindCallFinallyFunction }
func (*LocalEscape) Kind() Kind          { return KindLocalEscape }
func (*LocalRecover) Kind() Kind         { return KindLocalRecover }

// cloneOps gives a copied node its own operand slice.
func cloneOps[T any, P interface {
	*T
	Node
}](n P) Node {
	c := P(new(T))
	*c = *n
	c.header().ops = slices.Clone(n.header().ops)
	return c
}

func (n *Label) clone() Node                { return cloneOps(n) }
func (n *LabelAddress) clone() Node         { return cloneOps(n) }
func (n *Literal) clone() Node              { return cloneOps(n) }
func (n *Parameter) clone() Node            { return cloneOps(n) }
func (n *AllocateVariable) clone() Node     { return cloneOps(n) }
func (n *LocalLoad) clone() Node            { return cloneOps(n) }
func (n *LocalStore) clone() Node           { return cloneOps(n) }
func (n *Load) clone() Node                 { return cloneOps(n) }
func (n *Store) clone() Node                { return cloneOps(n) }
func (n *Binary) clone() Node               { return cloneOps(n) }
func (n *Unary) clone() Node                { return cloneOps(n) }
func (n *Not) clone() Node                  { return cloneOps(n) }
func (n *Cast) clone() Node                 { return cloneOps(n) }
func (n *Call) clone() Node                 { return cloneOps(n) }
func (n *Return) clone() Node               { return cloneOps(n) }
func (n *NewObject) clone() Node            { return cloneOps(n) }
func (n *NewArray) clone() Node             { return cloneOps(n) }
func (n *Sequence) clone() Node             { return cloneOps(n) }
func (n *SequenceElement) clone() Node      { return cloneOps(n) }
func (n *TypeID) clone() Node               { return cloneOps(n) }
func (n *Class) clone() Node                { return cloneOps(n) }
func (n *BaseClass) clone() Node            { return cloneOps(n) }
func (n *ClassData) clone() Node            { return cloneOps(n) }
func (n *MethodName) clone() Node           { return cloneOps(n) }
func (n *MethodPointer) clone() Node        { return cloneOps(n) }
func (n *MethodTable) clone() Node          { return cloneOps(n) }
func (n *ChangeReferenceCount) clone() Node { return cloneOps(n) }
func (n *CopyMemory) clone() Node           { return cloneOps(n) }
func (n *LongToPointer) clone() Node        { return cloneOps(n) }
func (n *PointerToLong) clone() Node        { return cloneOps(n) }
func (n *Length) clone() Node               { return cloneOps(n) }
func (n *Throw) clone() Node                { return cloneOps(n) }
func (n *Resume) clone() Node               { return cloneOps(n) }
func (n *LandingPad) clone() Node           { return cloneOps(n) }
func (n *Catch) clone() Node                { return cloneOps(n) }
func (n *CatchPad) clone() Node             { return cloneOps(n) }
func (n *CatchRet) clone() Node             { return cloneOps(n) }
func (n *CleanupPad) clone() Node           { return cloneOps(n) }
func (n *CleanupRet) clone() Node           { return cloneOps(n) }
func (n *CallFinallyFunction) clone() Node  { return cloneOps(n) }
func (n *LocalRecover) clone() Node         { return cloneOps(n) }

func (n *Branch) clone() Node {
	c := cloneOps(n).(*Branch)
	c.Targets = slices.Clone(n.Targets)
	return c
}

func (n *LocalEscape) clone() Node {
	c := cloneOps(n).(*LocalEscape)
	c.Variables = slices.Clone(n.Variables)
	return c
}
