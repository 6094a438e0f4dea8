package tac

import (
	"go/constant"
	"io"
	"log/slog"

	"github.com/shadow-language/shadowc/internal/types"
)

// Builder appends type-checked nodes to a List.
//
// Every constructor validates its operands and returns the new node's ID.
// The first failure is sticky: it is returned by the failing call, every
// later call fails with ErrBuilderFailed, and Finish reports the original
// error. The unit being built must then be abandoned.
type Builder struct {
	reg    *types.Registry
	list   *List
	logger *slog.Logger
	err    error
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger for implicit casts and failures.
func WithLogger(l *slog.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder appending to list.
func NewBuilder(reg *types.Registry, list *List, opts ...BuilderOption) *Builder {
	b := &Builder{
		reg:    reg,
		list:   list,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// List returns the list being built.
func (b *Builder) List() *List { return b.list }

// Registry returns the registry operand types are resolved against.
func (b *Builder) Registry() *types.Registry { return b.reg }

// Err returns the first failure, if any.
func (b *Builder) Err() error { return b.err }

// Finish returns the built list, or the first failure.
func (b *Builder) Finish() (*List, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.logger.Debug("unit built", "unit", b.list.Name, "nodes", b.list.Len())
	return b.list, nil
}

func (b *Builder) begin(kind Kind) error {
	if b.err != nil {
		return newError(CodeBuilderFailed, kind, "earlier failure: %v", b.err)
	}
	return nil
}

func (b *Builder) abort(err error) (NodeID, error) {
	if b.err == nil {
		b.err = err
		b.logger.Debug("unit aborted", "unit", b.list.Name, "code", string(CodeOf(err)), "error", err)
	}
	return NoNode, err
}

func (b *Builder) add(n Node) NodeID { return b.list.append(n) }

func ops(ids ...NodeID) nodeBase { return nodeBase{ops: ids} }

func val(t types.Type, mods types.Modifiers) valueBase { return valueBase{typ: t, mods: mods} }

// NewLabel allocates a label in the list.
func (b *Builder) NewLabel(name string) LabelID { return b.list.NewLabel(name) }

// Variable declares a local variable in the list. A variable without a
// type fails the builder and yields NoVariable.
func (b *Builder) Variable(name string, t types.Type, mods types.Modifiers) VariableID {
	if t == nil {
		b.abort(newError(CodeOperandType, KindAllocateVariable, "variable %q has no type", name))
		return NoVariable
	}
	return b.list.NewVariable(name, t, mods)
}

func (b *Builder) variable(by Kind, id VariableID) (Variable, error) {
	v, ok := b.list.Variable(id)
	if !ok {
		return Variable{}, newError(CodeDanglingOperand, by, "variable %d is not declared", id)
	}
	return v, nil
}

func (b *Builder) label(by Kind, id LabelID) error {
	if !b.list.hasLabel(id) {
		return newError(CodeBadLabel, by, "%s is not allocated", id)
	}
	return nil
}

// Label places a label at the current position.
func (b *Builder) Label(id LabelID) (NodeID, error) {
	if err := b.begin(KindLabel); err != nil {
		return NoNode, err
	}
	if err := b.label(KindLabel, id); err != nil {
		return b.abort(err)
	}
	return b.add(&Label{Label: id}), nil
}

// LabelAddress takes the address of a label.
func (b *Builder) LabelAddress(id LabelID) (NodeID, error) {
	if err := b.begin(KindLabelAddress); err != nil {
		return NoNode, err
	}
	if err := b.label(KindLabelAddress, id); err != nil {
		return b.abort(err)
	}
	return b.add(&LabelAddress{valueBase: val(b.reg.Pointer(), 0), Label: id}), nil
}

// Branch jumps to target.
func (b *Builder) Branch(target LabelID) (NodeID, error) {
	if err := b.begin(KindBranch); err != nil {
		return NoNode, err
	}
	if err := b.label(KindBranch, target); err != nil {
		return b.abort(err)
	}
	return b.add(&Branch{Form: BranchDirect, Targets: []LabelID{target}}), nil
}

// BranchIf jumps to ifTrue when cond holds and to ifFalse otherwise.
func (b *Builder) BranchIf(cond NodeID, ifTrue, ifFalse LabelID) (NodeID, error) {
	if err := b.begin(KindBranch); err != nil {
		return NoNode, err
	}
	c, err := b.check(KindBranch, cond, b.reg.Boolean())
	if err != nil {
		return b.abort(err)
	}
	for _, l := range []LabelID{ifTrue, ifFalse} {
		if err := b.label(KindBranch, l); err != nil {
			return b.abort(err)
		}
	}
	return b.add(&Branch{nodeBase: ops(c), Form: BranchConditional, Targets: []LabelID{ifTrue, ifFalse}}), nil
}

// BranchIndirect jumps to the label whose address is address. targets
// lists every label it may reach.
func (b *Builder) BranchIndirect(address NodeID, targets ...LabelID) (NodeID, error) {
	if err := b.begin(KindBranch); err != nil {
		return NoNode, err
	}
	a, err := b.check(KindBranch, address, b.reg.Pointer())
	if err != nil {
		return b.abort(err)
	}
	for _, l := range targets {
		if err := b.label(KindBranch, l); err != nil {
			return b.abort(err)
		}
	}
	return b.add(&Branch{nodeBase: ops(a), Form: BranchIndirect, Targets: append([]LabelID(nil), targets...)}), nil
}

// Literal adds a constant of type t. A nil value is only valid for the
// null type.
func (b *Builder) Literal(t types.Type, v constant.Value) (NodeID, error) {
	if err := b.begin(KindLiteral); err != nil {
		return NoNode, err
	}
	if err := checkLiteral(t, v); err != nil {
		return b.abort(err)
	}
	return b.add(&Literal{valueBase: val(t, 0), Value: v}), nil
}

// NullLiteral adds the null constant.
func (b *Builder) NullLiteral() (NodeID, error) { return b.Literal(b.reg.Null(), nil) }

// BoolLiteral adds a boolean constant.
func (b *Builder) BoolLiteral(v bool) (NodeID, error) {
	return b.Literal(b.reg.Boolean(), constant.MakeBool(v))
}

// IntLiteral adds an int constant.
func (b *Builder) IntLiteral(v int64) (NodeID, error) {
	return b.Literal(b.reg.Int(), constant.MakeInt64(v))
}

// StringLiteral adds a String constant.
func (b *Builder) StringLiteral(s string) (NodeID, error) {
	return b.Literal(b.reg.String(), constant.MakeString(s))
}

// Parameter reads parameter i of the method, the receiver being parameter
// 0 of an instance method.
func (b *Builder) Parameter(i int) (NodeID, error) {
	if err := b.begin(KindParameter); err != nil {
		return NoNode, err
	}
	if b.list.Method == nil {
		return b.abort(newError(CodeOperandIndex, KindParameter, "%q has no method", b.list.Name))
	}
	params := b.list.Method.FullParams()
	if i < 0 || i >= params.Len() {
		return b.abort(newError(CodeOperandIndex, KindParameter, "parameter %d out of range [0, %d)", i, params.Len()))
	}
	p := params.At(i)
	if p.Type == nil {
		return b.abort(newError(CodeOperandType, KindParameter, "parameter %d has no type", i))
	}
	return b.add(&Parameter{valueBase: val(p.Type, p.Modifiers), Index: i}), nil
}

// AllocateVariable reserves storage for v.
func (b *Builder) AllocateVariable(v VariableID) (NodeID, error) {
	if err := b.begin(KindAllocateVariable); err != nil {
		return NoNode, err
	}
	if _, err := b.variable(KindAllocateVariable, v); err != nil {
		return b.abort(err)
	}
	return b.add(&AllocateVariable{Variable: v}), nil
}

// LocalLoad reads v.
func (b *Builder) LocalLoad(v VariableID) (NodeID, error) {
	if err := b.begin(KindLocalLoad); err != nil {
		return NoNode, err
	}
	vr, err := b.variable(KindLocalLoad, v)
	if err != nil {
		return b.abort(err)
	}
	return b.add(&LocalLoad{valueBase: val(vr.Type, vr.Modifiers), Variable: v}), nil
}

// LocalStore writes value to v.
func (b *Builder) LocalStore(v VariableID, value NodeID) (NodeID, error) {
	if err := b.begin(KindLocalStore); err != nil {
		return NoNode, err
	}
	vr, err := b.variable(KindLocalStore, v)
	if err != nil {
		return b.abort(err)
	}
	x, err := b.check(KindLocalStore, value, vr.Type)
	if err != nil {
		return b.abort(err)
	}
	return b.add(&LocalStore{nodeBase: ops(x), Variable: v}), nil
}

// Load reads through ref.
func (b *Builder) Load(ref Ref) (NodeID, error) {
	if err := b.begin(KindLoad); err != nil {
		return NoNode, err
	}
	r, err := b.resolveRef(KindLoad, ref)
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Load{nodeBase: ops(r.operands()...), valueBase: val(r.Type, r.Modifiers), ref: r.shape()}), nil
}

// Store writes value through ref.
func (b *Builder) Store(ref Ref, value NodeID) (NodeID, error) {
	if err := b.begin(KindStore); err != nil {
		return NoNode, err
	}
	r, err := b.resolveRef(KindStore, ref)
	if err != nil {
		return b.abort(err)
	}
	x, err := b.check(KindStore, value, r.Type)
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Store{nodeBase: ops(append(r.operands(), x)...), ref: r.shape()}), nil
}

func (b *Builder) resolveRef(by Kind, ref Ref) (Ref, error) {
	switch ref.Kind {
	case RefVariable:
		v, err := b.variable(by, ref.Variable)
		if err != nil {
			return ref, err
		}
		ref.Type, ref.Modifiers = v.Type, v.Modifiers
	case RefField:
		obj, err := b.value(by, ref.Object)
		if err != nil {
			return ref, err
		}
		c, ok := obj.Type().(*types.ClassType)
		if !ok {
			return ref, newError(CodeOperandType, by, "field %s of non-class %s", ref.Field, obj.Type())
		}
		f, ok := c.Field(ref.Field)
		if !ok {
			return ref, newError(CodeOperandType, by, "%s has no field %s", c, ref.Field)
		}
		ref.Type, ref.Modifiers = f.Type, f.Modifiers
	case RefElement:
		arr, err := b.value(by, ref.Object)
		if err != nil {
			return ref, err
		}
		at, ok := arr.Type().(*types.ArrayType)
		if !ok {
			return ref, newError(CodeOperandType, by, "element of non-array %s", arr.Type())
		}
		if len(ref.Indices) != at.Dimensions() {
			return ref, newError(CodeOperandIndex, by, "%s takes %d indices, got %d", at, at.Dimensions(), len(ref.Indices))
		}
		indices := make([]NodeID, len(ref.Indices))
		for i, idx := range ref.Indices {
			if indices[i], err = b.check(by, idx, b.reg.Int()); err != nil {
				return ref, err
			}
		}
		ref.Indices = indices
		ref.Type, ref.Modifiers = at.BaseType(), 0
	case RefGlobal:
		if ref.Type == nil {
			return ref, newError(CodeOperandType, by, "global %s has no type", ref.Global)
		}
	case RefRecovered:
		rec, ok := b.list.Node(ref.Object).(*LocalRecover)
		if !ok {
			return ref, newError(CodeDanglingOperand, by, "%s is not a local recover", ref.Object)
		}
		ref.Type, ref.Modifiers = rec.Type(), rec.Modifiers()
	default:
		return ref, newError(CodeOperandType, by, "unknown reference kind %d", ref.Kind)
	}
	return ref, nil
}

// Binary applies op to left and right. right is checked against left's
// type.
func (b *Builder) Binary(op BinaryOp, left, right NodeID) (NodeID, error) {
	if err := b.begin(KindBinary); err != nil {
		return NoNode, err
	}
	l, err := b.value(KindBinary, left)
	if err != nil {
		return b.abort(err)
	}
	if !op.accepts(l.Type()) {
		return b.abort(newError(CodeIllegalOperator, KindBinary, "%s does not apply to %s", op, l.Type()))
	}
	r, err := b.check(KindBinary, right, l.Type())
	if err != nil {
		return b.abort(err)
	}
	result := l.Type()
	if op.IsComparison() {
		result = b.reg.Boolean()
	}
	return b.add(&Binary{nodeBase: ops(left, r), valueBase: val(result, 0), Op: op}), nil
}

// Unary applies op to operand.
func (b *Builder) Unary(op UnaryOp, operand NodeID) (NodeID, error) {
	if err := b.begin(KindUnary); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindUnary, operand)
	if err != nil {
		return b.abort(err)
	}
	if !op.accepts(v.Type()) {
		return b.abort(newError(CodeIllegalOperator, KindUnary, "%s does not apply to %s", op, v.Type()))
	}
	return b.add(&Unary{nodeBase: ops(operand), valueBase: val(v.Type(), 0), Op: op}), nil
}

// Not negates a boolean.
func (b *Builder) Not(operand NodeID) (NodeID, error) {
	if err := b.begin(KindNot); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindNot, operand, b.reg.Boolean())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Not{nodeBase: ops(x), valueBase: val(b.reg.Boolean(), 0)}), nil
}

// Cast converts operand to target. The conversion must be legal for kind.
func (b *Builder) Cast(kind CastKind, operand NodeID, target types.Type) (NodeID, error) {
	if err := b.begin(KindCast); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindCast, operand)
	if err != nil {
		return b.abort(err)
	}
	if target == nil || !castAllowed(kind, v.Type(), target) {
		return b.abort(newError(CodeOperandType, KindCast, "cannot %s cast %s to %s", kind, v.Type(), typeName(target)))
	}
	return b.add(&Cast{nodeBase: ops(operand), valueBase: val(target, v.Modifiers()), CastKind: kind}), nil
}

func castAllowed(kind CastKind, from, to types.Type) bool {
	switch kind {
	case CastUpcast:
		return from.IsSubtype(to)
	case CastDowncast:
		return to.IsSubtype(from)
	case CastInterface:
		return to.Kind() == types.KindInterface && !types.IsValueType(from)
	case CastBox:
		return types.IsValueType(from) && !types.IsValueType(to) && from.IsSubtype(to)
	case CastUnbox:
		return !types.IsValueType(from) && types.IsValueType(to)
	case CastPrimitive:
		return types.IsNumerical(from) && types.IsNumerical(to)
	case CastNull:
		return types.IsNull(from)
	}
	return false
}

// Call invokes m. args is the full argument list, receiver first for an
// instance method.
func (b *Builder) Call(m *types.MethodSignature, args ...NodeID) (NodeID, error) {
	if err := b.begin(KindCall); err != nil {
		return NoNode, err
	}
	if m == nil {
		return b.abort(newError(CodeOperandType, KindCall, "no method"))
	}
	params := m.FullParams()
	if len(args) != params.Len() {
		return b.abort(newError(CodeOperandType, KindCall, "%s takes %d arguments, got %d", m.Name, params.Len(), len(args)))
	}
	checked, err := b.checkAll(KindCall, args, params)
	if err != nil {
		return b.abort(err)
	}
	ret := types.ModifiedType{Type: types.NewSequenceType()}
	if m.Returns != nil {
		ret = m.Returns.NodeType()
	}
	return b.add(&Call{nodeBase: ops(checked...), valueBase: val(ret.Type, ret.Modifiers), Method: m}), nil
}

func (b *Builder) checkAll(by Kind, ids []NodeID, want *types.SequenceType) ([]NodeID, error) {
	out := make([]NodeID, len(ids))
	for i, id := range ids {
		x, err := b.check(by, id, want.At(i).Type)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// Return leaves the method with values, one per declared return.
func (b *Builder) Return(values ...NodeID) (NodeID, error) {
	if err := b.begin(KindReturn); err != nil {
		return NoNode, err
	}
	returns := types.NewSequenceType()
	if b.list.Method != nil && b.list.Method.Returns != nil {
		returns = b.list.Method.Returns
	}
	if len(values) != returns.Len() {
		return b.abort(newError(CodeOperandType, KindReturn, "want %d return values, got %d", returns.Len(), len(values)))
	}
	checked, err := b.checkAll(KindReturn, values, returns)
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Return{nodeBase: ops(checked...)}), nil
}

// NewObject allocates an instance of c.
func (b *Builder) NewObject(c *types.ClassType) (NodeID, error) {
	if err := b.begin(KindNewObject); err != nil {
		return NoNode, err
	}
	if c == nil || c.Kind() == types.KindInterface {
		return b.abort(newError(CodeOperandType, KindNewObject, "cannot instantiate %s", typeName(c)))
	}
	return b.add(&NewObject{valueBase: val(c, 0), Class: c}), nil
}

// NewArray allocates an array of type t with one length per dimension.
func (b *Builder) NewArray(t *types.ArrayType, lengths ...NodeID) (NodeID, error) {
	if err := b.begin(KindNewArray); err != nil {
		return NoNode, err
	}
	if t == nil {
		return b.abort(newError(CodeOperandType, KindNewArray, "no array type"))
	}
	if len(lengths) != t.Dimensions() {
		return b.abort(newError(CodeOperandIndex, KindNewArray, "%s takes %d lengths, got %d", t, t.Dimensions(), len(lengths)))
	}
	checked := make([]NodeID, len(lengths))
	for i, l := range lengths {
		x, err := b.check(KindNewArray, l, b.reg.Int())
		if err != nil {
			return b.abort(err)
		}
		checked[i] = x
	}
	return b.add(&NewArray{nodeBase: ops(checked...), valueBase: val(t, 0), Array: t}), nil
}

// Sequence packs values into one multi-valued result.
func (b *Builder) Sequence(values ...NodeID) (NodeID, error) {
	if err := b.begin(KindSequence); err != nil {
		return NoNode, err
	}
	seq := types.NewSequenceType()
	for _, id := range values {
		v, err := b.value(KindSequence, id)
		if err != nil {
			return b.abort(err)
		}
		seq.Append(v.Type(), v.Modifiers())
	}
	return b.add(&Sequence{nodeBase: ops(append([]NodeID(nil), values...)...), valueBase: val(seq, 0)}), nil
}

// SequenceElement extracts element i of a sequence value.
func (b *Builder) SequenceElement(sequence NodeID, i int) (NodeID, error) {
	if err := b.begin(KindSequenceElement); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindSequenceElement, sequence)
	if err != nil {
		return b.abort(err)
	}
	seq, ok := v.Type().(*types.SequenceType)
	if !ok {
		return b.abort(newError(CodeOperandType, KindSequenceElement, "%s is not a sequence", v.Type()))
	}
	if i < 0 || i >= seq.Len() {
		return b.abort(newError(CodeOperandIndex, KindSequenceElement, "element %d out of range [0, %d)", i, seq.Len()))
	}
	e := seq.At(i)
	return b.add(&SequenceElement{nodeBase: ops(sequence), valueBase: val(e.Type, e.Modifiers), Index: i}), nil
}

// TypeID reads the type identifier of a class object.
func (b *Builder) TypeID(class NodeID) (NodeID, error) {
	if err := b.begin(KindTypeID); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindTypeID, class, b.reg.Class())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&TypeID{nodeBase: ops(x), valueBase: val(b.reg.Int(), 0)}), nil
}

// Class produces the class object of t.
func (b *Builder) Class(t types.Type) (NodeID, error) {
	if err := b.begin(KindClass); err != nil {
		return NoNode, err
	}
	if t == nil {
		return b.abort(newError(CodeOperandType, KindClass, "no type"))
	}
	return b.add(&Class{valueBase: val(b.reg.Class(), 0), ClassOf: t}), nil
}

// BaseClass produces the class object of an array's element type.
func (b *Builder) BaseClass(array NodeID) (NodeID, error) {
	if err := b.begin(KindBaseClass); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindBaseClass, array)
	if err != nil {
		return b.abort(err)
	}
	if _, ok := v.Type().(*types.ArrayType); !ok {
		return b.abort(newError(CodeOperandType, KindBaseClass, "%s is not an array", v.Type()))
	}
	return b.add(&BaseClass{nodeBase: ops(array), valueBase: val(b.reg.Class(), 0)}), nil
}

// ClassData addresses the static data record of c. Interfaces and value
// types have no record.
func (b *Builder) ClassData(c *types.ClassType) (NodeID, error) {
	if err := b.begin(KindClassData); err != nil {
		return NoNode, err
	}
	switch {
	case c == nil:
		return b.abort(newError(CodeOperandType, KindClassData, "no class"))
	case c.Kind() == types.KindInterface || c.IsValueType():
		return b.abort(newError(CodeOperandType, KindClassData, "%s has no class data", c))
	}
	return b.add(&ClassData{valueBase: val(b.reg.Pointer(), 0), ClassOf: c}), nil
}

// MethodName refers to m.
func (b *Builder) MethodName(m *types.MethodSignature) (NodeID, error) {
	if err := b.begin(KindMethodName); err != nil {
		return NoNode, err
	}
	if m == nil {
		return b.abort(newError(CodeOperandType, KindMethodName, "no method"))
	}
	return b.add(&MethodName{valueBase: val(m.Type(), 0), Method: m}), nil
}

// MethodPointer reinterprets pointer as a method of m's type.
func (b *Builder) MethodPointer(pointer NodeID, m *types.MethodSignature) (NodeID, error) {
	if err := b.begin(KindMethodPointer); err != nil {
		return NoNode, err
	}
	if m == nil {
		return b.abort(newError(CodeOperandType, KindMethodPointer, "no method"))
	}
	x, err := b.check(KindMethodPointer, pointer, b.reg.Pointer())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&MethodPointer{nodeBase: ops(x), valueBase: val(m.Type(), 0), Method: m}), nil
}

// MethodTable reads the method table of a reference value.
func (b *Builder) MethodTable(object NodeID) (NodeID, error) {
	if err := b.begin(KindMethodTable); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindMethodTable, object)
	if err != nil {
		return b.abort(err)
	}
	if !isReference(v.Type()) {
		return b.abort(newError(CodeOperandType, KindMethodTable, "%s has no method table", v.Type()))
	}
	return b.add(&MethodTable{nodeBase: ops(object), valueBase: val(b.reg.Pointer(), 0)}), nil
}

// ChangeReferenceCount increments or decrements the count of a reference
// value.
func (b *Builder) ChangeReferenceCount(value NodeID, increment bool) (NodeID, error) {
	if err := b.begin(KindChangeReferenceCount); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindChangeReferenceCount, value)
	if err != nil {
		return b.abort(err)
	}
	if !isReference(v.Type()) {
		return b.abort(newError(CodeOperandType, KindChangeReferenceCount, "%s is not reference counted", v.Type()))
	}
	return b.add(&ChangeReferenceCount{nodeBase: ops(value), Increment: increment}), nil
}

// CopyMemory copies size bytes from src to dest. src must have dest's type.
func (b *Builder) CopyMemory(dest, src, size NodeID) (NodeID, error) {
	if err := b.begin(KindCopyMemory); err != nil {
		return NoNode, err
	}
	d, err := b.value(KindCopyMemory, dest)
	if err != nil {
		return b.abort(err)
	}
	s, err := b.check(KindCopyMemory, src, d.Type())
	if err != nil {
		return b.abort(err)
	}
	n, err := b.check(KindCopyMemory, size, b.reg.Int())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&CopyMemory{nodeBase: ops(dest, s, n)}), nil
}

// LongToPointer reinterprets a long as a raw pointer.
func (b *Builder) LongToPointer(value NodeID) (NodeID, error) {
	if err := b.begin(KindLongToPointer); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindLongToPointer, value, b.reg.Long())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&LongToPointer{nodeBase: ops(x), valueBase: val(b.reg.Pointer(), 0)}), nil
}

// PointerToLong reinterprets a raw pointer as a long.
func (b *Builder) PointerToLong(value NodeID) (NodeID, error) {
	if err := b.begin(KindPointerToLong); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindPointerToLong, value, b.reg.Pointer())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&PointerToLong{nodeBase: ops(x), valueBase: val(b.reg.Long(), 0)}), nil
}

// Length reads the length of dimension dim of an array.
func (b *Builder) Length(array NodeID, dim int) (NodeID, error) {
	if err := b.begin(KindLength); err != nil {
		return NoNode, err
	}
	v, err := b.value(KindLength, array)
	if err != nil {
		return b.abort(err)
	}
	at, ok := v.Type().(*types.ArrayType)
	if !ok {
		return b.abort(newError(CodeOperandType, KindLength, "%s is not an array", v.Type()))
	}
	if dim < 0 || dim >= at.Dimensions() {
		return b.abort(newError(CodeOperandIndex, KindLength, "dimension %d out of range [0, %d)", dim, at.Dimensions()))
	}
	return b.add(&Length{nodeBase: ops(array), valueBase: val(b.reg.Int(), 0), Dimension: dim}), nil
}

// Throw raises an exception.
func (b *Builder) Throw(exception NodeID) (NodeID, error) {
	if err := b.begin(KindThrow); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindThrow, exception, b.reg.Exception())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Throw{nodeBase: ops(x)}), nil
}

// Resume continues unwinding with an in-flight exception.
func (b *Builder) Resume(exception NodeID) (NodeID, error) {
	if err := b.begin(KindResume); err != nil {
		return NoNode, err
	}
	x, err := b.check(KindResume, exception, b.reg.Exception())
	if err != nil {
		return b.abort(err)
	}
	return b.add(&Resume{nodeBase: ops(x)}), nil
}
