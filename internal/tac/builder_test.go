package tac

import (
	"go/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/testutil"
	"github.com/shadow-language/shadowc/internal/types"
)

func TestOperandAccess(t *testing.T) {
	_, b := newTestBuilder(t)
	x, err := b.IntLiteral(1)
	require.NoError(t, err)
	y, err := b.IntLiteral(2)
	require.NoError(t, err)
	sum, err := b.Binary(OpAdd, x, y)
	require.NoError(t, err)

	n := b.List().Node(sum)
	require.NotNil(t, n)
	assert.Equal(t, KindBinary, n.Kind())
	assert.Equal(t, sum, n.ID())
	assert.Equal(t, 2, n.NumOperands())
	assert.Equal(t, []NodeID{x, y}, n.Operands())

	for i, want := range []NodeID{x, y} {
		got, err := n.Operand(i)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, i := range []int{-1, 2, 100} {
		_, err := n.Operand(i)
		assert.ErrorIs(t, err, ErrOperandIndex, "index %d", i)
	}

	lit := b.List().Node(x)
	assert.Equal(t, 0, lit.NumOperands())
	_, err = lit.Operand(0)
	assert.ErrorIs(t, err, ErrOperandIndex)

	ops := n.Operands()
	ops[0] = 99
	first, _ := n.Operand(0)
	assert.Equal(t, x, first, "Operands returns a copy")
}

func TestLiterals(t *testing.T) {
	reg := types.NewRegistry()
	tests := []struct {
		name string
		typ  types.Type
		val  constant.Value
		ok   bool
	}{
		{"null", reg.Null(), nil, true},
		{"bool", reg.Boolean(), constant.MakeBool(true), true},
		{"int", reg.Int(), constant.MakeInt64(-5), true},
		{"byte_max", reg.Byte(), constant.MakeInt64(127), true},
		{"byte_overflow", reg.Byte(), constant.MakeInt64(128), false},
		{"ubyte_max", reg.UByte(), constant.MakeInt64(255), true},
		{"ubyte_negative", reg.UByte(), constant.MakeInt64(-1), false},
		{"ulong_max", reg.ULong(), constant.MakeUint64(1<<64 - 1), true},
		{"int_overflow", reg.Int(), constant.MakeInt64(1 << 31), false},
		{"double_from_float", reg.Double(), constant.MakeFloat64(1.5), true},
		{"double_from_int", reg.Double(), constant.MakeInt64(2), true},
		{"int_from_float", reg.Int(), constant.MakeFloat64(1.5), false},
		{"string", reg.String(), constant.MakeString("hi"), true},
		{"string_from_int", reg.String(), constant.MakeInt64(1), false},
		{"nil_for_int", reg.Int(), nil, false},
		{"object", reg.Object(), constant.MakeString("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(reg, NewList(tt.name, nil))
			id, err := b.Literal(tt.typ, tt.val)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrOperandType)
				return
			}
			require.NoError(t, err)
			lit := b.List().Node(id).(*Literal)
			assert.Same(t, tt.typ, lit.Type())
		})
	}
}

func TestParametersIncludeReceiver(t *testing.T) {
	reg := types.NewRegistry()
	acct, deposit := testutil.Account(t, reg)
	b := NewBuilder(reg, NewList(deposit.SymbolName(), deposit))

	self, err := b.Parameter(0)
	require.NoError(t, err)
	amount, err := b.Parameter(1)
	require.NoError(t, err)
	_, err = b.Parameter(2)
	assert.ErrorIs(t, err, ErrOperandIndex)

	l := b.List()
	s, _ := l.Value(self)
	a, _ := l.Value(amount)
	assert.Same(t, acct, s.Type())
	assert.Same(t, reg.Long(), a.Type())
}

func TestFieldLoadStoreAndReturn(t *testing.T) {
	reg := types.NewRegistry()
	_, deposit := testutil.Account(t, reg)
	b := NewBuilder(reg, NewList("deposit", deposit))

	self, err := b.Parameter(0)
	require.NoError(t, err)
	amount, err := b.Parameter(1)
	require.NoError(t, err)
	bal, err := b.Load(FieldRef(self, "balance"))
	require.NoError(t, err)
	sum, err := b.Binary(OpAdd, bal, amount)
	require.NoError(t, err)
	st, err := b.Store(FieldRef(self, "balance"), sum)
	require.NoError(t, err)
	_, err = b.Return(sum)
	require.NoError(t, err)

	l, err := b.Finish()
	require.NoError(t, err)
	require.NoError(t, Verify(l))

	load := l.Node(bal).(*Load)
	assert.Same(t, reg.Long(), load.Type())
	assert.Equal(t, RefField, load.Ref().Kind)
	assert.Equal(t, self, load.Ref().Object)

	store := l.Node(st).(*Store)
	assert.Equal(t, sum, store.Value())
	assert.Equal(t, "balance", store.Ref().Field)
	assert.Equal(t, []NodeID{self, sum}, store.Operands())
}

func TestLoadErrors(t *testing.T) {
	reg := types.NewRegistry()
	_, deposit := testutil.Account(t, reg)

	b := NewBuilder(reg, NewList("missing_field", deposit))
	self, _ := b.Parameter(0)
	_, err := b.Load(FieldRef(self, "owner"))
	assert.ErrorIs(t, err, ErrOperandType)

	b = NewBuilder(reg, NewList("field_of_primitive", deposit))
	amount, _ := b.Parameter(1)
	_, err = b.Load(FieldRef(amount, "balance"))
	assert.ErrorIs(t, err, ErrOperandType)

	b = NewBuilder(reg, NewList("unknown_variable", nil))
	_, err = b.Load(VariableRef(3))
	assert.ErrorIs(t, err, ErrDanglingOperand)

	b = NewBuilder(reg, NewList("untyped_global", nil))
	_, err = b.Load(GlobalRef("g", nil, 0))
	assert.ErrorIs(t, err, ErrOperandType)

	b = NewBuilder(reg, NewList("typed_global", nil))
	g, err := b.Load(GlobalRef("g", reg.String(), types.Nullable))
	require.NoError(t, err)
	v, _ := b.List().Value(g)
	assert.True(t, v.Modifiers().IsNullable())
}

func TestStoreChecksValue(t *testing.T) {
	reg, b := newTestBuilder(t)
	v := b.Variable("name", reg.String(), 0)
	_, err := b.AllocateVariable(v)
	require.NoError(t, err)
	n, err := b.NullLiteral()
	require.NoError(t, err)
	_, err = b.Store(VariableRef(v), n)
	require.NoError(t, err, "null is accepted through a null cast")
	i, err := b.IntLiteral(1)
	require.NoError(t, err)
	_, err = b.LocalStore(v, i)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestArrays(t *testing.T) {
	reg, b := newTestBuilder(t)
	grid := reg.ArrayOf(reg.Double(), 2)

	rows, err := b.IntLiteral(3)
	require.NoError(t, err)
	cols, err := b.IntLiteral(4)
	require.NoError(t, err)
	arr, err := b.NewArray(grid, rows, cols)
	require.NoError(t, err)

	elem, err := b.Load(ElementRef(arr, rows, cols))
	require.NoError(t, err)
	v, _ := b.List().Value(elem)
	assert.Same(t, reg.Double(), v.Type())

	length, err := b.Length(arr, 1)
	require.NoError(t, err)
	lv, _ := b.List().Value(length)
	assert.Same(t, reg.Int(), lv.Type())

	base, err := b.BaseClass(arr)
	require.NoError(t, err)
	bv, _ := b.List().Value(base)
	assert.Same(t, reg.Class(), bv.Type())

	l := b.List()
	tests := []struct {
		name  string
		build func(b *Builder) error
		want  error
	}{
		{"too_few_lengths", func(b *Builder) error { _, err := b.NewArray(grid, rows); return err }, ErrOperandIndex},
		{"too_few_indices", func(b *Builder) error { _, err := b.Load(ElementRef(arr, rows)); return err }, ErrOperandIndex},
		{"dimension_out_of_range", func(b *Builder) error { _, err := b.Length(arr, 2); return err }, ErrOperandIndex},
		{"length_of_scalar", func(b *Builder) error { _, err := b.Length(rows, 0); return err }, ErrOperandType},
		{"base_class_of_scalar", func(b *Builder) error { _, err := b.BaseClass(rows); return err }, ErrOperandType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := NewBuilder(reg, l)
			assert.ErrorIs(t, tt.build(nb), tt.want)
		})
	}
}

func TestBinaryOperatorLegality(t *testing.T) {
	reg := types.NewRegistry()
	tests := []struct {
		name   string
		op     BinaryOp
		typ    types.Type
		result types.Type
		err    error
	}{
		{"int_add", OpAdd, reg.Int(), reg.Int(), nil},
		{"string_concat", OpAdd, reg.String(), reg.String(), nil},
		{"double_multiply", OpMultiply, reg.Double(), reg.Double(), nil},
		{"int_shift", OpShiftLeft, reg.Int(), reg.Int(), nil},
		{"double_shift", OpShiftLeft, reg.Double(), nil, ErrIllegalOperator},
		{"bool_and", OpLogicalAnd, reg.Boolean(), reg.Boolean(), nil},
		{"int_and", OpLogicalAnd, reg.Int(), nil, ErrIllegalOperator},
		{"bitwise_bool", OpBitwiseAnd, reg.Boolean(), nil, ErrIllegalOperator},
		{"int_less", OpLess, reg.Int(), reg.Boolean(), nil},
		{"string_less", OpLess, reg.String(), nil, ErrIllegalOperator},
		{"object_equal", OpEqual, reg.Object(), reg.Boolean(), nil},
		{"reference_equal", OpReferenceEqual, reg.String(), reg.Boolean(), nil},
		{"reference_equal_int", OpReferenceEqual, reg.Int(), nil, ErrIllegalOperator},
		{"reference_equal_boolean", OpReferenceEqual, reg.Boolean(), nil, ErrIllegalOperator},
		{"unknown_op", BinaryOp(0), reg.Int(), nil, ErrIllegalOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(reg, NewList(tt.name, nil))
			l, err := b.Phi(tt.typ, 0)
			require.NoError(t, err)
			r, err := b.Phi(tt.typ, 0)
			require.NoError(t, err)
			id, err := b.Binary(tt.op, l, r)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			v, _ := b.List().Value(id)
			assert.Same(t, tt.result, v.Type())
		})
	}
}

func TestBinaryChecksRightOperand(t *testing.T) {
	reg, b := newTestBuilder(t)
	l, _ := b.IntLiteral(1)
	r, _ := b.Literal(reg.Long(), constant.MakeInt64(1))
	_, err := b.Binary(OpAdd, l, r)
	assert.ErrorIs(t, err, ErrOperandType, "no implicit widening")
}

func TestUnary(t *testing.T) {
	reg := types.NewRegistry()
	b := NewBuilder(reg, NewList("unary", nil))
	d, _ := b.Literal(reg.Double(), constant.MakeFloat64(2))
	neg, err := b.Unary(OpNegate, d)
	require.NoError(t, err)
	v, _ := b.List().Value(neg)
	assert.Same(t, reg.Double(), v.Type())

	_, err = b.Unary(OpComplement, d)
	assert.ErrorIs(t, err, ErrIllegalOperator)
}

func TestExplicitCasts(t *testing.T) {
	reg := types.NewRegistry()
	tests := []struct {
		name string
		kind CastKind
		from types.Type
		to   types.Type
		ok   bool
	}{
		{"downcast", CastDowncast, reg.Object(), reg.String(), true},
		{"downcast_unrelated", CastDowncast, reg.String(), reg.Class(), false},
		{"upcast", CastUpcast, reg.String(), reg.Object(), true},
		{"upcast_wrong_way", CastUpcast, reg.Object(), reg.String(), false},
		{"primitive", CastPrimitive, reg.Int(), reg.Double(), true},
		{"primitive_bool", CastPrimitive, reg.Boolean(), reg.Int(), false},
		{"box", CastBox, reg.Int(), reg.Object(), true},
		{"box_boolean", CastBox, reg.Boolean(), reg.Object(), true},
		{"unbox_boolean", CastUnbox, reg.Object(), reg.Boolean(), true},
		{"unbox", CastUnbox, reg.Object(), reg.Int(), true},
		{"unbox_primitive", CastUnbox, reg.Long(), reg.Int(), false},
		{"null", CastNull, reg.Null(), reg.String(), true},
		{"null_from_string", CastNull, reg.String(), reg.String(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(reg, NewList(tt.name, nil))
			x, err := b.Phi(tt.from, types.Nullable)
			require.NoError(t, err)
			id, err := b.Cast(tt.kind, x, tt.to)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrOperandType)
				return
			}
			require.NoError(t, err)
			c := b.List().Node(id).(*Cast)
			assert.False(t, c.Implicit)
			assert.Same(t, tt.to, c.Type())
			assert.True(t, c.Modifiers().IsNullable())
		})
	}
}

func TestCallAndSequences(t *testing.T) {
	reg := types.NewRegistry()
	acct, deposit := testutil.Account(t, reg)
	split := types.NewMethodSignature("split", types.Public,
		types.NewSequenceType(reg.Long()), types.NewSequenceType(reg.Long(), reg.Long()))
	split.Static = true
	split.Outer = acct

	b := NewBuilder(reg, NewList("caller", nil))
	obj, err := b.NewObject(acct)
	require.NoError(t, err)
	amt, err := b.Literal(reg.Long(), constant.MakeInt64(10))
	require.NoError(t, err)

	single, err := b.Call(deposit, obj, amt)
	require.NoError(t, err)
	sv, _ := b.List().Value(single)
	assert.Same(t, reg.Long(), sv.Type(), "a single return collapses")

	pair, err := b.Call(split, amt)
	require.NoError(t, err)
	pv, _ := b.List().Value(pair)
	seq, ok := pv.Type().(*types.SequenceType)
	require.True(t, ok)
	assert.Equal(t, 2, seq.Len())

	second, err := b.SequenceElement(pair, 1)
	require.NoError(t, err)
	ev, _ := b.List().Value(second)
	assert.Same(t, reg.Long(), ev.Type())

	_, err = NewBuilder(reg, b.List()).SequenceElement(pair, 2)
	assert.ErrorIs(t, err, ErrOperandIndex)
	_, err = NewBuilder(reg, b.List()).SequenceElement(amt, 0)
	assert.ErrorIs(t, err, ErrOperandType)
	_, err = NewBuilder(reg, b.List()).Call(deposit, obj)
	assert.ErrorIs(t, err, ErrOperandType)
	_, err = NewBuilder(reg, b.List()).Call(deposit, amt, amt)
	assert.ErrorIs(t, err, ErrOperandType)

	packed, err := b.Sequence(amt, obj)
	require.NoError(t, err)
	packedV, _ := b.List().Value(packed)
	assert.Equal(t, "(long,Account)", packedV.Type().Name())

	_, err = b.NewObject(reg.CanIndex())
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestReturnArity(t *testing.T) {
	reg := types.NewRegistry()
	_, deposit := testutil.Account(t, reg)

	b := NewBuilder(reg, NewList("none", deposit))
	_, err := b.Return()
	assert.ErrorIs(t, err, ErrOperandType)

	b = NewBuilder(reg, NewList("void", nil))
	_, err = b.Return()
	assert.NoError(t, err)
}

func TestPointerNodes(t *testing.T) {
	reg, b := newTestBuilder(t)
	n, err := b.Literal(reg.Long(), constant.MakeInt64(4096))
	require.NoError(t, err)
	ptr, err := b.LongToPointer(n)
	require.NoError(t, err)
	back, err := b.PointerToLong(ptr)
	require.NoError(t, err)
	bv, _ := b.List().Value(back)
	assert.Same(t, reg.Long(), bv.Type())

	m := types.NewMethodSignature("run", 0, nil, nil)
	mp, err := b.MethodPointer(ptr, m)
	require.NoError(t, err)
	mv, _ := b.List().Value(mp)
	assert.Equal(t, types.KindMethod, mv.Type().Kind())

	_, err = b.LongToPointer(ptr)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestObjectRuntimeNodes(t *testing.T) {
	reg := types.NewRegistry()
	acct, _ := testutil.Account(t, reg)
	b := NewBuilder(reg, NewList("runtime", nil))

	obj, err := b.NewObject(acct)
	require.NoError(t, err)
	_, err = b.ChangeReferenceCount(obj, true)
	require.NoError(t, err)
	_, err = b.MethodTable(obj)
	require.NoError(t, err)
	cls, err := b.Class(acct)
	require.NoError(t, err)
	id, err := b.TypeID(cls)
	require.NoError(t, err)
	idv, _ := b.List().Value(id)
	assert.Same(t, reg.Int(), idv.Type())

	other, err := b.NewObject(acct)
	require.NoError(t, err)
	size, err := b.IntLiteral(16)
	require.NoError(t, err)
	_, err = b.CopyMemory(obj, other, size)
	require.NoError(t, err)

	i, _ := b.IntLiteral(1)
	_, err = NewBuilder(reg, b.List()).ChangeReferenceCount(i, false)
	assert.ErrorIs(t, err, ErrOperandType)
	_, err = NewBuilder(reg, b.List()).MethodTable(i)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestClassData(t *testing.T) {
	reg := types.NewRegistry()
	acct, _ := testutil.Account(t, reg)
	b := NewBuilder(reg, NewList("class_data", nil))

	id, err := b.ClassData(acct)
	require.NoError(t, err)
	n, ok := b.List().Node(id).(*ClassData)
	require.True(t, ok)
	assert.Same(t, acct, n.ClassOf)
	assert.Same(t, reg.Pointer(), n.Type())
	assert.Equal(t, KindClassData, n.Kind())

	for _, c := range []*types.ClassType{nil, reg.Int(), reg.Boolean(), reg.CanIndex()} {
		_, err = NewBuilder(reg, b.List()).ClassData(c)
		assert.ErrorIs(t, err, ErrOperandType, "%v", c)
	}
	assert.Equal(t, 1, b.List().Len())
}

func TestThrowChecksExceptionType(t *testing.T) {
	reg := types.NewRegistry()
	failure := types.NewClassType("Failure", "app", types.KindException, 0, nil)
	require.NoError(t, failure.SetExtends(reg.Exception()))

	b := NewBuilder(reg, NewList("throw", nil))
	e, err := b.NewObject(failure)
	require.NoError(t, err)
	th, err := b.Throw(e)
	require.NoError(t, err)
	arg, _ := b.List().Node(th).Operand(0)
	cast, ok := b.List().Node(arg).(*Cast)
	require.True(t, ok)
	assert.Equal(t, CastUpcast, cast.CastKind)

	s, _ := b.StringLiteral("boom")
	_, err = b.Throw(s)
	assert.ErrorIs(t, err, ErrOperandType)
}

func TestBranches(t *testing.T) {
	reg, b := newTestBuilder(t)
	yes, no := b.NewLabel("yes"), b.NewLabel("no")
	c, _ := b.BoolLiteral(false)
	br, err := b.BranchIf(c, yes, no)
	require.NoError(t, err)
	node := b.List().Node(br).(*Branch)
	assert.Equal(t, BranchConditional, node.Form)
	assert.Equal(t, c, node.Condition())
	assert.Equal(t, NoNode, node.Address())

	addr, err := b.LabelAddress(yes)
	require.NoError(t, err)
	_, err = b.BranchIndirect(addr, yes, no)
	require.NoError(t, err)

	i, _ := b.IntLiteral(0)
	_, err = NewBuilder(reg, b.List()).BranchIf(i, yes, no)
	assert.ErrorIs(t, err, ErrOperandType)
	_, err = NewBuilder(reg, b.List()).Branch(LabelID(9))
	assert.ErrorIs(t, err, ErrBadLabel)
}
