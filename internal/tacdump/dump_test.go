package tacdump

import (
	"go/constant"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/tac"
	"github.com/shadow-language/shadowc/internal/testutil"
	"github.com/shadow-language/shadowc/internal/types"
)

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}

// must unwraps a builder result; the first failure is sticky, so checking
// Finish at the end catches it too.
func must(t *testing.T) func(tac.NodeID, error) tac.NodeID {
	return func(id tac.NodeID, err error) tac.NodeID {
		t.Helper()
		require.NoError(t, err)
		return id
	}
}

func TestDumpDeposit(t *testing.T) {
	reg := types.NewRegistry()
	_, deposit := testutil.Account(t, reg)
	b := tac.NewBuilder(reg, tac.NewList("deposit", deposit))
	m := must(t)

	entry, done, fail := b.NewLabel("entry"), b.NewLabel("done"), b.NewLabel("fail")
	m(b.Label(entry))
	self := m(b.Parameter(0))
	amount := m(b.Parameter(1))
	bal := m(b.Load(tac.FieldRef(self, "balance")))
	sum := m(b.Binary(tac.OpAdd, bal, amount))
	m(b.Store(tac.FieldRef(self, "balance"), sum))
	zero := m(b.Literal(reg.Long(), constant.MakeInt64(0)))
	neg := m(b.Binary(tac.OpLess, sum, zero))
	ok := m(b.Not(neg))
	m(b.BranchIf(ok, done, fail))
	m(b.Label(fail))
	m(b.Return(zero))
	m(b.Label(done))
	m(b.Return(sum))

	l, err := b.Finish()
	require.NoError(t, err)
	require.NoError(t, tac.Verify(l))
	out, err := Dump(l)
	require.NoError(t, err)
	assert.Contains(t, out, "  %9 = not %8 : boolean\n")
	assertGolden(t, "deposit", out)
}

func TestDumpHandlers(t *testing.T) {
	reg := types.NewRegistry()
	failure := types.NewClassType("Failure", "app", types.KindException, types.Public, nil)
	require.NoError(t, failure.SetExtends(reg.Exception()))

	b := tac.NewBuilder(reg, tac.NewList("guarded", nil))
	m := must(t)
	try, handler, after := b.NewLabel("try"), b.NewLabel("handler"), b.NewLabel("after")
	e := b.Variable("e", reg.Exception(), 0)
	count := b.Variable("count", reg.Int(), 0)
	catch, err := b.NewFunclet(tac.FuncletCatch, tac.NoFunclet)
	require.NoError(t, err)
	cleanup, err := b.NewFunclet(tac.FuncletCleanup, catch)
	require.NoError(t, err)

	m(b.AllocateVariable(count))
	m(b.Label(try))
	obj := m(b.NewObject(failure))
	m(b.Throw(obj))
	m(b.LandingPad(catch))
	m(b.Catch(catch))
	pad := m(b.CatchPad(catch, failure, e, handler))
	m(b.Label(handler))
	m(b.LocalStore(e, pad))
	m(b.CatchRet(catch, 0, after))
	m(b.CleanupPad(cleanup))
	m(b.LocalEscape(count, e))
	m(b.CleanupRet(cleanup, tac.NoLabel))
	m(b.Label(after))
	m(b.CallFinallyFunction(cleanup))
	m(b.Return())

	l, err := b.Finish()
	require.NoError(t, err)
	require.NoError(t, tac.Verify(l))
	out, err := Dump(l)
	require.NoError(t, err)
	assertGolden(t, "handlers", out)
}

func TestDumpRuntimeNodes(t *testing.T) {
	reg := types.NewRegistry()
	acct, deposit := testutil.Account(t, reg)
	grid := reg.ArrayOf(reg.Double(), 2)

	b := tac.NewBuilder(reg, tac.NewList("runtime", nil))
	m := must(t)
	v := b.Variable("grid", grid, 0)

	rows := m(b.IntLiteral(2))
	cols := m(b.IntLiteral(3))
	arr := m(b.NewArray(grid, rows, cols))
	m(b.Store(tac.VariableRef(v), arr))
	elem := m(b.Load(tac.ElementRef(arr, rows, cols)))
	m(b.Length(arr, 1))
	base := m(b.BaseClass(arr))
	id := m(b.TypeID(base))
	obj := m(b.NewObject(acct))
	amt := m(b.Literal(reg.Long(), constant.MakeInt64(5)))
	call := m(b.Call(deposit, obj, amt))
	seq := m(b.Sequence(call, elem))
	second := m(b.SequenceElement(seq, 1))
	m(b.Unary(tac.OpNegate, second))
	ptr := m(b.LongToPointer(amt))
	m(b.PointerToLong(ptr))
	table := m(b.MethodTable(obj))
	m(b.MethodPointer(table, deposit))
	m(b.ChangeReferenceCount(obj, false))
	m(b.Class(acct))
	m(b.MethodName(deposit))
	m(b.Load(tac.GlobalRef("counter", reg.Int(), types.Nullable)))
	m(b.Cast(tac.CastPrimitive, id, reg.Long()))
	m(b.Return())

	l, err := b.Finish()
	require.NoError(t, err)
	require.NoError(t, tac.Verify(l))
	out, err := Dump(l)
	require.NoError(t, err)
	assertGolden(t, "runtime", out)
}

func TestDumpResolvedPhis(t *testing.T) {
	reg := types.NewRegistry()
	b := tac.NewBuilder(reg, tac.NewList("loop", nil))
	m := must(t)
	entry, loop := b.NewLabel("entry"), b.NewLabel("loop")

	m(b.Label(entry))
	seed := m(b.IntLiteral(7))
	m(b.Label(loop))
	a := m(b.Phi(reg.Int(), 0))
	c := m(b.Phi(reg.Int(), 0))
	require.NoError(t, b.AddIncoming(a, seed, entry))
	require.NoError(t, b.AddIncoming(a, c, loop))
	require.NoError(t, b.AddIncoming(c, a, loop))
	m(b.Binary(tac.OpMultiply, c, c))
	m(b.Return())

	l, err := b.Finish()
	require.NoError(t, err)

	before, err := Dump(l)
	require.NoError(t, err)
	assert.Contains(t, before, "  %4 = phi [%2, L1(entry)] [%5, L2(loop)] : int\n")

	tac.ResolvePhis(l)
	resolved, err := Dump(l)
	require.NoError(t, err)
	assert.Contains(t, resolved, "  %4 = phi [%2, L1(entry)] [%5, L2(loop)] => %2 : int\n")
	assert.Contains(t, resolved, "  %6 = binary %5 * %5 : int\n")

	out, err := Dump(tac.Substitute(l))
	require.NoError(t, err)
	assertGolden(t, "loop_substituted", out)
}

func TestDumpBranchForms(t *testing.T) {
	reg := types.NewRegistry()
	b := tac.NewBuilder(reg, tac.NewList("jumps", nil))
	m := must(t)
	here, there := b.NewLabel(""), b.NewLabel("there")

	m(b.Label(here))
	addr := m(b.LabelAddress(there))
	m(b.BranchIndirect(addr, here, there))
	m(b.Label(there))
	m(b.Branch(here))

	out, err := Dump(b.List())
	require.NoError(t, err)
	assert.Equal(t, "unit jumps\n"+
		"L1:\n"+
		"  %2 = label_address L2(there) : Pointer Type\n"+
		"  branch indirect %2 [L1, L2(there)]\n"+
		"L2(there):\n"+
		"  branch L1\n", out)
}

func TestDumpEmptyList(t *testing.T) {
	out, err := Dump(tac.NewList("empty", nil))
	require.NoError(t, err)
	assert.Equal(t, "unit empty\n", out)
}

func TestDumpClassData(t *testing.T) {
	reg := types.NewRegistry()
	acct, _ := testutil.Account(t, reg)
	b := tac.NewBuilder(reg, tac.NewList("data", nil))
	must(t)(b.ClassData(acct))

	out, err := Dump(b.List())
	require.NoError(t, err)
	assert.Equal(t, "unit data\n"+
		"  %1 = class_data Account : Pointer Type\n", out)
}
