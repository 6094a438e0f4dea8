package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/types"
)

// Account declares bank@Account { balance: long } with
// deposit(long) => (long) in reg, the same class BankDecls describes.
func Account(t testing.TB, reg *types.Registry) (*types.ClassType, *types.MethodSignature) {
	t.Helper()
	c := types.NewClassType("Account", "bank", types.KindClass, types.Public, nil)
	require.NoError(t, c.SetExtends(reg.Object()))
	require.NoError(t, c.AddField("balance", types.ModifiedType{Type: reg.Long()}))
	deposit := types.NewMethodSignature("deposit", types.Public,
		types.NewSequenceType(reg.Long()), types.NewSequenceType(reg.Long()))
	require.NoError(t, c.AddMethod(deposit))
	require.NoError(t, reg.Declare(c))
	return c, deposit
}

// Exception builds an undeclared exception class extending Exception.
func Exception(t testing.TB, reg *types.Registry, pkg, name string) *types.ClassType {
	t.Helper()
	c := types.NewClassType(name, pkg, types.KindException, types.Public, nil)
	require.NoError(t, c.SetExtends(reg.Exception()))
	return c
}
