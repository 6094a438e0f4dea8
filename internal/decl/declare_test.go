package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/types"
)

func bankSet() *Set {
	return &Set{Classes: []Class{
		{
			Package: "bank", Name: "Account", Kind: "class",
			Modifiers: []string{"public"},
			Fields:    []Field{{Name: "balance", Type: "long"}},
			Methods: []Method{
				{Name: "deposit", Params: []Param{{Type: "long"}}, Returns: []Param{{Type: "long"}}},
				{Name: "open", Static: true, Returns: []Param{{Type: "Account"}}},
			},
		},
		{
			Package: "bank", Name: "Box", Kind: "class",
			TypeParameters: []TypeParameter{{Name: "T", Bounds: []string{"CanCompare<T>"}}},
			Fields:         []Field{{Name: "value", Type: "T", Modifiers: []string{"nullable"}}},
			Methods:        []Method{{Name: "all", Returns: []Param{{Type: "T[]"}}}},
		},
		{Package: "bank", Name: "Overdrawn", Kind: "exception"},
		{Package: "bank", Name: "Ledger", Kind: "interface", Implements: []string{"CanIterate<Account>"}},
		{
			Package: "bank", Name: "Savings", Kind: "class",
			Extends:    "Account",
			Implements: []string{"Ledger"},
			Fields:     []Field{{Name: "rate", Type: "int", Modifiers: []string{"final"}}},
		},
	}}
}

func TestDeclareBank(t *testing.T) {
	reg := types.NewRegistry()
	errs := Declare(reg, bankSet())
	require.Empty(t, errs)
	reg.Freeze()

	acct, ok := reg.Lookup("bank", "Account")
	require.True(t, ok)
	assert.Equal(t, types.Public, acct.Modifiers())
	assert.Same(t, reg.Object(), acct.Extends())

	balance, ok := acct.Field("balance")
	require.True(t, ok)
	assert.Same(t, reg.Long(), balance.Type)

	deposit, ok := acct.MatchingMethod("deposit", types.NewSequenceType(reg.Long()))
	require.True(t, ok)
	assert.Equal(t, "Account.deposit(long) => (long)", deposit.String())
	assert.Same(t, acct, deposit.Outer)

	open, ok := acct.MatchingMethod("open", types.NewSequenceType())
	require.True(t, ok)
	assert.True(t, open.Static)

	savings, ok := reg.Lookup("bank", "Savings")
	require.True(t, ok)
	assert.True(t, savings.IsSubtype(acct))
	rate, ok := savings.Field("rate")
	require.True(t, ok)
	assert.True(t, rate.Modifiers.IsFinal())
	inherited, ok := savings.Field("balance")
	require.True(t, ok)
	assert.Same(t, reg.Long(), inherited.Type)

	ledger, ok := reg.Lookup("bank", "Ledger")
	require.True(t, ok)
	assert.Nil(t, ledger.Extends())
	assert.True(t, savings.IsSubtype(ledger))

	overdrawn, ok := reg.Lookup("bank", "Overdrawn")
	require.True(t, ok)
	assert.True(t, overdrawn.IsSubtype(reg.Exception()))
}

func TestDeclareGenericBoundsCheckedAfterFreeze(t *testing.T) {
	reg := types.NewRegistry()
	require.Empty(t, Declare(reg, bankSet()))
	reg.Freeze()

	res := &types.Resolver{Registry: reg, Package: "bank"}
	boxed, err := res.Resolve("Box<int>")
	require.NoError(t, err)
	assert.Equal(t, "bank@Box<int>", boxed.QualifiedName())

	_, err = res.Resolve("Box<Account>")
	assert.ErrorIs(t, err, types.ErrTypeArguments)

	box, _ := reg.Lookup("bank", "Box")
	value, ok := box.Field("value")
	require.True(t, ok)
	assert.True(t, value.Modifiers.IsNullable())
	all := box.MethodsNamed("all")
	require.Len(t, all, 1)
	assert.Equal(t, "T[]", all[0].Returns.At(0).Type.Name())
}

func TestDeclareResolutionErrors(t *testing.T) {
	tests := []struct {
		name  string
		class Class
		want  string
	}{
		{"unknown field type", Class{Name: "C", Kind: "class", Fields: []Field{{Name: "x", Type: "Widget"}}}, ErrUnknownTypeName},
		{"malformed type", Class{Name: "C", Kind: "class", Fields: []Field{{Name: "x", Type: "int[,"}}}, ErrMalformedType},
		{"type argument count", Class{Name: "C", Kind: "class", Fields: []Field{{Name: "x", Type: "CanIndex<int>"}}}, ErrTypeArgCount},
		{"extends interface", Class{Name: "C", Kind: "class", Extends: "CanCompare<int>"}, ErrIllegalSupertype},
		{"extends primitive", Class{Name: "C", Kind: "class", Extends: "int"}, ErrIllegalSupertype},
		{"extends array", Class{Name: "C", Kind: "class", Extends: "Object[]"}, ErrIllegalSupertype},
		{"implements class", Class{Name: "C", Kind: "class", Implements: []string{"String"}}, ErrIllegalSupertype},
		{"interface extends", Class{Name: "C", Kind: "interface", Extends: "Object"}, ErrIllegalSupertype},
		{"extends itself", Class{Name: "C", Kind: "class", Extends: "C"}, ErrInheritanceCycle},
		{"unknown method param", Class{Name: "C", Kind: "class", Methods: []Method{{Name: "m", Params: []Param{{Type: "Nope"}}}}}, ErrUnknownTypeName},
		{"unknown bound", Class{Name: "C", Kind: "class", TypeParameters: []TypeParameter{{Name: "T", Bounds: []string{"Nope"}}}}, ErrUnknownTypeName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Declare(types.NewRegistry(), &Set{Classes: []Class{tt.class}})
			assert.Equal(t, []string{tt.want}, codes(errs))
		})
	}
}

func TestDeclareDuplicatesAgainstRegistry(t *testing.T) {
	reg := types.NewRegistry()
	errs := Declare(reg, &Set{Classes: []Class{{Package: types.StandardPackage, Name: "Object", Kind: "class"}}})
	assert.Equal(t, []string{ErrDuplicate}, codes(errs))

	require.Empty(t, Declare(reg, &Set{Classes: []Class{{Package: "p", Name: "C", Kind: "class"}}}))
	errs = Declare(reg, &Set{Classes: []Class{{Package: "p", Name: "C", Kind: "class"}}})
	assert.Equal(t, []string{ErrDuplicate}, codes(errs))
}

func TestDeclareFrozenRegistry(t *testing.T) {
	reg := types.NewRegistry()
	reg.Freeze()
	errs := Declare(reg, bankSet())
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSchema, errs[0].Code)
	assert.Contains(t, errs[0].Message, "frozen")
}

func TestDeclareLeavesPartialClassesOnError(t *testing.T) {
	reg := types.NewRegistry()
	errs := Declare(reg, &Set{Classes: []Class{
		{Package: "bank", Name: "Account", Kind: "class", Fields: []Field{{Name: "owner", Type: "Customer"}}},
		{Package: "bank", Name: "Audit", Kind: "class", Extends: "Account"},
	}})
	require.Equal(t, []string{ErrUnknownTypeName}, codes(errs))

	acct, ok := reg.Lookup("bank", "Account")
	require.True(t, ok, "classes are registered before members resolve")
	_, hasOwner := acct.Field("owner")
	assert.False(t, hasOwner, "the unresolved field is missing")

	audit, ok := reg.Lookup("bank", "Audit")
	require.True(t, ok)
	assert.Same(t, acct, audit.Extends())
}
