package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zoo declares Animal, Dog extends Animal, and a generic List<T>.
type zoo struct {
	r      *Registry
	animal *ClassType
	dog    *ClassType
	list   *ClassType
	elem   *TypeParameter
}

func newZoo(t *testing.T) *zoo {
	t.Helper()
	r := NewRegistry()
	z := &zoo{r: r}

	z.animal = NewClassType("Animal", "zoo", KindClass, Public, nil)
	require.NoError(t, z.animal.SetExtends(r.Object()))
	require.NoError(t, z.animal.AddField("name", ModifiedType{Type: r.String()}))
	require.NoError(t, r.Declare(z.animal))

	z.dog = NewClassType("Dog", "zoo", KindClass, Public, nil)
	require.NoError(t, z.dog.SetExtends(z.animal))
	require.NoError(t, z.dog.AddMethod(NewMethodSignature("bark", Public, nil, NewSequenceType(r.String()))))
	require.NoError(t, r.Declare(z.dog))

	z.list = NewClassType("List", "zoo", KindClass, Public, nil)
	z.elem = NewTypeParameter("T")
	require.NoError(t, z.list.AddTypeParameter(z.elem))
	require.NoError(t, z.list.SetExtends(r.Object()))
	require.NoError(t, z.list.AddField("head", ModifiedType{Type: z.elem, Modifiers: Nullable}))
	require.NoError(t, z.list.AddMethod(NewMethodSignature("get", Public,
		NewSequenceType(r.Int()), NewSequenceType(z.elem))))
	require.NoError(t, r.Declare(z.list))
	return z
}

func TestClassHierarchy(t *testing.T) {
	z := newZoo(t)
	r := z.r

	assert.True(t, z.dog.IsSubtype(z.animal))
	assert.True(t, z.dog.IsStrictSubtype(z.animal))
	assert.False(t, z.animal.IsSubtype(z.dog))
	assert.False(t, z.dog.IsStrictSubtype(z.dog))
	assert.True(t, z.dog.IsSubtype(r.Object()))
	assert.False(t, z.dog.IsSubtype(r.Unknown()))
	assert.False(t, z.dog.IsSubtype(r.Pointer()))

	name, ok := z.dog.Field("name")
	require.True(t, ok)
	assert.Same(t, r.String(), name.Type)
	_, ok = z.dog.Field("tail")
	assert.False(t, ok)
}

func TestClassInheritanceCycleRejected(t *testing.T) {
	z := newZoo(t)

	err := z.animal.SetExtends(z.dog)
	assert.ErrorIs(t, err, ErrInheritanceCycle)

	err = z.dog.SetExtends(z.dog)
	assert.ErrorIs(t, err, ErrInheritanceCycle)

	iface := NewClassType("Pet", "zoo", KindInterface, Public, nil)
	require.NoError(t, z.dog.AddInterface(iface))
	err = iface.AddInterface(z.dog)
	assert.ErrorIs(t, err, ErrInheritanceCycle)

	// The failed calls leave the hierarchy untouched.
	assert.Same(t, z.animal, z.dog.Extends())
	assert.Empty(t, iface.Interfaces())
}

func TestClassNames(t *testing.T) {
	z := newZoo(t)
	r := z.r

	listOfString, err := z.list.Instantiate(r.String())
	require.NoError(t, err)

	assert.Equal(t, "List<T>", z.list.Name())
	assert.Equal(t, "List<String>", listOfString.Name())
	assert.Equal(t, "List", listOfString.BaseName())
	assert.Equal(t, "zoo@List<String>", listOfString.QualifiedName())
	assert.Equal(t, "zoo_List_Lshadow_standard_String", listOfString.MangledName())
	assert.Equal(t, "int", r.Int().QualifiedName())

	inner := NewClassType("Inner", "zoo", KindClass, 0, z.dog)
	assert.Equal(t, "Dog:Inner", inner.Name())
}

func TestGenericInstantiation(t *testing.T) {
	z := newZoo(t)
	r := z.r

	listOfString, err := z.list.Instantiate(r.String())
	require.NoError(t, err)
	again, err := z.list.Instantiate(r.String())
	require.NoError(t, err)
	listOfInt, err := z.list.Instantiate(r.Int())
	require.NoError(t, err)

	assert.NotSame(t, listOfString, again)
	assert.True(t, Equal(listOfString, again))
	assert.False(t, Equal(listOfString, listOfInt))
	assert.True(t, SamePackageAndName(listOfString, listOfInt))
	assert.True(t, SamePackageAndName(z.list, listOfInt))
	assert.False(t, listOfString.IsSubtype(listOfInt))

	head, ok := listOfString.Field("head")
	require.True(t, ok)
	assert.Same(t, r.String(), head.Type)
	assert.True(t, head.Modifiers.IsNullable())

	get, ok := listOfString.MatchingMethod("get", NewSequenceType(r.Int()))
	require.True(t, ok)
	assert.Same(t, r.String(), get.Returns.At(0).Type)
	assert.Same(t, listOfString, get.Outer)

	assert.Same(t, z.list, listOfString.Generic())
	assert.Equal(t, []*TypeParameter{z.elem}, listOfString.TypeParameters())
	assert.True(t, listOfString.IsParameterized())
	assert.True(t, listOfString.IsFullyInstantiated())
	assert.False(t, z.list.IsFullyInstantiated())

	listOfT, err := z.list.Instantiate(z.elem)
	require.NoError(t, err)
	assert.False(t, listOfT.IsFullyInstantiated())
}

func TestInstantiateChecksArgumentsAndBounds(t *testing.T) {
	r := NewRegistry()
	sorted := NewClassType("Sorted", "coll", KindClass, Public, nil)
	p := NewTypeParameter("T")
	require.NoError(t, sorted.AddTypeParameter(p))
	bound, err := r.CanCompare().Instantiate(p)
	require.NoError(t, err)
	require.NoError(t, p.AddBound(bound))
	require.NoError(t, r.Declare(sorted))

	assert.Equal(t, "T is CanCompare<T>", p.String())

	tests := []struct {
		name    string
		args    []Type
		wantErr error
	}{
		{"int_compares_to_itself", []Type{r.Int()}, nil},
		{"string_compares_to_itself", []Type{r.String()}, nil},
		{"object_is_not_comparable", []Type{r.Object()}, ErrTypeArguments},
		{"boolean_is_not_comparable", []Type{r.Boolean()}, ErrTypeArguments},
		{"too_many", []Type{r.Int(), r.Int()}, ErrTypeArguments},
		{"too_few", nil, ErrTypeArguments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sorted.Instantiate(tt.args...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = r.Object().Instantiate(r.Int())
	assert.ErrorIs(t, err, ErrNotGeneric)
}

func TestInstantiationsAreImmutable(t *testing.T) {
	z := newZoo(t)
	inst, err := z.list.Instantiate(z.r.Int())
	require.NoError(t, err)
	assert.ErrorIs(t, inst.AddField("x", ModifiedType{Type: z.r.Int()}), ErrSealed)
	assert.ErrorIs(t, z.r.Declare(inst), ErrDuplicateType)
}

func TestMatchingMethod(t *testing.T) {
	r := NewRegistry()
	c := NewClassType("Printer", "io", KindClass, Public, nil)
	require.NoError(t, c.SetExtends(r.Object()))
	require.NoError(t, c.AddMethod(NewMethodSignature("print", Public, NewSequenceType(r.Object(), r.String()), nil)))
	require.NoError(t, c.AddMethod(NewMethodSignature("print", Public, NewSequenceType(r.String(), r.Object()), nil)))
	require.NoError(t, c.AddMethod(NewMethodSignature("print", Public, NewSequenceType(r.Int()), nil)))

	_, ok := c.MatchingMethod("print", NewSequenceType(r.String(), r.String()))
	assert.False(t, ok, "two equally specific overloads are ambiguous")

	m, ok := c.MatchingMethod("print", NewSequenceType(r.Object(), r.String()))
	require.True(t, ok)
	assert.Same(t, r.Object(), m.Params.At(0).Type)

	m, ok = c.MatchingMethod("print", NewSequenceType(r.Null(), r.Object()))
	require.True(t, ok)
	assert.Same(t, r.String(), m.Params.At(0).Type)

	_, ok = c.MatchingMethod("print", NewSequenceType(r.Long()))
	assert.False(t, ok)

	require.NoError(t, c.AddMethod(NewMethodSignature("print", Public, NewSequenceType(r.String(), r.String()), nil)))
	m, ok = c.MatchingMethod("print", NewSequenceType(r.String(), r.String()))
	require.True(t, ok, "an exact match wins over ambiguity")
	assert.Same(t, r.String(), m.Params.At(1).Type)
}

func TestMethodSignature(t *testing.T) {
	z := newZoo(t)
	r := z.r
	bark := z.dog.MethodsNamed("bark")
	require.Len(t, bark, 1)
	m := bark[0]
	assert.Same(t, z.dog, m.Outer)
	assert.Equal(t, 1, m.FullParams().Len(), "the receiver is prepended")
	assert.Equal(t, 0, m.Params.Len())

	static := NewMethodSignature("make", Public, nil, NewSequenceType(z.dog))
	static.Static = true
	require.NoError(t, z.dog.AddMethod(static))
	assert.Equal(t, 0, static.FullParams().Len())

	mt := m.Type()
	assert.Equal(t, KindMethod, mt.Kind())
	assert.Equal(t, "() => (String)", mt.Name())

	covariant := NewMethodSignature("bark", Public, nil, NewSequenceType(r.String())).Type()
	widened := NewMethodSignature("bark", Public, nil, NewSequenceType(r.Object())).Type()
	assert.True(t, covariant.IsSubtype(widened))
	assert.False(t, widened.IsSubtype(covariant))
}

func TestPropertyType(t *testing.T) {
	r := NewRegistry()
	getter := NewMethodSignature("size", Public|Get, nil, NewSequenceType(r.Int()))
	prop := &PropertyType{Getter: getter}
	assert.Same(t, r.Int(), prop.GetType().Type)
	assert.Equal(t, "property int", prop.Name())
}

func TestRegistryDeclareAndLookup(t *testing.T) {
	z := newZoo(t)
	r := z.r

	got, ok := r.Lookup("zoo", "Dog")
	require.True(t, ok)
	assert.Same(t, z.dog, got)

	got, ok = r.LookupQualified("zoo@Animal")
	require.True(t, ok)
	assert.Same(t, z.animal, got)

	got, ok = r.Lookup("anywhere", "int")
	require.True(t, ok)
	assert.Same(t, r.Int(), got)

	_, ok = r.Lookup("other", "Dog")
	assert.False(t, ok)

	err := r.Declare(NewClassType("Dog", "zoo", KindClass, 0, nil))
	assert.ErrorIs(t, err, ErrDuplicateType)

	assert.Equal(t, []string{StandardPackage, "zoo"}, r.Packages())
	declared := r.Declared()
	require.NotEmpty(t, declared)
	assert.Same(t, r.Object(), declared[0])
	assert.Same(t, z.list, declared[len(declared)-1])
}

func TestRegistryFreeze(t *testing.T) {
	z := newZoo(t)
	r := z.r
	require.False(t, r.Frozen())
	r.Freeze()
	r.Freeze()
	require.True(t, r.Frozen())

	assert.ErrorIs(t, r.Declare(NewClassType("Cat", "zoo", KindClass, 0, nil)), ErrRegistryFrozen)
	assert.ErrorIs(t, z.dog.AddField("age", ModifiedType{Type: r.Int()}), ErrSealed)
	assert.ErrorIs(t, z.dog.SetExtends(r.Object()), ErrSealed)
	assert.ErrorIs(t, r.Int().AddMethod(NewMethodSignature("abs", Public, nil, nil)), ErrSealed)
	assert.ErrorIs(t, z.elem.AddBound(r.Object()), ErrSealed)

	// Reads still work.
	inst, err := z.list.Instantiate(z.dog)
	require.NoError(t, err)
	assert.Equal(t, "zoo@List<Dog>", inst.QualifiedName())
}
