package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceCanAccept(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		name     string
		declared *SequenceType
		args     *SequenceType
		want     bool
	}{
		{"empty", NewSequenceType(), NewSequenceType(), true},
		{"exact", NewSequenceType(r.Int(), r.String()), NewSequenceType(r.Int(), r.String()), true},
		{"subtype_arg", NewSequenceType(r.Object()), NewSequenceType(r.String()), true},
		{"null_arg", NewSequenceType(r.String()), NewSequenceType(r.Null()), true},
		{"arity_short", NewSequenceType(r.Int(), r.Int()), NewSequenceType(r.Int()), false},
		{"arity_long", NewSequenceType(r.Int()), NewSequenceType(r.Int(), r.Int()), false},
		{"supertype_arg", NewSequenceType(r.String()), NewSequenceType(r.Object()), false},
		{"order_matters", NewSequenceType(r.Int(), r.String()), NewSequenceType(r.String(), r.Int()), false},
		{"nil_args", NewSequenceType(), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.declared.CanAccept(tt.args))
		})
	}
}

func TestSequenceRejectsUndeclaredWidening(t *testing.T) {
	r := NewRegistry()
	declared := NewSequenceOf(ModifiedType{Type: r.Int()})
	args := NewSequenceOf(ModifiedType{Type: r.Long()})
	require.False(t, r.Long().IsSubtype(r.Int()))
	assert.False(t, declared.CanAccept(args))
}

func TestSequenceMatchesIsStrongerThanCanAccept(t *testing.T) {
	r := NewRegistry()
	declared := NewSequenceOf(
		ModifiedType{Type: r.Object()},
		ModifiedType{Type: r.String(), Modifiers: Nullable},
	)

	same := NewSequenceOf(
		ModifiedType{Type: r.Object()},
		ModifiedType{Type: r.String(), Modifiers: Nullable},
	)
	assert.True(t, declared.Matches(same))
	assert.True(t, declared.CanAccept(same))

	subtyped := NewSequenceOf(
		ModifiedType{Type: r.String()},
		ModifiedType{Type: r.String(), Modifiers: Nullable},
	)
	assert.False(t, declared.Matches(subtyped))
	assert.True(t, declared.CanAccept(subtyped))

	modifierDiff := NewSequenceOf(
		ModifiedType{Type: r.Object()},
		ModifiedType{Type: r.String()},
	)
	assert.False(t, declared.Matches(modifierDiff))
	assert.True(t, declared.CanAccept(modifierDiff))

	for _, candidate := range []*SequenceType{same, subtyped, modifierDiff} {
		if declared.Matches(candidate) {
			assert.True(t, declared.CanAccept(candidate))
		}
	}
}

func TestSequenceMatchesNullables(t *testing.T) {
	r := NewRegistry()
	declared := NewSequenceOf(
		ModifiedType{Type: r.String()},
		ModifiedType{Type: r.String(), Modifiers: Nullable},
	)
	tests := []struct {
		name string
		mods [2]Modifiers
		want bool
	}{
		{"both_non_null", [2]Modifiers{0, 0}, true},
		{"nullable_where_allowed", [2]Modifiers{0, Nullable}, true},
		{"nullable_where_forbidden", [2]Modifiers{Nullable, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := NewSequenceOf(
				ModifiedType{Type: r.String(), Modifiers: tt.mods[0]},
				ModifiedType{Type: r.String(), Modifiers: tt.mods[1]},
			)
			assert.Equal(t, tt.want, declared.MatchesNullables(candidate))
		})
	}
	assert.False(t, declared.MatchesNullables(NewSequenceType(r.String())))
}

func TestSequenceName(t *testing.T) {
	r := NewRegistry()
	s := NewSequenceOf(
		ModifiedType{Type: r.Int(), Modifiers: Final | Nullable},
		ModifiedType{Type: r.String()},
	)
	assert.Equal(t, "(final nullable int,String)", s.Name())
	assert.Equal(t, "()", NewSequenceType().Name())
}

func TestSequenceListOperations(t *testing.T) {
	r := NewRegistry()
	s := NewSequenceType(r.Int())
	s.Append(r.String(), Nullable)
	s.Insert(0, ModifiedType{Type: r.Boolean()})
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "(boolean,int,nullable String)", s.Name())

	old := s.Set(1, ModifiedType{Type: r.Long(), Modifiers: Final})
	assert.Same(t, r.Int(), old.Type)
	assert.Equal(t, "(boolean,final long,nullable String)", s.String())

	assert.Equal(t, 2, s.IndexOf(r.String()))
	assert.Equal(t, -1, s.IndexOf(r.Double()))

	removed := s.Remove(0)
	assert.Same(t, r.Boolean(), removed.Type)
	assert.Equal(t, 2, s.Len())

	sub := s.Slice(1, 2)
	assert.Equal(t, "(nullable String)", sub.Name())

	var seen []string
	for i, m := range s.All() {
		seen = append(seen, m.Type.Name())
		assert.Equal(t, s.At(i), m)
	}
	assert.Equal(t, []string{"long", "String"}, seen)

	s.Clear()
	assert.True(t, s.IsEmpty())
}

func TestSequenceNodeTypeCollapse(t *testing.T) {
	r := NewRegistry()

	single := NewSequenceOf(ModifiedType{Type: r.String(), Modifiers: Nullable})
	got := single.NodeType()
	assert.Same(t, r.String(), got.Type)
	assert.True(t, got.Modifiers.IsNullable())

	pair := NewSequenceType(r.Int(), r.Int())
	assert.Same(t, pair, pair.NodeType().Type)

	empty := NewSequenceType()
	assert.Same(t, empty, empty.NodeType().Type)
}

func TestSequenceEquality(t *testing.T) {
	r := NewRegistry()
	a := NewSequenceType(r.Int(), r.String())
	b := NewSequenceType(r.Int(), r.String())
	c := NewSequenceType(r.Int())
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.Equal(t, KindSequence, a.Kind())
	assert.True(t, NewSequenceType(r.String()).IsSubtype(NewSequenceType(r.Object())))
	assert.False(t, NewSequenceType(r.Object()).IsSubtype(NewSequenceType(r.String())))
}
