package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codes(errs []ValidationError) []string {
	return Errors(errs).Codes()
}

func TestValidateAcceptsWellFormedSet(t *testing.T) {
	set := &Set{Classes: []Class{
		{
			Package: "shadow:test", Name: "Box", Kind: "class",
			Modifiers:      []string{"public", "final"},
			TypeParameters: []TypeParameter{{Name: "T"}},
			Fields:         []Field{{Name: "value", Type: "T", Modifiers: []string{"nullable"}}},
			Methods:        []Method{{Name: "get", Returns: []Param{{Type: "T"}}}},
		},
		{Package: "shadow:test", Name: "Shape", Kind: "interface"},
	}}
	assert.Empty(t, Validate(set))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	tests := []struct {
		name  string
		class Class
		want  []string
	}{
		{"unknown kind", Class{Package: "p", Name: "C", Kind: "struct"}, []string{ErrUnknownKind}},
		{"method kind", Class{Package: "p", Name: "C", Kind: "method"}, []string{ErrUnknownKind}},
		{"bad class name", Class{Package: "p", Name: "9C", Kind: "class"}, []string{ErrBadIdentifier}},
		{"bad package", Class{Package: "p::q", Name: "C", Kind: "class"}, []string{ErrBadIdentifier}},
		{"unknown modifier", Class{Package: "p", Name: "C", Kind: "class", Modifiers: []string{"sealed"}}, []string{ErrUnknownModifier}},
		{
			"duplicate type parameter",
			Class{Package: "p", Name: "C", Kind: "class", TypeParameters: []TypeParameter{{Name: "T"}, {Name: "T"}}},
			[]string{ErrDuplicate},
		},
		{
			"duplicate field and bad modifier",
			Class{Package: "p", Name: "C", Kind: "class", Fields: []Field{
				{Name: "x", Type: "int"},
				{Name: "x", Type: "int", Modifiers: []string{"volatile"}},
			}},
			[]string{ErrDuplicate, ErrUnknownModifier},
		},
		{
			"bad parameter name",
			Class{Package: "p", Name: "C", Kind: "class", Methods: []Method{
				{Name: "m", Params: []Param{{Name: "a b", Type: "int"}}},
			}},
			[]string{ErrBadIdentifier},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&Set{Classes: []Class{tt.class}})
			assert.Equal(t, tt.want, codes(errs))
		})
	}
}

func TestValidateDuplicateClasses(t *testing.T) {
	set := &Set{Classes: []Class{
		{Package: "p", Name: "C", Kind: "class"},
		{Package: "p", Name: "C", Kind: "class"},
		{Package: "q", Name: "C", Kind: "class"},
	}}
	errs := Validate(set)
	assert.Equal(t, []string{ErrDuplicate}, codes(errs))
	assert.Equal(t, "p@C", errs[0].Field)
}

func TestValidateInheritanceCycles(t *testing.T) {
	set := &Set{Classes: []Class{
		{Package: "bank", Name: "A", Kind: "class", Extends: "B"},
		{Package: "bank", Name: "B", Kind: "class", Extends: "bank@A"},
		{Package: "bank", Name: "C", Kind: "interface", Implements: []string{"C<int>"}},
		{Package: "bank", Name: "D", Kind: "class", Extends: "A", Implements: []string{"Missing"}},
	}}
	errs := Validate(set)
	assert.Equal(t, []string{ErrInheritanceCycle, ErrInheritanceCycle}, codes(errs))
	assert.Equal(t, "inheritance cycle: bank@A -> bank@B -> bank@A", errs[0].Message)
	assert.Equal(t, "inheritance cycle: bank@C -> bank@C", errs[1].Message)
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "p@C.kind", Message: `unknown kind "struct"`, Code: ErrUnknownKind}
	assert.Equal(t, `[E201] p@C.kind: unknown kind "struct"`, e.Error())

	e.Line = 4
	assert.Equal(t, `[E201] line 4: p@C.kind: unknown kind "struct"`, e.Error())

	errs := Errors{e, {Field: "p@D", Message: "class declared twice", Code: ErrDuplicate}}
	assert.Equal(t, "[E201] line 4: p@C.kind: unknown kind \"struct\"\n[E202] p@D: class declared twice", errs.Error())
}

func TestIdentifiers(t *testing.T) {
	for _, ok := range []string{"x", "_x", "Caf\u00e9", "a1"} {
		assert.True(t, isIdentifier(ok), ok)
	}
	for _, bad := range []string{"", "1a", "a-b", "a.b"} {
		assert.False(t, isIdentifier(bad), bad)
	}
	for _, ok := range []string{"bank", "shadow:standard", "bank.accounts"} {
		assert.True(t, isPackageName(ok), ok)
	}
	for _, bad := range []string{":x", "x:", "a..b", "a:1b"} {
		assert.False(t, isPackageName(bad), bad)
	}
}
