package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalScalarsAndContainers(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"uint32", uint32(7), "7"},
		{"bool", true, "true"},
		{"strings", []string{"b", "a"}, `["b","a"]`},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"nested", map[string]any{"z": []any{1, "x"}, "a": false}, `{"a":false,"z":[1,"x"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestMarshalSortsKeysByUTF16(t *testing.T) {
	obj := map[string]any{
		"\ue000":     1,
		"\U00010000": 2,
	}
	got, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\ue000\":1}", string(got))
}

func TestMarshalRejects(t *testing.T) {
	for name, v := range map[string]any{
		"null":        nil,
		"float":       1.5,
		"nested null": map[string]any{"a": []any{nil}},
		"struct":      struct{}{},
	} {
		_, err := Marshal(v)
		assert.Error(t, err, name)
	}
}

func TestMarshalStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no html escaping", "List<T> & more", `"List<T> & more"`},
		{"nfc", "e\u0301", "\"\u00e9\""},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
		{"literal backslash u2028", `a\u2028`, `"a\\u2028"`},
		{"control", "a\nb", `"a\nb"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestHashDomainsSeparate(t *testing.T) {
	a, err := Hash(DomainDecls, map[string]any{"x": 1})
	require.NoError(t, err)
	b, err := Hash(DomainTAC, map[string]any{"x": 1})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 64)

	again, err := Hash(DomainDecls, map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, a, again)

	assert.NotEqual(t, HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc")))
	assert.Equal(t, HashWithDomain(DomainTAC, []byte("unit x\n")), HashText(DomainTAC, "unit x\n"))

	_, err = Hash(DomainDecls, 1.5)
	assert.Error(t, err)
}
