package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shadow-language/shadowc/internal/decl"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSet returns a small declaration set.
func createTestSet(field string) *decl.Set {
	return &decl.Set{Classes: []decl.Class{{
		Package: "bank",
		Name:    "Account",
		Kind:    "class",
		Fields:  []decl.Field{{Name: field, Type: "long"}},
		Methods: []decl.Method{{
			Name:    "deposit",
			Params:  []decl.Param{{Type: "long"}},
			Returns: []decl.Param{{Type: "long"}},
		}},
	}}}
}
