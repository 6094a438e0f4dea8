package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// BankDecls declares bank@Account with a balance and deposit method,
// bank@Savings extending it, and the bank@Overdrawn exception.
const BankDecls = `package bank

packages: bank: {
	Account: {
		fields: balance: {type: "long"}
		methods: deposit: {params: [{name: "amount", type: "long"}], returns: [{type: "long"}]}
	}
	Savings: {
		extends: "Account"
	}
	Overdrawn: {
		kind: "exception"
	}
}
`

// WriteFile writes content to dir/name, creating parent directories, and
// returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// DeclDir writes each source into a fresh directory and returns it.
// Keys are file names.
func DeclDir(t testing.TB, sources map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range sources {
		WriteFile(t, dir, name, src)
	}
	return dir
}
