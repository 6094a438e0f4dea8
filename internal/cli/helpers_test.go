package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/testutil"
)

const depositScenario = `name: deposit
package: bank
decls: [decls]
program:
  name: deposit
  class: Account
  method: deposit
  steps:
    - {op: label, label: entry}
    - {op: parameter, index: 0, as: self}
    - {op: parameter, index: 1, as: amount}
    - {op: field_load, args: [self], field: balance, as: bal}
    - {op: binary, operator: "+", args: [bal, amount], as: sum}
    - {op: field_store, args: [self, sum], field: balance}
    - {op: return, args: [sum]}
`

const depositDump = `unit deposit Account.deposit(long) => (long)
L1(entry):
  %2 = parameter 0 : Account
  %3 = parameter 1 : long
  %4 = load %2.balance : long
  %5 = binary %4 + %3 : long
  store %2.balance, %5
  return %5
`

const badOperandScenario = `name: bad_operand
program:
  params: [{name: x, type: int}]
  returns: [boolean]
  steps:
    - {op: parameter, index: 0, as: x}
    - {op: not, args: [x], as: n}
    - {op: return, args: [n]}
`

// project lays out a scenarios directory with bank declarations and a
// shadow.toml pointing at it. It returns the project dir and config path.
func project(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "scenarios/decls/bank.cue", testutil.BankDecls)
	testutil.WriteFile(t, dir, "scenarios/deposit.yaml", depositScenario)
	cfg := testutil.WriteFile(t, dir, "shadow.toml", `[types]
package = "bank"
decls = ["scenarios/decls"]

[build]
cache = "cache.db"

[log]
level = "error"

[harness]
scenarios = "scenarios"
`)
	return dir, cfg
}

// execute runs the root command and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data payload of a JSON response.
func decodeData(t *testing.T, out string, v any) string {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return resp.Status
}
