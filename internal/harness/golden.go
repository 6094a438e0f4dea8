package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/shadow-language/shadowc/internal/canon"
)

// Snapshot captures the observable outcome of a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Empty parts are omitted.
func (s *Snapshot) toCanonicalMap() map[string]any {
	m := map[string]any{
		"scenario_name": s.ScenarioName,
		"pass":          s.Result.Pass,
	}
	if len(s.Result.Judgments) > 0 {
		judgments := make([]any, len(s.Result.Judgments))
		for i, j := range s.Result.Judgments {
			judgments[i] = map[string]any{
				"query":  j.Query,
				"expect": j.Expect,
				"got":    j.Got,
			}
		}
		m["judgments"] = judgments
	}
	if s.Result.Dump != "" {
		m["dump"] = s.Result.Dump
		m["phis_settled"] = s.Result.PhisSettled
	}
	if s.Result.ErrorCode != "" {
		m["error_code"] = s.Result.ErrorCode
	}
	return m
}

// Canonical returns the canonical JSON of the snapshot.
func (s *Snapshot) Canonical() ([]byte, error) {
	return canon.Marshal(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the result against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the result doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Result: result}
	data, err := snapshot.Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
