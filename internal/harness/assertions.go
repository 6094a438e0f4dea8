package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the dump to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Dump     string // Full dump for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Dump != "" {
		fmt.Fprintf(&buf, "\nFull dump:\n%s", e.Dump)
	}
	return buf.String()
}

// EvaluateAssertion checks one assertion against a built program.
func EvaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertDumpContains:
		return assertDumpContains(result, a)
	case AssertNodeCount:
		return assertNodeCount(result, a)
	case AssertPhisSettled:
		return assertPhisSettled(result, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// EvaluateAssertions checks every assertion and returns the failures.
func EvaluateAssertions(result *Result, assertions []Assertion) []error {
	var errs []error
	for _, a := range assertions {
		if err := EvaluateAssertion(result, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func assertDumpContains(result *Result, a Assertion) error {
	if strings.Contains(result.Dump, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertDumpContains,
		Expected: fmt.Sprintf("dump containing %q", a.Text),
		Actual:   "not found in dump",
		Dump:     result.Dump,
	}
}

func assertNodeCount(result *Result, a Assertion) error {
	got := result.Nodes[a.Kind]
	if got == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertNodeCount,
		Expected: fmt.Sprintf("%d %s nodes", a.Count, a.Kind),
		Actual:   fmt.Sprintf("%d %s nodes", got, a.Kind),
		Dump:     result.Dump,
	}
}

func assertPhisSettled(result *Result, a Assertion) error {
	if result.PhisSettled == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertPhisSettled,
		Expected: fmt.Sprintf("%d phis settled", a.Count),
		Actual:   fmt.Sprintf("%d phis settled", result.PhisSettled),
		Dump:     result.Dump,
	}
}
