package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioNotFoundError is returned when a requested scenario name is not
// present in a scenario directory.
type ScenarioNotFoundError struct {
	Name string
	Dir  string
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q not found in %s", e.Name, e.Dir)
}

// ScenarioFailure describes one failed or broken scenario.
type ScenarioFailure struct {
	Path   string
	Name   string
	Errors []string
}

// SuiteResult summarizes a directory run.
type SuiteResult struct {
	Passed   int
	Failed   int
	Failures []ScenarioFailure
}

// OK reports whether every scenario passed.
func (s *SuiteResult) OK() bool { return s.Failed == 0 }

// Discover returns the scenario files under dir, sorted by path. Files
// ending in .yaml or .yml are scenarios; directories named testdata are
// skipped.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && d.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover scenarios in %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// RunDir runs every scenario under dir. When names is non-empty only the
// named scenarios run, and a name with no scenario is an error.
func RunDir(dir string, names []string, opts ...Option) (*SuiteResult, error) {
	paths, err := Discover(dir)
	if err != nil {
		return nil, err
	}

	want := map[string]bool{}
	for _, n := range names {
		want[n] = false
	}

	suite := &SuiteResult{}
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{Path: path, Errors: []string{err.Error()}})
			continue
		}
		if len(names) > 0 {
			if _, ok := want[scenario.Name]; !ok {
				continue
			}
			want[scenario.Name] = true
		}

		result, err := Run(scenario, opts...)
		switch {
		case err != nil:
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{Path: path, Name: scenario.Name, Errors: []string{err.Error()}})
		case !result.Pass:
			suite.Failed++
			suite.Failures = append(suite.Failures, ScenarioFailure{Path: path, Name: scenario.Name, Errors: result.Errors})
		default:
			suite.Passed++
		}
	}

	for _, n := range names {
		if !want[n] {
			return suite, &ScenarioNotFoundError{Name: n, Dir: dir}
		}
	}
	return suite, nil
}

// Summary renders a one-line summary followed by each failure.
func (s *SuiteResult) Summary() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%d passed, %d failed\n", s.Passed, s.Failed)
	for _, f := range s.Failures {
		name := f.Name
		if name == "" {
			name = filepath.Base(f.Path)
		}
		fmt.Fprintf(&buf, "FAIL %s (%s)\n", name, f.Path)
		for _, e := range f.Errors {
			fmt.Fprintf(&buf, "  %s\n", e)
		}
	}
	return buf.String()
}
