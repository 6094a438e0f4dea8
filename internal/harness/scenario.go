package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Package is the package unqualified type names resolve in.
	// Defaults to DefaultPackage.
	Package string `yaml:"package,omitempty"`

	// Decls lists CUE declaration directories loaded before anything runs.
	// Paths are relative to the scenario file location.
	Decls []string `yaml:"decls,omitempty"`

	// Judgments are type-model queries with expected answers.
	Judgments []Judgment `yaml:"judgments,omitempty"`

	// Program is an optional TAC unit to build.
	Program *Program `yaml:"program,omitempty"`

	// Assertions validate the built program.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// DefaultPackage is used when a scenario names no package.
const DefaultPackage = "harness"

// Judgment is one type-model query.
type Judgment struct {
	Op       string   `yaml:"op"`
	Left     string   `yaml:"left,omitempty"`
	Right    string   `yaml:"right,omitempty"`
	Declared []string `yaml:"declared,omitempty"`
	Args     []string `yaml:"args,omitempty"`
	Expect   bool     `yaml:"expect"`
}

// Judgment operations.
const (
	JudgeSubtype            = "subtype"
	JudgeStrictSubtype      = "strict_subtype"
	JudgeEqual              = "equal"
	JudgeSamePackageAndName = "same_package_and_name"
	JudgeCanAccept          = "can_accept"
	JudgeMatches            = "matches"
)

// Program describes one TAC unit. Either Class and Method name a declared
// method, or Params and Returns describe a free-standing one.
type Program struct {
	Name        string   `yaml:"name,omitempty"`
	Class       string   `yaml:"class,omitempty"`
	Method      string   `yaml:"method,omitempty"`
	Params      []Var    `yaml:"params,omitempty"`
	Returns     []string `yaml:"returns,omitempty"`
	Locals      []Var    `yaml:"locals,omitempty"`
	Steps       []Step   `yaml:"steps"`
	ExpectError string   `yaml:"expect_error,omitempty"`
}

// Var declares a parameter or local variable.
type Var struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Modifiers []string `yaml:"modifiers,omitempty"`
}

// Step is one builder call. Args and Incoming values name earlier steps by
// their As; Label and Targets name labels, created on first use.
type Step struct {
	Op       string     `yaml:"op"`
	As       string     `yaml:"as,omitempty"`
	Type     string     `yaml:"type,omitempty"`
	Value    string     `yaml:"value,omitempty"`
	Args     []string   `yaml:"args,omitempty"`
	Operator string     `yaml:"operator,omitempty"`
	Cast     string     `yaml:"cast,omitempty"`
	Label    string     `yaml:"label,omitempty"`
	Targets  []string   `yaml:"targets,omitempty"`
	Field    string     `yaml:"field,omitempty"`
	Method   string     `yaml:"method,omitempty"`
	Var      string     `yaml:"var,omitempty"`
	Index    int        `yaml:"index,omitempty"`
	Incoming []Incoming `yaml:"incoming,omitempty"`
}

// Incoming is one phi input.
type Incoming struct {
	Value string `yaml:"value"`
	From  string `yaml:"from"`
}

// Assertion validates the built program.
type Assertion struct {
	// Type specifies the assertion type:
	// - "dump_contains": the dump contains Text
	// - "node_count": exactly Count nodes of Kind
	// - "phis_settled": exactly Count phis settled during resolution
	Type  string `yaml:"type"`
	Text  string `yaml:"text,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertDumpContains = "dump_contains"
	AssertNodeCount    = "node_count"
	AssertPhisSettled  = "phis_settled"
)

// LoadScenario reads and parses a scenario YAML file. Decl paths are
// resolved relative to the file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	for i, dir := range s.Decls {
		if !filepath.IsAbs(dir) {
			s.Decls[i] = filepath.Join(base, dir)
		}
	}
	return s, nil
}

// ParseScenario parses scenario YAML. Decl paths are left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "judgement:" vs "judgments:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if scenario.Package == "" {
		scenario.Package = DefaultPackage
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Judgments) == 0 && s.Program == nil {
		return fmt.Errorf("judgments or program is required")
	}

	for i, j := range s.Judgments {
		switch j.Op {
		case JudgeSubtype, JudgeStrictSubtype, JudgeEqual, JudgeSamePackageAndName:
			if j.Left == "" || j.Right == "" {
				return fmt.Errorf("judgment[%d]: %s needs left and right", i, j.Op)
			}
		case JudgeCanAccept, JudgeMatches:
			if j.Left != "" || j.Right != "" {
				return fmt.Errorf("judgment[%d]: %s takes declared and args, not left and right", i, j.Op)
			}
		default:
			return fmt.Errorf("judgment[%d]: unknown op %q", i, j.Op)
		}
	}

	if s.Program != nil {
		if err := validateProgram(s.Program); err != nil {
			return fmt.Errorf("program: %w", err)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertDumpContains, AssertNodeCount, AssertPhisSettled:
		default:
			return fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if s.Program == nil {
			return fmt.Errorf("assertion[%d]: assertions need a program", i)
		}
	}
	return nil
}

func validateProgram(p *Program) error {
	if (p.Class == "") != (p.Method == "") {
		return fmt.Errorf("class and method must be given together")
	}
	if p.Class != "" && (len(p.Params) > 0 || len(p.Returns) > 0) {
		return fmt.Errorf("params and returns come from the declared method")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	names := map[string]bool{}
	for i, st := range p.Steps {
		if _, ok := stepOps[st.Op]; !ok {
			return fmt.Errorf("step[%d]: unknown op %q", i, st.Op)
		}
		if st.As == "" {
			continue
		}
		if names[st.As] {
			return fmt.Errorf("step[%d]: %q already names an earlier step", i, st.As)
		}
		names[st.As] = true
	}
	return nil
}
