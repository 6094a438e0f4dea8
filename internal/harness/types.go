package harness

import "fmt"

// JudgmentOutcome records one evaluated judgment.
type JudgmentOutcome struct {
	Index  int    `json:"index"`
	Query  string `json:"query"`
	Expect bool   `json:"expect"`
	Got    bool   `json:"got"`
}

// Passed reports whether the judgment matched its expectation.
func (o JudgmentOutcome) Passed() bool { return o.Expect == o.Got }

// Result contains the outcome of running a scenario.
type Result struct {
	// Pass is true if every judgment, the program and all assertions passed.
	Pass bool

	// Judgments holds one outcome per scenario judgment.
	Judgments []JudgmentOutcome

	// Unit is the name of the program's node list.
	Unit string

	// Dump is the rendered program, empty when construction failed.
	Dump string

	// ErrorCode is the code of the construction or verification error.
	ErrorCode string

	// Nodes counts the program's nodes by kind name.
	Nodes map[string]int

	// PhisSettled is the number of phis resolution settled.
	PhisSettled int

	// Errors collects failure descriptions.
	Errors []string
}

// NewResult creates a Result in the passing state.
func NewResult() *Result {
	return &Result{Pass: true, Nodes: map[string]int{}}
}

// AddError marks the result failed and records the message.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
