package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shadow-language/shadowc/internal/decl"
	"github.com/shadow-language/shadowc/internal/tac"
	"github.com/shadow-language/shadowc/internal/tacdump"
	"github.com/shadow-language/shadowc/internal/types"
)

// Option configures a scenario run.
type Option func(*runner)

// WithLogger sets the logger for declaration loading and building.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) { r.logger = l }
}

type runner struct {
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh registry, so results are
// reproducible across runs.
//
// Execution flow:
// 1. Create a registry and load every decl directory into it
// 2. Freeze the registry
// 3. Evaluate each judgment
// 4. Build, verify and resolve the program, if any
// 5. Evaluate assertions against the built program
//
// A returned error means the scenario itself is broken: a decl directory
// failed to load, a type name did not resolve, or a step named a value
// that does not exist. Failures of the code under test are reported in
// the Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	r := &runner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}

	reg := types.NewRegistry(types.WithLogger(r.logger))
	for _, dir := range scenario.Decls {
		if _, err := decl.Load(dir, reg, decl.WithLogger(r.logger)); err != nil {
			return nil, fmt.Errorf("load decls %s: %w", dir, err)
		}
	}
	reg.Freeze()
	resolver := &types.Resolver{Registry: reg, Package: scenario.Package}

	result := NewResult()
	for i, j := range scenario.Judgments {
		outcome, err := evaluateJudgment(resolver, j)
		if err != nil {
			return nil, fmt.Errorf("judgment[%d]: %w", i, err)
		}
		outcome.Index = i
		result.Judgments = append(result.Judgments, outcome)
		if !outcome.Passed() {
			result.AddError("judgment[%d]: %s: want %t, got %t", i, outcome.Query, outcome.Expect, outcome.Got)
		}
	}

	if p := scenario.Program; p != nil {
		if err := r.runProgram(reg, resolver, p, result); err != nil {
			return nil, err
		}
		if result.ErrorCode == "" {
			for _, a := range scenario.Assertions {
				if err := EvaluateAssertion(result, a); err != nil {
					result.AddError("%v", err)
				}
			}
		}
	}

	r.logger.Info("scenario complete",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"judgments", len(result.Judgments),
	)
	return result, nil
}

func (r *runner) runProgram(reg *types.Registry, resolver *types.Resolver, p *Program, result *Result) error {
	list, err := newList(resolver, p)
	if err != nil {
		return err
	}
	result.Unit = list.Name
	pb := &programBuilder{
		b:        tac.NewBuilder(reg, list, tac.WithLogger(r.logger)),
		resolver: resolver,
		values:   map[string]tac.NodeID{},
		labels:   map[string]tac.LabelID{},
		vars:     map[string]tac.VariableID{},
	}

	buildErr := pb.build(p)
	var se *stepError
	if errors.As(buildErr, &se) {
		return se
	}
	if buildErr == nil {
		list, buildErr = pb.b.Finish()
	}
	if buildErr == nil {
		buildErr = tac.Verify(list)
	}

	if buildErr != nil {
		result.ErrorCode = string(tac.CodeOf(buildErr))
		if result.ErrorCode == "" {
			return fmt.Errorf("program: %w", buildErr)
		}
		if result.ErrorCode != p.ExpectError {
			result.AddError("program: %v", buildErr)
		}
		return nil
	}
	if p.ExpectError != "" {
		result.AddError("program: want error %s, built cleanly", p.ExpectError)
	}

	result.PhisSettled, _ = tac.ResolvePhis(list)
	for _, n := range list.All() {
		result.Nodes[n.Kind().String()]++
	}
	result.Dump, err = tacdump.Dump(list)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}
