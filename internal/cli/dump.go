package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadow-language/shadowc/internal/decl"
	"github.com/shadow-language/shadowc/internal/harness"
	"github.com/shadow-language/shadowc/internal/store"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Cache string // interface cache database; empty disables caching
}

// DumpResult is the JSON payload of the dump command.
type DumpResult struct {
	Unit     string `json:"unit"`
	Dump     string `json:"dump"`
	BuildID  string `json:"build_id,omitempty"`
	DeclHash string `json:"decl_hash,omitempty"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <scenario.yaml>",
		Short: "Build a scenario program and print its TAC",
		Long: `Build the program of one scenario and print the textual TAC dump.

With --cache (or [build] cache in shadow.toml) the build is recorded in the
interface cache: the scenario's declarations are stored by content hash and
the dump is stored as a unit of a new build.

Exit codes:
  0 - Program built and printed
  1 - The program failed to build or verify
  2 - Command error (unreadable scenario, cache failure, etc.)

Examples:
  shadowc dump scenarios/deposit.yaml
  shadowc dump scenarios/deposit.yaml --cache .shadow/cache.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Cache == "" {
				opts.Cache = opts.config().Build.Cache
			}
			return runDump(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "record the build in this cache database")

	return cmd
}

func runDump(ctx context.Context, opts *DumpOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return formatter.CommandError("E_SCENARIO", "failed to load scenario", err)
	}
	if scenario.Program == nil {
		return formatter.CommandError("E_SCENARIO", fmt.Sprintf("scenario %s has no program", scenario.Name), nil)
	}

	result, err := harness.Run(scenario, harness.WithLogger(opts.logger()))
	if err != nil {
		return formatter.CommandError("E_SCENARIO", "failed to run scenario", err)
	}
	if result.ErrorCode != "" {
		message := fmt.Sprintf("unit %s did not build", result.Unit)
		if formatter.Format != "json" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", message, result.ErrorCode)
		}
		return formatter.Failure(result.ErrorCode, message, nil)
	}

	out := DumpResult{Unit: result.Unit, Dump: result.Dump}
	if opts.Cache != "" {
		if err := cacheDump(ctx, opts, scenario, &out); err != nil {
			return formatter.CommandError("E_CACHE", "failed to record build", err)
		}
		opts.logger().Info("unit cached", "unit", out.Unit, "build", out.BuildID, "decls", out.DeclHash)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}
	fmt.Fprint(formatter.Writer, out.Dump)
	return nil
}

// cacheDump records a build holding the scenario's unit.
func cacheDump(ctx context.Context, opts *DumpOptions, scenario *harness.Scenario, out *DumpResult) error {
	st, err := store.Open(ctx, opts.Cache, store.WithLogger(opts.logger()))
	if err != nil {
		return err
	}
	defer st.Close()

	cfgHash, err := opts.config().Hash()
	if err != nil {
		return err
	}
	build, err := st.BeginBuild(ctx, cfgHash)
	if err != nil {
		return err
	}

	set := &decl.Set{}
	for _, dir := range scenario.Decls {
		s, err := decl.Read(dir)
		if err != nil {
			return err
		}
		set.Classes = append(set.Classes, s.Classes...)
	}
	declHash, _, err := st.PutDeclarations(ctx, set)
	if err != nil {
		return err
	}

	if _, err := st.PutUnit(ctx, store.Unit{
		BuildID:  build.ID,
		Name:     out.Unit,
		DeclHash: declHash,
		Dump:     out.Dump,
	}); err != nil {
		return err
	}
	out.BuildID = build.ID
	out.DeclHash = declHash
	return nil
}
