package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadow-language/shadowc/internal/store"
)

// CacheOptions holds flags shared by the cache subcommands.
type CacheOptions struct {
	*RootOptions
	Path string
}

// UnitSummary describes one cached unit without its dump.
type UnitSummary struct {
	Name     string `json:"name"`
	DeclHash string `json:"decl_hash"`
	DumpHash string `json:"dump_hash"`
}

// BuildSummary describes one recorded build.
type BuildSummary struct {
	ID         string `json:"id"`
	Seq        int64  `json:"seq"`
	ConfigHash string `json:"config_hash"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the interface cache",
		Long: `Inspect builds and units recorded by "shadowc dump --cache".

The database defaults to [build] cache from shadow.toml.

Examples:
  shadowc cache builds
  shadowc cache units
  shadowc cache show Account_Mdeposit --decls 3f2a...`,
	}
	cmd.PersistentFlags().StringVar(&opts.Path, "cache", "", "cache database path")

	cmd.AddCommand(newCacheBuildsCommand(opts))
	cmd.AddCommand(newCacheUnitsCommand(opts))
	cmd.AddCommand(newCacheShowCommand(opts))
	return cmd
}

func newCacheBuildsCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "builds",
		Short:         "List recorded builds, latest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return withStore(cmd, opts, formatter, func(ctx context.Context, st *store.Store) error {
				builds, err := st.ListBuilds(ctx)
				if err != nil {
					return formatter.CommandError("E_CACHE", "failed to list builds", err)
				}
				out := make([]BuildSummary, 0, len(builds))
				for _, b := range builds {
					out = append(out, BuildSummary{ID: b.ID, Seq: b.Seq, ConfigHash: b.ConfigHash})
				}
				if formatter.Format == "json" {
					return formatter.Success(out)
				}
				if len(out) == 0 {
					fmt.Fprintln(formatter.Writer, "No builds recorded.")
					return nil
				}
				for _, b := range out {
					fmt.Fprintf(formatter.Writer, "%4d  %s  config %s\n", b.Seq, b.ID, short(b.ConfigHash))
				}
				return nil
			})
		},
	}
}

func newCacheUnitsCommand(opts *CacheOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "units [build-id]",
		Short:         "List the units of a build (default: latest)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return withStore(cmd, opts, formatter, func(ctx context.Context, st *store.Store) error {
				buildID := ""
				if len(args) == 1 {
					buildID = args[0]
				} else {
					builds, err := st.ListBuilds(ctx)
					if err != nil {
						return formatter.CommandError("E_CACHE", "failed to list builds", err)
					}
					if len(builds) == 0 {
						return formatter.CommandError("E_NOT_FOUND", "no builds recorded", nil)
					}
					buildID = builds[0].ID
				}

				units, err := st.ListUnits(ctx, buildID)
				if err != nil {
					return formatter.CommandError("E_CACHE", "failed to list units", err)
				}
				out := make([]UnitSummary, 0, len(units))
				for _, u := range units {
					out = append(out, UnitSummary{Name: u.Name, DeclHash: u.DeclHash, DumpHash: u.DumpHash})
				}
				if formatter.Format == "json" {
					return formatter.Success(out)
				}
				fmt.Fprintf(formatter.Writer, "build %s: %d unit(s)\n", buildID, len(out))
				for _, u := range out {
					fmt.Fprintf(formatter.Writer, "  %s  decls %s  dump %s\n", u.Name, short(u.DeclHash), short(u.DumpHash))
				}
				return nil
			})
		},
	}
}

func newCacheShowCommand(opts *CacheOptions) *cobra.Command {
	var declHash string
	cmd := &cobra.Command{
		Use:           "show <unit>",
		Short:         "Print the latest cached dump of a unit",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			return withStore(cmd, opts, formatter, func(ctx context.Context, st *store.Store) error {
				u, err := st.LookupUnit(ctx, args[0], declHash)
				if errors.Is(err, sql.ErrNoRows) {
					return formatter.CommandError("E_NOT_FOUND", fmt.Sprintf("no cached unit %s for declarations %s", args[0], short(declHash)), nil)
				}
				if err != nil {
					return formatter.CommandError("E_CACHE", "failed to look up unit", err)
				}
				if formatter.Format == "json" {
					return formatter.Success(DumpResult{Unit: u.Name, Dump: u.Dump, BuildID: u.BuildID, DeclHash: u.DeclHash})
				}
				fmt.Fprint(formatter.Writer, u.Dump)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&declHash, "decls", "", "declaration set hash (required)")
	_ = cmd.MarkFlagRequired("decls")
	return cmd
}

// withStore opens the cache for the duration of fn.
func withStore(cmd *cobra.Command, opts *CacheOptions, formatter *OutputFormatter, fn func(context.Context, *store.Store) error) error {
	path := opts.Path
	if path == "" {
		path = opts.config().Build.Cache
	}
	if path == "" {
		return formatter.CommandError("E_CACHE", "no cache database given or configured", nil)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	st, err := store.Open(ctx, path, store.WithLogger(opts.logger()))
	if err != nil {
		return formatter.CommandError("E_CACHE", "failed to open cache", err)
	}
	defer st.Close()
	return fn(ctx, st)
}

func short(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
