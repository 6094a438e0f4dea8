package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shadow-language/shadowc/internal/canon"
	"github.com/shadow-language/shadowc/internal/decl"
	"github.com/shadow-language/shadowc/internal/types"
)

// ClassSummary describes one declared class.
type ClassSummary struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Extends    string   `json:"extends,omitempty"`
	Implements []string `json:"implements,omitempty"`
}

// ResolvedType is the outcome of resolving one type name.
type ResolvedType struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error,omitempty"`
}

// TypesResult holds the outcome of loading declarations.
type TypesResult struct {
	Valid    bool                   `json:"valid"`
	Hash     string                 `json:"hash,omitempty"`
	Classes  []ClassSummary         `json:"classes,omitempty"`
	Resolved []ResolvedType         `json:"resolved,omitempty"`
	Errors   []decl.ValidationError `json:"errors,omitempty"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	var resolve []string
	cmd := &cobra.Command{
		Use:   "types [decls-dir...]",
		Short: "Load and check type declarations",
		Long: `Load CUE type declarations into a fresh type registry.

Checks the declaration schema, names and modifiers, resolves every type
name, and rejects inheritance cycles. Directories default to [types] decls
from shadow.toml and load in order, so later directories may use classes
declared by earlier ones.

Exit codes:
  0 - All declarations valid
  1 - One or more declarations invalid
  2 - Command error (missing directory, CUE build failure, etc.)

Examples:
  shadowc types ./decls
  shadowc types ./std ./bank --format json
  shadowc types ./decls --resolve "Box<int>[]" --resolve Savings

--resolve names are looked up in [types] package from shadow.toml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(rootOpts, args, resolve, cmd)
		},
	}
	cmd.Flags().StringArrayVar(&resolve, "resolve", nil, "resolve a type name against the declarations (repeatable)")
	return cmd
}

func runTypes(opts *RootOptions, dirs, resolve []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	if len(dirs) == 0 {
		dirs = opts.config().Types.Decls
	}
	if len(dirs) == 0 {
		return formatter.CommandError(decl.ErrCodeNotFound, "no declaration directories given or configured", nil)
	}

	reg := types.NewRegistry(types.WithLogger(opts.logger()))
	set, problems, err := loadDeclarations(dirs, reg, opts.logger())
	if err != nil {
		return formatter.CommandError(codeOf(err), "failed to load declarations", err)
	}
	if len(problems) > 0 {
		return outputDeclarationErrors(formatter, problems)
	}
	reg.Freeze()

	hash, err := canon.Hash(canon.DomainDecls, set.Canonical())
	if err != nil {
		return formatter.CommandError(decl.ErrSchema, "failed to hash declarations", err)
	}
	result := TypesResult{Valid: true, Hash: hash}
	for _, c := range set.Classes {
		ct, ok := reg.Lookup(c.Package, c.Name)
		if !ok {
			continue
		}
		result.Classes = append(result.Classes, summarize(ct))
	}
	resolver := &types.Resolver{Registry: reg, Package: opts.config().Types.Package}
	for _, name := range resolve {
		rt := ResolvedType{Query: name}
		if t, err := resolver.Resolve(name); err != nil {
			rt.Error = err.Error()
		} else {
			rt.Type = t.QualifiedName()
		}
		result.Resolved = append(result.Resolved, rt)
	}
	formatter.VerboseLog("Declared %d class(es) from %d director(ies)", len(result.Classes), len(dirs))

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "✓ %d class(es) declared\n", len(result.Classes))
	fmt.Fprintf(w, "  hash %s\n", hash)
	for _, c := range result.Classes {
		fmt.Fprintf(w, "  %s %s", c.Kind, c.Name)
		if c.Extends != "" {
			fmt.Fprintf(w, " extends %s", c.Extends)
		}
		for i, iface := range c.Implements {
			if i == 0 {
				fmt.Fprint(w, " implements ")
			} else {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, iface)
		}
		fmt.Fprintln(w)
	}
	for _, rt := range result.Resolved {
		if rt.Error != "" {
			fmt.Fprintf(w, "  %s: %s\n", rt.Query, rt.Error)
		} else {
			fmt.Fprintf(w, "  %s => %s\n", rt.Query, rt.Type)
		}
	}
	return nil
}

func summarize(c *types.ClassType) ClassSummary {
	s := ClassSummary{Name: c.QualifiedName(), Kind: c.Kind().String()}
	if super := c.Extends(); super != nil {
		s.Extends = super.QualifiedName()
	}
	for _, iface := range c.Interfaces() {
		s.Implements = append(s.Implements, iface.QualifiedName())
	}
	return s
}

// codeOf returns the code of a load error, or the generic schema code.
func codeOf(err error) string {
	var le *decl.LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return decl.ErrSchema
}

// outputDeclarationErrors reports declaration problems.
func outputDeclarationErrors(formatter *OutputFormatter, errs []decl.ValidationError) error {
	message := fmt.Sprintf("declarations invalid with %d error(s)", len(errs))
	if formatter.Format == "json" {
		return formatter.Failure(errs[0].Code, message, TypesResult{Valid: false, Errors: errs})
	}

	fmt.Fprintln(formatter.Writer, "✗ Declarations invalid")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		if err.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d\n", err.Pos.Filename(), err.Line)
		} else if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	return formatter.Failure(errs[0].Code, message, nil)
}
