package cli

import (
	"errors"
	"log/slog"

	"github.com/shadow-language/shadowc/internal/decl"
	"github.com/shadow-language/shadowc/internal/types"
)

// loadDeclarations loads every dir into reg, in order, and merges the sets.
// Later directories may refer to classes of earlier ones. Problems from all
// directories are collected; a non-nil error means a directory could not
// be read at all.
func loadDeclarations(dirs []string, reg *types.Registry, logger *slog.Logger) (*decl.Set, []decl.ValidationError, error) {
	merged := &decl.Set{}
	var problems []decl.ValidationError
	for _, dir := range dirs {
		set, err := decl.Load(dir, reg, decl.WithLogger(logger))
		if set != nil {
			merged.Classes = append(merged.Classes, set.Classes...)
		}
		if err == nil {
			continue
		}
		var errs decl.Errors
		var compileErr *decl.CompileError
		switch {
		case errors.As(err, &errs):
			problems = append(problems, errs...)
		case errors.As(err, &compileErr):
			ve := decl.ValidationError{Field: compileErr.Field, Message: compileErr.Message, Code: decl.ErrSchema, Pos: compileErr.Pos}
			if compileErr.Pos.IsValid() {
				ve.Line = compileErr.Pos.Line()
			}
			problems = append(problems, ve)
		default:
			return nil, nil, err
		}
	}
	return merged, problems, nil
}
