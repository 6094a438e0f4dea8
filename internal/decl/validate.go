package decl

import (
	"fmt"
	"strings"
	"unicode"

	"cuelang.org/go/cue/token"

	"github.com/shadow-language/shadowc/internal/types"
)

// Declaration error codes (E200-E299)
const (
	ErrSchema = "E200" // value does not fit the schema or cannot be declared

	// Structural errors, reported by Validate
	ErrUnknownKind     = "E201" // kind is not a declaration keyword
	ErrDuplicate       = "E202" // duplicate class, field or type parameter
	ErrBadIdentifier   = "E203" // name is not an identifier
	ErrUnknownModifier = "E204" // modifier is not a keyword

	// Resolution errors, reported by Declare
	ErrMalformedType    = "E205" // type name does not parse
	ErrUnknownTypeName  = "E206" // type name does not resolve
	ErrTypeArgCount     = "E207" // wrong number of type arguments
	ErrInheritanceCycle = "E208" // class reaches itself through its supertypes
	ErrIllegalSupertype = "E209" // extends an interface, implements a class, etc.
)

// ValidationError is one problem with a declaration.
type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    string    `json:"code"`
	Line    int       `json:"line,omitempty"`
	Pos     token.Pos `json:"-"`
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

func newError(code, field string, pos token.Pos, format string, args ...any) ValidationError {
	e := ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code, Pos: pos}
	if pos.IsValid() {
		e.Line = pos.Line()
	}
	return e
}

// Errors is every problem found by one stage.
type Errors []ValidationError

func (e Errors) Error() string {
	lines := make([]string, len(e))
	for i, ve := range e {
		lines[i] = ve.Error()
	}
	return strings.Join(lines, "\n")
}

// Codes lists the code of each error, in order.
func (e Errors) Codes() []string {
	codes := make([]string, len(e))
	for i, ve := range e {
		codes[i] = ve.Code
	}
	return codes
}

// Validate checks a set without consulting a registry.
// Returns all errors found (does not fail-fast).
func Validate(set *Set) []ValidationError {
	var errs []ValidationError
	seen := map[string]bool{}
	for i := range set.Classes {
		c := &set.Classes[i]
		key := c.QualifiedName()
		if seen[key] {
			errs = append(errs, newError(ErrDuplicate, key, c.Pos, "class declared twice"))
		}
		seen[key] = true
		errs = append(errs, validateClass(c)...)
	}
	errs = append(errs, checkInheritanceCycles(set)...)
	return errs
}

func validateClass(c *Class) []ValidationError {
	var errs []ValidationError
	key := c.QualifiedName()

	if c.Package != "" && !isPackageName(c.Package) {
		errs = append(errs, newError(ErrBadIdentifier, key, c.Pos, "package %q is not a package name", c.Package))
	}
	if !isIdentifier(c.Name) {
		errs = append(errs, newError(ErrBadIdentifier, key, c.Pos, "class name %q is not an identifier", c.Name))
	}
	if k, ok := types.ParseKind(c.Kind); !ok || k == types.KindMethod || k == types.KindSequence {
		errs = append(errs, newError(ErrUnknownKind, key+".kind", c.Pos, "unknown kind %q", c.Kind))
	}
	errs = append(errs, checkModifiers(key+".modifiers", c.Pos, c.Modifiers)...)

	params := map[string]bool{}
	for _, tp := range c.TypeParameters {
		field := key + ".typeParameters." + tp.Name
		if !isIdentifier(tp.Name) {
			errs = append(errs, newError(ErrBadIdentifier, field, c.Pos, "type parameter %q is not an identifier", tp.Name))
		}
		if params[tp.Name] {
			errs = append(errs, newError(ErrDuplicate, field, c.Pos, "type parameter declared twice"))
		}
		params[tp.Name] = true
	}

	fields := map[string]bool{}
	for _, f := range c.Fields {
		field := key + ".fields." + f.Name
		if !isIdentifier(f.Name) {
			errs = append(errs, newError(ErrBadIdentifier, field, f.Pos, "field name %q is not an identifier", f.Name))
		}
		if fields[f.Name] {
			errs = append(errs, newError(ErrDuplicate, field, f.Pos, "field declared twice"))
		}
		fields[f.Name] = true
		errs = append(errs, checkModifiers(field, f.Pos, f.Modifiers)...)
	}

	for _, m := range c.Methods {
		field := key + ".methods." + m.Name
		if !isIdentifier(m.Name) {
			errs = append(errs, newError(ErrBadIdentifier, field, m.Pos, "method name %q is not an identifier", m.Name))
		}
		errs = append(errs, checkModifiers(field, m.Pos, m.Modifiers)...)
		for _, p := range append(append([]Param{}, m.Params...), m.Returns...) {
			if p.Name != "" && !isIdentifier(p.Name) {
				errs = append(errs, newError(ErrBadIdentifier, field, m.Pos, "parameter name %q is not an identifier", p.Name))
			}
			errs = append(errs, checkModifiers(field, m.Pos, p.Modifiers)...)
		}
	}
	return errs
}

func checkModifiers(field string, pos token.Pos, mods []string) []ValidationError {
	var errs []ValidationError
	for _, m := range mods {
		if _, ok := types.ParseModifier(m); !ok {
			errs = append(errs, newError(ErrUnknownModifier, field, pos, "unknown modifier %q", m))
		}
	}
	return errs
}

// parseModifiers assumes checkModifiers found no errors.
func parseModifiers(mods []string) types.Modifiers {
	var out types.Modifiers
	for _, m := range mods {
		bit, _ := types.ParseModifier(m)
		out |= bit
	}
	return out
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// isPackageName accepts identifiers joined by ':' or '.', such as
// "shadow:standard" or "bank.accounts".
func isPackageName(s string) bool {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == '.' })
	if len(parts) == 0 || strings.HasPrefix(s, ":") || strings.HasSuffix(s, ":") ||
		strings.Contains(s, "::") || strings.Contains(s, "..") {
		return false
	}
	for _, p := range parts {
		if !isIdentifier(p) {
			return false
		}
	}
	return true
}
