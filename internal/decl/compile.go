package decl

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"golang.org/x/text/unicode/norm"
)

//go:embed schema.cue
var schemaSource string

// CompileError is a CUE value that does not fit the declaration schema.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile converts the "packages" struct of a built CUE value into a Set.
// Classes are sorted by qualified name; fields and methods keep their
// source order.
func Compile(v cue.Value) (*Set, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err, "packages")
	}
	pkgs := v.LookupPath(cue.ParsePath("packages"))
	if !pkgs.Exists() {
		return nil, &CompileError{Field: "packages", Message: "no packages declared", Pos: v.Pos()}
	}
	set := &Set{}
	pkgIter, err := pkgs.Fields()
	if err != nil {
		return nil, formatCUEError(err, "packages")
	}
	for pkgIter.Next() {
		pkg := norm.NFC.String(pkgIter.Label())
		classIter, err := pkgIter.Value().Fields()
		if err != nil {
			return nil, formatCUEError(err, "packages."+pkg)
		}
		for classIter.Next() {
			c, err := CompileClass(pkg, classIter.Label(), classIter.Value())
			if err != nil {
				return nil, err
			}
			set.Classes = append(set.Classes, *c)
		}
	}
	slices.SortStableFunc(set.Classes, func(a, b Class) int {
		return strings.Compare(a.QualifiedName(), b.QualifiedName())
	})
	return set, nil
}

// CompileClass checks one class value against the #Class schema and
// converts it.
func CompileClass(pkg, name string, v cue.Value) (*Class, error) {
	field := pkg + "@" + name
	schema := v.Context().CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("declaration schema: %w", err)
	}
	checked := schema.LookupPath(cue.ParsePath("#Class")).Unify(v)
	if err := checked.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, field)
	}

	var head struct {
		Kind           string          `json:"kind"`
		Modifiers      []string        `json:"modifiers"`
		TypeParameters []TypeParameter `json:"typeParameters"`
		Extends        string          `json:"extends"`
		Implements     []string        `json:"implements"`
	}
	if err := checked.Decode(&head); err != nil {
		return nil, formatCUEError(err, field)
	}

	c := &Class{
		Package:    pkg,
		Name:       norm.NFC.String(name),
		Kind:       head.Kind,
		Modifiers:  head.Modifiers,
		Extends:    norm.NFC.String(head.Extends),
		Implements: nfcAll(head.Implements),
		Pos:        v.Pos(),
	}
	if c.Kind == "" {
		c.Kind = "class"
	}
	for _, tp := range head.TypeParameters {
		c.TypeParameters = append(c.TypeParameters, TypeParameter{
			Name:   norm.NFC.String(tp.Name),
			Bounds: nfcAll(tp.Bounds),
		})
	}

	var err error
	if c.Fields, err = compileFields(field, v.LookupPath(cue.ParsePath("fields"))); err != nil {
		return nil, err
	}
	if c.Methods, err = compileMethods(field, v.LookupPath(cue.ParsePath("methods"))); err != nil {
		return nil, err
	}
	return c, nil
}

func compileFields(owner string, v cue.Value) ([]Field, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err, owner+".fields")
	}
	var fields []Field
	for iter.Next() {
		var p Param
		if err := iter.Value().Decode(&p); err != nil {
			return nil, formatCUEError(err, owner+".fields."+iter.Label())
		}
		fields = append(fields, Field{
			Name:      norm.NFC.String(iter.Label()),
			Type:      norm.NFC.String(p.Type),
			Modifiers: p.Modifiers,
			Pos:       iter.Value().Pos(),
		})
	}
	return fields, nil
}

// compileMethods accepts either one method body or a list of overloads
// under each name.
func compileMethods(owner string, v cue.Value) ([]Method, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(err, owner+".methods")
	}
	var methods []Method
	for iter.Next() {
		name := norm.NFC.String(iter.Label())
		mv := iter.Value()
		var bodies []Method
		if mv.Kind() == cue.ListKind {
			err = mv.Decode(&bodies)
		} else {
			var m Method
			err = mv.Decode(&m)
			bodies = []Method{m}
		}
		if err != nil {
			return nil, formatCUEError(err, owner+".methods."+name)
		}
		for _, m := range bodies {
			m.Name = name
			m.Pos = mv.Pos()
			m.Params = nfcParams(m.Params)
			m.Returns = nfcParams(m.Returns)
			methods = append(methods, m)
		}
	}
	return methods, nil
}

func nfcAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = norm.NFC.String(s)
	}
	return ss
}

func nfcParams(ps []Param) []Param {
	for i := range ps {
		ps[i].Name = norm.NFC.String(ps[i].Name)
		ps[i].Type = norm.NFC.String(ps[i].Type)
	}
	return ps
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, field string) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   field,
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: field, Message: first.Error()}
}
