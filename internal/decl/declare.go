package decl

import (
	"errors"
	"io"
	"log/slog"

	"cuelang.org/go/cue/token"

	"github.com/shadow-language/shadowc/internal/types"
)

// Option configures loading and declaring.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for declaration events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) *options {
	o := &options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Declare adds every class of set to reg. All classes are declared first so
// that they may refer to each other in any order; then supertypes, fields
// and methods are resolved. The registry is left unfrozen.
//
// Returns all errors found (does not fail-fast). Run Validate first: Declare
// assumes kinds and modifiers are legal.
//
// Declaration is not transactional. When errors are returned, reg may hold
// classes whose supertypes or members are only partly resolved; discard
// it rather than freezing it or declaring more into it for compilation.
func Declare(reg *types.Registry, set *Set, opts ...Option) []ValidationError {
	o := buildOptions(opts)
	if reg.Frozen() {
		return []ValidationError{newError(ErrSchema, "registry", token.NoPos, "%v", types.ErrRegistryFrozen)}
	}

	var errs []ValidationError
	declared := make([]*types.ClassType, len(set.Classes))
	for i := range set.Classes {
		c := &set.Classes[i]
		kind, _ := types.ParseKind(c.Kind)
		ct := types.NewClassType(c.Name, c.Package, kind, parseModifiers(c.Modifiers), nil)
		for _, tp := range c.TypeParameters {
			if err := ct.AddTypeParameter(types.NewTypeParameter(tp.Name)); err != nil {
				errs = append(errs, newError(ErrDuplicate, c.QualifiedName(), c.Pos, "%v", err))
			}
		}
		if err := reg.Declare(ct); err != nil {
			errs = append(errs, newError(resolutionCode(err), c.QualifiedName(), c.Pos, "%v", err))
			continue
		}
		declared[i] = ct
	}

	for i, ct := range declared {
		if ct == nil {
			continue
		}
		c := &set.Classes[i]
		d := &declarer{reg: reg, class: c, ct: ct}
		d.resolve()
		errs = append(errs, d.errs...)
		o.logger.Debug("class declared",
			"type", c.QualifiedName(),
			"kind", c.Kind,
			"fields", len(c.Fields),
			"methods", len(c.Methods),
		)
	}
	o.logger.Info("declarations loaded", "classes", len(set.Classes), "errors", len(errs))
	return errs
}

// declarer resolves the members of one class.
type declarer struct {
	reg   *types.Registry
	class *Class
	ct    *types.ClassType
	errs  []ValidationError
}

func (d *declarer) fail(code, field string, pos token.Pos, format string, args ...any) {
	d.errs = append(d.errs, newError(code, d.class.QualifiedName()+field, pos, format, args...))
}

func (d *declarer) resolver() *types.Resolver {
	scope := make(map[string]*types.TypeParameter)
	for _, tp := range d.ct.TypeParameters() {
		scope[tp.Name()] = tp
	}
	return &types.Resolver{Registry: d.reg, Package: d.class.Package, Scope: scope}
}

func (d *declarer) resolveType(field string, pos token.Pos, name string) (types.Type, bool) {
	t, err := d.resolver().Resolve(name)
	if err != nil {
		d.fail(resolutionCode(err), field, pos, "%v", err)
		return nil, false
	}
	return t, true
}

func (d *declarer) resolve() {
	c := d.class
	for i, tp := range c.TypeParameters {
		param := d.ct.TypeParameters()[i]
		for _, b := range tp.Bounds {
			if t, ok := d.resolveType(".typeParameters."+tp.Name, c.Pos, b); ok {
				if err := param.AddBound(t); err != nil {
					d.fail(ErrIllegalSupertype, ".typeParameters."+tp.Name, c.Pos, "%v", err)
				}
			}
		}
	}

	d.resolveExtends()
	for _, name := range c.Implements {
		t, ok := d.resolveType(".implements", c.Pos, name)
		if !ok {
			continue
		}
		iface, isClass := t.(*types.ClassType)
		if !isClass || iface.Kind() != types.KindInterface {
			d.fail(ErrIllegalSupertype, ".implements", c.Pos, "%s is not an interface", t.Name())
			continue
		}
		if err := d.ct.AddInterface(iface); err != nil {
			d.fail(resolutionCode(err), ".implements", c.Pos, "%v", err)
		}
	}

	for _, f := range c.Fields {
		t, ok := d.resolveType(".fields."+f.Name, f.Pos, f.Type)
		if !ok {
			continue
		}
		mt := types.ModifiedType{Type: t, Modifiers: parseModifiers(f.Modifiers)}
		if err := d.ct.AddField(f.Name, mt); err != nil {
			d.fail(resolutionCode(err), ".fields."+f.Name, f.Pos, "%v", err)
		}
	}

	for _, m := range c.Methods {
		params, ok1 := d.sequence(".methods."+m.Name, m.Pos, m.Params)
		returns, ok2 := d.sequence(".methods."+m.Name, m.Pos, m.Returns)
		if !ok1 || !ok2 {
			continue
		}
		sig := types.NewMethodSignature(m.Name, parseModifiers(m.Modifiers), params, returns)
		sig.Static = m.Static
		if err := d.ct.AddMethod(sig); err != nil {
			d.fail(resolutionCode(err), ".methods."+m.Name, m.Pos, "%v", err)
		}
	}
}

// resolveExtends sets the superclass. Without an explicit one, exceptions
// extend Exception, interfaces extend nothing and everything else extends
// Object.
func (d *declarer) resolveExtends() {
	c := d.class
	if c.Extends == "" {
		switch d.ct.Kind() {
		case types.KindInterface:
		case types.KindException:
			d.setExtends(d.reg.Exception())
		default:
			d.setExtends(d.reg.Object())
		}
		return
	}
	if d.ct.Kind() == types.KindInterface {
		d.fail(ErrIllegalSupertype, ".extends", c.Pos, "interfaces cannot extend classes; use implements")
		return
	}
	t, ok := d.resolveType(".extends", c.Pos, c.Extends)
	if !ok {
		return
	}
	super, isClass := t.(*types.ClassType)
	switch {
	case !isClass:
		d.fail(ErrIllegalSupertype, ".extends", c.Pos, "cannot extend %s", t.Name())
	case super.Kind() == types.KindInterface:
		d.fail(ErrIllegalSupertype, ".extends", c.Pos, "cannot extend interface %s", super.Name())
	case super.IsValueType():
		d.fail(ErrIllegalSupertype, ".extends", c.Pos, "cannot extend value type %s", super.Name())
	default:
		d.setExtends(super)
	}
}

func (d *declarer) setExtends(super *types.ClassType) {
	if err := d.ct.SetExtends(super); err != nil {
		d.fail(resolutionCode(err), ".extends", d.class.Pos, "%v", err)
	}
}

func (d *declarer) sequence(field string, pos token.Pos, ps []Param) (*types.SequenceType, bool) {
	seq := types.NewSequenceType()
	ok := true
	for _, p := range ps {
		t, resolved := d.resolveType(field, pos, p.Type)
		if !resolved {
			ok = false
			continue
		}
		seq.Append(t, parseModifiers(p.Modifiers))
	}
	return seq, ok
}

// resolutionCode maps errors from the types package to declaration codes.
func resolutionCode(err error) string {
	switch {
	case errors.Is(err, types.ErrUnknownType):
		return ErrUnknownTypeName
	case errors.Is(err, types.ErrTypeArguments):
		return ErrTypeArgCount
	case errors.Is(err, types.ErrInheritanceCycle):
		return ErrInheritanceCycle
	case errors.Is(err, types.ErrDuplicateType):
		return ErrDuplicate
	case errors.Is(err, types.ErrBadTypeName):
		return ErrMalformedType
	default:
		return ErrSchema
	}
}

// errorsOf wraps a non-empty error list as an error.
func errorsOf(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	return Errors(errs)
}
