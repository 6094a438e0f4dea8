package types

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Registry owns the built-in types and every declared class.
//
// A Registry is constructed once per compilation and populated during
// declaration processing. Freeze seals every declared type; afterwards the
// registry and its types are read-only and may be shared across goroutines.
type Registry struct {
	object, class, exception, str *ClassType
	array                         *ClassType
	canIndex, canIterate          *ClassType
	canCompare                    *ClassType

	primitives map[string]*ClassType
	declared   map[string]*ClassType
	order      []string

	null, unknown *specialType
	pointer       *PointerType

	frozen bool
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for declaration events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

var primitiveOrder = []string{
	NameBoolean, NameByte, NameUByte, NameShort, NameUShort, NameInt, NameUInt,
	NameLong, NameULong, NameFloat, NameDouble, NameCode,
}

// NewRegistry builds the built-in types.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		primitives: make(map[string]*ClassType),
		declared:   make(map[string]*ClassType),
		null:       &specialType{name: "null", null: true},
		unknown:    &specialType{name: "Unknown Type"},
		pointer:    &PointerType{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}

	std := func(name string, kind Kind) *ClassType {
		c := NewClassType(name, StandardPackage, kind, Public, nil)
		r.mustDeclare(c)
		return c
	}

	r.object = std(NameObject, KindClass)

	for _, name := range primitiveOrder {
		p := NewClassType(name, StandardPackage, KindClass, Public|Immutable, nil)
		p.primitive = true
		r.mustSucceed(p.SetExtends(r.object))
		r.primitives[name] = p
	}
	intType := r.primitives[NameInt]

	r.canCompare = std("CanCompare", KindInterface)
	cmpT := NewTypeParameter("T")
	r.mustSucceed(r.canCompare.AddTypeParameter(cmpT))
	r.mustSucceed(r.canCompare.AddMethod(NewMethodSignature("compare", Public,
		NewSequenceType(cmpT), NewSequenceType(intType))))

	r.canIterate = std("CanIterate", KindInterface)
	r.mustSucceed(r.canIterate.AddTypeParameter(NewTypeParameter("T")))

	r.canIndex = std("CanIndex", KindInterface)
	idxK, idxV := NewTypeParameter("K"), NewTypeParameter("V")
	r.mustSucceed(r.canIndex.AddTypeParameter(idxK))
	r.mustSucceed(r.canIndex.AddTypeParameter(idxV))
	r.mustSucceed(r.canIndex.AddMethod(NewMethodSignature("index", Public,
		NewSequenceType(idxK), NewSequenceType(idxV))))

	for _, name := range primitiveOrder {
		p := r.primitives[name]
		if IsNumerical(p) {
			r.mustSucceed(p.AddInterface(r.canCompare.instantiate([]Type{p})))
		}
	}

	r.str = std(NameString, KindClass)
	r.str.modifiers |= Immutable
	r.mustSucceed(r.str.SetExtends(r.object))
	r.mustSucceed(r.str.AddInterface(r.canCompare.instantiate([]Type{r.str})))
	r.mustSucceed(r.str.AddMethod(NewMethodSignature("size", Public, nil, NewSequenceType(intType))))

	r.class = std("Class", KindClass)
	r.mustSucceed(r.class.SetExtends(r.object))
	r.mustSucceed(r.class.AddMethod(NewMethodSignature("name", Public, nil, NewSequenceType(r.str))))

	r.exception = std("Exception", KindException)
	r.mustSucceed(r.exception.SetExtends(r.object))
	r.mustSucceed(r.exception.AddMethod(NewMethodSignature("message", Public, nil, NewSequenceType(r.str))))

	r.array = std("Array", KindClass)
	arrT := NewTypeParameter("T")
	r.mustSucceed(r.array.AddTypeParameter(arrT))
	r.mustSucceed(r.array.SetExtends(r.object))
	r.mustSucceed(r.array.AddInterface(r.canIterate.instantiate([]Type{arrT})))
	r.mustSucceed(r.array.AddInterface(r.canIndex.instantiate([]Type{intType, arrT})))
	r.mustSucceed(r.array.AddMethod(NewMethodSignature("index", Public,
		NewSequenceType(intType), NewSequenceType(arrT))))
	r.mustSucceed(r.array.AddMethod(NewMethodSignature("index", Public,
		NewSequenceType(intType, arrT), nil)))
	r.mustSucceed(r.array.AddMethod(NewMethodSignature("size", Public, nil, NewSequenceType(intType))))
	r.mustSucceed(r.array.AddMethod(NewMethodSignature("dimensions", Public, nil, NewSequenceType(intType))))

	return r
}

func (r *Registry) mustSucceed(err error) {
	if err != nil {
		panic("types: building built-ins: " + err.Error())
	}
}

func (r *Registry) mustDeclare(c *ClassType) {
	r.mustSucceed(r.Declare(c))
}

func (r *Registry) Object() *ClassType    { return r.object }
func (r *Registry) String() *ClassType    { return r.str }
func (r *Registry) Class() *ClassType     { return r.class }
func (r *Registry) Exception() *ClassType { return r.exception }

// Array returns the generic Array<T> declaration arrays erase to.
func (r *Registry) Array() *ClassType      { return r.array }
func (r *Registry) CanIndex() *ClassType   { return r.canIndex }
func (r *Registry) CanIterate() *ClassType { return r.canIterate }
func (r *Registry) CanCompare() *ClassType { return r.canCompare }

func (r *Registry) Boolean() *ClassType { return r.primitives[NameBoolean] }
func (r *Registry) Byte() *ClassType    { return r.primitives[NameByte] }
func (r *Registry) UByte() *ClassType   { return r.primitives[NameUByte] }
func (r *Registry) Short() *ClassType   { return r.primitives[NameShort] }
func (r *Registry) UShort() *ClassType  { return r.primitives[NameUShort] }
func (r *Registry) Int() *ClassType     { return r.primitives[NameInt] }
func (r *Registry) UInt() *ClassType    { return r.primitives[NameUInt] }
func (r *Registry) Long() *ClassType    { return r.primitives[NameLong] }
func (r *Registry) ULong() *ClassType   { return r.primitives[NameULong] }
func (r *Registry) Float() *ClassType   { return r.primitives[NameFloat] }
func (r *Registry) Double() *ClassType  { return r.primitives[NameDouble] }
func (r *Registry) Code() *ClassType    { return r.primitives[NameCode] }

// Null returns the null type, a subtype of every type.
func (r *Registry) Null() Type { return r.null }

// Unknown returns the type assigned to unresolved expressions.
func (r *Registry) Unknown() Type { return r.unknown }

// Pointer returns the raw pointer type.
func (r *Registry) Pointer() *PointerType { return r.pointer }

// Primitive looks up a primitive by name.
func (r *Registry) Primitive(name string) (*ClassType, bool) {
	p, ok := r.primitives[name]
	return p, ok
}

// Primitives returns every primitive in a fixed order.
func (r *Registry) Primitives() []*ClassType {
	out := make([]*ClassType, len(primitiveOrder))
	for i, name := range primitiveOrder {
		out[i] = r.primitives[name]
	}
	return out
}

// ArrayOf builds an array type. dims lists the dimension count of each
// level, outermost first; none means one level of one dimension.
// ArrayOf(int, 2) is int[,]; ArrayOf(int, 1, 1) is int[][].
func (r *Registry) ArrayOf(base Type, dims ...int) *ArrayType {
	return newArrayType(r.array, base, dims)
}

// MakeSigned maps each unsigned integer type to its signed counterpart and
// returns every other type unchanged.
func (r *Registry) MakeSigned(t Type) Type {
	if !IsUnsigned(t) {
		return t
	}
	switch t.Name() {
	case NameUByte:
		return r.Byte()
	case NameUShort:
		return r.Short()
	case NameUInt:
		return r.Int()
	default:
		return r.Long()
	}
}

// Declare registers a class declaration under its package and base name.
func (r *Registry) Declare(c *ClassType) error {
	if r.frozen {
		return fmt.Errorf("declare %s: %w", c.Name(), ErrRegistryFrozen)
	}
	if c.generic != nil {
		return fmt.Errorf("declare %s: instantiations are not declarations: %w", c.Name(), ErrDuplicateType)
	}
	key := qualify(c.pkg, c.name)
	if _, exists := r.declared[key]; exists {
		return fmt.Errorf("declare %s: %w", key, ErrDuplicateType)
	}
	r.declared[key] = c
	r.order = append(r.order, key)
	r.logger.Debug("type declared", "type", key, "kind", c.kind.String())
	return nil
}

// Lookup finds a declared class by package and base name. Primitives are
// found by bare name in any package.
func (r *Registry) Lookup(pkg, name string) (*ClassType, bool) {
	if p, ok := r.primitives[name]; ok {
		return p, true
	}
	c, ok := r.declared[qualify(pkg, name)]
	return c, ok
}

// LookupQualified finds a declared class by "pkg@Name" key.
func (r *Registry) LookupQualified(key string) (*ClassType, bool) {
	if p, ok := r.primitives[key]; ok {
		return p, true
	}
	c, ok := r.declared[key]
	return c, ok
}

// Declared returns every declared class in declaration order, built-ins
// first.
func (r *Registry) Declared() []*ClassType {
	out := make([]*ClassType, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.declared[key])
	}
	return out
}

// Packages returns the sorted set of packages with declarations.
func (r *Registry) Packages() []string {
	seen := map[string]bool{}
	var pkgs []string
	for _, c := range r.declared {
		if !seen[c.pkg] {
			seen[c.pkg] = true
			pkgs = append(pkgs, c.pkg)
		}
	}
	slices.Sort(pkgs)
	return pkgs
}

// Freeze seals every declared type. The registry is read-only afterwards.
func (r *Registry) Freeze() {
	if r.frozen {
		return
	}
	for _, p := range r.primitives {
		p.seal()
	}
	for _, c := range r.declared {
		c.seal()
	}
	r.frozen = true
	r.logger.Debug("type registry frozen", "types", len(r.declared)+len(r.primitives))
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool { return r.frozen }
