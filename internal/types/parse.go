package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Resolver turns type names such as "List<int>[,]" into types.
//
// Names are resolved in order: type parameters in scope, primitives,
// the resolver's package, then the standard package. A name may be
// qualified explicitly as "pkg@Name".
type Resolver struct {
	Registry *Registry
	Package  string
	Scope    map[string]*TypeParameter
}

// Resolve parses and resolves a type name.
func (r *Resolver) Resolve(s string) (Type, error) {
	p := &typeParser{src: s, r: r}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
	r   *Resolver
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q at %d: %s: %w", p.src, p.pos, fmt.Sprintf(format, args...), ErrBadTypeName)
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if c != '_' && c != ':' && c != '.' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) parseType() (Type, error) {
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected type name")
	}
	pkg := ""
	if p.peek() == '@' {
		p.pos++
		pkg = name
		name = p.ident()
		if name == "" {
			return nil, p.errorf("expected type name after package")
		}
	}

	var args []Type
	if p.peek() == '<' {
		p.pos++
		for {
			arg, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			c := p.peek()
			p.pos++
			if c == '>' {
				break
			}
			if c != ',' {
				return nil, p.errorf("expected ',' or '>'")
			}
		}
	}

	t, err := p.lookup(pkg, name, args)
	if err != nil {
		return nil, err
	}

	var dims []int
	for p.peek() == '[' {
		p.pos++
		n := 1
		for p.peek() == ',' {
			p.pos++
			n++
		}
		if p.peek() != ']' {
			return nil, p.errorf("expected ']'")
		}
		p.pos++
		dims = append(dims, n)
	}
	if len(dims) > 0 {
		return p.r.Registry.ArrayOf(t, dims...), nil
	}
	return t, nil
}

func (p *typeParser) lookup(pkg, name string, args []Type) (Type, error) {
	reg := p.r.Registry
	if pkg == "" && len(args) == 0 {
		if tp, ok := p.r.Scope[name]; ok {
			return tp, nil
		}
		switch name {
		case "null":
			return reg.Null(), nil
		case "Pointer":
			return reg.Pointer(), nil
		}
	}

	var c *ClassType
	var ok bool
	if pkg != "" {
		c, ok = reg.Lookup(pkg, name)
	} else {
		c, ok = reg.Lookup(p.r.Package, name)
		if !ok {
			c, ok = reg.Lookup(StandardPackage, name)
		}
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", strings.TrimPrefix(pkg+"@"+name, "@"), ErrUnknownType)
	}
	if len(args) == 0 {
		return c, nil
	}
	if len(args) != len(c.typeParams) {
		return nil, fmt.Errorf("%s: want %d type arguments, got %d: %w", c.Name(), len(c.typeParams), len(args), ErrTypeArguments)
	}
	// Bounds are checked once the registry is complete; declarations may
	// refer to types whose supertypes are not wired yet.
	if !reg.Frozen() {
		return c.instantiate(args), nil
	}
	return c.Instantiate(args...)
}
