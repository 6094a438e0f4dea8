package decl

import (
	"cuelang.org/go/cue/token"
)

// Set is every class declared by one load, ordered by qualified name.
type Set struct {
	Classes []Class `json:"classes"`
}

// Class is one class declaration before its type names are resolved.
type Class struct {
	Package        string          `json:"package"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Modifiers      []string        `json:"modifiers,omitempty"`
	TypeParameters []TypeParameter `json:"typeParameters,omitempty"`
	Extends        string          `json:"extends,omitempty"`
	Implements     []string        `json:"implements,omitempty"`
	Fields         []Field         `json:"fields,omitempty"`
	Methods        []Method        `json:"methods,omitempty"`

	Pos token.Pos `json:"-"`
}

// TypeParameter declares a generic parameter and its upper bounds.
type TypeParameter struct {
	Name   string   `json:"name"`
	Bounds []string `json:"bounds,omitempty"`
}

// Field declares a field of a class.
type Field struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`

	Pos token.Pos `json:"-"`
}

// Method declares one method. Overloads share a name.
type Method struct {
	Name      string   `json:"name"`
	Modifiers []string `json:"modifiers,omitempty"`
	Static    bool     `json:"static,omitempty"`
	Params    []Param  `json:"params,omitempty"`
	Returns   []Param  `json:"returns,omitempty"`

	Pos token.Pos `json:"-"`
}

// Param is a parameter or return slot.
type Param struct {
	Name      string   `json:"name,omitempty"`
	Type      string   `json:"type"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// QualifiedName returns "pkg@Name", the key the registry uses.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return "default@" + c.Name
	}
	return c.Package + "@" + c.Name
}

// Canonical returns the set as the value tree accepted by canon.Marshal.
// Empty lists and false flags are omitted so equal sets encode equally.
func (s *Set) Canonical() map[string]any {
	classes := make([]any, 0, len(s.Classes))
	for i := range s.Classes {
		classes = append(classes, s.Classes[i].canonical())
	}
	return map[string]any{"classes": classes}
}

func (c *Class) canonical() map[string]any {
	m := map[string]any{
		"package": c.Package,
		"name":    c.Name,
		"kind":    c.Kind,
	}
	putStrings(m, "modifiers", c.Modifiers)
	putStrings(m, "implements", c.Implements)
	if c.Extends != "" {
		m["extends"] = c.Extends
	}
	if len(c.TypeParameters) > 0 {
		tps := make([]any, len(c.TypeParameters))
		for i, tp := range c.TypeParameters {
			e := map[string]any{"name": tp.Name}
			putStrings(e, "bounds", tp.Bounds)
			tps[i] = e
		}
		m["typeParameters"] = tps
	}
	if len(c.Fields) > 0 {
		fields := make([]any, len(c.Fields))
		for i, f := range c.Fields {
			e := map[string]any{"name": f.Name, "type": f.Type}
			putStrings(e, "modifiers", f.Modifiers)
			fields[i] = e
		}
		m["fields"] = fields
	}
	if len(c.Methods) > 0 {
		methods := make([]any, len(c.Methods))
		for i, meth := range c.Methods {
			e := map[string]any{"name": meth.Name}
			putStrings(e, "modifiers", meth.Modifiers)
			if meth.Static {
				e["static"] = true
			}
			putParams(e, "params", meth.Params)
			putParams(e, "returns", meth.Returns)
			methods[i] = e
		}
		m["methods"] = methods
	}
	return m
}

func putStrings(m map[string]any, key string, ss []string) {
	if len(ss) > 0 {
		m[key] = ss
	}
}

func putParams(m map[string]any, key string, ps []Param) {
	if len(ps) == 0 {
		return
	}
	out := make([]any, len(ps))
	for i, p := range ps {
		e := map[string]any{"type": p.Type}
		if p.Name != "" {
			e["name"] = p.Name
		}
		putStrings(e, "modifiers", p.Modifiers)
		out[i] = e
	}
	m[key] = out
}
