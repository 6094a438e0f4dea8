package types

import "strings"

// Kind classifies a declared type.
type Kind int

const (
	KindClass Kind = iota
	KindEnum
	KindInterface
	KindException
	KindError
	KindMethod
	KindView
	KindSequence
)

var kindNames = [...]string{
	KindClass:     "class",
	KindEnum:      "enum",
	KindInterface: "interface",
	KindException: "exception",
	KindError:     "error",
	KindMethod:    "method",
	KindView:      "view",
	KindSequence:  "sequence",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(?)"
}

// ParseKind maps a declaration keyword to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Modifiers is a bit set of declaration and reference modifiers.
type Modifiers uint32

const (
	Public Modifiers = 1 << iota
	Protected
	Private
	Immutable
	Readonly
	Nullable
	Final
	Constant
	Native
	Locked
	Weak
	Get
	Set
	Abstract
	Extern
)

// modifierOrder fixes the rendering order of String.
var modifierOrder = []struct {
	bit  Modifiers
	name string
}{
	{Public, "public"},
	{Protected, "protected"},
	{Private, "private"},
	{Abstract, "abstract"},
	{Extern, "extern"},
	{Native, "native"},
	{Final, "final"},
	{Constant, "constant"},
	{Immutable, "immutable"},
	{Readonly, "readonly"},
	{Locked, "locked"},
	{Weak, "weak"},
	{Nullable, "nullable"},
	{Get, "get"},
	{Set, "set"},
}

// Has reports whether every bit of m2 is set in m.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

func (m Modifiers) IsNullable() bool  { return m.Has(Nullable) }
func (m Modifiers) IsFinal() bool     { return m.Has(Final) }
func (m Modifiers) IsImmutable() bool { return m.Has(Immutable) }

// With returns m with the bits of m2 added.
func (m Modifiers) With(m2 Modifiers) Modifiers { return m | m2 }

// Without returns m with the bits of m2 cleared.
func (m Modifiers) Without(m2 Modifiers) Modifiers { return m &^ m2 }

// Names returns the keyword of every set modifier, in declaration order.
func (m Modifiers) Names() []string {
	var names []string
	for _, mod := range modifierOrder {
		if m.Has(mod.bit) {
			names = append(names, mod.name)
		}
	}
	return names
}

func (m Modifiers) String() string {
	return strings.Join(m.Names(), " ")
}

// ParseModifier maps a modifier keyword to its bit.
func ParseModifier(s string) (Modifiers, bool) {
	for _, mod := range modifierOrder {
		if mod.name == s {
			return mod.bit, true
		}
	}
	return 0, false
}
