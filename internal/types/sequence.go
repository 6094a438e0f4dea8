package types

import (
	"iter"
	"slices"
	"strings"
)

// SequenceType is an ordered list of modified types. It is both a type
// (a method's multi-valued return) and a plain parameter/return list, so
// it is mutable: callers must not assume a SequenceType stays unchanged.
type SequenceType struct {
	elems []ModifiedType
}

// NewSequenceType creates a sequence of unmodified types.
func NewSequenceType(ts ...Type) *SequenceType {
	s := &SequenceType{elems: make([]ModifiedType, 0, len(ts))}
	for _, t := range ts {
		s.elems = append(s.elems, ModifiedType{Type: t})
	}
	return s
}

// NewSequenceOf creates a sequence from modified types.
func NewSequenceOf(elems ...ModifiedType) *SequenceType {
	return &SequenceType{elems: append([]ModifiedType(nil), elems...)}
}

func (s *SequenceType) Len() int { return len(elemsOf(s)) }

func (s *SequenceType) IsEmpty() bool { return len(s.elems) == 0 }

// At returns the i-th element. It panics when i is out of range, like a
// slice index.
func (s *SequenceType) At(i int) ModifiedType { return s.elems[i] }

// Set replaces the i-th element and returns the previous one.
func (s *SequenceType) Set(i int, m ModifiedType) ModifiedType {
	old := s.elems[i]
	s.elems[i] = m
	return old
}

// Append adds an element at the end.
func (s *SequenceType) Append(t Type, mods Modifiers) {
	s.elems = append(s.elems, ModifiedType{Type: t, Modifiers: mods})
}

// Insert adds an element at index i.
func (s *SequenceType) Insert(i int, m ModifiedType) {
	s.elems = slices.Insert(s.elems, i, m)
}

// Remove deletes and returns the i-th element.
func (s *SequenceType) Remove(i int) ModifiedType {
	old := s.elems[i]
	s.elems = slices.Delete(s.elems, i, i+1)
	return old
}

func (s *SequenceType) Clear() { s.elems = s.elems[:0] }

// IndexOf returns the index of the first element whose type equals t, or -1.
func (s *SequenceType) IndexOf(t Type) int {
	return slices.IndexFunc(s.elems, func(m ModifiedType) bool { return Equal(m.Type, t) })
}

// Slice returns a new sequence holding elements [from, to).
func (s *SequenceType) Slice(from, to int) *SequenceType {
	return NewSequenceOf(s.elems[from:to]...)
}

// Elements returns a copy of the elements.
func (s *SequenceType) Elements() []ModifiedType {
	return append([]ModifiedType(nil), s.elems...)
}

// Types returns the element types in order.
func (s *SequenceType) Types() []Type {
	out := make([]Type, len(s.elems))
	for i, m := range s.elems {
		out[i] = m.Type
	}
	return out
}

// All iterates over index/element pairs.
func (s *SequenceType) All() iter.Seq2[int, ModifiedType] {
	return func(yield func(int, ModifiedType) bool) {
		for i, m := range s.elems {
			if !yield(i, m) {
				return
			}
		}
	}
}

func elemsOf(s *SequenceType) []ModifiedType {
	if s == nil {
		return nil
	}
	return s.elems
}

// CanAccept reports whether args has the same length and each argument
// type is a subtype of the corresponding declared type.
func (s *SequenceType) CanAccept(args *SequenceType) bool {
	in := elemsOf(args)
	if len(s.elems) != len(in) {
		return false
	}
	for i, m := range s.elems {
		if in[i].Type == nil || !in[i].Type.IsSubtype(m.Type) {
			return false
		}
	}
	return true
}

// CanAcceptOne reports whether s has exactly one element accepting t.
func (s *SequenceType) CanAcceptOne(t Type) bool {
	return len(s.elems) == 1 && t != nil && t.IsSubtype(s.elems[0].Type)
}

// Matches requires equal length with element-wise equal types and equal
// modifiers. It implies CanAccept.
func (s *SequenceType) Matches(other *SequenceType) bool {
	return s.matches(elemsOf(other))
}

func (s *SequenceType) matches(in []ModifiedType) bool {
	if len(s.elems) != len(in) {
		return false
	}
	for i, m := range s.elems {
		if !Equal(m.Type, in[i].Type) || m.Modifiers != in[i].Modifiers {
			return false
		}
	}
	return true
}

// matchesTypes compares element types only.
func (s *SequenceType) matchesTypes(other *SequenceType) bool {
	in := elemsOf(other)
	if len(s.elems) != len(in) {
		return false
	}
	for i, m := range s.elems {
		if !Equal(m.Type, in[i].Type) {
			return false
		}
	}
	return true
}

// MatchesNullables reports whether, wherever s declares a non-nullable
// element, the candidate is also non-nullable.
func (s *SequenceType) MatchesNullables(other *SequenceType) bool {
	in := elemsOf(other)
	if len(s.elems) != len(in) {
		return false
	}
	for i, m := range s.elems {
		if !m.Modifiers.IsNullable() && in[i].Modifiers.IsNullable() {
			return false
		}
	}
	return true
}

// NodeType returns the type a syntax node takes when annotated with s: a
// single element collapses to its own type and modifiers; any other length
// keeps the sequence itself.
func (s *SequenceType) NodeType() ModifiedType {
	if len(s.elems) == 1 {
		return s.elems[0]
	}
	return ModifiedType{Type: s}
}

func (s *SequenceType) Name() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, m := range s.elems {
		if i > 0 {
			b.WriteByte(',')
		}
		if m.Modifiers.IsFinal() {
			b.WriteString("final ")
		}
		if m.Modifiers.IsNullable() {
			b.WriteString("nullable ")
		}
		if m.Type != nil {
			b.WriteString(m.Type.Name())
		}
	}
	b.WriteString(")")
	return b.String()
}

func (s *SequenceType) BaseName() string      { return s.Name() }
func (s *SequenceType) Package() string       { return "" }
func (s *SequenceType) QualifiedName() string { return s.Name() }
func (s *SequenceType) Kind() Kind            { return KindSequence }
func (s *SequenceType) Modifiers() Modifiers  { return 0 }
func (s *SequenceType) Outer() Type           { return nil }
func (s *SequenceType) String() string        { return s.Name() }

// IsSubtype holds between sequences when other can accept s.
func (s *SequenceType) IsSubtype(other Type) bool {
	o, ok := other.(*SequenceType)
	return ok && o.CanAccept(s)
}
