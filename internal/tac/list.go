package tac

import (
	"fmt"
	"iter"

	"github.com/shadow-language/shadowc/internal/types"
)

// Variable is a local variable of a method body.
type Variable struct {
	Name      string
	Type      types.Type
	Modifiers types.Modifiers
}

type labelInfo struct {
	name string
}

// List is the append-only node arena for one method body. Nodes are never
// reordered or removed; passes that need a different order build a new
// List.
type List struct {
	// Name identifies the unit, normally the method's symbol name.
	Name string

	// Method is the method whose body this is. It may be nil for
	// free-standing code such as test programs.
	Method *types.MethodSignature

	nodes     []Node
	variables []Variable
	labels    []labelInfo
	funclets  FuncletTable
}

// NewList creates an empty List.
func NewList(name string, method *types.MethodSignature) *List {
	return &List{Name: name, Method: method}
}

// Len returns the number of nodes.
func (l *List) Len() int { return len(l.nodes) }

// Node returns the node with the given ID, or nil if id is not in the list.
func (l *List) Node(id NodeID) Node {
	if !l.contains(id) {
		return nil
	}
	return l.nodes[id-1]
}

// Value returns the node with the given ID if it is a value.
func (l *List) Value(id NodeID) (Value, bool) {
	v, ok := l.Node(id).(Value)
	return v, ok
}

func (l *List) contains(id NodeID) bool {
	return id.IsValid() && int(id) <= len(l.nodes)
}

// All iterates over the nodes in order.
func (l *List) All() iter.Seq2[NodeID, Node] {
	return func(yield func(NodeID, Node) bool) {
		for i, n := range l.nodes {
			if !yield(NodeID(i+1), n) {
				return
			}
		}
	}
}

// Entry is the first node, or NoNode for an empty list.
func (l *List) Entry() NodeID {
	if len(l.nodes) == 0 {
		return NoNode
	}
	return 1
}

func (l *List) append(n Node) NodeID {
	id := NodeID(len(l.nodes) + 1)
	n.header().id = id
	l.nodes = append(l.nodes, n)
	return id
}

// NewVariable declares a local variable.
func (l *List) NewVariable(name string, t types.Type, mods types.Modifiers) VariableID {
	l.variables = append(l.variables, Variable{Name: name, Type: t, Modifiers: mods})
	return VariableID(len(l.variables))
}

// Variable returns a declared variable.
func (l *List) Variable(id VariableID) (Variable, bool) {
	if !id.IsValid() || int(id) > len(l.variables) {
		return Variable{}, false
	}
	return l.variables[id-1], true
}

// Variables returns the declared variables in declaration order.
func (l *List) Variables() []Variable { return append([]Variable(nil), l.variables...) }

// NewLabel allocates a label. It is placed by a Label node later.
func (l *List) NewLabel(name string) LabelID {
	if name == "" {
		name = fmt.Sprintf("L%d", len(l.labels)+1)
	}
	l.labels = append(l.labels, labelInfo{name: name})
	return LabelID(len(l.labels))
}

// LabelName returns a label's name, or "" if it was never allocated.
func (l *List) LabelName(id LabelID) string {
	if !l.hasLabel(id) {
		return ""
	}
	return l.labels[id-1].name
}

// NumLabels returns the number of allocated labels.
func (l *List) NumLabels() int { return len(l.labels) }

func (l *List) hasLabel(id LabelID) bool {
	return id.IsValid() && int(id) <= len(l.labels)
}

// Funclets returns the exception-handling table.
func (l *List) Funclets() *FuncletTable { return &l.funclets }
