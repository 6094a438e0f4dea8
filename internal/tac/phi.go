package tac

import (
	"github.com/shadow-language/shadowc/internal/types"
)

// Updater is a node whose value is settled after construction, once all of
// its predecessors are known.
type Updater interface {
	Node
	// Update tries to settle the node and reports whether it changed.
	// updating holds the nodes being settled by the active call chain; a
	// node already in it returns false without recursing.
	Update(l *List, updating *UpdateSet) bool
	// Resolved reports whether the node has settled.
	Resolved() bool
}

// UpdateSet is the set of nodes being updated by one resolution call chain.
// It must not be shared between goroutines.
type UpdateSet struct {
	active   map[NodeID]bool
	maxDepth int
}

// NewUpdateSet creates an empty set.
func NewUpdateSet() *UpdateSet {
	return &UpdateSet{active: make(map[NodeID]bool)}
}

// Contains reports whether id is being updated.
func (s *UpdateSet) Contains(id NodeID) bool { return s.active[id] }

// Depth is the number of nodes currently being updated.
func (s *UpdateSet) Depth() int { return len(s.active) }

// MaxDepth is the deepest the call chain has been.
func (s *UpdateSet) MaxDepth() int { return s.maxDepth }

func (s *UpdateSet) enter(id NodeID) {
	s.active[id] = true
	s.maxDepth = max(s.maxDepth, len(s.active))
}

func (s *UpdateSet) leave(id NodeID) { delete(s.active, id) }

// Incoming is one phi input: the value arriving along the edge from the
// block labeled Label.
type Incoming struct {
	Value NodeID
	Label LabelID
}

// Phi merges the values arriving from each predecessor edge. It settles
// exactly once: to the single value all of its inputs agree on, or to
// itself when they disagree.
type Phi struct {
	nodeBase
	valueBase
	labels   []LabelID
	resolved NodeID

	// While a phi waits on a phi higher in the call chain, pending holds
	// the one outside value its inputs have produced so far, or conflict
	// is set when they produced more than one.
	pending  NodeID
	conflict bool
}

// Incoming returns the inputs in order.
func (n *Phi) Incoming() []Incoming {
	out := make([]Incoming, len(n.ops))
	for i, v := range n.ops {
		out[i] = Incoming{Value: v, Label: n.labels[i]}
	}
	return out
}

// Resolved reports whether the phi has settled.
func (n *Phi) Resolved() bool { return n.resolved.IsValid() }

// ResolvedValue returns the value the phi settled to: another node, the
// phi itself for a genuine merge, or NoNode while unresolved.
func (n *Phi) ResolvedValue() NodeID { return n.resolved }

func (n *Phi) clone() Node {
	c := cloneOps(n).(*Phi)
	c.labels = append([]LabelID(nil), n.labels...)
	return c
}

// Update settles the phi if it can.
//
// Inputs that are unresolved phis are updated first. An input that cannot
// settle because it depends on a phi already in updating reports the
// outside value it has seen instead. The outermost phi of such a cycle
// sees every outside value of the cycle: if there is exactly one, it
// settles to it; phis waiting on it settle when they are next updated.
func (n *Phi) Update(l *List, updating *UpdateSet) bool {
	if n.Resolved() || updating.Contains(n.id) {
		return false
	}
	updating.enter(n.id)
	defer updating.leave(n.id)

	n.pending, n.conflict = NoNode, false
	blocked := false
	for _, in := range n.ops {
		v := l.settled(in)
		if v == n.id {
			continue
		}
		if p, ok := l.Node(v).(*Phi); ok && !p.Resolved() {
			p.Update(l, updating)
			if p.Resolved() {
				v = l.settled(v)
			} else {
				blocked = true
				if p.conflict {
					n.conflict = true
				}
				if !p.pending.IsValid() {
					continue
				}
				v = p.pending
			}
		}
		if v == n.id {
			continue
		}
		switch {
		case !n.pending.IsValid():
			n.pending = v
		case n.pending != v:
			n.conflict = true
		}
	}

	switch {
	case n.conflict:
		n.resolved = n.id
	case blocked && updating.Depth() > 1:
		return false
	case n.pending.IsValid():
		n.resolved = n.pending
	default:
		n.resolved = n.id
	}
	n.pending, n.conflict = NoNode, false
	return true
}

// settled follows resolved phis to the value they stand for.
func (l *List) settled(id NodeID) NodeID {
	for {
		p, ok := l.Node(id).(*Phi)
		if !ok || !p.Resolved() || p.resolved == id {
			return id
		}
		id = p.resolved
	}
}

// ResolvePhis runs one update pass over every phi of the list, in order.
// It returns the number of phis settled and the deepest update chain.
func ResolvePhis(l *List) (settled, maxDepth int) {
	before := l.unresolved()
	for _, n := range l.nodes {
		u, ok := n.(Updater)
		if !ok || u.Resolved() {
			continue
		}
		set := NewUpdateSet()
		u.Update(l, set)
		maxDepth = max(maxDepth, set.MaxDepth())
	}
	return before - l.unresolved(), maxDepth
}

func (l *List) unresolved() int {
	n := 0
	for _, node := range l.nodes {
		if u, ok := node.(Updater); ok && !u.Resolved() {
			n++
		}
	}
	return n
}

// Substitute returns a copy of l in which every operand naming a resolved
// phi names the phi's value instead. Phis that settled to another value
// stay in the copy, unused.
func Substitute(l *List) *List {
	out := &List{
		Name:      l.Name,
		Method:    l.Method,
		nodes:     make([]Node, len(l.nodes)),
		variables: append([]Variable(nil), l.variables...),
		labels:    append([]labelInfo(nil), l.labels...),
		funclets:  FuncletTable{entries: l.funclets.All()},
	}
	for i, n := range l.nodes {
		c := n.clone()
		ops := c.header().ops
		for j, op := range ops {
			ops[j] = l.settled(op)
		}
		out.nodes[i] = c
	}
	return out
}

// Phi adds an unresolved phi of type t with no inputs yet.
func (b *Builder) Phi(t types.Type, mods types.Modifiers) (NodeID, error) {
	if err := b.begin(KindPhi); err != nil {
		return NoNode, err
	}
	if t == nil {
		return b.abort(newError(CodeOperandType, KindPhi, "phi has no type"))
	}
	return b.add(&Phi{valueBase: val(t, mods)}), nil
}

// AddIncoming appends an input to an unresolved phi. value must already
// have the phi's type (no implicit cast is inserted) and may reference
// nodes added after the phi.
func (b *Builder) AddIncoming(phi, value NodeID, from LabelID) error {
	if err := b.begin(KindPhi); err != nil {
		return err
	}
	p, ok := b.list.Node(phi).(*Phi)
	if !ok {
		_, err := b.abort(newError(CodeDanglingOperand, KindPhi, "%s is not a phi", phi))
		return err
	}
	if p.Resolved() {
		_, err := b.abort(newError(CodeOperandType, KindPhi, "%s is already resolved", phi).at(phi))
		return err
	}
	if err := b.label(KindPhi, from); err != nil {
		_, err = b.abort(err)
		return err
	}
	x, err := b.checkPhiInput(value, p.Type())
	if err != nil {
		_, err = b.abort(err)
		return err
	}
	p.ops = append(p.ops, x)
	p.labels = append(p.labels, from)
	return nil
}
