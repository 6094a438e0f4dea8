package tac

import (
	"errors"
)

// Verify checks the structure of l: operands name earlier nodes (a phi
// input may name a later node but must be defined by the end of the
// block it flows in from), every label is placed
// exactly once, every branch, label address, phi input, catch return and
// cleanup return names a placed label, and every exception-handling node
// names a funclet of the right kind. All problems are reported together.
func Verify(l *List) error {
	v := &verifier{list: l, placed: make(map[LabelID]NodeID), ends: make(map[LabelID]NodeID)}
	var open LabelID
	for id, n := range l.All() {
		if n == nil {
			v.fail(newError(CodeNilNode, KindInvalid, "no node at %s", id))
			continue
		}
		_, isPhi := n.(*Phi)
		for _, op := range n.header().ops {
			if !l.contains(op) || (op >= id && !isPhi) {
				v.fail(newError(CodeDanglingOperand, n.Kind(), "operand %s does not precede it", op).at(id))
			}
		}
		if lbl, ok := n.(*Label); ok {
			if prev, dup := v.placed[lbl.Label]; dup {
				v.fail(newError(CodeBadLabel, KindLabel, "%s already placed at %s", lbl.Label, prev).at(id))
				continue
			}
			v.placed[lbl.Label] = id
			if open.IsValid() {
				v.ends[open] = id - 1
			}
			open = lbl.Label
			continue
		}
		if open.IsValid() && terminates(n.Kind()) {
			v.ends[open] = id
			open = NoLabel
		}
	}
	if open.IsValid() {
		v.ends[open] = NodeID(l.Len())
	}
	if entry := l.Entry(); entry.IsValid() {
		if err := Walk(l, entry, v); err != nil {
			v.fail(err)
		}
	}
	return errors.Join(v.errs...)
}

type verifier struct {
	BaseVisitor
	list   *List
	placed map[LabelID]NodeID
	ends   map[LabelID]NodeID // last node of each placed label's block
	errs   []error
}

func terminates(k Kind) bool {
	switch k {
	case KindBranch, KindReturn, KindThrow, KindResume, KindCatchRet, KindCleanupRet:
		return true
	}
	return false
}

func (v *verifier) fail(err error) { v.errs = append(v.errs, err) }

func (v *verifier) target(kind Kind, from NodeID, label LabelID) {
	if _, ok := v.placed[label]; !ok {
		v.fail(newError(CodeBadLabel, kind, "target %s is never placed", label).at(from))
	}
}

func (v *verifier) funclet(kind Kind, from NodeID, id FuncletID, want FuncletKind) *Funclet {
	f, err := v.list.funclets.lookup(id, want, kind)
	if err != nil {
		v.fail(err.(*InternalError).at(from))
		return nil
	}
	return f
}

func (v *verifier) VisitBranch(n *Branch) error {
	for _, t := range n.Targets {
		v.target(KindBranch, n.id, t)
	}
	return nil
}

func (v *verifier) VisitLabelAddress(n *LabelAddress) error {
	v.target(KindLabelAddress, n.id, n.Label)
	return nil
}

func (v *verifier) VisitPhi(n *Phi) error {
	for _, in := range n.Incoming() {
		v.target(KindPhi, n.id, in.Label)
		if end, ok := v.ends[in.Label]; ok && in.Value > end {
			v.fail(newError(CodeDanglingOperand, KindPhi, "input %s is not defined by the end of %s", in.Value, in.Label).at(n.id))
		}
	}
	return nil
}

func (v *verifier) VisitLandingPad(n *LandingPad) error {
	v.funclet(KindLandingPad, n.id, n.Funclet, 0)
	return nil
}

func (v *verifier) VisitCatch(n *Catch) error {
	if f := v.funclet(KindCatch, n.id, n.Funclet, FuncletCatch); f != nil && f.Dispatcher != n.id {
		v.fail(newError(CodeBadFunclet, KindCatch, "%s dispatches from %s", n.Funclet, f.Dispatcher).at(n.id))
	}
	return nil
}

func (v *verifier) VisitCatchPad(n *CatchPad) error {
	f := v.funclet(KindCatchPad, n.id, n.Funclet, FuncletCatch)
	if f == nil {
		return nil
	}
	if n.Clause >= len(f.Clauses) || f.Clauses[n.Clause].Pad != n.id {
		v.fail(newError(CodeBadFunclet, KindCatchPad, "not clause %d of %s", n.Clause, n.Funclet).at(n.id))
		return nil
	}
	v.target(KindCatchPad, n.id, f.Clauses[n.Clause].Label)
	return nil
}

func (v *verifier) VisitCatchRet(n *CatchRet) error {
	f := v.funclet(KindCatchRet, n.id, n.Funclet, FuncletCatch)
	if f == nil {
		return nil
	}
	if n.Clause < 0 || n.Clause >= len(f.Clauses) {
		v.fail(newError(CodeBadFunclet, KindCatchRet, "%s has no clause %d", n.Funclet, n.Clause).at(n.id))
	}
	v.target(KindCatchRet, n.id, n.Label)
	return nil
}

func (v *verifier) VisitCleanupPad(n *CleanupPad) error {
	if f := v.funclet(KindCleanupPad, n.id, n.Funclet, FuncletCleanup); f != nil && f.Dispatcher != n.id {
		v.fail(newError(CodeBadFunclet, KindCleanupPad, "%s is entered at %s", n.Funclet, f.Dispatcher).at(n.id))
	}
	return nil
}

func (v *verifier) VisitCleanupRet(n *CleanupRet) error {
	v.funclet(KindCleanupRet, n.id, n.Funclet, FuncletCleanup)
	if n.Unwind.IsValid() {
		v.target(KindCleanupRet, n.id, n.Unwind)
	}
	return nil
}

func (v *verifier) VisitCallFinallyFunction(n *CallFinallyFunction) error {
	v.funclet(KindCallFinallyFunction, n.id, n.Funclet, FuncletCleanup)
	return nil
}
