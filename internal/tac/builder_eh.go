package tac

import (
	"github.com/shadow-language/shadowc/internal/types"
)

// NewFunclet adds a funclet of the given kind, nested in parent (NoFunclet
// for a top-level region).
func (b *Builder) NewFunclet(kind FuncletKind, parent FuncletID) (FuncletID, error) {
	if err := b.begin(KindInvalid); err != nil {
		return NoFunclet, err
	}
	if kind != FuncletCatch && kind != FuncletCleanup {
		_, err := b.abort(newError(CodeBadFunclet, KindInvalid, "unknown funclet kind %d", kind))
		return NoFunclet, err
	}
	if parent.IsValid() {
		if _, err := b.list.funclets.lookup(parent, 0, KindInvalid); err != nil {
			_, err = b.abort(err)
			return NoFunclet, err
		}
	}
	return b.list.funclets.New(kind, parent), nil
}

// LandingPad marks the unwind target of a protected region handled by
// funclet f.
func (b *Builder) LandingPad(f FuncletID) (NodeID, error) {
	if err := b.begin(KindLandingPad); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, 0, KindLandingPad)
	if err != nil {
		return b.abort(err)
	}
	id := b.add(&LandingPad{Funclet: f})
	fn.LandingPad = id
	return id, nil
}

// Catch adds the dispatcher of catch funclet f.
func (b *Builder) Catch(f FuncletID) (NodeID, error) {
	if err := b.begin(KindCatch); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, FuncletCatch, KindCatch)
	if err != nil {
		return b.abort(err)
	}
	id := b.add(&Catch{Funclet: f})
	fn.Dispatcher = id
	return id, nil
}

// CatchPad adds a clause to catch funclet f catching exception into
// variable v. The clause's code starts at label.
func (b *Builder) CatchPad(f FuncletID, exception *types.ClassType, v VariableID, label LabelID) (NodeID, error) {
	if err := b.begin(KindCatchPad); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, FuncletCatch, KindCatchPad)
	if err != nil {
		return b.abort(err)
	}
	if exception == nil || !exception.IsSubtype(b.reg.Exception()) {
		return b.abort(newError(CodeOperandType, KindCatchPad, "%s is not an exception type", typeName(exception)))
	}
	vr, err := b.variable(KindCatchPad, v)
	if err != nil {
		return b.abort(err)
	}
	if !exception.IsSubtype(vr.Type) {
		return b.abort(newError(CodeOperandType, KindCatchPad, "cannot bind %s to variable %s of type %s", exception, vr.Name, vr.Type))
	}
	if err := b.label(KindCatchPad, label); err != nil {
		return b.abort(err)
	}
	id := b.add(&CatchPad{valueBase: val(exception, 0), Funclet: f, Clause: len(fn.Clauses)})
	fn.Clauses = append(fn.Clauses, CatchClause{Exception: exception, Variable: v, Pad: id, Label: label})
	return id, nil
}

// CatchRet leaves clause of catch funclet f, continuing at label.
func (b *Builder) CatchRet(f FuncletID, clause int, label LabelID) (NodeID, error) {
	if err := b.begin(KindCatchRet); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, FuncletCatch, KindCatchRet)
	if err != nil {
		return b.abort(err)
	}
	if clause < 0 || clause >= len(fn.Clauses) {
		return b.abort(newError(CodeBadFunclet, KindCatchRet, "%s has no clause %d", f, clause))
	}
	if err := b.label(KindCatchRet, label); err != nil {
		return b.abort(err)
	}
	fn.addResume(label)
	return b.add(&CatchRet{Funclet: f, Clause: clause, Label: label}), nil
}

// CleanupPad enters cleanup funclet f.
func (b *Builder) CleanupPad(f FuncletID) (NodeID, error) {
	if err := b.begin(KindCleanupPad); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, FuncletCleanup, KindCleanupPad)
	if err != nil {
		return b.abort(err)
	}
	id := b.add(&CleanupPad{Funclet: f})
	fn.Dispatcher = id
	return id, nil
}

// CleanupRet leaves cleanup funclet f, unwinding to unwind or out of the
// method when unwind is NoLabel.
func (b *Builder) CleanupRet(f FuncletID, unwind LabelID) (NodeID, error) {
	if err := b.begin(KindCleanupRet); err != nil {
		return NoNode, err
	}
	fn, err := b.list.funclets.lookup(f, FuncletCleanup, KindCleanupRet)
	if err != nil {
		return b.abort(err)
	}
	if unwind.IsValid() {
		if err := b.label(KindCleanupRet, unwind); err != nil {
			return b.abort(err)
		}
		fn.addResume(unwind)
	}
	return b.add(&CleanupRet{Funclet: f, Unwind: unwind}), nil
}

// CallFinallyFunction runs cleanup funclet f on the normal path.
func (b *Builder) CallFinallyFunction(f FuncletID) (NodeID, error) {
	if err := b.begin(KindCallFinallyFunction); err != nil {
		return NoNode, err
	}
	if _, err := b.list.funclets.lookup(f, FuncletCleanup, KindCallFinallyFunction); err != nil {
		return b.abort(err)
	}
	return b.add(&CallFinallyFunction{Funclet: f}), nil
}

// LocalEscape exposes vars to separately generated routines. Slot i is
// vars[i].
func (b *Builder) LocalEscape(vars ...VariableID) (NodeID, error) {
	if err := b.begin(KindLocalEscape); err != nil {
		return NoNode, err
	}
	for _, v := range vars {
		if _, err := b.variable(KindLocalEscape, v); err != nil {
			return b.abort(err)
		}
	}
	return b.add(&LocalEscape{Variables: append([]VariableID(nil), vars...)}), nil
}

// LocalRecover yields the address of an escaped slot of another list.
func (b *Builder) LocalRecover(slot EscapeSlot) (NodeID, error) {
	if err := b.begin(KindLocalRecover); err != nil {
		return NoNode, err
	}
	if slot.List == nil {
		return b.abort(newError(CodeNilNode, KindLocalRecover, "escape has no list"))
	}
	esc, ok := slot.List.Node(slot.Node).(*LocalEscape)
	if !ok {
		return b.abort(newError(CodeDanglingOperand, KindLocalRecover, "%s of %q is not a local escape", slot.Node, slot.List.Name))
	}
	if slot.Index < 0 || slot.Index >= len(esc.Variables) {
		return b.abort(newError(CodeEscapeIndex, KindLocalRecover, "slot %d out of range [0, %d)", slot.Index, len(esc.Variables)))
	}
	vr, _ := slot.List.Variable(esc.Variables[slot.Index])
	return b.add(&LocalRecover{valueBase: val(vr.Type, vr.Modifiers), Escape: slot}), nil
}
