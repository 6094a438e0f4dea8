// Package tacdump renders TAC node lists as text.
//
// Each node takes one line. Value nodes read
//
//	%7 = not %6 : boolean
//
// other nodes omit the result, and labels are written flush-left. The
// variables of the list come first and its funclet table last, so two
// lists dump identically exactly when they were built identically.
package tacdump

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shadow-language/shadowc/internal/tac"
	"github.com/shadow-language/shadowc/internal/types"
)

// Dump renders l.
func Dump(l *tac.List) (string, error) {
	var buf bytes.Buffer
	if err := Fprint(&buf, l); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fprint writes the rendering of l to w.
func Fprint(w io.Writer, l *tac.List) error {
	p := &printer{list: l}
	p.header()
	if entry := l.Entry(); entry.IsValid() {
		if err := tac.Walk(l, entry, p); err != nil {
			return err
		}
	}
	p.funclets()
	_, err := w.Write(p.buf.Bytes())
	return err
}

type printer struct {
	tac.BaseVisitor
	list *tac.List
	buf  bytes.Buffer
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) header() {
	p.printf("unit %s", p.list.Name)
	if m := p.list.Method; m != nil {
		p.printf(" %s", m)
	}
	p.printf("\n")
	for i, v := range p.list.Variables() {
		p.printf("  var v%d %s : %s\n", i+1, v.Name, types.ModifiedType{Type: v.Type, Modifiers: v.Modifiers})
	}
}

// value writes a value node.
func (p *printer) value(n tac.Value, op string, args ...string) error {
	p.printf("  %s = %s : %s\n", n.ID(), join(op, args), tac.ModifiedType(n))
	return nil
}

// stmt writes a node without a result.
func (p *printer) stmt(op string, args ...string) error {
	p.printf("  %s\n", join(op, args))
	return nil
}

func join(op string, args []string) string {
	if len(args) == 0 {
		return op
	}
	return op + " " + strings.Join(args, " ")
}

func (p *printer) label(id tac.LabelID) string {
	name := p.list.LabelName(id)
	if name == "" || name == id.String() {
		return id.String()
	}
	return id.String() + "(" + name + ")"
}

func ids(list []tac.NodeID) string {
	parts := make([]string, len(list))
	for i, id := range list {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}

func variable(v tac.VariableID) string { return fmt.Sprintf("v%d", v) }

func method(m *types.MethodSignature) string {
	if m.Outer == nil {
		return m.Name
	}
	return m.Outer.Name() + "." + m.Name
}

func ref(r tac.Ref) string {
	switch r.Kind {
	case tac.RefVariable:
		return variable(r.Variable)
	case tac.RefField:
		return r.Object.String() + "." + r.Field
	case tac.RefElement:
		return r.Object.String() + "[" + ids(r.Indices) + "]"
	case tac.RefGlobal:
		return "@" + r.Global
	case tac.RefRecovered:
		return "*" + r.Object.String()
	}
	return "?"
}

func (p *printer) VisitLabel(n *tac.Label) error {
	p.printf("%s:\n", p.label(n.Label))
	return nil
}

func (p *printer) VisitLabelAddress(n *tac.LabelAddress) error {
	return p.value(n, "label_address", p.label(n.Label))
}

func (p *printer) VisitBranch(n *tac.Branch) error {
	switch n.Form {
	case tac.BranchConditional:
		return p.stmt("branch", n.Condition().String(), "?", p.label(n.Targets[0]), ":", p.label(n.Targets[1]))
	case tac.BranchIndirect:
		targets := make([]string, len(n.Targets))
		for i, t := range n.Targets {
			targets[i] = p.label(t)
		}
		return p.stmt("branch", "indirect", n.Address().String(), "["+strings.Join(targets, ", ")+"]")
	}
	return p.stmt("branch", p.label(n.Targets[0]))
}

func (p *printer) VisitLiteral(n *tac.Literal) error {
	if n.Value == nil {
		return p.value(n, "literal", "null")
	}
	return p.value(n, "literal", n.Value.ExactString())
}

func (p *printer) VisitParameter(n *tac.Parameter) error {
	return p.value(n, "parameter", fmt.Sprint(n.Index))
}

func (p *printer) VisitAllocateVariable(n *tac.AllocateVariable) error {
	return p.stmt("allocate_variable", variable(n.Variable))
}

func (p *printer) VisitLocalLoad(n *tac.LocalLoad) error {
	return p.value(n, "local_load", variable(n.Variable))
}

func (p *printer) VisitLocalStore(n *tac.LocalStore) error {
	return p.stmt("local_store", variable(n.Variable)+",", n.Value().String())
}

func (p *printer) VisitLoad(n *tac.Load) error {
	return p.value(n, "load", ref(n.Ref()))
}

func (p *printer) VisitStore(n *tac.Store) error {
	return p.stmt("store", ref(n.Ref())+",", n.Value().String())
}

func (p *printer) VisitBinary(n *tac.Binary) error {
	return p.value(n, "binary", n.Left().String(), n.Op.String(), n.Right().String())
}

func (p *printer) VisitUnary(n *tac.Unary) error {
	return p.value(n, "unary", n.Op.String()+n.Input().String())
}

func (p *printer) VisitNot(n *tac.Not) error {
	return p.value(n, "not", n.Input().String())
}

func (p *printer) VisitCast(n *tac.Cast) error {
	kind := n.CastKind.String()
	if n.Implicit {
		kind = "implicit " + kind
	}
	return p.value(n, "cast", kind, n.Input().String())
}

func (p *printer) VisitCall(n *tac.Call) error {
	return p.value(n, "call", method(n.Method)+"("+ids(n.Args())+")")
}

func (p *printer) VisitReturn(n *tac.Return) error {
	if len(n.Values()) == 0 {
		return p.stmt("return")
	}
	return p.stmt("return", ids(n.Values()))
}

func (p *printer) VisitNewObject(n *tac.NewObject) error {
	return p.value(n, "new_object", n.Class.Name())
}

func (p *printer) VisitNewArray(n *tac.NewArray) error {
	return p.value(n, "new_array", "["+ids(n.Lengths())+"]")
}

func (p *printer) VisitSequence(n *tac.Sequence) error {
	return p.value(n, "sequence", "("+ids(n.Elements())+")")
}

func (p *printer) VisitSequenceElement(n *tac.SequenceElement) error {
	return p.value(n, "sequence_element", fmt.Sprintf("%s[%d]", n.Sequence(), n.Index))
}

func (p *printer) VisitPhi(n *tac.Phi) error {
	in := n.Incoming()
	args := make([]string, len(in))
	for i, x := range in {
		args[i] = "[" + x.Value.String() + ", " + p.label(x.Label) + "]"
	}
	s := strings.Join(args, " ")
	if v := n.ResolvedValue(); v.IsValid() && v != n.ID() {
		s += " => " + v.String()
	}
	return p.value(n, "phi", s)
}

func (p *printer) VisitTypeID(n *tac.TypeID) error {
	return p.value(n, "type_id", n.Input().String())
}

func (p *printer) VisitClass(n *tac.Class) error {
	return p.value(n, "class", n.ClassOf.Name())
}

func (p *printer) VisitBaseClass(n *tac.BaseClass) error {
	return p.value(n, "base_class", n.Input().String())
}

func (p *printer) VisitClassData(n *tac.ClassData) error {
	return p.value(n, "class_data", n.ClassOf.Name())
}

func (p *printer) VisitMethodName(n *tac.MethodName) error {
	return p.value(n, "method_name", method(n.Method))
}

func (p *printer) VisitMethodPointer(n *tac.MethodPointer) error {
	return p.value(n, "method_pointer", n.Input().String(), "as", method(n.Method))
}

func (p *printer) VisitMethodTable(n *tac.MethodTable) error {
	return p.value(n, "method_table", n.Input().String())
}

func (p *printer) VisitChangeReferenceCount(n *tac.ChangeReferenceCount) error {
	delta := "-1"
	if n.Increment {
		delta = "+1"
	}
	return p.stmt("change_reference_count", n.Input().String(), delta)
}

func (p *printer) VisitCopyMemory(n *tac.CopyMemory) error {
	return p.stmt("copy_memory", ids([]tac.NodeID{n.Destination(), n.Source(), n.Size()}))
}

func (p *printer) VisitLongToPointer(n *tac.LongToPointer) error {
	return p.value(n, "long_to_pointer", n.Input().String())
}

func (p *printer) VisitPointerToLong(n *tac.PointerToLong) error {
	return p.value(n, "pointer_to_long", n.Input().String())
}

func (p *printer) VisitLength(n *tac.Length) error {
	return p.value(n, "length", n.Input().String(), "dim", fmt.Sprint(n.Dimension))
}

func (p *printer) VisitThrow(n *tac.Throw) error {
	return p.stmt("throw", n.Input().String())
}

func (p *printer) VisitResume(n *tac.Resume) error {
	return p.stmt("resume", n.Input().String())
}

func (p *printer) VisitLandingPad(n *tac.LandingPad) error {
	return p.stmt("landing_pad", n.Funclet.String())
}

func (p *printer) VisitCatch(n *tac.Catch) error {
	return p.stmt("catch", n.Funclet.String())
}

func (p *printer) VisitCatchPad(n *tac.CatchPad) error {
	return p.value(n, "catch_pad", n.Funclet.String(), "clause", fmt.Sprint(n.Clause))
}

func (p *printer) VisitCatchRet(n *tac.CatchRet) error {
	return p.stmt("catch_ret", n.Funclet.String(), "clause", fmt.Sprint(n.Clause), "->", p.label(n.Label))
}

func (p *printer) VisitCleanupPad(n *tac.CleanupPad) error {
	return p.stmt("cleanup_pad", n.Funclet.String())
}

func (p *printer) VisitCleanupRet(n *tac.CleanupRet) error {
	if !n.Unwind.IsValid() {
		return p.stmt("cleanup_ret", n.Funclet.String())
	}
	return p.stmt("cleanup_ret", n.Funclet.String(), "->", p.label(n.Unwind))
}

func (p *printer) VisitCallFinallyFunction(n *tac.CallFinallyFunction) error {
	return p.stmt("call_finally_function", n.Funclet.String())
}

func (p *printer) VisitLocalEscape(n *tac.LocalEscape) error {
	vars := make([]string, len(n.Variables))
	for i, v := range n.Variables {
		vars[i] = variable(v)
	}
	return p.stmt("local_escape", strings.Join(vars, ", "))
}

func (p *printer) VisitLocalRecover(n *tac.LocalRecover) error {
	e := n.Escape
	name := "?"
	if e.List != nil {
		name = e.List.Name
	}
	return p.value(n, "local_recover", fmt.Sprintf("%s:%s[%d]", name, e.Node, e.Index))
}

func (p *printer) funclets() {
	table := p.list.Funclets()
	if table.Len() == 0 {
		return
	}
	p.printf("funclets:\n")
	for _, f := range table.All() {
		p.printf("  %s %s", f.ID, f.Kind)
		if f.Parent.IsValid() {
			p.printf(" in %s", f.Parent)
		}
		if f.LandingPad.IsValid() {
			p.printf(" pad %s", f.LandingPad)
		}
		if f.Dispatcher.IsValid() {
			p.printf(" entry %s", f.Dispatcher)
		}
		p.printf("\n")
		for i, c := range f.Clauses {
			p.printf("    clause %d %s %s at %s -> %s\n", i, c.Exception.Name(), variable(c.Variable), c.Pad, p.label(c.Label))
		}
		if len(f.Resume) > 0 {
			labels := make([]string, len(f.Resume))
			for i, l := range f.Resume {
				labels[i] = p.label(l)
			}
			p.printf("    resume %s\n", strings.Join(labels, ", "))
		}
	}
}
