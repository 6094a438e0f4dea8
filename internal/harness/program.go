package harness

import (
	"fmt"
	"go/constant"
	"go/token"
	"strconv"
	"strings"

	"github.com/shadow-language/shadowc/internal/tac"
	"github.com/shadow-language/shadowc/internal/types"
)

// stepFunc performs one step against the builder.
type stepFunc func(pb *programBuilder, st Step) (tac.NodeID, error)

var stepOps = map[string]stepFunc{
	"label":         (*programBuilder).label,
	"branch":        (*programBuilder).branch,
	"branch_if":     (*programBuilder).branchIf,
	"return":        (*programBuilder).ret,
	"throw":         (*programBuilder).throw,
	"parameter":     (*programBuilder).parameter,
	"literal":       (*programBuilder).literal,
	"null":          (*programBuilder).null,
	"not":           (*programBuilder).not,
	"unary":         (*programBuilder).unary,
	"binary":        (*programBuilder).binary,
	"cast":          (*programBuilder).cast,
	"call":          (*programBuilder).call,
	"phi":           (*programBuilder).phi,
	"sequence":      (*programBuilder).sequence,
	"element":       (*programBuilder).element,
	"allocate":      (*programBuilder).allocate,
	"local_load":    (*programBuilder).localLoad,
	"local_store":   (*programBuilder).localStore,
	"field_load":    (*programBuilder).fieldLoad,
	"field_store":   (*programBuilder).fieldStore,
	"element_load":  (*programBuilder).elementLoad,
	"element_store": (*programBuilder).elementStore,
	"new_object":    (*programBuilder).newObject,
	"new_array":     (*programBuilder).newArray,
	"length":        (*programBuilder).length,
}

// stepError marks a failure in the scenario itself rather than in the
// code under test.
type stepError struct {
	Step    int
	Message string
}

func (e *stepError) Error() string {
	return fmt.Sprintf("step[%d]: %s", e.Step, e.Message)
}

// programBuilder drives a tac.Builder from scenario steps.
type programBuilder struct {
	b        *tac.Builder
	resolver *types.Resolver
	values   map[string]tac.NodeID
	labels   map[string]tac.LabelID
	vars     map[string]tac.VariableID
	pending  []pendingIncoming
	step     int
}

type pendingIncoming struct {
	step int
	phi  tac.NodeID
	in   Incoming
}

// newList creates the list a program is built into, taking the signature
// from the declared method when the program names one.
func newList(r *types.Resolver, p *Program) (*tac.List, error) {
	if p.Class != "" {
		t, err := r.Resolve(p.Class)
		if err != nil {
			return nil, fmt.Errorf("program class: %w", err)
		}
		c, ok := t.(*types.ClassType)
		if !ok {
			return nil, fmt.Errorf("program class %s is not a class", p.Class)
		}
		methods := c.MethodsNamed(p.Method)
		if len(methods) != 1 {
			return nil, fmt.Errorf("program method %s.%s: want one declaration, found %d", p.Class, p.Method, len(methods))
		}
		name := p.Name
		if name == "" {
			name = methods[0].SymbolName()
		}
		return tac.NewList(name, methods[0]), nil
	}

	params := types.NewSequenceType()
	for _, v := range p.Params {
		t, mods, err := resolveVar(r, v)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", v.Name, err)
		}
		params.Append(t, mods)
	}
	returns, err := resolveSequence(r, p.Returns)
	if err != nil {
		return nil, fmt.Errorf("returns: %w", err)
	}
	name := p.Name
	if name == "" {
		name = "program"
	}
	sig := types.NewMethodSignature(name, types.Public, params, returns)
	sig.Static = true
	return tac.NewList(name, sig), nil
}

func resolveVar(r *types.Resolver, v Var) (types.Type, types.Modifiers, error) {
	t, err := r.Resolve(v.Type)
	if err != nil {
		return nil, 0, err
	}
	var mods types.Modifiers
	for _, name := range v.Modifiers {
		m, ok := types.ParseModifier(name)
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier %q", name)
		}
		mods |= m
	}
	return t, mods, nil
}

// build runs every step. A non-nil error from a builder call is returned
// as is; scenario mistakes come back as *stepError.
func (pb *programBuilder) build(p *Program) error {
	for _, v := range p.Locals {
		t, mods, err := resolveVar(pb.resolver, v)
		if err != nil {
			return &stepError{Step: -1, Message: fmt.Sprintf("local %s: %v", v.Name, err)}
		}
		pb.vars[v.Name] = pb.b.Variable(v.Name, t, mods)
	}
	for i, st := range p.Steps {
		pb.step = i
		id, err := stepOps[st.Op](pb, st)
		if err != nil {
			return err
		}
		if st.As != "" {
			pb.values[st.As] = id
		}
	}
	for _, in := range pb.pending {
		pb.step = in.step
		v, err := pb.value(in.in.Value)
		if err != nil {
			return err
		}
		if err := pb.b.AddIncoming(in.phi, v, pb.labelOf(in.in.From)); err != nil {
			return err
		}
	}
	return nil
}

func (pb *programBuilder) fail(format string, args ...any) error {
	return &stepError{Step: pb.step, Message: fmt.Sprintf(format, args...)}
}

func (pb *programBuilder) value(name string) (tac.NodeID, error) {
	id, ok := pb.values[name]
	if !ok {
		return tac.NoNode, pb.fail("no value named %q", name)
	}
	return id, nil
}

func (pb *programBuilder) args(st Step, n int) ([]tac.NodeID, error) {
	if len(st.Args) < n {
		return nil, pb.fail("%s needs at least %d args", st.Op, n)
	}
	out := make([]tac.NodeID, len(st.Args))
	for i, name := range st.Args {
		id, err := pb.value(name)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func (pb *programBuilder) labelOf(name string) tac.LabelID {
	if id, ok := pb.labels[name]; ok {
		return id
	}
	id := pb.b.NewLabel(name)
	pb.labels[name] = id
	return id
}

func (pb *programBuilder) variable(st Step) (tac.VariableID, error) {
	v, ok := pb.vars[st.Var]
	if !ok {
		return 0, pb.fail("no local named %q", st.Var)
	}
	return v, nil
}

func (pb *programBuilder) typeOf(st Step) (types.Type, error) {
	if st.Type == "" {
		return nil, pb.fail("%s needs a type", st.Op)
	}
	t, err := pb.resolver.Resolve(st.Type)
	if err != nil {
		return nil, pb.fail("%v", err)
	}
	return t, nil
}

func (pb *programBuilder) label(st Step) (tac.NodeID, error) {
	return pb.b.Label(pb.labelOf(st.Label))
}

func (pb *programBuilder) branch(st Step) (tac.NodeID, error) {
	if len(st.Targets) != 1 {
		return tac.NoNode, pb.fail("branch needs one target")
	}
	return pb.b.Branch(pb.labelOf(st.Targets[0]))
}

func (pb *programBuilder) branchIf(st Step) (tac.NodeID, error) {
	if len(st.Targets) != 2 {
		return tac.NoNode, pb.fail("branch_if needs two targets")
	}
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.BranchIf(args[0], pb.labelOf(st.Targets[0]), pb.labelOf(st.Targets[1]))
}

func (pb *programBuilder) ret(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 0)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Return(args...)
}

func (pb *programBuilder) throw(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Throw(args[0])
}

func (pb *programBuilder) parameter(st Step) (tac.NodeID, error) {
	return pb.b.Parameter(st.Index)
}

func (pb *programBuilder) literal(st Step) (tac.NodeID, error) {
	t, err := pb.typeOf(st)
	if err != nil {
		return tac.NoNode, err
	}
	v, err := parseConstant(t, st.Value)
	if err != nil {
		return tac.NoNode, pb.fail("%v", err)
	}
	return pb.b.Literal(t, v)
}

// parseConstant reads a literal value. Strings are taken verbatim;
// numbers use Go literal syntax.
func parseConstant(t types.Type, s string) (constant.Value, error) {
	switch {
	case types.IsString(t):
		return constant.MakeString(s), nil
	case types.IsBoolean(t):
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("bad boolean %q", s)
		}
		return constant.MakeBool(b), nil
	}
	tok := token.INT
	if strings.ContainsAny(s, ".eE") && !strings.HasPrefix(s, "0x") {
		tok = token.FLOAT
	}
	v := constant.MakeFromLiteral(s, tok, 0)
	if v.Kind() == constant.Unknown {
		return nil, fmt.Errorf("bad number %q", s)
	}
	return v, nil
}

func (pb *programBuilder) null(Step) (tac.NodeID, error) {
	return pb.b.NullLiteral()
}

func (pb *programBuilder) not(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Not(args[0])
}

func (pb *programBuilder) unary(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	var op tac.UnaryOp
	switch st.Operator {
	case "-":
		op = tac.OpNegate
	case "~":
		op = tac.OpComplement
	default:
		return tac.NoNode, pb.fail("unknown unary operator %q", st.Operator)
	}
	return pb.b.Unary(op, args[0])
}

func (pb *programBuilder) binary(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 2)
	if err != nil {
		return tac.NoNode, err
	}
	op, ok := tac.ParseBinaryOp(st.Operator)
	if !ok {
		return tac.NoNode, pb.fail("unknown binary operator %q", st.Operator)
	}
	return pb.b.Binary(op, args[0], args[1])
}

func (pb *programBuilder) cast(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	kind, ok := tac.ParseCastKind(st.Cast)
	if !ok {
		return tac.NoNode, pb.fail("unknown cast kind %q", st.Cast)
	}
	t, err := pb.typeOf(st)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Cast(kind, args[0], t)
}

// call resolves st.Method, written "Class.method", against the argument
// types. The receiver of an instance method is the first argument.
func (pb *programBuilder) call(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 0)
	if err != nil {
		return tac.NoNode, err
	}
	owner, name, ok := strings.Cut(st.Method, ".")
	if !ok {
		return tac.NoNode, pb.fail("method %q must be written Class.method", st.Method)
	}
	t, err := pb.resolver.Resolve(owner)
	if err != nil {
		return tac.NoNode, pb.fail("%v", err)
	}
	c, ok := t.(*types.ClassType)
	if !ok {
		return tac.NoNode, pb.fail("%s is not a class", owner)
	}
	candidates := c.MethodsNamed(name)
	if len(candidates) == 0 {
		return tac.NoNode, pb.fail("%s has no method %s", owner, name)
	}
	argTypes := types.NewSequenceType()
	for _, id := range args {
		if v, ok := pb.b.List().Value(id); ok {
			argTypes.Append(v.Type(), v.Modifiers())
		}
	}
	for _, m := range candidates {
		if full := m.FullParams(); full.Len() == len(args) && full.CanAccept(argTypes) {
			return pb.b.Call(m, args...)
		}
	}
	return pb.b.Call(candidates[0], args...)
}

func (pb *programBuilder) phi(st Step) (tac.NodeID, error) {
	t, err := pb.typeOf(st)
	if err != nil {
		return tac.NoNode, err
	}
	id, err := pb.b.Phi(t, 0)
	if err != nil {
		return tac.NoNode, err
	}
	for _, in := range st.Incoming {
		pb.pending = append(pb.pending, pendingIncoming{step: pb.step, phi: id, in: in})
	}
	return id, nil
}

func (pb *programBuilder) sequence(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 0)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Sequence(args...)
}

func (pb *programBuilder) element(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.SequenceElement(args[0], st.Index)
}

func (pb *programBuilder) allocate(st Step) (tac.NodeID, error) {
	v, err := pb.variable(st)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.AllocateVariable(v)
}

func (pb *programBuilder) localLoad(st Step) (tac.NodeID, error) {
	v, err := pb.variable(st)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.LocalLoad(v)
}

func (pb *programBuilder) localStore(st Step) (tac.NodeID, error) {
	v, err := pb.variable(st)
	if err != nil {
		return tac.NoNode, err
	}
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.LocalStore(v, args[0])
}

func (pb *programBuilder) fieldLoad(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Load(tac.FieldRef(args[0], st.Field))
}

func (pb *programBuilder) fieldStore(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 2)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Store(tac.FieldRef(args[0], st.Field), args[1])
}

// elementLoad takes the array followed by one index per dimension.
func (pb *programBuilder) elementLoad(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 2)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Load(tac.ElementRef(args[0], args[1:]...))
}

// elementStore takes the array, its indices, and the stored value last.
func (pb *programBuilder) elementStore(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 3)
	if err != nil {
		return tac.NoNode, err
	}
	last := len(args) - 1
	return pb.b.Store(tac.ElementRef(args[0], args[1:last]...), args[last])
}

func (pb *programBuilder) newObject(st Step) (tac.NodeID, error) {
	t, err := pb.typeOf(st)
	if err != nil {
		return tac.NoNode, err
	}
	c, ok := t.(*types.ClassType)
	if !ok {
		return tac.NoNode, pb.fail("%s is not a class", st.Type)
	}
	return pb.b.NewObject(c)
}

func (pb *programBuilder) newArray(st Step) (tac.NodeID, error) {
	t, err := pb.typeOf(st)
	if err != nil {
		return tac.NoNode, err
	}
	at, ok := t.(*types.ArrayType)
	if !ok {
		return tac.NoNode, pb.fail("%s is not an array type", st.Type)
	}
	lengths, err := pb.args(st, 0)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.NewArray(at, lengths...)
}

func (pb *programBuilder) length(st Step) (tac.NodeID, error) {
	args, err := pb.args(st, 1)
	if err != nil {
		return tac.NoNode, err
	}
	return pb.b.Length(args[0], st.Index)
}
