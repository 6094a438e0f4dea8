package tac

import (
	"slices"

	"github.com/shadow-language/shadowc/internal/types"
)

// FuncletKind distinguishes catch funclets from cleanup funclets.
type FuncletKind uint8

const (
	FuncletCatch FuncletKind = iota + 1
	FuncletCleanup
)

func (k FuncletKind) String() string {
	switch k {
	case FuncletCatch:
		return "catch"
	case FuncletCleanup:
		return "cleanup"
	}
	return "?"
}

// CatchClause is one handler of a catch funclet.
type CatchClause struct {
	// Exception is the caught type.
	Exception *types.ClassType
	// Variable receives the caught value.
	Variable VariableID
	// Pad is the CatchPad node entering the clause.
	Pad NodeID
	// Label is where the clause's code starts.
	Label LabelID
}

// Funclet is one exception-handling region. Everything it relates to is
// named by ID or index, so the table holds no reference cycles.
type Funclet struct {
	ID   FuncletID
	Kind FuncletKind
	// Parent is the enclosing funclet, or NoFunclet.
	Parent FuncletID
	// LandingPad is the unwind target entering the region.
	LandingPad NodeID
	// Dispatcher is the Catch node of a catch funclet or the CleanupPad of
	// a cleanup funclet.
	Dispatcher NodeID
	Clauses    []CatchClause
	// Resume lists the labels control may continue at after the funclet.
	Resume []LabelID
}

// FuncletTable holds the funclets of one List, indexed by FuncletID.
type FuncletTable struct {
	entries []Funclet
}

// New adds a funclet.
func (t *FuncletTable) New(kind FuncletKind, parent FuncletID) FuncletID {
	id := FuncletID(len(t.entries) + 1)
	t.entries = append(t.entries, Funclet{ID: id, Kind: kind, Parent: parent})
	return id
}

// Len returns the number of funclets.
func (t *FuncletTable) Len() int { return len(t.entries) }

// Get returns a copy of a funclet.
func (t *FuncletTable) Get(id FuncletID) (Funclet, bool) {
	f := t.entry(id)
	if f == nil {
		return Funclet{}, false
	}
	c := *f
	c.Clauses = slices.Clone(f.Clauses)
	c.Resume = slices.Clone(f.Resume)
	return c, true
}

// All returns copies of every funclet in ID order.
func (t *FuncletTable) All() []Funclet {
	out := make([]Funclet, 0, len(t.entries))
	for i := range t.entries {
		f, _ := t.Get(FuncletID(i + 1))
		out = append(out, f)
	}
	return out
}

func (t *FuncletTable) entry(id FuncletID) *Funclet {
	if !id.IsValid() || int(id) > len(t.entries) {
		return nil
	}
	return &t.entries[id-1]
}

// lookup returns the funclet id, which must exist and have the given kind
// (any kind when want is zero).
func (t *FuncletTable) lookup(id FuncletID, want FuncletKind, by Kind) (*Funclet, error) {
	f := t.entry(id)
	if f == nil {
		return nil, newError(CodeBadFunclet, by, "%s does not exist", id)
	}
	if want != 0 && f.Kind != want {
		return nil, newError(CodeBadFunclet, by, "%s is a %s funclet, want %s", id, f.Kind, want)
	}
	return f, nil
}

func (f *Funclet) addResume(label LabelID) {
	if !slices.Contains(f.Resume, label) {
		f.Resume = append(f.Resume, label)
	}
}
