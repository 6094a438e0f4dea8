package tac

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadow-language/shadowc/internal/types"
)

// phiCycle builds n int phis where phi i takes phi i+1 and the last takes
// the first, with seed flowing into the first from the entry block.
func phiCycle(t *testing.T, n int) (*List, NodeID, []NodeID) {
	t.Helper()
	_, b := newTestBuilder(t)
	entry := b.NewLabel("entry")
	loop := b.NewLabel("loop")
	_, err := b.Label(entry)
	require.NoError(t, err)
	seed, err := b.IntLiteral(7)
	require.NoError(t, err)
	_, err = b.Label(loop)
	require.NoError(t, err)

	phis := make([]NodeID, n)
	for i := range phis {
		phis[i], err = b.Phi(b.Registry().Int(), 0)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddIncoming(phis[0], seed, entry))
	for i := range phis {
		require.NoError(t, b.AddIncoming(phis[i], phis[(i+1)%n], loop))
	}
	l, err := b.Finish()
	require.NoError(t, err)
	require.NoError(t, Verify(l))
	return l, seed, phis
}

func phiAt(t *testing.T, l *List, id NodeID) *Phi {
	t.Helper()
	p, ok := l.Node(id).(*Phi)
	require.True(t, ok, "%s is not a phi", id)
	return p
}

func TestPhiCycleSettlesToSeed(t *testing.T) {
	l, seed, phis := phiCycle(t, 3)

	settled, depth := ResolvePhis(l)
	assert.Equal(t, 3, settled)
	assert.LessOrEqual(t, depth, 3)

	for _, id := range phis {
		p := phiAt(t, l, id)
		assert.True(t, p.Resolved())
		assert.Equal(t, seed, p.ResolvedValue(), "phi %s", id)
	}

	settled, _ = ResolvePhis(l)
	assert.Zero(t, settled, "a second pass has nothing left")
}

func TestPhiCycleDepthIsBoundedByCycleLength(t *testing.T) {
	for _, n := range []int{1, 2, 5, 16} {
		t.Run(fmt.Sprintf("cycle_%d", n), func(t *testing.T) {
			l, seed, phis := phiCycle(t, n)
			settled, depth := ResolvePhis(l)
			assert.Equal(t, n, settled)
			assert.LessOrEqual(t, depth, n)
			for _, id := range phis {
				assert.Equal(t, seed, phiAt(t, l, id).ResolvedValue())
			}
		})
	}
}

func TestPhiUpdateSkipsActiveNodes(t *testing.T) {
	l, _, phis := phiCycle(t, 2)
	set := NewUpdateSet()
	set.enter(phis[0])
	assert.False(t, phiAt(t, l, phis[0]).Update(l, set))
	assert.Equal(t, 1, set.Depth())
	assert.True(t, set.Contains(phis[0]))
	assert.False(t, set.Contains(phis[1]))
}

func TestPhiConflictResolvesToItself(t *testing.T) {
	_, b := newTestBuilder(t)
	left, right := b.NewLabel("left"), b.NewLabel("right")
	one, _ := b.IntLiteral(1)
	two, _ := b.IntLiteral(2)
	a, err := b.Phi(b.Registry().Int(), 0)
	require.NoError(t, err)
	c, err := b.Phi(b.Registry().Int(), 0)
	require.NoError(t, err)
	require.NoError(t, b.AddIncoming(a, one, left))
	require.NoError(t, b.AddIncoming(a, c, right))
	require.NoError(t, b.AddIncoming(c, two, left))
	require.NoError(t, b.AddIncoming(c, a, right))

	l := b.List()
	settled, _ := ResolvePhis(l)
	assert.Equal(t, 2, settled)
	assert.Equal(t, a, phiAt(t, l, a).ResolvedValue())
	assert.Equal(t, c, phiAt(t, l, c).ResolvedValue())
}

func TestTrivialPhis(t *testing.T) {
	_, b := newTestBuilder(t)
	from := b.NewLabel("from")
	x, _ := b.IntLiteral(3)

	same, _ := b.Phi(b.Registry().Int(), 0)
	require.NoError(t, b.AddIncoming(same, x, from))
	require.NoError(t, b.AddIncoming(same, x, from))

	self, _ := b.Phi(b.Registry().Int(), 0)
	require.NoError(t, b.AddIncoming(self, self, from))

	empty, _ := b.Phi(b.Registry().Int(), 0)

	chained, _ := b.Phi(b.Registry().Int(), 0)
	require.NoError(t, b.AddIncoming(chained, same, from))

	l := b.List()
	ResolvePhis(l)
	assert.Equal(t, x, phiAt(t, l, same).ResolvedValue())
	assert.Equal(t, self, phiAt(t, l, self).ResolvedValue())
	assert.Equal(t, empty, phiAt(t, l, empty).ResolvedValue())
	assert.Equal(t, x, phiAt(t, l, chained).ResolvedValue())
}

func TestAddIncomingErrors(t *testing.T) {
	reg, b := newTestBuilder(t)
	from := b.NewLabel("from")
	x, _ := b.IntLiteral(3)
	p, _ := b.Phi(reg.Int(), 0)
	l := b.List()

	assert.ErrorIs(t, NewBuilder(reg, l).AddIncoming(x, x, from), ErrDanglingOperand)
	assert.ErrorIs(t, NewBuilder(reg, l).AddIncoming(p, x, LabelID(7)), ErrBadLabel)
	s, _ := NewBuilder(reg, l).StringLiteral("s")
	assert.ErrorIs(t, NewBuilder(reg, l).AddIncoming(p, s, from), ErrOperandType)

	require.NoError(t, NewBuilder(reg, l).AddIncoming(p, x, from))
	ResolvePhis(l)
	assert.ErrorIs(t, NewBuilder(reg, l).AddIncoming(p, x, from), ErrOperandType)
	assert.Len(t, phiAt(t, l, p).Incoming(), 1)
}

func TestSubstituteRedirectsOperands(t *testing.T) {
	l, seed, phis := phiCycle(t, 3)
	b := NewBuilder(types.NewRegistry(), l)
	sum, err := b.Binary(OpAdd, phis[2], seed)
	require.NoError(t, err)

	ResolvePhis(l)
	out := Substitute(l)
	require.Equal(t, l.Len(), out.Len())

	got := out.Node(sum).Operands()
	assert.Equal(t, []NodeID{seed, seed}, got)
	assert.Equal(t, []NodeID{phis[2], seed}, l.Node(sum).Operands(), "the source list is unchanged")
	assert.NotSame(t, l.Node(sum), out.Node(sum))

	for _, id := range phis {
		assert.Equal(t, seed, phiAt(t, out, id).ResolvedValue())
	}
}

func TestAddIncomingRequiresPhiType(t *testing.T) {
	reg, b := newTestBuilder(t)
	entry, join := b.NewLabel("entry"), b.NewLabel("join")
	_, err := b.Label(entry)
	require.NoError(t, err)
	s, err := b.StringLiteral("s")
	require.NoError(t, err)
	up, err := b.Cast(CastUpcast, s, reg.Object())
	require.NoError(t, err)
	_, err = b.Branch(join)
	require.NoError(t, err)
	_, err = b.Label(join)
	require.NoError(t, err)
	p, err := b.Phi(reg.Object(), 0)
	require.NoError(t, err)

	l := b.List()
	before := l.Len()
	err = NewBuilder(reg, l).AddIncoming(p, s, entry)
	assert.ErrorIs(t, err, ErrOperandType)
	assert.Contains(t, err.Error(), "cast it in the predecessor")
	assert.Equal(t, before, l.Len(), "no cast is appended after the phi")
	assert.Empty(t, phiAt(t, l, p).Incoming())

	require.NoError(t, b.AddIncoming(p, up, entry))
	_, err = b.Finish()
	require.NoError(t, err)
	require.NoError(t, Verify(l))
	assert.Equal(t, []Incoming{{Value: up, Label: entry}}, phiAt(t, l, p).Incoming())
}
