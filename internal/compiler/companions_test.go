package compiler

import (
	"testing"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddGatePulses_SinglePulse(t *testing.T) {
	lib := testLibrary(t)
	q1, gate := lib.MustGet("q1"), lib.MustGet("q1-gate")

	seq, err := AddGatePulses([]sequence.Entry{sequence.X(q1, 0), sequence.Id(q1, 30)})
	require.NoError(t, err)

	pb, ok := seq[0].(*sequence.PulseBlock)
	require.True(t, ok, "non-zero pulse is grouped with its blanking pulse")
	blank, ok := pb.Get(gate)
	require.True(t, ok)
	assert.Equal(t, "BLANK", blank.Label)
	assert.Equal(t, 20.0, blank.Length)
	assert.False(t, blank.IsZero)

	_, isPulse := seq[1].(*sequence.Pulse)
	assert.True(t, isPulse, "idle pulses get no gate")
}

func TestAddGatePulses_Block(t *testing.T) {
	lib := testLibrary(t)
	q1, q2, q3 := lib.MustGet("q1"), lib.MustGet("q2"), lib.MustGet("q3")
	q1Gate, q2Gate := lib.MustGet("q1-gate"), lib.MustGet("q2-gate")

	pb, err := sequence.NewPulseBlock(sequence.X(q1, 0), sequence.X(q2, 40), sequence.X(q3, 0))
	require.NoError(t, err)

	seq, err := AddGatePulses([]sequence.Entry{pb})
	require.NoError(t, err)

	got := seq[0].(*sequence.PulseBlock)
	assert.Equal(t, []*channel.Channel{q1, q2, q3, q1Gate, q2Gate}, got.Channels())
	p, _ := got.Get(q2Gate)
	assert.Equal(t, 40.0, p.Length)
}

func TestAddGatePulses_GateAlreadyPresent(t *testing.T) {
	lib := testLibrary(t)
	q1, gate := lib.MustGet("q1"), lib.MustGet("q1-gate")

	pb, err := sequence.NewPulseBlock(sequence.X(q1, 0), sequence.Blank(gate, 50))
	require.NoError(t, err)

	seq, err := AddGatePulses([]sequence.Entry{pb})
	require.NoError(t, err)

	assert.Same(t, pb, seq[0])
	assert.Equal(t, 2, pb.Len())
}

func TestAddGatePulses_SharedGate(t *testing.T) {
	gate := channel.New("gate", channel.Marker)
	a := channel.New("a", channel.Qubit, channel.WithGate(gate))
	b := channel.New("b", channel.Qubit, channel.WithGate(gate))

	pb, err := sequence.NewPulseBlock(sequence.X(a, 10), sequence.X(b, 10))
	require.NoError(t, err)

	seq, err := AddGatePulses([]sequence.Entry{pb})
	require.NoError(t, err)
	assert.Equal(t, 3, seq[0].(*sequence.PulseBlock).Len())
}

func TestAddGatePulses_RecursesIntoCompoundGates(t *testing.T) {
	lib := testLibrary(t)
	q1 := lib.MustGet("q1")
	gate := &sequence.CompoundGate{Label: "CNOT", Seq: []sequence.Entry{
		&sequence.CompoundGate{Label: "inner", Seq: []sequence.Entry{sequence.X(q1, 0)}},
	}}

	_, err := AddGatePulses([]sequence.Entry{gate})
	require.NoError(t, err)

	inner := gate.Seq[0].(*sequence.CompoundGate)
	assert.IsType(t, &sequence.PulseBlock{}, inner.Seq[0])
}

func TestAddParametricPulses(t *testing.T) {
	lib := testLibrary(t)
	q1, q2, par := lib.MustGet("q1"), lib.MustGet("q2"), lib.MustGet("q2-par")

	seq, err := AddParametricPulses([]sequence.Entry{sequence.X(q2, 35), sequence.X(q1, 0)})
	require.NoError(t, err)

	pb := seq[0].(*sequence.PulseBlock)
	drive, ok := pb.Get(par)
	require.True(t, ok)
	assert.Equal(t, "X", drive.Label)
	assert.Equal(t, 35.0, drive.Length)

	assert.IsType(t, &sequence.Pulse{}, seq[1], "q1 has no parametric channel")
}
