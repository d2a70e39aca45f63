package compiler

import (
	"testing"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelay_NonPositiveIsNoop(t *testing.T) {
	q1 := channel.New("q1", channel.Qubit)
	seq := []sequence.Entry{sequence.Wait(), sequence.X(q1, 10)}
	seqs := [][]sequence.Entry{seq}

	Delay(seqs, 0)
	Delay(seqs, -3)

	assert.Len(t, seqs[0], 2)
}

func TestDelay_InsertsIdleAfterWaitAndSync(t *testing.T) {
	q1 := channel.New("q1", channel.Qubit)
	q2 := channel.New("q2", channel.Qubit)
	pb, err := sequence.NewPulseBlock(sequence.X(q1, 10), sequence.X(q2, 10))
	require.NoError(t, err)

	seqs := [][]sequence.Entry{{
		sequence.Wait(), sequence.X(q1, 10), sequence.Sync(), pb, sequence.Wait(),
	}}

	Delay(seqs, 5)
	out := seqs[0]

	assert.Equal(t, []string{"WAIT:", "pulse:Id", "pulse:X", "SYNC:", "block:Id*Id", "block:X*X", "WAIT:"}, kinds(out))
	requireLengths(t, []float64{0, 5, 10, 0, 5, 10, 0}, out)

	id := out[1].(*sequence.Pulse)
	assert.True(t, id.IsZero)
	assert.Same(t, q1, id.Channel)
	assert.Equal(t, []*channel.Channel{q1, q2}, out[4].(*sequence.PulseBlock).Channels())
}

func TestDelay_ConsecutiveMarkers(t *testing.T) {
	q1 := channel.New("q1", channel.Qubit)
	seqs := [][]sequence.Entry{{sequence.Wait(), sequence.Sync(), sequence.X(q1, 10)}}

	Delay(seqs, 5)

	// the WAIT is followed by a marker, which has no channel to idle on
	assert.Equal(t, []string{"WAIT:", "SYNC:", "pulse:Id", "pulse:X"}, kinds(seqs[0]))
}

func TestNormalizeDelays(t *testing.T) {
	ctx, _ := logContext(t)
	a := channel.New("a", channel.Qubit)
	b := channel.New("b", channel.Qubit)
	c := channel.New("c", channel.Qubit)
	in := map[*channel.Channel]float64{a: -10, b: 5, c: 0}

	out := NormalizeDelays(ctx, in)

	assert.Equal(t, map[*channel.Channel]float64{a: 0, b: 15, c: 10}, out)
	assert.Equal(t, -10.0, in[a], "input must not be modified")
	assert.Equal(t, out, NormalizeDelays(ctx, out), "normalized delays are a fixed point")
}

func TestNormalizeDelays_AllPositiveUnchanged(t *testing.T) {
	ctx, _ := logContext(t)
	a := channel.New("a", channel.Qubit)
	b := channel.New("b", channel.Qubit)

	out := NormalizeDelays(ctx, map[*channel.Channel]float64{a: 3, b: 7})
	assert.Equal(t, map[*channel.Channel]float64{a: 3, b: 7}, out)
}

func TestNormalizeDelays_EmptyIsLogged(t *testing.T) {
	ctx, logs := logContext(t)

	out := NormalizeDelays(ctx, nil)

	require.NotNil(t, out)
	assert.Empty(t, out)
	assert.Contains(t, logs.String(), `"level":"ERROR"`)
	assert.Contains(t, logs.String(), "no delays")
}

func TestApplyChannelDelays(t *testing.T) {
	ctx, _ := logContext(t)
	q1 := channel.New("q1", channel.Qubit)
	q2 := channel.New("q2", channel.Qubit)
	programs := []*ChannelProgram{
		{Channel: q1, Seqs: [][]sequence.Entry{{sequence.Wait(), sequence.X(q1, 10)}}},
		{Channel: q2, Seqs: [][]sequence.Entry{{sequence.Wait(), sequence.X(q2, 10)}}},
	}

	ApplyChannelDelays(ctx, programs, map[*channel.Channel]float64{q1: -4, q2: 2})

	requireLengths(t, []float64{0, 10}, programs[0].Seqs[0])
	requireLengths(t, []float64{0, 6, 10}, programs[1].Seqs[0])
}

func TestApplyChannelDelays_NoWaitLeavesProgramUnshifted(t *testing.T) {
	ctx, logs := logContext(t)
	q1 := channel.New("q1", channel.Qubit)
	q2 := channel.New("q2", channel.Qubit)
	programs := []*ChannelProgram{
		{Channel: q1, Seqs: [][]sequence.Entry{{sequence.X(q1, 10)}}},
		{Channel: q2, Seqs: [][]sequence.Entry{{sequence.X(q2, 10)}}},
	}

	ApplyChannelDelays(ctx, programs, map[*channel.Channel]float64{q1: -4, q2: 2})

	requireLengths(t, []float64{10}, programs[1].Seqs[0])
	assert.Contains(t, logs.String(), "Channel delay not applied")
	assert.Contains(t, logs.String(), `"channel":"q2"`)
}
