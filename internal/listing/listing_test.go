package listing

import (
	"testing"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	q1 := channel.New("q1", channel.Qubit)
	meas := channel.New("M-q1", channel.Measurement)
	prog := &compiler.Program{Channels: []*compiler.ChannelProgram{
		{Channel: q1, Seqs: [][]sequence.Entry{{sequence.Wait(), sequence.X(q1, 20), sequence.Id(q1, 40)}}},
		{Channel: meas, Seqs: [][]sequence.Entry{{sequence.Wait(), sequence.Id(meas, 20), sequence.TAPulse("MEAS", meas, 40, 1)}}},
	}}

	out := Render(prog)

	assert.Contains(t, out, "q1 (qubit)")
	assert.Contains(t, out, "M-q1 (measurement)")
	assert.Contains(t, out, "seq 0: 3 entries, 60 long")
	assert.Contains(t, out, "WAIT")
	assert.Contains(t, out, "MEAS")
	assert.Contains(t, out, "╭")
}

func TestRender_Empty(t *testing.T) {
	assert.Contains(t, Render(&compiler.Program{}), "no channels")
	assert.Contains(t, Render(nil), "no channels")
}
