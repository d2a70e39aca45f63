package compiler

import (
	"math"

	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

const twoPi = 2 * math.Pi

// PropagateFrameChanges folds the running frame into every pulse phase in
// sequence order. After a pulse, the frame advances by its frame change and
// by the phase a detuned drive accumulates over its length.
func PropagateFrameChanges(seq []sequence.Entry) []sequence.Entry {
	var frame float64
	for _, e := range seq {
		p, ok := e.(*sequence.Pulse)
		if !ok {
			continue
		}
		p.Phase = modTwoPi(frame + p.Phase)
		// negative-frequency reference
		frame += p.FrameChange - twoPi*p.Frequency*p.Length
	}
	return seq
}

// QuantizePhase rounds every pulse phase to the nearest multiple of
// precision radians, ties to even. A non-positive precision is a no-op.
func QuantizePhase(seqs [][]sequence.Entry, precision float64) [][]sequence.Entry {
	if precision <= 0 {
		return seqs
	}
	for e := range sequence.FlattenAll(seqs) {
		p, ok := e.(*sequence.Pulse)
		if !ok {
			continue
		}
		p.Phase = precision * math.RoundToEven(modTwoPi(p.Phase)/precision)
	}
	return seqs
}

// modTwoPi wraps x into [0, 2π).
func modTwoPi(x float64) float64 {
	m := math.Mod(x, twoPi)
	if m < 0 {
		m += twoPi
	}
	return m
}
