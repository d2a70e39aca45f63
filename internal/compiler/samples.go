package compiler

import (
	"math"

	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// ConvertLengthsToSamples converts every pulse length from time to a sample
// count at samplingRate, truncated down to a multiple of quantization.
// Pulses are converted independently; rounding error is not carried over.
func ConvertLengthsToSamples(seqs [][]sequence.Entry, samplingRate float64, quantization int) [][]sequence.Entry {
	for e := range sequence.FlattenAll(seqs) {
		p, ok := e.(*sequence.Pulse)
		if !ok {
			continue
		}
		p.Length = float64(ConvertLengthToSamples(p.Length, samplingRate, quantization))
	}
	return seqs
}

// ConvertLengthToSamples is the scalar form of ConvertLengthsToSamples.
func ConvertLengthToSamples(length, samplingRate float64, quantization int) int {
	if quantization < 1 {
		quantization = 1
	}
	n := int(math.RoundToEven(length * samplingRate))
	// floor to the grid, also for negative counts
	r := n % quantization
	if r < 0 {
		r += quantization
	}
	return n - r
}
