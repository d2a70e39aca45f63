package compiler

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// Decoupling names the qubits to protect during measurements and
// cross-resonance interactions.
type Decoupling struct {
	MeasQubits    []*channel.Channel
	MeasDecoupled []*channel.Channel
	CREdges       [][2]*channel.Channel
	CRDecoupled   []*channel.Channel
}

// DecoupleSeqs runs the measurement and cross-resonance decoupling passes
// over every sequence. A pass is skipped when it has no decoupled qubits.
func DecoupleSeqs(lib *channel.Library, seqs [][]sequence.Entry, d Decoupling) error {
	for _, seq := range seqs {
		if len(d.MeasDecoupled) > 0 {
			if err := DecoupleMeasPulses(lib, seq, d.MeasQubits, d.MeasDecoupled); err != nil {
				return err
			}
		}
		if len(d.CRDecoupled) > 0 {
			if err := DecoupleCRPulses(lib, seq, d.CREdges, d.CRDecoupled); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecoupleMeasPulses plays an X on each decoupled qubit, centered on every
// measurement pulse of measQubits.
func DecoupleMeasPulses(lib *channel.Library, seq []sequence.Entry, measQubits, decoupled []*channel.Channel) error {
	measChans := make([]*channel.Channel, 0, len(measQubits))
	for _, q := range measQubits {
		m, ok := lib.Measurement(q)
		if !ok {
			return fmt.Errorf("no measurement channel for qubit %s", q)
		}
		measChans = append(measChans, m)
	}

	for k, e := range seq {
		p, ok := e.(*sequence.Pulse)
		if !ok || !slices.Contains(measChans, p.Channel) {
			continue
		}
		block, err := sequence.Align(sequence.AlignCenter, append([]sequence.Entry{p}, xPulses(decoupled)...)...)
		if err != nil {
			return fmt.Errorf("decoupling measurement on %s: %w", p.Channel, err)
		}
		seq[k] = block
	}
	return nil
}

// DecoupleCRPulses plays an X on each decoupled qubit together with the
// entry that follows a cross-resonance pulse inside a compound gate.
func DecoupleCRPulses(lib *channel.Library, seq []sequence.Entry, edges [][2]*channel.Channel, decoupled []*channel.Channel) error {
	edgeChans := make([]*channel.Channel, 0, len(edges))
	for _, pair := range edges {
		e, ok := lib.Edge(pair[0], pair[1])
		if !ok {
			return fmt.Errorf("no edge channel from %s to %s", pair[0], pair[1])
		}
		edgeChans = append(edgeChans, e)
	}

	for _, e := range seq {
		gate, ok := e.(*sequence.CompoundGate)
		if !ok {
			continue
		}
		for k := range gate.Seq {
			if k+1 >= len(gate.Seq) || !playsOnAny(gate.Seq[k], edgeChans) {
				continue
			}
			next, err := sequence.ComposeAll(gate.Seq[k+1], xPulses(decoupled)...)
			if err != nil {
				return fmt.Errorf("decoupling after %s in %s: %w", sequence.LabelOf(gate.Seq[k]), gate.Label, err)
			}
			gate.Seq[k+1] = next
		}
	}
	return nil
}

func playsOnAny(e sequence.Entry, chans []*channel.Channel) bool {
	for _, ch := range sequence.Channels(e) {
		if slices.Contains(chans, ch) {
			return true
		}
	}
	return false
}

func xPulses(qubits []*channel.Channel) []sequence.Entry {
	out := make([]sequence.Entry, len(qubits))
	for i, q := range qubits {
		out[i] = sequence.X(q, 0)
	}
	return out
}
