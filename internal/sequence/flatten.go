package sequence

import "iter"

// Flatten lazily yields the atomic entries of entries depth first. Compound
// gates are descended into; pulses, pulse blocks, composite pulses and
// markers are yielded as they are.
func Flatten(entries ...Entry) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		flatten(entries, yield)
	}
}

// FlattenAll flattens a batch of sequences in order.
func FlattenAll(seqs [][]Entry) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, seq := range seqs {
			if !flatten(seq, yield) {
				return
			}
		}
	}
}

func flatten(entries []Entry, yield func(Entry) bool) bool {
	for _, e := range entries {
		if g, ok := e.(*CompoundGate); ok {
			if !flatten(g.Seq, yield) {
				return false
			}
			continue
		}
		if !yield(e) {
			return false
		}
	}
	return true
}

// Pulses yields every *Pulse reachable from the atomic entries of seqs,
// opening pulse blocks and composite pulses.
func Pulses(seqs [][]Entry) iter.Seq[*Pulse] {
	return func(yield func(*Pulse) bool) {
		for e := range FlattenAll(seqs) {
			var ps []*Pulse
			switch v := e.(type) {
			case *Pulse:
				ps = []*Pulse{v}
			case *PulseBlock:
				ps = v.pulses
			case *CompositePulse:
				ps = v.Pulses
			}
			for _, p := range ps {
				if !yield(p) {
					return
				}
			}
		}
	}
}
