package compiler

import (
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// AddDigitizerTrigger left-aligns a trigger pulse with every entry that
// contains a measurement, once per trigger channel of the measured
// channels. Entries that already play on the trigger channel are left alone.
func AddDigitizerTrigger(seqs [][]sequence.Entry) error {
	for _, seq := range seqs {
		for ct := range seq {
			if !sequence.ContainsMeasurement(seq[ct]) {
				continue
			}
			for _, ch := range sequence.Channels(seq[ct]) {
				trig, ok := ch.TrigChan()
				if !ok {
					continue
				}
				if pb, isBlock := seq[ct].(*sequence.PulseBlock); isBlock && pb.Has(trig) {
					continue
				}
				aligned, err := sequence.LeftAligned(seq[ct], sequence.Trig(trig))
				if err != nil {
					return fmt.Errorf("digitizer trigger for %s: %w", ch, err)
				}
				seq[ct] = aligned
			}
		}
	}
	return nil
}

// AddSlaveTrigger attaches a trigger on slave to the entry following every
// WAIT. When that entry cannot be composed with a pulse (a marker or a
// compound gate), the trigger is inserted before it instead.
func AddSlaveTrigger(seqs [][]sequence.Entry, slave *channel.Channel) [][]sequence.Entry {
	for i, seq := range seqs {
		out := make([]sequence.Entry, 0, len(seq)+1)
		ct := 0
		for ct < len(seq) {
			e := seq[ct]
			out = append(out, e)
			if !sequence.IsWait(e) || ct+1 >= len(seq) {
				ct++
				continue
			}
			aligned, err := sequence.LeftAligned(seq[ct+1], sequence.Trig(slave))
			if err != nil {
				// the next entry is examined again on its own
				out = append(out, sequence.Trig(slave))
				ct++
				continue
			}
			out = append(out, aligned)
			ct += 2
		}
		seqs[i] = out
	}
	return seqs
}
