package compiler

import (
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// companion describes one kind of companion channel: the capability check,
// the accessor, and the pulse played on it alongside a source pulse.
type companion struct {
	has   func(ch *channel.Channel) bool
	get   func(ch *channel.Channel) (*channel.Channel, bool)
	build func(comp *channel.Channel, src *sequence.Pulse) *sequence.Pulse
}

// of returns the companion of ch for a pulse that plays.
func (c companion) of(p *sequence.Pulse) (*channel.Channel, bool) {
	if p.IsZero || !c.has(p.Channel) {
		return nil, false
	}
	return c.get(p.Channel)
}

var (
	gateCompanion = companion{
		has: channel.HasGate,
		get: (*channel.Channel).GateChan,
		build: func(gate *channel.Channel, src *sequence.Pulse) *sequence.Pulse {
			return sequence.Blank(gate, src.Length)
		},
	}
	parametricCompanion = companion{
		has: channel.HasParametric,
		get: (*channel.Channel).ParametricChan,
		build: func(par *channel.Channel, src *sequence.Pulse) *sequence.Pulse {
			return sequence.X(par, src.Length)
		},
	}
)

// AddGatePulses adds a blanking pulse on the gate channel of every
// non-zero pulse whose channel has one. Compound gates are rewritten
// recursively.
func AddGatePulses(seq []sequence.Entry) ([]sequence.Entry, error) {
	return addCompanionPulses(seq, gateCompanion)
}

// AddParametricPulses adds a readout drive on the parametric channel of
// every non-zero pulse whose channel has one.
func AddParametricPulses(seq []sequence.Entry) ([]sequence.Entry, error) {
	return addCompanionPulses(seq, parametricCompanion)
}

func addCompanionPulses(seq []sequence.Entry, c companion) ([]sequence.Entry, error) {
	for ct, e := range seq {
		switch v := e.(type) {
		case *sequence.CompoundGate:
			inner, err := addCompanionPulses(v.Seq, c)
			if err != nil {
				return nil, fmt.Errorf("in compound gate %s: %w", v.Label, err)
			}
			v.Seq = inner

		case *sequence.PulseBlock:
			var extra []sequence.Entry
			added := make(map[*channel.Channel]struct{})
			for _, p := range v.Pulses() {
				comp, ok := c.of(p)
				if !ok || v.Has(comp) {
					continue
				}
				// two channels sharing a companion get a single pulse
				if _, dup := added[comp]; dup {
					continue
				}
				added[comp] = struct{}{}
				extra = append(extra, c.build(comp, p))
			}
			if len(extra) == 0 {
				continue
			}
			merged, err := sequence.ComposeAll(v, extra...)
			if err != nil {
				return nil, err
			}
			seq[ct] = merged

		case *sequence.Pulse:
			comp, ok := c.of(v)
			if !ok {
				continue
			}
			merged, err := sequence.Compose(v, c.build(comp, v))
			if err != nil {
				return nil, err
			}
			seq[ct] = merged
		}
	}
	return seq, nil
}
