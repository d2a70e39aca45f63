package sequence

import (
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
)

// Pulse is an atomic timed entry on a single channel. Only metadata is
// carried; envelopes are generated downstream from ShapeParams.
type Pulse struct {
	Label       string
	Channel     *channel.Channel
	Length      float64
	Amp         float64
	Phase       float64
	FrameChange float64
	Frequency   float64
	IsZero      bool
	ShapeParams map[string]float64
}

// Clone returns a copy that shares nothing mutable with p.
func (p *Pulse) Clone() *Pulse {
	cp := *p
	if p.ShapeParams != nil {
		cp.ShapeParams = make(map[string]float64, len(p.ShapeParams))
		for k, v := range p.ShapeParams {
			cp.ShapeParams[k] = v
		}
	}
	return &cp
}

// WithLength returns a copy of p resized to length. The shape parameters
// are copied so other holders of p keep the old length.
func (p *Pulse) WithLength(length float64) *Pulse {
	cp := p.Clone()
	if cp.ShapeParams == nil {
		cp.ShapeParams = make(map[string]float64, 1)
	}
	cp.ShapeParams["length"] = length
	cp.Length = length
	return cp
}

func (p *Pulse) String() string {
	return fmt.Sprintf("%s(%s, %g)", p.Label, p.Channel, p.Length)
}

// TAPulse is a constant-amplitude pulse. A zero amplitude makes it an idle pulse.
func TAPulse(label string, ch *channel.Channel, length, amp float64) *Pulse {
	return &Pulse{
		Label:       label,
		Channel:     ch,
		Length:      length,
		Amp:         amp,
		IsZero:      amp == 0,
		ShapeParams: map[string]float64{"length": length, "amp": amp},
	}
}

// Id is an idle pulse of the given length.
func Id(ch *channel.Channel, length float64) *Pulse {
	return TAPulse("Id", ch, length, 0)
}

// Blank is a gate-open pulse on the blanking channel gate.
func Blank(gate *channel.Channel, length float64) *Pulse {
	return TAPulse("BLANK", gate, length, 1)
}

// Trig is a trigger pulse using the channel's configured length.
func Trig(ch *channel.Channel) *Pulse {
	return TAPulse("TRIG", ch, ch.PulseLength(), 1)
}

// X is a pi rotation on ch. A non-positive length selects the channel
// default. The amplitude comes from the "pi_amp" pulse parameter when set.
func X(ch *channel.Channel, length float64) *Pulse {
	if length <= 0 {
		length = ch.PulseLength()
	}
	amp, ok := ch.PulseParams["pi_amp"]
	if !ok {
		amp = 1
	}
	return &Pulse{
		Label:       "X",
		Channel:     ch,
		Length:      length,
		Amp:         amp,
		ShapeParams: map[string]float64{"length": length, "amp": amp},
	}
}
