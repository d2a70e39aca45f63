package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// NegativeBufferPolicy decides what happens when the gate buffer eats more
// than the whole idle window that follows a gate pulse.
type NegativeBufferPolicy int

const (
	// ClampNegative shortens the following pulse to zero and logs a warning.
	ClampNegative NegativeBufferPolicy = iota
	// FailNegative returns an error.
	FailNegative
)

// ParseNegativeBufferPolicy accepts "clamp" (the default for "") or "fail".
func ParseNegativeBufferPolicy(s string) (NegativeBufferPolicy, error) {
	switch s {
	case "", "clamp":
		return ClampNegative, nil
	case "fail":
		return FailNegative, nil
	}
	return ClampNegative, fmt.Errorf("unknown negative buffer policy %q: must be 'clamp' or 'fail'", s)
}

// GatingOption tunes ApplyGatingConstraints.
type GatingOption func(*gatingConfig)

type gatingConfig struct {
	negative NegativeBufferPolicy
}

// WithNegativeBufferPolicy selects the policy for over-long gate buffers.
func WithNegativeBufferPolicy(p NegativeBufferPolicy) GatingOption {
	return func(c *gatingConfig) { c.negative = p }
}

// ApplyGatingConstraints rewrites each mini sequence of a gate channel's
// link list so the gate waveform can be produced by hardware: runs of equal
// pulses are merged, every open gate is extended by the channel's gate
// buffer at the expense of the idle pulse after it, and idle gaps shorter
// than the minimum gate width are absorbed into the surrounding gate.
//
// A *channel.ConfigurationError is returned if ch lacks gate_buffer or
// gate_min_width.
func ApplyGatingConstraints(ctx context.Context, ch *channel.Channel, linkList [][]sequence.Entry, opts ...GatingOption) ([][]sequence.Entry, error) {
	buffer, minWidth, err := ch.GateConstraints()
	if err != nil {
		return nil, err
	}
	cfg := gatingConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := ctxlog.FromContext(ctx).With("channel", ch.Label)
	logger.Debug("Applying gating constraints.", "gate_buffer", buffer, "gate_min_width", minWidth, "sequences", len(linkList))

	gateSeqs := make([][]sequence.Entry, 0, len(linkList))
	for i, mini := range linkList {
		consolidated, err := consolidate(mini)
		if err != nil {
			return nil, fmt.Errorf("channel %s, sequence %d: %w", ch.Label, i, err)
		}
		expanded, err := expandBuffers(ctx, consolidated, buffer, cfg.negative)
		if err != nil {
			return nil, fmt.Errorf("channel %s, sequence %d: %w", ch.Label, i, err)
		}
		gateSeqs = append(gateSeqs, enforceMinWidth(expanded, minWidth))
	}
	return gateSeqs, nil
}

// consolidate merges adjacent pulses of the same zero/non-zero class into
// one pulse spanning both. Markers flush the pending pulse and pass through.
func consolidate(mini []sequence.Entry) ([]sequence.Entry, error) {
	out := make([]sequence.Entry, 0, len(mini))
	var previous *sequence.Pulse

	for _, e := range mini {
		if sequence.IsMarker(e) {
			if previous != nil {
				out = append(out, previous)
				previous = nil
			}
			out = append(out, e)
			continue
		}

		p, ok := e.(*sequence.Pulse)
		if !ok {
			return nil, fmt.Errorf("unexpected %s in gate link list", sequence.KindOf(e))
		}
		switch {
		case previous == nil:
			previous = p
		case previous.IsZero == p.IsZero:
			previous = previous.WithLength(previous.Length + p.Length)
		default:
			out = append(out, previous)
			previous = p
		}
	}
	if previous != nil {
		out = append(out, previous)
	}
	return out, nil
}

// expandBuffers opens every gate buffer early by lengthening each non-zero
// pulse and shortening the pulse right after it by the same amount. The
// last entry of the sequence is never shortened.
func expandBuffers(ctx context.Context, seq []sequence.Entry, buffer float64, policy NegativeBufferPolicy) ([]sequence.Entry, error) {
	out := make([]sequence.Entry, len(seq))
	copy(out, seq)

	for ct := range out {
		if !sequence.IsNonZeroWaveform(out[ct]) {
			continue
		}
		gate := out[ct].(*sequence.Pulse)
		out[ct] = gate.WithLength(gate.Length + buffer)

		if ct+1 >= len(out)-1 {
			continue
		}
		next, ok := out[ct+1].(*sequence.Pulse)
		if !ok {
			continue
		}
		length := next.Length - buffer
		if length < 0 {
			if policy == FailNegative {
				return nil, fmt.Errorf("gate buffer %g exceeds the %g long %s pulse after %s", buffer, next.Length, next.Label, gate.Label)
			}
			ctxlog.FromContext(ctx).Warn("Gate buffer longer than the following pulse; clamping to zero.",
				"buffer", buffer, "pulse", next.Label, "length", next.Length)
			length = 0
		}
		out[ct+1] = next.WithLength(length)
	}
	return out, nil
}

// enforceMinWidth absorbs idle gaps shorter than minWidth that sit between
// two gate pulses. The merged gate spans all three pulses. A merged gate
// may form a new short-gap triple with what follows, so the tail of the
// output is re-checked after every merge.
func enforceMinWidth(seq []sequence.Entry, minWidth float64) []sequence.Entry {
	out := make([]sequence.Entry, 0, len(seq))
	for _, e := range seq {
		out = append(out, e)
		for len(out) >= 3 {
			n := len(out)
			first, gap, last, ok := shortGap(out[n-3], out[n-2], out[n-1], minWidth)
			if !ok {
				break
			}
			out = append(out[:n-3], first.WithLength(first.Length+gap.Length+last.Length))
		}
	}
	return out
}

// shortGap matches [gate, idle, gate] with an idle pulse shorter than minWidth.
func shortGap(a, b, c sequence.Entry, minWidth float64) (first, gap, last *sequence.Pulse, ok bool) {
	if !sequence.IsNonZeroWaveform(a) || !sequence.IsNonZeroWaveform(c) {
		return nil, nil, nil, false
	}
	gap, isPulse := b.(*sequence.Pulse)
	if !isPulse || !gap.IsZero || gap.Length >= minWidth {
		return nil, nil, nil, false
	}
	return a.(*sequence.Pulse), gap, c.(*sequence.Pulse), true
}
