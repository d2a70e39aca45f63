package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// Options selects and parameterizes the passes Compile runs. The zero
// value runs only the split into channel programs and frame propagation.
type Options struct {
	// Delay is idle time inserted after every WAIT and SYNC.
	Delay float64
	// ChannelDelays skews individual channels; it is normalized first.
	ChannelDelays map[*channel.Channel]float64

	AddGates      bool
	AddParametric bool

	Decoupling Decoupling

	// DigitizerTriggers attaches trigger pulses to measurements.
	DigitizerTriggers bool
	// SlaveTrigger, when set, receives a trigger after every WAIT.
	SlaveTrigger *channel.Channel

	NegativeBuffer NegativeBufferPolicy

	// PhasePrecision in radians; zero keeps phases unquantized.
	PhasePrecision float64
	// SamplingRate in samples per time unit; zero keeps lengths in time units.
	SamplingRate float64
	Quantization int
}

// Program is the compiled output: one channel program per used channel.
type Program struct {
	Channels []*ChannelProgram
}

// Get returns the program of ch.
func (p *Program) Get(ch *channel.Channel) (*ChannelProgram, bool) {
	for _, cp := range p.Channels {
		if cp.Channel == ch {
			return cp, true
		}
	}
	return nil, false
}

// Seqs returns every channel's mini sequences, channel by channel.
func (p *Program) Seqs() [][]sequence.Entry {
	var out [][]sequence.Entry
	for _, cp := range p.Channels {
		out = append(out, cp.Seqs...)
	}
	return out
}

// Compile runs the post-processing pipeline over a deep copy of seqs; the
// caller's sequences are left untouched. The passes run in this order:
//
//	delay -> gate/parametric pulses -> decoupling -> triggers ->
//	channel split -> gating constraints -> frame changes -> quantization
func Compile(ctx context.Context, lib *channel.Library, seqs [][]sequence.Entry, opts Options) (*Program, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling sequences.", "sequences", len(seqs))

	in := seqs
	seqs = make([][]sequence.Entry, len(in))
	for i, seq := range in {
		seqs[i] = sequence.Clone(seq)
	}

	Delay(seqs, opts.Delay)

	if opts.AddGates || opts.AddParametric {
		for i := range seqs {
			var err error
			if opts.AddGates {
				if seqs[i], err = AddGatePulses(seqs[i]); err != nil {
					return nil, fmt.Errorf("sequence %d: adding gate pulses: %w", i, err)
				}
			}
			if opts.AddParametric {
				if seqs[i], err = AddParametricPulses(seqs[i]); err != nil {
					return nil, fmt.Errorf("sequence %d: adding parametric pulses: %w", i, err)
				}
			}
		}
		logger.Debug("Companion pulses added.", "gates", opts.AddGates, "parametric", opts.AddParametric)
	}

	if err := DecoupleSeqs(lib, seqs, opts.Decoupling); err != nil {
		return nil, fmt.Errorf("decoupling: %w", err)
	}

	if opts.DigitizerTriggers {
		if err := AddDigitizerTrigger(seqs); err != nil {
			return nil, err
		}
	}
	if opts.SlaveTrigger != nil {
		AddSlaveTrigger(seqs, opts.SlaveTrigger)
	}

	programs := ChannelLinkLists(seqs, UsedChannels(lib, seqs))
	logger.Debug("Split sequences into channel programs.", "channels", len(programs))

	ApplyChannelDelays(ctx, programs, opts.ChannelDelays)

	gateChans := make(map[*channel.Channel]struct{})
	for _, ch := range lib.Channels() {
		if gate, ok := ch.GateChan(); ok {
			gateChans[gate] = struct{}{}
		}
	}

	for _, cp := range programs {
		if _, isGate := gateChans[cp.Channel]; isGate {
			gated, err := ApplyGatingConstraints(ctx, cp.Channel, cp.Seqs, WithNegativeBufferPolicy(opts.NegativeBuffer))
			if err != nil {
				return nil, fmt.Errorf("gating constraints: %w", err)
			}
			cp.Seqs = gated
		}

		for _, mini := range cp.Seqs {
			PropagateFrameChanges(mini)
		}
		QuantizePhase(cp.Seqs, opts.PhasePrecision)
		if opts.SamplingRate > 0 {
			ConvertLengthsToSamples(cp.Seqs, opts.SamplingRate, opts.Quantization)
		}
	}

	logger.Info("Compilation finished.", "sequences", len(seqs), "channels", len(programs))
	return &Program{Channels: programs}, nil
}
