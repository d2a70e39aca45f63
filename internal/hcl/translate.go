package hcl

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/config"
)

var entryTypes = map[string]bool{
	"pulse": true, "block": true, "gate": true, "composite": true,
	"label": true, "goto": true, "call": true, "return": true, "repeat": true,
	"load": true, "wait": true, "sync": true,
	"custom": true, "write_addr": true, "load_cmp_vram": true,
}

// translateFile converts the blocks of one file into a partial model.
func (l *Loader) translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	m := &config.Model{}
	for _, in := range root.Instruments {
		m.Instruments = append(m.Instruments, &config.Instrument{Name: in.Name, Translator: in.Translator})
	}
	for _, ch := range root.Channels {
		c, err := l.translateChannel(ctx, ch)
		if err != nil {
			return nil, err
		}
		m.Channels = append(m.Channels, c)
	}
	for _, s := range root.Sequences {
		entries, err := l.translateEntries(s.Entries)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", s.Name, err)
		}
		m.Sequences = append(m.Sequences, &config.Sequence{Name: s.Name, Entries: entries})
	}
	switch len(root.Compile) {
	case 0:
	case 1:
		c, err := l.translateCompile(ctx, root.Compile[0])
		if err != nil {
			return nil, err
		}
		m.Compile = c
	default:
		return nil, fmt.Errorf("only one compile block is allowed, found %d", len(root.Compile))
	}
	return m, nil
}

func (l *Loader) translateChannel(ctx context.Context, b *channelBlock) (*config.Channel, error) {
	c := &config.Channel{
		Label:          b.Label,
		Kind:           b.Kind,
		Instrument:     b.Instrument,
		PhysChan:       b.PhysChan,
		GateChan:       b.GateChan,
		ParametricChan: b.ParametricChan,
		TrigChan:       b.TrigChan,
		Source:         b.Source,
		Target:         b.Target,
		GateBuffer:     b.GateBuffer,
		GateMinWidth:   b.GateMinWidth,
	}
	var params map[string]float64
	if _, err := decodeExpr(ctx, b.PulseParams, &params); err != nil {
		return nil, fmt.Errorf("channel %q: pulse_params: %w", b.Label, err)
	}
	c.PulseParams = params
	return c, nil
}

func (l *Loader) translateEntries(blocks []*entryBlock) ([]*config.Entry, error) {
	out := make([]*config.Entry, 0, len(blocks))
	for i, b := range blocks {
		if !entryTypes[b.Type] {
			return nil, fmt.Errorf("entry %d: unknown entry type %q", i, b.Type)
		}
		children, err := l.translateEntries(b.Entries)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, b.Type, err)
		}
		out = append(out, &config.Entry{
			Type:        b.Type,
			Label:       b.Label,
			Channel:     b.Channel,
			Target:      b.Target,
			Length:      b.Length,
			Amp:         b.Amp,
			Phase:       b.Phase,
			FrameChange: b.FrameChange,
			Frequency:   b.Frequency,
			Alignment:   b.Alignment,
			Value:       b.Value,
			Addr:        b.Addr,
			Entries:     children,
		})
	}
	return out, nil
}

func (l *Loader) translateCompile(ctx context.Context, b *compileBlock) (*config.Compile, error) {
	c := &config.Compile{
		Delay:            b.Delay,
		SamplingRate:     b.SamplingRate,
		Quantization:     b.Quantization,
		PhasePrecision:   b.PhasePrecision,
		SlaveTrigger:     b.SlaveTrigger,
		Gating:           b.Gating,
		Parametric:       b.Parametric,
		DigitizerTrigger: b.DigitizerTrigger,
		MeasQubits:       b.MeasQubits,
		MeasDecoupled:    b.MeasDecoupled,
		CRDecoupled:      b.CRDecoupled,
		NegativeBuffer:   b.NegativeBuffer,
		Output:           b.Output,
	}
	for i, edge := range b.CREdges {
		if len(edge) != 2 {
			return nil, fmt.Errorf("compile: cr_edges[%d] must name a source and a target, got %d labels", i, len(edge))
		}
		c.CREdges = append(c.CREdges, [2]string{edge[0], edge[1]})
	}
	var delays map[string]float64
	if _, err := decodeExpr(ctx, b.ChannelDelays, &delays); err != nil {
		return nil, fmt.Errorf("compile: channel_delays: %w", err)
	}
	c.ChannelDelays = delays
	return c, nil
}
