package app

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// buildLibrary resolves the configured channels against their instruments.
func buildLibrary(m *config.Model) (*channel.Library, error) {
	specs := make([]channel.Spec, 0, len(m.Channels))
	for _, c := range m.Channels {
		kind, err := channel.ParseKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", c.Label, err)
		}
		var translator string
		if c.Instrument != "" {
			in, ok := m.Instrument(c.Instrument)
			if !ok {
				return nil, fmt.Errorf("channel %q: unknown instrument %q", c.Label, c.Instrument)
			}
			translator = in.Translator
		}
		specs = append(specs, channel.Spec{
			Label:          c.Label,
			Kind:           kind,
			PhysChan:       c.PhysChan,
			Instrument:     c.Instrument,
			Translator:     translator,
			GateChan:       c.GateChan,
			ParametricChan: c.ParametricChan,
			TrigChan:       c.TrigChan,
			Source:         c.Source,
			Target:         c.Target,
			GateBuffer:     c.GateBuffer,
			GateMinWidth:   c.GateMinWidth,
			PulseParams:    c.PulseParams,
		})
	}
	return channel.NewLibrary(specs)
}

// seqBuilder turns configured entries into sequence entries. Labels are
// shared within one sequence so jumps point at the same BlockLabel.
type seqBuilder struct {
	lib     *channel.Library
	labels  map[string]*sequence.BlockLabel
	defined map[string]bool
}

// buildSequences builds every configured sequence, in declaration order.
func buildSequences(lib *channel.Library, seqs []*config.Sequence) ([][]sequence.Entry, error) {
	out := make([][]sequence.Entry, 0, len(seqs))
	for _, s := range seqs {
		b := &seqBuilder{
			lib:     lib,
			labels:  make(map[string]*sequence.BlockLabel),
			defined: make(map[string]bool),
		}
		entries, err := b.entries(s.Entries)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", s.Name, err)
		}
		for name := range b.labels {
			if !b.defined[name] {
				return nil, fmt.Errorf("sequence %q: jump targets undefined label %q", s.Name, name)
			}
		}
		out = append(out, entries)
	}
	return out, nil
}

func (b *seqBuilder) label(name string) *sequence.BlockLabel {
	l, ok := b.labels[name]
	if !ok {
		l = &sequence.BlockLabel{Label: name}
		b.labels[name] = l
	}
	return l
}

func (b *seqBuilder) entries(in []*config.Entry) ([]sequence.Entry, error) {
	out := make([]sequence.Entry, 0, len(in))
	for i, e := range in {
		entry, err := b.entry(e)
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Type, err)
		}
		out = append(out, entry)
	}
	return out, nil
}

func (b *seqBuilder) entry(e *config.Entry) (sequence.Entry, error) {
	switch e.Type {
	case "pulse":
		return b.pulse(e)

	case "block":
		children, err := b.entries(e.Entries)
		if err != nil {
			return nil, err
		}
		mode, err := sequence.ParseAlignment(e.Alignment)
		if err != nil {
			return nil, err
		}
		return sequence.Align(mode, children...)

	case "gate":
		children, err := b.entries(e.Entries)
		if err != nil {
			return nil, err
		}
		return &sequence.CompoundGate{Label: e.Label, Seq: children}, nil

	case "composite":
		c := &sequence.CompositePulse{Label: e.Label}
		for i, child := range e.Entries {
			if child.Type != "pulse" {
				return nil, fmt.Errorf("entry %d: composite pulses hold only pulses, got %s", i, child.Type)
			}
			p, err := b.pulse(child)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			c.Pulses = append(c.Pulses, p)
		}
		return c, nil

	case "label":
		if e.Label == "" {
			return nil, fmt.Errorf("label entry needs a label")
		}
		if b.defined[e.Label] {
			return nil, fmt.Errorf("label %q defined twice", e.Label)
		}
		b.defined[e.Label] = true
		return b.label(e.Label), nil

	case "goto":
		if e.Target == "" {
			return nil, fmt.Errorf("goto entry needs a target")
		}
		return sequence.Goto(b.label(e.Target)), nil

	case "call", "return", "repeat", "load":
		return b.control(e)

	case "wait":
		return sequence.Wait(), nil

	case "sync":
		return sequence.Sync(), nil

	case "custom":
		return &sequence.Instruction{Kind: sequence.CustomInstruction, Name: e.Label}, nil

	case "write_addr":
		return tdmInstruction(sequence.WriteAddrInstruction, "WRITEADDR", e)

	case "load_cmp_vram":
		return tdmInstruction(sequence.LoadCmpVramInstruction, "LOADCMPVRAM", e)
	}
	return nil, fmt.Errorf("unknown entry type %q", e.Type)
}

// control builds the control instructions that have no constructor of
// their own. CALL and REPEAT jump to a label; REPEAT and LOAD carry a count.
func (b *seqBuilder) control(e *config.Entry) (sequence.Entry, error) {
	op, ok := sequence.ParseOp(e.Type)
	if !ok {
		return nil, fmt.Errorf("unknown control instruction %q", e.Type)
	}
	ci := &sequence.ControlInstruction{Op: op, Value: e.Value}
	switch op {
	case sequence.OpCall, sequence.OpRepeat:
		if e.Target == "" {
			return nil, fmt.Errorf("%s entry needs a target", e.Type)
		}
		ci.Target = b.label(e.Target)
	}
	if e.Value < 0 {
		return nil, fmt.Errorf("%s entry: negative value %d", e.Type, e.Value)
	}
	return ci, nil
}

func tdmInstruction(kind sequence.InstructionKind, name string, e *config.Entry) (sequence.Entry, error) {
	if e.Addr < 0 || e.Value < 0 {
		return nil, fmt.Errorf("%s entry: addr and value must not be negative", e.Type)
	}
	if e.Label != "" {
		name = e.Label
	}
	return &sequence.Instruction{Kind: kind, Name: name, Addr: uint32(e.Addr), Value: uint32(e.Value)}, nil
}

// pulse builds a constant-amplitude pulse. Length defaults to the
// channel's pulse length and amplitude to one; the channel's other pulse
// parameters become shape parameters.
func (b *seqBuilder) pulse(e *config.Entry) (*sequence.Pulse, error) {
	if e.Label == "" {
		return nil, fmt.Errorf("pulse needs a label")
	}
	ch, ok := b.lib.Get(e.Channel)
	if !ok {
		return nil, fmt.Errorf("pulse %s: unknown channel %q", e.Label, e.Channel)
	}

	length := ch.PulseLength()
	if e.Length != nil {
		length = *e.Length
	}
	if length < 0 {
		return nil, fmt.Errorf("pulse %s: negative length %g", e.Label, length)
	}
	amp := 1.0
	if e.Amp != nil {
		amp = *e.Amp
	}

	p := sequence.TAPulse(e.Label, ch, length, amp)
	p.Phase = e.Phase
	p.FrameChange = e.FrameChange
	p.Frequency = e.Frequency
	shape := maps.Clone(ch.PulseParams)
	if shape == nil {
		shape = make(map[string]float64, 2)
	}
	maps.Copy(shape, p.ShapeParams)
	p.ShapeParams = shape
	return p, nil
}

// buildOptions resolves the compile block against lib. A nil block yields
// the zero options.
func buildOptions(lib *channel.Library, c *config.Compile) (compiler.Options, error) {
	var opts compiler.Options
	if c == nil {
		return opts, nil
	}

	get := func(attr, label string) (*channel.Channel, error) {
		ch, ok := lib.Get(label)
		if !ok {
			return nil, fmt.Errorf("compile: %s references unknown channel %q", attr, label)
		}
		return ch, nil
	}
	getAll := func(attr string, labels []string) ([]*channel.Channel, error) {
		out := make([]*channel.Channel, 0, len(labels))
		for _, label := range labels {
			ch, err := get(attr, label)
			if err != nil {
				return nil, err
			}
			out = append(out, ch)
		}
		return out, nil
	}

	var err error
	opts.Delay = c.Delay
	opts.AddGates = c.Gating
	opts.AddParametric = c.Parametric
	opts.DigitizerTriggers = c.DigitizerTrigger
	opts.PhasePrecision = c.PhasePrecision
	opts.SamplingRate = c.SamplingRate
	opts.Quantization = c.Quantization

	if opts.NegativeBuffer, err = compiler.ParseNegativeBufferPolicy(c.NegativeBuffer); err != nil {
		return opts, fmt.Errorf("compile: %w", err)
	}
	if c.SlaveTrigger != "" {
		if opts.SlaveTrigger, err = get("slave_trigger", c.SlaveTrigger); err != nil {
			return opts, err
		}
	}
	if opts.Decoupling.MeasQubits, err = getAll("meas_qubits", c.MeasQubits); err != nil {
		return opts, err
	}
	if opts.Decoupling.MeasDecoupled, err = getAll("meas_decoupled", c.MeasDecoupled); err != nil {
		return opts, err
	}
	if opts.Decoupling.CRDecoupled, err = getAll("cr_decoupled", c.CRDecoupled); err != nil {
		return opts, err
	}
	for _, edge := range c.CREdges {
		pair, err := getAll("cr_edges", edge[:])
		if err != nil {
			return opts, err
		}
		opts.Decoupling.CREdges = append(opts.Decoupling.CREdges, [2]*channel.Channel{pair[0], pair[1]})
	}
	if len(c.ChannelDelays) > 0 {
		opts.ChannelDelays = make(map[*channel.Channel]float64, len(c.ChannelDelays))
		for label, d := range c.ChannelDelays {
			ch, err := get("channel_delays", label)
			if err != nil {
				return opts, err
			}
			opts.ChannelDelays[ch] = d
		}
	}
	return opts, nil
}
