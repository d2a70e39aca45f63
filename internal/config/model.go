package config

import "fmt"

// Model is the unified, format-agnostic representation of the whole
// compiler configuration. Slices keep declaration order.
type Model struct {
	Instruments []*Instrument
	Channels    []*Channel
	Sequences   []*Sequence
	Compile     *Compile
}

// Instrument is an output device and the translator that writes its
// waveform library.
type Instrument struct {
	Name       string
	Translator string
}

// Channel is the format-agnostic representation of a `channel` block.
// Companion and endpoint channels are referenced by label.
type Channel struct {
	Label          string
	Kind           string
	Instrument     string
	PhysChan       string
	GateChan       string
	ParametricChan string
	TrigChan       string
	Source         string
	Target         string
	GateBuffer     *float64
	GateMinWidth   *float64
	PulseParams    map[string]float64
}

// Sequence is a named, ordered list of entries.
type Sequence struct {
	Name    string
	Entries []*Entry
}

// Entry is one element of a sequence. Type selects which fields apply:
// "pulse", "block", "gate", "composite", "label", "goto", "wait", "sync"
// or "custom".
type Entry struct {
	Type    string
	Label   string
	Channel string
	Target  string

	// Length and Amp are nil when not given; pulses then use the channel
	// default length and unit amplitude.
	Length      *float64
	Amp         *float64
	Phase       float64
	FrameChange float64
	Frequency   float64

	// Alignment of a block: "left", "center" or "right".
	Alignment string

	// Value is the count of repeat and load instructions and the value
	// written by TDM instructions; Addr is their memory address.
	Value int
	Addr  int

	Entries []*Entry
}

// Compile holds the options of the `compile` block.
type Compile struct {
	Delay            float64
	SamplingRate     float64
	Quantization     int
	PhasePrecision   float64
	SlaveTrigger     string
	Gating           bool
	Parametric       bool
	DigitizerTrigger bool
	MeasQubits       []string
	MeasDecoupled    []string
	CREdges          [][2]string
	CRDecoupled      []string
	NegativeBuffer   string
	Output           string
	ChannelDelays    map[string]float64
}

// Instrument returns the instrument named name.
func (m *Model) Instrument(name string) (*Instrument, bool) {
	for _, in := range m.Instruments {
		if in.Name == name {
			return in, true
		}
	}
	return nil, false
}

// Sequence returns the sequence named name.
func (m *Model) Sequence(name string) (*Sequence, bool) {
	for _, s := range m.Sequences {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Merge appends the contents of other to m. Names must stay unique and at
// most one compile block may exist across both models.
func (m *Model) Merge(other *Model) error {
	for _, in := range other.Instruments {
		if _, dup := m.Instrument(in.Name); dup {
			return fmt.Errorf("instrument %q declared twice", in.Name)
		}
		m.Instruments = append(m.Instruments, in)
	}
	for _, ch := range other.Channels {
		for _, existing := range m.Channels {
			if existing.Label == ch.Label {
				return fmt.Errorf("channel %q declared twice", ch.Label)
			}
		}
		m.Channels = append(m.Channels, ch)
	}
	for _, s := range other.Sequences {
		if _, dup := m.Sequence(s.Name); dup {
			return fmt.Errorf("sequence %q declared twice", s.Name)
		}
		m.Sequences = append(m.Sequences, s)
	}
	if other.Compile != nil {
		if m.Compile != nil {
			return fmt.Errorf("only one compile block is allowed")
		}
		m.Compile = other.Compile
	}
	return nil
}
