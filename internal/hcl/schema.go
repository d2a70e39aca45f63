package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes every top-level block a file may contain.
type fileRoot struct {
	Instruments []*instrumentBlock `hcl:"instrument,block"`
	Channels    []*channelBlock    `hcl:"channel,block"`
	Sequences   []*sequenceBlock   `hcl:"sequence,block"`
	Compile     []*compileBlock    `hcl:"compile,block"`
	Remain      hcl.Body           `hcl:",remain"`
}

type instrumentBlock struct {
	Name       string `hcl:"name,label"`
	Translator string `hcl:"translator"`
}

type channelBlock struct {
	Label          string         `hcl:"label,label"`
	Kind           string         `hcl:"kind,optional"`
	Instrument     string         `hcl:"instrument,optional"`
	PhysChan       string         `hcl:"phys_chan,optional"`
	GateChan       string         `hcl:"gate_chan,optional"`
	ParametricChan string         `hcl:"parametric_chan,optional"`
	TrigChan       string         `hcl:"trig_chan,optional"`
	Source         string         `hcl:"source,optional"`
	Target         string         `hcl:"target,optional"`
	GateBuffer     *float64       `hcl:"gate_buffer,optional"`
	GateMinWidth   *float64       `hcl:"gate_min_width,optional"`
	PulseParams    hcl.Expression `hcl:"pulse_params,optional"`
}

type sequenceBlock struct {
	Name    string        `hcl:"name,label"`
	Entries []*entryBlock `hcl:"entry,block"`
}

// entryBlock nests: blocks, gates and composites hold further entries.
type entryBlock struct {
	Type        string        `hcl:"type,label"`
	Label       string        `hcl:"label,optional"`
	Channel     string        `hcl:"channel,optional"`
	Target      string        `hcl:"target,optional"`
	Length      *float64      `hcl:"length,optional"`
	Amp         *float64      `hcl:"amp,optional"`
	Phase       float64       `hcl:"phase,optional"`
	FrameChange float64       `hcl:"frame_change,optional"`
	Frequency   float64       `hcl:"frequency,optional"`
	Alignment   string        `hcl:"alignment,optional"`
	Value       int           `hcl:"value,optional"`
	Addr        int           `hcl:"addr,optional"`
	Entries     []*entryBlock `hcl:"entry,block"`
}

type compileBlock struct {
	Delay            float64        `hcl:"delay,optional"`
	SamplingRate     float64        `hcl:"sampling_rate,optional"`
	Quantization     int            `hcl:"quantization,optional"`
	PhasePrecision   float64        `hcl:"phase_precision,optional"`
	SlaveTrigger     string         `hcl:"slave_trigger,optional"`
	Gating           bool           `hcl:"gating,optional"`
	Parametric       bool           `hcl:"parametric,optional"`
	DigitizerTrigger bool           `hcl:"digitizer_trigger,optional"`
	MeasQubits       []string       `hcl:"meas_qubits,optional"`
	MeasDecoupled    []string       `hcl:"meas_decoupled,optional"`
	CREdges          [][]string     `hcl:"cr_edges,optional"`
	CRDecoupled      []string       `hcl:"cr_decoupled,optional"`
	NegativeBuffer   string         `hcl:"negative_buffer,optional"`
	Output           string         `hcl:"output,optional"`
	ChannelDelays    hcl.Expression `hcl:"channel_delays,optional"`
}
