// Package channel holds the read-only channel topology consumed by the
// compiler: logical channels, their optional companion channels, gating
// parameters and the physical channel that routes them to an instrument.
//
// Channels are reference data. They are compared by pointer identity and
// are never created or destroyed by compiler passes.
package channel

import "fmt"

// Kind classifies a logical channel.
type Kind int

const (
	Generic Kind = iota
	Qubit
	Measurement
	Edge
	Marker
)

// String returns the configuration spelling of the kind.
func (k Kind) String() string {
	switch k {
	case Qubit:
		return "qubit"
	case Measurement:
		return "measurement"
	case Edge:
		return "edge"
	case Marker:
		return "marker"
	default:
		return "generic"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "generic":
		return Generic, nil
	case "qubit":
		return Qubit, nil
	case "measurement":
		return Measurement, nil
	case "edge":
		return Edge, nil
	case "marker":
		return Marker, nil
	}
	return Generic, fmt.Errorf("unknown channel kind %q", s)
}

// PhysicalChannel identifies the instrument output a logical channel is
// wired to and the translator that encodes pulses for that instrument.
type PhysicalChannel struct {
	Label      string
	Instrument string
	Translator string
}

// Channel is a physical or logical signal path.
type Channel struct {
	Label string
	Kind  Kind

	// Source and Target are set for two-qubit interaction channels.
	Source *Channel
	Target *Channel

	PulseParams map[string]float64
	Phys        PhysicalChannel

	gate       *Channel
	parametric *Channel
	trigger    *Channel

	gateBuffer   *float64
	gateMinWidth *float64
}

// Option configures optional attributes of a Channel at construction time.
type Option func(*Channel)

// WithGate attaches a blanking companion channel.
func WithGate(gate *Channel) Option {
	return func(c *Channel) { c.gate = gate }
}

// WithParametric attaches a parametric readout companion channel.
func WithParametric(p *Channel) Option {
	return func(c *Channel) { c.parametric = p }
}

// WithTrigger attaches a trigger companion channel.
func WithTrigger(trig *Channel) Option {
	return func(c *Channel) { c.trigger = trig }
}

// WithGateConstraints sets the gate buffer and minimum gate width.
func WithGateConstraints(buffer, minWidth float64) Option {
	return func(c *Channel) {
		c.gateBuffer = &buffer
		c.gateMinWidth = &minWidth
	}
}

// WithGateBuffer sets only the gate buffer.
func WithGateBuffer(buffer float64) Option {
	return func(c *Channel) { c.gateBuffer = &buffer }
}

// WithGateMinWidth sets only the minimum gate width.
func WithGateMinWidth(minWidth float64) Option {
	return func(c *Channel) { c.gateMinWidth = &minWidth }
}

// WithPulseParams sets the default pulse parameters.
func WithPulseParams(params map[string]float64) Option {
	return func(c *Channel) {
		c.PulseParams = make(map[string]float64, len(params))
		for k, v := range params {
			c.PulseParams[k] = v
		}
	}
}

// WithPhys routes the channel to a physical instrument output.
func WithPhys(phys PhysicalChannel) Option {
	return func(c *Channel) { c.Phys = phys }
}

// WithEndpoints sets the qubits an edge channel couples.
func WithEndpoints(source, target *Channel) Option {
	return func(c *Channel) {
		c.Source = source
		c.Target = target
	}
}

// New creates a channel.
func New(label string, kind Kind, opts ...Option) *Channel {
	c := &Channel{Label: label, Kind: kind, PulseParams: map[string]float64{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GateChan returns the blanking companion, if one is configured.
func (c *Channel) GateChan() (*Channel, bool) {
	return c.gate, c.gate != nil
}

// ParametricChan returns the parametric readout companion, if one is configured.
func (c *Channel) ParametricChan() (*Channel, bool) {
	return c.parametric, c.parametric != nil
}

// TrigChan returns the trigger companion, if one is configured.
func (c *Channel) TrigChan() (*Channel, bool) {
	return c.trigger, c.trigger != nil
}

// HasGate reports whether c has a blanking companion.
func HasGate(c *Channel) bool {
	return c != nil && c.gate != nil
}

// HasParametric reports whether c has a parametric companion.
func HasParametric(c *Channel) bool {
	return c != nil && c.parametric != nil
}

// GateConstraints returns the gate buffer and minimum gate width. A
// *ConfigurationError is returned when either is missing.
func (c *Channel) GateConstraints() (buffer, minWidth float64, err error) {
	if c.gateBuffer == nil {
		return 0, 0, &ConfigurationError{Channel: c.Label, Attribute: "gate_buffer"}
	}
	if c.gateMinWidth == nil {
		return 0, 0, &ConfigurationError{Channel: c.Label, Attribute: "gate_min_width"}
	}
	return *c.gateBuffer, *c.gateMinWidth, nil
}

// PulseLength is the configured default pulse length, or 0.
func (c *Channel) PulseLength() float64 {
	return c.PulseParams["length"]
}

func (c *Channel) String() string {
	if c == nil {
		return "<nil>"
	}
	return c.Label
}
