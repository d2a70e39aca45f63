package channel

import "fmt"

// Spec is the declarative form of a channel, with companions referenced by
// label. Specs are resolved into Channels by NewLibrary.
type Spec struct {
	Label          string
	Kind           Kind
	PhysChan       string
	Instrument     string
	Translator     string
	GateChan       string
	ParametricChan string
	TrigChan       string
	Source         string
	Target         string
	GateBuffer     *float64
	GateMinWidth   *float64
	PulseParams    map[string]float64
}

// Library is an ordered, label-keyed collection of channels.
type Library struct {
	order  []*Channel
	byName map[string]*Channel
}

// NewLibrary builds every channel first and then resolves companion and
// endpoint references, so specs may reference each other in any order.
func NewLibrary(specs []Spec) (*Library, error) {
	lib := &Library{byName: make(map[string]*Channel, len(specs))}
	for _, s := range specs {
		if s.Label == "" {
			return nil, fmt.Errorf("channel with empty label")
		}
		phys := PhysicalChannel{Label: s.PhysChan, Instrument: s.Instrument, Translator: s.Translator}
		if phys.Label == "" {
			phys.Label = s.Label
		}
		c := New(s.Label, s.Kind, WithPulseParams(s.PulseParams), WithPhys(phys))
		c.gateBuffer = s.GateBuffer
		c.gateMinWidth = s.GateMinWidth
		if err := lib.Add(c); err != nil {
			return nil, err
		}
	}

	for _, s := range specs {
		c := lib.byName[s.Label]
		var err error
		if c.gate, err = lib.resolve(s.Label, "gate_chan", s.GateChan); err != nil {
			return nil, err
		}
		if c.parametric, err = lib.resolve(s.Label, "parametric_chan", s.ParametricChan); err != nil {
			return nil, err
		}
		if c.trigger, err = lib.resolve(s.Label, "trig_chan", s.TrigChan); err != nil {
			return nil, err
		}
		if c.Source, err = lib.resolve(s.Label, "source", s.Source); err != nil {
			return nil, err
		}
		if c.Target, err = lib.resolve(s.Label, "target", s.Target); err != nil {
			return nil, err
		}
		if c.Kind == Edge && (c.Source == nil || c.Target == nil) {
			return nil, fmt.Errorf("edge channel %q requires source and target", s.Label)
		}
	}
	return lib, nil
}

func (l *Library) resolve(owner, attr, label string) (*Channel, error) {
	if label == "" {
		return nil, nil
	}
	c, ok := l.byName[label]
	if !ok {
		return nil, fmt.Errorf("channel %q: %s references unknown channel %q", owner, attr, label)
	}
	return c, nil
}

// Add registers an already constructed channel.
func (l *Library) Add(c *Channel) error {
	if l.byName == nil {
		l.byName = make(map[string]*Channel)
	}
	if _, exists := l.byName[c.Label]; exists {
		return fmt.Errorf("channel %q already defined", c.Label)
	}
	l.byName[c.Label] = c
	l.order = append(l.order, c)
	return nil
}

// Get looks a channel up by label.
func (l *Library) Get(label string) (*Channel, bool) {
	c, ok := l.byName[label]
	return c, ok
}

// MustGet is Get for labels that are known to exist.
func (l *Library) MustGet(label string) *Channel {
	c, ok := l.byName[label]
	if !ok {
		panic(fmt.Sprintf("channel %q not in library", label))
	}
	return c
}

// Measurement returns the measurement channel of qubit q, named "M-<q>".
func (l *Library) Measurement(q *Channel) (*Channel, bool) {
	return l.Get("M-" + q.Label)
}

// Edge returns the interaction channel from source to target.
func (l *Library) Edge(source, target *Channel) (*Channel, bool) {
	for _, c := range l.order {
		if c.Kind == Edge && c.Source == source && c.Target == target {
			return c, true
		}
	}
	return nil, false
}

// Channels returns all channels in definition order.
func (l *Library) Channels() []*Channel {
	out := make([]*Channel, len(l.order))
	copy(out, l.order)
	return out
}

// Len is the number of channels in the library.
func (l *Library) Len() int {
	return len(l.order)
}
