package sequence

// Compose plays a and b simultaneously. Only pulses and pulse blocks can be
// composed; a channel may appear once. A block on the left keeps its
// alignment.
func Compose(a, b Entry) (*PulseBlock, error) {
	pb := &PulseBlock{}
	if left, ok := a.(*PulseBlock); ok {
		pb.Alignment = left.Alignment
	}
	if err := pb.add(a); err != nil {
		return nil, err
	}
	if err := pb.add(b); err != nil {
		return nil, err
	}
	return pb, nil
}

// ComposeAll folds Compose over entries.
func ComposeAll(first Entry, rest ...Entry) (Entry, error) {
	acc := first
	for _, e := range rest {
		pb, err := Compose(acc, e)
		if err != nil {
			return nil, err
		}
		acc = pb
	}
	return acc, nil
}

// Align composes entries into a block with the given alignment.
func Align(mode Alignment, entries ...Entry) (*PulseBlock, error) {
	pb := &PulseBlock{Alignment: mode}
	for _, e := range entries {
		if err := pb.add(e); err != nil {
			return nil, err
		}
	}
	return pb, nil
}

// LeftAligned composes entries so they all start at the same time.
func LeftAligned(entries ...Entry) (*PulseBlock, error) {
	return Align(AlignLeft, entries...)
}

// Clone deep copies a sequence. Channels are shared; entries are not.
func Clone(seq []Entry) []Entry {
	out := make([]Entry, len(seq))
	for i, e := range seq {
		out[i] = CloneEntry(e)
	}
	return out
}

// CloneEntry deep copies one entry.
func CloneEntry(e Entry) Entry {
	switch v := e.(type) {
	case *Pulse:
		return v.Clone()
	case *PulseBlock:
		pb := &PulseBlock{Alignment: v.Alignment, pulses: make([]*Pulse, len(v.pulses))}
		for i, p := range v.pulses {
			pb.pulses[i] = p.Clone()
		}
		return pb
	case *CompoundGate:
		return &CompoundGate{Label: v.Label, Seq: Clone(v.Seq)}
	case *CompositePulse:
		cp := &CompositePulse{Label: v.Label, Pulses: make([]*Pulse, len(v.Pulses))}
		for i, p := range v.Pulses {
			cp.Pulses[i] = p.Clone()
		}
		return cp
	case *ControlInstruction:
		ci := *v
		return &ci
	case *BlockLabel:
		// labels are branch targets referenced by pointer
		return v
	case *Instruction:
		in := *v
		return &in
	}
	return e
}
