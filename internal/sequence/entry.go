// Package sequence defines the entries a compilable sequence is made of.
//
// Entry is a closed union: *Pulse, *PulseBlock, *CompoundGate,
// *CompositePulse, *ControlInstruction, *BlockLabel and *Instruction are
// the only implementations. Passes switch on the concrete type rather than
// probing for attributes.
package sequence

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/pulsegrid/internal/channel"
)

// Entry is one element of a sequence.
type Entry interface {
	isEntry()
}

// Alignment controls how shorter pulses sit inside a PulseBlock.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlignment accepts "left" (also ""), "center" and "right".
func ParseAlignment(s string) (Alignment, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

// PulseBlock is a set of pulses that start together, at most one per channel.
// Pulses keep their insertion order so iteration is deterministic.
type PulseBlock struct {
	Alignment Alignment
	pulses    []*Pulse
}

// NewPulseBlock builds a left aligned block.
func NewPulseBlock(pulses ...*Pulse) (*PulseBlock, error) {
	pb := &PulseBlock{}
	for _, p := range pulses {
		if err := pb.add(p); err != nil {
			return nil, err
		}
	}
	return pb, nil
}

// Get returns the pulse played on ch.
func (pb *PulseBlock) Get(ch *channel.Channel) (*Pulse, bool) {
	for _, p := range pb.pulses {
		if p.Channel == ch {
			return p, true
		}
	}
	return nil, false
}

// Has reports whether ch already plays in the block.
func (pb *PulseBlock) Has(ch *channel.Channel) bool {
	_, ok := pb.Get(ch)
	return ok
}

// Channels returns the block's channels in insertion order.
func (pb *PulseBlock) Channels() []*channel.Channel {
	out := make([]*channel.Channel, len(pb.pulses))
	for i, p := range pb.pulses {
		out[i] = p.Channel
	}
	return out
}

// Pulses returns the block's pulses in insertion order.
func (pb *PulseBlock) Pulses() []*Pulse {
	out := make([]*Pulse, len(pb.pulses))
	copy(out, pb.pulses)
	return out
}

// Len is the number of channels in the block.
func (pb *PulseBlock) Len() int { return len(pb.pulses) }

// Length is the duration of the longest pulse.
func (pb *PulseBlock) Length() float64 {
	var longest float64
	for _, p := range pb.pulses {
		if p.Length > longest {
			longest = p.Length
		}
	}
	return longest
}

func (pb *PulseBlock) add(e Entry) error {
	switch v := e.(type) {
	case *Pulse:
		if pb.Has(v.Channel) {
			return fmt.Errorf("channel %s already present in pulse block", v.Channel)
		}
		pb.pulses = append(pb.pulses, v)
	case *PulseBlock:
		for _, p := range v.pulses {
			if err := pb.add(p); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("cannot compose %s into a pulse block", KindOf(e))
	}
	return nil
}

// CompoundGate is a named sub-sequence treated as one composite gate.
type CompoundGate struct {
	Label string
	Seq   []Entry
}

// Length is the summed duration of the nested sequence.
func (g *CompoundGate) Length() float64 {
	var total float64
	for _, e := range g.Seq {
		total += Duration(e)
	}
	return total
}

// CompositePulse plays its constituent pulses back to back. It is atomic
// for flattening.
type CompositePulse struct {
	Label  string
	Pulses []*Pulse
}

// Length is the summed length of the constituents.
func (c *CompositePulse) Length() float64 {
	var total float64
	for _, p := range c.Pulses {
		total += p.Length
	}
	return total
}

// Channels returns the distinct constituent channels in order.
func (c *CompositePulse) Channels() []*channel.Channel {
	var out []*channel.Channel
	seen := make(map[*channel.Channel]struct{})
	for _, p := range c.Pulses {
		if _, ok := seen[p.Channel]; ok {
			continue
		}
		seen[p.Channel] = struct{}{}
		out = append(out, p.Channel)
	}
	return out
}

// Op is a control-flow opcode.
type Op int

const (
	OpWait Op = iota
	OpSync
	OpGoto
	OpCall
	OpReturn
	OpRepeat
	OpLoad
)

var opNames = map[Op]string{
	OpWait:   "WAIT",
	OpSync:   "SYNC",
	OpGoto:   "GOTO",
	OpCall:   "CALL",
	OpReturn: "RETURN",
	OpRepeat: "REPEAT",
	OpLoad:   "LOAD",
}

func (o Op) String() string {
	if s, ok := opNames[o]; ok {
		return s
	}
	return fmt.Sprintf("OP(%d)", int(o))
}

// ParseOp maps an instruction name, in any case, to its opcode.
func ParseOp(s string) (Op, bool) {
	for op, name := range opNames {
		if strings.EqualFold(name, s) {
			return op, true
		}
	}
	return 0, false
}

// ControlInstruction is a control-flow marker. It carries no duration.
type ControlInstruction struct {
	Op     Op
	Target *BlockLabel
	Value  int
}

// Wait returns a WAIT marker.
func Wait() *ControlInstruction { return &ControlInstruction{Op: OpWait} }

// Sync returns a SYNC marker.
func Sync() *ControlInstruction { return &ControlInstruction{Op: OpSync} }

// Goto returns a jump to target.
func Goto(target *BlockLabel) *ControlInstruction {
	return &ControlInstruction{Op: OpGoto, Target: target}
}

// BlockLabel is a branch target.
type BlockLabel struct {
	Label string
}

// InstructionKind identifies a TDM instruction marker.
type InstructionKind int

const (
	CustomInstruction InstructionKind = iota
	WriteAddrInstruction
	LoadCmpVramInstruction
)

// Instruction is a TDM instruction marker. Like control instructions it is
// opaque to timing passes.
type Instruction struct {
	Kind  InstructionKind
	Name  string
	Addr  uint32
	Value uint32
}

func (*Pulse) isEntry()              {}
func (*PulseBlock) isEntry()         {}
func (*CompoundGate) isEntry()       {}
func (*CompositePulse) isEntry()     {}
func (*ControlInstruction) isEntry() {}
func (*BlockLabel) isEntry()         {}
func (*Instruction) isEntry()        {}
