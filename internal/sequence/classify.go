package sequence

import (
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/channel"
)

// MeasLabel marks measurement pulses.
const MeasLabel = "MEAS"

// IsNonZeroWaveform reports whether e is a pulse that actually plays.
func IsNonZeroWaveform(e Entry) bool {
	p, ok := e.(*Pulse)
	return ok && !p.IsZero
}

// ContainsMeasurement reports whether e is a measurement pulse or a pulse
// block holding one. Composite pulses never count.
func ContainsMeasurement(e Entry) bool {
	switch v := e.(type) {
	case *Pulse:
		return v.Label == MeasLabel
	case *PulseBlock:
		for _, p := range v.pulses {
			if p.Label == MeasLabel {
				return true
			}
		}
	}
	return false
}

// IsMarker reports whether e is a zero-duration marker that timing passes
// pass through untouched.
func IsMarker(e Entry) bool {
	switch e.(type) {
	case *ControlInstruction, *BlockLabel, *Instruction:
		return true
	}
	return false
}

// IsWait reports whether e is a WAIT instruction.
func IsWait(e Entry) bool {
	ci, ok := e.(*ControlInstruction)
	return ok && ci.Op == OpWait
}

// IsSync reports whether e is a SYNC instruction.
func IsSync(e Entry) bool {
	ci, ok := e.(*ControlInstruction)
	return ok && ci.Op == OpSync
}

// Channels returns the channels a timed entry plays on. Markers have none.
func Channels(e Entry) []*channel.Channel {
	switch v := e.(type) {
	case *Pulse:
		return []*channel.Channel{v.Channel}
	case *PulseBlock:
		return v.Channels()
	case *CompositePulse:
		return v.Channels()
	case *CompoundGate:
		var out []*channel.Channel
		seen := make(map[*channel.Channel]struct{})
		for inner := range Flatten(v.Seq...) {
			for _, ch := range Channels(inner) {
				if _, ok := seen[ch]; !ok {
					seen[ch] = struct{}{}
					out = append(out, ch)
				}
			}
		}
		return out
	}
	return nil
}

// Duration is the time an entry occupies. Markers take no time.
func Duration(e Entry) float64 {
	switch v := e.(type) {
	case *Pulse:
		return v.Length
	case *PulseBlock:
		return v.Length()
	case *CompositePulse:
		return v.Length()
	case *CompoundGate:
		return v.Length()
	}
	return 0
}

// KindOf names the entry variant for logs and listings.
func KindOf(e Entry) string {
	switch v := e.(type) {
	case *Pulse:
		return "pulse"
	case *PulseBlock:
		return "block"
	case *CompoundGate:
		return "gate"
	case *CompositePulse:
		return "composite"
	case *ControlInstruction:
		return v.Op.String()
	case *BlockLabel:
		return "label"
	case *Instruction:
		return "instruction"
	case nil:
		return "nil"
	}
	return fmt.Sprintf("%T", e)
}

// LabelOf returns the entry's label or target, if it has one.
func LabelOf(e Entry) string {
	switch v := e.(type) {
	case *Pulse:
		return v.Label
	case *CompoundGate:
		return v.Label
	case *CompositePulse:
		return v.Label
	case *BlockLabel:
		return v.Label
	case *Instruction:
		return v.Name
	case *ControlInstruction:
		if v.Target != nil {
			return v.Target.Label
		}
	case *PulseBlock:
		labels := ""
		for i, p := range v.pulses {
			if i > 0 {
				labels += "*"
			}
			labels += p.Label
		}
		return labels
	}
	return ""
}
