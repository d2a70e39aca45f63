package compiler

import (
	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// ChannelProgram is the per-channel view of a batch of sequences: one mini
// sequence ("link list") per input sequence.
type ChannelProgram struct {
	Channel *channel.Channel
	Seqs    [][]sequence.Entry
}

// UsedChannels returns the channels that play in seqs, ordered as in the
// library. Channels missing from the library follow in order of first use.
func UsedChannels(lib *channel.Library, seqs [][]sequence.Entry) []*channel.Channel {
	used := make(map[*channel.Channel]struct{})
	var extra []*channel.Channel
	for e := range sequence.FlattenAll(seqs) {
		for _, ch := range sequence.Channels(e) {
			if _, ok := used[ch]; ok {
				continue
			}
			used[ch] = struct{}{}
			if _, known := lib.Get(ch.Label); !known {
				extra = append(extra, ch)
			}
		}
	}

	var out []*channel.Channel
	for _, ch := range lib.Channels() {
		if _, ok := used[ch]; ok {
			out = append(out, ch)
		}
	}
	return append(out, extra...)
}

// ChannelLinkLists splits every sequence into one mini sequence per
// channel. Where a channel does not play, it idles for the duration of the
// entry; markers are copied to every channel so all channels stay in step.
func ChannelLinkLists(seqs [][]sequence.Entry, chans []*channel.Channel) []*ChannelProgram {
	programs := make([]*ChannelProgram, len(chans))
	for i, ch := range chans {
		cp := &ChannelProgram{Channel: ch, Seqs: make([][]sequence.Entry, len(seqs))}
		for j, seq := range seqs {
			cp.Seqs[j] = linkList(seq, ch)
		}
		programs[i] = cp
	}
	return programs
}

func linkList(seq []sequence.Entry, ch *channel.Channel) []sequence.Entry {
	var out []sequence.Entry
	idle := func(length float64) {
		if length > 0 {
			out = append(out, sequence.Id(ch, length))
		}
	}

	for e := range sequence.Flatten(seq...) {
		switch v := e.(type) {
		case *sequence.Pulse:
			if v.Channel == ch {
				out = append(out, v.Clone())
			} else {
				idle(v.Length)
			}

		case *sequence.PulseBlock:
			p, ok := v.Get(ch)
			if !ok {
				idle(v.Length())
				continue
			}
			slack := v.Length() - p.Length
			switch v.Alignment {
			case sequence.AlignLeft:
				out = append(out, p.Clone())
				idle(slack)
			case sequence.AlignRight:
				idle(slack)
				out = append(out, p.Clone())
			case sequence.AlignCenter:
				idle(slack / 2)
				out = append(out, p.Clone())
				idle(slack / 2)
			}

		case *sequence.CompositePulse:
			for _, p := range v.Pulses {
				if p.Channel == ch {
					out = append(out, p.Clone())
				} else {
					idle(p.Length)
				}
			}

		default:
			out = append(out, e)
		}
	}
	return out
}
