package compiler

import (
	"context"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// Delay inserts an idle pulse of the given amount right after every WAIT
// or SYNC, on the channels of the entry that follows it. Non-positive
// amounts leave the sequences untouched. Each sequence in seqs is replaced
// by its rewritten form and seqs is returned.
func Delay(seqs [][]sequence.Entry, amount float64) [][]sequence.Entry {
	if amount <= 0 {
		return seqs
	}
	for i, seq := range seqs {
		out := make([]sequence.Entry, 0, len(seq))
		for ct, e := range seq {
			out = append(out, e)
			if ct+1 >= len(seq) || !(sequence.IsWait(e) || sequence.IsSync(e)) {
				continue
			}
			if idle := idleFor(seq[ct+1], amount); idle != nil {
				out = append(out, idle)
			}
		}
		seqs[i] = out
	}
	return seqs
}

// idleFor builds an idle entry covering every channel next plays on.
func idleFor(next sequence.Entry, amount float64) sequence.Entry {
	chans := sequence.Channels(next)
	switch len(chans) {
	case 0:
		return nil
	case 1:
		return sequence.Id(chans[0], amount)
	}
	ids := make([]*sequence.Pulse, len(chans))
	for i, ch := range chans {
		ids[i] = sequence.Id(ch, amount)
	}
	pb, err := sequence.NewPulseBlock(ids...)
	if err != nil {
		// Channels never repeats a channel.
		panic(err)
	}
	return pb
}

// NormalizeDelays shifts a set of per-channel delays so that none is
// negative while keeping their differences. The input is not modified.
// An empty input is logged as an error and an empty map is returned.
func NormalizeDelays(ctx context.Context, delays map[*channel.Channel]float64) map[*channel.Channel]float64 {
	out := make(map[*channel.Channel]float64, len(delays))
	if len(delays) == 0 {
		ctxlog.FromContext(ctx).Error("normalize delays had no delays; the sequence is probably empty.")
		return out
	}

	first := true
	var minDelay float64
	for ch, d := range delays {
		out[ch] = d
		if first || d < minDelay {
			minDelay = d
			first = false
		}
	}
	if minDelay < 0 {
		for ch := range out {
			out[ch] -= minDelay
		}
	}
	return out
}

// ApplyChannelDelays delays each channel program by its normalized delay.
// The delay is inserted after every WAIT and SYNC, so a program without
// either is left unshifted.
func ApplyChannelDelays(ctx context.Context, programs []*ChannelProgram, delays map[*channel.Channel]float64) {
	if len(delays) == 0 {
		return
	}
	normalized := NormalizeDelays(ctx, delays)
	logger := ctxlog.FromContext(ctx)
	for _, cp := range programs {
		d, ok := normalized[cp.Channel]
		if !ok || d <= 0 {
			continue
		}
		before := entryCount(cp.Seqs)
		cp.Seqs = Delay(cp.Seqs, d)
		if entryCount(cp.Seqs) == before {
			logger.Debug("Channel delay not applied, no WAIT or SYNC to delay after.", "channel", cp.Channel.Label, "delay", d)
			continue
		}
		logger.Debug("Applied channel delay.", "channel", cp.Channel.Label, "delay", d)
	}
}

func entryCount(seqs [][]sequence.Entry) int {
	n := 0
	for _, seq := range seqs {
		n += len(seq)
	}
	return n
}
