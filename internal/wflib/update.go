package wflib

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

type instrumentPulses struct {
	name       string
	translator string
	pulses     []*sequence.Pulse
	seen       map[string]struct{}
}

// Update groups pulses by instrument and lets each instrument's translator
// update its library at "<base>-<instrument>.<ext>". Within an instrument
// the first pulse with a given label wins. Instruments without an offset
// table are skipped with a warning; the others are still updated.
func Update(ctx context.Context, reg *Registry, pulses iter.Seq[*sequence.Pulse], base string) error {
	logger := ctxlog.FromContext(ctx)

	var order []*instrumentPulses
	byName := make(map[string]*instrumentPulses)
	for p := range pulses {
		phys := p.Channel.Phys
		group, ok := byName[phys.Instrument]
		if !ok {
			group = &instrumentPulses{name: phys.Instrument, translator: phys.Translator, seen: make(map[string]struct{})}
			byName[phys.Instrument] = group
			order = append(order, group)
		}
		if _, dup := group.seen[p.Label]; dup {
			continue
		}
		group.seen[p.Label] = struct{}{}
		group.pulses = append(group.pulses, p)
	}

	for _, group := range order {
		if group.name == "" {
			logger.Debug("Skipping pulses without an instrument.", "pulses", len(group.pulses))
			continue
		}
		t, ok := reg.Get(group.translator)
		if !ok {
			return fmt.Errorf("instrument %s: unknown translator %q", group.name, group.translator)
		}

		offsets, err := LoadOffsets(OffsetsPath(base, group.name))
		if errors.Is(err, ErrOffsetsMissing) {
			logger.Warn("Offset file not found, skipping pulses.", "instrument", group.name, "pulses", labels(group.pulses))
			continue
		}
		if err != nil {
			return fmt.Errorf("instrument %s: %w", group.name, err)
		}

		logger.Info("Updating pulses.", "instrument", group.name, "translator", group.translator, "pulses", len(group.pulses))
		path := LibraryPath(base, group.name, t.Extension())
		if err := t.UpdateWaveformLibrary(ctx, path, group.pulses, offsets); err != nil {
			return fmt.Errorf("instrument %s: %w", group.name, err)
		}
	}
	return nil
}

func labels(pulses []*sequence.Pulse) []string {
	out := make([]string, len(pulses))
	for i, p := range pulses {
		out[i] = p.Label
	}
	return out
}
