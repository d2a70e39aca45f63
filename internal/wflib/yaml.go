package wflib

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"gopkg.in/yaml.v2"
)

// YAMLName is the registry name of the built-in YAML translator.
const YAMLName = "yaml"

// WaveformEntry is one pulse stored in a YAML waveform library.
type WaveformEntry struct {
	Label   string             `yaml:"label"`
	Channel string             `yaml:"channel"`
	Offset  int                `yaml:"offset"`
	Length  float64            `yaml:"length"`
	Amp     float64            `yaml:"amp"`
	Phase   float64            `yaml:"phase"`
	Shape   map[string]float64 `yaml:"shape,omitempty"`
}

// WaveformLibrary is the on-disk document of the YAML translator.
type WaveformLibrary struct {
	Waveforms []WaveformEntry `yaml:"waveforms"`
}

// YAMLTranslator keeps a waveform library as a YAML document. Entries are
// replaced by label and written in label order; entries for labels not
// being updated are kept.
type YAMLTranslator struct{}

func (YAMLTranslator) Extension() string { return "yaml" }

func (YAMLTranslator) UpdateWaveformLibrary(ctx context.Context, path string, pulses []*sequence.Pulse, offsets Offsets) error {
	logger := ctxlog.FromContext(ctx).With("path", path)

	lib, err := ReadLibrary(path)
	if err != nil {
		return err
	}

	byLabel := make(map[string]WaveformEntry, len(lib.Waveforms))
	for _, w := range lib.Waveforms {
		byLabel[w.Label] = w
	}
	for _, p := range pulses {
		offset, ok := offsets[p.Label]
		if !ok {
			logger.Debug("Pulse has no offset, not updating.", "pulse", p.Label)
			continue
		}
		byLabel[p.Label] = WaveformEntry{
			Label:   p.Label,
			Channel: p.Channel.Label,
			Offset:  offset,
			Length:  p.Length,
			Amp:     p.Amp,
			Phase:   p.Phase,
			Shape:   p.ShapeParams,
		}
	}

	updated := WaveformLibrary{Waveforms: make([]WaveformEntry, 0, len(byLabel))}
	for _, w := range byLabel {
		updated.Waveforms = append(updated.Waveforms, w)
	}
	slices.SortFunc(updated.Waveforms, func(a, b WaveformEntry) int {
		return strings.Compare(a.Label, b.Label)
	})

	data, err := yaml.Marshal(&updated)
	if err != nil {
		return fmt.Errorf("encoding waveform library: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing waveform library: %w", err)
	}
	logger.Debug("Waveform library written.", "waveforms", len(updated.Waveforms))
	return nil
}

// ReadLibrary loads a YAML waveform library. A missing file is an empty
// library.
func ReadLibrary(path string) (*WaveformLibrary, error) {
	lib := &WaveformLibrary{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return lib, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading waveform library: %w", err)
	}
	if err := yaml.Unmarshal(data, lib); err != nil {
		return nil, fmt.Errorf("parsing waveform library %s: %w", path, err)
	}
	return lib, nil
}
