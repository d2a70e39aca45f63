package wflib

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrOffsetsMissing is returned by LoadOffsets when no offset table exists.
var ErrOffsetsMissing = errors.New("offset table not found")

// Offsets maps a pulse label to its offset in waveform memory.
type Offsets map[string]int

// OffsetsPath is the offset table of instrument next to the base path.
func OffsetsPath(base, instrument string) string {
	return base + "-" + instrument + ".offsets"
}

// LibraryPath is the library file of instrument next to the base path.
func LibraryPath(base, instrument, ext string) string {
	return base + "-" + instrument + "." + ext
}

// LoadOffsets reads a YAML offset table.
func LoadOffsets(path string) (Offsets, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrOffsetsMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading offsets: %w", err)
	}

	offsets := Offsets{}
	if err := yaml.Unmarshal(data, &offsets); err != nil {
		return nil, fmt.Errorf("parsing offsets %s: %w", path, err)
	}
	return offsets, nil
}

// WriteOffsets stores offsets as YAML at path.
func WriteOffsets(path string, offsets Offsets) error {
	data, err := yaml.Marshal(offsets)
	if err != nil {
		return fmt.Errorf("encoding offsets: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing offsets: %w", err)
	}
	return nil
}
