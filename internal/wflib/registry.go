// Package wflib hands compiled pulses to per-instrument waveform library
// translators.
//
// Pulses are grouped by the instrument of their physical channel. Each
// instrument has a translator, looked up by name in a Registry, and an
// offset table stored next to its library file.
package wflib

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/pulsegrid/internal/sequence"
)

// Translator writes pulses into an instrument's waveform library.
type Translator interface {
	// Extension is the file extension of the library, without the dot.
	Extension() string
	// UpdateWaveformLibrary updates the library at path in place. Offsets
	// map pulse labels to their position in waveform memory.
	UpdateWaveformLibrary(ctx context.Context, path string, pulses []*sequence.Pulse, offsets Offsets) error
}

// Registry holds the translators known to an application instance.
type Registry struct {
	all    map[string]Translator
	logger *slog.Logger
}

// NewRegistry creates an empty registry that logs registrations to logger,
// or to slog.Default() when logger is nil.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{all: make(map[string]Translator), logger: logger}
}

// Register adds a translator under name. Registering a name twice is a
// programming error and panics.
func (r *Registry) Register(name string, t Translator) {
	if _, exists := r.all[name]; exists {
		panic(fmt.Sprintf("translator with name '%s' already registered", name))
	}
	r.logger.Debug("Registering translator.", "name", name)
	r.all[name] = t
}

// Get returns the translator registered under name.
func (r *Registry) Get(name string) (Translator, bool) {
	t, ok := r.all[name]
	return t, ok
}

// Names lists the registered translators in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Module registers one or more translators.
type Module interface {
	Register(r *Registry)
}

// YAMLModule registers the built-in YAML translator.
type YAMLModule struct{}

// Register adds YAMLTranslator under YAMLName.
func (YAMLModule) Register(r *Registry) {
	r.Register(YAMLName, YAMLTranslator{})
}
