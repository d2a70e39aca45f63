package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pulsegrid/internal/compiler"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/listing"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/specialistvlad/pulsegrid/internal/wflib"
)

// Run compiles the configured sequences, prints the listing when asked to
// and updates the waveform libraries when an output path is known.
func (a *App) Run(ctx context.Context) (*compiler.Program, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	seqs, err := buildSequences(a.library, a.model.Sequences)
	if err != nil {
		return nil, fmt.Errorf("failed to build sequences: %w", err)
	}
	if len(seqs) == 0 {
		a.logger.Warn("No sequences found, compilation not required.")
		return &compiler.Program{}, nil
	}

	opts, err := buildOptions(a.library, a.model.Compile)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Compiling sequences.", "sequences", len(seqs))
	prog, err := compiler.Compile(ctx, a.library, seqs, opts)
	if err != nil {
		return nil, fmt.Errorf("compilation failed: %w", err)
	}

	if a.config.Listing {
		fmt.Fprintln(a.outW, listing.Render(prog))
	}

	output := a.config.OutputPath
	if output == "" && a.model.Compile != nil {
		output = a.model.Compile.Output
	}
	if output == "" {
		a.logger.Debug("No output path, waveform libraries not updated.")
		return prog, nil
	}

	if err := wflib.Update(ctx, a.translators, sequence.Pulses(prog.Seqs()), output); err != nil {
		return nil, fmt.Errorf("failed to update waveform libraries: %w", err)
	}
	a.logger.Info("Waveform libraries updated.", "output", output)

	a.logger.Debug("App.Run method finished.")
	return prog, nil
}
