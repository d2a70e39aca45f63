package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/config"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/wflib"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW        io.Writer
	logger      *slog.Logger
	config      *Config
	model       *config.Model
	library     *channel.Library
	translators *wflib.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, channel library
// and translator registry. Configuration that cannot be loaded is a fatal
// startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...wflib.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	lib, err := buildLibrary(cfgModel)
	if err != nil {
		panic(fmt.Errorf("failed to build channel library: %w", err))
	}
	logger.Debug("Channel library built.", "channels", lib.Len())

	reg := wflib.NewRegistry(logger)
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All translators registered.", "names", reg.Names())

	for _, in := range cfgModel.Instruments {
		if _, ok := reg.Get(in.Translator); !ok {
			panic(fmt.Errorf("instrument %q uses unknown translator %q", in.Name, in.Translator))
		}
	}

	return &App{
		outW:        outW,
		logger:      logger,
		config:      appConfig,
		model:       cfgModel,
		library:     lib,
		translators: reg,
	}
}

// Library returns the application's channel library. This is primarily for testing.
func (a *App) Library() *channel.Library {
	return a.library
}
