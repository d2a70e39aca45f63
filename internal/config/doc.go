// Package config defines the format-agnostic configuration model for the
// compiler: instruments, channels, sequences and compile options, along
// with the Loader interface that fills it from a concrete source.
//
// The `config.Model` is the single source of truth for the `app` package,
// which turns it into a channel library, sequences and compiler options.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
