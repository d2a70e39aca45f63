// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the compile lifecycle: load the model,
// build the channel library and sequences, run the compiler and hand the
// result to waveform library translators. It is decoupled from any
// specific entrypoint like a CLI.
package app
