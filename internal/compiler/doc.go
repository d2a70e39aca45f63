// Package compiler rewrites logical pulse sequences so they respect the
// timing constraints of the target hardware: idle delays after
// synchronization points, blanking and parametric companion pulses,
// digitizer and slave triggers, decoupling pulses, gate buffer and minimum
// width constraints, frame-change propagation, and sample quantization.
//
// Every pass is a deterministic function over its input. Passes that
// insert or remove entries build a fresh slice from a cursor over the
// input instead of editing the slice they are iterating, and return it.
// Passes that only adjust pulse metadata (phase, length) update the
// pulses in place.
//
// Compile chains the passes in the order the hardware requires and splits
// the result into one program per channel.
package compiler
