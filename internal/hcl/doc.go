// Package hcl provides the HCL implementation of the config.Loader
// interface. It parses `instrument`, `channel`, `sequence` and `compile`
// blocks from .hcl files and translates them into the format-agnostic
// config.Model, decoding map-valued attributes through cty.
package hcl
