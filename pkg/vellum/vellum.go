// Package vellum exposes build-level metadata about the tool.
package vellum

// Version is the tool release version reported by the CLI. It is distinct
// from the diagram schema version the engine reads and writes.
const Version = "0.4.0"
