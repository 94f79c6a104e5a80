// Package main hosts the easel CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into pipeline
// operations: filename-driven edit chains, sheet-driven generation, the
// country attribute sweep, prompt previews, run log inspection, and
// configuration scaffolding. Configuration resolution and logging setup are
// centralized here so subcommands stay declarative; the heavy lifting lives
// in the internal packages.
package main
