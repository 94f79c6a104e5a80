// Package logging wires log/slog with a console line handler and a JSON
// handler, plus attribute helpers and context-derived correlation fields.
package logging
