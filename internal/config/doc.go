// Package config loads, normalizes, and validates easel's TOML
// configuration. Defaults always produce a usable config; a missing file is
// not an error.
package config
