// Package config loads, normalizes, and validates mixcrate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// daemon and CLI need: scan roots, cache and playlist store locations, scanner
// behaviour, and feature extraction tunables.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
