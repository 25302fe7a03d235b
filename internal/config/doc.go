// Package config loads, normalizes, and validates sortbox configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the SORTBOX_ROOT environment
// fallback. Command-line flags override the loaded values per run.
package config
