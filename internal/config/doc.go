// Package config loads, defaults, normalizes, and validates the TOML
// configuration shared by the xposter daemon and CLI.
package config
