// Package config loads, normalizes, and validates humspine configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours XDG_CACHE_HOME for the analysis cache. The
// Config type centralizes every knob the CLI needs: log output, how spine
// files are analyzed, and where analysis summaries are cached.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
