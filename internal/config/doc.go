// Package config loads, normalizes, and validates equalizer configuration data.
//
// Settings come from a TOML file (explicit path, the user config directory,
// or ./equalizer.toml) layered over repository defaults, then a handful of
// environment variables override the file. The sections mirror the addon
// settings the pipeline server exposes: heartbeat, creator defaults, and
// extractor options, plus local concerns such as the host backend and logs.
package config
