// Package config loads and validates voxlock's TOML configuration.
//
// Load merges the config file over built-in defaults, expands ~ in paths,
// and validates the result. Calibration constants (match distance threshold,
// phrase similarity threshold) live here so deployments can tune them without
// code changes.
package config
