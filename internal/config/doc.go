// Package config loads, normalizes, and validates mediadup configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// engine and CLI accept: detection thresholds, signal weights and penalties,
// keeper ranking preferences, worker-pool sizing, and report-store paths.
//
// Thresholds are the entire externally tunable detection contract. Invalid
// threshold values fail validation before any scan work begins; nothing else
// in the pipeline re-checks them.
package config
