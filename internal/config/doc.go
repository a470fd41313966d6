// Package config loads, normalizes, and validates mp4convert configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MP4CONVERT_FFMPEG. The Config type centralizes the transcoder, walker,
// history, and logging knobs so the CLI resolves everything in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
