// Package config loads, normalizes, and validates urlsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// URLSORT_VOCAB_DIR and URLSORT_LOG_LEVEL. The Config type centralizes the
// vocabulary location, ranking biases, memo cache, and paste client settings
// so every command discovers them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
