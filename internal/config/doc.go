// Package config loads focusnav settings from defaults, an optional .env
// file, an optional YAML config file and FOCUSNAV_ environment variables,
// in increasing order of precedence. Command-line flags override all of
// them.
package config
