// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.xmlzip/config.toml (or --config-dir).
// Every change is written to a temporary file and renamed into place, so a
// crash mid-write never leaves a truncated config behind.
package file
