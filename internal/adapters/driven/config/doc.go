// Package config converts raw configuration values into Go types.
//
// Values reach the config stores from TOML files (int64, float64, string,
// bool) and from code (int and friends). The stores share these conversions
// so that both read the same value the same way.
package config
