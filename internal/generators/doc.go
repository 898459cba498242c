// Package generators provides implementations of the DocumentGenerator
// interface used by the archive producer.
package generators
