// Package archive provides implementations of the archive ports.
//
// Adapters:
//   - zipfile: zip archives on the local filesystem
package archive
