// Package domain defines the core business entities for xmlzip.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: One generated unit with an identifier, a level and objects
//   - LevelRecord / ObjectRecord: The two output row kinds
//   - RunReport: Counters and failures gathered during one processing run
//   - Settings: The recognised configuration surface
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
