// Package sqlite provides a SQLite-based implementation of driven.RunStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Each processing run is stored as a row in
// runs, with one row per recorded failure in run_failures.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory and applied in order on open.
//
// # Data Location
//
// By default, the database is stored at ~/.xmlzip/data/runs.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
