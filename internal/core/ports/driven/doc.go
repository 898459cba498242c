// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ArchiveReader: Opens archives and reads their members
//   - Extractor: Recovers a Document from one member payload
//   - SinkFactory / RecordSink: Append-only tabular outputs
//   - ArchiveWriter: Packs loose documents into archives (producer side)
//   - DocumentGenerator: Produces identifiers, levels and documents (producer side)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run history persistence. Without it, reports are only printed.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor or generator package
package driven
