// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ArchiveProcessor is the concurrent core: archives run in parallel and
// the members of one archive are dispatched to a bounded set of workers.
// ArchiveProducer, SettingsService, RunHistoryService and Cleaner support it.
package services
