// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - SourceEnumerator: Lists and reads files from a shared drive
//   - EnumeratorFactory: Creates enumerators per drive type
//   - DestinationSink: Receives file bytes during the transfer stage
//   - KnowledgeSink: Registers files with the knowledge destination
//   - TransferStore: Transfer and file-unit persistence
//   - ConfigStore: Application configuration access
//
// Persistence is best-effort: orchestration never depends on a store
// write succeeding, it only logs failures.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
