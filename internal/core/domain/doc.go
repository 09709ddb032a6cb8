// Package domain defines the core business entities for FTransport.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Transfer: One end-to-end migration run
//   - FileUnit: Per-file migration record within a transfer
//   - ProgressSnapshot: Immutable point-in-time aggregate progress
//   - Policies: Retry, failure and chunking configuration
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
