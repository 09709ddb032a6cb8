// Package services implements the driving port interfaces.
// Services contain the core orchestration logic: the transfer lifecycle
// state machine, the bounded-concurrency stage executor, progress
// aggregation and the per-transfer event broadcaster. Services call out
// to driven ports (connectors, sinks, stores) and never embed
// provider-specific logic.
package services
