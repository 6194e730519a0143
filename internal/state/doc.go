// Package state holds the versioned drone snapshot shared by the poller, the
// command path and the dashboard.
//
// # Concurrency Model
//
// The current Snapshot lives behind an atomic pointer:
//
//   - Snapshot(): lock-free load plus a defensive copy
//   - CommitTick / FailTick / Apply / MarkDegraded: serialize on a mutex,
//     build a complete successor and swap the pointer
//
// A reader therefore sees either the old or the new version, never a mix.
//
// # Tick Ordering
//
// Every poll reserves a tick number with BeginTick before it starts. A result
// is applied only if its tick is newer than the last applied tick, so a slow
// poll that finishes after a faster, later one is discarded:
//
//	tick 1 submitted ──────────────────────┐ (slow)
//	tick 2 submitted ─────┐                │
//	                      CommitTick(2) ✓  │
//	                                       CommitTick(1) ✗ discarded
//
// # Failure Semantics
//
//	FailTick(tick, err)
//	→ drone state unchanged except Status.IsConnected = false
//	→ LastError = err, ConsecutiveFailures++
//	→ Stale() once ConsecutiveFailures >= StaleAfterFailures
//
// Local updates (Apply) and write failures (MarkDegraded) do not take a tick.
//
// # Lifecycle
//
// Close freezes the store: after teardown no write publishes a new version.
package state
