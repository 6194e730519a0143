// Package drone defines the drone snapshot model and the pure functions that
// operate on it.
//
// # Ownership
//
// State is split into sub-records. The remote drone controller is
// authoritative for all of them except UISettings, which belongs to the
// local dashboard:
//
//	Merge(prev, fetched)
//	→ status, battery, flight, camera, telemetry, controls, liveStream, map
//	  taken from fetched when present, else from prev
//	→ ui always from prev
//
// # Invariants
//
// Normalize runs after every merge and local update:
//
//   - battery percentage and signal strength are clamped to [0,100]
//   - heading wraps into [0,360)
//
// # Local updates
//
// UIUpdate, MapUpdate and ControlsUpdate carry pointer fields; only the set
// fields are applied, so applying the same update twice is a no-op the
// second time.
//
// # Simulation
//
// Simulate produces the partial a simulated drone would report on the next
// tick. It is used both by the dashboard's simulation mode and by the
// dronesim mock backend.
package drone
