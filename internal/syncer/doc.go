// Package syncer keeps the dashboard's drone snapshot fresh.
//
// A Synchronizer owns a state.Store and a Source. The source is picked once
// in New: a RemoteSource polling the controller's /state or /telemetry
// endpoint when an endpoint (or Controller) is configured, otherwise a
// SimulatedSource that nudges the previous state with drone.Simulate. Callers
// query Mode to tell the two apart.
//
// Each tick reserves a number from the store before fetching and commits
// under that number. A tick that lands after a later one has committed is
// dropped, so a slow response never overwrites fresher data. Failed ticks
// keep the previous drone values and only flip the connection flag.
//
// Local writes (UpdateUISettings, UpdateMapSettings, UpdateControls) apply
// immediately. The ui sub-record is never touched by a poll; map and controls
// are replaced whenever the controller sends them.
//
// Writes to the controller come in two flavors:
//
//   - SendCommand waits for the answer and returns an error matching
//     droneapi.ErrCommandFailed on any failure.
//   - SendJoystickInput returns at once; failures are logged and
//     mark the link degraded.
//
// Close freezes the store, cancels the poller and any in-flight joystick
// sends, and waits for them to exit.
package syncer
