// Package dronesim is a stand-in drone controller for development.
//
// It serves the same HTTP API the dashboard polls (/api/drone/state,
// /api/drone/telemetry, /api/drone/joystick and /api/drone/command) from an
// in-memory drone that drifts with drone.Simulate. Commands change the
// simulated drone: takeoff arms and climbs, land and emergency_stop disarm
// and ground it, rth switches to auto mode. FailEvery makes every Nth API
// request answer 503 so the dashboard's disconnected and stale paths can be
// exercised by hand.
package dronesim
