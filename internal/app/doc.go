// Package app is the composition root for dronedeck.
//
// # Overview
//
// Run wires configuration, logging, the synchronizer, the optional metrics
// endpoint and the dashboard together, then blocks until the dashboard exits
// or the context is cancelled.
//
// # Startup
//
//  1. Load ~/.config/dronedeck/config.toml and apply CLI overrides
//  2. Load dashboard preferences and open the log file
//  3. Seed the initial drone state from the configured identity and saved panels
//  4. Build the synchronizer (remote when an endpoint is set, simulated otherwise)
//  5. Start polling, serve /metrics if metrics_addr is set, run the dashboard
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      Read config, apply flags
//	       ├─────> logging.New()      logrus to the log file
//	       ├─────> syncer.New()       Remote or simulated source
//	       ├─────> Synchronizer.Start Background poller
//	       ├─────> metrics server     promhttp on metrics_addr (optional)
//	       └─────> ui.Run()           Dashboard (blocks)
//
// # Shutdown
//
// Quitting the dashboard cancels the run context, which stops the metrics
// server. The deferred Synchronizer.Close waits for the poller and any
// in-flight joystick sends before Run returns, so no state changes after
// teardown.
//
// # Error Handling
//
// Invalid configuration, an unusable log file or a malformed endpoint are
// returned from Run. Poll, command and joystick failures never are; they
// surface in the dashboard and the log.
package app
