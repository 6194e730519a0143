// Package ui provides the terminal dashboard for dronedeck.
//
// # Architecture Overview
//
// The dashboard is a Bubble Tea program. Model holds the latest
// state.Snapshot and re-reads it from the Syncer on every tick, so the
// screen never waits on the network. Everything that changes the drone goes
// through the Syncer: display settings, map settings and control toggles are
// applied locally and return the new snapshot at once, while commands run as
// tea.Cmds and report back through commandResultMsg.
//
// # Package Structure
//
//   - app.go: Model, message types, key dispatch and Run
//   - header.go: status bar with link badges and the footer
//   - panels.go: flight, battery, controls, camera, live feed, telemetry, map and joystick panels
//   - events.go: tail of the application log
//   - keys.go: key bindings and help grouping
//   - help.go: help overlay
//   - theme.go, style_helpers.go: dark and light palettes and lipgloss helpers
//
// # Link State
//
// The header shows CONNECTED or DISCONNECTED from the drone's link flag,
// STALE once polling has failed several times in a row, and SIMULATION when
// no controller endpoint is configured. Panel borders dim while stale; the
// last good values stay on screen.
//
// # Preferences
//
// Theme and panel visibility persist to the prefs file as they change. The
// theme cycle rewrites only the theme key.
//
// # Key Bindings
//
//   - o / L / r: Takeoff, land, return to home
//   - X X: Emergency stop (press twice within three seconds)
//   - A / f / G / O: Arm, flight mode, GPS, obstacle avoidance
//   - [ / ]: Lower or raise the return-to-home height
//   - R / c: Recording, photo or video
//   - w/s a/d arrows: Joystick (joystick panel must be visible)
//   - v + - P N M: Map view, zoom, flight path, no-fly zones, size
//   - g m J t: Camera grid, map, joystick and telemetry panels
//   - T: Toggle theme
//   - p: Poll now
//   - h or ?: Help
//   - q or Ctrl+C: Quit
package ui
