package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panels stack in one column.
	LayoutCompactWidth = 80

	// LayoutWideWidth is the minimum width for three panel columns.
	LayoutWideWidth = 120
)

// Event pane limits.
const (
	// EventTailLines is how many log lines are read from the end of the log file.
	EventTailLines = 200

	// EventDisplayLimit is the number of events shown in the event pane.
	EventDisplayLimit = 6
)

// Joystick keys send a fixed deflection per press.
const stickStep = 50

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = 500 * time.Millisecond

	// CommandTimeout bounds a single command round trip.
	CommandTimeout = 5 * time.Second

	// EmergencyConfirmWindow is how long the first emergency stop press stays armed.
	EmergencyConfirmWindow = 3 * time.Second

	// FlashDuration is how long footer messages stay visible.
	FlashDuration = 4 * time.Second
)
