package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the dashboard.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	PollNow    key.Binding

	// Panels
	ToggleGrid      key.Binding
	ToggleMap       key.Binding
	ToggleJoystick  key.Binding
	ToggleTelemetry key.Binding

	// Flight controls
	Arm            key.Binding
	CycleMode      key.Binding
	ToggleGPS      key.Binding
	ToggleAvoid    key.Binding
	Takeoff        key.Binding
	Land           key.Binding
	ReturnHome     key.Binding
	EmergencyStop  key.Binding
	ToggleRecord   key.Binding
	ToggleCamera   key.Binding
	RaiseRTHHeight key.Binding
	LowerRTHHeight key.Binding

	// Map
	CycleMapView key.Binding
	ZoomIn       key.Binding
	ZoomOut      key.Binding
	ToggleFlight key.Binding
	ToggleNoFly  key.Binding
	CycleMapSize key.Binding

	// Joystick
	ThrottleUp   key.Binding
	ThrottleDown key.Binding
	YawLeft      key.Binding
	YawRight     key.Binding
	PitchForward key.Binding
	PitchBack    key.Binding
	RollLeft     key.Binding
	RollRight    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Toggle theme"),
		),
		PollNow: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Poll now"),
		),

		// Panels
		ToggleGrid: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Camera grid"),
		),
		ToggleMap: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Map panel"),
		),
		ToggleJoystick: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "Joystick panel"),
		),
		ToggleTelemetry: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Telemetry panel"),
		),

		// Flight controls
		Arm: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Arm/disarm"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle flight mode"),
		),
		ToggleGPS: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "GPS mode"),
		),
		ToggleAvoid: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "Obstacle avoidance"),
		),
		Takeoff: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Takeoff"),
		),
		Land: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Land"),
		),
		ReturnHome: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Return to home"),
		),
		EmergencyStop: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X X", "Emergency stop"),
		),
		ToggleRecord: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Start/stop recording"),
		),
		ToggleCamera: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Photo/video"),
		),
		RaiseRTHHeight: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "RTH height +10m"),
		),
		LowerRTHHeight: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "RTH height -10m"),
		),

		// Map
		CycleMapView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Cycle map view"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Zoom out"),
		),
		ToggleFlight: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Flight path"),
		),
		ToggleNoFly: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "No-fly zones"),
		),
		CycleMapSize: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "Map size"),
		),

		// Joystick
		ThrottleUp: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w/s", "Throttle"),
		),
		ThrottleDown: key.NewBinding(
			key.WithKeys("s"),
		),
		YawLeft: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a/d", "Yaw"),
		),
		YawRight: key.NewBinding(
			key.WithKeys("d"),
		),
		PitchForward: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "Pitch"),
		),
		PitchBack: key.NewBinding(
			key.WithKeys("down"),
		),
		RollLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "Roll"),
		),
		RollRight: key.NewBinding(
			key.WithKeys("right"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Takeoff, k.Land, k.ReturnHome, k.EmergencyStop, k.CycleTheme, k.Quit}
}

// FullHelp returns key bindings for the help overlay, grouped by section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Takeoff, k.Land, k.ReturnHome, k.EmergencyStop, k.Arm, k.CycleMode, k.ToggleGPS, k.ToggleAvoid, k.LowerRTHHeight, k.RaiseRTHHeight},
		{k.ToggleRecord, k.ToggleCamera},
		{k.ThrottleUp, k.YawLeft, k.PitchForward, k.RollLeft},
		{k.CycleMapView, k.ZoomIn, k.ZoomOut, k.ToggleFlight, k.ToggleNoFly, k.CycleMapSize},
		{k.ToggleGrid, k.ToggleMap, k.ToggleJoystick, k.ToggleTelemetry},
		{k.CycleTheme, k.PollNow, k.Help, k.Quit},
	}
}
