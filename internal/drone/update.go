package drone

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidFlightMode = errors.New("invalid flight mode: must be manual, sport, cinematic or auto")
	ErrInvalidMapView    = errors.New("invalid map view: must be satellite, hybrid, terrain or street")
	ErrInvalidMapSize    = errors.New("invalid map size: must be small, medium or large")
	ErrInvalidTheme      = errors.New("invalid theme: must be dark or light")
	ErrEmptyCommand      = errors.New("command name is empty")
)

const (
	minZoom      = 1
	maxZoom      = 20
	maxRTHMeters = 500
	axisLimit    = 100
)

// Ptr returns a pointer to v. Handy for building partial updates.
func Ptr[T any](v T) *T {
	return &v
}

// UIUpdate is a partial change to UISettings.
type UIUpdate struct {
	ShowGrid      *bool
	ShowMap       *bool
	ShowJoystick  *bool
	ShowTelemetry *bool
	Theme         *Theme
}

// Apply returns ui with the set fields of u applied.
func (u UIUpdate) Apply(ui UISettings) (UISettings, error) {
	if u.Theme != nil && !u.Theme.Valid() {
		return ui, fmt.Errorf("%w: %q", ErrInvalidTheme, *u.Theme)
	}
	setIf(&ui.ShowGrid, u.ShowGrid)
	setIf(&ui.ShowMap, u.ShowMap)
	setIf(&ui.ShowJoystick, u.ShowJoystick)
	setIf(&ui.ShowTelemetry, u.ShowTelemetry)
	setIf(&ui.Theme, u.Theme)
	return ui, nil
}

// MapUpdate is a partial change to Map.
type MapUpdate struct {
	ViewStyle      *MapView
	Zoom           *float64
	ShowFlightPath *bool
	ShowNoFlyZones *bool
	MapSize        *MapSize
}

// Apply returns m with the set fields of u applied. Zoom is clamped to [1,20].
func (u MapUpdate) Apply(m Map) (Map, error) {
	if u.ViewStyle != nil && !u.ViewStyle.Valid() {
		return m, fmt.Errorf("%w: %q", ErrInvalidMapView, *u.ViewStyle)
	}
	if u.MapSize != nil && !u.MapSize.Valid() {
		return m, fmt.Errorf("%w: %q", ErrInvalidMapSize, *u.MapSize)
	}
	setIf(&m.ViewStyle, u.ViewStyle)
	if u.Zoom != nil {
		m.Zoom = clamp(*u.Zoom, minZoom, maxZoom)
	}
	setIf(&m.ShowFlightPath, u.ShowFlightPath)
	setIf(&m.ShowNoFlyZones, u.ShowNoFlyZones)
	setIf(&m.MapSize, u.MapSize)
	return m, nil
}

// ControlsUpdate is a partial change to Controls.
type ControlsUpdate struct {
	IsArmed            *bool
	FlightMode         *FlightMode
	GPSMode            *bool
	ObstacleAvoidance  *bool
	ReturnToHomeHeight *float64
}

// Apply returns c with the set fields of u applied. The RTH altitude is
// clamped to [0,500] meters.
func (u ControlsUpdate) Apply(c Controls) (Controls, error) {
	if u.FlightMode != nil && !u.FlightMode.Valid() {
		return c, fmt.Errorf("%w: %q", ErrInvalidFlightMode, *u.FlightMode)
	}
	setIf(&c.IsArmed, u.IsArmed)
	setIf(&c.FlightMode, u.FlightMode)
	setIf(&c.GPSMode, u.GPSMode)
	setIf(&c.ObstacleAvoidance, u.ObstacleAvoidance)
	if u.ReturnToHomeHeight != nil {
		c.ReturnToHomeHeight = clamp(*u.ReturnToHomeHeight, 0, maxRTHMeters)
	}
	return c, nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// JoystickInput is a directional stick sample. Axes are in [-100,100];
// absent axes are not sent.
type JoystickInput struct {
	Throttle *int `json:"throttle,omitempty"`
	Yaw      *int `json:"yaw,omitempty"`
	Pitch    *int `json:"pitch,omitempty"`
	Roll     *int `json:"roll,omitempty"`
}

// Clamped returns a copy of j with every present axis limited to [-100,100].
func (j JoystickInput) Clamped() JoystickInput {
	return JoystickInput{
		Throttle: clampAxis(j.Throttle),
		Yaw:      clampAxis(j.Yaw),
		Pitch:    clampAxis(j.Pitch),
		Roll:     clampAxis(j.Roll),
	}
}

// Empty reports whether no axis is set.
func (j JoystickInput) Empty() bool {
	return j.Throttle == nil && j.Yaw == nil && j.Pitch == nil && j.Roll == nil
}

func clampAxis(v *int) *int {
	if v == nil {
		return nil
	}
	out := min(max(*v, -axisLimit), axisLimit)
	return &out
}

// Well-known command names understood by the drone controller.
const (
	CommandTakeoff        = "takeoff"
	CommandLand           = "land"
	CommandReturnToHome   = "rth"
	CommandEmergencyStop  = "emergency_stop"
	CommandStartRecording = "start_recording"
	CommandStopRecording  = "stop_recording"
	CommandSetCameraMode  = "set_camera_mode"
	CommandArm            = "arm"
	CommandDisarm         = "disarm"
	CommandSetFlightMode  = "set_flight_mode"
)

// Command is a named instruction for the drone controller.
type Command struct {
	Name   string         `json:"command"`
	Params map[string]any `json:"params,omitempty"`
}

// NewCommand trims and validates the command name.
func NewCommand(name string, params map[string]any) (Command, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Command{}, ErrEmptyCommand
	}
	return Command{Name: name, Params: params}, nil
}
