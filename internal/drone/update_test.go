package drone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUIUpdate_IsIdempotent(t *testing.T) {
	base := DefaultState().UI
	base.ShowGrid = false
	update := UIUpdate{ShowGrid: Ptr(true)}

	once, err := update.Apply(base)
	require.NoError(t, err)
	twice, err := update.Apply(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.True(t, once.ShowGrid)
	assert.Equal(t, base.ShowMap, once.ShowMap)
}

func TestUIUpdate_RejectsUnknownTheme(t *testing.T) {
	base := DefaultState().UI
	got, err := UIUpdate{Theme: Ptr(Theme("neon")), ShowGrid: Ptr(!base.ShowGrid)}.Apply(base)
	require.ErrorIs(t, err, ErrInvalidTheme)
	assert.Equal(t, base, got, "a rejected update must not be partially applied")
}

func TestMapUpdate_ClampsZoomAndValidates(t *testing.T) {
	base := DefaultState().Map

	got, err := MapUpdate{Zoom: Ptr(99.0), ViewStyle: Ptr(MapViewTerrain)}.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.Zoom)
	assert.Equal(t, MapViewTerrain, got.ViewStyle)

	_, err = MapUpdate{ViewStyle: Ptr(MapView("moon"))}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidMapView)

	_, err = MapUpdate{MapSize: Ptr(MapSize("huge"))}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidMapSize)
}

func TestControlsUpdate(t *testing.T) {
	base := DefaultState().Controls

	got, err := ControlsUpdate{IsArmed: Ptr(true), FlightMode: Ptr(FlightModeCinematic), ReturnToHomeHeight: Ptr(-4.0)}.Apply(base)
	require.NoError(t, err)
	assert.True(t, got.IsArmed)
	assert.Equal(t, FlightModeCinematic, got.FlightMode)
	assert.Equal(t, 0.0, got.ReturnToHomeHeight)
	assert.Equal(t, base.GPSMode, got.GPSMode)

	_, err = ControlsUpdate{FlightMode: Ptr(FlightMode("turbo"))}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidFlightMode)
}

func TestFlightModeAndMapViewCycle(t *testing.T) {
	assert.Equal(t, FlightModeSport, FlightModeManual.Next())
	assert.Equal(t, FlightModeManual, FlightModeAuto.Next())
	assert.Equal(t, FlightModeManual, FlightMode("bogus").Next())
	assert.Equal(t, MapViewHybrid, MapViewSatellite.Next())
	assert.Equal(t, MapViewSatellite, MapViewStreet.Next())
}

func TestJoystickInput_Clamped(t *testing.T) {
	in := JoystickInput{Throttle: Ptr(150), Yaw: Ptr(-101), Pitch: Ptr(20)}
	got := in.Clamped()

	assert.Equal(t, 100, *got.Throttle)
	assert.Equal(t, -100, *got.Yaw)
	assert.Equal(t, 20, *got.Pitch)
	assert.Nil(t, got.Roll)
	assert.Equal(t, 150, *in.Throttle, "Clamped must not modify the receiver")
	assert.True(t, JoystickInput{}.Empty())
}

func TestNewCommand(t *testing.T) {
	cmd, err := NewCommand("  land ", nil)
	require.NoError(t, err)
	assert.Equal(t, CommandLand, cmd.Name)

	_, err = NewCommand("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyCommand)
}
