package drone

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_KeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	state := DefaultState()
	state.Battery.Percentage = 0.25
	state.Flight.Heading = 359
	state.Telemetry.SignalStrength = 99

	for i := 0; i < 500; i++ {
		prevBattery := state.Battery.Percentage
		state = Merge(state, Simulate(state, rng, 2*time.Second))

		require.LessOrEqual(t, state.Battery.Percentage, prevBattery, "battery must never increase")
		require.GreaterOrEqual(t, state.Battery.Percentage, 0.0)
		require.GreaterOrEqual(t, state.Flight.Heading, 0.0)
		require.Less(t, state.Flight.Heading, 360.0)
		require.GreaterOrEqual(t, state.Telemetry.SignalStrength, 0.0)
		require.LessOrEqual(t, state.Telemetry.SignalStrength, 100.0)
		require.GreaterOrEqual(t, state.Flight.Speed, 0.0)
		require.GreaterOrEqual(t, state.Flight.Altitude, 0.0)
	}
	assert.Equal(t, 0.0, state.Battery.Percentage)
}

func TestSimulate_OnlyTouchesSimulatedRecords(t *testing.T) {
	prev := DefaultState()
	p := Simulate(prev, rand.New(rand.NewSource(1)), time.Second)

	assert.NotNil(t, p.Battery)
	assert.NotNil(t, p.Flight)
	assert.NotNil(t, p.Telemetry)
	assert.Nil(t, p.Status)
	assert.Nil(t, p.Controls)
	assert.Nil(t, p.UI)
	assert.Equal(t, "02:10", p.Flight.FlightTime)
}

func TestClockFormatting(t *testing.T) {
	assert.Equal(t, "02:15", FormatClock(135))
	assert.Equal(t, "18:45", FormatClock(1125))
	assert.Equal(t, "1:00:05", FormatClock(3605))
	assert.Equal(t, "00:00", FormatClock(-3))

	assert.Equal(t, 129, ParseClock("02:09"))
	assert.Equal(t, 3605, ParseClock("1:00:05"))
	assert.Equal(t, 0, ParseClock("soon"))
	assert.Equal(t, "00:02", AdvanceClock("", 2*time.Second))
}

func TestDistanceMeters(t *testing.T) {
	home := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	assert.Equal(t, 0.0, DistanceMeters(home, home))
	// one thousandth of a degree of latitude is ~111 m
	d := DistanceMeters(home, Coordinates{Latitude: 40.7138, Longitude: -74.0060})
	assert.InDelta(t, 111.2, d, 0.5)
}
