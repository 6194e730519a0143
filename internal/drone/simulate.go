package drone

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Simulation step sizes. Each jitter is uniform in ±step/2.
const (
	simBatteryDrain    = 0.1
	simAltitudeStep    = 2
	simSpeedStep       = 5
	simCoordinateStep  = 0.0001
	simHeadingStep     = 10
	simSignalStep      = 10
	simTemperatureStep = 2
)

// Simulate returns a partial that nudges prev the way a hovering drone
// drifts: the battery drains, position and motion jitter and the link
// quality wanders. elapsed advances the flight clock.
func Simulate(prev State, rng *rand.Rand, elapsed time.Duration) Partial {
	jitter := func(step float64) float64 {
		return (rng.Float64() - 0.5) * step
	}

	battery := prev.Battery
	battery.Percentage = math.Max(0, battery.Percentage-simBatteryDrain)

	flight := prev.Flight
	flight.Altitude = math.Max(0, flight.Altitude+jitter(simAltitudeStep))
	flight.Speed = math.Max(0, flight.Speed+jitter(simSpeedStep))
	flight.Coordinates = Coordinates{
		Latitude:  flight.Coordinates.Latitude + jitter(simCoordinateStep),
		Longitude: flight.Coordinates.Longitude + jitter(simCoordinateStep),
	}
	flight.Heading = WrapHeading(flight.Heading + jitter(simHeadingStep))
	flight.Distance = DistanceMeters(flight.HomePoint, flight.Coordinates)
	flight.FlightTime = AdvanceClock(flight.FlightTime, elapsed)

	telemetry := prev.Telemetry
	telemetry.FrameLines = append([]string(nil), prev.Telemetry.FrameLines...)
	telemetry.SignalStrength = ClampPercent(telemetry.SignalStrength + jitter(simSignalStep))
	telemetry.Temperature += jitter(simTemperatureStep)
	telemetry.Speed = flight.Speed
	telemetry.Height = flight.Altitude
	telemetry.FlightTime = flight.FlightTime

	return Partial{Battery: &battery, Flight: &flight, Telemetry: &telemetry}
}

// DistanceMeters is the haversine distance between two coordinates.
func DistanceMeters(a, b Coordinates) float64 {
	const earthRadius = 6371000.0
	rad := math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * rad
	dLon := (b.Longitude - a.Longitude) * rad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*rad)*math.Cos(b.Latitude*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// FormatClock renders seconds as MM:SS, or H:MM:SS past the hour.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// ParseClock is the inverse of FormatClock. Unparseable text yields 0.
func ParseClock(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// AdvanceClock adds elapsed to a MM:SS clock text.
func AdvanceClock(text string, elapsed time.Duration) string {
	return FormatClock(ParseClock(text) + int(elapsed.Round(time.Second)/time.Second))
}
