package droneapi

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/jawji/dronedeck/internal/drone"
)

// Reading mirrors the flat payload returned by /telemetry. Time fields are
// whole seconds.
type Reading struct {
	Battery             *float64 `json:"battery"`
	Altitude            *float64 `json:"altitude"`
	MaxAltitude         float64  `json:"max_altitude"`
	Speed               *float64 `json:"speed"`
	MaxSpeed            float64  `json:"max_speed"`
	Signal              string   `json:"signal"`
	SignalBars          *int     `json:"signal_bars"`
	Resolution          string   `json:"resolution"`
	FrameRate           *int     `json:"frame_rate"`
	FlightTime          *int     `json:"flight_time"`
	FlightTimeRemaining *int     `json:"flight_time_remaining"`
}

const maxSignalBars = 4

func (r Reading) validate() error {
	switch {
	case r.Battery == nil:
		return fmt.Errorf("%w: telemetry missing battery", ErrMalformedResponse)
	case r.Altitude == nil:
		return fmt.Errorf("%w: telemetry missing altitude", ErrMalformedResponse)
	case r.Speed == nil:
		return fmt.Errorf("%w: telemetry missing speed", ErrMalformedResponse)
	}
	return nil
}

// SignalPercent converts signal bars (0-4) into a strength percentage.
// A reading without bars reports 0.
func (r Reading) SignalPercent() float64 {
	if r.SignalBars == nil {
		return 0
	}
	bars := min(max(*r.SignalBars, 0), maxSignalBars)
	return float64(bars) * 100 / maxSignalBars
}

// Apply maps the reading onto the sub-records of base it covers. Fields
// missing from the payload keep their value from base.
func (r Reading) Apply(base drone.State) drone.Partial {
	base = base.Clone()

	battery := base.Battery
	if r.Battery != nil {
		battery.Percentage = *r.Battery
	}
	if r.FlightTimeRemaining != nil {
		battery.EstimatedFlightTime = math.Round(float64(max(*r.FlightTimeRemaining, 0))/60*10) / 10
	}

	flight := base.Flight
	if r.Altitude != nil {
		flight.Altitude = *r.Altitude
	}
	if r.Speed != nil {
		flight.Speed = *r.Speed
	}
	if r.FlightTime != nil {
		flight.FlightTime = drone.FormatClock(*r.FlightTime)
	}

	telemetry := base.Telemetry
	telemetry.Speed = flight.Speed
	telemetry.Height = flight.Altitude
	telemetry.FlightTime = flight.FlightTime
	if r.SignalBars != nil {
		telemetry.SignalStrength = r.SignalPercent()
	}

	camera := base.Camera
	if r.Resolution != "" {
		camera.Resolution = r.Resolution
	}
	if r.FrameRate != nil {
		camera.FPS = *r.FrameRate
	}

	return drone.Partial{Battery: &battery, Flight: &flight, Telemetry: &telemetry, Camera: &camera}
}

func decodePartial(raw map[string]json.RawMessage, base drone.State) (drone.Partial, error) {
	var (
		p   drone.Partial
		err error
	)
	if p.Status, err = overlay(raw, "status", base.Status); err != nil {
		return drone.Partial{}, err
	}
	if p.Battery, err = overlay(raw, "battery", base.Battery); err != nil {
		return drone.Partial{}, err
	}
	if p.Flight, err = overlay(raw, "flight", base.Flight); err != nil {
		return drone.Partial{}, err
	}
	if p.Camera, err = overlay(raw, "camera", base.Camera); err != nil {
		return drone.Partial{}, err
	}
	if p.Telemetry, err = overlay(raw, "telemetry", base.Telemetry); err != nil {
		return drone.Partial{}, err
	}
	if p.Controls, err = overlay(raw, "controls", base.Controls); err != nil {
		return drone.Partial{}, err
	}
	if p.LiveStream, err = overlay(raw, "liveStream", base.LiveStream); err != nil {
		return drone.Partial{}, err
	}
	if p.Map, err = overlay(raw, "map", base.Map); err != nil {
		return drone.Partial{}, err
	}
	return p, nil
}

// overlay decodes raw[key] on top of a copy of base. A missing or null key
// yields nil.
func overlay[T any](raw map[string]json.RawMessage, key string, base T) (*T, error) {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return nil, nil
	}
	v := base
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrMalformedResponse, key, err)
	}
	return &v, nil
}
