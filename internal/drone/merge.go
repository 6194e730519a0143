package drone

import (
	"math"
	"slices"
)

// Partial is a freshly fetched subset of State. Nil sub-records are absent.
type Partial struct {
	Status     *Status     `json:"status,omitempty"`
	Battery    *Battery    `json:"battery,omitempty"`
	Flight     *Flight     `json:"flight,omitempty"`
	Camera     *Camera     `json:"camera,omitempty"`
	Telemetry  *Telemetry  `json:"telemetry,omitempty"`
	Controls   *Controls   `json:"controls,omitempty"`
	LiveStream *LiveStream `json:"liveStream,omitempty"`
	UI         *UISettings `json:"ui,omitempty"`
	Map        *Map        `json:"map,omitempty"`
}

// Empty reports whether p carries no sub-records that Merge would apply.
func (p Partial) Empty() bool {
	return p.Status == nil && p.Battery == nil && p.Flight == nil && p.Camera == nil &&
		p.Telemetry == nil && p.Controls == nil && p.LiveStream == nil && p.Map == nil
}

// Merge combines prev with a fetched partial. Every sub-record present in f
// replaces prev's; UI always stays prev's. The result is normalized.
func Merge(prev State, f Partial) State {
	next := prev.Clone()
	if f.Status != nil {
		next.Status = *f.Status
	}
	if f.Battery != nil {
		next.Battery = *f.Battery
	}
	if f.Flight != nil {
		next.Flight = *f.Flight
	}
	if f.Camera != nil {
		next.Camera = *f.Camera
	}
	if f.Telemetry != nil {
		next.Telemetry = *f.Telemetry
		next.Telemetry.FrameLines = slices.Clone(f.Telemetry.FrameLines)
	}
	if f.Controls != nil {
		next.Controls = *f.Controls
	}
	if f.LiveStream != nil {
		next.LiveStream = *f.LiveStream
	}
	if f.Map != nil {
		next.Map = *f.Map
	}
	// f.UI is ignored: display preferences belong to the local dashboard.
	return Normalize(next)
}

// Normalize enforces the snapshot invariants.
func Normalize(s State) State {
	s.Battery.Percentage = ClampPercent(s.Battery.Percentage)
	s.Telemetry.SignalStrength = ClampPercent(s.Telemetry.SignalStrength)
	s.Flight.Heading = WrapHeading(s.Flight.Heading)
	return s
}

// ClampPercent limits v to [0,100]. NaN becomes 0.
func ClampPercent(v float64) float64 {
	return clamp(v, 0, 100)
}

// WrapHeading maps any angle in degrees into [0,360).
func WrapHeading(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
