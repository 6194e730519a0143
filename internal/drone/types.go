package drone

import (
	"slices"
	"time"
)

// FlightMode selects the drone's control profile.
type FlightMode string

const (
	FlightModeManual    FlightMode = "manual"
	FlightModeSport     FlightMode = "sport"
	FlightModeCinematic FlightMode = "cinematic"
	FlightModeAuto      FlightMode = "auto"
)

var flightModeOrder = []FlightMode{FlightModeManual, FlightModeSport, FlightModeCinematic, FlightModeAuto}

// Valid reports whether m is a known flight mode.
func (m FlightMode) Valid() bool {
	return slices.Contains(flightModeOrder, m)
}

// Next returns the mode after m in the cycle manual → sport → cinematic → auto.
func (m FlightMode) Next() FlightMode {
	for i, mode := range flightModeOrder {
		if mode == m {
			return flightModeOrder[(i+1)%len(flightModeOrder)]
		}
	}
	return flightModeOrder[0]
}

// CameraMode is the capture mode of the gimbal camera.
type CameraMode string

const (
	CameraModePhoto CameraMode = "photo"
	CameraModeVideo CameraMode = "video"
)

// MapView is the base layer shown by the map panel.
type MapView string

const (
	MapViewSatellite MapView = "satellite"
	MapViewHybrid    MapView = "hybrid"
	MapViewTerrain   MapView = "terrain"
	MapViewStreet    MapView = "street"
)

var mapViewOrder = []MapView{MapViewSatellite, MapViewHybrid, MapViewTerrain, MapViewStreet}

// Valid reports whether v is a known map view.
func (v MapView) Valid() bool {
	return slices.Contains(mapViewOrder, v)
}

// Next returns the view after v in display order.
func (v MapView) Next() MapView {
	for i, view := range mapViewOrder {
		if view == v {
			return mapViewOrder[(i+1)%len(mapViewOrder)]
		}
	}
	return mapViewOrder[0]
}

// MapSize is the panel size of the map.
type MapSize string

const (
	MapSizeSmall  MapSize = "small"
	MapSizeMedium MapSize = "medium"
	MapSizeLarge  MapSize = "large"
)

// Valid reports whether s is a known map size.
func (s MapSize) Valid() bool {
	return s == MapSizeSmall || s == MapSizeMedium || s == MapSizeLarge
}

// Theme is the dashboard color scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// StreamQuality is the live stream resolution tier.
type StreamQuality string

const (
	Quality720p  StreamQuality = "720p"
	Quality1080p StreamQuality = "1080p"
	Quality4K    StreamQuality = "4K"
)

// State is the full drone snapshot shown by the dashboard.
type State struct {
	Status     Status     `json:"status"`
	Battery    Battery    `json:"battery"`
	Flight     Flight     `json:"flight"`
	Camera     Camera     `json:"camera"`
	Telemetry  Telemetry  `json:"telemetry"`
	Controls   Controls   `json:"controls"`
	LiveStream LiveStream `json:"liveStream"`
	UI         UISettings `json:"ui"`
	Map        Map        `json:"map"`
}

// Status identifies the drone and its link state.
type Status struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Model       string    `json:"model"`
	Firmware    string    `json:"firmware"`
	IsConnected bool      `json:"isConnected"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Battery describes the flight pack.
type Battery struct {
	Percentage          float64   `json:"percentage"`
	Voltage             float64   `json:"voltage"`
	Temperature         float64   `json:"temperature"`
	CycleCount          int       `json:"cycleCount"`
	EstimatedFlightTime float64   `json:"estimatedFlightTime"` // minutes
	LastChargedAt       time.Time `json:"lastChargedAt"`
}

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Flight holds position and motion.
type Flight struct {
	Speed       float64     `json:"speed"`    // km/h
	Altitude    float64     `json:"altitude"` // meters
	Distance    float64     `json:"distance"` // meters from home
	FlightTime  string      `json:"flightTime"`
	Coordinates Coordinates `json:"coordinates"`
	Heading     float64     `json:"heading"` // degrees, [0,360)
	HomePoint   Coordinates `json:"homePoint"`
}

// Camera holds gimbal camera settings.
type Camera struct {
	Resolution       string     `json:"resolution"`
	FPS              int        `json:"fps"`
	ISO              int        `json:"iso"`
	Shutter          int        `json:"shutter"`
	IsRecording      bool       `json:"isRecording"`
	RecordingTime    string     `json:"recordingTime"`
	StorageRemaining float64    `json:"storageRemaining"` // GB
	Mode             CameraMode `json:"mode"`
}

// Telemetry is the sensor readout block.
type Telemetry struct {
	Speed          float64  `json:"speed"`
	LDIS           float64  `json:"ldis"` // ranging sensor distance
	Height         float64  `json:"height"`
	ISO            int      `json:"iso"`
	FlightTime     string   `json:"flightTime"`
	Shutter        int      `json:"shutter"`
	FrameLines     []string `json:"frameLines"`
	Temperature    float64  `json:"temperature"`
	SignalStrength float64  `json:"signalStrength"` // [0,100]
}

// Controls holds the arming and flight-assist state.
type Controls struct {
	IsArmed            bool       `json:"isArmed"`
	FlightMode         FlightMode `json:"flightMode"`
	GPSMode            bool       `json:"gpsMode"`
	ObstacleAvoidance  bool       `json:"obstacleAvoidance"`
	ReturnToHomeHeight float64    `json:"returnToHomeHeight"` // meters
}

// LiveStream describes the video feed.
type LiveStream struct {
	URL         string        `json:"url"`
	Quality     StreamQuality `json:"quality"`
	Latency     int           `json:"latency"` // ms
	Bitrate     int           `json:"bitrate"` // kbps
	IsStreaming bool          `json:"isStreaming"`
}

// UISettings are display preferences owned by the local dashboard.
type UISettings struct {
	ShowGrid      bool  `json:"showGrid"`
	ShowMap       bool  `json:"showMap"`
	ShowJoystick  bool  `json:"showJoystick"`
	ShowTelemetry bool  `json:"showTelemetry"`
	Theme         Theme `json:"theme"`
}

// Map holds map panel settings.
type Map struct {
	ViewStyle      MapView `json:"viewStyle"`
	Zoom           float64 `json:"zoom"`
	ShowFlightPath bool    `json:"showFlightPath"`
	ShowNoFlyZones bool    `json:"showNoFlyZones"`
	MapSize        MapSize `json:"mapSize"`
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	s.Telemetry.FrameLines = slices.Clone(s.Telemetry.FrameLines)
	return s
}

// DefaultState returns the demonstration starting state.
func DefaultState() State {
	now := time.Now()
	home := Coordinates{Latitude: 40.7128, Longitude: -74.0060}
	return State{
		Status: Status{
			ID:          "jawji-01",
			Name:        "Jawji One",
			Model:       "JW-4 Pro",
			Firmware:    "v01.04.0300",
			IsConnected: true,
			LastUpdated: now,
		},
		Battery: Battery{
			Percentage:          78,
			Voltage:             15.4,
			Temperature:         32,
			CycleCount:          47,
			EstimatedFlightTime: 24,
			LastChargedAt:       now.Add(-2 * time.Hour),
		},
		Flight: Flight{
			Speed:       17.4,
			Altitude:    86,
			Distance:    243,
			FlightTime:  "02:09",
			Coordinates: Coordinates{Latitude: 40.7138, Longitude: -74.0072},
			Heading:     307,
			HomePoint:   home,
		},
		Camera: Camera{
			Resolution:       "4K",
			FPS:              30,
			ISO:              100,
			Shutter:          120,
			RecordingTime:    "00:00",
			StorageRemaining: 42.5,
			Mode:             CameraModeVideo,
		},
		Telemetry: Telemetry{
			Speed:          17.4,
			LDIS:           12.3,
			Height:         86,
			ISO:            100,
			FlightTime:     "02:09",
			Shutter:        120,
			FrameLines:     []string{"16:9", "2.35:1", "4:3"},
			Temperature:    24,
			SignalStrength: 92,
		},
		Controls: Controls{
			FlightMode:         FlightModeManual,
			GPSMode:            true,
			ObstacleAvoidance:  true,
			ReturnToHomeHeight: 100,
		},
		LiveStream: LiveStream{
			URL:     "rtsp://127.0.0.1:8554/live",
			Quality: Quality4K,
			Latency: 120,
			Bitrate: 50000,
		},
		UI: UISettings{
			ShowGrid:      true,
			ShowMap:       true,
			ShowJoystick:  true,
			ShowTelemetry: true,
			Theme:         ThemeDark,
		},
		Map: Map{
			ViewStyle:      MapViewSatellite,
			Zoom:           15,
			ShowFlightPath: true,
			ShowNoFlyZones: true,
			MapSize:        MapSizeMedium,
		},
	}
}
