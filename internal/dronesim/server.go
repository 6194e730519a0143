package dronesim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/droneapi"
)

// Options configure a Server.
type Options struct {
	Initial   drone.State
	Seed      int64 // zero uses the clock
	FailEvery int   // answer every Nth API request with 503; zero disables
	Logger    logrus.FieldLogger
	Now       func() time.Time
}

// Server is an in-memory drone controller speaking the dashboard's HTTP API.
type Server struct {
	mu   sync.Mutex
	st   drone.State
	rng  *rand.Rand
	last time.Time

	failEvery int
	requests  atomic.Int64

	log logrus.FieldLogger
	now func() time.Time
}

// Stick effects are per full-deflection sample.
const (
	maxAltitude     = 500
	maxSpeed        = 72
	takeoffAltitude = 10
	throttleClimb   = 2.0
	pitchAccel      = 3.0
	yawRate         = 15.0
	rollDrift       = 0.00005
	maxCommandBody  = 64 * 1024
	maxJoystickBody = 4 * 1024
)

// New builds a Server seeded with opts.Initial.
func New(opts Options) *Server {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	return &Server{
		st:        drone.Normalize(opts.Initial.Clone()),
		rng:       rand.New(rand.NewSource(seed)),
		last:      now(),
		failEvery: opts.FailEvery,
		log:       logger.WithField("component", "dronesim"),
		now:       now,
	}
}

// State returns a copy of the simulated drone.
func (s *Server) State() drone.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Clone()
}

// Step advances the simulation by the time elapsed since the last step.
func (s *Server) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	elapsed := now.Sub(s.last)
	s.last = now

	next := drone.Merge(s.st, drone.Simulate(s.st, s.rng, elapsed))
	if !next.Controls.IsArmed {
		next.Flight.Altitude = 0
		next.Flight.Speed = 0
		next.Telemetry.Height = 0
		next.Telemetry.Speed = 0
	}
	if next.Camera.IsRecording {
		next.Camera.RecordingTime = drone.AdvanceClock(next.Camera.RecordingTime, elapsed)
	}
	s.st = next
}

// Run steps the simulation every interval until ctx is done.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	// The dashboard may run from any origin during development.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", droneapi.CommandIDHeader},
		ExposedHeaders: []string{droneapi.CommandIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/drone", func(r chi.Router) {
		r.Use(s.injectFailures)
		r.Get("/state", s.handleState)
		r.Get("/telemetry", s.handleTelemetry)
		r.Post("/joystick", s.handleJoystick)
		r.Post("/command", s.handleCommand)
	})
	return r
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := s.requests.Add(1)
		if s.failEvery > 0 && n%int64(s.failEvery) == 0 {
			writeError(w, http.StatusServiceUnavailable, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.st.Status.LastUpdated = s.now()
	st := s.st.Clone()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TelemetryOf(s.State()))
}

// TelemetryOf flattens st into the /telemetry payload.
func TelemetryOf(st drone.State) droneapi.Reading {
	battery := st.Battery.Percentage
	altitude := st.Flight.Altitude
	speed := st.Flight.Speed
	bars := int(math.Ceil(st.Telemetry.SignalStrength / 25))
	flightTime := drone.ParseClock(st.Flight.FlightTime)
	remaining := int(st.Battery.EstimatedFlightTime * 60)
	return droneapi.Reading{
		Battery:             &battery,
		Altitude:            &altitude,
		MaxAltitude:         maxAltitude,
		Speed:               &speed,
		MaxSpeed:            maxSpeed,
		Signal:              signalLabel(bars),
		SignalBars:          &bars,
		Resolution:          st.Camera.Resolution,
		FrameRate:           &st.Camera.FPS,
		FlightTime:          &flightTime,
		FlightTimeRemaining: &remaining,
	}
}

func signalLabel(bars int) string {
	switch {
	case bars >= 3:
		return "Strong"
	case bars == 2:
		return "Good"
	case bars == 1:
		return "Weak"
	default:
		return "None"
	}
}

func (s *Server) handleJoystick(w http.ResponseWriter, r *http.Request) {
	var input drone.JoystickInput
	if err := decodeBody(r, maxJoystickBody, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input = input.Clamped()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.st.Controls.IsArmed {
		// Sticks do nothing on the ground.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	flight := &s.st.Flight
	if input.Throttle != nil {
		flight.Altitude = clamp(flight.Altitude+axis(input.Throttle)*throttleClimb, 0, maxAltitude)
	}
	if input.Pitch != nil {
		flight.Speed = clamp(flight.Speed+axis(input.Pitch)*pitchAccel, 0, maxSpeed)
	}
	if input.Yaw != nil {
		flight.Heading = drone.WrapHeading(flight.Heading + axis(input.Yaw)*yawRate)
	}
	if input.Roll != nil {
		flight.Coordinates.Longitude += axis(input.Roll) * rollDrift
		flight.Distance = drone.DistanceMeters(flight.HomePoint, flight.Coordinates)
	}
	s.st.Telemetry.Height = flight.Altitude
	s.st.Telemetry.Speed = flight.Speed
	w.WriteHeader(http.StatusNoContent)
}

type commandReply struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Status  string `json:"status"`
}

var errUnknownCommand = errors.New("unknown command")

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd drone.Command
	if err := decodeBody(r, maxCommandBody, &cmd); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cmd, err := drone.NewCommand(cmd.Name, cmd.Params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := r.Header.Get(droneapi.CommandIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	entry := s.log.WithFields(logrus.Fields{"command": cmd.Name, "id": id})

	if err := s.execute(cmd); err != nil {
		entry.WithError(err).Warn("command rejected")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry.Info("command executed")
	w.Header().Set(droneapi.CommandIDHeader, id)
	writeJSON(w, http.StatusOK, commandReply{ID: id, Command: cmd.Name, Status: "accepted"})
}

func (s *Server) execute(cmd drone.Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &s.st
	switch cmd.Name {
	case drone.CommandTakeoff:
		st.Controls.IsArmed = true
		st.Flight.Altitude = math.Max(st.Flight.Altitude, takeoffAltitude)
	case drone.CommandLand, drone.CommandEmergencyStop:
		st.Controls.IsArmed = false
		st.Flight.Altitude = 0
		st.Flight.Speed = 0
	case drone.CommandReturnToHome:
		st.Controls.FlightMode = drone.FlightModeAuto
		st.Flight.Altitude = math.Max(st.Flight.Altitude, st.Controls.ReturnToHomeHeight)
	case drone.CommandStartRecording:
		if !st.Camera.IsRecording {
			st.Camera.IsRecording = true
			st.Camera.RecordingTime = drone.FormatClock(0)
		}
	case drone.CommandStopRecording:
		st.Camera.IsRecording = false
	case drone.CommandSetCameraMode:
		mode, _ := cmd.Params["mode"].(string)
		switch drone.CameraMode(mode) {
		case drone.CameraModePhoto, drone.CameraModeVideo:
			st.Camera.Mode = drone.CameraMode(mode)
		default:
			return fmt.Errorf("invalid camera mode %q", mode)
		}
	case drone.CommandArm:
		st.Controls.IsArmed = true
	case drone.CommandDisarm:
		if st.Flight.Altitude > 0 {
			return errors.New("cannot disarm in flight")
		}
		st.Controls.IsArmed = false
	case drone.CommandSetFlightMode:
		mode, _ := cmd.Params["mode"].(string)
		if !drone.FlightMode(mode).Valid() {
			return fmt.Errorf("invalid flight mode %q", mode)
		}
		st.Controls.FlightMode = drone.FlightMode(mode)
	default:
		return fmt.Errorf("%w: %q", errUnknownCommand, cmd.Name)
	}
	st.Telemetry.Height = st.Flight.Altitude
	st.Telemetry.Speed = st.Flight.Speed
	return nil
}

func axis(v *int) float64 {
	return float64(*v) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func decodeBody(r *http.Request, limit int64, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, limit))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
