package syncer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/droneapi"
	"github.com/jawji/dronedeck/internal/state"
)

// ErrClosed is returned by operations attempted after Close.
var ErrClosed = errors.New("synchronizer closed")

// Options configure a Synchronizer.
type Options struct {
	Initial drone.State

	// Endpoint is the drone controller base URL. Empty selects simulation
	// mode unless Controller is set.
	Endpoint       string
	SyncMode       SyncMode
	RequestTimeout time.Duration

	// Controller overrides the HTTP client built from Endpoint.
	Controller droneapi.Controller

	PollInterval time.Duration // zero uses one second
	Seed         int64         // simulation seed; zero uses the clock

	Logger  logrus.FieldLogger
	Metrics *Metrics
	Now     func() time.Time
}

// Synchronizer owns the canonical drone snapshot.
type Synchronizer struct {
	store      *state.Store
	source     Source
	controller droneapi.Controller // nil in simulation mode
	interval   time.Duration
	log        logrus.FieldLogger
	metrics    *Metrics
	now        func() time.Time

	// ctx is cancelled by Close; background work derives from it.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// New builds a Synchronizer. The poller is not running until Start.
func New(opts Options) (*Synchronizer, error) {
	controller := opts.Controller
	if controller == nil && opts.Endpoint != "" {
		client, err := droneapi.NewClient(opts.Endpoint, opts.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("init drone client: %w", err)
		}
		controller = client
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var source Source
	if controller != nil {
		source = NewRemoteSource(controller, opts.SyncMode)
	} else {
		source = NewSimulatedSource(opts.Seed, now)
	}

	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		store:      state.NewStore(opts.Initial, source.Mode()),
		source:     source,
		controller: controller,
		interval:   interval,
		log: logger.WithFields(logrus.Fields{
			"component": "syncer",
			"mode":      source.Mode(),
		}),
		metrics: opts.Metrics,
		now:     now,
		ctx:     ctx,
		cancel:  cancel,
	}
	s.metrics.observe(s.store.Snapshot())
	return s, nil
}

// Mode reports whether snapshots come from a controller or the simulator.
func (s *Synchronizer) Mode() state.Mode {
	return s.source.Mode()
}

// Snapshot returns the current snapshot. It never blocks on network work.
func (s *Synchronizer) Snapshot() state.Snapshot {
	return s.store.Snapshot()
}

// Close stops the poller and waits for it and any in-flight joystick sends.
// The snapshot is frozen before background work is cancelled, so nothing
// mutates it afterwards. Close is safe to call more than once.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.store.Close()
	s.cancel()
	s.wg.Wait()
	s.log.Debug("synchronizer closed")
}

func (s *Synchronizer) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// UpdateUISettings merges u into the ui sub-record. Polls never overwrite it.
func (s *Synchronizer) UpdateUISettings(u drone.UIUpdate) (state.Snapshot, error) {
	return s.apply(func(st drone.State) (drone.State, error) {
		ui, err := u.Apply(st.UI)
		st.UI = ui
		return st, err
	})
}

// UpdateMapSettings merges u into the map sub-record. A later poll that
// carries map settings replaces it.
func (s *Synchronizer) UpdateMapSettings(u drone.MapUpdate) (state.Snapshot, error) {
	return s.apply(func(st drone.State) (drone.State, error) {
		m, err := u.Apply(st.Map)
		st.Map = m
		return st, err
	})
}

// UpdateControls merges u into the controls sub-record. A later poll that
// carries controls replaces it.
func (s *Synchronizer) UpdateControls(u drone.ControlsUpdate) (state.Snapshot, error) {
	return s.apply(func(st drone.State) (drone.State, error) {
		c, err := u.Apply(st.Controls)
		st.Controls = c
		return st, err
	})
}

func (s *Synchronizer) apply(fn func(drone.State) (drone.State, error)) (state.Snapshot, error) {
	snap, err := s.store.Apply(fn)
	if errors.Is(err, state.ErrClosed) {
		return snap, ErrClosed
	}
	if err != nil {
		return snap, err
	}
	s.metrics.observe(snap)
	return snap, nil
}

// SendJoystickInput dispatches a stick sample in the background and returns
// at once. Failures are logged and mark the link degraded; they are never
// reported to the caller.
func (s *Synchronizer) SendJoystickInput(input drone.JoystickInput) {
	if input.Empty() {
		return
	}
	input = input.Clamped()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.controller == nil {
		s.mu.Unlock()
		s.log.WithField("input", formatJoystick(input)).Debug("joystick input (simulated)")
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := s.controller.SendJoystick(s.ctx, input)
		if err == nil {
			return
		}
		if s.ctx.Err() != nil {
			return
		}
		s.metrics.joystickFailed()
		s.log.WithError(err).WithField("input", formatJoystick(input)).Warn("joystick send failed")
		s.store.MarkDegraded(err)
		s.metrics.observe(s.store.Snapshot())
	}()
}

// SendCommand dispatches a named command and waits for the controller's
// answer. Every failure matches droneapi.ErrCommandFailed. A network failure
// also marks the link degraded; a rejection by the controller does not.
func (s *Synchronizer) SendCommand(ctx context.Context, name string, params map[string]any) (droneapi.CommandAck, error) {
	cmd, err := drone.NewCommand(name, params)
	if err != nil {
		return droneapi.CommandAck{}, &droneapi.CommandError{Command: name, Err: err}
	}
	if s.isClosed() {
		return droneapi.CommandAck{}, &droneapi.CommandError{Command: cmd.Name, Err: ErrClosed}
	}
	entry := s.log.WithField("command", cmd.Name)

	if s.controller == nil {
		s.metrics.commandResult(cmd.Name, "simulated")
		entry.Info("command accepted (simulated)")
		return droneapi.CommandAck{Command: cmd.Name, Status: "simulated"}, nil
	}

	ack, err := s.controller.SendCommand(ctx, cmd)
	if err != nil {
		s.metrics.commandResult(cmd.Name, "error")
		entry.WithError(err).Error("command failed")
		if droneapi.IsUnavailable(err) && ctx.Err() == nil {
			s.store.MarkDegraded(err)
			s.metrics.observe(s.store.Snapshot())
		}
		if !errors.Is(err, droneapi.ErrCommandFailed) {
			err = &droneapi.CommandError{Command: cmd.Name, Err: err}
		}
		return droneapi.CommandAck{}, err
	}
	s.metrics.commandResult(cmd.Name, "ok")
	entry.WithField("id", ack.ID).Info("command accepted")
	return ack, nil
}

func formatJoystick(in drone.JoystickInput) string {
	axis := func(v *int) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprint(*v)
	}
	return fmt.Sprintf("throttle=%s yaw=%s pitch=%s roll=%s", axis(in.Throttle), axis(in.Yaw), axis(in.Pitch), axis(in.Roll))
}
