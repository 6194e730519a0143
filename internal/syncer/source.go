package syncer

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jawji/dronedeck/internal/drone"
	"github.com/jawji/dronedeck/internal/droneapi"
	"github.com/jawji/dronedeck/internal/state"
)

// Source produces the partial applied by one tick.
type Source interface {
	Fetch(ctx context.Context, prev drone.State) (drone.Partial, error)
	Mode() state.Mode
}

// SyncMode selects which remote endpoint a RemoteSource polls.
type SyncMode string

const (
	SyncModeState     SyncMode = "state"
	SyncModeTelemetry SyncMode = "telemetry"
)

// ParseSyncMode accepts "state" or "telemetry". Empty means state.
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SyncModeState:
		return SyncModeState, nil
	case SyncModeTelemetry:
		return SyncModeTelemetry, nil
	default:
		return "", fmt.Errorf("unknown sync mode %q: must be state or telemetry", s)
	}
}

// RemoteSource fetches from the drone controller.
type RemoteSource struct {
	controller droneapi.Controller
	sync       SyncMode
}

// NewRemoteSource wraps a controller.
func NewRemoteSource(controller droneapi.Controller, mode SyncMode) *RemoteSource {
	if mode == "" {
		mode = SyncModeState
	}
	return &RemoteSource{controller: controller, sync: mode}
}

func (r *RemoteSource) Fetch(ctx context.Context, prev drone.State) (drone.Partial, error) {
	if r.sync == SyncModeTelemetry {
		reading, err := r.controller.FetchTelemetry(ctx)
		if err != nil {
			return drone.Partial{}, err
		}
		return reading.Apply(prev), nil
	}
	return r.controller.FetchState(ctx, prev)
}

func (r *RemoteSource) Mode() state.Mode { return state.ModeRemote }

// SimulatedSource synthesizes drift locally. It never fails.
type SimulatedSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	now  func() time.Time
	last time.Time
}

// NewSimulatedSource seeds the generator. A zero seed uses the clock.
func NewSimulatedSource(seed int64, now func() time.Time) *SimulatedSource {
	if now == nil {
		now = time.Now
	}
	if seed == 0 {
		seed = now().UnixNano()
	}
	return &SimulatedSource{
		rng:  rand.New(rand.NewSource(seed)),
		now:  now,
		last: now(),
	}
}

func (s *SimulatedSource) Fetch(ctx context.Context, prev drone.State) (drone.Partial, error) {
	if err := ctx.Err(); err != nil {
		return drone.Partial{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	elapsed := now.Sub(s.last)
	s.last = now
	return drone.Simulate(prev, s.rng, elapsed), nil
}

func (s *SimulatedSource) Mode() state.Mode { return state.ModeSimulation }
