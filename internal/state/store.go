package state

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jawji/dronedeck/internal/drone"
)

// StaleAfterFailures is the number of consecutive failed polls after which
// the snapshot is reported stale.
const StaleAfterFailures = 3

// Mode tells whether the snapshot is fed by a real controller or simulated.
type Mode string

const (
	ModeRemote     Mode = "remote"
	ModeSimulation Mode = "simulation"
)

// Snapshot is one immutable version of the drone state plus sync metadata.
type Snapshot struct {
	Drone               drone.State
	Version             uint64
	Mode                Mode
	LastAttempt         time.Time
	LastError           error
	ConsecutiveFailures int // consecutive failed polls
}

// Connected reports the drone link flag.
func (s Snapshot) Connected() bool {
	return s.Drone.Status.IsConnected
}

// Stale returns true once polling has failed StaleAfterFailures times in a row.
func (s Snapshot) Stale() bool {
	return s.ConsecutiveFailures >= StaleAfterFailures
}

// Store publishes snapshots through an atomic pointer. Readers never block;
// writers serialize on a mutex and swap in a fully built successor.
type Store struct {
	mu        sync.Mutex
	current   atomic.Pointer[Snapshot]
	submitted uint64 // last tick handed out
	committed uint64 // last tick applied
	closed    bool
}

// NewStore seeds the store with the initial state.
func NewStore(initial drone.State, mode Mode) *Store {
	s := &Store{}
	snap := &Snapshot{Drone: drone.Normalize(initial.Clone()), Mode: mode}
	s.current.Store(snap)
	return s
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	snap := *s.current.Load()
	snap.Drone = snap.Drone.Clone()
	return snap
}

// BeginTick reserves the next tick number. Ticks are ordered by submission,
// not by completion.
func (s *Store) BeginTick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted++
	return s.submitted
}

// CommitTick merges a fetched partial. It returns false and changes nothing
// when a newer tick has already been applied or the store is closed.
func (s *Store) CommitTick(tick uint64, p drone.Partial, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || tick <= s.committed {
		return false
	}
	s.committed = tick

	prev := s.current.Load()
	next := *prev
	next.Drone = drone.Merge(prev.Drone, p)
	next.Drone.Status.IsConnected = true
	next.Drone.Status.LastUpdated = at
	next.LastAttempt = at
	next.LastError = nil
	next.ConsecutiveFailures = 0
	s.publish(&next)
	return true
}

// FailTick records a failed poll. The drone state is kept as is except for
// the connection flag.
func (s *Store) FailTick(tick uint64, err error, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || tick <= s.committed {
		return false
	}
	s.committed = tick

	prev := s.current.Load()
	next := *prev
	next.Drone = prev.Drone.Clone()
	next.Drone.Status.IsConnected = false
	next.LastAttempt = at
	next.LastError = errOrUnknown(err)
	next.ConsecutiveFailures++
	s.publish(&next)
	return true
}

// Apply runs a local update against the current drone state. When fn returns
// an error nothing is published.
func (s *Store) Apply(fn func(drone.State) (drone.State, error)) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current.Load()
	if s.closed {
		return *prev, ErrClosed
	}
	updated, err := fn(prev.Drone.Clone())
	if err != nil {
		return *prev, err
	}
	next := *prev
	next.Drone = drone.Normalize(updated)
	s.publish(&next)
	return next, nil
}

// MarkDegraded flips the connection flag after a failed write. It does not
// count as a failed poll.
func (s *Store) MarkDegraded(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	prev := s.current.Load()
	next := *prev
	next.Drone = prev.Drone.Clone()
	next.Drone.Status.IsConnected = false
	next.LastError = errOrUnknown(err)
	s.publish(&next)
}

// Close freezes the store. Later writes are dropped; reads keep working.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// ErrClosed is returned by Apply after Close.
var ErrClosed = errors.New("store closed")

func (s *Store) publish(next *Snapshot) {
	next.Version++
	s.current.Store(next)
}

func errOrUnknown(err error) error {
	if err == nil {
		return errors.New("unknown error")
	}
	return err
}
