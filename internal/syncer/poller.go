package syncer

import (
	"context"
	"time"
)

const defaultPollInterval = time.Second

// Start launches the background poller and returns immediately. The poller
// stops when ctx is cancelled or Close is called. Calling Start more than
// once is a no-op.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true

	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancel()
		s.run(runCtx)
	}()
	return nil
}

// run ticks sequentially: a slow fetch delays the next tick and the ticker
// drops the ones it missed.
func (s *Synchronizer) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval).Debug("poller started")
	for {
		_ = s.Poll(ctx)
		select {
		case <-ctx.Done():
			s.log.Debug("poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// Poll runs one tick: fetch from the source, then commit or record the
// failure. The result is discarded when a tick submitted later has already
// landed. The returned error is informational; the snapshot already
// reflects it.
func (s *Synchronizer) Poll(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	tick := s.store.BeginTick()
	prev := s.store.Snapshot()

	partial, err := s.source.Fetch(ctx, prev.Drone)
	at := s.now()
	if err != nil {
		if ctx.Err() != nil || s.isClosed() {
			// Shutdown, not a link failure.
			return err
		}
		if s.store.FailTick(tick, err, at) {
			s.metrics.pollResult("error")
			s.log.WithError(err).WithField("tick", tick).Warn("poll failed")
		} else {
			s.metrics.pollResult("discarded")
		}
		s.metrics.observe(s.store.Snapshot())
		return err
	}

	if s.store.CommitTick(tick, partial, at) {
		s.metrics.pollResult("ok")
	} else {
		s.metrics.pollResult("discarded")
		s.log.WithField("tick", tick).Debug("discarded out-of-order tick")
	}
	s.metrics.observe(s.store.Snapshot())
	return nil
}
