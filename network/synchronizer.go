// Package network keeps a local copy of the server's entity list fresh by
// polling the listing query off the render path.
package network

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/remote"
)

// Lister is the part of remote.Client the synchronizer needs.
type Lister interface {
	ListObjects(ctx context.Context) ([]model.ObjectSummary, error)
}

const DefaultInterval = time.Second

type Config struct {
	// Interval between polls. Defaults to one second.
	Interval time.Duration
	// MaxBackoff caps the doubled interval used after consecutive failures.
	// Backoff is off unless MaxBackoff exceeds Interval.
	MaxBackoff time.Duration
	// StaleAfter raises the staleness alarm when no poll has succeeded for
	// this long. Zero disables the alarm.
	StaleAfter time.Duration
}

// Stats is the synchronizer's observability record.
type Stats struct {
	Polls               uint64 // successful polls
	Failures            uint64
	Dropped             uint64 // ticks skipped because a poll was in flight
	ConsecutiveFailures int
	LastSuccess         time.Time
	LastError           string
	LastDiff            Diff
	Stale               bool
}

// Synchronizer drives polling from frame ticks. Tick must be called from a
// single goroutine (the render loop); Snapshot and Stats may be called from
// anywhere.
type Synchronizer struct {
	lister   Lister
	registry *Registry
	cfg      Config
	now      func() time.Time

	timer   float64 // seconds accumulated since the last poll; render goroutine only
	started time.Time

	inflight atomic.Bool
	closed   atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

func NewSynchronizer(lister Lister, registry *Registry, cfg Config) *Synchronizer {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if registry == nil {
		registry = NewRegistry()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Synchronizer{
		lister:   lister,
		registry: registry,
		cfg:      cfg,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.started = s.now()
	return s
}

// Tick accumulates elapsed seconds and, once the poll interval is reached,
// resets the timer and starts one background poll. It never blocks on the
// network. If a poll is still outstanding the tick is dropped. It reports
// whether a poll was started.
func (s *Synchronizer) Tick(elapsed float64) bool {
	if s.closed.Load() {
		return false
	}
	s.checkStale()

	s.timer += elapsed
	if s.timer < s.interval().Seconds() {
		return false
	}
	s.timer = 0

	if !s.inflight.CompareAndSwap(false, true) {
		s.statsMu.Lock()
		s.stats.Dropped++
		s.statsMu.Unlock()
		slog.Debug("poll still in flight, dropping tick")
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inflight.Store(false)
		_ = s.Poll(s.ctx)
	}()
	return true
}

// Poll fetches the listing once and replaces the registry on success. On
// any failure the registry is left untouched and the error is logged and
// returned; it is never fatal.
func (s *Synchronizer) Poll(ctx context.Context) error {
	objs, err := s.lister.ListObjects(ctx)
	if err != nil {
		s.recordFailure(err)
		return err
	}

	diff, ok := s.registry.Replace(objs, s.now())
	if !ok {
		slog.Debug("registry closed, dropping poll result", "count", len(objs))
		return nil
	}
	s.recordSuccess(diff)
	slog.Debug("registry replaced", "count", len(objs), "added", len(diff.Added), "removed", len(diff.Removed))
	return nil
}

func (s *Synchronizer) Snapshot() Snapshot { return s.registry.Snapshot() }

func (s *Synchronizer) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

// Close stops future polls, cancels the one in flight and seals the
// registry. It does not wait for the in-flight poll to return.
func (s *Synchronizer) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	s.registry.Close()
	slog.Info("synchronizer closed")
}

// Wait blocks until no poll goroutine is running.
func (s *Synchronizer) Wait() { s.wg.Wait() }

// interval returns the current poll interval, doubled per consecutive
// failure up to MaxBackoff when backoff is enabled.
func (s *Synchronizer) interval() time.Duration {
	base := s.cfg.Interval
	if s.cfg.MaxBackoff <= base {
		return base
	}
	s.statsMu.Lock()
	failures := s.stats.ConsecutiveFailures
	s.statsMu.Unlock()

	d := base
	for i := 0; i < failures && d < s.cfg.MaxBackoff; i++ {
		d *= 2
	}
	return min(d, s.cfg.MaxBackoff)
}

func (s *Synchronizer) checkStale() {
	if s.cfg.StaleAfter <= 0 {
		return
	}
	now := s.now()

	s.statsMu.Lock()
	last := s.stats.LastSuccess
	if last.IsZero() {
		last = s.started
	}
	stale := now.Sub(last) > s.cfg.StaleAfter
	raised := stale && !s.stats.Stale
	s.stats.Stale = stale
	lastErr := s.stats.LastError
	s.statsMu.Unlock()

	if raised {
		slog.Warn("entity snapshot is stale", "age", now.Sub(last).Round(time.Millisecond), "lastError", lastErr)
	}
}

func (s *Synchronizer) recordFailure(err error) {
	s.statsMu.Lock()
	s.stats.Failures++
	s.stats.ConsecutiveFailures++
	s.stats.LastError = err.Error()
	failures := s.stats.ConsecutiveFailures
	s.statsMu.Unlock()

	if s.closed.Load() && errors.Is(err, context.Canceled) {
		return
	}

	var (
		te *remote.TransportError
		de *model.DecodeError
	)
	switch {
	case errors.As(err, &de):
		slog.Warn("poll failed: bad payload", "error", err, "consecutive", failures)
	case errors.As(err, &te):
		slog.Warn("poll failed: transport", "error", err, "timeout", te.Timeout(), "consecutive", failures)
	default:
		slog.Warn("poll failed", "error", err, "consecutive", failures)
	}
}

func (s *Synchronizer) recordSuccess(diff Diff) {
	s.statsMu.Lock()
	recovered := s.stats.ConsecutiveFailures > 0
	s.stats.Polls++
	s.stats.ConsecutiveFailures = 0
	s.stats.LastSuccess = s.now()
	s.stats.LastError = ""
	s.stats.LastDiff = diff
	s.stats.Stale = false
	s.statsMu.Unlock()

	if recovered {
		slog.Info("poll recovered")
	}
}
