package application

import (
	"context"
	"time"

	"github.com/Apurer/paydesk/internal/domains/payments/domain"
	"github.com/Apurer/paydesk/internal/domains/payments/ports"
)

// DefaultSweepInterval is used when the sweep is enabled without an interval.
const DefaultSweepInterval = time.Minute

// Sweeper evicts pending orders older than a TTL. A zero TTL disables it, which
// keeps orders until they are confirmed.
type Sweeper struct {
	store    ports.Evictor
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	onEvict  func(ctx context.Context, evicted []domain.Order)
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithSweepClock overrides the time source for deterministic testing.
func WithSweepClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithEvictHook is called after every sweep that removed at least one order.
func WithEvictHook(hook func(ctx context.Context, evicted []domain.Order)) SweeperOption {
	return func(s *Sweeper) {
		s.onEvict = hook
	}
}

// NewSweeper builds a sweeper over store.
func NewSweeper(store ports.Evictor, ttl, interval time.Duration, opts ...SweeperOption) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s := &Sweeper{store: store, ttl: ttl, interval: interval, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Enabled reports whether a TTL is configured.
func (s *Sweeper) Enabled() bool {
	return s != nil && s.store != nil && s.ttl > 0
}

// SweepOnce evicts expired orders and returns them.
func (s *Sweeper) SweepOnce(ctx context.Context) []domain.Order {
	if !s.Enabled() {
		return nil
	}
	evicted := s.store.EvictCreatedBefore(s.now().Add(-s.ttl))
	if len(evicted) > 0 && s.onEvict != nil {
		s.onEvict(ctx, evicted)
	}
	return evicted
}

// Run sweeps every interval until ctx is done. It returns immediately when disabled.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}
