package scheduler

import (
	"anbsupport/app/config"
	"anbsupport/app/service/state"
	"context"
	"log/slog"
	"time"

	"github.com/samber/do"
)

// Service periodically fires due reminders and forgets expired sessions.
type Service struct {
	store      *state.Store
	interval   time.Duration
	sessionTTL time.Duration
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(do.MustInvoke[*state.Store](di), cfg.Scheduler.Interval, cfg.Session.Expiration), nil
}

func NewService(store *state.Store, interval, sessionTTL time.Duration) *Service {
	return &Service{
		store:      store,
		interval:   interval,
		sessionTTL: sessionTTL,
	}
}

// Run ticks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("Reminder scheduler started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Reminder scheduler stopped")
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

type TickResult struct {
	Fired   int
	Evicted int
}

func (s *Service) Tick(now time.Time) TickResult {
	result := TickResult{
		Fired:   s.store.FireDue(now),
		Evicted: s.store.EvictIdle(now, s.sessionTTL),
	}

	if result.Fired > 0 || result.Evicted > 0 {
		slog.Debug("Scheduler tick",
			"fired", result.Fired,
			"evicted", result.Evicted,
			"sessions", s.store.SessionCount(),
		)
	}

	return result
}
