package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

// SweeperConfig holds housekeeping retention windows.
type SweeperConfig struct {
	Interval            time.Duration
	CredentialRetention time.Duration
	RateLimitRetention  time.Duration
	AuditRetention      time.Duration
	AuditBatch          int
}

// SweepStats reports what one sweep removed or expired.
type SweepStats struct {
	Credentials int64
	Sessions    int64
	RateHits    int64
	AuditEvents int64
}

// Sweeper removes expired state. Reads already filter by expiry, so a missed
// sweep only delays cleanup.
type Sweeper struct {
	credentials model.CredentialStore
	sessions    model.SessionStore
	rateLimits  model.RateLimitStore
	audit       model.AuditStore
	archive     model.AuditArchive
	logger      *logger.Logger
	cfg         SweeperConfig
	now         func() time.Time
}

// NewSweeper creates a sweeper. archive may be nil, in which case old audit
// events are kept.
func NewSweeper(
	credentials model.CredentialStore,
	sessions model.SessionStore,
	rateLimits model.RateLimitStore,
	audit model.AuditStore,
	archive model.AuditArchive,
	logger *logger.Logger,
	cfg SweeperConfig,
) *Sweeper {
	return &Sweeper{
		credentials: credentials,
		sessions:    sessions,
		rateLimits:  rateLimits,
		audit:       audit,
		archive:     archive,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("Sweeper: started", "interval", s.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.C:
			stats, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("Sweeper: sweep failed", "error", err.Error())
				continue
			}
			s.logger.Debug("Sweeper: sweep finished",
				"credentials", stats.Credentials,
				"sessions", stats.Sessions,
				"rate_hits", stats.RateHits,
				"audit_events", stats.AuditEvents)
		}
	}
}

// Sweep runs one housekeeping pass. Steps are independent; the first error is
// returned after all steps ran.
func (s *Sweeper) Sweep(ctx context.Context) (SweepStats, error) {
	var (
		stats    SweepStats
		firstErr error
		err      error
	)
	keep := func(e error) {
		if e != nil && firstErr == nil {
			firstErr = e
		}
	}
	now := s.now()

	stats.Credentials, err = s.credentials.DeleteExpired(ctx, now.Add(-s.cfg.CredentialRetention))
	keep(wrapSweep("credentials", err))

	stats.Sessions, err = s.sessions.ExpireStale(ctx, now)
	keep(wrapSweep("sessions", err))

	stats.RateHits, err = s.rateLimits.Prune(ctx, now.Add(-s.cfg.RateLimitRetention))
	keep(wrapSweep("rate limit hits", err))

	if s.archive != nil {
		stats.AuditEvents, err = s.archiveAudit(ctx, now.Add(-s.cfg.AuditRetention))
		keep(wrapSweep("audit events", err))
	}

	return stats, firstErr
}

func (s *Sweeper) archiveAudit(ctx context.Context, before time.Time) (int64, error) {
	batch := s.cfg.AuditBatch
	if batch <= 0 {
		batch = 1000
	}

	var total int64
	for {
		events, err := s.audit.ListBefore(ctx, before, batch)
		if err != nil {
			return total, err
		}
		if len(events) == 0 {
			return total, nil
		}

		first, last := events[0].CreatedAt.UTC(), events[len(events)-1].CreatedAt.UTC()
		name := fmt.Sprintf("audit/%s/%s-%s-%s.ndjson",
			first.Format("2006/01/02"),
			first.Format("20060102T150405Z"),
			last.Format("20060102T150405Z"),
			events[0].ID)
		if err := s.archive.Archive(ctx, name, events); err != nil {
			return total, fmt.Errorf("failed to archive: %w", err)
		}

		ids := make([]uuid.UUID, len(events))
		for i, e := range events {
			ids[i] = e.ID
		}
		deleted, err := s.audit.DeleteByIDs(ctx, ids)
		if err != nil {
			return total, err
		}
		total += deleted

		// Nothing removed means another sweeper already took this batch.
		if deleted == 0 || len(events) < batch {
			return total, nil
		}
	}
}

func wrapSweep(step string, err error) error {
	if err == nil {
		return nil
	}
	return storageErr("failed to sweep "+step, err)
}
