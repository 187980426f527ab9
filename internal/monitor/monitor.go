package monitor

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/domain"
	"hotelops/internal/metrics"

	"github.com/rs/zerolog"
)

// Sweeper runs the periodic ops health sweep: AI token budget consumption
// and late-closure ratio, one combined notification per run. The sweep is
// read-only and safe to invoke repeatedly and concurrently; there is no
// persisted alert dedup, every run inside a breaching window re-alerts.
type Sweeper struct {
	store    domain.Store
	notifier domain.Notifier
	cfg      config.AlertsConfig
	logger   zerolog.Logger
	now      func() time.Time
}

func NewSweeper(store domain.Store, notifier domain.Notifier, cfg config.AlertsConfig, logger *zerolog.Logger) *Sweeper {
	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "ops_monitor").Logger()
	}
	return &Sweeper{
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		logger:   log,
		now:      time.Now,
	}
}

// Sweep computes both health signals and dispatches at most one combined
// notification. The alert list is always returned, whether or not
// delivery succeeded; delivery failures are swallowed.
func (s *Sweeper) Sweep(ctx context.Context) ([]string, error) {
	now := s.now()
	var alerts []string

	budgetAlerts, err := s.checkBudgets(ctx, now)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, budgetAlerts...)

	lateAlerts, err := s.checkLateClosures(ctx, now)
	if err != nil {
		return nil, err
	}
	alerts = append(alerts, lateAlerts...)

	if len(alerts) > 0 {
		s.dispatch(ctx, alerts)
	}

	return alerts, nil
}

func (s *Sweeper) checkBudgets(ctx context.Context, now time.Time) ([]string, error) {
	month := now.UTC().Format("2006-01")
	records, err := s.store.GetAIUsageForMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("budget check: %w", err)
	}

	var alerts []string
	for _, rec := range records {
		var pct float64
		if rec.BudgetTokens > 0 {
			pct = 100 * float64(rec.UsedTokens) / float64(rec.BudgetTokens)
		}
		if pct >= s.cfg.BudgetPct {
			alerts = append(alerts, fmt.Sprintf(
				"hotel %s: AI budget at %.1f%% for %s (%d/%d tokens)",
				rec.HotelID, pct, rec.Month, rec.UsedTokens, rec.BudgetTokens))
			metrics.IncAlert("budget")
		}
	}
	return alerts, nil
}

func (s *Sweeper) checkLateClosures(ctx context.Context, now time.Time) ([]string, error) {
	stats, err := s.store.GetLateClosureStats(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("late closure check: %w", err)
	}

	var alerts []string
	for _, st := range stats {
		// Low-volume hotels are never flagged.
		if st.Closed < s.cfg.MinClosures {
			continue
		}
		pctLate := int(100*float64(st.Late)/float64(st.Closed) + 0.5)
		if pctLate >= s.cfg.LatePct {
			alerts = append(alerts, fmt.Sprintf(
				"hotel %s: %d%% of tickets closed late in the last 24h (%d of %d)",
				st.HotelID, pctLate, st.Late, st.Closed))
			metrics.IncAlert("late_closure")
		}
	}
	return alerts, nil
}

// dispatch sends one combined notification. Failures are logged and
// swallowed: alerting must never fail the sweep.
func (s *Sweeper) dispatch(ctx context.Context, alerts []string) {
	if s.notifier == nil {
		return
	}

	text := ""
	for i, a := range alerts {
		if i > 0 {
			text += "\n"
		}
		text += a
	}

	err := s.notifier.Notify(ctx, "Ops alerts", text, map[string]string{
		"count": fmt.Sprintf("%d", len(alerts)),
	})
	if err != nil {
		s.logger.Error().Err(err).Int("alerts", len(alerts)).Msg("alert delivery failed")
	}
}

// Run executes the sweep on the interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	s.logger.Info().Dur("interval", interval).Msg("sweep loop started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("sweep loop stopped")
			return
		case <-ticker.C:
			alerts, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("sweep failed")
				continue
			}
			s.logger.Info().Int("alerts", len(alerts)).Msg("sweep completed")
		}
	}
}
