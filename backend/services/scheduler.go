package services

import (
	"context"
	"fmt"
	"time"

	"country-gdp-service/backend/models"
	"country-gdp-service/backend/system"

	"github.com/robfig/cron/v3"
)

const scheduledRefreshTimeout = 5 * time.Minute

// Refresher runs one refresh
type Refresher interface {
	Refresh(ctx context.Context) (*models.RefreshResult, error)
}

// RefreshScheduler runs refreshes on a cron schedule
type RefreshScheduler struct {
	refresher Refresher
	cron      *cron.Cron
}

func NewRefreshScheduler(refresher Refresher) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		cron:      cron.New(),
	}
}

// Start schedules refreshes. spec accepts standard 5-field cron expressions
// and descriptors such as "@every 6h" or "@daily".
func (s *RefreshScheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.cron.Start()

	entries := s.cron.Entries()
	if len(entries) > 0 {
		system.Info("Scheduled refresh %q, next run at %s", spec, entries[0].Next.Format(time.RFC3339))
	}
	return nil
}

// RunOnce performs one scheduled refresh and logs its outcome
func (s *RefreshScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledRefreshTimeout)
	defer cancel()

	result, err := s.refresher.Refresh(ctx)
	if err != nil {
		system.Error("Scheduled refresh failed: %v", err)
		return
	}
	system.Info("Scheduled refresh wrote %d countries", result.TotalCountries)
}

// Stop halts the schedule and waits for a running refresh to finish
func (s *RefreshScheduler) Stop() {
	<-s.cron.Stop().Done()
}
