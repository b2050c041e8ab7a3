package services

import (
	"context"
	"errors"
	"time"

	"country-gdp-service/backend/metrics"
	"country-gdp-service/backend/models"
	"country-gdp-service/backend/repository"
	"country-gdp-service/backend/system"
)

// RefreshNotifier is told about each successful refresh
type RefreshNotifier interface {
	IsEnabled() bool
	SendRefreshSummary(result *models.RefreshResult, top []models.Country) error
}

// RefreshService runs the fetch, aggregate, upsert and render pipeline
type RefreshService struct {
	fetcher    SourceFetcher
	repo       repository.CountryRepository
	renderer   SummaryRenderer
	notifier   RefreshNotifier
	multiplier func() int64
	now        func() time.Time
}

func NewRefreshService(fetcher SourceFetcher, repo repository.CountryRepository, renderer SummaryRenderer) *RefreshService {
	return &RefreshService{
		fetcher:    fetcher,
		repo:       repo,
		renderer:   renderer,
		multiplier: RandomMultiplier,
		now:        time.Now,
	}
}

// SetNotifier connects an optional refresh notifier
func (s *RefreshService) SetNotifier(n RefreshNotifier) {
	s.notifier = n
}

// Refresh runs one refresh. Upstream failures return *SourceUnavailableError
// and write nothing; a failed write batch returns *InternalError. Image and
// notification failures are logged and do not fail the run.
func (s *RefreshService) Refresh(ctx context.Context) (*models.RefreshResult, error) {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		var unavailable *SourceUnavailableError
		if errors.As(err, &unavailable) {
			metrics.RefreshRuns.WithLabelValues(metrics.OutcomeSourceUnavailable).Inc()
			system.Warn("Refresh aborted, upstream unavailable: %s (%v)", unavailable.Endpoint, unavailable.Err)
			return nil, err
		}
		metrics.RefreshRuns.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, &InternalError{Op: "fetch sources", Err: err}
	}

	refreshedAt := s.now().UTC().Truncate(time.Millisecond)
	countries := Aggregate(data.Countries, data.Rates, refreshedAt, s.multiplier)

	if err := s.repo.UpsertAll(ctx, countries); err != nil {
		metrics.RefreshRuns.WithLabelValues(metrics.OutcomeStorageError).Inc()
		system.Error("Refresh write batch failed: %v", err)
		return nil, &InternalError{Op: "store countries", Err: err}
	}

	metrics.RefreshRuns.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.CountriesWritten.Set(float64(len(countries)))
	system.Info("Refreshed %d countries at %s", len(countries), refreshedAt.Format(time.RFC3339))

	result := &models.RefreshResult{
		Message:         "Refresh completed",
		TotalCountries:  len(countries),
		LastRefreshedAt: refreshedAt,
	}

	top, err := s.renderSummary(ctx, refreshedAt)
	if err != nil {
		metrics.SummaryImageFailures.Inc()
		system.Warn("Image generation failed: %v", err)
	}

	if s.notifier != nil && s.notifier.IsEnabled() {
		if err := s.notifier.SendRefreshSummary(result, top); err != nil {
			system.Warn("Refresh notification failed: %v", err)
		}
	}

	return result, nil
}

func (s *RefreshService) renderSummary(ctx context.Context, refreshedAt time.Time) ([]models.Country, error) {
	top, err := s.repo.TopByGDP(ctx, SummaryTopN)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return top, err
	}
	if s.renderer == nil {
		return top, nil
	}
	return top, s.renderer.Render(Summary{
		Total:       total,
		Top:         top,
		RefreshedAt: refreshedAt,
	})
}
