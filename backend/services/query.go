package services

import (
	"context"
	"errors"
	"strings"

	"country-gdp-service/backend/models"
	"country-gdp-service/backend/repository"
)

// QueryService serves the read and delete side of the record store
type QueryService struct {
	repo repository.CountryRepository
}

func NewQueryService(repo repository.CountryRepository) *QueryService {
	return &QueryService{repo: repo}
}

// List returns matching countries. The slice is never nil.
func (s *QueryService) List(ctx context.Context, filter models.CountryFilter) ([]models.Country, error) {
	countries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &InternalError{Op: "list countries", Err: err}
	}
	if countries == nil {
		countries = []models.Country{}
	}
	return countries, nil
}

func (s *QueryService) GetByName(ctx context.Context, name string) (*models.Country, error) {
	if strings.TrimSpace(name) == "" {
		return nil, requiredField("name")
	}

	country, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrCountryNotFound) {
		return nil, &NotFoundError{Resource: "Country"}
	}
	if err != nil {
		return nil, &InternalError{Op: "get country", Err: err}
	}
	return country, nil
}

// DeleteByName looks the country up by name and removes it by id
func (s *QueryService) DeleteByName(ctx context.Context, name string) error {
	country, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}

	err = s.repo.DeleteByID(ctx, country.ID)
	if errors.Is(err, repository.ErrCountryNotFound) {
		return &NotFoundError{Resource: "Country"}
	}
	if err != nil {
		return &InternalError{Op: "delete country", Err: err}
	}
	return nil
}

func (s *QueryService) Status(ctx context.Context) (*models.Status, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, &InternalError{Op: "count countries", Err: err}
	}
	latest, err := s.repo.LatestRefresh(ctx)
	if err != nil {
		return nil, &InternalError{Op: "latest refresh", Err: err}
	}
	return &models.Status{TotalCountries: total, LastRefreshedAt: latest}, nil
}
