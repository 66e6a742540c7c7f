package service

import (
	"context"
	"fmt"

	"fittrack/fitness-app/internal/analytics"
	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/units"
)

// Chart is a progress chart series with the unit its weights are in.
type Chart struct {
	Range       domain.Range           `json:"range"`
	WeightLabel string                 `json:"weightLabel"`
	Points      []analytics.ChartPoint `json:"points"`
}

type AnalyticsService interface {
	Summary(ctx context.Context, userID string) (*analytics.Summary, error)
	Chart(ctx context.Context, userID string, rng domain.Range) (*Chart, error)
}

type analyticsService struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	logRepo  repository.LogRepository
	clock    calendar.Clock
}

func NewAnalyticsService(repos repository.Repositories, clock calendar.Clock) AnalyticsService {
	return &analyticsService{userRepo: repos.Users, planRepo: repos.Plans, logRepo: repos.Logs, clock: clock}
}

func (s *analyticsService) Summary(ctx context.Context, userID string) (*analytics.Summary, error) {
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := analytics.Summarize(logs, plan, s.clock.Today())
	return &summary, nil
}

func (s *analyticsService) Chart(ctx context.Context, userID string, rng domain.Range) (*Chart, error) {
	if _, ok := domain.ParseRange(string(rng)); !ok {
		return nil, fmt.Errorf("%w: unknown range %q", ErrInvalidInput, rng)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u := user.Profile.DisplayUnits()
	return &Chart{
		Range:       rng,
		WeightLabel: units.WeightLabel(u),
		Points:      analytics.Aggregate(logs, plan, u, rng),
	}, nil
}
