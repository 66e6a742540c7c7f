package service

import (
	"context"
	"fmt"
	"log"

	"fittrack/fitness-app/internal/analytics"
	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/report"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/storage"

	"github.com/google/uuid"
)

type ReportService interface {
	Generate(ctx context.Context, userID string, rng domain.Range) (*domain.Report, error)
}

type reportService struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	logRepo  repository.LogRepository
	objects  storage.ObjectStore // nil keeps reports inline
	clock    calendar.Clock
}

// NewReportService creates a report service. objects may be nil.
func NewReportService(repos repository.Repositories, objects storage.ObjectStore, clock calendar.Clock) ReportService {
	return &reportService{
		userRepo: repos.Users,
		planRepo: repos.Plans,
		logRepo:  repos.Logs,
		objects:  objects,
		clock:    clock,
	}
}

// Generate renders the report for rng. With object storage configured the
// body is uploaded and a temporary download URL is returned alongside it.
func (s *reportService) Generate(ctx context.Context, userID string, rng domain.Range) (*domain.Report, error) {
	if _, ok := domain.ParseRange(string(rng)); !ok {
		return nil, fmt.Errorf("%w: unknown range %q", ErrInvalidInput, rng)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrProfileRequired
	}
	plan, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Current()
	body, err := report.Render(report.Input{
		Range:       rng,
		Profile:     user.Profile,
		Plan:        plan,
		Rows:        analytics.ReportRows(logs, plan, user.Profile.DisplayUnits(), rng, calendar.FormatDate(now)),
		GeneratedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	rep := &domain.Report{Range: rng, Title: report.Title(rng), ContentType: report.ContentType, Body: body}

	if s.objects == nil {
		return rep, nil
	}
	rep.ObjectKey = storage.ReportKey(userID, string(rng), uuid.NewString())
	if err := s.objects.Put(ctx, rep.ObjectKey, rep.ContentType, body); err != nil {
		log.Printf("ERROR: Uploading report %s failed: %v", rep.ObjectKey, err)
		return nil, fmt.Errorf("uploading report: %w", err)
	}
	url, err := s.objects.PresignGet(ctx, rep.ObjectKey, storage.DefaultLinkExpiry)
	if err != nil {
		if derr := s.objects.Delete(ctx, rep.ObjectKey); derr != nil {
			log.Printf("WARN: Removing unreachable report %s failed: %v", rep.ObjectKey, derr)
		}
		return nil, fmt.Errorf("presigning report: %w", err)
	}
	rep.URL = url
	return rep, nil
}
