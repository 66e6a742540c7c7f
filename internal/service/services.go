package service

import (
	"time"

	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/storage"
)

// Services groups every service built over one set of repositories.
type Services struct {
	Auth      AuthService
	Profiles  ProfileService
	Plans     PlanService
	Progress  ProgressService
	Analytics AnalyticsService
	Chat      ChatService
	Reports   ReportService
}

// Deps are the collaborators shared by the services.
type Deps struct {
	Repos     repository.Repositories
	Verifier  CredentialVerifier
	Coach     PlanCoach
	Objects   storage.ObjectStore // optional
	Clock     calendar.Clock
	JWTSecret string
	JWTExpiry time.Duration
}

func NewServices(d Deps) Services {
	if d.Verifier == nil {
		d.Verifier = BcryptVerifier{}
	}
	return Services{
		Auth:      NewAuthService(d.Repos.Users, d.Verifier, d.JWTSecret, d.JWTExpiry),
		Profiles:  NewProfileService(d.Repos.Users),
		Plans:     NewPlanService(d.Repos, d.Coach, d.Clock),
		Progress:  NewProgressService(d.Repos, d.Clock),
		Analytics: NewAnalyticsService(d.Repos, d.Clock),
		Chat:      NewChatService(d.Repos, d.Coach),
		Reports:   NewReportService(d.Repos, d.Objects, d.Clock),
	}
}
