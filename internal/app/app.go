// Package app builds the repositories and services selected by configuration.
// Both binaries start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/coach"
	"fittrack/fitness-app/internal/config"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/repository/kv"
	"fittrack/fitness-app/internal/repository/mongo"
	"fittrack/fitness-app/internal/repository/postgres"
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/storage"
)

// App owns every long-lived resource. Close releases them in reverse order.
type App struct {
	Config   config.Config
	Clock    calendar.Clock
	Repos    repository.Repositories
	Services service.Services

	closers []func() error
}

// Option overrides a dependency, mostly for tests.
type Option func(*options)

type options struct {
	coach service.PlanCoach
	store kv.Store
}

// WithCoach replaces the configured LLM coach.
func WithCoach(c service.PlanCoach) Option {
	return func(o *options) { o.coach = c }
}

// WithStore makes the kv driver use store instead of the configured backend.
func WithStore(s kv.Store) Option {
	return func(o *options) { o.store = s }
}

func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	clock, err := calendar.NewClock(cfg.Calendar.Timezone)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Clock: clock}

	if err := a.openRepositories(ctx, o.store); err != nil {
		a.Close()
		return nil, err
	}

	planCoach := o.coach
	if planCoach == nil {
		planCoach = newCoach(cfg.Coach)
	}

	var objects storage.ObjectStore
	if cfg.S3.Enabled() {
		objects, err = storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initializing S3 storage: %w", err)
		}
	}

	a.Services = service.NewServices(service.Deps{
		Repos:     a.Repos,
		Verifier:  service.BcryptVerifier{},
		Coach:     planCoach,
		Objects:   objects,
		Clock:     clock,
		JWTSecret: cfg.JWT.Secret,
		JWTExpiry: cfg.JWT.Expiration,
	})
	return a, nil
}

func (a *App) openRepositories(ctx context.Context, store kv.Store) error {
	cfg := a.Config
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %w", err)
		}
		a.closers = append(a.closers, func() error { return mongo.DisconnectDB(client) })
		a.Repos, err = mongo.NewRepositories(ctx, client.Database(cfg.Database.Name))
		if err != nil {
			return fmt.Errorf("preparing MongoDB: %w", err)
		}
		log.Printf("INFO: Using MongoDB database %s", cfg.Database.Name)

	case config.DriverPostgres:
		db, err := postgres.Open(cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { return postgres.Close(db) })
		a.Repos = postgres.NewRepositories(db)

	case config.DriverKV:
		if store == nil {
			var err error
			if store, err = openStore(ctx, cfg); err != nil {
				return err
			}
		}
		a.closers = append(a.closers, store.Close)
		a.Repos = kv.NewRepositories(store)

	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config) (kv.Store, error) {
	switch cfg.Storage.KVBackend {
	case config.KVRedis:
		store, err := kv.NewRedisStore(ctx, cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		log.Println("INFO: Using Redis key-value store")
		return store, nil
	default:
		if cfg.Storage.Path == "" {
			log.Println("WARN: Using in-memory store, nothing will be persisted")
			return kv.NewMemoryStore(), nil
		}
		return kv.OpenFileStore(cfg.Storage.Path)
	}
}

// newCoach builds the LLM coach, or one that always fails when no provider
// can be configured so the rest of the app still works.
func newCoach(cfg config.CoachConfig) service.PlanCoach {
	provider, err := coach.NewProvider(coach.ProviderConfig{
		Name:    cfg.Provider,
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		log.Printf("WARN: Coach disabled: %v", err)
		return unavailableCoach{reason: err}
	}
	return coach.NewClient(provider)
}

type unavailableCoach struct {
	reason error
}

func (u unavailableCoach) GenerateWeeklyPlan(context.Context, *domain.Profile) (*domain.WeeklyPlan, error) {
	return nil, fmt.Errorf("%w: %v", coach.ErrCollaborator, u.reason)
}

func (u unavailableCoach) Chat(context.Context, []domain.ChatMessage, string, *domain.Profile) (string, error) {
	return "", fmt.Errorf("%w: %v", coach.ErrCollaborator, u.reason)
}

// Close releases every resource opened by New.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
