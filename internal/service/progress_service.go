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

// DailyWaterGoal is the daily hydration target in ml.
const DailyWaterGoal = 2500

// LogInput is a progress entry as entered by the user. Weight is in the
// user's display unit. Nil fields keep their stored (or default) value.
type LogInput struct {
	Weight           *float64 `json:"weight,omitempty"`
	CaloriesConsumed *int     `json:"caloriesConsumed,omitempty"`
	WorkoutCompleted *bool    `json:"workoutCompleted,omitempty"`
	WaterIntake      *int     `json:"waterIntake,omitempty"`
}

// LogDefaults prefills the log form for a date.
type LogDefaults struct {
	Date             string  `json:"date"`
	Exists           bool    `json:"exists"`
	Weight           float64 `json:"weight"` // display unit
	WeightLabel      string  `json:"weightLabel"`
	WorkoutCompleted bool    `json:"workoutCompleted"`
	WaterIntake      int     `json:"waterIntake"`
	WaterGoal        int     `json:"waterGoal"`
	CaloriesConsumed *int    `json:"caloriesConsumed,omitempty"`
	Editable         bool    `json:"editable"`

	weightKg float64
}

type ProgressService interface {
	SaveLog(ctx context.Context, userID, date string, in LogInput) (*domain.ProgressLog, error)
	ToggleItem(ctx context.Context, userID, date, key string) (*domain.ProgressLog, error)
	AdjustWater(ctx context.Context, userID, date string, delta int) (*domain.ProgressLog, error)
	Logs(ctx context.Context, userID string) ([]domain.ProgressLog, error)
	Defaults(ctx context.Context, userID, date string) (*LogDefaults, error)
}

type progressService struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	logRepo  repository.LogRepository
	clock    calendar.Clock
}

func NewProgressService(repos repository.Repositories, clock calendar.Clock) ProgressService {
	return &progressService{
		userRepo: repos.Users,
		planRepo: repos.Plans,
		logRepo:  repos.Logs,
		clock:    clock,
	}
}

func (s *progressService) Logs(ctx context.Context, userID string) ([]domain.ProgressLog, error) {
	return s.logRepo.List(ctx, userID)
}

// resolveDate validates date (empty means today) and reports whether it is today.
func (s *progressService) resolveDate(date string) (string, bool, error) {
	today := s.clock.Today()
	if date == "" {
		return today, true, nil
	}
	if !calendar.ValidDate(date) {
		return "", false, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrInvalidInput, date)
	}
	return date, analytics.CanModify(date, today), nil
}

// writableDate is resolveDate plus the "today only" gate.
func (s *progressService) writableDate(date string) (string, error) {
	date, editable, err := s.resolveDate(date)
	if err != nil {
		return "", err
	}
	if !editable {
		return "", ErrNotToday
	}
	return date, nil
}

// Defaults returns the values a log form starts from: the stored log for the
// date, otherwise the weight of the most recently written log, otherwise the
// profile weight.
func (s *progressService) Defaults(ctx context.Context, userID, date string) (*LogDefaults, error) {
	date, editable, err := s.resolveDate(date)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildDefaults(user.Profile, logs, date, editable), nil
}

func buildDefaults(profile *domain.Profile, logs []domain.ProgressLog, date string, editable bool) *LogDefaults {
	u := profile.DisplayUnits()
	d := &LogDefaults{Date: date, WeightLabel: units.WeightLabel(u), WaterGoal: DailyWaterGoal, Editable: editable}

	if entry := analytics.FindLog(logs, date); entry != nil {
		d.Exists = true
		d.weightKg = entry.Weight
		d.WorkoutCompleted = entry.WorkoutCompleted
		d.WaterIntake = entry.WaterIntake
		d.CaloriesConsumed = entry.CaloriesConsumed
	} else if len(logs) > 0 {
		d.weightKg = logs[len(logs)-1].Weight
	} else if profile != nil {
		d.weightKg = profile.Weight
	}
	d.Weight = units.ToDisplayWeight(d.weightKg, u)
	return d
}

// SaveLog records today's stats. A weight is always written: the entered
// one converted to kg, or the prefilled default. Item completion is kept.
func (s *progressService) SaveLog(ctx context.Context, userID, date string, in LogInput) (*domain.ProgressLog, error) {
	date, err := s.writableDate(date)
	if err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	wc, err := s.loadWriteContext(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	weight := wc.defaults.weightKg
	if in.Weight != nil {
		weight = units.RoundStorage(units.FromDisplayWeight(*in.Weight, wc.profile.DisplayUnits()))
	}
	return s.logRepo.Save(ctx, userID, domain.LogUpdate{
		Date:             date,
		Weight:           &weight,
		CaloriesConsumed: in.CaloriesConsumed,
		WorkoutCompleted: in.WorkoutCompleted,
		WaterIntake:      in.WaterIntake,
	})
}

func (in LogInput) validate() error {
	switch {
	case in.Weight != nil && *in.Weight <= 0:
		return fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
	case in.WaterIntake != nil && *in.WaterIntake < 0:
		return fmt.Errorf("%w: water intake cannot be negative", ErrInvalidInput)
	case in.CaloriesConsumed != nil && *in.CaloriesConsumed < 0:
		return fmt.Errorf("%w: calories cannot be negative", ErrInvalidInput)
	}
	return nil
}

// writeContext is what a write to date starts from.
type writeContext struct {
	defaults *LogDefaults
	profile  *domain.Profile
}

func (s *progressService) loadWriteContext(ctx context.Context, userID, date string) (*writeContext, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &writeContext{
		defaults: buildDefaults(user.Profile, logs, date, true),
		profile:  user.Profile,
	}, nil
}

// AdjustWater adds delta ml to today's water intake, never going below zero.
// The increment is applied to the stored value inside the log transaction.
func (s *progressService) AdjustWater(ctx context.Context, userID, date string, delta int) (*domain.ProgressLog, error) {
	date, err := s.writableDate(date)
	if err != nil {
		return nil, err
	}
	wc, err := s.loadWriteContext(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return s.logRepo.Update(ctx, userID, date, func(entry *domain.ProgressLog, exists bool) error {
		if !exists {
			entry.Weight = wc.defaults.weightKg
		}
		entry.WaterIntake += delta
		if entry.WaterIntake < 0 {
			entry.WaterIntake = 0
		}
		return nil
	})
}

// ToggleItem flips the completion of one exercise or meal of today's plan day.
// key is an item key from the day view; positional keys ("exercise-2") are
// accepted and mapped to the item's stable key.
func (s *progressService) ToggleItem(ctx context.Context, userID, date, key string) (*domain.ProgressLog, error) {
	date, err := s.writableDate(date)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	idx, err := calendar.PlanDayIndexOf(date)
	if err != nil {
		return nil, err
	}
	day, ok := plan.Day(idx)
	if !ok {
		return nil, ErrPlanNotFound
	}
	key, err = ResolveItemKey(day, key)
	if err != nil {
		return nil, err
	}

	wc, err := s.loadWriteContext(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	return s.logRepo.Update(ctx, userID, date, func(entry *domain.ProgressLog, exists bool) error {
		if !exists {
			entry.Weight = wc.defaults.weightKg
		}
		details := domain.CopyDetails(entry.Details)
		if details == nil {
			details = map[string]bool{}
		}
		details[key] = !details[key]
		entry.Details = details
		return nil
	})
}

// ResolveItemKey maps key to the detail key of an item of day, or fails with
// ErrInvalidDetailKey.
func ResolveItemKey(day domain.DailyPlan, key string) (string, error) {
	if !domain.IsDetailKey(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDetailKey, key)
	}
	for _, k := range day.TaskKeys() {
		if k == key {
			return key, nil
		}
	}
	kind, idx, err := domain.ParseLegacyKey(key)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDetailKey, key)
	}
	switch {
	case kind == "exercise" && idx >= 0 && idx < len(day.Workout.Exercises):
		return domain.ExerciseKey(idx, day.Workout.Exercises[idx]), nil
	case kind == "meal" && idx >= 0 && idx < len(day.Diet.Meals):
		return domain.MealKey(idx, day.Diet.Meals[idx]), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDetailKey, key)
}
