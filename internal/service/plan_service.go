package service

import (
	"context"
	"fmt"
	"log"

	"fittrack/fitness-app/internal/analytics"
	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
)

// PlanCoach is the collaborator that writes plans and chat replies.
// *coach.Client satisfies it.
type PlanCoach interface {
	GenerateWeeklyPlan(ctx context.Context, profile *domain.Profile) (*domain.WeeklyPlan, error)
	Chat(ctx context.Context, history []domain.ChatMessage, message string, profile *domain.Profile) (string, error)
}

// GeneratedPlan carries the new plan and the one it replaced (nil on first generation).
type GeneratedPlan struct {
	Plan     *domain.WeeklyPlan `json:"plan"`
	Previous *domain.WeeklyPlan `json:"previous,omitempty"`
}

// ItemView is one checkable exercise or meal of a day. Link searches for a
// demo video (exercises) or a recipe (meals).
type ItemView struct {
	Key        string          `json:"key"`
	Kind       string          `json:"kind"` // exercise or meal
	Name       string          `json:"name"`
	Done       bool            `json:"done"`
	Link       string          `json:"link"`
	Variations []VariationView `json:"variations,omitempty"`
}

// VariationView is an easier or harder alternative to an exercise.
type VariationView struct {
	Name       string            `json:"name"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Link       string            `json:"link"`
}

// DayView is the plan entry that applies to one calendar date, with the
// progress logged for it.
type DayView struct {
	Date       string              `json:"date"`
	DayName    string              `json:"dayName"`
	Index      int                 `json:"index"`
	Day        domain.DailyPlan    `json:"day"`
	Items      []ItemView          `json:"items"`
	Completion int                 `json:"completion"`
	Editable   bool                `json:"editable"`
	Log        *domain.ProgressLog `json:"log,omitempty"`
}

type PlanService interface {
	Generate(ctx context.Context, userID string) (*GeneratedPlan, error)
	Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error)
	Day(ctx context.Context, userID, date string) (*DayView, error)
}

type planService struct {
	userRepo repository.UserRepository
	planRepo repository.PlanRepository
	logRepo  repository.LogRepository
	coach    PlanCoach
	clock    calendar.Clock
}

func NewPlanService(repos repository.Repositories, coach PlanCoach, clock calendar.Clock) PlanService {
	return &planService{
		userRepo: repos.Users,
		planRepo: repos.Plans,
		logRepo:  repos.Logs,
		coach:    coach,
		clock:    clock,
	}
}

// Generate asks the coach for a new plan and replaces the stored one. A
// failed generation leaves the previous plan in place.
func (s *planService) Generate(ctx context.Context, userID string) (*GeneratedPlan, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.HasProfile() {
		return nil, ErrProfileRequired
	}
	previous, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.coach.GenerateWeeklyPlan(ctx, user.Profile)
	if err != nil {
		log.Printf("ERROR: Plan generation for user %s failed: %v", userID, err)
		return nil, err
	}
	if err := s.planRepo.Save(ctx, userID, plan); err != nil {
		return nil, err
	}
	log.Printf("INFO: Generated weekly plan for user %s", userID)
	return &GeneratedPlan{Plan: plan, Previous: previous}, nil
}

func (s *planService) Get(ctx context.Context, userID string) (*domain.WeeklyPlan, error) {
	plan, err := s.planRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// Day resolves the plan day for date; an empty date means today.
func (s *planService) Day(ctx context.Context, userID, date string) (*DayView, error) {
	today := s.clock.Today()
	if date == "" {
		date = today
	}
	t, err := calendar.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	plan, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := calendar.PlanDayIndex(t)
	day, ok := plan.Day(idx)
	if !ok {
		return nil, fmt.Errorf("%w: plan has no entry for %s", ErrPlanNotFound, calendar.DayName(t))
	}
	logs, err := s.logRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry := analytics.FindLog(logs, date)

	return &DayView{
		Date:       date,
		DayName:    calendar.DayName(t),
		Index:      idx,
		Day:        day,
		Items:      itemViews(day, entry),
		Completion: analytics.DailyCompletion(plan, entry, date),
		Editable:   analytics.CanModify(date, today),
		Log:        entry,
	}, nil
}

func itemViews(day domain.DailyPlan, entry *domain.ProgressLog) []ItemView {
	items := make([]ItemView, 0, day.TaskCount())
	for i, ex := range day.Workout.Exercises {
		key := domain.ExerciseKey(i, ex)
		item := ItemView{Key: key, Kind: "exercise", Name: ex.Name, Done: entry.Done(key), Link: domain.VideoSearchLink(ex.Name)}
		for _, v := range ex.Variations {
			item.Variations = append(item.Variations, VariationView{Name: v.Name, Difficulty: v.Difficulty, Link: domain.VideoSearchLink(v.Name)})
		}
		items = append(items, item)
	}
	for i, m := range day.Diet.Meals {
		key := domain.MealKey(i, m)
		items = append(items, ItemView{Key: key, Kind: "meal", Name: m.Name, Done: entry.Done(key), Link: domain.RecipeSearchLink(m.Name)})
	}
	return items
}
