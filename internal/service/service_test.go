package service

import (
	"context"
	"testing"
	"time"

	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/repository/kv"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Monday, so today's plan day is index 0.
var testNow = time.Date(2024, time.June, 3, 10, 0, 0, 0, time.UTC)

const testToday = "2024-06-03"

func testClock() calendar.Clock { return calendar.FixedClock(testNow) }
func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int { return &v }
func boolPtr(v bool) *bool { return &v }

// MockCoach is a mock PlanCoach.
type MockCoach struct {
	mock.Mock
}

func (m *MockCoach) GenerateWeeklyPlan(ctx context.Context, profile *domain.Profile) (*domain.WeeklyPlan, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WeeklyPlan), args.Error(1)
}

func (m *MockCoach) Chat(ctx context.Context, history []domain.ChatMessage, message string, profile *domain.Profile) (string, error) {
	args := m.Called(ctx, history, message, profile)
	return args.String(0), args.Error(1)
}

func testProfile(u domain.UnitSystem) *domain.Profile {
	return &domain.Profile{
		Name: "Ana", Age: 31, Gender: domain.GenderFemale, Height: 168, Weight: 70,
		Units: u, Goal: domain.GoalWeightLoss, ActivityLevel: domain.ActivityLightlyActive,
		DietType: domain.DietBalanced, Restrictions: []string{"Gluten-Free"},
	}
}

// testPlan has stable IDs on Monday and legacy positional items on Tuesday.
func testPlan(summary string) *domain.WeeklyPlan {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	plan := &domain.WeeklyPlan{GeneratedAt: testNow.UnixMilli(), WeeklySummary: summary}
	for _, n := range names {
		plan.Days = append(plan.Days, domain.DailyPlan{
			DayName: n,
			Workout: domain.WorkoutBlock{Exercises: []domain.Exercise{{Name: "Squat"}, {Name: "Plank"}}},
			Diet:    domain.DietBlock{Meals: []domain.Meal{{Type: domain.MealBreakfast, Name: "Oats"}, {Type: domain.MealDinner, Name: "Salmon"}}},
		})
	}
	monday := &plan.Days[0]
	monday.Workout.Exercises[0].ID = "ex-a"
	monday.Workout.Exercises[1].ID = "ex-b"
	monday.Diet.Meals[0].ID = "m-a"
	monday.Diet.Meals[1].ID = "m-b"
	return plan
}

type fixture struct {
	repos repository.Repositories
	coach *MockCoach
	auth  AuthService
	user  *domain.User
}

// newFixture registers one user. withProfile completes onboarding in metric.
func newFixture(t *testing.T, withProfile bool) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := kv.NewRepositories(kv.NewMemoryStore())
	auth := NewAuthService(repos.Users, BcryptVerifier{Cost: bcrypt.MinCost}, "test-secret", time.Hour)
	user, err := auth.Register(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	if withProfile {
		user.Profile = testProfile(domain.UnitsMetric)
		require.NoError(t, repos.Users.UpdateProfile(ctx, user.ID, user.Profile))
	}
	return &fixture{repos: repos, coach: new(MockCoach), auth: auth, user: user}
}
