package analytics

import (
	"fmt"
	"testing"

	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPlan builds a 7-day plan where every day has nEx exercises and nMeals
// meals, positionally keyed (no stable IDs) unless withIDs is set.
func testPlan(nEx, nMeals int, withIDs bool) *domain.WeeklyPlan {
	plan := &domain.WeeklyPlan{WeeklySummary: "test"}
	for d := 0; d < domain.DaysPerPlan; d++ {
		day := domain.DailyPlan{DayName: fmt.Sprintf("Day %d", d+1)}
		for i := 0; i < nEx; i++ {
			ex := domain.Exercise{Name: fmt.Sprintf("ex%d", i)}
			if withIDs {
				ex.ID = fmt.Sprintf("d%de%d", d, i)
			}
			day.Workout.Exercises = append(day.Workout.Exercises, ex)
		}
		for i := 0; i < nMeals; i++ {
			m := domain.Meal{Name: fmt.Sprintf("meal%d", i), Type: domain.MealLunch}
			if withIDs {
				m.ID = fmt.Sprintf("d%dm%d", d, i)
			}
			day.Diet.Meals = append(day.Diet.Meals, m)
		}
		plan.Days = append(plan.Days, day)
	}
	return plan
}

func logOn(date string, water int, done ...string) domain.ProgressLog {
	l := domain.ProgressLog{Date: date, Weight: 70, WaterIntake: water, Details: map[string]bool{}}
	for _, k := range done {
		l.Details[k] = true
	}
	return l
}

func TestDailyCompletion(t *testing.T) {
	plan := testPlan(2, 2, false)
	log := logOn("2024-06-03", 0, "exercise-0", "meal-1")
	assert.Equal(t, 50, DailyCompletion(plan, &log, "2024-06-03"))

	log.Details["exercise-1"] = true
	assert.Equal(t, 75, DailyCompletion(plan, &log, "2024-06-03"))

	// false values are not completions
	log.Details["meal-0"] = false
	assert.Equal(t, 75, DailyCompletion(plan, &log, "2024-06-03"))
}

func TestDailyCompletion_EmptyDayIsZero(t *testing.T) {
	plan := testPlan(0, 0, false)
	log := logOn("2024-06-03", 0, "exercise-0", "meal-0")
	assert.Equal(t, 0, DailyCompletion(plan, &log, "2024-06-03"))
	assert.Equal(t, 0, DailyCompletion(plan, nil, "2024-06-03"))
	assert.Equal(t, 0, DailyCompletion(nil, &log, "2024-06-03"))
}

func TestDailyCompletion_IgnoresStaleKeys(t *testing.T) {
	plan := testPlan(1, 1, true)
	// Keys from a superseded positional plan plus one current item.
	log := logOn("2024-06-03", 0, "exercise-0", "meal-0", "exercise-3", domain.ExerciseKey(0, plan.Days[0].Workout.Exercises[0]))
	assert.Equal(t, 50, DailyCompletion(plan, &log, "2024-06-03"))
}

func TestStreak(t *testing.T) {
	today := "2024-06-10"
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"no logs", nil, 0},
		{"today and two before, gap on fourth day", []string{"2024-06-10", "2024-06-09", "2024-06-08", "2024-06-06"}, 3},
		{"starts yesterday", []string{"2024-06-09", "2024-06-08"}, 2},
		{"only old logs", []string{"2024-06-07", "2024-06-06", "2024-06-05"}, 0},
		{"duplicates count once", []string{"2024-06-10", "2024-06-10", "2024-06-09"}, 2},
		{"crosses month boundary", []string{"2024-06-10", "2024-06-09", "2024-06-08", "2024-06-07", "2024-06-06", "2024-06-05", "2024-06-04", "2024-06-03", "2024-06-02", "2024-06-01", "2024-05-31"}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs []domain.ProgressLog
			for _, d := range tt.dates {
				logs = append(logs, logOn(d, 0))
			}
			assert.Equal(t, tt.want, Streak(logs, today))
		})
	}
}

func TestWorkoutCompleted_Threshold(t *testing.T) {
	plan := testPlan(4, 0, false)
	day := plan.Days[0]

	half := logOn("2024-06-03", 0, "exercise-0", "exercise-2")
	assert.True(t, WorkoutCompleted(day, &half), "2 of 4 is exactly the threshold")

	quarter := logOn("2024-06-03", 0, "exercise-1")
	assert.False(t, WorkoutCompleted(day, &quarter))

	assert.Equal(t, 1, CompletedWorkouts([]domain.ProgressLog{half, quarter}, plan))
}

func TestWorkoutCompleted_NoExercises(t *testing.T) {
	day := testPlan(0, 3, false).Days[0]
	log := logOn("2024-06-03", 0, "meal-0")
	assert.False(t, WorkoutCompleted(day, &log))
	assert.Equal(t, 0, WorkoutPercent(day, &log))
	assert.Equal(t, 33, DietPercent(day, &log))
}

func TestAverageWater(t *testing.T) {
	assert.Equal(t, 0.0, AverageWater(nil))
	logs := []domain.ProgressLog{logOn("2024-06-01", 1000), logOn("2024-06-02", 0), logOn("2024-06-03", 500)}
	assert.Equal(t, 500.0, AverageWater(logs))
}

func TestCanModify(t *testing.T) {
	assert.True(t, CanModify("2024-06-10", "2024-06-10"))
	assert.False(t, CanModify("2024-06-09", "2024-06-10"))
	assert.False(t, CanModify("2024-06-11", "2024-06-10"))
}

func TestSummarize(t *testing.T) {
	plan := testPlan(2, 2, false)
	logs := []domain.ProgressLog{
		logOn("2024-06-09", 1500, "exercise-0"),
		logOn("2024-06-10", 2000, "exercise-0", "exercise-1", "meal-0"),
	}
	s := Summarize(logs, plan, "2024-06-10")
	assert.Equal(t, 2, s.Streak)
	assert.Equal(t, 2, s.CompletedWorkouts)
	assert.Equal(t, 1750.0, s.AverageWater)
	assert.Equal(t, 2, s.TotalLogs)
	assert.Equal(t, 75, s.TodayCompletion)
}

func TestFindLog(t *testing.T) {
	logs := []domain.ProgressLog{logOn("2024-06-09", 1), logOn("2024-06-10", 2)}
	require.NotNil(t, FindLog(logs, "2024-06-10"))
	assert.Equal(t, 2, FindLog(logs, "2024-06-10").WaterIntake)
	assert.Nil(t, FindLog(logs, "2024-06-11"))
}
