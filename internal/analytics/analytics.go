// Package analytics derives views (completion, streaks, chart series) from a
// user's progress logs and current plan. Nothing here owns data: every
// function is a pure computation over what the repositories return.
package analytics

import (
	"math"
	"sort"

	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/units"
)

// workoutDoneThreshold is the completed/total exercise ratio at which a day
// counts as a completed workout. The boundary itself counts.
const workoutDoneThreshold = 0.5

// dailyWindow is the number of most recent logs shown in the daily chart.
const dailyWindow = 30

// dayPlanFor resolves the plan day that applies to a canonical date.
func dayPlanFor(plan *domain.WeeklyPlan, date string) (domain.DailyPlan, bool) {
	idx, err := calendar.PlanDayIndexOf(date)
	if err != nil {
		return domain.DailyPlan{}, false
	}
	return plan.Day(idx)
}

// DailyCompletion is the percentage of the day's exercises and meals marked
// complete in log. Only keys of the current plan's items are counted, so keys
// left over from a regenerated plan never inflate the result.
func DailyCompletion(plan *domain.WeeklyPlan, log *domain.ProgressLog, date string) int {
	day, ok := dayPlanFor(plan, date)
	if !ok {
		return 0
	}
	total := day.TaskCount()
	if total == 0 {
		return 0
	}
	completed := 0
	for _, key := range day.TaskKeys() {
		if log.Done(key) {
			completed++
		}
	}
	return percent(completed, total)
}

// completedExercises counts exercises of day marked done in log.
func completedExercises(day domain.DailyPlan, log *domain.ProgressLog) int {
	n := 0
	for i, ex := range day.Workout.Exercises {
		if log.Done(domain.ExerciseKey(i, ex)) {
			n++
		}
	}
	return n
}

func completedMeals(day domain.DailyPlan, log *domain.ProgressLog) int {
	n := 0
	for i, m := range day.Diet.Meals {
		if log.Done(domain.MealKey(i, m)) {
			n++
		}
	}
	return n
}

// WorkoutPercent is the rounded share of the day's exercises completed.
func WorkoutPercent(day domain.DailyPlan, log *domain.ProgressLog) int {
	return percent(completedExercises(day, log), guard(len(day.Workout.Exercises)))
}

// DietPercent is the rounded share of the day's meals completed.
func DietPercent(day domain.DailyPlan, log *domain.ProgressLog) int {
	return percent(completedMeals(day, log), guard(len(day.Diet.Meals)))
}

// WorkoutCompleted reports whether at least half of the day's exercises are done.
func WorkoutCompleted(day domain.DailyPlan, log *domain.ProgressLog) bool {
	ratio := float64(completedExercises(day, log)) / float64(guard(len(day.Workout.Exercises)))
	return ratio >= workoutDoneThreshold
}

// CompletedWorkouts counts the logs whose day reached the workout threshold.
func CompletedWorkouts(logs []domain.ProgressLog, plan *domain.WeeklyPlan) int {
	n := 0
	for i := range logs {
		day, ok := dayPlanFor(plan, logs[i].Date)
		if ok && WorkoutCompleted(day, &logs[i]) {
			n++
		}
	}
	return n
}

// Streak counts consecutive logged days ending today, or yesterday when today
// has no log yet. Lookups are exact matches on canonical keys.
func Streak(logs []domain.ProgressLog, today string) int {
	dates := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		dates[l.Date] = struct{}{}
	}
	yesterday, err := calendar.AddDays(today, -1)
	if err != nil {
		return 0
	}
	cursor := today
	if _, ok := dates[today]; !ok {
		if _, ok := dates[yesterday]; !ok {
			return 0
		}
		cursor = yesterday
	}

	streak := 0
	for {
		if _, ok := dates[cursor]; !ok {
			return streak
		}
		streak++
		if cursor, err = calendar.AddDays(cursor, -1); err != nil {
			return streak
		}
	}
}

// AverageWater is the mean water intake in ml; 0 when there are no logs.
func AverageWater(logs []domain.ProgressLog) float64 {
	sum := 0
	for _, l := range logs {
		sum += l.WaterIntake
	}
	return float64(sum) / float64(guard(len(logs)))
}

// CanModify is the "today only" gate for writes to a day's log.
func CanModify(date, today string) bool {
	return date == today
}

// FindLog returns the log for date, or nil.
func FindLog(logs []domain.ProgressLog, date string) *domain.ProgressLog {
	for i := range logs {
		if logs[i].Date == date {
			return &logs[i]
		}
	}
	return nil
}

// SortedByDate returns a copy of logs in ascending date order. Logs whose
// date is not a canonical key are dropped.
func SortedByDate(logs []domain.ProgressLog) []domain.ProgressLog {
	out := make([]domain.ProgressLog, 0, len(logs))
	for _, l := range logs {
		if calendar.ValidDate(l.Date) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// DayStats is one log annotated with display-unit weight and adherence.
type DayStats struct {
	Date          string  `json:"date"`
	DisplayWeight float64 `json:"displayWeight"`
	Water         int     `json:"water"`
	WorkoutPct    int     `json:"workoutPct"`
	DietPct       int     `json:"dietPct"`
	WorkoutDone   bool    `json:"workoutDone"`
}

// Annotate converts a log into DayStats against the current plan.
func Annotate(log *domain.ProgressLog, plan *domain.WeeklyPlan, u domain.UnitSystem) DayStats {
	s := DayStats{
		Date:          log.Date,
		DisplayWeight: units.ToDisplayWeight(log.Weight, u),
		Water:         log.WaterIntake,
	}
	if day, ok := dayPlanFor(plan, log.Date); ok {
		s.WorkoutPct = WorkoutPercent(day, log)
		s.DietPct = DietPercent(day, log)
		s.WorkoutDone = WorkoutCompleted(day, log)
	}
	return s
}

// Summary is the headline numbers of the analytics view.
type Summary struct {
	Streak            int     `json:"streak"`
	CompletedWorkouts int     `json:"completedWorkouts"`
	AverageWater      float64 `json:"averageWater"`
	TotalLogs         int     `json:"totalLogs"`
	Today             string  `json:"today"`
	TodayCompletion   int     `json:"todayCompletion"`
}

func Summarize(logs []domain.ProgressLog, plan *domain.WeeklyPlan, today string) Summary {
	return Summary{
		Streak:            Streak(logs, today),
		CompletedWorkouts: CompletedWorkouts(logs, plan),
		AverageWater:      math.Round(AverageWater(logs)),
		TotalLogs:         len(logs),
		Today:             today,
		TodayCompletion:   DailyCompletion(plan, FindLog(logs, today), today),
	}
}

func guard(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
