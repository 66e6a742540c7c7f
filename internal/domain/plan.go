// internal/domain/plan.go
package domain

// DaysPerPlan is the number of daily entries in a weekly plan, Monday first.
const DaysPerPlan = 7

type WorkoutBlock struct {
	DurationMinutes int        `bson:"durationMinutes" json:"durationMinutes" validate:"gte=0"`
	Exercises       []Exercise `bson:"exercises" json:"exercises" validate:"dive"`
}

type DietBlock struct {
	TotalCalories int    `bson:"totalCalories" json:"totalCalories" validate:"gte=0"`
	Meals         []Meal `bson:"meals" json:"meals" validate:"dive"`
}

// DailyPlan is the workout and diet for one weekday. Exercise and meal
// positions are stable for the lifetime of the plan.
type DailyPlan struct {
	DayName string       `bson:"dayName" json:"dayName" validate:"required"`
	Focus   string       `bson:"focus" json:"focus"`
	Workout WorkoutBlock `bson:"workout" json:"workout"`
	Diet    DietBlock    `bson:"diet" json:"diet"`
}

// TaskCount is the number of loggable items (exercises plus meals).
func (d DailyPlan) TaskCount() int {
	return len(d.Workout.Exercises) + len(d.Diet.Meals)
}

// TaskKeys lists every detail key that belongs to this day.
func (d DailyPlan) TaskKeys() []string {
	keys := make([]string, 0, d.TaskCount())
	for i, ex := range d.Workout.Exercises {
		keys = append(keys, ExerciseKey(i, ex))
	}
	for i, m := range d.Diet.Meals {
		keys = append(keys, MealKey(i, m))
	}
	return keys
}

// WeeklyPlan is replaced wholesale on regeneration, never edited in place.
type WeeklyPlan struct {
	GeneratedAt   int64       `bson:"generatedAt" json:"generatedAt"` // Unix milliseconds
	WeeklySummary string      `bson:"weeklySummary" json:"weeklySummary"`
	Days          []DailyPlan `bson:"days" json:"days" validate:"len=7,dive"`
}

// Day returns the plan for index 0 (Monday) .. 6 (Sunday). ok is false when
// the plan does not carry that day.
func (p *WeeklyPlan) Day(idx int) (DailyPlan, bool) {
	if p == nil || idx < 0 || idx >= len(p.Days) {
		return DailyPlan{}, false
	}
	return p.Days[idx], true
}
