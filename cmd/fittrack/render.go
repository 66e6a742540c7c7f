package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"fittrack/fitness-app/internal/analytics"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/service"
	"fittrack/fitness-app/internal/units"
)

func renderUser(w io.Writer, u *domain.User) {
	fmt.Fprintf(w, "%s (%s)\n", u.Email, u.ID)
	if !u.HasProfile() {
		fmt.Fprintln(w, "Profile: not set up")
		return
	}
	renderProfile(w, service.DisplayProfile(u.Profile))
}

func renderProfile(w io.Writer, v service.ProfileView) {
	fmt.Fprintf(w, "Name:      %s\n", v.Name)
	fmt.Fprintf(w, "Age:       %d\n", v.Age)
	fmt.Fprintf(w, "Gender:    %s\n", v.Gender)
	fmt.Fprintf(w, "Height:    %s\n", v.DisplayHeight.Text)
	fmt.Fprintf(w, "Weight:    %g %s\n", v.DisplayWeight, v.WeightLabel)
	fmt.Fprintf(w, "Goal:      %s\n", v.Goal)
	fmt.Fprintf(w, "Activity:  %s\n", v.ActivityLevel)
	fmt.Fprintf(w, "Diet:      %s\n", v.DietType)
	if len(v.Restrictions) > 0 {
		fmt.Fprintf(w, "Restricts: %s\n", strings.Join(v.Restrictions, ", "))
	}
	optional := []struct{ label, value string }{
		{"Prefers:   ", v.DietaryPreferences},
		{"Injuries:  ", v.Injuries},
		{"Allergies: ", v.Allergies},
		{"Equipment: ", v.Equipment},
	}
	for _, o := range optional {
		if o.value != "" {
			fmt.Fprintf(w, "%s%s\n", o.label, o.value)
		}
	}
}

// planText is the plain rendering of a plan, also used as diff input.
func planText(p *domain.WeeklyPlan) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	if p.WeeklySummary != "" {
		fmt.Fprintf(&b, "%s\n", p.WeeklySummary)
	}
	for _, d := range p.Days {
		fmt.Fprintf(&b, "\n== %s: %s ==\n", d.DayName, d.Focus)
		fmt.Fprintf(&b, "Workout (%d min)\n", d.Workout.DurationMinutes)
		for _, ex := range d.Workout.Exercises {
			fmt.Fprintf(&b, "  %s  %s x %s\n", ex.Name, ex.Sets, ex.Reps)
		}
		fmt.Fprintf(&b, "Diet (%d kcal)\n", d.Diet.TotalCalories)
		for _, m := range d.Diet.Meals {
			fmt.Fprintf(&b, "  %-9s %s (%d kcal)\n", m.Type, m.Name, m.Calories)
		}
	}
	return b.String()
}

func renderPlan(w io.Writer, p *domain.WeeklyPlan) {
	fmt.Fprint(w, planText(p))
}

// planDiff shows the line changes between two plan renderings.
func planDiff(before, after string) string {
	if before == "" {
		return after
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
		}
	}
	if !strings.HasSuffix(out.String(), "\n") {
		out.WriteString("\n")
	}
	return out.String()
}

func renderDay(w io.Writer, v *service.DayView) {
	fmt.Fprintf(w, "%s (%s)  %s  %d%% done\n", v.DayName, v.Date, v.Day.Focus, v.Completion)
	if !v.Editable {
		fmt.Fprintln(w, "read-only: only today can be changed")
	}
	for _, it := range v.Items {
		mark := "[ ]"
		if it.Done {
			mark = "[x]"
		}
		fmt.Fprintf(w, "  %s %-8s %s  (%s)\n", mark, it.Kind, it.Name, it.Key)
		fmt.Fprintf(w, "               %s\n", it.Link)
		for _, v := range it.Variations {
			fmt.Fprintf(w, "               %s: %s  %s\n", v.Difficulty, v.Name, v.Link)
		}
	}
	if v.Log != nil {
		fmt.Fprintf(w, "Water: %d / %d ml\n", v.Log.WaterIntake, service.DailyWaterGoal)
	}
}

func renderLog(w io.Writer, l *domain.ProgressLog, profile *domain.Profile) {
	u := profile.DisplayUnits()
	fmt.Fprintf(w, "Logged %s\n", l.Date)
	fmt.Fprintf(w, "  Weight:   %g %s\n", units.ToDisplayWeight(l.Weight, u), units.WeightLabel(u))
	fmt.Fprintf(w, "  Workout:  %t\n", l.WorkoutCompleted)
	fmt.Fprintf(w, "  Water:    %d / %d ml\n", l.WaterIntake, service.DailyWaterGoal)
	if l.CaloriesConsumed != nil {
		fmt.Fprintf(w, "  Calories: %d\n", *l.CaloriesConsumed)
	}
}

func renderSummary(w io.Writer, s *analytics.Summary) {
	fmt.Fprintf(w, "Streak:             %d days\n", s.Streak)
	fmt.Fprintf(w, "Completed workouts: %d\n", s.CompletedWorkouts)
	fmt.Fprintf(w, "Average water:      %g ml\n", s.AverageWater)
	fmt.Fprintf(w, "Days logged:        %d\n", s.TotalLogs)
	fmt.Fprintf(w, "Today (%s):  %d%% done\n", s.Today, s.TodayCompletion)
}

func renderChart(w io.Writer, c *service.Chart) {
	if len(c.Points) == 0 {
		fmt.Fprintln(w, "No logs yet")
		return
	}
	fmt.Fprintf(w, "%-12s %8s %8s %8s %6s\n", "", c.WeightLabel, "water", "workout", "diet")
	for _, p := range c.Points {
		fmt.Fprintf(w, "%-12s %8.1f %8.0f %7d%% %5d%%\n", p.Name, p.Weight, p.Water, p.WorkoutPct, p.DietPct)
	}
}

func renderChat(w io.Writer, history []domain.ChatMessage) {
	for _, m := range history {
		who := "You"
		if m.Role == domain.RoleModel {
			who = "Coach"
		}
		fmt.Fprintf(w, "%s: %s\n\n", who, m.Text)
	}
}
