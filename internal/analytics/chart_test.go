package analytics

import (
	"fmt"
	"testing"

	"fittrack/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_WeeklyBucketsBySunday(t *testing.T) {
	plan := testPlan(2, 2, false)
	mon := logOn("2024-06-03", 1000, "exercise-0", "meal-0", "meal-1")
	mon.Weight = 80
	wed := logOn("2024-06-05", 2001, "exercise-0", "exercise-1")
	wed.Weight = 80.5

	points := Aggregate([]domain.ProgressLog{wed, mon}, plan, domain.UnitsMetric, domain.RangeWeekly)
	require.Len(t, points, 1)
	p := points[0]
	assert.Equal(t, "2024-06-02", p.Key)
	assert.Equal(t, "06-02", p.Name)
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, 80.3, p.Weight)   // 80.25 -> one decimal
	assert.Equal(t, 1501.0, p.Water)  // 1500.5 -> integer
	assert.Equal(t, 75, p.WorkoutPct) // (50 + 100) / 2
	assert.Equal(t, 50, p.DietPct)    // (100 + 0) / 2
}

func TestAggregate_WeeklySortedChronologically(t *testing.T) {
	plan := testPlan(1, 1, false)
	logs := []domain.ProgressLog{
		logOn("2024-07-01", 0),
		logOn("2024-06-03", 0),
		logOn("2024-06-20", 0),
	}
	points := Aggregate(logs, plan, domain.UnitsMetric, domain.RangeWeekly)
	require.Len(t, points, 3)
	assert.Equal(t, []string{"2024-06-02", "2024-06-16", "2024-06-30"}, []string{points[0].Key, points[1].Key, points[2].Key})
}

func TestAggregate_Monthly(t *testing.T) {
	plan := testPlan(1, 1, false)
	a := logOn("2024-05-30", 1000)
	a.Weight = 100
	b := logOn("2024-06-01", 3000)
	b.Weight = 90
	c := logOn("2024-06-15", 1000)
	c.Weight = 91

	points := Aggregate([]domain.ProgressLog{c, b, a}, plan, domain.UnitsImperial, domain.RangeMonthly)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-05", points[0].Name)
	assert.Equal(t, 220.0, points[0].Weight)
	assert.Equal(t, "2024-06", points[1].Name)
	assert.Equal(t, 199.5, points[1].Weight) // (198 + 201) / 2
	assert.Equal(t, 2000.0, points[1].Water)
}

func TestAggregate_DailyLastThirty(t *testing.T) {
	plan := testPlan(1, 1, false)
	var logs []domain.ProgressLog
	for i := 1; i <= 31; i++ {
		logs = append(logs, logOn(fmt.Sprintf("2024-05-%02d", i), i))
	}
	logs = append(logs, logOn("2024-06-01", 99, "exercise-0"))

	points := Aggregate(logs, plan, domain.UnitsMetric, domain.RangeDaily)
	require.Len(t, points, 30)
	assert.Equal(t, "05-03", points[0].Name)
	last := points[len(points)-1]
	assert.Equal(t, "06-01", last.Name)
	assert.Equal(t, 99.0, last.Water)
	assert.Equal(t, 100, last.WorkoutPct)
}

func TestAggregate_SkipsMalformedDates(t *testing.T) {
	logs := []domain.ProgressLog{logOn("not-a-date", 10), logOn("2024-06-01", 20)}
	points := Aggregate(logs, testPlan(1, 1, false), domain.UnitsMetric, domain.RangeWeekly)
	require.Len(t, points, 1)
	assert.Equal(t, 20.0, points[0].Water)
}

func TestAggregate_NoPlan(t *testing.T) {
	points := Aggregate([]domain.ProgressLog{logOn("2024-06-01", 20, "exercise-0")}, nil, domain.UnitsMetric, domain.RangeDaily)
	require.Len(t, points, 1)
	assert.Equal(t, 0, points[0].WorkoutPct)
}

func TestReportRows(t *testing.T) {
	plan := testPlan(2, 1, false)
	var logs []domain.ProgressLog
	for _, d := range []string{"2024-05-01", "2024-06-01", "2024-06-04", "2024-06-09", "2024-06-10", "2024-06-11"} {
		logs = append(logs, logOn(d, 100, "exercise-0"))
	}
	today := "2024-06-10"

	daily := ReportRows(logs, plan, domain.UnitsMetric, domain.RangeDaily, today)
	require.Len(t, daily, 1)
	assert.Equal(t, today, daily[0].Date)
	assert.Equal(t, 50, daily[0].WorkoutPct)

	weekly := ReportRows(logs, plan, domain.UnitsMetric, domain.RangeWeekly, today)
	require.Len(t, weekly, 3)
	assert.Equal(t, []string{"2024-06-10", "2024-06-09", "2024-06-04"}, []string{weekly[0].Date, weekly[1].Date, weekly[2].Date})

	monthly := ReportRows(logs, plan, domain.UnitsMetric, domain.RangeMonthly, today)
	assert.Len(t, monthly, 4)
}
