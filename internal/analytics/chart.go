package analytics

import (
	"math"
	"sort"

	"fittrack/fitness-app/internal/calendar"
	"fittrack/fitness-app/internal/domain"
)

// ChartPoint is one point of a progress chart. Key is the canonical day,
// week start (Sunday) or month the point covers; Name is its axis label.
type ChartPoint struct {
	Key        string  `json:"key"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	Water      float64 `json:"water"`
	WorkoutPct int     `json:"workoutPct"`
	DietPct    int     `json:"dietPct"`
	Count      int     `json:"count"`
}

// Aggregate builds the chart series for a range. Daily points are the last
// 30 logs as-is; weekly and monthly points average their bucket (weight to one
// decimal, the rest to integers). Points are always in chronological order.
func Aggregate(logs []domain.ProgressLog, plan *domain.WeeklyPlan, u domain.UnitSystem, rng domain.Range) []ChartPoint {
	sorted := SortedByDate(logs)
	stats := make([]DayStats, len(sorted))
	for i := range sorted {
		stats[i] = Annotate(&sorted[i], plan, u)
	}

	switch rng {
	case domain.RangeWeekly:
		return bucketize(stats, func(date string) string {
			ws, _ := calendar.WeekStart(date) // dates were validated by SortedByDate
			return ws
		}, func(key string) string { return key[5:] })
	case domain.RangeMonthly:
		return bucketize(stats, calendar.MonthKey, func(key string) string { return key })
	default:
		if len(stats) > dailyWindow {
			stats = stats[len(stats)-dailyWindow:]
		}
		points := make([]ChartPoint, 0, len(stats))
		for _, s := range stats {
			points = append(points, ChartPoint{
				Key:        s.Date,
				Name:       s.Date[5:], // MM-DD
				Weight:     s.DisplayWeight,
				Water:      float64(s.Water),
				WorkoutPct: s.WorkoutPct,
				DietPct:    s.DietPct,
				Count:      1,
			})
		}
		return points
	}
}

type bucket struct {
	weight, water, workout, diet float64
	count                        int
}

func bucketize(stats []DayStats, keyOf, labelOf func(string) string) []ChartPoint {
	buckets := make(map[string]*bucket)
	for _, s := range stats {
		k := keyOf(s.Date)
		b, ok := buckets[k]
		if !ok {
			b = &bucket{}
			buckets[k] = b
		}
		b.weight += s.DisplayWeight
		b.water += float64(s.Water)
		b.workout += float64(s.WorkoutPct)
		b.diet += float64(s.DietPct)
		b.count++
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys) // canonical keys sort chronologically

	points := make([]ChartPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		n := float64(b.count)
		points = append(points, ChartPoint{
			Key:        k,
			Name:       labelOf(k),
			Weight:     math.Round(b.weight/n*10) / 10,
			Water:      math.Round(b.water / n),
			WorkoutPct: int(math.Round(b.workout / n)),
			DietPct:    int(math.Round(b.diet / n)),
			Count:      b.count,
		})
	}
	return points
}

// ReportRows selects the logs covered by a report range, newest first:
// daily is today only, weekly the last 7 days and monthly the last 30 days,
// today included.
func ReportRows(logs []domain.ProgressLog, plan *domain.WeeklyPlan, u domain.UnitSystem, rng domain.Range, today string) []DayStats {
	span := 1
	switch rng {
	case domain.RangeWeekly:
		span = 7
	case domain.RangeMonthly:
		span = 30
	}
	cutoff, err := calendar.AddDays(today, -(span - 1))
	if err != nil {
		return nil
	}

	sorted := SortedByDate(logs)
	rows := make([]DayStats, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i].Date
		if d < cutoff || d > today {
			continue
		}
		rows = append(rows, Annotate(&sorted[i], plan, u))
	}
	return rows
}
