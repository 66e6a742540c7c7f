// Package report renders the printable progress report.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"fittrack/fitness-app/internal/analytics"
	"fittrack/fitness-app/internal/domain"
	"fittrack/fitness-app/internal/units"
)

// ContentType of rendered reports.
const ContentType = "text/html; charset=utf-8"

// Title returns the heading used for a report range.
func Title(rng domain.Range) string {
	switch rng {
	case domain.RangeDaily:
		return "Daily Report"
	case domain.RangeWeekly:
		return "Weekly Report (Last 7 Days)"
	default:
		return "Monthly Report (Last 30 Days)"
	}
}

// Input is everything a report shows.
type Input struct {
	Range       domain.Range
	Profile     *domain.Profile
	Plan        *domain.WeeklyPlan
	Rows        []analytics.DayStats
	GeneratedAt time.Time
}

type row struct {
	Date    string
	Weight  string
	Workout int
	Water   int
}

type view struct {
	Title         string
	Name          string
	GeneratedOn   string
	Age           int
	Height        string
	Weight        string
	Goal          domain.Goal
	DietType      domain.DietType
	Equipment     string
	Injuries      string
	WeeklySummary string
	Rows          []row
}

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>FitTrack Report - {{.Name}}</title>
<style>
body { font-family: sans-serif; color: #1e293b; padding: 40px; }
header { display: flex; justify-content: space-between; border-bottom: 1px solid #e2e8f0; padding-bottom: 24px; margin-bottom: 40px; }
.cards { display: grid; grid-template-columns: 1fr 1fr; gap: 32px; margin-bottom: 40px; }
.card { background: #f8fafc; padding: 24px; border-radius: 12px; }
table { width: 100%; text-align: left; border-collapse: collapse; font-size: 14px; }
th, td { padding: 8px 0; border-bottom: 1px solid #e2e8f0; }
footer { text-align: center; color: #94a3b8; margin-top: 80px; font-size: 14px; }
@media print { body { -webkit-print-color-adjust: exact; } }
</style>
</head>
<body>
<header>
  <div><h1>FitTrack</h1><p>Personal Fitness Report</p></div>
  <div><h2>{{.Name}}</h2><p>Generated on {{.GeneratedOn}}</p></div>
</header>
<div class="cards">
  <div class="card">
    <h3>User Profile</h3>
    <ul>
      <li><strong>Age:</strong> {{.Age}}</li>
      <li><strong>Height:</strong> {{.Height}}</li>
      <li><strong>Current Weight:</strong> {{.Weight}}</li>
      <li><strong>Goal:</strong> {{.Goal}}</li>
      <li><strong>Diet Type:</strong> {{.DietType}}</li>
    </ul>
  </div>
  <div class="card">
    <h3>Plan Summary</h3>
    <p><em>"{{.WeeklySummary}}"</em></p>
    <ul>
      <li><strong>Equipment:</strong> {{.Equipment}}</li>
      <li><strong>Injuries:</strong> {{.Injuries}}</li>
    </ul>
  </div>
</div>
<h3>{{.Title}}</h3>
<table>
  <thead><tr><th>Date</th><th>Weight</th><th>Workout Adherence</th><th>Hydration</th></tr></thead>
  <tbody>
{{- range .Rows}}
    <tr><td>{{.Date}}</td><td>{{.Weight}}</td><td>{{.Workout}}% Completed</td><td>{{.Water}} ml</td></tr>
{{- else}}
    <tr><td colspan="4">No data recorded for this period.</td></tr>
{{- end}}
  </tbody>
</table>
<footer>Generated by FitTrack - Your AI Fitness Companion</footer>
</body>
</html>
`))

// Render produces the HTML report.
func Render(in Input) ([]byte, error) {
	p := in.Profile
	if p == nil {
		p = &domain.Profile{}
	}
	u := p.DisplayUnits()
	label := units.WeightLabel(u)

	v := view{
		Title:       Title(in.Range),
		Name:        p.Name,
		GeneratedOn: in.GeneratedAt.Format("January 2, 2006"),
		Age:         p.Age,
		Height:      units.ToDisplayHeight(p.Height, u).Text,
		Weight:      fmt.Sprintf("%g %s", units.ToDisplayWeight(p.Weight, u), label),
		Goal:        p.Goal,
		DietType:    p.DietType,
		Equipment:   p.Equipment,
		Injuries:    p.Injuries,
	}
	if in.Plan != nil {
		v.WeeklySummary = in.Plan.WeeklySummary
	}
	for _, r := range in.Rows {
		v.Rows = append(v.Rows, row{
			Date:    r.Date,
			Weight:  fmt.Sprintf("%g %s", r.DisplayWeight, label),
			Workout: r.WorkoutPct,
			Water:   r.Water,
		})
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}
