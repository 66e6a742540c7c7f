// Package units converts between canonical storage units (kg, cm) and the
// user's display unit system.
package units

import (
	"fmt"
	"math"

	"fittrack/fitness-app/internal/domain"
)

const (
	lbsPerKg    = 2.20462
	inchesPerCm = 0.393700787
)

// ToDisplayWeight converts kilograms for display. Imperial values are rounded
// to whole pounds; metric values are returned as stored.
func ToDisplayWeight(kg float64, u domain.UnitSystem) float64 {
	if u == domain.UnitsImperial {
		return math.Round(kg * lbsPerKg)
	}
	return kg
}

// FromDisplayWeight is the inverse of ToDisplayWeight. It does not round;
// callers apply RoundStorage before persisting.
func FromDisplayWeight(v float64, u domain.UnitSystem) float64 {
	if u == domain.UnitsImperial {
		return v / lbsPerKg
	}
	return v
}

// RoundStorage rounds to the 2-decimal precision used for stored measurements.
func RoundStorage(v float64) float64 {
	return math.Round(v*100) / 100
}

// Height is a display rendering of a height. Val is always centimeters.
type Height struct {
	Text string  `json:"text"`
	Val  float64 `json:"val"`
}

func ToDisplayHeight(cm float64, u domain.UnitSystem) Height {
	if u != domain.UnitsImperial {
		return Height{Text: fmt.Sprintf("%s cm", formatNumber(cm)), Val: cm}
	}
	totalInches := cm * inchesPerCm
	feet := math.Floor(totalInches / 12)
	inches := math.Round(totalInches - feet*12)
	if inches == 12 {
		feet++
		inches = 0
	}
	return Height{Text: fmt.Sprintf("%d' %d\"", int(feet), int(inches)), Val: cm}
}

// HeightFromDisplay converts feet and inches to centimeters, rounded for storage.
func HeightFromDisplay(feet, inches float64) float64 {
	return RoundStorage((feet*12 + inches) / inchesPerCm)
}

func WeightLabel(u domain.UnitSystem) string {
	if u == domain.UnitsImperial {
		return "lbs"
	}
	return "kg"
}

// formatNumber prints whole numbers without a fractional part.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
