package domain

import (
	"time"
)

// UnitSystem is the display unit preference of a user. Storage is always
// metric (kg, cm) regardless of this value.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

type Goal string

const (
	GoalWeightLoss  Goal = "Weight Loss"
	GoalMuscleGain  Goal = "Muscle Gain"
	GoalMaintenance Goal = "Maintenance"
	GoalEndurance   Goal = "Endurance"
	GoalFlexibility Goal = "Flexibility"
)

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "Sedentary"
	ActivityLightlyActive    ActivityLevel = "Lightly Active"
	ActivityModeratelyActive ActivityLevel = "Moderately Active"
	ActivityVeryActive       ActivityLevel = "Very Active"
)

type DietType string

const (
	DietVegan      DietType = "Vegan"
	DietVegetarian DietType = "Vegetarian"
	DietNonVeg     DietType = "Non-Vegetarian"
	DietEggetarian DietType = "Eggetarian"
	DietKeto       DietType = "Keto"
	DietPaleo      DietType = "Paleo"
	DietBalanced   DietType = "Balanced"
	DietOther      DietType = "Other"
)

// Profile holds the physical attributes and preferences collected at onboarding.
type Profile struct {
	Name               string        `bson:"name" json:"name"`
	Age                int           `bson:"age" json:"age"`
	Gender             Gender        `bson:"gender" json:"gender"`
	Height             float64       `bson:"height" json:"height"` // cm
	Weight             float64       `bson:"weight" json:"weight"` // kg
	Units              UnitSystem    `bson:"units" json:"units"`
	Goal               Goal          `bson:"goal" json:"goal"`
	ActivityLevel      ActivityLevel `bson:"activityLevel" json:"activityLevel"`
	DietType           DietType      `bson:"dietType" json:"dietType"`
	Restrictions       []string      `bson:"restrictions" json:"restrictions"`
	DietaryPreferences string        `bson:"dietaryPreferences,omitempty" json:"dietaryPreferences"`
	Injuries           string        `bson:"injuries,omitempty" json:"injuries"`
	Allergies          string        `bson:"allergies,omitempty" json:"allergies"`
	Equipment          string        `bson:"equipment,omitempty" json:"equipment"`
}

// DisplayUnits returns the profile unit system, defaulting to metric.
func (p *Profile) DisplayUnits() UnitSystem {
	if p == nil || p.Units == "" {
		return UnitsMetric
	}
	return p.Units
}

// NormalizeRestrictions drops blanks and duplicates, keeping the first
// occurrence of each label in its original position.
func NormalizeRestrictions(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// SameRestrictions compares two restriction lists as sets.
func SameRestrictions(a, b []string) bool {
	as, bs := NormalizeRestrictions(a), NormalizeRestrictions(b)
	if len(as) != len(bs) {
		return false
	}
	set := make(map[string]struct{}, len(as))
	for _, r := range as {
		set[r] = struct{}{}
	}
	for _, r := range bs {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

// User is a registered account. Profile is nil until onboarding completes.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`    // Unique
	PasswordHash string    `bson:"passwordHash" json:"-"` // Never expose this via JSON
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	Profile      *Profile  `bson:"profile,omitempty" json:"profile,omitempty"`
}

func (u *User) HasProfile() bool {
	return u != nil && u.Profile != nil
}
