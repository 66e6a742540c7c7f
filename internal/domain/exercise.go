// internal/domain/exercise.go
package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Difficulty tags a variation relative to its base exercise.
type Difficulty string

const (
	DifficultyEasier Difficulty = "Easier"
	DifficultyHarder Difficulty = "Harder"
)

type Variation struct {
	Name       string     `bson:"name" json:"name" validate:"required"`
	Difficulty Difficulty `bson:"difficulty" json:"difficulty" validate:"oneof=Easier Harder"`
}

// Exercise is one entry of a daily workout block.
type Exercise struct {
	// ID is assigned when the plan is generated and never changes afterwards.
	// Plans stored before IDs existed have it empty.
	ID         string      `bson:"id,omitempty" json:"id,omitempty"`
	Name       string      `bson:"name" json:"name" validate:"required"`
	Sets       string      `bson:"sets" json:"sets"`
	Reps       string      `bson:"reps" json:"reps"`
	Tips       string      `bson:"tips" json:"tips"`
	Variations []Variation `bson:"variations,omitempty" json:"variations,omitempty" validate:"dive"`
}

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

// Meal is one entry of a daily diet block.
type Meal struct {
	ID           string   `bson:"id,omitempty" json:"id,omitempty"`
	Type         MealType `bson:"type" json:"type" validate:"oneof=Breakfast Lunch Dinner Snack"`
	Name         string   `bson:"name" json:"name" validate:"required"`
	Calories     int      `bson:"calories" json:"calories" validate:"gte=0"`
	RecipeStub   string   `bson:"recipeStub" json:"recipeStub"`
	Ingredients  []string `bson:"ingredients" json:"ingredients"`
	Instructions []string `bson:"instructions" json:"instructions"`
}

// Detail key prefixes used in ProgressLog.Details.
const (
	ExerciseKeyPrefix = "exercise-"
	MealKeyPrefix     = "meal-"
)

// ExerciseKey returns the detail key tracking completion of the exercise at
// position idx. The stable ID is preferred; the position is the fallback for
// legacy plans.
func ExerciseKey(idx int, ex Exercise) string {
	return ExerciseKeyPrefix + itemRef(idx, ex.ID)
}

// MealKey is the meal counterpart of ExerciseKey.
func MealKey(idx int, m Meal) string {
	return MealKeyPrefix + itemRef(idx, m.ID)
}

func itemRef(idx int, id string) string {
	if id != "" {
		return id
	}
	return strconv.Itoa(idx)
}

// IsDetailKey reports whether key has a known item prefix and a non-empty reference.
func IsDetailKey(key string) bool {
	for _, p := range []string{ExerciseKeyPrefix, MealKeyPrefix} {
		if strings.HasPrefix(key, p) && len(key) > len(p) {
			return true
		}
	}
	return false
}

// ParseLegacyKey extracts the positional index from a key like "exercise-3".
func ParseLegacyKey(key string) (kind string, idx int, err error) {
	for _, p := range []string{ExerciseKeyPrefix, MealKeyPrefix} {
		if strings.HasPrefix(key, p) {
			idx, err = strconv.Atoi(key[len(p):])
			if err != nil {
				return "", 0, fmt.Errorf("detail key %q is not positional: %w", key, err)
			}
			return strings.TrimSuffix(p, "-"), idx, nil
		}
	}
	return "", 0, fmt.Errorf("unknown detail key %q", key)
}

// VideoSearchLink points at form demonstrations for an exercise or variation.
func VideoSearchLink(name string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(name+" exercise form")
}

// RecipeSearchLink points at recipes for a meal.
func RecipeSearchLink(name string) string {
	return "https://www.google.com/search?q=" + url.QueryEscape(name+" recipe")
}
