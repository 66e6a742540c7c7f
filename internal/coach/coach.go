// Package coach is the AI collaborator: it turns a profile into a weekly plan
// and answers chat messages through a completion Provider.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"fittrack/fitness-app/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrCollaborator marks any failure of the plan/chat backend: transport
// errors, provider errors and responses that do not match the plan schema.
var ErrCollaborator = errors.New("coach: collaborator failure")

// FallbackReply is returned when the provider answers a chat with no text.
const FallbackReply = "I'm sorry, I couldn't process that."

// Client drives a Provider for plan generation and chat.
type Client struct {
	provider Provider
	validate *validator.Validate
	newID    func() string
	now      func() time.Time
}

// NewClient creates a new Client over provider.
func NewClient(provider Provider) *Client {
	return &Client{
		provider: provider,
		validate: validator.New(),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// GenerateWeeklyPlan asks the provider for a 7-day plan for profile. The
// result carries fresh item IDs and GeneratedAt; it is not persisted here.
func (c *Client) GenerateWeeklyPlan(ctx context.Context, profile *domain.Profile) (*domain.WeeklyPlan, error) {
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", ErrCollaborator)
	}
	resp, err := c.provider.Complete(ctx, &Request{
		UserPrompt:  BuildPlanPrompt(profile),
		JSON:        true,
		Temperature: 0.7,
	})
	if err != nil {
		log.Printf("ERROR: Plan generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}

	plan, err := c.parsePlan(resp.Content)
	if err != nil {
		log.Printf("ERROR: Plan from %s rejected: %v", resp.Model, err)
		return nil, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	plan.GeneratedAt = c.now().UnixMilli()
	log.Printf("INFO: Generated weekly plan via %s", resp.Model)
	return plan, nil
}

// Chat sends message with the last entries of history as context and
// returns the coach's reply.
func (c *Client) Chat(ctx context.Context, history []domain.ChatMessage, message string, profile *domain.Profile) (string, error) {
	resp, err := c.provider.Complete(ctx, &Request{
		SystemPrompt: BuildChatSystemPrompt(profile),
		UserPrompt:   BuildChatMessage(history, message),
	})
	if err != nil {
		log.Printf("ERROR: Coach chat failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return FallbackReply, nil
	}
	return reply, nil
}

// wirePlan mirrors the JSON the provider returns. Numbers are decoded as
// float64 because models freely emit 45 or 45.0.
type wirePlan struct {
	WeeklySummary string    `json:"weeklySummary"`
	Days          []wireDay `json:"days"`
}

type wireDay struct {
	DayName string `json:"dayName"`
	Focus   string `json:"focus"`
	Workout struct {
		DurationMinutes float64           `json:"durationMinutes"`
		Exercises       []domain.Exercise `json:"exercises"`
	} `json:"workout"`
	Diet struct {
		TotalCalories float64    `json:"totalCalories"`
		Meals         []wireMeal `json:"meals"`
	} `json:"diet"`
}

type wireMeal struct {
	Type         domain.MealType `json:"type"`
	Name         string          `json:"name"`
	Calories     float64         `json:"calories"`
	RecipeStub   string          `json:"recipeStub"`
	Ingredients  []string        `json:"ingredients"`
	Instructions []string        `json:"instructions"`
}

// parsePlan strips fences, decodes, converts, assigns IDs and validates.
func (c *Client) parsePlan(raw string) (*domain.WeeklyPlan, error) {
	var w wirePlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return nil, fmt.Errorf("JSON parse failed: %w", err)
	}

	plan := &domain.WeeklyPlan{WeeklySummary: w.WeeklySummary, Days: make([]domain.DailyPlan, 0, len(w.Days))}
	for _, wd := range w.Days {
		day := domain.DailyPlan{
			DayName: wd.DayName,
			Focus:   wd.Focus,
			Workout: domain.WorkoutBlock{DurationMinutes: roundInt(wd.Workout.DurationMinutes), Exercises: wd.Workout.Exercises},
			Diet:    domain.DietBlock{TotalCalories: roundInt(wd.Diet.TotalCalories)},
		}
		for i := range day.Workout.Exercises {
			day.Workout.Exercises[i].ID = c.newID()
		}
		for _, wm := range wd.Diet.Meals {
			day.Diet.Meals = append(day.Diet.Meals, domain.Meal{
				ID:           c.newID(),
				Type:         wm.Type,
				Name:         wm.Name,
				Calories:     roundInt(wm.Calories),
				RecipeStub:   wm.RecipeStub,
				Ingredients:  wm.Ingredients,
				Instructions: wm.Instructions,
			})
		}
		plan.Days = append(plan.Days, day)
	}

	if err := c.validate.Struct(plan); err != nil {
		return nil, fmt.Errorf("plan failed validation: %w", err)
	}
	return plan, nil
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

// stripFences removes leading/trailing markdown code fences (```json ... ``` or ``` ... ```).
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		if idx := strings.LastIndex(s, "\n```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
