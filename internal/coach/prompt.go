package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"fittrack/fitness-app/internal/domain"
)

// chatContextEntries is how many trailing transcript entries accompany a chat message.
const chatContextEntries = 5

const planSchema = `{
  "weeklySummary": "motivational summary of the plan",
  "days": [
    {
      "dayName": "Monday",
      "focus": "main focus, e.g. Upper Body, Cardio",
      "workout": {
        "durationMinutes": 45,
        "exercises": [
          {
            "name": "Push-up",
            "sets": "3",
            "reps": "12",
            "tips": "form cue or safety tip",
            "variations": [
              {"name": "Knee push-up", "difficulty": "Easier"},
              {"name": "Decline push-up", "difficulty": "Harder"}
            ]
          }
        ]
      },
      "diet": {
        "totalCalories": 2100,
        "meals": [
          {
            "type": "Breakfast",
            "name": "Oats with berries",
            "calories": 450,
            "recipeStub": "brief description",
            "ingredients": ["60 g rolled oats"],
            "instructions": ["Simmer the oats for 5 minutes"]
          }
        ]
      }
    }
  ]
}`

// BuildPlanPrompt renders the profile into the weekly plan request.
func BuildPlanPrompt(p *domain.Profile) string {
	restrictions := "None"
	if r := domain.NormalizeRestrictions(p.Restrictions); len(r) > 0 {
		restrictions = strings.Join(r, ", ")
	}

	var sb strings.Builder
	sb.WriteString("Create a 7-day fitness and diet plan for a user with the following profile:\n")
	fmt.Fprintf(&sb, "- Age: %d\n", p.Age)
	fmt.Fprintf(&sb, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&sb, "- Height: %gcm\n", p.Height)
	fmt.Fprintf(&sb, "- Weight: %gkg\n", p.Weight)
	fmt.Fprintf(&sb, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(&sb, "- Activity Level: %s\n", p.ActivityLevel)
	fmt.Fprintf(&sb, "- Diet Type: %s\n", p.DietType)
	fmt.Fprintf(&sb, "- Dietary Restrictions: %s\n", restrictions)
	fmt.Fprintf(&sb, "- Specific Dietary Preferences/Dislikes: %s\n", p.DietaryPreferences)
	fmt.Fprintf(&sb, "- Injuries/Conditions: %s\n", p.Injuries)
	fmt.Fprintf(&sb, "- Allergies: %s\n", p.Allergies)
	fmt.Fprintf(&sb, "- Available Equipment: %s\n\n", p.Equipment)

	fmt.Fprintf(&sb, "The diet plan MUST STRICTLY follow the %q requirement and avoid any items in \"Dietary Restrictions\" or \"Allergies\".\n", p.DietType)
	sb.WriteString("For every meal, provide a list of ingredients and step-by-step cooking instructions.\n")
	sb.WriteString("The workout plan should be safe considering injuries.\n")
	sb.WriteString("For each exercise, provide 2 variations: one that is \"Easier\" (regression) and one that is \"Harder\" (progression).\n")
	sb.WriteString("Return exactly 7 days, Monday first. Meal type is one of Breakfast, Lunch, Dinner, Snack.\n\n")
	sb.WriteString("Return JSON only, no prose and no markdown fences, matching this shape:\n")
	sb.WriteString(planSchema)
	return sb.String()
}

// BuildChatSystemPrompt embeds the profile in the coach persona.
func BuildChatSystemPrompt(p *domain.Profile) string {
	profileJSON, _ := json.Marshal(p)
	return fmt.Sprintf(`You are a supportive, expert fitness coach named FitTrack AI.
You have access to the user's profile: %s.
Answer their questions about their specific workout plan, diet, or general health.
Keep answers concise and encouraging. Use markdown for formatting.`, profileJSON)
}

// BuildChatMessage wraps the new message with the tail of the transcript.
func BuildChatMessage(history []domain.ChatMessage, message string) string {
	tail := history
	if len(tail) > chatContextEntries {
		tail = tail[len(tail)-chatContextEntries:]
	}
	if tail == nil {
		tail = []domain.ChatMessage{}
	}
	historyJSON, _ := json.Marshal(tail)
	return fmt.Sprintf("User asked: %q.\n\nContext (previous conversation): %s", message, historyJSON)
}
