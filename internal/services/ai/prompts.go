package ai

import (
	"fmt"
	"strings"

	"github.com/planfit/iris/internal/services/plan"
)

const planRoleSection = `You are an expert fitness coach and nutritionist. Generate a comprehensive, personalized fitness and diet plan for the following user:`

const planSchemaSection = `IMPORTANT: Generate the plan in valid JSON format ONLY with the following exact structure (no markdown, no code blocks, just pure JSON):

{
  "workout": {
    "dailyRoutines": [
      {
        "day": "Monday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions on how to perform this exercise safely and effectively"
          }
        ]
      },
      {
        "day": "Tuesday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions"
          }
        ]
      },
      {
        "day": "Wednesday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions"
          }
        ]
      },
      {
        "day": "Thursday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions"
          }
        ]
      },
      {
        "day": "Friday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions"
          }
        ]
      },
      {
        "day": "Saturday",
        "exercises": [
          {
            "name": "Exercise Name",
            "sets": 3,
            "reps": "10-12",
            "rest": "60 seconds",
            "description": "Detailed instructions"
          }
        ]
      },
      {
        "day": "Sunday",
        "exercises": [
          {
            "name": "Rest or Light Activity",
            "sets": 0,
            "reps": "N/A",
            "rest": "Full day",
            "description": "Rest day or active recovery"
          }
        ]
      }
    ]
  },
  "diet": {
    "meals": [
      {
        "meal": "Breakfast",
        "foods": [
          {
            "name": "Food Name",
            "portion": "200g",
            "calories": 300,
            "description": "Nutritional benefits and preparation tips"
          }
        ]
      },
      {
        "meal": "Lunch",
        "foods": [
          {
            "name": "Food Name",
            "portion": "250g",
            "calories": 450,
            "description": "Nutritional benefits and preparation tips"
          }
        ]
      },
      {
        "meal": "Dinner",
        "foods": [
          {
            "name": "Food Name",
            "portion": "200g",
            "calories": 400,
            "description": "Nutritional benefits and preparation tips"
          }
        ]
      },
      {
        "meal": "Snacks",
        "foods": [
          {
            "name": "Food Name",
            "portion": "100g",
            "calories": 150,
            "description": "Healthy snack options"
          }
        ]
      }
    ]
  },
  "tips": [
    "Practical lifestyle tip relevant to the user",
    "Posture or form tip for exercises",
    "Nutrition or meal timing tip",
    "Recovery or sleep tip"
  ],
  "motivation": "Personalized motivational message encouraging the user to stay consistent with their fitness journey"
}`

const planGuidelinesSection = `Be specific, realistic, and highly personalized. Ensure:
- Exercises match the user's fitness level, goal, and location constraints
- Diet matches dietary preferences and supports the fitness goal
- All exercises are safe for the user's age and medical considerations
- Provide at least 3-4 exercises per workout day
- Provide varied and nutritious meals for all meal types

Return ONLY the JSON object, no other text.`

const motivationPrompt = `Generate a short, inspiring motivational fitness quote (1-2 sentences max). Make it encouraging, positive, and relevant to fitness goals. Return only the quote text, no additional formatting, no quotes around it.`

// BuildMotivationPrompt asks for a single short motivational quote with no
// surrounding formatting.
func BuildMotivationPrompt() string {
	return motivationPrompt
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// BuildPlanPrompt builds the plan generation prompt for a user profile.
// Deterministic given its input; optional profile fields fall back to
// sensible defaults rather than being omitted.
func BuildPlanPrompt(profile plan.UserProfile) string {
	var sb strings.Builder
	sb.WriteString(planRoleSection)
	sb.WriteString("\n\nUser Details:\n")
	fmt.Fprintf(&sb, "- Name: %s\n", profile.Name)
	fmt.Fprintf(&sb, "- Age: %d\n", profile.Age)
	fmt.Fprintf(&sb, "- Gender: %s\n", profile.Gender)
	fmt.Fprintf(&sb, "- Height: %g cm\n", profile.Height)
	fmt.Fprintf(&sb, "- Weight: %g kg\n", profile.Weight)
	fmt.Fprintf(&sb, "- Fitness Goal: %s\n", profile.Goal)
	fmt.Fprintf(&sb, "- Fitness Level: %s\n", orDefault(profile.FitnessLevel, "Beginner"))
	fmt.Fprintf(&sb, "- Workout Location: %s\n", orDefault(profile.Location, "Home"))
	fmt.Fprintf(&sb, "- Dietary Preferences: %s\n", orDefault(profile.Dietary, "Balanced"))
	if profile.MedicalHistory != "" {
		fmt.Fprintf(&sb, "- Medical History: %s\n", profile.MedicalHistory)
	}
	if profile.StressLevel != "" {
		fmt.Fprintf(&sb, "- Stress Level: %s\n", profile.StressLevel)
	}
	sb.WriteString("\n")
	sb.WriteString(planSchemaSection)
	sb.WriteString("\n\n")
	sb.WriteString(planGuidelinesSection)
	return sb.String()
}

// BuildImagePrompt decorates an item name with category-specific styling
// keywords for an image generation backend.
func BuildImagePrompt(name, category string) string {
	if strings.EqualFold(category, "food") {
		return fmt.Sprintf("delicious %s, food photography, professional lighting, high quality, appetizing, detailed, 4k", name)
	}
	return fmt.Sprintf("realistic gym exercise, %s, professional photography, well-lit, high quality, detailed, 4k", name)
}
