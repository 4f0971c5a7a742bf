package plan

import (
	"encoding/json"
	"testing"
)

const currentShape = `{
	"workout": {"dailyRoutines": [{"day": "Monday", "exercises": [
		{"name": "Squats", "sets": 4, "reps": "8-10", "rest": "90 seconds", "description": "Keep your back straight"}
	]}]},
	"diet": {"meals": [{"meal": "Lunch", "foods": [
		{"name": "Chicken breast", "portion": "150g", "calories": 250, "description": "Lean protein"}
	]}]},
	"tips": ["Stay hydrated", "Sleep well"]
}`

func assertCanonical(t *testing.T, p *Plan) {
	t.Helper()
	if p == nil {
		t.Fatal("expected a plan, got nil")
	}
	if p.Workout == nil || len(p.Workout.DailyRoutines) != 1 {
		t.Fatalf("expected one daily routine, got %+v", p.Workout)
	}
	routine := p.Workout.DailyRoutines[0]
	if routine.Day != "Monday" || len(routine.Exercises) != 1 {
		t.Errorf("unexpected routine: %+v", routine)
	}
	ex := routine.Exercises[0]
	if ex.Name != "Squats" || ex.Sets != 4 || ex.Reps != "8-10" {
		t.Errorf("unexpected exercise: %+v", ex)
	}
	if p.Diet == nil || len(p.Diet.Meals) != 1 {
		t.Fatalf("expected one meal, got %+v", p.Diet)
	}
	meal := p.Diet.Meals[0]
	if meal.Meal != "Lunch" || len(meal.Foods) != 1 {
		t.Errorf("unexpected meal: %+v", meal)
	}
	if meal.Foods[0].Calories != 250 {
		t.Errorf("expected 250 calories, got %d", meal.Foods[0].Calories)
	}
	if len(p.Tips) != 2 || p.Tips[0] != "Stay hydrated" {
		t.Errorf("unexpected tips: %v", p.Tips)
	}
}

func TestNormalize_LegacyShapesConverge(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "current shape",
			raw:  currentShape,
		},
		{
			name: "dietPlan and aiTips at top level",
			raw: `{
				"workout": {"dailyRoutines": [{"day": "Monday", "exercises": [
					{"name": "Squats", "sets": 4, "reps": "8-10", "rest": "90 seconds", "description": "Keep your back straight"}
				]}]},
				"dietPlan": {"meals": [{"meal": "Lunch", "foods": [
					{"name": "Chicken breast", "portion": "150g", "calories": 250, "description": "Lean protein"}
				]}]},
				"aiTips": ["Stay hydrated", "Sleep well"]
			}`,
		},
		{
			name: "diet and tips nested under workout",
			raw: `{
				"workout": {
					"dailyRoutines": [{"day": "Monday", "exercises": [
						{"name": "Squats", "sets": 4, "reps": "8-10", "rest": "90 seconds", "description": "Keep your back straight"}
					]}],
					"dietPlan": {"meals": [{"meal": "Lunch", "foods": [
						{"name": "Chicken breast", "portion": "150g", "calories": 250, "description": "Lean protein"}
					]}]},
					"aiTips": ["Stay hydrated", "Sleep well"]
				}
			}`,
		},
		{
			name: "bare workout object",
			raw: `{
				"dailyRoutines": [{"day": "Monday", "exercises": [
					{"name": "Squats", "sets": 4, "reps": "8-10", "rest": "90 seconds", "description": "Keep your back straight"}
				]}],
				"dietPlan": {"meals": [{"meal": "Lunch", "foods": [
					{"name": "Chicken breast", "portion": "150g", "calories": 250, "description": "Lean protein"}
				]}]},
				"aiTips": ["Stay hydrated", "Sleep well"]
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCanonical(t, Normalize(json.RawMessage(tt.raw)))
		})
	}
}

func TestNormalize_Precedence(t *testing.T) {
	raw := `{
		"workout": {"dailyRoutines": [], "tips": ["nested"]},
		"diet": {"meals": [{"meal": "Dinner", "foods": []}]},
		"dietPlan": {"meals": [{"meal": "Ignored", "foods": []}]},
		"tips": ["top"],
		"aiTips": ["legacy"]
	}`
	p := Normalize(json.RawMessage(raw))
	if p.Diet == nil || len(p.Diet.Meals) != 1 || p.Diet.Meals[0].Meal != "Dinner" {
		t.Errorf("diet should win over dietPlan, got %+v", p.Diet)
	}
	if len(p.Tips) != 1 || p.Tips[0] != "top" {
		t.Errorf("tips should win over aiTips, got %v", p.Tips)
	}
}

func TestNormalize_Total(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"null", `null`},
		{"not json", `not json at all`},
		{"wrong types", `{"workout": "yes", "diet": 42, "tips": "nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(json.RawMessage(tt.raw))
			if p == nil {
				t.Fatal("Normalize must never return nil")
			}
		})
	}
}

func TestNormalize_LegacyMealTypeField(t *testing.T) {
	raw := `{
		"workout": {"dailyRoutines": []},
		"diet": {"meals": [{"type": "Breakfast", "foods": []}]},
		"tips": []
	}`
	p := Normalize(json.RawMessage(raw))
	if len(p.Diet.Meals) != 1 || p.Diet.Meals[0].Meal != "Breakfast" {
		t.Errorf("expected legacy type field to map to meal name, got %+v", p.Diet)
	}
}

func TestNormalize_NumericCoercion(t *testing.T) {
	raw := `{
		"workout": {"dailyRoutines": [{"day": "Tuesday", "exercises": [
			{"name": "Plank", "sets": "3", "reps": 12, "rest": 60, "description": ""}
		]}]},
		"diet": {"meals": [{"meal": "Snack", "foods": [
			{"name": "Almonds", "portion": 30, "calories": "180", "description": ""}
		]}]},
		"tips": []
	}`
	p := Normalize(json.RawMessage(raw))
	ex := p.Workout.DailyRoutines[0].Exercises[0]
	if ex.Sets != 3 {
		t.Errorf("expected string sets coerced to 3, got %d", ex.Sets)
	}
	if ex.Reps != "12" {
		t.Errorf("expected numeric reps coerced to \"12\", got %q", ex.Reps)
	}
	food := p.Diet.Meals[0].Foods[0]
	if food.Portion != "30" {
		t.Errorf("expected numeric portion coerced, got %q", food.Portion)
	}
	if food.Calories != 180 {
		t.Errorf("expected string calories coerced to 180, got %d", food.Calories)
	}
}

func TestNormalizeRecord_UnwrapsEnvelope(t *testing.T) {
	raw := `{"plan_data": ` + currentShape + `}`
	assertCanonical(t, NormalizeRecord(json.RawMessage(raw)))

	// A record without the envelope normalizes as-is.
	assertCanonical(t, NormalizeRecord(json.RawMessage(currentShape)))
}
