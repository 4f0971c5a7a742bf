package plan

import (
	"encoding/json"
	"strconv"
)

// Normalize reconciles any historical plan shape into the canonical Plan.
// It is total: invalid JSON or an unrecognizable shape yields a Plan with
// nil sections, never an error. The same routine serves both freshly
// generated plans and plans loaded from storage; the two paths diverging is
// exactly what caused the display bugs this replaces.
//
// Known variants:
//
//	current:  {workout, diet, tips}
//	v1:       {workout, dietPlan, aiTips}
//	very old: {workout: {..., dietPlan, tips|aiTips}}
//	bare:     a workout object with no workout/diet/tips wrapper keys
func Normalize(raw json.RawMessage) *Plan {
	var value map[string]interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return &Plan{}
	}
	return NormalizeValue(value)
}

// NormalizeRecord unwraps a persisted record's plan_data envelope when
// present, then normalizes.
func NormalizeRecord(raw json.RawMessage) *Plan {
	var value map[string]interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return &Plan{}
	}
	if inner := asMap(value["plan_data"]); inner != nil {
		value = inner
	}
	return NormalizeValue(value)
}

// NormalizeValue normalizes an already-decoded plan value.
func NormalizeValue(value map[string]interface{}) *Plan {
	if value == nil {
		return &Plan{}
	}

	workoutMap := asMap(value["workout"])

	_, hasWorkout := value["workout"]
	_, hasDiet := value["diet"]
	_, hasTips := value["tips"]

	// Bare workout object: the whole value IS the workout plan.
	if workoutMap == nil && !hasWorkout && !hasDiet && !hasTips {
		workoutMap = value
	}

	// Diet precedence: diet > dietPlan > workout.diet > workout.dietPlan
	dietMap := firstMap(
		value["diet"],
		value["dietPlan"],
		lookup(workoutMap, "diet"),
		lookup(workoutMap, "dietPlan"),
	)

	// Tips precedence: tips > aiTips > workout.tips > workout.aiTips
	tips := firstTips(
		value["tips"],
		value["aiTips"],
		lookup(workoutMap, "tips"),
		lookup(workoutMap, "aiTips"),
	)

	return &Plan{
		Workout:    convertWorkout(workoutMap),
		Diet:       convertDiet(dietMap),
		Tips:       tips,
		Motivation: asString(value["motivation"]),
	}
}

func convertWorkout(m map[string]interface{}) *WorkoutPlan {
	if m == nil {
		return nil
	}
	wp := &WorkoutPlan{}
	for _, rv := range asSlice(m["dailyRoutines"]) {
		rm := asMap(rv)
		if rm == nil {
			continue
		}
		routine := DailyRoutine{Day: asString(rm["day"])}
		for _, ev := range asSlice(rm["exercises"]) {
			em := asMap(ev)
			if em == nil {
				continue
			}
			routine.Exercises = append(routine.Exercises, Exercise{
				Name:        asString(em["name"]),
				Sets:        asInt(em["sets"]),
				Reps:        asString(em["reps"]),
				Rest:        asString(em["rest"]),
				Description: asString(em["description"]),
			})
		}
		wp.DailyRoutines = append(wp.DailyRoutines, routine)
	}
	return wp
}

func convertDiet(m map[string]interface{}) *DietPlan {
	if m == nil {
		return nil
	}
	dp := &DietPlan{}
	for _, mv := range asSlice(m["meals"]) {
		mm := asMap(mv)
		if mm == nil {
			continue
		}
		name := asString(mm["meal"])
		if name == "" {
			// legacy field
			name = asString(mm["type"])
		}
		meal := Meal{Meal: name}
		for _, fv := range asSlice(mm["foods"]) {
			fm := asMap(fv)
			if fm == nil {
				continue
			}
			meal.Foods = append(meal.Foods, Food{
				Name:        asString(fm["name"]),
				Portion:     asString(fm["portion"]),
				Calories:    asInt(fm["calories"]),
				Description: asString(fm["description"]),
			})
		}
		dp.Meals = append(dp.Meals, meal)
	}
	return dp
}

func firstMap(candidates ...interface{}) map[string]interface{} {
	for _, c := range candidates {
		if m := asMap(c); m != nil {
			return m
		}
	}
	return nil
}

func firstTips(candidates ...interface{}) []string {
	for _, c := range candidates {
		if tips := asStringSlice(c); tips != nil {
			return tips
		}
	}
	return nil
}

func lookup(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

func asStringSlice(v interface{}) []string {
	raw := asSlice(v)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := asString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asString coerces model output that is nominally a string but sometimes
// arrives as a number (e.g. reps or portion).
func asString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// asInt coerces model output that is nominally a number but sometimes
// arrives as a string.
func asInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
