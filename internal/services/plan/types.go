package plan

// UserProfile is the fitness profile submitted by the user. Field names
// mirror the client form payload.
type UserProfile struct {
	Name           string  `json:"name"`
	Age            int     `json:"age"`
	Gender         string  `json:"gender"`
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	Goal           string  `json:"goal"`
	FitnessLevel   string  `json:"fitnessLevel,omitempty"`
	Location       string  `json:"location,omitempty"`
	Dietary        string  `json:"dietary,omitempty"`
	StressLevel    string  `json:"stressLevel,omitempty"`
	MedicalHistory string  `json:"medicalHistory,omitempty"`

	// Regenerate is a client-side cache-busting marker. It participates in
	// cache identity but must never reach the generation provider.
	Regenerate int64 `json:"_regenerate,omitempty"`
}

// Sanitized returns a copy of the profile with transient fields stripped,
// suitable for sending to a generation provider or persisting.
func (p UserProfile) Sanitized() UserProfile {
	cp := p
	cp.Regenerate = 0
	return cp
}

// Plan is the canonical plan shape shown to the user. The three sections are
// independently optional; a missing section is nil, never an error.
type Plan struct {
	Workout    *WorkoutPlan `json:"workout"`
	Diet       *DietPlan    `json:"diet"`
	Tips       []string     `json:"tips"`
	Motivation string       `json:"motivation,omitempty"`
}

type WorkoutPlan struct {
	DailyRoutines []DailyRoutine `json:"dailyRoutines"`
}

type DailyRoutine struct {
	Day       string     `json:"day"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	Rest        string `json:"rest"`
	Description string `json:"description"`
}

type DietPlan struct {
	Meals []Meal `json:"meals"`
}

type Meal struct {
	Meal  string `json:"meal"`
	Foods []Food `json:"foods"`
}

type Food struct {
	Name        string `json:"name"`
	Portion     string `json:"portion"`
	Calories    int    `json:"calories"`
	Description string `json:"description"`
}

// FallbackPlan returns the fixed minimal plan substituted when a generation
// response cannot be parsed. The UI must always have something to render.
func FallbackPlan() *Plan {
	return &Plan{
		Workout: &WorkoutPlan{
			DailyRoutines: []DailyRoutine{
				{
					Day: "Monday",
					Exercises: []Exercise{
						{
							Name:        "Push-ups",
							Sets:        3,
							Reps:        "10-15",
							Rest:        "60 seconds",
							Description: "Start in plank position, lower body until chest nearly touches floor, push back up",
						},
					},
				},
			},
		},
		Diet: &DietPlan{
			Meals: []Meal{
				{
					Meal: "Breakfast",
					Foods: []Food{
						{
							Name:        "Oatmeal with fruits",
							Portion:     "200g",
							Calories:    300,
							Description: "High fiber, provides sustained energy",
						},
					},
				},
			},
		},
		Tips: []string{
			"Stay hydrated throughout the day",
			"Get 7-9 hours of sleep for recovery",
			"Warm up before workouts",
		},
		Motivation: "You've got this! Stay consistent and you'll see amazing results. Every small step counts!",
	}
}
