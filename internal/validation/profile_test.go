package validation

import (
	"strings"
	"testing"

	"github.com/planfit/iris/internal/services/plan"
)

func validProfile() plan.UserProfile {
	return plan.UserProfile{
		Name:   "Alex",
		Age:    29,
		Gender: "female",
		Height: 170,
		Weight: 65,
		Goal:   "muscle gain",
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(p *plan.UserProfile)
		wantIsValid bool
		wantMissing []string
	}{
		{
			name:        "valid profile",
			mutate:      func(p *plan.UserProfile) {},
			wantIsValid: true,
		},
		{
			name:        "missing name",
			mutate:      func(p *plan.UserProfile) { p.Name = "  " },
			wantIsValid: false,
			wantMissing: []string{"name"},
		},
		{
			name:        "missing age",
			mutate:      func(p *plan.UserProfile) { p.Age = 0 },
			wantIsValid: false,
			wantMissing: []string{"age"},
		},
		{
			name:        "missing goal",
			mutate:      func(p *plan.UserProfile) { p.Goal = "" },
			wantIsValid: false,
			wantMissing: []string{"goal"},
		},
		{
			name: "all required missing",
			mutate: func(p *plan.UserProfile) {
				p.Name = ""
				p.Age = 0
				p.Goal = ""
			},
			wantIsValid: false,
			wantMissing: []string{"name", "age", "goal"},
		},
		{
			name:        "age out of range",
			mutate:      func(p *plan.UserProfile) { p.Age = 150 },
			wantIsValid: false,
		},
		{
			name:        "negative weight",
			mutate:      func(p *plan.UserProfile) { p.Weight = -5 },
			wantIsValid: false,
		},
		{
			name:        "unknown fitness level",
			mutate:      func(p *plan.UserProfile) { p.FitnessLevel = "olympian" },
			wantIsValid: false,
		},
		{
			name:        "fitness level case insensitive",
			mutate:      func(p *plan.UserProfile) { p.FitnessLevel = "Intermediate" },
			wantIsValid: true,
		},
		{
			name:        "optional fields may be empty",
			mutate:      func(p *plan.UserProfile) { p.Gender = ""; p.Height = 0; p.Weight = 0 },
			wantIsValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := validProfile()
			tt.mutate(&profile)
			result := ValidateProfile(profile)

			if result.IsValid != tt.wantIsValid {
				t.Errorf("IsValid = %v, expected %v (reason: %s)", result.IsValid, tt.wantIsValid, result.Reason)
			}
			for _, field := range tt.wantMissing {
				found := false
				for _, m := range result.Missing {
					if m == field {
						found = true
					}
				}
				if !found {
					t.Errorf("expected %q in missing list, got %v", field, result.Missing)
				}
			}
			if !result.IsValid && result.Reason == "" {
				t.Error("invalid result must carry a reason")
			}
			if len(tt.wantMissing) > 0 && !strings.Contains(result.Reason, tt.wantMissing[0]) {
				t.Errorf("reason should mention missing field, got %q", result.Reason)
			}
		})
	}
}
