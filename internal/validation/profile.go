// Package validation checks incoming user profiles before they reach the
// generation pipeline.
package validation

import (
	"fmt"
	"strings"

	"github.com/planfit/iris/internal/services/plan"
)

// ProfileValidationResult contains the outcome of profile validation
type ProfileValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Reason  string   `json:"reason"`
	Missing []string `json:"missing"`
}

var knownFitnessLevels = []string{"beginner", "intermediate", "advanced"}

// ValidateProfile checks that a profile carries the fields the prompt builder
// requires. Name, age and goal are mandatory; the rest have prompt-side
// defaults. Out-of-range ages are rejected rather than silently forwarded to
// the provider.
func ValidateProfile(p plan.UserProfile) ProfileValidationResult {
	var missing []string

	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if p.Age == 0 {
		missing = append(missing, "age")
	}
	if strings.TrimSpace(p.Goal) == "" {
		missing = append(missing, "goal")
	}

	if len(missing) > 0 {
		return ProfileValidationResult{
			IsValid: false,
			Reason:  fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			Missing: missing,
		}
	}

	if p.Age < 10 || p.Age > 120 {
		return ProfileValidationResult{
			IsValid: false,
			Reason:  fmt.Sprintf("Age %d is out of the supported range (10-120)", p.Age),
			Missing: []string{},
		}
	}

	if p.Height < 0 || p.Weight < 0 {
		return ProfileValidationResult{
			IsValid: false,
			Reason:  "Height and weight cannot be negative",
			Missing: []string{},
		}
	}

	if p.FitnessLevel != "" && !isKnownLevel(p.FitnessLevel) {
		return ProfileValidationResult{
			IsValid: false,
			Reason:  fmt.Sprintf("Unknown fitness level %q, expected one of: %s", p.FitnessLevel, strings.Join(knownFitnessLevels, ", ")),
			Missing: []string{},
		}
	}

	return ProfileValidationResult{
		IsValid: true,
		Reason:  "Profile passed validation",
		Missing: []string{},
	}
}

func isKnownLevel(level string) bool {
	for _, known := range knownFitnessLevels {
		if strings.EqualFold(level, known) {
			return true
		}
	}
	return false
}
