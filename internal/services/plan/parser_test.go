package plan

import (
	"errors"
	"testing"
)

func TestParsePlanResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{
			name: "pure json",
			raw:  currentShape,
		},
		{
			name: "json fenced",
			raw:  "```json\n" + currentShape + "\n```",
		},
		{
			name: "prose around the object",
			raw:  "Here is your personalized plan:\n" + currentShape + "\nEnjoy!",
		},
		{
			name:    "no json at all",
			raw:     "Sorry, I cannot help with that.",
			wantErr: ErrParse,
		},
		{
			name:    "truncated json",
			raw:     `{"workout": {"dailyRoutines": [`,
			wantErr: ErrParse,
		},
		{
			name:    "missing diet",
			raw:     `{"workout": {"dailyRoutines": []}, "tips": []}`,
			wantErr: ErrInvalidShape,
		},
		{
			name:    "missing workout",
			raw:     `{"diet": {"meals": []}, "tips": []}`,
			wantErr: ErrInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePlanResponse(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertCanonical(t, p)
		})
	}
}

func TestParseOrFallback_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		`{"unexpected": true}`,
		"```json\nstill not json\n```",
	}
	for _, raw := range inputs {
		p := ParseOrFallback(raw)
		if p == nil {
			t.Fatalf("ParseOrFallback returned nil for %q", raw)
		}
		if p.Workout == nil || p.Diet == nil || len(p.Tips) == 0 {
			t.Errorf("fallback plan missing sections for %q: %+v", raw, p)
		}
	}
}

func TestParseOrFallback_ValidResponsePassesThrough(t *testing.T) {
	p := ParseOrFallback(currentShape)
	assertCanonical(t, p)
	if p.Workout.DailyRoutines[0].Exercises[0].Name == "Push-ups" {
		t.Error("a valid response must not be replaced by the fallback plan")
	}
}
