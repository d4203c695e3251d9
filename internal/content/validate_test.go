package content

import (
	"errors"
	"testing"

	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
)

func validPlan() map[string]any {
	return map[string]any{
		"version": "v1",
		"summary": "A six week cycle focused on trigger control.",
		"weeks": []any{
			map[string]any{
				"index":          1,
				"focus_category": "trigger_control",
				"theme":          "Trigger control fundamentals",
				"narrative":      "Dry fire daily, confirm with live fire.",
				"drills": []any{
					map[string]any{
						"name":           "Dry-fire series",
						"focus_category": "trigger_control",
						"target_metric":  "avg_score",
						"target_value":   8.7,
					},
				},
			},
		},
	}
}

func validNotes() map[string]any {
	return map[string]any{
		"version": "v1",
		"summary": "Sixty shots, 8.4 average, drifting low left.",
		"observations": []any{
			map[string]any{
				"category": "low_left",
				"severity": "moderate",
				"note":     "24 of 60 shots landed low and left.",
			},
		},
		"drill_recommendations": []any{
			map[string]any{
				"name":           "Trigger control refresh",
				"focus_category": "trigger_control",
				"rationale":      "The low-left cluster points at trigger jerk.",
			},
		},
	}
}

func allAllowed() AllowedRefs {
	return AllowedRefs{FocusCategories: FocusCategories}
}

func TestValidateTrainingPlanAccepts(t *testing.T) {
	out, err := Validate(KindTrainingPlan, validPlan(), allAllowed())
	if err != nil {
		t.Fatalf("valid plan rejected: %v", err)
	}
	if out == nil {
		t.Fatal("validated payload is nil")
	}
}

func TestValidateTrainingPlanRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p map[string]any)
	}{
		{"missing summary", func(p map[string]any) { delete(p, "summary") }},
		{"empty summary", func(p map[string]any) { p["summary"] = "   " }},
		{"wrong version", func(p map[string]any) { p["version"] = "v2" }},
		{"unknown top-level key", func(p map[string]any) { p["coach_notes"] = "extra" }},
		{"no weeks", func(p map[string]any) { p["weeks"] = []any{} }},
		{"week not object", func(p map[string]any) { p["weeks"] = []any{"week one"} }},
		{"week index out of range", func(p map[string]any) {
			p["weeks"].([]any)[0].(map[string]any)["index"] = 0
		}},
		{"fractional week index", func(p map[string]any) {
			p["weeks"].([]any)[0].(map[string]any)["index"] = 1.5
		}},
		{"unknown week key", func(p map[string]any) {
			p["weeks"].([]any)[0].(map[string]any)["intensity"] = "high"
		}},
		{"drill missing target_value", func(p map[string]any) {
			week := p["weeks"].([]any)[0].(map[string]any)
			delete(week["drills"].([]any)[0].(map[string]any), "target_value")
		}},
		{"drill bad metric", func(p map[string]any) {
			week := p["weeks"].([]any)[0].(map[string]any)
			week["drills"].([]any)[0].(map[string]any)["target_metric"] = "speed"
		}},
		{"unknown focus category", func(p map[string]any) {
			p["weeks"].([]any)[0].(map[string]any)["focus_category"] = "mindfulness"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlan()
			tc.mutate(p)
			_, err := Validate(KindTrainingPlan, p, allAllowed())
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
				t.Fatalf("expected schema violation, got %v", err)
			}
		})
	}
}

func TestValidateDuplicateWeekIndex(t *testing.T) {
	p := validPlan()
	weeks := p["weeks"].([]any)
	second := map[string]any{
		"index":          1,
		"focus_category": "grip",
		"theme":          "Grip consistency",
		"narrative":      "Same grip pressure every shot.",
		"drills": []any{
			map[string]any{
				"name":           "Grip series",
				"focus_category": "grip",
				"target_metric":  "group_size",
				"target_value":   45,
			},
		},
	}
	p["weeks"] = append(weeks, second)

	_, err := Validate(KindTrainingPlan, p, allAllowed())
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("duplicate week index should be rejected, got %v", err)
	}
}

func TestValidatePlanFocusRestrictedByAllowSet(t *testing.T) {
	// "trigger_control" is a real focus category, but the caller's allow-set
	// does not include it: the reference must be rejected.
	restricted := AllowedRefs{FocusCategories: []string{"grip", "stance"}}
	_, err := Validate(KindTrainingPlan, validPlan(), restricted)
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("expected allow-set rejection, got %v", err)
	}

	var sv *SchemaViolation
	if !errors.As(err, &sv) {
		t.Fatalf("expected *SchemaViolation, got %T", err)
	}
	if sv.Field == "" {
		t.Fatal("violation should name the offending field")
	}
}

func TestValidateSessionNotesAccepts(t *testing.T) {
	if _, err := Validate(KindSessionNotes, validNotes(), allAllowed()); err != nil {
		t.Fatalf("valid notes rejected: %v", err)
	}
}

func TestValidateSessionNotesEmptyObservationsAllowed(t *testing.T) {
	n := validNotes()
	n["observations"] = []any{}
	if _, err := Validate(KindSessionNotes, n, allAllowed()); err != nil {
		t.Fatalf("empty observations should be valid: %v", err)
	}
}

func TestValidateSessionNotesRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(n map[string]any)
	}{
		{"no recommendations", func(n map[string]any) { n["drill_recommendations"] = []any{} }},
		{"bad observation category", func(n map[string]any) {
			n["observations"].([]any)[0].(map[string]any)["category"] = "sideways"
		}},
		{"bad severity", func(n map[string]any) {
			n["observations"].([]any)[0].(map[string]any)["severity"] = "catastrophic"
		}},
		{"recommendation outside allow-set", func(n map[string]any) {
			n["drill_recommendations"].([]any)[0].(map[string]any)["focus_category"] = "breathing"
		}},
		{"unknown recommendation key", func(n map[string]any) {
			n["drill_recommendations"].([]any)[0].(map[string]any)["reps"] = 10
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := validNotes()
			tc.mutate(n)
			allowed := AllowedRefs{FocusCategories: []string{"trigger_control"}}
			_, err := Validate(KindSessionNotes, n, allowed)
			if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
				t.Fatalf("expected schema violation, got %v", err)
			}
		})
	}
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate("poetry", map[string]any{}, allAllowed())
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("unknown kind should be a violation, got %v", err)
	}
}

func TestValidateNilPayload(t *testing.T) {
	_, err := Validate(KindTrainingPlan, nil, allAllowed())
	if !errors.Is(err, pkgerrors.ErrSchemaViolation) {
		t.Fatalf("nil payload should be a violation, got %v", err)
	}
}
