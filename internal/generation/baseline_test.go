package generation

import (
	"testing"

	"github.com/google/uuid"

	"github.com/shotline/shotline-backend/internal/content"
)

func planSnapshot() *Snapshot {
	return &Snapshot{
		Kind:      content.KindTrainingPlan,
		SubjectID: uuid.New(),
		ThreadID:  "plan:test",
		Facts: map[string]any{
			FactAvgScore:        8.4,
			FactSessionCount:    3,
			FactShotCount:       60,
			FactFocusPriorities: []string{"trigger_control", "grip"},
		},
		Allowed: content.AllowedRefs{FocusCategories: content.FocusCategories},
	}
}

func notesSnapshot() *Snapshot {
	return &Snapshot{
		Kind:      content.KindSessionNotes,
		SubjectID: uuid.New(),
		ThreadID:  "session:test",
		Facts: map[string]any{
			FactShotCount:  20,
			FactSessionAvg: 8.1,
			FactCategoryCounts: map[string]int{
				"centered": 8,
				"low_left": 9,
				"high":     3,
			},
			FactPlanVersionID: uuid.New().String(),
		},
		Allowed: content.AllowedRefs{FocusCategories: []string{"trigger_control", "follow_through"}},
	}
}

func TestBaselinePlanIsSchemaValid(t *testing.T) {
	snap := planSnapshot()
	out, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline plan: %v", err)
	}
	if _, err := content.Validate(content.KindTrainingPlan, out, snap.Allowed); err != nil {
		t.Fatalf("baseline plan failed validation: %v", err)
	}
}

func TestBaselinePlanDeterministic(t *testing.T) {
	snap := planSnapshot()
	a, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	b, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	if a["summary"] != b["summary"] {
		t.Fatal("baseline is not deterministic")
	}
	if len(a["weeks"].([]any)) != len(b["weeks"].([]any)) {
		t.Fatal("baseline week count varies")
	}
}

func TestBaselinePlanRotatesPriorities(t *testing.T) {
	snap := planSnapshot()
	out, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	weeks := out["weeks"].([]any)
	first := weeks[0].(map[string]any)["focus_category"]
	second := weeks[1].(map[string]any)["focus_category"]
	if first != "trigger_control" || second != "grip" {
		t.Fatalf("expected priority rotation, got %v then %v", first, second)
	}
}

func TestBaselinePlanWithoutPrioritiesUsesAllowed(t *testing.T) {
	snap := planSnapshot()
	delete(snap.Facts, FactFocusPriorities)
	out, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	if _, err := content.Validate(content.KindTrainingPlan, out, snap.Allowed); err != nil {
		t.Fatalf("baseline plan failed validation: %v", err)
	}
}

func TestBaselineNotesIsSchemaValid(t *testing.T) {
	snap := notesSnapshot()
	out, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline notes: %v", err)
	}
	if _, err := content.Validate(content.KindSessionNotes, out, snap.Allowed); err != nil {
		t.Fatalf("baseline notes failed validation: %v", err)
	}
}

func TestBaselineNotesSeverity(t *testing.T) {
	snap := notesSnapshot()
	out, err := Baseline{}.Produce(snap)
	if err != nil {
		t.Fatalf("baseline notes: %v", err)
	}

	observations := out["observations"].([]any)
	if len(observations) == 0 {
		t.Fatal("expected observations for off-center categories")
	}
	// low_left is 9 of 20 shots (45%): major.
	first := observations[0].(map[string]any)
	if first["category"] != "low_left" {
		t.Fatalf("dominant category should come first, got %v", first["category"])
	}
	if first["severity"] != "major" {
		t.Fatalf("45%% share should be major, got %v", first["severity"])
	}
}

func TestBaselineUnknownKind(t *testing.T) {
	snap := planSnapshot()
	snap.Kind = "poetry"
	if _, err := (Baseline{}).Produce(snap); err == nil {
		t.Fatal("unknown kind should error")
	}
}
