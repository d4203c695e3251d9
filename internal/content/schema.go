package content

// Strict json_schema documents sent to the collaborator. Shape mirrors what
// Validate enforces; the validator remains authoritative because the
// collaborator cannot check cross-reference allow-sets.

func SchemaName(kind string) string {
	switch kind {
	case KindTrainingPlan:
		return "training_plan_v1"
	case KindSessionNotes:
		return "session_notes_v1"
	default:
		return ""
	}
}

func Schema(kind string) map[string]any {
	switch kind {
	case KindTrainingPlan:
		return trainingPlanSchemaV1()
	case KindSessionNotes:
		return sessionNotesSchemaV1()
	default:
		return nil
	}
}

func trainingPlanSchemaV1() map[string]any {
	drill := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":           map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
			"focus_category": map[string]any{"type": "string", "enum": FocusCategories},
			"target_metric":  map[string]any{"type": "string", "enum": []string{"avg_score", "group_size", "category_share"}},
			"target_value":   map[string]any{"type": "number"},
		},
		"required":             []string{"name", "focus_category", "target_metric", "target_value"},
		"additionalProperties": false,
	}
	week := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"index":          map[string]any{"type": "integer", "minimum": 1, "maximum": 16},
			"focus_category": map[string]any{"type": "string", "enum": FocusCategories},
			"theme":          map[string]any{"type": "string", "minLength": 1, "maxLength": 200},
			"narrative":      map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
			"drills":         map[string]any{"type": "array", "items": drill, "minItems": 1, "maxItems": 6},
		},
		"required":             []string{"index", "focus_category", "theme", "narrative", "drills"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version": map[string]any{"type": "string", "enum": []string{"v1"}},
			"summary": map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
			"weeks":   map[string]any{"type": "array", "items": week, "minItems": 1, "maxItems": 16},
		},
		"required":             []string{"version", "summary", "weeks"},
		"additionalProperties": false,
	}
}

func sessionNotesSchemaV1() map[string]any {
	observation := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category": map[string]any{"type": "string", "enum": ShotCategories},
			"severity": map[string]any{"type": "string", "enum": []string{"minor", "moderate", "major"}},
			"note":     map[string]any{"type": "string", "minLength": 1, "maxLength": 600},
		},
		"required":             []string{"category", "severity", "note"},
		"additionalProperties": false,
	}
	recommendation := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":           map[string]any{"type": "string", "minLength": 1, "maxLength": 120},
			"focus_category": map[string]any{"type": "string", "enum": FocusCategories},
			"rationale":      map[string]any{"type": "string", "minLength": 1, "maxLength": 600},
		},
		"required":             []string{"name", "focus_category", "rationale"},
		"additionalProperties": false,
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"version":               map[string]any{"type": "string", "enum": []string{"v1"}},
			"summary":               map[string]any{"type": "string", "minLength": 1, "maxLength": 2000},
			"observations":          map[string]any{"type": "array", "items": observation, "minItems": 0, "maxItems": 12},
			"drill_recommendations": map[string]any{"type": "array", "items": recommendation, "minItems": 1, "maxItems": 6},
		},
		"required":             []string{"version", "summary", "observations", "drill_recommendations"},
		"additionalProperties": false,
	}
}
