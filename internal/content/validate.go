package content

import (
	"fmt"
	"strings"
)

// Validate checks a candidate payload against its kind's shape and the
// caller-supplied allow-sets. All-or-nothing: the first invalid field rejects
// the whole candidate; out-of-schema values are never coerced or dropped.
func Validate(kind string, payload map[string]any, allowed AllowedRefs) (map[string]any, error) {
	if payload == nil {
		return nil, violation("$", "payload is nil")
	}
	switch kind {
	case KindTrainingPlan:
		if err := validateTrainingPlanV1(payload, allowed); err != nil {
			return nil, err
		}
	case KindSessionNotes:
		if err := validateSessionNotesV1(payload, allowed); err != nil {
			return nil, err
		}
	default:
		return nil, violation("$", fmt.Sprintf("unknown content kind %q", kind))
	}
	return payload, nil
}

func validateTrainingPlanV1(payload map[string]any, allowed AllowedRefs) error {
	if err := requireEnum(payload, "version", []string{"v1"}); err != nil {
		return err
	}
	if err := requireString(payload, "summary", 1, 2000); err != nil {
		return err
	}
	weeks, err := requireArray(payload, "weeks", 1, 16)
	if err != nil {
		return err
	}
	if err := rejectUnknownKeys(payload, "$", []string{"version", "summary", "weeks"}); err != nil {
		return err
	}
	seenIndex := map[int]bool{}
	for i, raw := range weeks {
		field := fmt.Sprintf("weeks[%d]", i)
		week, ok := raw.(map[string]any)
		if !ok {
			return violation(field, "not an object")
		}
		idx, err := requireInt(week, field+".index", 1, 16)
		if err != nil {
			return err
		}
		if seenIndex[idx] {
			return violation(field+".index", "duplicate week index")
		}
		seenIndex[idx] = true
		if err := requireFocusRef(week, field+".focus_category", allowed); err != nil {
			return err
		}
		if err := requireString(week, field+".theme", 1, 200); err != nil {
			return err
		}
		if err := requireString(week, field+".narrative", 1, 2000); err != nil {
			return err
		}
		drills, err := requireArray(week, field+".drills", 1, 6)
		if err != nil {
			return err
		}
		if err := rejectUnknownKeys(week, field, []string{"index", "focus_category", "theme", "narrative", "drills"}); err != nil {
			return err
		}
		for j, rawDrill := range drills {
			dField := fmt.Sprintf("%s.drills[%d]", field, j)
			drill, ok := rawDrill.(map[string]any)
			if !ok {
				return violation(dField, "not an object")
			}
			if err := requireString(drill, dField+".name", 1, 120); err != nil {
				return err
			}
			if err := requireFocusRef(drill, dField+".focus_category", allowed); err != nil {
				return err
			}
			if err := requireEnum(drill, dField+".target_metric", []string{"avg_score", "group_size", "category_share"}); err != nil {
				return err
			}
			if err := requireNumber(drill, dField+".target_value"); err != nil {
				return err
			}
			if err := rejectUnknownKeys(drill, dField, []string{"name", "focus_category", "target_metric", "target_value"}); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSessionNotesV1(payload map[string]any, allowed AllowedRefs) error {
	if err := requireEnum(payload, "version", []string{"v1"}); err != nil {
		return err
	}
	if err := requireString(payload, "summary", 1, 2000); err != nil {
		return err
	}
	observations, err := requireArray(payload, "observations", 0, 12)
	if err != nil {
		return err
	}
	recommendations, err := requireArray(payload, "drill_recommendations", 1, 6)
	if err != nil {
		return err
	}
	if err := rejectUnknownKeys(payload, "$", []string{"version", "summary", "observations", "drill_recommendations"}); err != nil {
		return err
	}
	for i, raw := range observations {
		field := fmt.Sprintf("observations[%d]", i)
		obs, ok := raw.(map[string]any)
		if !ok {
			return violation(field, "not an object")
		}
		if err := requireEnum(obs, field+".category", ShotCategories); err != nil {
			return err
		}
		if err := requireEnum(obs, field+".severity", []string{"minor", "moderate", "major"}); err != nil {
			return err
		}
		if err := requireString(obs, field+".note", 1, 600); err != nil {
			return err
		}
		if err := rejectUnknownKeys(obs, field, []string{"category", "severity", "note"}); err != nil {
			return err
		}
	}
	for i, raw := range recommendations {
		field := fmt.Sprintf("drill_recommendations[%d]", i)
		rec, ok := raw.(map[string]any)
		if !ok {
			return violation(field, "not an object")
		}
		if err := requireString(rec, field+".name", 1, 120); err != nil {
			return err
		}
		if err := requireFocusRef(rec, field+".focus_category", allowed); err != nil {
			return err
		}
		if err := requireString(rec, field+".rationale", 1, 600); err != nil {
			return err
		}
		if err := rejectUnknownKeys(rec, field, []string{"name", "focus_category", "rationale"}); err != nil {
			return err
		}
	}
	return nil
}

// ---- field helpers ----

func fieldKey(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func requireString(obj map[string]any, path string, minLen, maxLen int) error {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return violation(path, "missing required field")
	}
	s, ok := v.(string)
	if !ok {
		return violation(path, "not a string")
	}
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < minLen {
		return violation(path, fmt.Sprintf("shorter than %d characters", minLen))
	}
	if maxLen > 0 && len(s) > maxLen {
		return violation(path, fmt.Sprintf("longer than %d characters", maxLen))
	}
	return nil
}

func requireEnum(obj map[string]any, path string, values []string) error {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return violation(path, "missing required field")
	}
	s, ok := v.(string)
	if !ok {
		return violation(path, "not a string")
	}
	for _, candidate := range values {
		if s == candidate {
			return nil
		}
	}
	return violation(path, fmt.Sprintf("%q not in allowed values", s))
}

func requireFocusRef(obj map[string]any, path string, allowed AllowedRefs) error {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return violation(path, "missing required field")
	}
	s, ok := v.(string)
	if !ok {
		return violation(path, "not a string")
	}
	if !allowed.AllowsFocus(s) {
		return violation(path, fmt.Sprintf("focus category %q not in allowed set", s))
	}
	return nil
}

func requireArray(obj map[string]any, path string, minItems, maxItems int) ([]any, error) {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return nil, violation(path, "missing required field")
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, violation(path, "not an array")
	}
	if len(arr) < minItems {
		return nil, violation(path, fmt.Sprintf("fewer than %d items", minItems))
	}
	if maxItems > 0 && len(arr) > maxItems {
		return nil, violation(path, fmt.Sprintf("more than %d items", maxItems))
	}
	return arr, nil
}

// requireInt accepts float64 (JSON decoding) only when integral.
func requireInt(obj map[string]any, path string, min, max int) (int, error) {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return 0, violation(path, "missing required field")
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case float64:
		if t != float64(int(t)) {
			return 0, violation(path, "not an integer")
		}
		n = int(t)
	default:
		return 0, violation(path, "not an integer")
	}
	if n < min || n > max {
		return 0, violation(path, fmt.Sprintf("out of range [%d, %d]", min, max))
	}
	return n, nil
}

func requireNumber(obj map[string]any, path string) error {
	v, ok := obj[fieldKey(path)]
	if !ok {
		return violation(path, "missing required field")
	}
	switch v.(type) {
	case float64, int:
		return nil
	default:
		return violation(path, "not a number")
	}
}

func rejectUnknownKeys(obj map[string]any, path string, known []string) error {
	for key := range obj {
		found := false
		for _, k := range known {
			if key == k {
				found = true
				break
			}
		}
		if !found {
			return violation(path+"."+key, "unexpected field")
		}
	}
	return nil
}
