package generation

import (
	"fmt"
	"sort"

	"github.com/shotline/shotline-backend/internal/content"
)

// Snapshot fact keys shared between the providers and the baseline.
const (
	FactAvgScore        = "avg_score"
	FactSessionCount    = "session_count"
	FactShotCount       = "shot_count"
	FactCategoryCounts  = "category_counts"
	FactFocusPriorities = "focus_priorities"
	FactSessionAvg      = "session_avg"
	FactPlanFocus       = "plan_focus"
	FactPlanVersionID   = "plan_version_id"
)

const baselinePlanWeeks = 6

// Baseline is the deterministic generator: a pure function of the snapshot
// that always returns schema-valid content. It is the universal fallback and
// has no external dependency.
type Baseline struct{}

func (Baseline) Produce(snap *Snapshot) (map[string]any, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}
	switch snap.Kind {
	case content.KindTrainingPlan:
		return baselineTrainingPlan(snap), nil
	case content.KindSessionNotes:
		return baselineSessionNotes(snap), nil
	default:
		return nil, fmt.Errorf("unknown content kind %q", snap.Kind)
	}
}

func baselineTrainingPlan(snap *Snapshot) map[string]any {
	priorities := factStrings(snap.Facts, FactFocusPriorities)
	priorities = keepAllowedFocus(priorities, snap.Allowed)
	if len(priorities) == 0 {
		priorities = snap.Allowed.FocusCategories
	}
	if len(priorities) == 0 {
		priorities = content.FocusCategories
	}

	avg := factFloat(snap.Facts, FactAvgScore)
	target := avg + 0.3
	if target > 10.9 {
		target = 10.9
	}
	if target <= 0 {
		target = 7.0
	}

	weeks := make([]any, 0, baselinePlanWeeks)
	for i := 0; i < baselinePlanWeeks; i++ {
		focus := priorities[i%len(priorities)]
		weeks = append(weeks, map[string]any{
			"index":          i + 1,
			"focus_category": focus,
			"theme":          fmt.Sprintf("Week %d: %s fundamentals", i+1, focusLabel(focus)),
			"narrative": fmt.Sprintf(
				"Dedicate this week to %s. Start every session with dry-fire repetitions, "+
					"then confirm the feeling with live fire at reduced pace. Log every shot.",
				focusLabel(focus)),
			"drills": []any{
				map[string]any{
					"name":           fmt.Sprintf("Dry-fire %s series", focusLabel(focus)),
					"focus_category": focus,
					"target_metric":  "avg_score",
					"target_value":   target,
				},
				map[string]any{
					"name":           fmt.Sprintf("Live-fire %s confirmation", focusLabel(focus)),
					"focus_category": focus,
					"target_metric":  "group_size",
					"target_value":   50.0,
				},
			},
		})
	}

	return map[string]any{
		"version": "v1",
		"summary": fmt.Sprintf(
			"A %d-week cycle built from %d logged sessions (%d shots, %.1f average). "+
				"Priority order: %s.",
			baselinePlanWeeks,
			factInt(snap.Facts, FactSessionCount),
			factInt(snap.Facts, FactShotCount),
			avg,
			joinFocusLabels(priorities)),
		"weeks": weeks,
	}
}

func baselineSessionNotes(snap *Snapshot) map[string]any {
	counts := factIntMap(snap.Facts, FactCategoryCounts)
	shotCount := factInt(snap.Facts, FactShotCount)
	avg := factFloat(snap.Facts, FactSessionAvg)

	type catCount struct {
		category string
		count    int
	}
	offCenter := make([]catCount, 0, len(counts))
	for cat, n := range counts {
		if cat == "centered" || n == 0 {
			continue
		}
		offCenter = append(offCenter, catCount{category: cat, count: n})
	}
	sort.Slice(offCenter, func(i, j int) bool {
		if offCenter[i].count != offCenter[j].count {
			return offCenter[i].count > offCenter[j].count
		}
		return offCenter[i].category < offCenter[j].category
	})
	if len(offCenter) > 3 {
		offCenter = offCenter[:3]
	}

	observations := make([]any, 0, len(offCenter))
	for _, cc := range offCenter {
		severity := "minor"
		if shotCount > 0 {
			share := float64(cc.count) / float64(shotCount)
			switch {
			case share >= 0.4:
				severity = "major"
			case share >= 0.2:
				severity = "moderate"
			}
		}
		observations = append(observations, map[string]any{
			"category": cc.category,
			"severity": severity,
			"note": fmt.Sprintf("%d of %d shots landed %s; keep an eye on this pattern.",
				cc.count, shotCount, categoryLabel(cc.category)),
		})
	}

	focus := snap.Allowed.FocusCategories
	recommendations := make([]any, 0, 2)
	for i, f := range focus {
		if i >= 2 {
			break
		}
		recommendations = append(recommendations, map[string]any{
			"name":           fmt.Sprintf("%s refresh", focusLabel(f)),
			"focus_category": f,
			"rationale": fmt.Sprintf("Scheduled %s work from the current plan applies directly "+
				"to this session's pattern.", focusLabel(f)),
		})
	}

	return map[string]any{
		"version": "v1",
		"summary": fmt.Sprintf(
			"Session of %d shots with a %.1f average. See observations for the dominant "+
				"pattern and the recommended follow-up drills.",
			shotCount, avg),
		"observations":          observations,
		"drill_recommendations": recommendations,
	}
}

func focusLabel(focus string) string {
	switch focus {
	case "trigger_control":
		return "trigger control"
	case "sight_alignment":
		return "sight alignment"
	case "follow_through":
		return "follow-through"
	default:
		return focus
	}
}

func categoryLabel(category string) string {
	switch category {
	case "high_left":
		return "high and left"
	case "high_right":
		return "high and right"
	case "low_left":
		return "low and left"
	case "low_right":
		return "low and right"
	default:
		return category
	}
}

func joinFocusLabels(focus []string) string {
	out := ""
	for i, f := range focus {
		if i > 0 {
			out += ", "
		}
		out += focusLabel(f)
	}
	if out == "" {
		out = "fundamentals"
	}
	return out
}

func keepAllowedFocus(focus []string, allowed content.AllowedRefs) []string {
	out := make([]string, 0, len(focus))
	for _, f := range focus {
		if allowed.AllowsFocus(f) {
			out = append(out, f)
		}
	}
	return out
}

// ---- fact accessors ----

func factFloat(facts map[string]any, key string) float64 {
	switch v := facts[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func factInt(facts map[string]any, key string) int {
	switch v := facts[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func factStrings(facts map[string]any, key string) []string {
	switch v := facts[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func factIntMap(facts map[string]any, key string) map[string]int {
	switch v := facts[key].(type) {
	case map[string]int:
		return v
	case map[string]any:
		out := make(map[string]int, len(v))
		for k, item := range v {
			switch n := item.(type) {
			case int:
				out[k] = n
			case float64:
				out[k] = int(n)
			}
		}
		return out
	default:
		return nil
	}
}
