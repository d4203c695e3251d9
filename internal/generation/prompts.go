package generation

import (
	"encoding/json"
	"fmt"

	"github.com/shotline/shotline-backend/internal/content"
)

func systemInstructions(kind string) string {
	switch kind {
	case content.KindTrainingPlan:
		return "You are a professional shooting coach. Given a client's aggregated " +
			"performance statistics, write a multi-week training plan. Schedule each " +
			"week against exactly one focus category from the allowed set, pick drills " +
			"that target the client's weakest areas first, and keep narratives concrete " +
			"and encouraging. Respond only with JSON matching the provided schema."
	case content.KindSessionNotes:
		return "You are a professional shooting coach reviewing a single practice " +
			"session. Summarize what the shot pattern shows, call out notable " +
			"observations, and recommend drills. Drill recommendations may only " +
			"reference focus categories that appear in the client's active training " +
			"plan. Respond only with JSON matching the provided schema."
	default:
		return ""
	}
}

func buildUserPrompt(snap *Snapshot) (string, error) {
	input := map[string]any{
		"facts":                    snap.Facts,
		"allowed_focus_categories": snap.Allowed.FocusCategories,
	}
	raw, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal prompt input: %w", err)
	}
	return string(raw), nil
}
