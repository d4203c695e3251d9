package content

import (
	"fmt"

	"github.com/google/uuid"
	pkgerrors "github.com/shotline/shotline-backend/internal/pkg/errors"
)

// The closed set of content kinds the engine can generate. Payloads are
// validated once at this boundary; nothing downstream re-guesses shape.
const (
	KindTrainingPlan = "training_plan"
	KindSessionNotes = "session_notes"
)

// Thread discriminators. A client has one plan thread; each session has its
// own notes thread. Both threads belong to the client subject.
func PlanThreadID(clientID uuid.UUID) string {
	return "plan:" + clientID.String()
}

func SessionThreadID(sessionID uuid.UUID) string {
	return "session:" + sessionID.String()
}

// FocusCategories is the enumeration of training focus areas a plan may
// schedule work against.
var FocusCategories = []string{
	"stance",
	"grip",
	"trigger_control",
	"breathing",
	"sight_alignment",
	"follow_through",
}

// ShotCategories is the enumeration of shot classification labels assigned
// at ingestion.
var ShotCategories = []string{
	"centered",
	"high",
	"low",
	"left",
	"right",
	"high_left",
	"high_right",
	"low_left",
	"low_right",
}

// AllowedRefs carries the caller-supplied allow-sets for cross-reference
// validation. For a plan the focus set is the global enumeration; for session
// notes it is the focus categories present in the client's active plan.
type AllowedRefs struct {
	FocusCategories []string
}

func (a AllowedRefs) AllowsFocus(id string) bool {
	for _, v := range a.FocusCategories {
		if v == id {
			return true
		}
	}
	return false
}

// SchemaViolation names the field and cause of a rejected candidate payload.
// It wraps pkgerrors.ErrSchemaViolation so callers can match the taxonomy.
type SchemaViolation struct {
	Field string
	Cause string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", e.Field, e.Cause)
}

func (e *SchemaViolation) Unwrap() error { return pkgerrors.ErrSchemaViolation }

func violation(field, cause string) error {
	return &SchemaViolation{Field: field, Cause: cause}
}
