package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shotline/shotline-backend/internal/content"
)

// Snapshot is the material one generate call hashes and generates from. It is
// built fresh on every call from authoritative stores; hash-relevant fields
// never come from caller input.
type Snapshot struct {
	Kind      string
	SubjectID uuid.UUID
	ThreadID  string
	// Facts is the canonicalized-and-hashed input material.
	Facts map[string]any
	// Allowed carries the cross-reference allow-sets for validation.
	Allowed content.AllowedRefs
}

// SnapshotProvider assembles the kind-specific snapshot from upstream facts.
// Implementations return pkgerrors.ErrInputMissing (wrapped) when a required
// fact does not exist yet.
type SnapshotProvider interface {
	BuildSnapshot(ctx context.Context, subjectID uuid.UUID, threadID string) (*Snapshot, error)
}
