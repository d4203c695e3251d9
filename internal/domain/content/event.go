package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PathHit   = "hit"
	PathReuse = "reuse"
	PathMiss  = "miss"
)

// GenerationEvent is a best-effort observability row describing one engine
// call. Failures writing it never affect the generate result.
type GenerationEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"subject_id"`
	ThreadID    string         `gorm:"type:text;not null;index" json:"thread_id"`
	ContentKind string         `gorm:"type:text;not null" json:"content_kind"`
	Path        string         `gorm:"type:text;not null" json:"path"`
	GeneratedBy string         `gorm:"type:text;not null;default:''" json:"generated_by"`
	Cause       string         `gorm:"type:text;not null;default:''" json:"cause"`
	VersionID   *uuid.UUID     `gorm:"type:uuid" json:"version_id,omitempty"`
	DurationMS  int64          `gorm:"not null;default:0" json:"duration_ms"`
	Metadata    datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
}

func (GenerationEvent) TableName() string { return "generation_event" }
