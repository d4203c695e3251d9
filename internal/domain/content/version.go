package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ReasonInitial     = "initial"
	ReasonDataChange  = "data_change"
	ReasonManualRegen = "manual_regen"

	GeneratedByDeterministic = "deterministic"
	GeneratedByExternal      = "external"
)

// ContentVersion is one immutable generated artifact within a thread.
// Rows are written exactly once and never updated or deleted; the repo layer
// exposes no mutation methods. VersionIndex is unique per (subject, thread).
type ContentVersion struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID    uuid.UUID      `gorm:"type:uuid;not null;index;index:idx_content_version_seq,unique,priority:1" json:"subject_id"`
	ThreadID     string         `gorm:"type:text;not null;index:idx_content_version_seq,unique,priority:2;index:idx_content_version_hash,priority:2" json:"thread_id"`
	VersionIndex int            `gorm:"not null;index:idx_content_version_seq,unique,priority:3" json:"version_index"`
	ContentKind  string         `gorm:"type:text;not null;index" json:"content_kind"`
	DataHash     string         `gorm:"type:text;not null;index:idx_content_version_hash,priority:3" json:"data_hash"`
	Content      datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	Reason       string         `gorm:"type:text;not null" json:"reason"`
	GeneratedBy  string         `gorm:"type:text;not null" json:"generated_by"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (ContentVersion) TableName() string { return "content_version" }
