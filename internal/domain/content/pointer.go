package content

import (
	"time"

	"github.com/google/uuid"
)

// ActivePointer is the single mutable row per (subject, content kind) naming
// the version considered current. History lives in ContentVersion only.
type ActivePointer struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SubjectID       uuid.UUID `gorm:"type:uuid;not null;index:idx_active_pointer_key,unique,priority:1" json:"subject_id"`
	ContentKind     string    `gorm:"type:text;not null;index:idx_active_pointer_key,unique,priority:2" json:"content_kind"`
	ActiveVersionID uuid.UUID `gorm:"type:uuid;not null" json:"active_version_id"`
	UpdatedBy       string    `gorm:"type:text;not null;default:''" json:"updated_by"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ActivePointer) TableName() string { return "active_pointer" }
