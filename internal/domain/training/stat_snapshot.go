package training

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StatSnapshot is the derived per-client performance summary the content
// engine consumes. Rows are append-only; the newest row is authoritative.
type StatSnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client       *Client   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	SessionCount int       `gorm:"not null;default:0" json:"session_count"`
	ShotCount    int       `gorm:"not null;default:0" json:"shot_count"`
	AvgScore     float64   `gorm:"not null;default:0" json:"avg_score"`
	// CategoryBreakdown maps shot category -> {count, avg_score}.
	CategoryBreakdown datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"category_breakdown"`
	// WeakestCategories lists category keys ordered worst-first.
	WeakestCategories datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"weakest_categories"`
	ComputedAt        time.Time      `gorm:"not null;default:now();index" json:"computed_at"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (StatSnapshot) TableName() string { return "stat_snapshot" }
