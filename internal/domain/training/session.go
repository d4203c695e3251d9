package training

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Client   *Client   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ClientID;references:ID" json:"client,omitempty"`
	Location string    `gorm:"type:text;not null;default:''" json:"location"`
	Notes    string    `gorm:"type:text;not null;default:''" json:"notes"`
	HeldAt   time.Time `gorm:"not null;default:now();index" json:"held_at"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Session) TableName() string { return "session" }

type Shot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index;index:idx_shot_session_seq,unique,priority:1" json:"session_id"`
	Session   *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"session,omitempty"`
	Index     int       `gorm:"not null;index:idx_shot_session_seq,unique,priority:2" json:"index"`
	Score     float64   `gorm:"not null" json:"score"`
	OffsetX   float64   `gorm:"not null;default:0" json:"offset_x"`
	OffsetY   float64   `gorm:"not null;default:0" json:"offset_y"`
	// Category is the classification label assigned at ingestion
	// (e.g. "low_left", "centered"). Heuristics live with ingestion.
	Category string `gorm:"type:text;not null;default:'';index" json:"category"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Shot) TableName() string { return "shot" }
