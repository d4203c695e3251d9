package training

import (
	"time"

	"github.com/google/uuid"
	"github.com/shotline/shotline-backend/internal/domain/auth"
	"gorm.io/gorm"
)

// Client is a coached athlete. Content generation treats the client as the
// subject: every version and pointer is keyed by the client's ID.
type Client struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *auth.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Name       string     `gorm:"type:text;not null" json:"name"`
	Discipline string     `gorm:"type:text;not null;default:'pistol_25m'" json:"discipline"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Client) TableName() string { return "client" }
