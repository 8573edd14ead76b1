package sourcing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourcingRecordGroup ties every row of one dataset upload together.
type SourcingRecordGroup struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SourcingRecordGroup) TableName() string { return "sourcing_record_group" }
