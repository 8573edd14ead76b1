package sourcing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourcingRecord is the purchased tonnage of a sourcing location in a year.
type SourcingRecord struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourcingLocationID uuid.UUID      `gorm:"type:uuid;column:sourcing_location_id;not null;index" json:"sourcing_location_id"`
	Year               int            `gorm:"column:year;not null;index" json:"year"`
	Tonnage            float64        `gorm:"column:tonnage;not null" json:"tonnage"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SourcingRecord) TableName() string { return "sourcing_record" }
