package indicators

import (
	"time"

	"github.com/google/uuid"
)

// DataYear marks a year for which source data exists for an indicator,
// optionally scoped to a material. Queries for years without data fall
// back to the closest available one.
type DataYear struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	IndicatorID *uuid.UUID `gorm:"type:uuid;column:indicator_id;index" json:"indicator_id,omitempty"`
	MaterialID  *uuid.UUID `gorm:"type:uuid;column:material_id;index" json:"material_id,omitempty"`
	Year        int        `gorm:"column:year;not null;index" json:"year"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (DataYear) TableName() string { return "data_year" }
