package indicators

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecordStatus string

const (
	RecordUnstarted RecordStatus = "unstarted"
	RecordStarted   RecordStatus = "started"
	RecordSuccess   RecordStatus = "success"
	RecordError     RecordStatus = "error"
)

// IndicatorRecord is the computed impact of one sourcing record for one
// indicator. ScaledValue keeps the raw aggregates the value was derived
// from so a recalculation can be audited.
type IndicatorRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	IndicatorID      uuid.UUID      `gorm:"type:uuid;column:indicator_id;not null;index" json:"indicator_id"`
	SourcingRecordID uuid.UUID      `gorm:"type:uuid;column:sourcing_record_id;not null;index" json:"sourcing_record_id"`
	Value            float64        `gorm:"column:value;not null" json:"value"`
	ScaledValue      datatypes.JSON `gorm:"type:jsonb;column:scaled_value" json:"scaled_value,omitempty"`
	Status           RecordStatus   `gorm:"column:status;not null;default:'unstarted'" json:"status"`
	StatusMsg        string         `gorm:"column:status_msg;type:text" json:"status_msg,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (IndicatorRecord) TableName() string { return "indicator_record" }
