package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobType string

const (
	JobSourcingDataImport JobType = "sourcing_data_import"
)

type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// JobEvent tracks one asynchronous task, keyed by the id of the entity it
// works on. Data carries non-fatal warnings, Errors whatever made it fail.
type JobEvent struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExternalID uuid.UUID      `gorm:"type:uuid;column:external_id;not null;index" json:"external_id"`
	Type       JobType        `gorm:"column:type;not null;index" json:"type"`
	Status     JobStatus      `gorm:"column:status;not null;default:'processing';index" json:"status"`
	Data       datatypes.JSON `gorm:"type:jsonb;column:data" json:"data,omitempty"`
	Errors     datatypes.JSON `gorm:"type:jsonb;column:errors" json:"errors,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (JobEvent) TableName() string { return "job_event" }
