package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessUnit struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;column:parent_id;index" json:"parent_id,omitempty"`
	Name        string         `gorm:"column:name;not null;index" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Mpath       string         `gorm:"column:mpath;index" json:"mpath,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (BusinessUnit) TableName() string { return "business_unit" }
