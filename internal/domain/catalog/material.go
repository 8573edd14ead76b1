package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Material struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;column:parent_id;index" json:"parent_id,omitempty"`
	Name        string         `gorm:"column:name;not null;index" json:"name"`
	HsCodeID    string         `gorm:"column:hs_code_id;index" json:"hs_code_id,omitempty"`
	Description string         `gorm:"column:description;type:text" json:"description,omitempty"`
	Mpath       string         `gorm:"column:mpath;index" json:"mpath,omitempty"`
	Status      string         `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Material) TableName() string { return "material" }
