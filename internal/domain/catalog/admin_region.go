package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRegion is a GADM administrative area. Level 0 is a country, level 1
// a first-order subdivision. The hierarchy is kept as a materialized path.
type AdminRegion struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ParentID    *uuid.UUID     `gorm:"type:uuid;column:parent_id;index" json:"parent_id,omitempty"`
	GeoRegionID *uuid.UUID     `gorm:"type:uuid;column:geo_region_id;index" json:"geo_region_id,omitempty"`
	Name        string         `gorm:"column:name;not null;index" json:"name"`
	Level       int            `gorm:"column:level;not null;default:0;index" json:"level"`
	Latitude    float64        `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude   float64        `gorm:"column:longitude" json:"longitude,omitempty"`
	IsoA2       string         `gorm:"column:iso_a2" json:"iso_a2,omitempty"`
	IsoA3       string         `gorm:"column:iso_a3;index" json:"iso_a3,omitempty"`
	Mpath       string         `gorm:"column:mpath;index" json:"mpath,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AdminRegion) TableName() string { return "admin_region" }
