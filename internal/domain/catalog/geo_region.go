package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeoRegion holds the geometry a sourcing location resolves to. Regions
// created during an import (points and radii around user coordinates) are
// flagged so a fresh import can sweep them away.
type GeoRegion struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string         `gorm:"column:name;index" json:"name"`
	Geometry      datatypes.JSON `gorm:"type:jsonb;column:the_geom" json:"the_geom,omitempty"`
	IsPoint       bool           `gorm:"column:is_point;not null;default:false" json:"is_point"`
	RadiusMeters  float64        `gorm:"column:radius_meters" json:"radius_meters,omitempty"`
	CreatedByUser bool           `gorm:"column:is_created_by_user;not null;default:false;index" json:"is_created_by_user"`
	CreatedAt     time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GeoRegion) TableName() string { return "geo_region" }
