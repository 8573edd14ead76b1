package scenarios

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterventionKind string

const (
	InterventionNewSupplier          InterventionKind = "Source from new supplier or location"
	InterventionNewMaterial          InterventionKind = "Switch to a new material"
	InterventionProductionEfficiency InterventionKind = "Change production efficiency"
)

// ScenarioIntervention rewires part of the sourcing portfolio inside a
// scenario. The canceled sourcing locations it covers stay linked to it,
// alongside the replacing ones it creates.
type ScenarioIntervention struct {
	ID              uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ScenarioID      uuid.UUID        `gorm:"type:uuid;column:scenario_id;not null;index" json:"scenario_id"`
	Title           string           `gorm:"column:title;not null" json:"title"`
	Type            InterventionKind `gorm:"column:type;not null" json:"type"`
	Description     string           `gorm:"column:description;type:text" json:"description,omitempty"`
	StartYear       int              `gorm:"column:start_year;not null" json:"start_year"`
	Percentage      float64          `gorm:"column:percentage;not null;default:100" json:"percentage"`
	NewMaterialID   *uuid.UUID       `gorm:"type:uuid;column:new_material_id" json:"new_material_id,omitempty"`
	NewT1SupplierID *uuid.UUID       `gorm:"type:uuid;column:new_t1_supplier_id" json:"new_t1_supplier_id,omitempty"`
	NewProducerID   *uuid.UUID       `gorm:"type:uuid;column:new_producer_id" json:"new_producer_id,omitempty"`
	NewCountryInput string           `gorm:"column:new_country_input" json:"new_country_input,omitempty"`
	NewAddressInput string           `gorm:"column:new_address_input" json:"new_address_input,omitempty"`
	NewLocationLat  *float64         `gorm:"column:new_location_latitude" json:"new_location_latitude,omitempty"`
	NewLocationLng  *float64         `gorm:"column:new_location_longitude" json:"new_location_longitude,omitempty"`
	Status          string           `gorm:"column:status;not null;default:'active'" json:"status"`
	CreatedAt       time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScenarioIntervention) TableName() string { return "scenario_intervention" }
