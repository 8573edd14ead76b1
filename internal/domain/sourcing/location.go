package sourcing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LocationType string

const (
	LocationPointOfProduction       LocationType = "point-of-production"
	LocationAggregationPoint        LocationType = "aggregation-point"
	LocationCountryOfProduction     LocationType = "country-of-production"
	LocationAdminRegionOfProduction LocationType = "administrative-region-of-production"
	LocationUnknown                 LocationType = "unknown"
	LocationEUDR                    LocationType = "eudr"
)

type InterventionType string

const (
	InterventionSourcingLocationCanceled  InterventionType = "CANCELED"
	InterventionSourcingLocationReplacing InterventionType = "REPLACING"
)

// SourcingLocation is a place a material is bought from, as declared in an
// uploaded sourcing dataset or created by a scenario intervention.
type SourcingLocation struct {
	ID                     uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title                  string            `gorm:"column:title" json:"title,omitempty"`
	LocationType           LocationType      `gorm:"column:location_type;not null;index" json:"location_type"`
	LocationCountryInput   string            `gorm:"column:location_country_input" json:"location_country_input,omitempty"`
	LocationAddressInput   string            `gorm:"column:location_address_input" json:"location_address_input,omitempty"`
	LocationLatitude       *float64          `gorm:"column:location_latitude" json:"location_latitude,omitempty"`
	LocationLongitude      *float64          `gorm:"column:location_longitude" json:"location_longitude,omitempty"`
	MaterialID             uuid.UUID         `gorm:"type:uuid;column:material_id;not null;index" json:"material_id"`
	BusinessUnitID         *uuid.UUID        `gorm:"type:uuid;column:business_unit_id;index" json:"business_unit_id,omitempty"`
	T1SupplierID           *uuid.UUID        `gorm:"type:uuid;column:t1_supplier_id;index" json:"t1_supplier_id,omitempty"`
	ProducerID             *uuid.UUID        `gorm:"type:uuid;column:producer_id;index" json:"producer_id,omitempty"`
	AdminRegionID          *uuid.UUID        `gorm:"type:uuid;column:admin_region_id;index" json:"admin_region_id,omitempty"`
	GeoRegionID            *uuid.UUID        `gorm:"type:uuid;column:geo_region_id;index" json:"geo_region_id,omitempty"`
	SourcingRecordGroupID  *uuid.UUID        `gorm:"type:uuid;column:sourcing_record_group_id;index" json:"sourcing_record_group_id,omitempty"`
	ScenarioInterventionID *uuid.UUID        `gorm:"type:uuid;column:scenario_intervention_id;index" json:"scenario_intervention_id,omitempty"`
	InterventionType       *InterventionType `gorm:"column:intervention_type" json:"intervention_type,omitempty"`
	LocationWarning        string            `gorm:"column:location_warning;type:text" json:"location_warning,omitempty"`
	Metadata               datatypes.JSON    `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt              time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt              time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt              gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (SourcingLocation) TableName() string { return "sourcing_location" }
