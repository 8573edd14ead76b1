package indicators

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IndicatorType string

const (
	IndicatorLandUse              IndicatorType = "LAND_USE"
	IndicatorDeforestationRisk    IndicatorType = "DEFORESTATION_RISK"
	IndicatorClimateRisk          IndicatorType = "CLIMATE_RISK"
	IndicatorWaterUse             IndicatorType = "WATER_USE"
	IndicatorUnsustWaterUse       IndicatorType = "UNSUSTAINABLE_WATER_USE"
	IndicatorSatDeforestation     IndicatorType = "SATELLIGENCE_DEFORESTATION"
	IndicatorSatDeforestationRisk IndicatorType = "SATELLIGENCE_DEFORESTATION_RISK"
)

type IndicatorStatus string

const (
	IndicatorActive   IndicatorStatus = "active"
	IndicatorInactive IndicatorStatus = "inactive"
)

type Indicator struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	ShortName   string          `gorm:"column:short_name;index" json:"short_name,omitempty"`
	NameCode    IndicatorType   `gorm:"column:name_code;not null;uniqueIndex" json:"name_code"`
	Unit        string          `gorm:"column:unit" json:"unit,omitempty"`
	Description string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Status      IndicatorStatus `gorm:"column:status;not null;default:'active';index" json:"status"`
	CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Indicator) TableName() string { return "indicator" }
