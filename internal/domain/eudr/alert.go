package eudr

import (
	"time"

	"github.com/google/uuid"
)

// Alert summarizes satellite monitoring findings for one supplier:
// deforestation-free status violations (DFS), supply deforestation alerts
// (SDA) and traceability-plot losses (TPL).
type Alert struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SupplierID  uuid.UUID  `gorm:"type:uuid;column:supplier_id;not null;index" json:"supplier_id"`
	GeoRegionID *uuid.UUID `gorm:"type:uuid;column:geo_region_id;index" json:"geo_region_id,omitempty"`
	AlertDate   time.Time  `gorm:"column:alert_date;index" json:"alert_date"`
	DFS         int        `gorm:"column:dfs;not null;default:0" json:"dfs"`
	SDA         int        `gorm:"column:sda;not null;default:0" json:"sda"`
	TPL         int        `gorm:"column:tpl;not null;default:0" json:"tpl"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (Alert) TableName() string { return "eudr_alert" }
