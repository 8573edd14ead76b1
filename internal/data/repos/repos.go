package repos

import (
	"gorm.io/gorm"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/catalog"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/eudr"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/indicators"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/jobs"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/scenarios"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type MaterialRepo = catalog.MaterialRepo
type BusinessUnitRepo = catalog.BusinessUnitRepo
type SupplierRepo = catalog.SupplierRepo
type AdminRegionRepo = catalog.AdminRegionRepo
type GeoRegionRepo = catalog.GeoRegionRepo
type TreeNode = catalog.TreeNode

type SourcingLocationRepo = sourcing.SourcingLocationRepo
type SourcingRecordRepo = sourcing.SourcingRecordRepo
type SourcingRecordGroupRepo = sourcing.SourcingRecordGroupRepo
type ImpactDataRepo = sourcing.ImpactDataRepo

type IndicatorRepo = indicators.IndicatorRepo
type IndicatorRecordRepo = indicators.IndicatorRecordRepo
type DataYearRepo = indicators.DataYearRepo

type ScenarioRepo = scenarios.ScenarioRepo
type InterventionRepo = scenarios.InterventionRepo

type JobEventRepo = jobs.JobEventRepo
type EUDRAlertRepo = eudr.AlertRepo

func NewMaterialRepo(db *gorm.DB, baseLog *logger.Logger) MaterialRepo {
	return catalog.NewMaterialRepo(db, baseLog)
}
func NewBusinessUnitRepo(db *gorm.DB, baseLog *logger.Logger) BusinessUnitRepo {
	return catalog.NewBusinessUnitRepo(db, baseLog)
}
func NewSupplierRepo(db *gorm.DB, baseLog *logger.Logger) SupplierRepo {
	return catalog.NewSupplierRepo(db, baseLog)
}
func NewAdminRegionRepo(db *gorm.DB, baseLog *logger.Logger) AdminRegionRepo {
	return catalog.NewAdminRegionRepo(db, baseLog)
}
func NewGeoRegionRepo(db *gorm.DB, baseLog *logger.Logger) GeoRegionRepo {
	return catalog.NewGeoRegionRepo(db, baseLog)
}

func NewSourcingLocationRepo(db *gorm.DB, baseLog *logger.Logger) SourcingLocationRepo {
	return sourcing.NewSourcingLocationRepo(db, baseLog)
}
func NewSourcingRecordRepo(db *gorm.DB, baseLog *logger.Logger) SourcingRecordRepo {
	return sourcing.NewSourcingRecordRepo(db, baseLog)
}
func NewSourcingRecordGroupRepo(db *gorm.DB, baseLog *logger.Logger) SourcingRecordGroupRepo {
	return sourcing.NewSourcingRecordGroupRepo(db, baseLog)
}
func NewImpactDataRepo(db *gorm.DB, baseLog *logger.Logger) ImpactDataRepo {
	return sourcing.NewImpactDataRepo(db, baseLog)
}

func NewIndicatorRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRepo {
	return indicators.NewIndicatorRepo(db, baseLog)
}
func NewIndicatorRecordRepo(db *gorm.DB, baseLog *logger.Logger) IndicatorRecordRepo {
	return indicators.NewIndicatorRecordRepo(db, baseLog)
}
func NewDataYearRepo(db *gorm.DB, baseLog *logger.Logger) DataYearRepo {
	return indicators.NewDataYearRepo(db, baseLog)
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	return scenarios.NewScenarioRepo(db, baseLog)
}
func NewInterventionRepo(db *gorm.DB, baseLog *logger.Logger) InterventionRepo {
	return scenarios.NewInterventionRepo(db, baseLog)
}

func NewJobEventRepo(db *gorm.DB, baseLog *logger.Logger) JobEventRepo {
	return jobs.NewJobEventRepo(db, baseLog)
}
func NewEUDRAlertRepo(db *gorm.DB, baseLog *logger.Logger) EUDRAlertRepo {
	return eudr.NewAlertRepo(db, baseLog)
}
