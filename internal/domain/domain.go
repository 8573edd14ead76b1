package domain

import (
	"github.com/landgriffon/landgriffon-backend/internal/domain/catalog"
	"github.com/landgriffon/landgriffon-backend/internal/domain/eudr"
	"github.com/landgriffon/landgriffon-backend/internal/domain/indicators"
	"github.com/landgriffon/landgriffon-backend/internal/domain/jobs"
	"github.com/landgriffon/landgriffon-backend/internal/domain/scenarios"
	"github.com/landgriffon/landgriffon-backend/internal/domain/sourcing"
)

type Material = catalog.Material
type BusinessUnit = catalog.BusinessUnit
type Supplier = catalog.Supplier
type AdminRegion = catalog.AdminRegion
type GeoRegion = catalog.GeoRegion

type SourcingLocation = sourcing.SourcingLocation
type SourcingRecord = sourcing.SourcingRecord
type SourcingRecordGroup = sourcing.SourcingRecordGroup
type LocationType = sourcing.LocationType
type InterventionType = sourcing.InterventionType

type Indicator = indicators.Indicator
type IndicatorRecord = indicators.IndicatorRecord
type IndicatorType = indicators.IndicatorType
type IndicatorStatus = indicators.IndicatorStatus
type RecordStatus = indicators.RecordStatus
type DataYear = indicators.DataYear

type Scenario = scenarios.Scenario
type ScenarioIntervention = scenarios.ScenarioIntervention
type InterventionKind = scenarios.InterventionKind

type JobEvent = jobs.JobEvent
type JobType = jobs.JobType
type JobStatus = jobs.JobStatus

type EUDRAlert = eudr.Alert

const (
	LocationPointOfProduction       = sourcing.LocationPointOfProduction
	LocationAggregationPoint        = sourcing.LocationAggregationPoint
	LocationCountryOfProduction     = sourcing.LocationCountryOfProduction
	LocationAdminRegionOfProduction = sourcing.LocationAdminRegionOfProduction
	LocationUnknown                 = sourcing.LocationUnknown
	LocationEUDR                    = sourcing.LocationEUDR

	InterventionSourcingLocationCanceled  = sourcing.InterventionSourcingLocationCanceled
	InterventionSourcingLocationReplacing = sourcing.InterventionSourcingLocationReplacing

	IndicatorLandUse              = indicators.IndicatorLandUse
	IndicatorDeforestationRisk    = indicators.IndicatorDeforestationRisk
	IndicatorClimateRisk          = indicators.IndicatorClimateRisk
	IndicatorWaterUse             = indicators.IndicatorWaterUse
	IndicatorUnsustWaterUse       = indicators.IndicatorUnsustWaterUse
	IndicatorSatDeforestation     = indicators.IndicatorSatDeforestation
	IndicatorSatDeforestationRisk = indicators.IndicatorSatDeforestationRisk

	IndicatorActive   = indicators.IndicatorActive
	IndicatorInactive = indicators.IndicatorInactive

	RecordUnstarted = indicators.RecordUnstarted
	RecordStarted   = indicators.RecordStarted
	RecordSuccess   = indicators.RecordSuccess
	RecordError     = indicators.RecordError

	InterventionNewSupplier          = scenarios.InterventionNewSupplier
	InterventionNewMaterial          = scenarios.InterventionNewMaterial
	InterventionProductionEfficiency = scenarios.InterventionProductionEfficiency

	JobSourcingDataImport = jobs.JobSourcingDataImport

	JobProcessing = jobs.JobProcessing
	JobCompleted  = jobs.JobCompleted
	JobFailed     = jobs.JobFailed
)
