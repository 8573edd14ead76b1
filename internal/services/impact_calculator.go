package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// RawValues holds the named aggregates an indicator value is computed from.
type RawValues map[string]float64

// ImpactCalculatorService turns purchased tonnage into indicator records
// using the raw aggregates the dependency manager queries for.
type ImpactCalculatorService interface {
	// CalculateImpactsForAllSourcingRecords recomputes every indicator
	// record from the current sourcing data.
	CalculateImpactsForAllSourcingRecords(dbc dbctx.Context, onProgress func(progress float64)) error
	// CalculateImpactsForScope computes records for a subset of sourcing
	// records, as created by a scenario intervention.
	CalculateImpactsForScope(dbc dbctx.Context, scopes []sourcing.RecordScope) ([]*types.IndicatorRecord, error)
	// ComputeValue applies the indicator formula to the raw aggregates.
	ComputeValue(nameCode types.IndicatorType, raw RawValues, tonnage float64) float64
}

type impactCalculatorService struct {
	indicators       repos.IndicatorRepo
	indicatorRecords repos.IndicatorRecordRepo
	sourcingRecords  repos.SourcingRecordRepo
	dependencies     IndicatorDependencyService
	log              *logger.Logger
}

func NewImpactCalculatorService(
	indicators repos.IndicatorRepo,
	indicatorRecords repos.IndicatorRecordRepo,
	sourcingRecords repos.SourcingRecordRepo,
	dependencies IndicatorDependencyService,
	baseLog *logger.Logger,
) ImpactCalculatorService {
	return &impactCalculatorService{
		indicators:       indicators,
		indicatorRecords: indicatorRecords,
		sourcingRecords:  sourcingRecords,
		dependencies:     dependencies,
		log:              baseLog.With("service", "ImpactCalculatorService"),
	}
}

func (s *impactCalculatorService) CalculateImpactsForAllSourcingRecords(dbc dbctx.Context, onProgress func(progress float64)) error {
	activeIndicators, err := s.indicators.FindAllActive(dbc)
	if err != nil {
		return fmt.Errorf("failed to load active indicators: %w", err)
	}
	if len(activeIndicators) == 0 {
		return nil
	}

	scopes, err := s.sourcingRecords.GetScopesForImpactCalc(dbc)
	if err != nil {
		return fmt.Errorf("failed to load sourcing record scopes: %w", err)
	}

	rawByScope, err := s.queryRawValuesGrouped(dbc, indicatorTypes(activeIndicators))
	if err != nil {
		return err
	}

	records := make([]*types.IndicatorRecord, 0, len(scopes)*len(activeIndicators))
	for i, scope := range scopes {
		raw := rawByScope[scopeKey(scope.GeoRegionID, scope.MaterialID, scope.AdminRegionID)]
		for _, indicator := range activeIndicators {
			record, err := s.buildRecord(indicator, scope.SourcingRecordID, raw, scope.Tonnage)
			if err != nil {
				return err
			}
			records = append(records, record)
		}
		if onProgress != nil {
			onProgress(float64(i+1) / float64(len(scopes)) * 100)
		}
	}

	if _, err := s.indicatorRecords.CreateBulk(dbc, records); err != nil {
		return fmt.Errorf("failed to save indicator records: %w", err)
	}
	return nil
}

func (s *impactCalculatorService) CalculateImpactsForScope(dbc dbctx.Context, scopes []sourcing.RecordScope) ([]*types.IndicatorRecord, error) {
	activeIndicators, err := s.indicators.FindAllActive(dbc)
	if err != nil {
		return nil, fmt.Errorf("failed to load active indicators: %w", err)
	}

	query, err := s.dependencies.BuildQueryForIntervention(indicatorTypes(activeIndicators))
	if err != nil {
		return nil, err
	}

	var records []*types.IndicatorRecord
	rawCache := make(map[string]RawValues)
	for _, scope := range scopes {
		key := scopeKey(scope.GeoRegionID, scope.MaterialID, scope.AdminRegionID)
		raw, cached := rawCache[key]
		if !cached {
			row, err := s.indicatorRecords.QueryRaw(dbc, "SELECT "+query,
				uuidOrNil(scope.GeoRegionID), scope.MaterialID, uuidOrNil(scope.AdminRegionID))
			if err != nil {
				return nil, fmt.Errorf("failed to query raw values: %w", err)
			}
			raw = toRawValues(row)
			rawCache[key] = raw
		}
		for _, indicator := range activeIndicators {
			record, err := s.buildRecord(indicator, scope.SourcingRecordID, raw, scope.Tonnage)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}
	return records, nil
}

func (s *impactCalculatorService) ComputeValue(nameCode types.IndicatorType, raw RawValues, tonnage float64) float64 {
	switch nameCode {
	case types.IndicatorLandUse:
		return safeDiv(raw["harvestedArea"], raw["production"]) * tonnage
	case types.IndicatorDeforestationRisk:
		return safeDiv(raw["rawDeforestation"], raw["weightedAllHarvest"]) * tonnage
	case types.IndicatorClimateRisk:
		return safeDiv(raw["rawCarbon"], raw["weightedAllHarvest"]) * tonnage
	case types.IndicatorWaterUse:
		return raw["rawWater"] * tonnage
	case types.IndicatorUnsustWaterUse:
		return raw["rawWater"] * tonnage * raw["waterStressPerct"] / 100
	case types.IndicatorSatDeforestation:
		return raw["satDeforestation"]
	case types.IndicatorSatDeforestationRisk:
		return raw["satDeforestationRisk"]
	default:
		return 0
	}
}

func (s *impactCalculatorService) buildRecord(indicator *types.Indicator, sourcingRecordID uuid.UUID, raw RawValues, tonnage float64) (*types.IndicatorRecord, error) {
	scoped := RawValues{}
	for _, name := range s.dependencies.DependencyNames(indicator.NameCode) {
		scoped[name] = raw[name]
	}
	snapshot, err := json.Marshal(scoped)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot raw values: %w", err)
	}

	return &types.IndicatorRecord{
		ID:               uuid.New(),
		IndicatorID:      indicator.ID,
		SourcingRecordID: sourcingRecordID,
		Value:            s.ComputeValue(indicator.NameCode, raw, tonnage),
		ScaledValue:      datatypes.JSON(snapshot),
		Status:           types.RecordSuccess,
	}, nil
}

// queryRawValuesGrouped runs the import form of the dependency query: one
// row of raw aggregates per distinct location scope.
func (s *impactCalculatorService) queryRawValuesGrouped(dbc dbctx.Context, nameCodes []types.IndicatorType) (map[string]RawValues, error) {
	dto, err := s.dependencies.BuildQueryForImport(nameCodes)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + dto.Query + `
		FROM sourcing_location
		WHERE sourcing_location.deleted_at IS NULL
		GROUP BY sourcing_location.geo_region_id, sourcing_location.material_id, sourcing_location.admin_region_id`

	rows, err := s.indicatorRecords.QueryRawRows(dbc, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped raw values: %w", err)
	}

	byScope := make(map[string]RawValues, len(rows))
	for _, row := range rows {
		geoRegionID := parseUUIDColumn(row["geo_region_id"])
		materialID := parseUUIDColumn(row["material_id"])
		adminRegionID := parseUUIDColumn(row["admin_region_id"])
		if materialID == nil {
			continue
		}
		byScope[scopeKey(geoRegionID, *materialID, adminRegionID)] = toRawValues(row)
	}
	return byScope, nil
}

func indicatorTypes(indicators []*types.Indicator) []types.IndicatorType {
	nameCodes := make([]types.IndicatorType, 0, len(indicators))
	for _, indicator := range indicators {
		nameCodes = append(nameCodes, indicator.NameCode)
	}
	return nameCodes
}

func scopeKey(geoRegionID *uuid.UUID, materialID uuid.UUID, adminRegionID *uuid.UUID) string {
	return uuidOrNil(geoRegionID).String() + "/" + materialID.String() + "/" + uuidOrNil(adminRegionID).String()
}

func uuidOrNil(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}

func parseUUIDColumn(value interface{}) *uuid.UUID {
	switch v := value.(type) {
	case string:
		if id, err := uuid.Parse(v); err == nil {
			return &id
		}
	case []byte:
		if id, err := uuid.Parse(string(v)); err == nil {
			return &id
		}
	}
	return nil
}

func toRawValues(row map[string]interface{}) RawValues {
	raw := RawValues{}
	for name, value := range row {
		switch v := value.(type) {
		case float64:
			raw[name] = v
		case float32:
			raw[name] = float64(v)
		case int64:
			raw[name] = float64(v)
		case int:
			raw[name] = float64(v)
		}
	}
	return raw
}

// safeDiv avoids NaN impact values when a scope has no production data.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
