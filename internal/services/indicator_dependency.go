package services

import (
	"fmt"
	"sort"
	"strings"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// rawDependency names one raw aggregate an indicator needs and the SQL
// expression that computes it. Expressions use positional parameters:
// $1 geo region id, $2 material id, $3 admin region id.
type rawDependency struct {
	name string
	expr string
}

var indicatorRawDependencies = map[types.IndicatorType][]rawDependency{
	types.IndicatorLandUse: {
		{name: "production", expr: `sum_material_over_georegion($1, $2, 'producer') as "production"`},
		{name: "harvestedArea", expr: `sum_material_over_georegion($1, $2, 'harvest') as "harvestedArea"`},
	},
	types.IndicatorDeforestationRisk: {
		{name: "rawDeforestation", expr: `sum_weighted_deforestation_over_georegion($1, $2, 'harvest') as "rawDeforestation"`},
		{name: "weightedAllHarvest", expr: `sum_h3_weighted_cropland_area($1, $2, 'harvest') as "weightedAllHarvest"`},
	},
	types.IndicatorClimateRisk: {
		{name: "rawCarbon", expr: `sum_weighted_carbon_over_georegion($1, $2, 'harvest') as "rawCarbon"`},
		{name: "weightedAllHarvest", expr: `sum_h3_weighted_cropland_area($1, $2, 'harvest') as "weightedAllHarvest"`},
	},
	types.IndicatorWaterUse: {
		{name: "rawWater", expr: `get_blwf_impact($3, $2) as "rawWater"`},
		{name: "weightedAllHarvest", expr: `sum_h3_weighted_cropland_area($1, $2, 'harvest') as "weightedAllHarvest"`},
	},
	types.IndicatorUnsustWaterUse: {
		{name: "waterStressPerct", expr: `get_percentage_water_stress_area($1) as "waterStressPerct"`},
		{name: "rawWater", expr: `get_blwf_impact($3, $2) as "rawWater"`},
	},
	types.IndicatorSatDeforestation: {
		{name: "satDeforestation", expr: `sum_satelligence_deforestation_over_georegion($1) as "satDeforestation"`},
	},
	types.IndicatorSatDeforestationRisk: {
		{name: "satDeforestationRisk", expr: `sum_satelligence_deforestation_risk_over_georegion($1) as "satDeforestationRisk"`},
	},
}

// ImportQueryDTO is the grouped form of the dependency query: the deduped
// raw value names plus the expression list with the positional parameters
// bound to sourcing location columns.
type ImportQueryDTO struct {
	Params []string
	Query  string
}

// IndicatorDependencyService assembles the raw-value SQL an impact
// calculation needs, deduplicating dependencies shared between indicators.
type IndicatorDependencyService interface {
	// BuildQueryForIntervention returns a comma separated expression list
	// with $1/$2/$3 placeholders, for a single location scope.
	BuildQueryForIntervention(nameCodes []types.IndicatorType) (string, error)
	// BuildQueryForImport binds the placeholders to sourcing_location
	// columns so one grouped query covers the whole dataset.
	BuildQueryForImport(nameCodes []types.IndicatorType) (ImportQueryDTO, error)
	// DependencyNames lists the raw values an indicator consumes.
	DependencyNames(nameCode types.IndicatorType) []string
}

type indicatorDependencyService struct {
	log *logger.Logger
}

func NewIndicatorDependencyService(baseLog *logger.Logger) IndicatorDependencyService {
	return &indicatorDependencyService{log: baseLog.With("service", "IndicatorDependencyService")}
}

func (s *indicatorDependencyService) BuildQueryForIntervention(nameCodes []types.IndicatorType) (string, error) {
	deps, err := collectDependencies(nameCodes)
	if err != nil {
		return "", err
	}
	exprs := make([]string, 0, len(deps))
	for _, dep := range deps {
		exprs = append(exprs, dep.expr)
	}
	return strings.Join(exprs, ", "), nil
}

func (s *indicatorDependencyService) BuildQueryForImport(nameCodes []types.IndicatorType) (ImportQueryDTO, error) {
	deps, err := collectDependencies(nameCodes)
	if err != nil {
		return ImportQueryDTO{}, err
	}

	replacer := strings.NewReplacer(
		"$1", "sourcing_location.geo_region_id",
		"$2", "sourcing_location.material_id",
		"$3", "sourcing_location.admin_region_id",
	)

	params := make([]string, 0, len(deps))
	exprs := []string{
		"sourcing_location.geo_region_id",
		"sourcing_location.material_id",
		"sourcing_location.admin_region_id",
	}
	for _, dep := range deps {
		params = append(params, fmt.Sprintf("%q", dep.name))
		exprs = append(exprs, replacer.Replace(dep.expr))
	}

	return ImportQueryDTO{
		Params: params,
		Query:  strings.Join(exprs, ", "),
	}, nil
}

func (s *indicatorDependencyService) DependencyNames(nameCode types.IndicatorType) []string {
	deps := indicatorRawDependencies[nameCode]
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.name)
	}
	return names
}

// collectDependencies unions the dependency lists of the requested
// indicators. The result is deduplicated and sorted by name, so the same
// set of indicators always yields the same query regardless of order.
func collectDependencies(nameCodes []types.IndicatorType) ([]rawDependency, error) {
	seen := make(map[string]bool)
	var deps []rawDependency
	for _, nameCode := range nameCodes {
		indicatorDeps, ok := indicatorRawDependencies[nameCode]
		if !ok {
			return nil, fmt.Errorf("no raw dependencies registered for indicator %s: %w", nameCode, pkgerrors.ErrInvalidArgument)
		}
		for _, dep := range indicatorDeps {
			if seen[dep.name] {
				continue
			}
			seen[dep.name] = true
			deps = append(deps, dep)
		}
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].name < deps[j].name })
	return deps, nil
}
