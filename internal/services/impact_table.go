package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// RowValueKind tags what a row value carries, instead of sniffing optional
// fields: plain actual data, actual against one scenario, or two scenarios
// against each other.
type RowValueKind string

const (
	KindActual             RowValueKind = "actual"
	KindActualVsScenario   RowValueKind = "actual-vs-scenario"
	KindScenarioVsScenario RowValueKind = "scenario-vs-scenario"
)

type ImpactRowValue struct {
	Year                  int          `json:"year"`
	Kind                  RowValueKind `json:"kind"`
	Value                 float64      `json:"value"`
	IsProjected           bool         `json:"is_projected"`
	BaseScenarioValue     float64      `json:"base_scenario_value,omitempty"`
	ComparedScenarioValue float64      `json:"compared_scenario_value,omitempty"`
	AbsoluteDifference    float64      `json:"absolute_difference,omitempty"`
	PercentageDifference  float64      `json:"percentage_difference,omitempty"`
}

type ImpactTableRowNode struct {
	Name     string                `json:"name"`
	Values   []ImpactRowValue      `json:"values"`
	Children []*ImpactTableRowNode `json:"children"`
}

type YearSumValue struct {
	Year        int     `json:"year"`
	Value       float64 `json:"value"`
	IsProjected bool    `json:"is_projected"`
}

// OthersRanking aggregates the entities squeezed out of a ranked table.
type OthersRanking struct {
	NumberOfAggregatedEntities int            `json:"number_of_aggregated_entities"`
	AggregatedValues           []YearSumValue `json:"aggregated_values"`
}

type ImpactTableByIndicator struct {
	IndicatorID        uuid.UUID              `json:"indicator_id"`
	IndicatorShortName string                 `json:"indicator_short_name"`
	Unit               string                 `json:"unit"`
	GroupBy            sourcing.ImpactGroupBy `json:"group_by"`
	Rows               []*ImpactTableRowNode  `json:"rows"`
	YearSum            []YearSumValue         `json:"year_sum"`
	Others             *OthersRanking         `json:"others,omitempty"`
}

type ImpactTable struct {
	DataByIndicator []*ImpactTableByIndicator `json:"impact_table"`
	PurchasedTonnes []YearSumValue            `json:"purchased_tonnes"`
}

type ImpactTableParams struct {
	IndicatorIDs []uuid.UUID
	StartYear    int
	EndYear      int
	GroupBy      sourcing.ImpactGroupBy
}

type RankingOrder string

const (
	RankingDescending RankingOrder = "DES"
	RankingAscending  RankingOrder = "ASC"
)

type ImpactTableService interface {
	GetImpactTable(dbc dbctx.Context, params ImpactTableParams) (*ImpactTable, error)
	// GetRankedImpactTable keeps the top maxRankingEntities rows per
	// indicator and folds the rest into an "others" aggregate.
	GetRankedImpactTable(dbc dbctx.Context, params ImpactTableParams, maxRankingEntities int, order RankingOrder) (*ImpactTable, error)
	GetActualVsScenarioTable(dbc dbctx.Context, params ImpactTableParams, comparedScenarioID uuid.UUID) (*ImpactTable, error)
	GetScenarioVsScenarioTable(dbc dbctx.Context, params ImpactTableParams, baseScenarioID, comparedScenarioID uuid.UUID) (*ImpactTable, error)
}

type impactTableService struct {
	impactData repos.ImpactDataRepo
	indicators repos.IndicatorRepo
	growthRate float64
	log        *logger.Logger
}

// NewImpactTableService builds tables from aggregated impact rows.
// growthRate is the yearly percentage applied when projecting years without
// data.
func NewImpactTableService(impactData repos.ImpactDataRepo, indicators repos.IndicatorRepo, growthRate float64, baseLog *logger.Logger) ImpactTableService {
	return &impactTableService{
		impactData: impactData,
		indicators: indicators,
		growthRate: growthRate,
		log:        baseLog.With("service", "ImpactTableService"),
	}
}

// entitySeries is the per-entity year data collected from query rows before
// projection fills the gaps.
type entitySeries struct {
	name       string
	parentName string
	actual     map[int]float64
	base       map[int]float64
	compared   map[int]float64
	hasActual  map[int]bool
}

func (s *impactTableService) GetImpactTable(dbc dbctx.Context, params ImpactTableParams) (*ImpactTable, error) {
	return s.buildTable(dbc, params, nil, nil)
}

func (s *impactTableService) GetRankedImpactTable(dbc dbctx.Context, params ImpactTableParams, maxRankingEntities int, order RankingOrder) (*ImpactTable, error) {
	table, err := s.buildTable(dbc, params, nil, nil)
	if err != nil {
		return nil, err
	}
	if maxRankingEntities <= 0 {
		return nil, fmt.Errorf("max ranking entities must be positive, got %d", maxRankingEntities)
	}
	for _, byIndicator := range table.DataByIndicator {
		rankRows(byIndicator, params, maxRankingEntities, order)
	}
	return table, nil
}

func (s *impactTableService) GetActualVsScenarioTable(dbc dbctx.Context, params ImpactTableParams, comparedScenarioID uuid.UUID) (*ImpactTable, error) {
	return s.buildTable(dbc, params, nil, &comparedScenarioID)
}

func (s *impactTableService) GetScenarioVsScenarioTable(dbc dbctx.Context, params ImpactTableParams, baseScenarioID, comparedScenarioID uuid.UUID) (*ImpactTable, error) {
	return s.buildTable(dbc, params, &baseScenarioID, &comparedScenarioID)
}

func (s *impactTableService) buildTable(dbc dbctx.Context, params ImpactTableParams, baseScenarioID, comparedScenarioID *uuid.UUID) (*ImpactTable, error) {
	kind := KindActual
	if comparedScenarioID != nil {
		kind = KindActualVsScenario
	}
	if baseScenarioID != nil {
		kind = KindScenarioVsScenario
	}

	indicatorList, err := s.indicators.GetByIDs(dbc, params.IndicatorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load indicators: %w", err)
	}

	query := sourcing.ImpactTableQuery{
		IndicatorIDs: params.IndicatorIDs,
		StartYear:    params.StartYear,
		EndYear:      params.EndYear,
		GroupBy:      params.GroupBy,
	}
	actualRows, err := s.impactData.GetImpactTableRows(dbc, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load impact data: %w", err)
	}

	var baseRows, comparedRows []sourcing.ImpactTableRow
	if baseScenarioID != nil {
		scenarioQuery := query
		scenarioQuery.ScenarioID = baseScenarioID
		if baseRows, err = s.impactData.GetImpactTableRows(dbc, scenarioQuery); err != nil {
			return nil, fmt.Errorf("failed to load base scenario impact data: %w", err)
		}
	}
	if comparedScenarioID != nil {
		scenarioQuery := query
		scenarioQuery.ScenarioID = comparedScenarioID
		if comparedRows, err = s.impactData.GetImpactTableRows(dbc, scenarioQuery); err != nil {
			return nil, fmt.Errorf("failed to load compared scenario impact data: %w", err)
		}
	}

	table := &ImpactTable{}
	for _, indicator := range indicatorList {
		series, lastYearWithData := collectSeries(indicator.ID, actualRows, baseRows, comparedRows)
		byIndicator := &ImpactTableByIndicator{
			IndicatorID:        indicator.ID,
			IndicatorShortName: indicator.ShortName,
			Unit:               indicator.Unit,
			GroupBy:            params.GroupBy,
		}
		byIndicator.Rows = s.buildRows(series, params, lastYearWithData, kind)
		sortRowsRecursively(byIndicator.Rows)
		byIndicator.YearSum = sumTopLevel(byIndicator.Rows, params)
		table.DataByIndicator = append(table.DataByIndicator, byIndicator)
	}

	tonnage, err := s.impactData.GetPurchasedTonnageByYear(dbc, params.StartYear, params.EndYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchased tonnage: %w", err)
	}
	table.PurchasedTonnes = s.projectTonnage(tonnage, params)

	return table, nil
}

func collectSeries(indicatorID uuid.UUID, actualRows, baseRows, comparedRows []sourcing.ImpactTableRow) (map[string]*entitySeries, int) {
	series := make(map[string]*entitySeries)
	lastYearWithData := 0

	get := func(row sourcing.ImpactTableRow) *entitySeries {
		entity, ok := series[row.Name]
		if !ok {
			entity = &entitySeries{
				name:      row.Name,
				actual:    make(map[int]float64),
				base:      make(map[int]float64),
				compared:  make(map[int]float64),
				hasActual: make(map[int]bool),
			}
			series[row.Name] = entity
		}
		if row.ParentName != nil && *row.ParentName != "" {
			entity.parentName = *row.ParentName
		}
		return entity
	}

	for _, row := range actualRows {
		if row.IndicatorID != indicatorID {
			continue
		}
		entity := get(row)
		entity.actual[row.Year] += row.Impact
		entity.hasActual[row.Year] = true
		if row.Year > lastYearWithData {
			lastYearWithData = row.Year
		}
	}
	for _, row := range baseRows {
		if row.IndicatorID != indicatorID {
			continue
		}
		get(row).base[row.Year] += row.Impact
	}
	for _, row := range comparedRows {
		if row.IndicatorID != indicatorID {
			continue
		}
		get(row).compared[row.Year] += row.Impact
	}
	return series, lastYearWithData
}

// buildRows turns the collected series into the row tree: entities with a
// parent hang off it, parents aggregate their children.
func (s *impactTableService) buildRows(series map[string]*entitySeries, params ImpactTableParams, lastYearWithData int, kind RowValueKind) []*ImpactTableRowNode {
	nodes := make(map[string]*ImpactTableRowNode, len(series))
	for name, entity := range series {
		nodes[name] = &ImpactTableRowNode{
			Name:   name,
			Values: s.projectSeries(entity, params, lastYearWithData, kind),
		}
	}

	var roots []*ImpactTableRowNode
	for name, entity := range series {
		node := nodes[name]
		if entity.parentName == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[entity.parentName]
		if !ok {
			// Parent had no sourcing rows of its own in the range.
			parent = &ImpactTableRowNode{
				Name:   entity.parentName,
				Values: emptyValues(params, lastYearWithData, kind),
			}
			nodes[entity.parentName] = parent
			roots = append(roots, parent)
		}
		parent.Children = append(parent.Children, node)
	}

	for _, root := range roots {
		aggregateChildren(root)
	}
	return roots
}

// projectSeries fills every year of the requested range. A year without
// data continues the previous one grown by the yearly rate; years past the
// last year with real data are flagged as projected.
func (s *impactTableService) projectSeries(entity *entitySeries, params ImpactTableParams, lastYearWithData int, kind RowValueKind) []ImpactRowValue {
	values := make([]ImpactRowValue, 0, params.EndYear-params.StartYear+1)
	var prevActual, prevBase, prevCompared float64
	for year := params.StartYear; year <= params.EndYear; year++ {
		actual, has := entity.actual[year], entity.hasActual[year]
		if !has {
			actual = prevActual + prevActual*s.growthRate/100
		}
		value := ImpactRowValue{
			Year:        year,
			Kind:        kind,
			Value:       actual,
			IsProjected: year > lastYearWithData,
		}
		switch kind {
		case KindActualVsScenario:
			compared := actual + entity.compared[year]
			if !has {
				compared = prevCompared + prevCompared*s.growthRate/100
				prevCompared = compared
			} else {
				prevCompared = compared
			}
			value.ComparedScenarioValue = compared
			value.AbsoluteDifference = compared - actual
			value.PercentageDifference = percentageDiff(actual, compared)
		case KindScenarioVsScenario:
			base := actual + entity.base[year]
			compared := actual + entity.compared[year]
			if !has {
				base = prevBase + prevBase*s.growthRate/100
				compared = prevCompared + prevCompared*s.growthRate/100
			}
			prevBase, prevCompared = base, compared
			value.BaseScenarioValue = base
			value.ComparedScenarioValue = compared
			value.AbsoluteDifference = compared - base
			value.PercentageDifference = percentageDiff(base, compared)
		}
		prevActual = actual
		values = append(values, value)
	}
	return values
}

func emptyValues(params ImpactTableParams, lastYearWithData int, kind RowValueKind) []ImpactRowValue {
	values := make([]ImpactRowValue, 0, params.EndYear-params.StartYear+1)
	for year := params.StartYear; year <= params.EndYear; year++ {
		values = append(values, ImpactRowValue{
			Year:        year,
			Kind:        kind,
			IsProjected: year > lastYearWithData,
		})
	}
	return values
}

// aggregateChildren folds child values into their parent, index-aligned by
// year. A parent year is projected if any contribution is.
func aggregateChildren(node *ImpactTableRowNode) {
	for _, child := range node.Children {
		aggregateChildren(child)
		for i := range node.Values {
			if i >= len(child.Values) {
				break
			}
			node.Values[i].Value += child.Values[i].Value
			node.Values[i].BaseScenarioValue += child.Values[i].BaseScenarioValue
			node.Values[i].ComparedScenarioValue += child.Values[i].ComparedScenarioValue
			node.Values[i].AbsoluteDifference += child.Values[i].AbsoluteDifference
			node.Values[i].IsProjected = node.Values[i].IsProjected || child.Values[i].IsProjected
		}
	}
	if len(node.Children) > 0 {
		for i := range node.Values {
			switch node.Values[i].Kind {
			case KindActualVsScenario:
				node.Values[i].PercentageDifference = percentageDiff(node.Values[i].Value, node.Values[i].ComparedScenarioValue)
			case KindScenarioVsScenario:
				node.Values[i].PercentageDifference = percentageDiff(node.Values[i].BaseScenarioValue, node.Values[i].ComparedScenarioValue)
			}
		}
	}
}

func sortRowsRecursively(rows []*ImpactTableRowNode) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	for _, row := range rows {
		sortRowsRecursively(row.Children)
	}
}

func sumTopLevel(rows []*ImpactTableRowNode, params ImpactTableParams) []YearSumValue {
	sums := make([]YearSumValue, 0, params.EndYear-params.StartYear+1)
	for i, year := 0, params.StartYear; year <= params.EndYear; i, year = i+1, year+1 {
		sum := YearSumValue{Year: year}
		for _, row := range rows {
			if i < len(row.Values) {
				sum.Value += row.Values[i].Value
				sum.IsProjected = sum.IsProjected || row.Values[i].IsProjected
			}
		}
		sums = append(sums, sum)
	}
	return sums
}

func (s *impactTableService) projectTonnage(tonnage []sourcing.TonnageByYear, params ImpactTableParams) []YearSumValue {
	byYear := make(map[int]float64, len(tonnage))
	lastYearWithData := 0
	for _, t := range tonnage {
		byYear[t.Year] = t.Tonnage
		if t.Year > lastYearWithData {
			lastYearWithData = t.Year
		}
	}

	values := make([]YearSumValue, 0, params.EndYear-params.StartYear+1)
	var prev float64
	for year := params.StartYear; year <= params.EndYear; year++ {
		value, ok := byYear[year]
		if !ok {
			value = prev + prev*s.growthRate/100
		}
		values = append(values, YearSumValue{
			Year:        year,
			Value:       value,
			IsProjected: year > lastYearWithData,
		})
		prev = value
	}
	return values
}

// rankRows keeps the top entities by impact in the final year and folds the
// rest into an aggregate.
func rankRows(byIndicator *ImpactTableByIndicator, params ImpactTableParams, maxRankingEntities int, order RankingOrder) {
	lastIndex := params.EndYear - params.StartYear
	rowValueAt := func(row *ImpactTableRowNode) float64 {
		if lastIndex < len(row.Values) {
			return row.Values[lastIndex].Value
		}
		return 0
	}
	sort.SliceStable(byIndicator.Rows, func(i, j int) bool {
		if order == RankingAscending {
			return rowValueAt(byIndicator.Rows[i]) < rowValueAt(byIndicator.Rows[j])
		}
		return rowValueAt(byIndicator.Rows[i]) > rowValueAt(byIndicator.Rows[j])
	})

	if len(byIndicator.Rows) <= maxRankingEntities {
		return
	}

	folded := byIndicator.Rows[maxRankingEntities:]
	byIndicator.Rows = byIndicator.Rows[:maxRankingEntities]

	others := &OthersRanking{NumberOfAggregatedEntities: len(folded)}
	for i, year := 0, params.StartYear; year <= params.EndYear; i, year = i+1, year+1 {
		sum := YearSumValue{Year: year}
		for _, row := range folded {
			if i < len(row.Values) {
				sum.Value += row.Values[i].Value
				sum.IsProjected = sum.IsProjected || row.Values[i].IsProjected
			}
		}
		others.AggregatedValues = append(others.AggregatedValues, sum)
	}
	byIndicator.Others = others
}

// percentageDiff guards the division so an empty baseline compares as 0
// instead of infinity.
func percentageDiff(baseline, compared float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (compared - baseline) / baseline * 100
}
