package services

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
)

func testTableService(t *testing.T) *impactTableService {
	t.Helper()
	return &impactTableService{growthRate: 1.5, log: testLogger(t)}
}

func TestProjectSeriesFillsMissingYearsWithGrowthRate(t *testing.T) {
	t.Parallel()
	svc := testTableService(t)

	entity := &entitySeries{
		actual:    map[int]float64{2019: 100, 2020: 200},
		hasActual: map[int]bool{2019: true, 2020: true},
	}
	params := ImpactTableParams{StartYear: 2019, EndYear: 2022}
	values := svc.projectSeries(entity, params, 2020, KindActual)

	if len(values) != 4 {
		t.Fatalf("unexpected value count: got=%d want=4", len(values))
	}
	if values[0].Value != 100 || values[0].IsProjected {
		t.Fatalf("2019: got=(%v,%v) want=(100,false)", values[0].Value, values[0].IsProjected)
	}
	if values[1].Value != 200 || values[1].IsProjected {
		t.Fatalf("2020: got=(%v,%v) want=(200,false)", values[1].Value, values[1].IsProjected)
	}
	want2021 := 200 + 200*1.5/100
	if math.Abs(values[2].Value-want2021) > 1e-9 || !values[2].IsProjected {
		t.Fatalf("2021: got=(%v,%v) want=(%v,true)", values[2].Value, values[2].IsProjected, want2021)
	}
	want2022 := want2021 + want2021*1.5/100
	if math.Abs(values[3].Value-want2022) > 1e-9 || !values[3].IsProjected {
		t.Fatalf("2022: got=(%v,%v) want=(%v,true)", values[3].Value, values[3].IsProjected, want2022)
	}
}

func TestProjectSeriesGapYearIsNotFlaggedProjected(t *testing.T) {
	t.Parallel()
	svc := testTableService(t)

	entity := &entitySeries{
		actual:    map[int]float64{2019: 100, 2021: 300},
		hasActual: map[int]bool{2019: true, 2021: true},
	}
	params := ImpactTableParams{StartYear: 2019, EndYear: 2021}
	values := svc.projectSeries(entity, params, 2021, KindActual)

	// The 2020 gap is filled by continuation but 2021 still has real data,
	// so nothing in the range counts as projected.
	if values[1].IsProjected {
		t.Fatalf("gap year flagged projected")
	}
	want := 100 + 100*1.5/100
	if math.Abs(values[1].Value-want) > 1e-9 {
		t.Fatalf("gap year value: got=%v want=%v", values[1].Value, want)
	}
}

func TestCollectSeriesMergesScenarioDeltasByEntityAndYear(t *testing.T) {
	t.Parallel()

	indicatorID := uuid.New()
	actual := []sourcing.ImpactTableRow{
		{IndicatorID: indicatorID, Year: 2020, Name: "Cotton", Impact: 100},
	}
	compared := []sourcing.ImpactTableRow{
		{IndicatorID: indicatorID, Year: 2020, Name: "Cotton", Impact: -30},
		{IndicatorID: indicatorID, Year: 2020, Name: "Linen", Impact: 30},
	}
	series, lastYear := collectSeries(indicatorID, actual, nil, compared)

	if lastYear != 2020 {
		t.Fatalf("lastYearWithData: got=%d want=2020", lastYear)
	}
	cotton, ok := series["Cotton"]
	if !ok {
		t.Fatalf("missing Cotton entity")
	}
	if cotton.actual[2020] != 100 || cotton.compared[2020] != -30 {
		t.Fatalf("cotton series: actual=%v compared=%v", cotton.actual[2020], cotton.compared[2020])
	}
	// Linen only exists in the scenario; its actual value stays zero.
	linen, ok := series["Linen"]
	if !ok {
		t.Fatalf("missing Linen entity")
	}
	if linen.actual[2020] != 0 || linen.compared[2020] != 30 {
		t.Fatalf("linen series: actual=%v compared=%v", linen.actual[2020], linen.compared[2020])
	}
}

func TestProjectSeriesComputesScenarioComparison(t *testing.T) {
	t.Parallel()
	svc := testTableService(t)

	entity := &entitySeries{
		actual:    map[int]float64{2020: 100},
		compared:  map[int]float64{2020: -25},
		base:      map[int]float64{},
		hasActual: map[int]bool{2020: true},
	}
	params := ImpactTableParams{StartYear: 2020, EndYear: 2020}
	values := svc.projectSeries(entity, params, 2020, KindActualVsScenario)

	value := values[0]
	if value.Value != 100 || value.ComparedScenarioValue != 75 {
		t.Fatalf("comparison values: actual=%v compared=%v", value.Value, value.ComparedScenarioValue)
	}
	if value.AbsoluteDifference != -25 {
		t.Fatalf("absolute difference: got=%v want=-25", value.AbsoluteDifference)
	}
	if math.Abs(value.PercentageDifference-(-25)) > 1e-9 {
		t.Fatalf("percentage difference: got=%v want=-25", value.PercentageDifference)
	}
}

func TestBuildRowsAggregatesChildrenIntoParents(t *testing.T) {
	t.Parallel()
	svc := testTableService(t)

	parentName := "Europe"
	series := map[string]*entitySeries{
		"Spain": {
			name: "Spain", parentName: parentName,
			actual:    map[int]float64{2020: 10},
			hasActual: map[int]bool{2020: true},
		},
		"France": {
			name: "France", parentName: parentName,
			actual:    map[int]float64{2020: 20},
			hasActual: map[int]bool{2020: true},
		},
	}
	params := ImpactTableParams{StartYear: 2020, EndYear: 2020}
	rows := svc.buildRows(series, params, 2020, KindActual)

	if len(rows) != 1 {
		t.Fatalf("unexpected root count: got=%d want=1", len(rows))
	}
	root := rows[0]
	if root.Name != parentName {
		t.Fatalf("root name: got=%q want=%q", root.Name, parentName)
	}
	if root.Values[0].Value != 30 {
		t.Fatalf("parent aggregate: got=%v want=30", root.Values[0].Value)
	}
	if len(root.Children) != 2 {
		t.Fatalf("unexpected child count: got=%d want=2", len(root.Children))
	}
}

func TestRankRowsFoldsTailIntoOthers(t *testing.T) {
	t.Parallel()

	params := ImpactTableParams{StartYear: 2020, EndYear: 2020}
	byIndicator := &ImpactTableByIndicator{
		Rows: []*ImpactTableRowNode{
			{Name: "A", Values: []ImpactRowValue{{Year: 2020, Value: 5}}},
			{Name: "B", Values: []ImpactRowValue{{Year: 2020, Value: 50}}},
			{Name: "C", Values: []ImpactRowValue{{Year: 2020, Value: 20}}},
			{Name: "D", Values: []ImpactRowValue{{Year: 2020, Value: 10, IsProjected: true}}},
		},
	}
	rankRows(byIndicator, params, 2, RankingDescending)

	if len(byIndicator.Rows) != 2 {
		t.Fatalf("unexpected kept rows: got=%d want=2", len(byIndicator.Rows))
	}
	if byIndicator.Rows[0].Name != "B" || byIndicator.Rows[1].Name != "C" {
		t.Fatalf("unexpected ranking order: %s, %s", byIndicator.Rows[0].Name, byIndicator.Rows[1].Name)
	}
	if byIndicator.Others == nil {
		t.Fatalf("missing others aggregate")
	}
	if byIndicator.Others.NumberOfAggregatedEntities != 2 {
		t.Fatalf("aggregated entities: got=%d want=2", byIndicator.Others.NumberOfAggregatedEntities)
	}
	aggregated := byIndicator.Others.AggregatedValues[0]
	if aggregated.Value != 15 || !aggregated.IsProjected {
		t.Fatalf("others values: got=(%v,%v) want=(15,true)", aggregated.Value, aggregated.IsProjected)
	}
}

func TestPercentageDiffGuardsZeroBaseline(t *testing.T) {
	t.Parallel()

	if got := percentageDiff(0, 50); got != 0 {
		t.Fatalf("zero baseline: got=%v want=0", got)
	}
	if got := percentageDiff(100, 150); got != 50 {
		t.Fatalf("percentage: got=%v want=50", got)
	}
}
