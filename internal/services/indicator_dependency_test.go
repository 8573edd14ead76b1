package services

import (
	"errors"
	"strings"
	"testing"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
)

func testDependencyService(t *testing.T) IndicatorDependencyService {
	t.Helper()
	return NewIndicatorDependencyService(testLogger(t))
}

func TestBuildQueryForInterventionDeduplicatesSharedDependencies(t *testing.T) {
	t.Parallel()
	svc := testDependencyService(t)

	// Deforestation and climate risk share weightedAllHarvest.
	query, err := svc.BuildQueryForIntervention([]types.IndicatorType{
		types.IndicatorDeforestationRisk,
		types.IndicatorClimateRisk,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := strings.Count(query, `"weightedAllHarvest"`); got != 1 {
		t.Fatalf("weightedAllHarvest selected %d times, want 1\nquery: %s", got, query)
	}
	for _, name := range []string{`"rawDeforestation"`, `"rawCarbon"`} {
		if !strings.Contains(query, name) {
			t.Fatalf("query is missing %s\nquery: %s", name, query)
		}
	}
}

func TestBuildQueryIsIndependentOfIndicatorOrder(t *testing.T) {
	t.Parallel()
	svc := testDependencyService(t)

	forward, err := svc.BuildQueryForIntervention([]types.IndicatorType{
		types.IndicatorLandUse,
		types.IndicatorWaterUse,
		types.IndicatorUnsustWaterUse,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reversed, err := svc.BuildQueryForIntervention([]types.IndicatorType{
		types.IndicatorUnsustWaterUse,
		types.IndicatorWaterUse,
		types.IndicatorLandUse,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if forward != reversed {
		t.Fatalf("query depends on indicator order:\nforward:  %s\nreversed: %s", forward, reversed)
	}
}

func TestBuildQueryForImportBindsLocationColumns(t *testing.T) {
	t.Parallel()
	svc := testDependencyService(t)

	dto, err := svc.BuildQueryForImport([]types.IndicatorType{types.IndicatorLandUse})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(dto.Query, "$1") || strings.Contains(dto.Query, "$2") || strings.Contains(dto.Query, "$3") {
		t.Fatalf("import query still has positional placeholders: %s", dto.Query)
	}
	for _, column := range []string{
		"sourcing_location.geo_region_id",
		"sourcing_location.material_id",
		"sourcing_location.admin_region_id",
	} {
		if !strings.Contains(dto.Query, column) {
			t.Fatalf("import query is missing %s: %s", column, dto.Query)
		}
	}
	want := []string{`"harvestedArea"`, `"production"`}
	if len(dto.Params) != len(want) {
		t.Fatalf("unexpected params: got=%v want=%v", dto.Params, want)
	}
	for i, param := range want {
		if dto.Params[i] != param {
			t.Fatalf("unexpected params: got=%v want=%v", dto.Params, want)
		}
	}
}

func TestBuildQueryRejectsUnknownIndicator(t *testing.T) {
	t.Parallel()
	svc := testDependencyService(t)

	_, err := svc.BuildQueryForIntervention([]types.IndicatorType{types.IndicatorType("NOT_A_THING")})
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unexpected error: got=%v want ErrInvalidArgument", err)
	}
}

func TestDependencyNamesMatchFormulaInputs(t *testing.T) {
	t.Parallel()
	svc := testDependencyService(t)

	cases := map[types.IndicatorType][]string{
		types.IndicatorLandUse:              {"production", "harvestedArea"},
		types.IndicatorSatDeforestation:     {"satDeforestation"},
		types.IndicatorUnsustWaterUse:       {"waterStressPerct", "rawWater"},
		types.IndicatorSatDeforestationRisk: {"satDeforestationRisk"},
	}
	for nameCode, want := range cases {
		got := svc.DependencyNames(nameCode)
		if len(got) != len(want) {
			t.Fatalf("%s: unexpected dependencies: got=%v want=%v", nameCode, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("%s: unexpected dependencies: got=%v want=%v", nameCode, got, want)
			}
		}
	}
}
