package services

import (
	"math"
	"testing"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
)

func testCalculator(t *testing.T) ImpactCalculatorService {
	t.Helper()
	log := testLogger(t)
	return NewImpactCalculatorService(nil, nil, nil, NewIndicatorDependencyService(log), log)
}

func TestComputeValueFormulas(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)

	raw := RawValues{
		"production":           200,
		"harvestedArea":        50,
		"rawDeforestation":     8,
		"rawCarbon":            4,
		"weightedAllHarvest":   16,
		"rawWater":             2.5,
		"waterStressPerct":     40,
		"satDeforestation":     12,
		"satDeforestationRisk": 0.7,
	}
	tonnage := 100.0

	cases := []struct {
		nameCode types.IndicatorType
		want     float64
	}{
		{types.IndicatorLandUse, 50.0 / 200.0 * 100},
		{types.IndicatorDeforestationRisk, 8.0 / 16.0 * 100},
		{types.IndicatorClimateRisk, 4.0 / 16.0 * 100},
		{types.IndicatorWaterUse, 2.5 * 100},
		{types.IndicatorUnsustWaterUse, 2.5 * 100 * 40 / 100},
		{types.IndicatorSatDeforestation, 12},
		{types.IndicatorSatDeforestationRisk, 0.7},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.nameCode), func(t *testing.T) {
			t.Parallel()
			got := calc.ComputeValue(tc.nameCode, raw, tonnage)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ComputeValue(%s): got=%v want=%v", tc.nameCode, got, tc.want)
			}
		})
	}
}

func TestComputeValueGuardsDivisionByZero(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)

	raw := RawValues{"harvestedArea": 50, "production": 0, "rawDeforestation": 3, "weightedAllHarvest": 0}
	if got := calc.ComputeValue(types.IndicatorLandUse, raw, 100); got != 0 {
		t.Fatalf("land use with zero production: got=%v want=0", got)
	}
	if got := calc.ComputeValue(types.IndicatorDeforestationRisk, raw, 100); got != 0 {
		t.Fatalf("deforestation with zero harvest: got=%v want=0", got)
	}
}

func TestComputeValueMissingRawValuesYieldZero(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)

	if got := calc.ComputeValue(types.IndicatorWaterUse, RawValues{}, 100); got != 0 {
		t.Fatalf("water use without raw data: got=%v want=0", got)
	}
}

func TestComputeValueUnknownIndicatorIsZero(t *testing.T) {
	t.Parallel()
	calc := testCalculator(t)

	if got := calc.ComputeValue(types.IndicatorType("NOT_A_THING"), RawValues{"rawWater": 5}, 100); got != 0 {
		t.Fatalf("unknown indicator: got=%v want=0", got)
	}
}
