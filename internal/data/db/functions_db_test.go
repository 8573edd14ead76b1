package db_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/db"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
)

func TestSeedImpactFunctionsMakesAggregateCallsRunnable(t *testing.T) {
	gdb := testutil.DB(t)

	if err := db.SeedImpactFunctions(gdb); err != nil {
		t.Fatalf("seed impact functions: got=%v want=nil", err)
	}
	// A second run must leave existing definitions alone instead of
	// failing on them.
	if err := db.SeedImpactFunctions(gdb); err != nil {
		t.Fatalf("seed impact functions again: got=%v want=nil", err)
	}

	geoRegionID := uuid.New()
	materialID := uuid.New()
	adminRegionID := uuid.New()

	calls := []struct {
		name  string
		query string
		args  []interface{}
	}{
		{"sum_material_over_georegion", "SELECT sum_material_over_georegion(?, ?, 'producer')", []interface{}{geoRegionID, materialID}},
		{"sum_weighted_deforestation_over_georegion", "SELECT sum_weighted_deforestation_over_georegion(?, ?, 'harvest')", []interface{}{geoRegionID, materialID}},
		{"sum_weighted_carbon_over_georegion", "SELECT sum_weighted_carbon_over_georegion(?, ?, 'harvest')", []interface{}{geoRegionID, materialID}},
		{"sum_h3_weighted_cropland_area", "SELECT sum_h3_weighted_cropland_area(?, ?, 'harvest')", []interface{}{geoRegionID, materialID}},
		{"get_blwf_impact", "SELECT get_blwf_impact(?, ?)", []interface{}{adminRegionID, materialID}},
		{"get_percentage_water_stress_area", "SELECT get_percentage_water_stress_area(?)", []interface{}{geoRegionID}},
		{"sum_satelligence_deforestation_over_georegion", "SELECT sum_satelligence_deforestation_over_georegion(?)", []interface{}{geoRegionID}},
		{"sum_satelligence_deforestation_risk_over_georegion", "SELECT sum_satelligence_deforestation_risk_over_georegion(?)", []interface{}{geoRegionID}},
	}
	for _, call := range calls {
		var value float64
		if err := gdb.Raw(call.query, call.args...).Scan(&value).Error; err != nil {
			t.Fatalf("%s: got=%v want=nil", call.name, err)
		}
	}
}
