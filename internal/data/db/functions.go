package db

import (
	"fmt"

	"gorm.io/gorm"
)

// The raw value expressions behind the indicator coefficients call SQL
// functions that aggregate H3 grid data over a geo region. The real
// implementations ship with the data platform deployment together with
// the grid tables they read. These placeholders return zero so the
// impact calculation stays runnable on a database that has not received
// that deployment yet.
var impactFunctions = []struct {
	name string
	ddl  string
}{
	{
		name: "sum_material_over_georegion",
		ddl: `CREATE FUNCTION sum_material_over_georegion(geo_region_id uuid, material_id uuid, h3_data_type text)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "sum_weighted_deforestation_over_georegion",
		ddl: `CREATE FUNCTION sum_weighted_deforestation_over_georegion(geo_region_id uuid, material_id uuid, h3_data_type text)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "sum_weighted_carbon_over_georegion",
		ddl: `CREATE FUNCTION sum_weighted_carbon_over_georegion(geo_region_id uuid, material_id uuid, h3_data_type text)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "sum_h3_weighted_cropland_area",
		ddl: `CREATE FUNCTION sum_h3_weighted_cropland_area(geo_region_id uuid, material_id uuid, h3_data_type text)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "get_blwf_impact",
		ddl: `CREATE FUNCTION get_blwf_impact(admin_region_id uuid, material_id uuid)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "get_percentage_water_stress_area",
		ddl: `CREATE FUNCTION get_percentage_water_stress_area(geo_region_id uuid)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "sum_satelligence_deforestation_over_georegion",
		ddl: `CREATE FUNCTION sum_satelligence_deforestation_over_georegion(geo_region_id uuid)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
	{
		name: "sum_satelligence_deforestation_risk_over_georegion",
		ddl: `CREATE FUNCTION sum_satelligence_deforestation_risk_over_georegion(geo_region_id uuid)
			RETURNS double precision LANGUAGE sql AS 'SELECT 0::double precision'`,
	},
}

// SeedImpactFunctions creates the aggregate functions the impact queries
// call, skipping any the data platform already installed. Safe to run on
// every boot. No-op outside postgres.
func SeedImpactFunctions(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	for _, function := range impactFunctions {
		stmt := fmt.Sprintf(`DO $seed$ BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_proc WHERE proname = '%s') THEN
				%s;
			END IF;
		END $seed$`, function.name, function.ddl)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to seed impact function %s: %w", function.name, err)
		}
	}
	return nil
}
