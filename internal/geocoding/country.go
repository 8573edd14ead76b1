package geocoding

import (
	"fmt"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

func (r *Resolver) geoCodeCountryOfProduction(dbc dbctx.Context, location *types.SourcingLocation) error {
	if location.LocationCountryInput == "" {
		return fmt.Errorf("a country where material is received needs to be provided for country of production location type")
	}

	adminRegion, err := r.adminRegions.GetCountryByName(dbc, location.LocationCountryInput)
	if err != nil {
		return fmt.Errorf("failed to resolve country %q: %w", location.LocationCountryInput, err)
	}
	location.AdminRegionID = &adminRegion.ID
	location.GeoRegionID = adminRegion.GeoRegionID
	return nil
}

// An administrative region of production names a sub-national region in the
// address column. The region is matched by name at level 1.
func (r *Resolver) geoCodeAdminRegionOfProduction(dbc dbctx.Context, location *types.SourcingLocation) error {
	if location.LocationCountryInput == "" {
		return fmt.Errorf("a country where material is received needs to be provided for administrative region of production location type")
	}
	if location.LocationAddressInput == "" {
		return fmt.Errorf("an administrative region name needs to be provided for administrative region of production location type")
	}

	adminRegion, err := r.adminRegions.GetByNameAndLevel(dbc, location.LocationAddressInput, 1)
	if err != nil {
		return fmt.Errorf("failed to resolve administrative region %q: %w", location.LocationAddressInput, err)
	}
	location.AdminRegionID = &adminRegion.ID
	location.GeoRegionID = adminRegion.GeoRegionID
	return nil
}

// EUDR locations ship their own plot geometries, so only the origin country
// gets resolved.
func (r *Resolver) geoCodeEUDR(dbc dbctx.Context, location *types.SourcingLocation) error {
	if location.LocationCountryInput == "" {
		return fmt.Errorf("a country where material is received needs to be provided for EUDR location type")
	}

	adminRegion, err := r.adminRegions.GetCountryByName(dbc, location.LocationCountryInput)
	if err != nil {
		return fmt.Errorf("failed to resolve country %q: %w", location.LocationCountryInput, err)
	}
	location.AdminRegionID = &adminRegion.ID
	return nil
}
