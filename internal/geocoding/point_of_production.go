package geocoding

import (
	"fmt"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

// A point of production needs a country and either an address or
// coordinates, never both. The point geo region is created first; if the
// admin region cannot be resolved afterwards the region is removed again so
// a failed row leaves nothing behind.
func (r *Resolver) geoCodePointOfProduction(dbc dbctx.Context, location *types.SourcingLocation) error {
	if location.LocationCountryInput == "" {
		return fmt.Errorf("a country where material is received needs to be provided for point of production location type")
	}
	if hasBothAddressAndCoordinates(location) {
		return fmt.Errorf(
			"for country %s both address %q and coordinates %v, %v have been provided; either an address or coordinates can be provided for a point of production location type",
			location.LocationCountryInput,
			location.LocationAddressInput,
			*location.LocationLatitude,
			*location.LocationLongitude,
		)
	}

	if hasCoordinates(location) {
		return r.resolvePoint(dbc, location, *location.LocationLatitude, *location.LocationLongitude)
	}

	if location.LocationAddressInput == "" {
		return fmt.Errorf("an address or coordinates need to be provided for a point of production location type")
	}

	response, err := r.geocoder.GeocodeByAddress(dbc.Ctx, location.LocationAddressInput)
	if err != nil {
		return fmt.Errorf("failed to geocode address %q: %w", location.LocationAddressInput, err)
	}
	if response.IsCountry() {
		return fmt.Errorf("%q is a country, should be an address within a country", location.LocationAddressInput)
	}
	lat, lng, ok := response.Location()
	if !ok {
		return fmt.Errorf("address %q could not be geocoded", location.LocationAddressInput)
	}
	if warning := response.Warning(); warning != "" {
		location.LocationWarning = warning
	}
	return r.resolvePoint(dbc, location, lat, lng)
}

func (r *Resolver) resolvePoint(dbc dbctx.Context, location *types.SourcingLocation, lat, lng float64) error {
	geoRegion, err := r.geoRegions.SaveAsPoint(dbc, location.LocationCountryInput, lat, lng)
	if err != nil {
		return fmt.Errorf("failed to save point geo region: %w", err)
	}

	adminRegion, err := r.adminRegions.GetClosestByCoordinates(dbc, lat, lng)
	if err != nil {
		// Undo the region created above so the row fails cleanly.
		if deleteErr := r.geoRegions.DeleteByID(dbc, geoRegion.ID); deleteErr != nil {
			r.log.Error("Failed to delete geo region after admin region lookup failure", "geo_region_id", geoRegion.ID, "error", deleteErr)
		}
		return fmt.Errorf("failed to resolve admin region for coordinates %f, %f: %w", lat, lng, err)
	}

	location.GeoRegionID = &geoRegion.ID
	location.AdminRegionID = &adminRegion.ID
	return nil
}
