package geocoding

import (
	"fmt"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

// An aggregation point covers a wider area: a 50km radius around the given
// coordinates, or around the geocoded address. An address that resolves to a
// first-order admin area snaps onto that region instead.
func (r *Resolver) geoCodeAggregationPoint(dbc dbctx.Context, location *types.SourcingLocation) error {
	if hasBothAddressAndCoordinates(location) {
		return fmt.Errorf(
			"for country %s both address %q and coordinates %v, %v have been provided; either an address or coordinates can be provided for an aggregation point location type",
			location.LocationCountryInput,
			location.LocationAddressInput,
			*location.LocationLatitude,
			*location.LocationLongitude,
		)
	}

	if hasCoordinates(location) {
		return r.resolveRadius(dbc, location, *location.LocationLatitude, *location.LocationLongitude)
	}

	if location.LocationAddressInput == "" {
		return fmt.Errorf("an address or coordinates need to be provided for an aggregation point location type")
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

	if response.IsAdminLevel1() {
		adminRegion, err := r.adminRegions.GetClosestByCoordinates(dbc, lat, lng)
		if err != nil {
			return fmt.Errorf("failed to resolve admin region for coordinates %f, %f: %w", lat, lng, err)
		}
		location.AdminRegionID = &adminRegion.ID
		location.GeoRegionID = adminRegion.GeoRegionID
		return nil
	}

	return r.resolveRadius(dbc, location, lat, lng)
}

func (r *Resolver) resolveRadius(dbc dbctx.Context, location *types.SourcingLocation, lat, lng float64) error {
	geoRegion, err := r.geoRegions.SaveAsRadius(dbc, location.LocationCountryInput, lat, lng)
	if err != nil {
		return fmt.Errorf("failed to save radius geo region: %w", err)
	}

	adminRegion, err := r.adminRegions.GetCountryByName(dbc, location.LocationCountryInput)
	if err != nil {
		if deleteErr := r.geoRegions.DeleteByID(dbc, geoRegion.ID); deleteErr != nil {
			r.log.Error("Failed to delete geo region after country lookup failure", "geo_region_id", geoRegion.ID, "error", deleteErr)
		}
		return fmt.Errorf("failed to resolve country %q: %w", location.LocationCountryInput, err)
	}

	location.GeoRegionID = &geoRegion.ID
	location.AdminRegionID = &adminRegion.ID
	return nil
}
