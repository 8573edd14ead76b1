package geocoding

import (
	"fmt"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// LocationError is a geocoding failure of one dataset row.
type LocationError struct {
	Row int   `json:"row"`
	Err error `json:"-"`
}

func (e LocationError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Resolver assigns an admin region and a geo region to sourcing locations
// based on their location type.
type Resolver struct {
	geoRegions   repos.GeoRegionRepo
	adminRegions repos.AdminRegionRepo
	geocoder     Geocoder
	log          *logger.Logger
}

func NewResolver(geoRegions repos.GeoRegionRepo, adminRegions repos.AdminRegionRepo, geocoder Geocoder, baseLog *logger.Logger) *Resolver {
	return &Resolver{
		geoRegions:   geoRegions,
		adminRegions: adminRegions,
		geocoder:     geocoder,
		log:          baseLog.With("service", "GeoCodingResolver"),
	}
}

// GeoCodeLocations resolves every location in place. A failing row does not
// stop the others; all failures come back so the caller can report them
// together.
func (r *Resolver) GeoCodeLocations(dbc dbctx.Context, locations []*types.SourcingLocation) []LocationError {
	var failures []LocationError
	for i, location := range locations {
		if err := r.GeoCodeLocation(dbc, location); err != nil {
			r.log.Warn("Failed to geocode sourcing location", "row", i, "location_type", location.LocationType, "error", err)
			failures = append(failures, LocationError{Row: i, Err: err})
		}
	}
	return failures
}

func (r *Resolver) GeoCodeLocation(dbc dbctx.Context, location *types.SourcingLocation) error {
	switch location.LocationType {
	case types.LocationPointOfProduction:
		return r.geoCodePointOfProduction(dbc, location)
	case types.LocationAggregationPoint:
		return r.geoCodeAggregationPoint(dbc, location)
	case types.LocationCountryOfProduction:
		return r.geoCodeCountryOfProduction(dbc, location)
	case types.LocationAdminRegionOfProduction:
		return r.geoCodeAdminRegionOfProduction(dbc, location)
	case types.LocationUnknown:
		return r.geoCodeCountryOfProduction(dbc, location)
	case types.LocationEUDR:
		return r.geoCodeEUDR(dbc, location)
	default:
		return fmt.Errorf("unsupported location type %q", location.LocationType)
	}
}

func hasBothAddressAndCoordinates(location *types.SourcingLocation) bool {
	return location.LocationAddressInput != "" &&
		location.LocationLatitude != nil && location.LocationLongitude != nil
}

func hasCoordinates(location *types.SourcingLocation) bool {
	return location.LocationLatitude != nil && location.LocationLongitude != nil
}
