package geocoding

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

type fakeGeoRegionRepo struct {
	savedPoints   int
	savedRadiuses int
	deletedIDs    []uuid.UUID
	saveErr       error
}

func (f *fakeGeoRegionRepo) SaveAsPoint(_ dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.savedPoints++
	return &types.GeoRegion{ID: uuid.New(), Name: name}, nil
}

func (f *fakeGeoRegionRepo) SaveAsRadius(_ dbctx.Context, name string, lat, lng float64) (*types.GeoRegion, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.savedRadiuses++
	return &types.GeoRegion{ID: uuid.New(), Name: name}, nil
}

func (f *fakeGeoRegionRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.GeoRegion, error) {
	return &types.GeoRegion{ID: id}, nil
}

func (f *fakeGeoRegionRepo) DeleteByID(_ dbctx.Context, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeGeoRegionRepo) DeleteCreatedByUser(_ dbctx.Context) error { return nil }

type fakeAdminRegionRepo struct {
	countries     map[string]*types.AdminRegion
	level1        map[string]*types.AdminRegion
	closest       *types.AdminRegion
	closestErr    error
	countryLookup int
}

func (f *fakeAdminRegionRepo) Create(_ dbctx.Context, regions []*types.AdminRegion) ([]*types.AdminRegion, error) {
	return regions, nil
}

func (f *fakeAdminRegionRepo) GetByID(_ dbctx.Context, id uuid.UUID) (*types.AdminRegion, error) {
	return nil, pkgerrors.ErrNotFound
}

func (f *fakeAdminRegionRepo) GetCountryByName(_ dbctx.Context, name string) (*types.AdminRegion, error) {
	f.countryLookup++
	if region, ok := f.countries[name]; ok {
		return region, nil
	}
	return nil, fmt.Errorf("country %s: %w", name, pkgerrors.ErrNotFound)
}

func (f *fakeAdminRegionRepo) GetByNameAndLevel(_ dbctx.Context, name string, level int) (*types.AdminRegion, error) {
	if region, ok := f.level1[name]; ok && level == 1 {
		return region, nil
	}
	return nil, fmt.Errorf("admin region %s: %w", name, pkgerrors.ErrNotFound)
}

func (f *fakeAdminRegionRepo) GetClosestByCoordinates(_ dbctx.Context, lat, lng float64) (*types.AdminRegion, error) {
	if f.closestErr != nil {
		return nil, f.closestErr
	}
	return f.closest, nil
}

func (f *fakeAdminRegionRepo) FindAll(_ dbctx.Context) ([]*types.AdminRegion, error) {
	return nil, nil
}

type fakeGeocoder struct {
	response *Response
	err      error
}

func (f *fakeGeocoder) GeocodeByAddress(_ context.Context, _ string) (*Response, error) {
	return f.response, f.err
}

func (f *fakeGeocoder) GeocodeByCountry(_ context.Context, _ string) (*Response, error) {
	return f.response, f.err
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (*Response, error) {
	return f.response, f.err
}

func testResolver(t *testing.T, geoRegions *fakeGeoRegionRepo, adminRegions *fakeAdminRegionRepo, geocoder Geocoder) *Resolver {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return NewResolver(geoRegions, adminRegions, geocoder, log)
}

func floatPtr(v float64) *float64 { return &v }

func geocoderResponse(lat, lng float64, resultTypes ...string) *Response {
	result := Result{Types: resultTypes}
	result.Geometry.Location.Lat = lat
	result.Geometry.Location.Lng = lng
	return &Response{Status: "OK", Results: []Result{result}}
}

func TestPointOfProductionRejectsBothAddressAndCoordinates(t *testing.T) {
	t.Parallel()
	resolver := testResolver(t, &fakeGeoRegionRepo{}, &fakeAdminRegionRepo{}, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationPointOfProduction,
		LocationCountryInput: "Spain",
		LocationAddressInput: "Calle Mayor 1, Madrid",
		LocationLatitude:     floatPtr(40.4),
		LocationLongitude:    floatPtr(-3.7),
	}
	err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location)
	if err == nil || !strings.Contains(err.Error(), "either an address or coordinates") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPointOfProductionResolvesFromCoordinates(t *testing.T) {
	t.Parallel()

	adminRegion := &types.AdminRegion{ID: uuid.New()}
	geoRegions := &fakeGeoRegionRepo{}
	resolver := testResolver(t, geoRegions, &fakeAdminRegionRepo{closest: adminRegion}, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationPointOfProduction,
		LocationCountryInput: "Spain",
		LocationLatitude:     floatPtr(40.4),
		LocationLongitude:    floatPtr(-3.7),
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geoRegions.savedPoints != 1 {
		t.Fatalf("point geo regions saved: got=%d want=1", geoRegions.savedPoints)
	}
	if location.AdminRegionID == nil || *location.AdminRegionID != adminRegion.ID {
		t.Fatalf("admin region not assigned")
	}
	if location.GeoRegionID == nil {
		t.Fatalf("geo region not assigned")
	}
}

func TestPointOfProductionUndoesGeoRegionWhenAdminLookupFails(t *testing.T) {
	t.Parallel()

	geoRegions := &fakeGeoRegionRepo{}
	adminRegions := &fakeAdminRegionRepo{closestErr: pkgerrors.ErrNotFound}
	resolver := testResolver(t, geoRegions, adminRegions, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationPointOfProduction,
		LocationCountryInput: "Spain",
		LocationLatitude:     floatPtr(40.4),
		LocationLongitude:    floatPtr(-3.7),
	}
	err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if len(geoRegions.deletedIDs) != 1 {
		t.Fatalf("created geo region was not removed: deleted=%d", len(geoRegions.deletedIDs))
	}
	if location.GeoRegionID != nil || location.AdminRegionID != nil {
		t.Fatalf("failed row still carries region ids")
	}
}

func TestPointOfProductionRejectsCountryLevelAddress(t *testing.T) {
	t.Parallel()

	geocoder := &fakeGeocoder{response: geocoderResponse(40.4, -3.7, "country", "political")}
	resolver := testResolver(t, &fakeGeoRegionRepo{}, &fakeAdminRegionRepo{}, geocoder)

	location := &types.SourcingLocation{
		LocationType:         types.LocationPointOfProduction,
		LocationCountryInput: "Spain",
		LocationAddressInput: "Spain",
	}
	err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location)
	if err == nil || !strings.Contains(err.Error(), "is a country") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPointOfProductionKeepsPartialMatchWarning(t *testing.T) {
	t.Parallel()

	response := geocoderResponse(40.4, -3.7, "street_address")
	response.Results[0].PartialMatch = true
	response.Results[0].FormattedAddress = "Madrid, Spain"
	adminRegion := &types.AdminRegion{ID: uuid.New()}
	resolver := testResolver(t, &fakeGeoRegionRepo{}, &fakeAdminRegionRepo{closest: adminRegion}, &fakeGeocoder{response: response})

	location := &types.SourcingLocation{
		LocationType:         types.LocationPointOfProduction,
		LocationCountryInput: "Spain",
		LocationAddressInput: "Calle Inventada 1",
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(location.LocationWarning, "partially matched") {
		t.Fatalf("missing partial match warning: %q", location.LocationWarning)
	}
}

func TestAggregationPointSnapsToAdminLevel1(t *testing.T) {
	t.Parallel()

	geoRegionID := uuid.New()
	adminRegion := &types.AdminRegion{ID: uuid.New(), GeoRegionID: &geoRegionID}
	geoRegions := &fakeGeoRegionRepo{}
	geocoder := &fakeGeocoder{response: geocoderResponse(41.6, -0.9, "administrative_area_level_1", "political")}
	resolver := testResolver(t, geoRegions, &fakeAdminRegionRepo{closest: adminRegion}, geocoder)

	location := &types.SourcingLocation{
		LocationType:         types.LocationAggregationPoint,
		LocationCountryInput: "Spain",
		LocationAddressInput: "Aragon",
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Snapping onto the admin region reuses its geometry instead of
	// creating a radius.
	if geoRegions.savedRadiuses != 0 {
		t.Fatalf("radius geo regions saved: got=%d want=0", geoRegions.savedRadiuses)
	}
	if location.GeoRegionID == nil || *location.GeoRegionID != geoRegionID {
		t.Fatalf("geo region not taken from admin region")
	}
}

func TestAggregationPointFromCoordinatesCreatesRadius(t *testing.T) {
	t.Parallel()

	country := &types.AdminRegion{ID: uuid.New()}
	geoRegions := &fakeGeoRegionRepo{}
	adminRegions := &fakeAdminRegionRepo{countries: map[string]*types.AdminRegion{"Spain": country}}
	resolver := testResolver(t, geoRegions, adminRegions, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationAggregationPoint,
		LocationCountryInput: "Spain",
		LocationLatitude:     floatPtr(40.4),
		LocationLongitude:    floatPtr(-3.7),
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if geoRegions.savedRadiuses != 1 {
		t.Fatalf("radius geo regions saved: got=%d want=1", geoRegions.savedRadiuses)
	}
	if location.AdminRegionID == nil || *location.AdminRegionID != country.ID {
		t.Fatalf("country admin region not assigned")
	}
}

func TestCountryOfProductionResolvesByName(t *testing.T) {
	t.Parallel()

	geoRegionID := uuid.New()
	country := &types.AdminRegion{ID: uuid.New(), GeoRegionID: &geoRegionID}
	adminRegions := &fakeAdminRegionRepo{countries: map[string]*types.AdminRegion{"Ghana": country}}
	resolver := testResolver(t, &fakeGeoRegionRepo{}, adminRegions, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationCountryOfProduction,
		LocationCountryInput: "Ghana",
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if location.GeoRegionID == nil || *location.GeoRegionID != geoRegionID {
		t.Fatalf("country geometry not assigned")
	}
}

func TestUnknownLocationTypeFallsBackToCountry(t *testing.T) {
	t.Parallel()

	country := &types.AdminRegion{ID: uuid.New()}
	adminRegions := &fakeAdminRegionRepo{countries: map[string]*types.AdminRegion{"Ghana": country}}
	resolver := testResolver(t, &fakeGeoRegionRepo{}, adminRegions, &fakeGeocoder{})

	location := &types.SourcingLocation{
		LocationType:         types.LocationUnknown,
		LocationCountryInput: "Ghana",
	}
	if err := resolver.GeoCodeLocation(dbctx.Context{Ctx: context.Background()}, location); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adminRegions.countryLookup != 1 {
		t.Fatalf("country lookups: got=%d want=1", adminRegions.countryLookup)
	}
}

func TestGeoCodeLocationsCollectsFailuresWithoutStopping(t *testing.T) {
	t.Parallel()

	country := &types.AdminRegion{ID: uuid.New()}
	adminRegions := &fakeAdminRegionRepo{countries: map[string]*types.AdminRegion{"Ghana": country}}
	resolver := testResolver(t, &fakeGeoRegionRepo{}, adminRegions, &fakeGeocoder{})

	locations := []*types.SourcingLocation{
		{LocationType: types.LocationCountryOfProduction, LocationCountryInput: "Ghana"},
		{LocationType: types.LocationCountryOfProduction, LocationCountryInput: "Atlantis"},
		{LocationType: types.LocationCountryOfProduction, LocationCountryInput: "Ghana"},
	}
	failures := resolver.GeoCodeLocations(dbctx.Context{Ctx: context.Background()}, locations)

	if len(failures) != 1 {
		t.Fatalf("unexpected failure count: got=%d want=1", len(failures))
	}
	if failures[0].Row != 1 {
		t.Fatalf("unexpected failing row: got=%d want=1", failures[0].Row)
	}
	// The rows around the failure still resolved.
	if locations[0].AdminRegionID == nil || locations[2].AdminRegionID == nil {
		t.Fatalf("healthy rows did not resolve")
	}
}
