package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
)

func SeedMaterial(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Material {
	tb.Helper()
	m := &types.Material{
		ID:     uuid.New(),
		Name:   name,
		Status: "active",
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed material: %v", err)
	}
	return m
}

func SeedCountry(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, lat, lng float64) *types.AdminRegion {
	tb.Helper()
	ar := &types.AdminRegion{
		ID:        uuid.New(),
		Name:      name,
		Level:     0,
		Latitude:  lat,
		Longitude: lng,
	}
	if err := tx.WithContext(ctx).Create(ar).Error; err != nil {
		tb.Fatalf("seed country: %v", err)
	}
	return ar
}

func SeedSupplier(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Supplier {
	tb.Helper()
	s := &types.Supplier{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed supplier: %v", err)
	}
	return s
}

func SeedIndicator(tb testing.TB, ctx context.Context, tx *gorm.DB, nameCode types.IndicatorType, unit string) *types.Indicator {
	tb.Helper()
	ind := &types.Indicator{
		ID:        uuid.New(),
		Name:      string(nameCode),
		ShortName: string(nameCode),
		NameCode:  nameCode,
		Unit:      unit,
		Status:    types.IndicatorActive,
	}
	if err := tx.WithContext(ctx).Create(ind).Error; err != nil {
		tb.Fatalf("seed indicator: %v", err)
	}
	return ind
}

func SeedSourcingLocation(tb testing.TB, ctx context.Context, tx *gorm.DB, materialID uuid.UUID, locationType types.LocationType) *types.SourcingLocation {
	tb.Helper()
	sl := &types.SourcingLocation{
		ID:                   uuid.New(),
		LocationType:         locationType,
		LocationCountryInput: "Testland",
		MaterialID:           materialID,
	}
	if err := tx.WithContext(ctx).Create(sl).Error; err != nil {
		tb.Fatalf("seed sourcing location: %v", err)
	}
	return sl
}

func SeedSourcingRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, locationID uuid.UUID, year int, tonnage float64) *types.SourcingRecord {
	tb.Helper()
	sr := &types.SourcingRecord{
		ID:                 uuid.New(),
		SourcingLocationID: locationID,
		Year:               year,
		Tonnage:            tonnage,
	}
	if err := tx.WithContext(ctx).Create(sr).Error; err != nil {
		tb.Fatalf("seed sourcing record: %v", err)
	}
	return sr
}

func SeedIndicatorRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, indicatorID, sourcingRecordID uuid.UUID, value float64) *types.IndicatorRecord {
	tb.Helper()
	ir := &types.IndicatorRecord{
		ID:               uuid.New(),
		IndicatorID:      indicatorID,
		SourcingRecordID: sourcingRecordID,
		Value:            value,
		Status:           types.RecordSuccess,
	}
	if err := tx.WithContext(ctx).Create(ir).Error; err != nil {
		tb.Fatalf("seed indicator record: %v", err)
	}
	return ir
}
