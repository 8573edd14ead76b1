package indicators

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

func TestGetAvailableYearsFiltersAndSorts(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewDataYearRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	indicator := testutil.SeedIndicator(t, ctx, tx, types.IndicatorLandUse, "ha")
	other := testutil.SeedIndicator(t, ctx, tx, types.IndicatorWaterUse, "m3")
	cotton := testutil.SeedMaterial(t, ctx, tx, "Cotton")
	rubber := testutil.SeedMaterial(t, ctx, tx, "Rubber")

	years := []*types.DataYear{
		{ID: uuid.New(), IndicatorID: &indicator.ID, MaterialID: &cotton.ID, Year: 2021},
		{ID: uuid.New(), IndicatorID: &indicator.ID, MaterialID: &cotton.ID, Year: 2019},
		{ID: uuid.New(), IndicatorID: &indicator.ID, MaterialID: &rubber.ID, Year: 2020},
		{ID: uuid.New(), IndicatorID: &other.ID, MaterialID: &cotton.ID, Year: 2018},
	}
	if _, err := repo.Create(dbc, years); err != nil {
		t.Fatalf("create data years: %v", err)
	}

	got, err := repo.GetAvailableYears(dbc, &indicator.ID, nil)
	if err != nil {
		t.Fatalf("available years for indicator: %v", err)
	}
	want := []int{2019, 2020, 2021}
	if len(got) != len(want) {
		t.Fatalf("years: got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("years: got=%v want=%v", got, want)
		}
	}

	got, err = repo.GetAvailableYears(dbc, &indicator.ID, []uuid.UUID{cotton.ID})
	if err != nil {
		t.Fatalf("available years for material: %v", err)
	}
	want = []int{2019, 2021}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("material years: got=%v want=%v", got, want)
	}
}
