package sourcing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

func TestSaveChunksHonorsOuterTransaction(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	material := testutil.SeedMaterial(t, ctx, tx, "Cotton")

	locations := make([]*types.SourcingLocation, 0, 7)
	for i := 0; i < 7; i++ {
		locations = append(locations, &types.SourcingLocation{
			ID:                   uuid.New(),
			LocationType:         types.LocationCountryOfProduction,
			LocationCountryInput: "Testland",
			MaterialID:           material.ID,
		})
	}

	var progress []float64
	err := SaveChunks(dbc, gdb, locations, 3, 0, func(p float64) {
		progress = append(progress, p)
	})
	if err != nil {
		t.Fatalf("save chunks: %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&types.SourcingLocation{}).Count(&count).Error; err != nil {
		t.Fatalf("count locations: %v", err)
	}
	if count != 7 {
		t.Fatalf("locations saved: got=%d want=7", count)
	}

	// 7 rows in chunks of 3 is three batches.
	want := []float64{100.0 / 3, 200.0 / 3, 100}
	if len(progress) != len(want) {
		t.Fatalf("progress callbacks: got=%v want=%v", progress, want)
	}
	for i := range want {
		if diff := progress[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("progress[%d]: got=%v want=%v", i, progress[i], want[i])
		}
	}
}

func TestSaveChunksRollsBackEarlierChunksOnFailure(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}

	materialID := uuid.New()
	locations := make([]*types.SourcingLocation, 0, 5)
	for i := 0; i < 5; i++ {
		locations = append(locations, &types.SourcingLocation{
			ID:                   uuid.New(),
			LocationType:         types.LocationCountryOfProduction,
			LocationCountryInput: "Testland",
			MaterialID:           materialID,
		})
	}
	// The last row reuses the first id, so with chunks of 2 the third
	// batch hits a duplicate key after two batches were written.
	locations[4].ID = locations[0].ID

	err := SaveChunks(dbc, gdb, locations, 2, 0, nil)
	if err == nil {
		t.Fatal("save chunks: got=nil want=duplicate key error")
	}

	ids := make([]uuid.UUID, 0, len(locations))
	for _, location := range locations {
		ids = append(ids, location.ID)
	}
	var count int64
	if err := gdb.WithContext(ctx).Model(&types.SourcingLocation{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		t.Fatalf("count locations: %v", err)
	}
	if count != 0 {
		t.Fatalf("rows surviving failed save: got=%d want=0", count)
	}
}
