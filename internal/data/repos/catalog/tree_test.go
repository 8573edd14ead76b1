package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	pkgerrors "github.com/landgriffon/landgriffon-backend/internal/pkg/errors"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
)

func TestBusinessUnitCreateTreeBuildsMaterializedPaths(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewBusinessUnitRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	nodes := []TreeNode{{
		Name: "Food",
		Children: []TreeNode{
			{Name: "Beverages", Children: []TreeNode{{Name: "Coffee"}}},
			{Name: "Snacks"},
		},
	}}
	ids, err := repo.CreateTree(dbc, nodes)
	if err != nil {
		t.Fatalf("create tree: %v", err)
	}

	for _, path := range []string{"Food", "Food.Beverages", "Food.Beverages.Coffee", "Food.Snacks"} {
		if _, ok := ids[path]; !ok {
			t.Fatalf("missing id for path %q, got %v", path, ids)
		}
	}

	var coffee types.BusinessUnit
	if err := tx.WithContext(ctx).Where("id = ?", ids["Food.Beverages.Coffee"]).First(&coffee).Error; err != nil {
		t.Fatalf("load coffee: %v", err)
	}
	wantMpath := ids["Food"].String() + "." + ids["Food.Beverages"].String() + "." + coffee.ID.String() + "."
	if coffee.Mpath != wantMpath {
		t.Fatalf("mpath: got=%q want=%q", coffee.Mpath, wantMpath)
	}
	if coffee.ParentID == nil || *coffee.ParentID != ids["Food.Beverages"] {
		t.Fatalf("parent id not set on leaf")
	}
}

func TestSupplierGetByName(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSupplierRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	testutil.SeedSupplier(t, ctx, tx, "Acme Commodities")

	supplier, err := repo.GetByName(dbc, "Acme Commodities")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if supplier.Name != "Acme Commodities" {
		t.Fatalf("unexpected supplier: %+v", supplier)
	}

	if _, err := repo.GetByName(dbc, "Nobody"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unexpected error for missing supplier: %v", err)
	}
}

func TestMaterialGetByHsCodeID(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewMaterialRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	cotton := testutil.SeedMaterial(t, ctx, tx, "Cotton")
	cotton.HsCodeID = "5201"
	if err := tx.WithContext(ctx).Save(cotton).Error; err != nil {
		t.Fatalf("set hs code: %v", err)
	}

	material, err := repo.GetByHsCodeID(dbc, "5201")
	if err != nil {
		t.Fatalf("get by hs code: %v", err)
	}
	if material.ID != cotton.ID {
		t.Fatalf("material: got=%s want=%s", material.ID, cotton.ID)
	}

	if _, err := repo.GetByHsCodeID(dbc, "0000"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unexpected error for unknown hs code: %v", err)
	}
}

func TestGeoRegionPointLifecycle(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewGeoRegionRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	region, err := repo.SaveAsPoint(dbc, "Testland", 40.4, -3.7)
	if err != nil {
		t.Fatalf("save as point: %v", err)
	}
	if !region.IsPoint || !region.CreatedByUser {
		t.Fatalf("unexpected region flags: %+v", region)
	}

	if err := repo.DeleteCreatedByUser(dbc); err != nil {
		t.Fatalf("delete created by user: %v", err)
	}
	if _, err := repo.GetByID(dbc, region.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("region survived cleanup: %v", err)
	}
}

func TestAdminRegionGetClosestByCoordinates(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewAdminRegionRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	near := testutil.SeedCountry(t, ctx, tx, "Nearland", 40.0, -3.0)
	testutil.SeedCountry(t, ctx, tx, "Farland", 10.0, 100.0)

	region, err := repo.GetClosestByCoordinates(dbc, 40.4, -3.7)
	if err != nil {
		t.Fatalf("closest by coordinates: %v", err)
	}
	if region.ID != near.ID {
		t.Fatalf("closest region: got=%s want=%s", region.Name, near.Name)
	}
}
