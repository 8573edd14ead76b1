package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/eudr"
)

func TestBreakdownBuilderDeduplicatesSuppliers(t *testing.T) {
	t.Parallel()

	supplierID := uuid.New()
	otherID := uuid.New()
	alerts := eudr.AlertSummary{SupplierID: supplierID, DFS: 3, SDA: 1, TPL: 0}

	builder := newBreakdownBuilder()
	builder.add("Cocoa", eudr.SourcingRow{SupplierID: supplierID, GeoRegionCount: 4}, alerts)
	builder.add("Cocoa", eudr.SourcingRow{SupplierID: supplierID, GeoRegionCount: 2}, alerts)
	builder.add("Cocoa", eudr.SourcingRow{SupplierID: otherID}, eudr.AlertSummary{})

	entries := builder.entries()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	entry := entries[0]
	if entry.Suppliers != 2 {
		t.Fatalf("suppliers counted per row instead of per supplier: got=%d want=2", entry.Suppliers)
	}
	// Alert columns count suppliers with the alert type present, once each.
	if entry.DFS != 1 || entry.SDA != 1 || entry.TPL != 0 {
		t.Fatalf("alert supplier counts: dfs=%d sda=%d tpl=%d", entry.DFS, entry.SDA, entry.TPL)
	}
	if entry.PlotsWithGeometry != 6 {
		t.Fatalf("plots with geometry: got=%d want=6", entry.PlotsWithGeometry)
	}
	if entry.PlotsMissing != 1 {
		t.Fatalf("suppliers missing plots: got=%d want=1", entry.PlotsMissing)
	}
}

func TestBreakdownEntriesAreSortedByName(t *testing.T) {
	t.Parallel()

	builder := newBreakdownBuilder()
	builder.add("Soy", eudr.SourcingRow{SupplierID: uuid.New()}, eudr.AlertSummary{})
	builder.add("Cocoa", eudr.SourcingRow{SupplierID: uuid.New()}, eudr.AlertSummary{})
	builder.add("Palm oil", eudr.SourcingRow{SupplierID: uuid.New()}, eudr.AlertSummary{})

	entries := builder.entries()
	want := []string{"Cocoa", "Palm oil", "Soy"}
	for i := range want {
		if entries[i].Name != want[i] {
			t.Fatalf("unexpected order at %d: got=%q want=%q", i, entries[i].Name, want[i])
		}
	}
}
