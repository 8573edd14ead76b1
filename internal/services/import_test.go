package services

import (
	"testing"
)

func TestTreeFromPathsCreatesImpliedAncestors(t *testing.T) {
	t.Parallel()

	nodes := treeFromPaths([]string{
		"Food.Beverages.Coffee",
		"Food.Beverages.Tea",
		"Textiles",
	})

	if len(nodes) != 2 {
		t.Fatalf("unexpected root count: got=%d want=2", len(nodes))
	}
	food := nodes[0]
	if food.Name != "Food" || len(food.Children) != 1 {
		t.Fatalf("unexpected first root: name=%q children=%d", food.Name, len(food.Children))
	}
	beverages := food.Children[0]
	if beverages.Name != "Beverages" || len(beverages.Children) != 2 {
		t.Fatalf("unexpected beverages node: name=%q children=%d", beverages.Name, len(beverages.Children))
	}
	if beverages.Children[0].Name != "Coffee" || beverages.Children[1].Name != "Tea" {
		t.Fatalf("unexpected leaves: %q, %q", beverages.Children[0].Name, beverages.Children[1].Name)
	}
	if nodes[1].Name != "Textiles" || len(nodes[1].Children) != 0 {
		t.Fatalf("unexpected second root: name=%q children=%d", nodes[1].Name, len(nodes[1].Children))
	}
}

func TestColumnValuesDeduplicatesInFirstSeenOrder(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"supplier": "Acme"},
		{"supplier": " Acme "},
		{"supplier": ""},
		{"supplier": "Globex"},
		{"supplier": "Acme"},
	}
	values := columnValues(rows, "supplier")

	want := []string{"Acme", "Globex"}
	if len(values) != len(want) {
		t.Fatalf("unexpected values: got=%v want=%v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("unexpected values: got=%v want=%v", values, want)
		}
	}
}

func TestParseCoordinate(t *testing.T) {
	t.Parallel()

	row := map[string]string{"lat": "41.38", "bad": "north", "empty": ""}

	value, rowErr := parseCoordinate(row, "lat", 2)
	if rowErr != nil || value == nil || *value != 41.38 {
		t.Fatalf("valid coordinate: value=%v err=%v", value, rowErr)
	}

	value, rowErr = parseCoordinate(row, "empty", 2)
	if rowErr != nil || value != nil {
		t.Fatalf("empty coordinate should be nil without error: value=%v err=%v", value, rowErr)
	}

	_, rowErr = parseCoordinate(row, "bad", 7)
	if rowErr == nil || rowErr.Row != 7 || rowErr.Column != "bad" {
		t.Fatalf("invalid coordinate: err=%+v", rowErr)
	}
}
