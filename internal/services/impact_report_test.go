package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestCSVBuilderPlainActualRow(t *testing.T) {
	t.Parallel()

	row := NewCSVDataBuilder().
		SetIndicatorWithUnit("Deforestation", "ha").
		SetGroupingAndNodeName("material", "Cotton").
		SetYearValue(ImpactRowValue{Year: 2020, Kind: KindActual, Value: 12.5}).
		Build()

	if got := row["Indicator"]; got != "Deforestation (ha)" {
		t.Fatalf("indicator cell: got=%q", got)
	}
	if got := row["Group by material"]; got != "Cotton" {
		t.Fatalf("grouping cell: got=%q", got)
	}
	if got := row["2020"]; got != "12.5" {
		t.Fatalf("year cell: got=%q", got)
	}
}

func TestCSVBuilderProjectedYearGetsSuffix(t *testing.T) {
	t.Parallel()

	row := NewCSVDataBuilder().
		SetYearValue(ImpactRowValue{Year: 2025, Kind: KindActual, Value: 3, IsProjected: true}).
		Build()

	if _, ok := row["2025"]; ok {
		t.Fatalf("projected year also produced a plain key")
	}
	if got := row["2025 (projected)"]; got != "3" {
		t.Fatalf("projected year cell: got=%q", got)
	}
}

func TestCSVBuilderActualVsScenarioColumns(t *testing.T) {
	t.Parallel()

	row := NewCSVDataBuilder().
		SetYearValue(ImpactRowValue{
			Year: 2020, Kind: KindActualVsScenario,
			Value: 100, ComparedScenarioValue: 75,
			AbsoluteDifference: -25, PercentageDifference: -25,
		}).
		Build()

	want := map[string]string{
		"2020":                         "100",
		"2020 (Compared Scenario)":     "75",
		"2020 (Absolute Difference)":   "-25",
		"2020 (Percentage Difference)": "-25",
	}
	for key, value := range want {
		if got := row[key]; got != value {
			t.Fatalf("%s: got=%q want=%q", key, got, value)
		}
	}
	if _, ok := row["2020 (Base Scenario)"]; ok {
		t.Fatalf("actual-vs-scenario row has a base scenario column")
	}
}

func TestCSVBuilderScenarioVsScenarioHasNoPlainYearColumn(t *testing.T) {
	t.Parallel()

	row := NewCSVDataBuilder().
		SetYearValue(ImpactRowValue{
			Year: 2020, Kind: KindScenarioVsScenario,
			BaseScenarioValue: 80, ComparedScenarioValue: 60,
			AbsoluteDifference: -20, PercentageDifference: -25,
		}).
		Build()

	if _, ok := row["2020"]; ok {
		t.Fatalf("scenario-vs-scenario row has a plain year column")
	}
	want := map[string]string{
		"2020 (Base Scenario)":         "80",
		"2020 (Compared Scenario)":     "60",
		"2020 (Absolute Difference)":   "-20",
		"2020 (Percentage Difference)": "-25",
	}
	for key, value := range want {
		if got := row[key]; got != value {
			t.Fatalf("%s: got=%q want=%q", key, got, value)
		}
	}
}

func TestCSVBuilderResetsBetweenRows(t *testing.T) {
	t.Parallel()

	builder := NewCSVDataBuilder()
	builder.SetIndicatorWithUnit("Water", "m3").
		SetYearValue(ImpactRowValue{Year: 2020, Kind: KindActual, Value: 1}).
		Build()

	second := builder.
		SetYearValue(ImpactRowValue{Year: 2021, Kind: KindActual, Value: 2}).
		Build()

	if _, ok := second["2020"]; ok {
		t.Fatalf("stale year column leaked into the next row")
	}
	if _, ok := second["Indicator"]; ok {
		t.Fatalf("stale indicator cell leaked into the next row")
	}
}

func TestWriteCSVColumnOrderAndNestedNames(t *testing.T) {
	t.Parallel()
	svc := NewImpactReportService(testLogger(t))

	table := &ImpactTable{
		DataByIndicator: []*ImpactTableByIndicator{{
			IndicatorShortName: "Deforestation",
			Unit:               "ha",
			GroupBy:            "region",
			Rows: []*ImpactTableRowNode{{
				Name: "Europe",
				Values: []ImpactRowValue{
					{Year: 2020, Kind: KindActual, Value: 30},
					{Year: 2021, Kind: KindActual, Value: 31, IsProjected: true},
				},
				Children: []*ImpactTableRowNode{{
					Name: "Spain",
					Values: []ImpactRowValue{
						{Year: 2020, Kind: KindActual, Value: 30},
						{Year: 2021, Kind: KindActual, Value: 31, IsProjected: true},
					},
				}},
			}},
		}},
	}

	var buf bytes.Buffer
	if err := svc.WriteCSV(&buf, table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("unexpected record count: got=%d want=3", len(records))
	}

	header := records[0]
	wantHeader := []string{"Indicator", "Group by region", "2020", "2021 (projected)"}
	if len(header) != len(wantHeader) {
		t.Fatalf("unexpected header: got=%v want=%v", header, wantHeader)
	}
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Fatalf("unexpected header: got=%v want=%v", header, wantHeader)
		}
	}
	if records[1][1] != "Europe" {
		t.Fatalf("parent row name: got=%q want=Europe", records[1][1])
	}
	if records[2][1] != "Europe.Spain" {
		t.Fatalf("child row name: got=%q want=Europe.Spain", records[2][1])
	}
}

func TestWriteCSVOrdersComparisonColumnsWithinYear(t *testing.T) {
	t.Parallel()
	svc := NewImpactReportService(testLogger(t))

	table := &ImpactTable{
		DataByIndicator: []*ImpactTableByIndicator{{
			IndicatorShortName: "Deforestation",
			Unit:               "ha",
			GroupBy:            "material",
			Rows: []*ImpactTableRowNode{{
				Name: "Cotton",
				Values: []ImpactRowValue{
					{
						Year: 2020, Kind: KindScenarioVsScenario,
						BaseScenarioValue: 80, ComparedScenarioValue: 60,
						AbsoluteDifference: -20, PercentageDifference: -25,
					},
					{
						Year: 2021, Kind: KindScenarioVsScenario,
						BaseScenarioValue: 90, ComparedScenarioValue: 63,
						AbsoluteDifference: -27, PercentageDifference: -30,
					},
				},
			}},
		}},
	}

	var buf bytes.Buffer
	if err := svc.WriteCSV(&buf, table); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv output: %v", err)
	}

	header := records[0]
	wantHeader := []string{
		"Indicator", "Group by material",
		"2020 (Base Scenario)", "2020 (Compared Scenario)",
		"2020 (Absolute Difference)", "2020 (Percentage Difference)",
		"2021 (Base Scenario)", "2021 (Compared Scenario)",
		"2021 (Absolute Difference)", "2021 (Percentage Difference)",
	}
	if len(header) != len(wantHeader) {
		t.Fatalf("unexpected header: got=%v want=%v", header, wantHeader)
	}
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Fatalf("unexpected header: got=%v want=%v", header, wantHeader)
		}
	}
}
