package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

const (
	csvIndicatorColumn    = "Indicator"
	csvProjectedSuffix    = " (projected)"
	csvBaseScenarioSuffix = " (Base Scenario)"
	csvComparedSuffix     = " (Compared Scenario)"
	csvAbsoluteDiffSuffix = " (Absolute Difference)"
	csvPercentageSuffix   = " (Percentage Difference)"
)

// CSVDataBuilder accumulates one report row at a time. Year columns are
// staged separately so a row can be assembled value by value and flushed
// with Build.
type CSVDataBuilder struct {
	csvData          map[string]string
	valuesPerYearKey map[string]float64
}

func NewCSVDataBuilder() *CSVDataBuilder {
	return &CSVDataBuilder{
		csvData:          map[string]string{},
		valuesPerYearKey: map[string]float64{},
	}
}

func (b *CSVDataBuilder) SetIndicatorWithUnit(name, unit string) *CSVDataBuilder {
	b.csvData[csvIndicatorColumn] = fmt.Sprintf("%s (%s)", name, unit)
	return b
}

// SetGroupingAndNodeName labels the entity column. Nested entities carry
// their ancestry as a dotted path, e.g. "Europe.Spain".
func (b *CSVDataBuilder) SetGroupingAndNodeName(groupingBy, nodeName string) *CSVDataBuilder {
	b.csvData[GroupByColumn(groupingBy)] = nodeName
	return b
}

// SetYearValue stages one year column for the row. The key depends on the
// kind of value: plain actual data gets the year itself, projections get a
// suffix, scenario comparisons fan out into dedicated columns.
func (b *CSVDataBuilder) SetYearValue(value ImpactRowValue) *CSVDataBuilder {
	yearKey := strconv.Itoa(value.Year)
	if value.IsProjected {
		yearKey += csvProjectedSuffix
	}

	switch value.Kind {
	case KindActualVsScenario:
		b.valuesPerYearKey[yearKey] = value.Value
		b.valuesPerYearKey[yearKey+csvComparedSuffix] = value.ComparedScenarioValue
		b.valuesPerYearKey[yearKey+csvAbsoluteDiffSuffix] = value.AbsoluteDifference
		b.valuesPerYearKey[yearKey+csvPercentageSuffix] = value.PercentageDifference
	case KindScenarioVsScenario:
		b.valuesPerYearKey[yearKey+csvBaseScenarioSuffix] = value.BaseScenarioValue
		b.valuesPerYearKey[yearKey+csvComparedSuffix] = value.ComparedScenarioValue
		b.valuesPerYearKey[yearKey+csvAbsoluteDiffSuffix] = value.AbsoluteDifference
		b.valuesPerYearKey[yearKey+csvPercentageSuffix] = value.PercentageDifference
	default:
		b.valuesPerYearKey[yearKey] = value.Value
	}
	return b
}

// Build merges the staged year columns into the row and resets the builder
// for the next one.
func (b *CSVDataBuilder) Build() map[string]string {
	row := make(map[string]string, len(b.csvData)+len(b.valuesPerYearKey))
	for key, value := range b.csvData {
		row[key] = value
	}
	for key, value := range b.valuesPerYearKey {
		row[key] = strconv.FormatFloat(value, 'f', -1, 64)
	}
	b.csvData = map[string]string{}
	b.valuesPerYearKey = map[string]float64{}
	return row
}

func GroupByColumn(groupingBy string) string {
	return "Group by " + groupingBy
}

// ImpactReportService renders an impact table as CSV, one row per entity
// per indicator.
type ImpactReportService interface {
	WriteCSV(w io.Writer, table *ImpactTable) error
}

type impactReportService struct {
	log *logger.Logger
}

func NewImpactReportService(baseLog *logger.Logger) ImpactReportService {
	return &impactReportService{log: baseLog.With("service", "ImpactReportService")}
}

func (s *impactReportService) WriteCSV(w io.Writer, table *ImpactTable) error {
	builder := NewCSVDataBuilder()
	var rows []map[string]string
	groupColumns := map[string]bool{}

	for _, byIndicator := range table.DataByIndicator {
		groupColumns[GroupByColumn(string(byIndicator.GroupBy))] = true
		for _, node := range byIndicator.Rows {
			rows = append(rows, s.processNode(builder, byIndicator, node, "")...)
		}
	}

	headers := reportHeaders(rows, groupColumns)
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, header := range headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// processNode emits the row for one entity and recurses into its children,
// extending the dotted name path.
func (s *impactReportService) processNode(builder *CSVDataBuilder, byIndicator *ImpactTableByIndicator, node *ImpactTableRowNode, parentPath string) []map[string]string {
	name := node.Name
	if parentPath != "" {
		name = parentPath + "." + node.Name
	}

	builder.SetIndicatorWithUnit(byIndicator.IndicatorShortName, byIndicator.Unit).
		SetGroupingAndNodeName(string(byIndicator.GroupBy), name)
	for _, value := range node.Values {
		builder.SetYearValue(value)
	}
	rows := []map[string]string{builder.Build()}

	for _, child := range node.Children {
		rows = append(rows, s.processNode(builder, byIndicator, child, name)...)
	}
	return rows
}

// reportHeaders fixes the column order: the indicator, the grouping
// columns, then every year column seen across the rows. Year columns of
// the same year keep a fixed comparison order: base, compared, absolute
// difference, percentage difference.
func reportHeaders(rows []map[string]string, groupColumns map[string]bool) []string {
	headers := []string{csvIndicatorColumn}
	groups := make([]string, 0, len(groupColumns))
	for column := range groupColumns {
		groups = append(groups, column)
	}
	sort.Strings(groups)
	headers = append(headers, groups...)

	yearColumns := map[string]bool{}
	for _, row := range rows {
		for key := range row {
			if key == csvIndicatorColumn || groupColumns[key] {
				continue
			}
			yearColumns[key] = true
		}
	}
	years := make([]string, 0, len(yearColumns))
	for column := range yearColumns {
		years = append(years, column)
	}
	sort.Slice(years, func(i, j int) bool {
		yearI, rankI := splitYearColumn(years[i])
		yearJ, rankJ := splitYearColumn(years[j])
		if yearI != yearJ {
			return yearI < yearJ
		}
		return rankI < rankJ
	})
	return append(headers, years...)
}

var comparisonSuffixOrder = []string{
	csvBaseScenarioSuffix,
	csvComparedSuffix,
	csvAbsoluteDiffSuffix,
	csvPercentageSuffix,
}

// splitYearColumn separates the year part of a column from its comparison
// suffix and returns the suffix rank. Plain and projected values rank
// before any comparison column of the same year.
func splitYearColumn(column string) (string, int) {
	for i, suffix := range comparisonSuffixOrder {
		if strings.HasSuffix(column, suffix) {
			return strings.TrimSuffix(column, suffix), i + 1
		}
	}
	return column, 0
}
