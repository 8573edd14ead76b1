package services

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

const (
	sheetMaterials     = "materials"
	sheetBusinessUnits = "business units"
	sheetSuppliers     = "suppliers"
	sheetCountries     = "countries"
	sheetForUpload     = "for upload"
)

var yearColumnPattern = regexp.MustCompile(`^\d{4}$`)

// ParsedDataSet holds the raw sheet contents of an uploaded workbook, one
// map per row keyed by header.
type ParsedDataSet struct {
	Materials     []map[string]string
	BusinessUnits []map[string]string
	Suppliers     []map[string]string
	Countries     []map[string]string
	SourcingData  []map[string]string
}

// SourcingYears extracts the year columns present in the sourcing sheet,
// sorted ascending.
func (d *ParsedDataSet) SourcingYears() []int {
	seen := map[int]bool{}
	for _, row := range d.SourcingData {
		for key := range row {
			if !yearColumnPattern.MatchString(key) {
				continue
			}
			year, err := strconv.Atoi(key)
			if err == nil {
				seen[year] = true
			}
		}
	}
	years := make([]int, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// FileService reads uploaded XLSX workbooks and manages their lifetime on
// the local filesystem.
type FileService interface {
	IsFilePresentInFs(path string) bool
	DeleteDataFromFS(path string) error
	TransformToJson(path string) (*ParsedDataSet, error)
}

type fileService struct {
	log *logger.Logger
}

func NewFileService(baseLog *logger.Logger) FileService {
	return &fileService{log: baseLog.With("service", "FileService")}
}

func (s *fileService) IsFilePresentInFs(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *fileService) DeleteDataFromFS(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file %s: %w", path, err)
	}
	return nil
}

func (s *fileService) TransformToJson(path string) (*ParsedDataSet, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer func() {
		if err := workbook.Close(); err != nil {
			s.log.Warn("failed to close workbook", "path", path, "error", err)
		}
	}()

	dataSet := &ParsedDataSet{}
	for _, sheet := range workbook.GetSheetList() {
		rows, err := sheetRows(workbook, sheet)
		if err != nil {
			return nil, err
		}
		switch normalizeSheetName(sheet) {
		case sheetMaterials:
			dataSet.Materials = rows
		case sheetBusinessUnits:
			dataSet.BusinessUnits = rows
		case sheetSuppliers:
			dataSet.Suppliers = rows
		case sheetCountries:
			dataSet.Countries = rows
		case sheetForUpload:
			dataSet.SourcingData = rows
		}
	}

	if dataSet.SourcingData == nil {
		return nil, fmt.Errorf("workbook %s has no %q sheet", path, sheetForUpload)
	}
	return dataSet, nil
}

func normalizeSheetName(sheet string) string {
	return strings.ToLower(strings.TrimSpace(sheet))
}

// sheetRows maps each data row against the header row, skipping rows that
// are entirely empty.
func sheetRows(workbook *excelize.File, sheet string) ([]map[string]string, error) {
	raw, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := make([]string, len(raw[0]))
	for i, header := range raw[0] {
		headers[i] = strings.TrimSpace(header)
	}

	var rows []map[string]string
	for _, cells := range raw[1:] {
		row := map[string]string{}
		empty := true
		for i, cell := range cells {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			row[headers[i]] = value
			if value != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
