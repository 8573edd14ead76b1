package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/geocoding"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// Column headers of the materials sheet.
const (
	colMaterialPath     = "path"
	colMaterialHsCodeID = "hs_code_id"
)

// Column header of the countries sheet.
const colCountryName = "name"

// Column headers of the sourcing data sheet.
const (
	colMaterialHsCode = "material.hs_code"
	colBusinessUnit   = "business_unit.path"
	colT1Supplier     = "t1_supplier.name"
	colProducer       = "producer.name"
	colLocationType   = "location_type"
	colCountryInput   = "location_country_input"
	colAddressInput   = "location_address_input"
	colLatitudeInput  = "location_latitude_input"
	colLongitudeInput = "location_longitude_input"
)

const importChunkSize = 500

// RowError is a validation failure of one sourcing data row, reported with
// the rest so the whole upload can be fixed in one go.
type RowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// ImportService replaces the sourcing dataset with the contents of an
// uploaded workbook: validate, geocode, persist and recalculate impacts,
// all inside one transaction tracked by a job event.
type ImportService interface {
	LoadXLSXDataSet(ctx context.Context, jobID uuid.UUID, filePath string) error
}

type importService struct {
	db               *gorm.DB
	files            FileService
	materials        repos.MaterialRepo
	businessUnits    repos.BusinessUnitRepo
	suppliers        repos.SupplierRepo
	geoRegions       repos.GeoRegionRepo
	locations        repos.SourcingLocationRepo
	records          repos.SourcingRecordRepo
	groups           repos.SourcingRecordGroupRepo
	scenarios        repos.ScenarioRepo
	indicatorRecords repos.IndicatorRecordRepo
	dataYears        repos.DataYearRepo
	resolver         *geocoding.Resolver
	calculator       ImpactCalculatorService
	jobs             JobService
	progress         ImportProgressEmitter
	log              *logger.Logger
}

func NewImportService(
	db *gorm.DB,
	files FileService,
	materials repos.MaterialRepo,
	businessUnits repos.BusinessUnitRepo,
	suppliers repos.SupplierRepo,
	geoRegions repos.GeoRegionRepo,
	locations repos.SourcingLocationRepo,
	records repos.SourcingRecordRepo,
	groups repos.SourcingRecordGroupRepo,
	scenarios repos.ScenarioRepo,
	indicatorRecords repos.IndicatorRecordRepo,
	dataYears repos.DataYearRepo,
	resolver *geocoding.Resolver,
	calculator ImpactCalculatorService,
	jobs JobService,
	progress ImportProgressEmitter,
	baseLog *logger.Logger,
) ImportService {
	return &importService{
		db:               db,
		files:            files,
		materials:        materials,
		businessUnits:    businessUnits,
		suppliers:        suppliers,
		geoRegions:       geoRegions,
		locations:        locations,
		records:          records,
		groups:           groups,
		scenarios:        scenarios,
		indicatorRecords: indicatorRecords,
		dataYears:        dataYears,
		resolver:         resolver,
		calculator:       calculator,
		jobs:             jobs,
		progress:         progress,
		log:              baseLog.With("service", "ImportService"),
	}
}

func (s *importService) LoadXLSXDataSet(ctx context.Context, jobID uuid.UUID, filePath string) error {
	defer func() {
		if err := s.files.DeleteDataFromFS(filePath); err != nil {
			s.log.Warn("failed to delete uploaded file", "path", filePath, "error", err)
		}
	}()

	err := s.runImport(ctx, jobID, filePath)
	if err != nil {
		noTx := dbctx.Context{Ctx: ctx}
		if failErr := s.jobs.FailJob(noTx, jobID, []string{err.Error()}); failErr != nil {
			s.log.Error("failed to record job failure", "jobID", jobID, "error", failErr)
		}
		s.progress.EmitFailed(ctx, jobID.String(), err.Error())
	}
	return err
}

func (s *importService) runImport(ctx context.Context, jobID uuid.UUID, filePath string) error {
	if !s.files.IsFilePresentInFs(filePath) {
		return fmt.Errorf("uploaded file %s is not present in the filesystem", filePath)
	}

	s.progress.EmitProgress(ctx, jobID.String(), StepValidatingData, 0)
	dataSet, err := s.files.TransformToJson(filePath)
	if err != nil {
		return err
	}
	if len(dataSet.SourcingData) == 0 {
		return fmt.Errorf("workbook %s has no sourcing data rows", filePath)
	}
	s.progress.EmitProgress(ctx, jobID.String(), StepValidatingData, 100)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin import transaction: %w", tx.Error)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	if err := s.cleanDataBeforeImport(dbc); err != nil {
		return err
	}

	group, err := s.groups.Create(dbc, &types.SourcingRecordGroup{
		Title: "Sourcing Records import",
	})
	if err != nil {
		return fmt.Errorf("failed to create sourcing record group: %w", err)
	}

	if err := s.rebuildMaterials(dbc, dataSet.Materials); err != nil {
		return err
	}

	businessUnitIDs, err := s.businessUnits.CreateTree(dbc, treeFromPaths(columnValues(dataSet.SourcingData, colBusinessUnit)))
	if err != nil {
		return fmt.Errorf("failed to create business unit tree: %w", err)
	}
	supplierNames := append(columnValues(dataSet.SourcingData, colT1Supplier),
		columnValues(dataSet.SourcingData, colProducer)...)
	supplierIDs, err := s.suppliers.CreateTree(dbc, treeFromPaths(supplierNames))
	if err != nil {
		return fmt.Errorf("failed to create supplier tree: %w", err)
	}

	locations, records, rowErrors := s.relateRows(dbc, dataSet, group.ID, businessUnitIDs, supplierIDs)
	if len(rowErrors) > 0 {
		return importFailure(jobID, rowErrors)
	}

	s.progress.EmitProgress(ctx, jobID.String(), StepGeocoding, 0)
	if failures := s.resolver.GeoCodeLocations(dbc, locations); len(failures) > 0 {
		rowErrors := make([]RowError, 0, len(failures))
		for _, failure := range failures {
			rowErrors = append(rowErrors, RowError{Row: failure.Row, Message: failure.Err.Error()})
		}
		return importFailure(jobID, rowErrors)
	}
	s.progress.EmitProgress(ctx, jobID.String(), StepGeocoding, 100)

	onChunk := func(progress float64) {
		s.progress.EmitProgress(ctx, jobID.String(), StepImportingData, progress)
	}
	// The locations save owns the first half of the IMPORTING_DATA bar,
	// the records save the second half.
	if err := s.locations.SaveChunked(dbc, locations, importChunkSize, 0, func(progress float64) {
		onChunk(progress / 2)
	}); err != nil {
		return fmt.Errorf("failed to save sourcing locations: %w", err)
	}
	if err := s.records.SaveChunked(dbc, records, importChunkSize, 50, onChunk); err != nil {
		return fmt.Errorf("failed to save sourcing records: %w", err)
	}

	if err := s.saveDataYears(dbc, dataSet.SourcingYears()); err != nil {
		return err
	}

	if err := s.calculator.CalculateImpactsForAllSourcingRecords(dbc, func(progress float64) {
		s.progress.EmitProgress(ctx, jobID.String(), StepCalculatingImpact, progress)
	}); err != nil {
		return fmt.Errorf("failed to calculate impacts: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit import transaction: %w", err)
	}
	committed = true

	warnings := locationWarnings(locations)
	noTx := dbctx.Context{Ctx: ctx}
	if err := s.jobs.CompleteJob(noTx, jobID, map[string]interface{}{"warnings": warnings}); err != nil {
		return err
	}
	s.progress.EmitCompleted(ctx, jobID.String(), map[string]interface{}{
		"sourcing_record_group_id": group.ID,
		"warnings":                 warnings,
	})
	s.log.Info("sourcing dataset imported", "jobID", jobID,
		"locations", len(locations), "records", len(records), "warnings", len(warnings))
	return nil
}

// cleanDataBeforeImport drops everything derived from the previous dataset.
// Scenarios go first: their interventions hang off sourcing locations.
func (s *importService) cleanDataBeforeImport(dbc dbctx.Context) error {
	steps := []struct {
		name  string
		clear func(dbctx.Context) error
	}{
		{"scenarios", s.scenarios.ClearTable},
		{"indicator records", s.indicatorRecords.ClearTable},
		{"sourcing record groups", s.groups.ClearTable},
		{"materials", s.materials.ClearTable},
		{"business units", s.businessUnits.ClearTable},
		{"suppliers", s.suppliers.ClearTable},
		{"sourcing locations", s.locations.ClearTable},
		{"sourcing records", s.records.ClearTable},
		{"user geo regions", s.geoRegions.DeleteCreatedByUser},
	}
	for _, step := range steps {
		if err := step.clear(dbc); err != nil {
			return fmt.Errorf("database could not be cleaned before loading new dataset (%s): %w", step.name, err)
		}
	}
	return nil
}

// rebuildMaterials recreates the material tree from the materials sheet and
// attaches the hs codes the sourcing rows reference.
func (s *importService) rebuildMaterials(dbc dbctx.Context, rows []map[string]string) error {
	materialIDs, err := s.materials.CreateTree(dbc, treeFromPaths(columnValues(rows, colMaterialPath)))
	if err != nil {
		return fmt.Errorf("failed to create material tree: %w", err)
	}
	for _, row := range rows {
		path := strings.TrimSpace(row[colMaterialPath])
		hsCode := strings.TrimSpace(row[colMaterialHsCodeID])
		if path == "" || hsCode == "" {
			continue
		}
		id, ok := materialIDs[path]
		if !ok {
			continue
		}
		if err := s.materials.SetHsCodeID(dbc, id, hsCode); err != nil {
			return fmt.Errorf("failed to set hs code for material %q: %w", path, err)
		}
	}
	return nil
}

// relateRows maps sheet rows to sourcing locations and their per-year
// records, collecting validation errors instead of stopping at the first.
func (s *importService) relateRows(
	dbc dbctx.Context,
	dataSet *ParsedDataSet,
	groupID uuid.UUID,
	businessUnitIDs, supplierIDs map[string]uuid.UUID,
) ([]*types.SourcingLocation, []*types.SourcingRecord, []RowError) {
	var locations []*types.SourcingLocation
	var records []*types.SourcingRecord
	var rowErrors []RowError

	knownCountries := map[string]bool{}
	for _, row := range dataSet.Countries {
		if name := strings.TrimSpace(row[colCountryName]); name != "" {
			knownCountries[name] = true
		}
	}

	years := dataSet.SourcingYears()
	for i, row := range dataSet.SourcingData {
		rowNumber := i + 2 // header is row 1

		if country := row[colCountryInput]; country != "" && len(knownCountries) > 0 && !knownCountries[country] {
			rowErrors = append(rowErrors, RowError{
				Row: rowNumber, Column: colCountryInput,
				Message: fmt.Sprintf("country %q is not listed in the countries sheet", country),
			})
			continue
		}

		material, err := s.materials.GetByHsCodeID(dbc, row[colMaterialHsCode])
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Row: rowNumber, Column: colMaterialHsCode,
				Message: fmt.Sprintf("unknown material hs code %q", row[colMaterialHsCode]),
			})
			continue
		}

		location := &types.SourcingLocation{
			ID:                    uuid.New(),
			LocationType:          types.LocationType(row[colLocationType]),
			LocationCountryInput:  row[colCountryInput],
			LocationAddressInput:  row[colAddressInput],
			MaterialID:            material.ID,
			SourcingRecordGroupID: &groupID,
		}
		if id, ok := businessUnitIDs[row[colBusinessUnit]]; ok {
			location.BusinessUnitID = &id
		}
		if id, ok := supplierIDs[row[colT1Supplier]]; ok {
			location.T1SupplierID = &id
		}
		if id, ok := supplierIDs[row[colProducer]]; ok {
			location.ProducerID = &id
		}

		var coordErr *RowError
		location.LocationLatitude, coordErr = parseCoordinate(row, colLatitudeInput, rowNumber)
		if coordErr != nil {
			rowErrors = append(rowErrors, *coordErr)
			continue
		}
		location.LocationLongitude, coordErr = parseCoordinate(row, colLongitudeInput, rowNumber)
		if coordErr != nil {
			rowErrors = append(rowErrors, *coordErr)
			continue
		}

		badTonnage := false
		for _, year := range years {
			raw := strings.TrimSpace(row[strconv.Itoa(year)])
			if raw == "" {
				continue
			}
			tonnage, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				rowErrors = append(rowErrors, RowError{
					Row: rowNumber, Column: strconv.Itoa(year),
					Message: fmt.Sprintf("tonnage %q is not a number", raw),
				})
				badTonnage = true
				break
			}
			records = append(records, &types.SourcingRecord{
				ID:                 uuid.New(),
				SourcingLocationID: location.ID,
				Year:               year,
				Tonnage:            tonnage,
			})
		}
		if badTonnage {
			continue
		}
		locations = append(locations, location)
	}
	return locations, records, rowErrors
}

func (s *importService) saveDataYears(dbc dbctx.Context, years []int) error {
	dataYears := make([]*types.DataYear, 0, len(years))
	for _, year := range years {
		dataYears = append(dataYears, &types.DataYear{Year: year})
	}
	if _, err := s.dataYears.Create(dbc, dataYears); err != nil {
		return fmt.Errorf("failed to save data years: %w", err)
	}
	return nil
}

func importFailure(jobID uuid.UUID, rowErrors []RowError) error {
	sort.Slice(rowErrors, func(i, j int) bool { return rowErrors[i].Row < rowErrors[j].Row })
	messages := make([]string, 0, len(rowErrors))
	for _, rowError := range rowErrors {
		messages = append(messages, fmt.Sprintf("row %d: %s", rowError.Row, rowError.Message))
	}
	return fmt.Errorf("import of job %s failed with %d row errors: %s",
		jobID, len(rowErrors), strings.Join(messages, "; "))
}

func locationWarnings(locations []*types.SourcingLocation) []string {
	var warnings []string
	for _, location := range locations {
		if location.LocationWarning != "" {
			warnings = append(warnings, location.LocationWarning)
		}
	}
	return warnings
}

func parseCoordinate(row map[string]string, column string, rowNumber int) (*float64, *RowError) {
	raw := strings.TrimSpace(row[column])
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &RowError{
			Row: rowNumber, Column: column,
			Message: fmt.Sprintf("coordinate %q is not a number", raw),
		}
	}
	return &value, nil
}

// columnValues collects the non-empty values of one column, deduplicated in
// first-seen order.
func columnValues(rows []map[string]string, column string) []string {
	seen := map[string]bool{}
	var values []string
	for _, row := range rows {
		value := strings.TrimSpace(row[column])
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	return values
}

// treeFromPaths builds a node forest from dotted name paths, creating the
// intermediate ancestors a path implies.
func treeFromPaths(paths []string) []repos.TreeNode {
	type mutableNode struct {
		name     string
		children map[string]*mutableNode
		order    []string
	}
	root := &mutableNode{children: map[string]*mutableNode{}}

	for _, path := range paths {
		current := root
		for _, segment := range strings.Split(path, ".") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				continue
			}
			child, ok := current.children[segment]
			if !ok {
				child = &mutableNode{name: segment, children: map[string]*mutableNode{}}
				current.children[segment] = child
				current.order = append(current.order, segment)
			}
			current = child
		}
	}

	var build func(node *mutableNode) []repos.TreeNode
	build = func(node *mutableNode) []repos.TreeNode {
		nodes := make([]repos.TreeNode, 0, len(node.order))
		for _, name := range node.order {
			child := node.children[name]
			nodes = append(nodes, repos.TreeNode{
				Name:     name,
				Children: build(child),
			})
		}
		return nodes
	}
	return build(root)
}
