package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/landgriffon/landgriffon-backend/internal/data/db"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos/testutil"
	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/geocoding"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/realtime"
	"github.com/landgriffon/landgriffon-backend/internal/realtime/bus"
)

// offlineGeocoder satisfies the geocoder dependency for location types
// that never reach the geocoding API.
type offlineGeocoder struct{}

func (offlineGeocoder) GeocodeByAddress(context.Context, string) (*geocoding.Response, error) {
	return nil, fmt.Errorf("geocoding api not available in tests")
}

func (offlineGeocoder) GeocodeByCountry(context.Context, string) (*geocoding.Response, error) {
	return nil, fmt.Errorf("geocoding api not available in tests")
}

func (offlineGeocoder) ReverseGeocode(context.Context, float64, float64) (*geocoding.Response, error) {
	return nil, fmt.Errorf("geocoding api not available in tests")
}

func writeImportWorkbook(t *testing.T) string {
	t.Helper()

	workbook := excelize.NewFile()
	if err := workbook.SetSheetName("Sheet1", "materials"); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{"materials", [][]interface{}{
			{"path", "hs_code_id"},
			{"Cocoa", "1801"},
		}},
		{"countries", [][]interface{}{
			{"name"},
			{"Testland"},
		}},
		{"for upload", [][]interface{}{
			{"material.hs_code", "business_unit.path", "t1_supplier.name", "producer.name", "location_type", "location_country_input", "2020"},
			{"1801", "Accessories", "Acme Traders", "Acme Traders", "country-of-production", "Testland", 250.5},
		}},
	}
	for _, sheet := range sheets {
		if sheet.name != "materials" {
			if _, err := workbook.NewSheet(sheet.name); err != nil {
				t.Fatalf("create sheet %s: %v", sheet.name, err)
			}
		}
		for i, row := range sheet.rows {
			cell := fmt.Sprintf("A%d", i+1)
			values := row
			if err := workbook.SetSheetRow(sheet.name, cell, &values); err != nil {
				t.Fatalf("write sheet %s row %d: %v", sheet.name, i+1, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "import.xlsx")
	if err := workbook.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := workbook.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}
	return path
}

func cleanupImportedDataSet(t *testing.T, ctx context.Context, gdb *gorm.DB) {
	t.Helper()
	models := []interface{}{
		&types.IndicatorRecord{},
		&types.SourcingRecord{},
		&types.SourcingLocation{},
		&types.SourcingRecordGroup{},
		&types.Material{},
		&types.BusinessUnit{},
		&types.Supplier{},
		&types.DataYear{},
	}
	for _, model := range models {
		if err := gdb.WithContext(ctx).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().
			Delete(model).Error; err != nil {
			t.Logf("cleanup %T: %v", model, err)
		}
	}
}

func TestLoadXLSXDataSetImportsWorkbookEndToEnd(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testLogger(t)

	if err := db.SeedIndicators(gdb); err != nil {
		t.Fatalf("seed indicators: %v", err)
	}
	country := testutil.SeedCountry(t, ctx, gdb, "Testland", 10, 20)
	t.Cleanup(func() {
		_ = gdb.Unscoped().Delete(&types.AdminRegion{}, "id = ?", country.ID).Error
		cleanupImportedDataSet(t, ctx, gdb)
	})

	materialRepo := repos.NewMaterialRepo(gdb, log)
	businessUnitRepo := repos.NewBusinessUnitRepo(gdb, log)
	supplierRepo := repos.NewSupplierRepo(gdb, log)
	adminRegionRepo := repos.NewAdminRegionRepo(gdb, log)
	geoRegionRepo := repos.NewGeoRegionRepo(gdb, log)
	locationRepo := repos.NewSourcingLocationRepo(gdb, log)
	recordRepo := repos.NewSourcingRecordRepo(gdb, log)
	groupRepo := repos.NewSourcingRecordGroupRepo(gdb, log)
	scenarioRepo := repos.NewScenarioRepo(gdb, log)
	indicatorRepo := repos.NewIndicatorRepo(gdb, log)
	indicatorRecordRepo := repos.NewIndicatorRecordRepo(gdb, log)
	dataYearRepo := repos.NewDataYearRepo(gdb, log)
	jobEventRepo := repos.NewJobEventRepo(gdb, log)

	var mu sync.Mutex
	var messages []realtime.SSEMessage
	messageBus := bus.NewLocalBus()
	t.Cleanup(func() { _ = messageBus.Close() })
	if err := messageBus.StartForwarder(ctx, func(m realtime.SSEMessage) {
		mu.Lock()
		messages = append(messages, m)
		mu.Unlock()
	}); err != nil {
		t.Fatalf("start forwarder: %v", err)
	}

	resolver := geocoding.NewResolver(geoRegionRepo, adminRegionRepo, offlineGeocoder{}, log)
	dependencyService := NewIndicatorDependencyService(log)
	calculatorService := NewImpactCalculatorService(indicatorRepo, indicatorRecordRepo, recordRepo, dependencyService, log)
	jobService := NewJobService(jobEventRepo, log)
	progressEmitter := NewImportProgressEmitter(messageBus, log)
	importService := NewImportService(
		gdb,
		NewFileService(log),
		materialRepo,
		businessUnitRepo,
		supplierRepo,
		geoRegionRepo,
		locationRepo,
		recordRepo,
		groupRepo,
		scenarioRepo,
		indicatorRecordRepo,
		dataYearRepo,
		resolver,
		calculatorService,
		jobService,
		progressEmitter,
		log,
	)

	path := writeImportWorkbook(t)
	noTx := dbctx.Context{Ctx: ctx}
	job, err := jobService.StartJob(noTx, uuid.New(), types.JobSourcingDataImport)
	if err != nil {
		t.Fatalf("start job: %v", err)
	}
	t.Cleanup(func() {
		_ = gdb.Unscoped().Delete(&types.JobEvent{}, "id = ?", job.ID).Error
	})

	if err := importService.LoadXLSXDataSet(ctx, job.ID, path); err != nil {
		t.Fatalf("load dataset: %v", err)
	}

	finished, err := jobService.GetJob(noTx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if finished.Status != types.JobCompleted {
		t.Fatalf("job status: got=%s want=%s", finished.Status, types.JobCompleted)
	}

	counts := []struct {
		name  string
		model interface{}
	}{
		{"materials", &types.Material{}},
		{"business units", &types.BusinessUnit{}},
		{"suppliers", &types.Supplier{}},
		{"sourcing record groups", &types.SourcingRecordGroup{}},
		{"sourcing locations", &types.SourcingLocation{}},
		{"sourcing records", &types.SourcingRecord{}},
	}
	for _, entity := range counts {
		var count int64
		if err := gdb.WithContext(ctx).Model(entity.model).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", entity.name, err)
		}
		if count != 1 {
			t.Fatalf("%s: got=%d want=1", entity.name, count)
		}
	}

	var group types.SourcingRecordGroup
	if err := gdb.WithContext(ctx).First(&group).Error; err != nil {
		t.Fatalf("load group: %v", err)
	}
	var location types.SourcingLocation
	if err := gdb.WithContext(ctx).First(&location).Error; err != nil {
		t.Fatalf("load location: %v", err)
	}
	if location.SourcingRecordGroupID == nil || *location.SourcingRecordGroupID != group.ID {
		t.Fatalf("location group: got=%v want=%s", location.SourcingRecordGroupID, group.ID)
	}
	if location.AdminRegionID == nil || *location.AdminRegionID != country.ID {
		t.Fatalf("location admin region: got=%v want=%s", location.AdminRegionID, country.ID)
	}
	var record types.SourcingRecord
	if err := gdb.WithContext(ctx).First(&record).Error; err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.Year != 2020 || record.Tonnage != 250.5 {
		t.Fatalf("record: got=%d/%v want=2020/250.5", record.Year, record.Tonnage)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("uploaded file should be deleted, stat err=%v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	completed := false
	var importing []float64
	for _, message := range messages {
		if message.Channel != job.ID.String() {
			t.Fatalf("message channel: got=%s want=%s", message.Channel, job.ID)
		}
		if message.Event == realtime.EventImportCompleted {
			completed = true
		}
		if message.Event != realtime.EventImportProgress {
			continue
		}
		payload, ok := message.Data.(ImportProgressPayload)
		if !ok {
			t.Fatalf("progress payload type: got=%T", message.Data)
		}
		if payload.Step == StepImportingData {
			importing = append(importing, payload.Progress)
		}
	}
	if !completed {
		t.Fatal("no ImportCompleted message emitted")
	}
	if len(importing) == 0 {
		t.Fatal("no IMPORTING_DATA progress emitted")
	}
	// The locations save reports within the first half of the bar, the
	// records save within the second, so progress never goes backwards.
	if importing[0] > 50 {
		t.Fatalf("locations progress should stay in the first half: got=%v", importing)
	}
	for i := 1; i < len(importing); i++ {
		if importing[i] < importing[i-1] {
			t.Fatalf("IMPORTING_DATA progress went backwards: %v", importing)
		}
	}
	if importing[len(importing)-1] != 100 {
		t.Fatalf("IMPORTING_DATA final progress: got=%v want=100", importing[len(importing)-1])
	}
}
