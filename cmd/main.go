package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/landgriffon/landgriffon-backend/internal/data/db"
	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/geocoding"
	"github.com/landgriffon/landgriffon-backend/internal/http/handlers"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/realtime/bus"
	"github.com/landgriffon/landgriffon-backend/internal/server"
	"github.com/landgriffon/landgriffon-backend/internal/services"
	"github.com/landgriffon/landgriffon-backend/internal/sse"
	"github.com/landgriffon/landgriffon-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "8080", log)
	uploadDir := utils.GetEnv("UPLOAD_DIR", os.TempDir(), log)
	geocoderAPIKey := utils.GetEnv("GEOCODING_API_KEY", "", log)
	growthRate := utils.GetEnvAsFloat("PROJECTION_GROWTH_RATE", 1.5, log)
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")

	// Postgres
	dbService, err := db.NewService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = db.AutoMigrateAll(dbService.DB()); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	if err = db.SeedIndicators(dbService.DB()); err != nil {
		log.Warn("Indicator seeding failed", "error", err)
	}
	if err = db.SeedImpactFunctions(dbService.DB()); err != nil {
		log.Warn("Impact function seeding failed", "error", err)
	}
	gormDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	materialRepo := repos.NewMaterialRepo(gormDB, log)
	businessUnitRepo := repos.NewBusinessUnitRepo(gormDB, log)
	supplierRepo := repos.NewSupplierRepo(gormDB, log)
	adminRegionRepo := repos.NewAdminRegionRepo(gormDB, log)
	geoRegionRepo := repos.NewGeoRegionRepo(gormDB, log)
	locationRepo := repos.NewSourcingLocationRepo(gormDB, log)
	recordRepo := repos.NewSourcingRecordRepo(gormDB, log)
	groupRepo := repos.NewSourcingRecordGroupRepo(gormDB, log)
	impactDataRepo := repos.NewImpactDataRepo(gormDB, log)
	indicatorRepo := repos.NewIndicatorRepo(gormDB, log)
	indicatorRecordRepo := repos.NewIndicatorRecordRepo(gormDB, log)
	dataYearRepo := repos.NewDataYearRepo(gormDB, log)
	scenarioRepo := repos.NewScenarioRepo(gormDB, log)
	interventionRepo := repos.NewInterventionRepo(gormDB, log)
	jobEventRepo := repos.NewJobEventRepo(gormDB, log)
	eudrAlertRepo := repos.NewEUDRAlertRepo(gormDB, log)

	// SSE and message bus
	log.Info("Setting up SSE hub and message bus...")
	sseHub := sse.NewHub(log)
	var messageBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		messageBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init redis bus", "error", err)
			os.Exit(1)
		}
	} else {
		messageBus = bus.NewLocalBus()
	}
	defer messageBus.Close()
	if err := messageBus.StartForwarder(context.Background(), sseHub.Broadcast); err != nil {
		log.Error("Could not start bus forwarder", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	geocoder := geocoding.NewHTTPGeocoder(geocoderAPIKey, log)
	resolver := geocoding.NewResolver(geoRegionRepo, adminRegionRepo, geocoder, log)
	fileService := services.NewFileService(log)
	dependencyService := services.NewIndicatorDependencyService(log)
	calculatorService := services.NewImpactCalculatorService(indicatorRepo, indicatorRecordRepo, recordRepo, dependencyService, log)
	jobService := services.NewJobService(jobEventRepo, log)
	progressEmitter := services.NewImportProgressEmitter(messageBus, log)
	importService := services.NewImportService(
		gormDB,
		fileService,
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
	impactTableService := services.NewImpactTableService(impactDataRepo, indicatorRepo, growthRate, log)
	impactReportService := services.NewImpactReportService(log)
	scenarioService := services.NewScenarioService(scenarioRepo, interventionRepo, log)
	interventionService := services.NewInterventionService(
		gormDB,
		scenarioRepo,
		interventionRepo,
		locationRepo,
		recordRepo,
		indicatorRecordRepo,
		resolver,
		calculatorService,
		log,
	)
	eudrService := services.NewEUDRDashboardService(eudrAlertRepo, log)

	// Handlers
	log.Info("Setting up Handlers from main...")
	importHandler := handlers.NewImportHandler(importService, jobService, uploadDir, log)
	impactHandler := handlers.NewImpactHandler(impactTableService, impactReportService, log)
	scenarioHandler := handlers.NewScenarioHandler(scenarioService, interventionService, log)
	catalogHandler := handlers.NewCatalogHandler(materialRepo, businessUnitRepo, supplierRepo, adminRegionRepo, indicatorRepo, log)
	eudrHandler := handlers.NewEUDRHandler(eudrService, log)
	sseHandler := handlers.NewSSEHandler(sseHub, log)

	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:    allowOrigins,
		ImportHandler:   importHandler,
		ImpactHandler:   impactHandler,
		ScenarioHandler: scenarioHandler,
		CatalogHandler:  catalogHandler,
		EUDRHandler:     eudrHandler,
		SSEHandler:      sseHandler,
	})

	log.Info("Starting HTTP server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("HTTP server stopped", "error", err)
		os.Exit(1)
	}
}
