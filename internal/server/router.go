package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/landgriffon/landgriffon-backend/internal/http/handlers"
)

type RouterConfig struct {
	AllowOrigins    []string
	ImportHandler   *handlers.ImportHandler
	ImpactHandler   *handlers.ImpactHandler
	ScenarioHandler *handlers.ScenarioHandler
	CatalogHandler  *handlers.CatalogHandler
	EUDRHandler     *handlers.EUDRHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Catalog
		api.GET("/materials", cfg.CatalogHandler.ListMaterials)
		api.GET("/business-units", cfg.CatalogHandler.ListBusinessUnits)
		api.GET("/suppliers", cfg.CatalogHandler.ListSuppliers)
		api.GET("/admin-regions", cfg.CatalogHandler.ListAdminRegions)
		api.GET("/indicators", cfg.CatalogHandler.ListIndicators)

		// Import
		api.POST("/import/sourcing-data", cfg.ImportHandler.UploadSourcingData)
		api.GET("/jobs/:id", cfg.ImportHandler.GetJob)

		// Impact
		api.GET("/impact/table", cfg.ImpactHandler.GetImpactTable)
		api.GET("/impact/ranked", cfg.ImpactHandler.GetRankedImpactTable)
		api.GET("/impact/compare/scenario", cfg.ImpactHandler.CompareWithScenario)
		api.GET("/impact/compare/scenarios", cfg.ImpactHandler.CompareScenarios)
		api.GET("/impact/report", cfg.ImpactHandler.DownloadReport)

		// Scenarios
		api.POST("/scenarios", cfg.ScenarioHandler.CreateScenario)
		api.GET("/scenarios", cfg.ScenarioHandler.ListScenarios)
		api.GET("/scenarios/:id", cfg.ScenarioHandler.GetScenario)
		api.DELETE("/scenarios/:id", cfg.ScenarioHandler.DeleteScenario)
		api.POST("/scenarios/:id/interventions", cfg.ScenarioHandler.CreateIntervention)
		api.DELETE("/interventions/:id", cfg.ScenarioHandler.DeleteIntervention)

		// EUDR
		api.GET("/eudr/dashboard", cfg.EUDRHandler.GetDashboard)

		// SSE
		api.GET("/sse/stream", cfg.SSEHandler.Stream)
	}

	return router
}
