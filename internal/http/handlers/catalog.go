package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos"
	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
)

// CatalogHandler serves the reference entities the frontend filters by.
type CatalogHandler struct {
	materials     repos.MaterialRepo
	businessUnits repos.BusinessUnitRepo
	suppliers     repos.SupplierRepo
	adminRegions  repos.AdminRegionRepo
	indicators    repos.IndicatorRepo
	log           *logger.Logger
}

func NewCatalogHandler(
	materials repos.MaterialRepo,
	businessUnits repos.BusinessUnitRepo,
	suppliers repos.SupplierRepo,
	adminRegions repos.AdminRegionRepo,
	indicators repos.IndicatorRepo,
	baseLog *logger.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		materials:     materials,
		businessUnits: businessUnits,
		suppliers:     suppliers,
		adminRegions:  adminRegions,
		indicators:    indicators,
		log:           baseLog.With("handler", "CatalogHandler"),
	}
}

// GET /api/materials
func (h *CatalogHandler) ListMaterials(c *gin.Context) {
	materials, err := h.materials.FindAllActive(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"materials": materials})
}

// GET /api/business-units
func (h *CatalogHandler) ListBusinessUnits(c *gin.Context) {
	businessUnits, err := h.businessUnits.FindAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"business_units": businessUnits})
}

// GET /api/suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.suppliers.FindAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"suppliers": suppliers})
}

// GET /api/admin-regions
func (h *CatalogHandler) ListAdminRegions(c *gin.Context) {
	adminRegions, err := h.adminRegions.FindAll(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"admin_regions": adminRegions})
}

// GET /api/indicators
func (h *CatalogHandler) ListIndicators(c *gin.Context) {
	indicators, err := h.indicators.FindAllActive(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"indicators": indicators})
}
