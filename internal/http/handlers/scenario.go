package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/landgriffon/landgriffon-backend/internal/domain"
	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/services"
)

type ScenarioHandler struct {
	scenarios     services.ScenarioService
	interventions services.InterventionService
	log           *logger.Logger
}

func NewScenarioHandler(scenarios services.ScenarioService, interventions services.InterventionService, baseLog *logger.Logger) *ScenarioHandler {
	return &ScenarioHandler{
		scenarios:     scenarios,
		interventions: interventions,
		log:           baseLog.With("handler", "ScenarioHandler"),
	}
}

type createScenarioRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// POST /api/scenarios
func (h *ScenarioHandler) CreateScenario(c *gin.Context) {
	var req createScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	scenario, err := h.scenarios.CreateScenario(dbctx.Context{Ctx: c.Request.Context()}, services.CreateScenarioDTO{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, scenario)
}

// GET /api/scenarios
func (h *ScenarioHandler) ListScenarios(c *gin.Context) {
	scenarios, err := h.scenarios.ListScenarios(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenarios": scenarios})
}

// GET /api/scenarios/:id
func (h *ScenarioHandler) GetScenario(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	scenario, err := h.scenarios.GetScenario(dbc, scenarioID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	interventions, err := h.scenarios.ListInterventions(dbc, scenarioID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"scenario": scenario, "interventions": interventions})
}

// DELETE /api/scenarios/:id
func (h *ScenarioHandler) DeleteScenario(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}

	if err := h.interventions.DeleteScenario(c.Request.Context(), scenarioID); err != nil {
		respondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createInterventionRequest struct {
	Title           string      `json:"title" binding:"required"`
	Type            string      `json:"type" binding:"required"`
	Description     string      `json:"description"`
	StartYear       int         `json:"start_year" binding:"required"`
	Percentage      float64     `json:"percentage"`
	MaterialIDs     []uuid.UUID `json:"material_ids"`
	BusinessUnitIDs []uuid.UUID `json:"business_unit_ids"`
	SupplierIDs     []uuid.UUID `json:"supplier_ids"`
	AdminRegionIDs  []uuid.UUID `json:"admin_region_ids"`
	NewMaterialID   *uuid.UUID  `json:"new_material_id"`
	NewT1SupplierID *uuid.UUID  `json:"new_t1_supplier_id"`
	NewProducerID   *uuid.UUID  `json:"new_producer_id"`
	NewLocationType string      `json:"new_location_type"`
	NewCountryInput string      `json:"new_country_input"`
	NewAddressInput string      `json:"new_address_input"`
	NewLocationLat  *float64    `json:"new_location_latitude"`
	NewLocationLng  *float64    `json:"new_location_longitude"`
}

// POST /api/scenarios/:id/interventions
func (h *ScenarioHandler) CreateIntervention(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_scenario_id", err)
		return
	}
	var req createInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	intervention, err := h.interventions.CreateIntervention(c.Request.Context(), services.CreateInterventionDTO{
		ScenarioID:      scenarioID,
		Title:           req.Title,
		Type:            types.InterventionKind(req.Type),
		Description:     req.Description,
		StartYear:       req.StartYear,
		Percentage:      req.Percentage,
		MaterialIDs:     req.MaterialIDs,
		BusinessUnitIDs: req.BusinessUnitIDs,
		SupplierIDs:     req.SupplierIDs,
		AdminRegionIDs:  req.AdminRegionIDs,
		NewMaterialID:   req.NewMaterialID,
		NewT1SupplierID: req.NewT1SupplierID,
		NewProducerID:   req.NewProducerID,
		NewLocationType: types.LocationType(req.NewLocationType),
		NewCountryInput: req.NewCountryInput,
		NewAddressInput: req.NewAddressInput,
		NewLocationLat:  req.NewLocationLat,
		NewLocationLng:  req.NewLocationLng,
	})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	c.JSON(http.StatusCreated, intervention)
}

// DELETE /api/interventions/:id
func (h *ScenarioHandler) DeleteIntervention(c *gin.Context) {
	interventionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
		return
	}

	if err := h.interventions.DeleteIntervention(c.Request.Context(), interventionID); err != nil {
		respondRepoError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
