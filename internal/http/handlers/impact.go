package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/landgriffon/landgriffon-backend/internal/data/repos/sourcing"
	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/services"
)

type ImpactHandler struct {
	tables  services.ImpactTableService
	reports services.ImpactReportService
	log     *logger.Logger
}

func NewImpactHandler(tables services.ImpactTableService, reports services.ImpactReportService, baseLog *logger.Logger) *ImpactHandler {
	return &ImpactHandler{
		tables:  tables,
		reports: reports,
		log:     baseLog.With("handler", "ImpactHandler"),
	}
}

// GET /api/impact/table
func (h *ImpactHandler) GetImpactTable(c *gin.Context) {
	params, err := impactParamsFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	table, err := h.tables.GetImpactTable(dbctx.Context{Ctx: c.Request.Context()}, params)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, table)
}

// GET /api/impact/ranked
func (h *ImpactHandler) GetRankedImpactTable(c *gin.Context) {
	params, err := impactParamsFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	maxEntities, err := strconv.Atoi(c.DefaultQuery("maxRankingEntities", "5"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", fmt.Errorf("maxRankingEntities must be a number: %w", err))
		return
	}
	order := services.RankingDescending
	if c.Query("sort") == string(services.RankingAscending) {
		order = services.RankingAscending
	}

	table, err := h.tables.GetRankedImpactTable(dbctx.Context{Ctx: c.Request.Context()}, params, maxEntities, order)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, table)
}

// GET /api/impact/compare/scenario
// Actual data against one scenario.
func (h *ImpactHandler) CompareWithScenario(c *gin.Context) {
	params, err := impactParamsFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	comparedScenarioID, err := uuid.Parse(c.Query("comparedScenarioId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", fmt.Errorf("comparedScenarioId is required: %w", err))
		return
	}

	table, err := h.tables.GetActualVsScenarioTable(dbctx.Context{Ctx: c.Request.Context()}, params, comparedScenarioID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, table)
}

// GET /api/impact/compare/scenarios
// Two scenarios against each other.
func (h *ImpactHandler) CompareScenarios(c *gin.Context) {
	params, err := impactParamsFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}
	baseScenarioID, err := uuid.Parse(c.Query("baseScenarioId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", fmt.Errorf("baseScenarioId is required: %w", err))
		return
	}
	comparedScenarioID, err := uuid.Parse(c.Query("comparedScenarioId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", fmt.Errorf("comparedScenarioId is required: %w", err))
		return
	}

	table, err := h.tables.GetScenarioVsScenarioTable(dbctx.Context{Ctx: c.Request.Context()}, params, baseScenarioID, comparedScenarioID)
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, table)
}

// GET /api/impact/report
// Same query parameters as the table endpoints, rendered as a CSV download.
func (h *ImpactHandler) DownloadReport(c *gin.Context) {
	params, err := impactParamsFromQuery(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_query", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	var table *services.ImpactTable
	if raw := c.Query("comparedScenarioId"); raw != "" {
		comparedScenarioID, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_query", parseErr)
			return
		}
		if rawBase := c.Query("baseScenarioId"); rawBase != "" {
			baseScenarioID, parseErr := uuid.Parse(rawBase)
			if parseErr != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_query", parseErr)
				return
			}
			table, err = h.tables.GetScenarioVsScenarioTable(dbc, params, baseScenarioID, comparedScenarioID)
		} else {
			table, err = h.tables.GetActualVsScenarioTable(dbc, params, comparedScenarioID)
		}
	} else {
		table, err = h.tables.GetImpactTable(dbc, params)
	}
	if err != nil {
		respondRepoError(c, err)
		return
	}

	filename := fmt.Sprintf("impact_report_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := h.reports.WriteCSV(c.Writer, table); err != nil {
		h.log.Warn("failed to stream impact report", "error", err)
	}
}

func impactParamsFromQuery(c *gin.Context) (services.ImpactTableParams, error) {
	var params services.ImpactTableParams

	for _, raw := range strings.Split(c.Query("indicatorIds"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, fmt.Errorf("invalid indicator id %q: %w", raw, err)
		}
		params.IndicatorIDs = append(params.IndicatorIDs, id)
	}
	if len(params.IndicatorIDs) == 0 {
		return params, fmt.Errorf("indicatorIds is required")
	}

	startYear, err := strconv.Atoi(c.Query("startYear"))
	if err != nil {
		return params, fmt.Errorf("startYear must be a number: %w", err)
	}
	endYear, err := strconv.Atoi(c.Query("endYear"))
	if err != nil {
		return params, fmt.Errorf("endYear must be a number: %w", err)
	}
	if endYear < startYear {
		return params, fmt.Errorf("endYear %d is before startYear %d", endYear, startYear)
	}
	params.StartYear = startYear
	params.EndYear = endYear
	params.GroupBy = sourcing.ImpactGroupBy(c.DefaultQuery("groupBy", string(sourcing.GroupByMaterial)))
	return params, nil
}
