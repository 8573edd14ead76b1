package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/dbctx"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/services"
)

type EUDRHandler struct {
	dashboard services.EUDRDashboardService
	log       *logger.Logger
}

func NewEUDRHandler(dashboard services.EUDRDashboardService, baseLog *logger.Logger) *EUDRHandler {
	return &EUDRHandler{
		dashboard: dashboard,
		log:       baseLog.With("handler", "EUDRHandler"),
	}
}

// GET /api/eudr/dashboard
func (h *EUDRHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboard.GetDashboard(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		respondRepoError(c, err)
		return
	}
	response.RespondOK(c, dashboard)
}
