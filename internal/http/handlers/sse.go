package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/landgriffon/landgriffon-backend/internal/http/response"
	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.Hub
	log *logger.Logger
}

func NewSSEHandler(hub *sse.Hub, baseLog *logger.Logger) *SSEHandler {
	return &SSEHandler{
		hub: hub,
		log: baseLog.With("handler", "SSEHandler"),
	}
}

// GET /api/sse/stream?channel=<job id>
// Streams progress events for the given channel until the client hangs up.
func (h *SSEHandler) Stream(c *gin.Context) {
	channel := c.Query("channel")
	if channel == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_channel", fmt.Errorf("the channel query parameter is required"))
		return
	}

	client := h.hub.NewClient()
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
