package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusCodeHandler serves the status vocabulary so clients can translate
// symbolic names into the opaque ids the decide endpoint expects.
type statusCodeHandler struct {
	statusService portssvc.StatusResolverSvc
}

func newStatusCodeHandler(statusService portssvc.StatusResolverSvc) *statusCodeHandler {
	return &statusCodeHandler{
		statusService: statusService,
	}
}

// registerStatusCodeRoutes sets up the routes for the status vocabulary.
func registerStatusCodeRoutes(rg *gin.RouterGroup, statusService portssvc.StatusResolverSvc) {
	h := newStatusCodeHandler(statusService)

	rg.GET("/status-codes", h.listStatusCodes)
}

// listStatusCodes godoc
// @Summary List the status vocabulary
// @Tags status-codes
// @Produce  json
// @Success 200 {array} dto.StatusCodeResponse
// @Failure 500 {object} ErrorResponse
// @Router /status-codes [get]
func (h *statusCodeHandler) listStatusCodes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	codes, err := h.statusService.ListStatusCodes(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list status codes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list status codes"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusCodeResponses(codes))
}
