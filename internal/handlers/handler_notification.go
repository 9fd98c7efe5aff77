package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// notificationHandler serves the recipient-facing notification feed.
type notificationHandler struct {
	notifierService portssvc.NotifierSvc
}

func newNotificationHandler(ns portssvc.NotifierSvc) *notificationHandler {
	return &notificationHandler{
		notifierService: ns,
	}
}

// registerNotificationRoutes sets up the routes for notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, notifierService portssvc.NotifierSvc) {
	h := newNotificationHandler(notifierService)

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:notificationID/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List my notifications
// @Tags notifications
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   offset query int false "Rows to skip"
// @Success 200 {object} dto.ListNotificationsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	employeeID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.notifierService.ListNotifications(c.Request.Context(), employeeID, limit, offset)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()), slog.String("employee_id", employeeID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(notifications))
}

// markRead godoc
// @Summary Mark a notification as read
// @Tags notifications
// @Produce  json
// @Param   notificationID path string true "Notification ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Notification not found"
// @Failure 500 {object} ErrorResponse
// @Router /notifications/{notificationID}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	notificationID := c.Param("notificationID")

	employeeID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.notifierService.MarkNotificationRead(c.Request.Context(), employeeID, notificationID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Notification not found"})
			return
		}
		logger.Error("Failed to mark notification read", slog.String("error", err.Error()), slog.String("notification_id", notificationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to mark notification read"})
		return
	}

	c.Status(http.StatusNoContent)
}
