package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// approvalHandler handles HTTP requests for the approval workflow.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

// newApprovalHandler creates a new approvalHandler.
func newApprovalHandler(approvalService portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{
		approvalService: approvalService,
	}
}

// RegisterApprovalRoutes sets up the routes for the approval workflow.
func RegisterApprovalRoutes(rg *gin.RouterGroup, approvalService portssvc.ApprovalSvcFacade) {
	h := newApprovalHandler(approvalService)

	approvals := rg.Group("/approvals")
	{
		approvals.POST("", h.submitApproval)
		approvals.GET("/:documentID", h.getApproval)
		approvals.POST("/lines/:lineID/decision", h.decideLine)

		inbox := approvals.Group("/inbox")
		{
			inbox.GET("/pending", h.listPending)
			inbox.GET("/drafted", h.listDrafted)
			inbox.GET("/referenced", h.listReferenced)
			inbox.GET("/completed", h.listCompleted)
		}
	}
}

// respondWorkflowError maps the workflow error taxonomy onto HTTP statuses.
// Configuration defects deliberately surface as an opaque 500.
func respondWorkflowError(c *gin.Context, logger *slog.Logger, err error, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		// Includes apperrors.ErrConfiguration: the caller cannot fix it.
		logger.Error("Internal error in "+operation, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + operation})
	}
}

// submitApproval godoc
// @Summary Submit a document for approval
// @Description Routes a new document through an ordered chain of approvers, with optional watchers.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   approval body dto.SubmitApprovalRequest true "Document, lines and watchers"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Invalid request format or line orders"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Approver or watcher not found"
// @Failure 500 {object} ErrorResponse "Failed to submit document"
// @Router /approvals [post]
func (h *approvalHandler) submitApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SubmitApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for submitApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	submitterID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		logger.Error("Submitter employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	doc, err := h.approvalService.SubmitDocument(c.Request.Context(), req, submitterID)
	if err != nil {
		respondWorkflowError(c, logger, err, "submit document")
		return
	}

	logger.Info("Document submitted successfully", slog.String("document_id", doc.DocumentID))
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

// decideLine godoc
// @Summary Decide an approval line
// @Description Applies the caller's APPROVED/REJECTED decision to the line they hold.
// @Tags approvals
// @Accept  json
// @Produce  json
// @Param   lineID path string true "Approval line ID"
// @Param   decision body dto.DecideLineRequest true "Decision status code and optional comment"
// @Success 200 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse "Status code is not a line decision"
// @Failure 403 {object} ErrorResponse "Line belongs to a different approver"
// @Failure 404 {object} ErrorResponse "Line or status code not found"
// @Failure 409 {object} ErrorResponse "Line already decided or not yet its turn"
// @Failure 500 {object} ErrorResponse "Failed to decide line"
// @Router /approvals/lines/{lineID}/decision [post]
func (h *approvalHandler) decideLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lineID := c.Param("lineID")

	var req dto.DecideLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for decideLine", slog.String("error", err.Error()), slog.String("line_id", lineID))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
		return
	}

	deciderID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		logger.Error("Decider employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	doc, err := h.approvalService.DecideLine(c.Request.Context(), lineID, req, deciderID)
	if err != nil {
		respondWorkflowError(c, logger, err, "decide line")
		return
	}

	logger.Info("Line decided successfully", slog.String("line_id", lineID), slog.String("document_id", doc.DocumentID), slog.String("document_status", string(doc.Status)))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

// getApproval godoc
// @Summary Get an approval document
// @Description Retrieves the materialized document. A watcher's first view is stamped once.
// @Tags approvals
// @Produce  json
// @Param   documentID path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ErrorResponse "Document not found"
// @Failure 500 {object} ErrorResponse "Failed to get document"
// @Router /approvals/{documentID} [get]
func (h *approvalHandler) getApproval(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	documentID := c.Param("documentID")

	viewerID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		logger.Error("Viewer employee ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	doc, err := h.approvalService.GetDocument(c.Request.Context(), documentID, viewerID)
	if err != nil {
		respondWorkflowError(c, logger, err, "get document")
		return
	}

	logger.Debug("Document retrieved", slog.String("document_id", documentID))
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

type inboxListFn func(c *gin.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error)

func (h *approvalHandler) listInbox(c *gin.Context, operation string, list inboxListFn) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	employeeID, ok := middleware.GetEmployeeIDFromContext(c)
	if !ok {
		logger.Error("Employee ID not found in context for inbox listing")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Error("Failed to bind query for inbox listing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination parameters"})
		return
	}

	resp, err := list(c, employeeID, params)
	if err != nil {
		respondWorkflowError(c, logger, err, operation)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// listPending godoc
// @Summary List documents pending my decision
// @Description In-progress documents where the caller holds an unsettled line.
// @Tags approvals
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 401 {object} ErrorResponse
// @Router /approvals/inbox/pending [get]
func (h *approvalHandler) listPending(c *gin.Context) {
	h.listInbox(c, "list pending approvals", func(c *gin.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
		return h.approvalService.ListPending(c.Request.Context(), employeeID, params)
	})
}

// listDrafted godoc
// @Summary List documents I drafted
// @Tags approvals
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 401 {object} ErrorResponse
// @Router /approvals/inbox/drafted [get]
func (h *approvalHandler) listDrafted(c *gin.Context) {
	h.listInbox(c, "list drafted approvals", func(c *gin.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
		return h.approvalService.ListDrafted(c.Request.Context(), employeeID, params)
	})
}

// listReferenced godoc
// @Summary List documents referenced to me
// @Tags approvals
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 401 {object} ErrorResponse
// @Router /approvals/inbox/referenced [get]
func (h *approvalHandler) listReferenced(c *gin.Context) {
	h.listInbox(c, "list referenced approvals", func(c *gin.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
		return h.approvalService.ListReferenced(c.Request.Context(), employeeID, params)
	})
}

// listCompleted godoc
// @Summary List completed documents that involved me
// @Tags approvals
// @Produce  json
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Cursor from a previous page"
// @Success 200 {object} dto.ListApprovalsResponse
// @Failure 401 {object} ErrorResponse
// @Router /approvals/inbox/completed [get]
func (h *approvalHandler) listCompleted(c *gin.Context) {
	h.listInbox(c, "list completed approvals", func(c *gin.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
		return h.approvalService.ListCompleted(c.Request.Context(), employeeID, params)
	})
}
