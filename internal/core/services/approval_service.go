package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/middleware"
)

var (
	ErrLineOrderNotContiguous = errors.New("approval line orders must form the contiguous sequence 1..N")
	ErrValidityWindowInverted = errors.New("document end date is before its start date")
)

const (
	defaultInboxPageSize = 20
	maxInboxPageSize     = 100
)

// approvalService is the workflow orchestrator: it owns every state
// transition of the document aggregate.
type approvalService struct {
	documentRepo portsrepo.DocumentRepositoryWithTx
	employeeSvc  portssvc.EmployeeReaderSvc
	statusSvc    portssvc.StatusResolverSvc
	notifier     portssvc.NotifierSvc
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(documentRepo portsrepo.DocumentRepositoryWithTx, employeeSvc portssvc.EmployeeReaderSvc, statusSvc portssvc.StatusResolverSvc, notifier portssvc.NotifierSvc) portssvc.ApprovalSvcFacade {
	return &approvalService{
		documentRepo: documentRepo,
		employeeSvc:  employeeSvc,
		statusSvc:    statusSvc,
		notifier:     notifier,
	}
}

// Ensure approvalService implements the portssvc.ApprovalSvcFacade interface
var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// validateLineOrders checks that the requested orders are exactly 1..N.
func validateLineOrders(lines []dto.SubmitLineRequest) error {
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if l.ApprovalOrder < 1 || l.ApprovalOrder > len(lines) || seen[l.ApprovalOrder] {
			return fmt.Errorf("%w: got order %d among %d lines", ErrLineOrderNotContiguous, l.ApprovalOrder, len(lines))
		}
		seen[l.ApprovalOrder] = true
	}
	return nil
}

// SubmitDocument routes a new document through the requested approver chain.
// Implements portssvc.ApprovalSubmitSvc
func (s *approvalService) SubmitDocument(ctx context.Context, req dto.SubmitApprovalRequest, submitterID string) (*domain.ApprovalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := validateLineOrders(req.Lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrValidityWindowInverted.Error())
	}

	if _, err := s.employeeSvc.GetEmployeeByID(ctx, submitterID); err != nil {
		return nil, fmt.Errorf("failed to resolve submitter %s: %w", submitterID, err)
	}

	// The symbolic vocabulary must be provisioned before any document can be
	// routed. A missing name is a setup defect, not a caller error.
	for _, probe := range []struct {
		category domain.StatusCategory
		name     string
	}{
		{domain.CategoryDocument, "IN_PROGRESS"},
		{domain.CategoryLine, "PENDING"},
		{domain.CategoryLine, "AWAITING"},
	} {
		if _, err := s.statusSvc.Resolve(ctx, probe.category, probe.name); err != nil {
			logger.Error("Status vocabulary missing entry", slog.String("category", string(probe.category)), slog.String("name", probe.name), slog.String("error", err.Error()))
			return nil, err
		}
	}

	// Resolve every approver and watcher up front so the aggregate is never
	// partially persisted against a dangling employee.
	approverIDs := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		approverIDs = append(approverIDs, l.ApproverID)
	}
	uniqueApprovers := uniqueStrings(approverIDs)
	approvers, err := s.employeeSvc.GetEmployeesByIDs(ctx, uniqueApprovers)
	if err != nil {
		logger.Error("Failed to fetch approvers for submission", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch approvers: %w", err)
	}
	for _, id := range uniqueApprovers {
		if _, found := approvers[id]; !found {
			return nil, fmt.Errorf("%w: approver %s", apperrors.ErrNotFound, id)
		}
	}

	uniqueWatchers := uniqueStrings(req.References)
	watchers, err := s.employeeSvc.GetEmployeesByIDs(ctx, uniqueWatchers)
	if err != nil {
		logger.Error("Failed to fetch watchers for submission", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch watchers: %w", err)
	}
	for _, id := range uniqueWatchers {
		if _, found := watchers[id]; !found {
			return nil, fmt.Errorf("%w: watcher %s", apperrors.ErrNotFound, id)
		}
	}

	now := time.Now().UTC()
	documentID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     submitterID,
		LastUpdatedAt: now,
		LastUpdatedBy: submitterID,
	}

	doc := domain.ApprovalDocument{
		DocumentID:  documentID,
		Title:       req.Title,
		Content:     req.Content,
		Status:      domain.DocInProgress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AuditFields: audit,
	}

	lines := make([]domain.ApprovalLine, len(req.Lines))
	for i, l := range req.Lines {
		status := domain.LinePending
		if l.ApprovalOrder == 1 {
			status = domain.LineAwaiting
		}
		lines[i] = domain.ApprovalLine{
			LineID:        uuid.NewString(),
			DocumentID:    documentID,
			ApprovalOrder: l.ApprovalOrder,
			ApproverID:    l.ApproverID,
			Status:        status,
			AuditFields:   audit,
		}
	}

	refs := make([]domain.ApprovalReference, len(uniqueWatchers))
	for i, watcherID := range uniqueWatchers {
		refs[i] = domain.ApprovalReference{
			ReferenceID: uuid.NewString(),
			DocumentID:  documentID,
			EmployeeID:  watcherID,
			AuditFields: audit,
		}
	}

	if err := s.documentRepo.SaveDocument(ctx, doc, lines, refs); err != nil {
		logger.Error("Failed to save document aggregate", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Document submitted", slog.String("document_id", documentID), slog.Int("line_count", len(lines)), slog.Int("reference_count", len(refs)))

	// Post-commit, best-effort.
	for _, watcherID := range uniqueWatchers {
		s.notifier.Notify(ctx, watcherID, domain.TopicReferenced, documentID, "You were referenced on document "+req.Title)
	}
	if first := domain.LineAtOrder(lines, 1); first != nil {
		s.notifier.Notify(ctx, first.ApproverID, domain.TopicDecisionRequired, documentID, "Document "+req.Title+" awaits your decision")
	}

	doc.Lines = sortLinesByOrder(lines)
	doc.References = refs
	return &doc, nil
}

// decisionFromStatusCode validates the caller-supplied status code id and maps
// it onto the closed decision type.
func (s *approvalService) decisionFromStatusCode(ctx context.Context, statusCodeID string) (domain.LineStatus, error) {
	sc, err := s.statusSvc.ResolveByID(ctx, statusCodeID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve status code %s: %w", statusCodeID, err)
	}
	if sc.Category != domain.CategoryLine {
		return "", fmt.Errorf("%w: status code %s is not a line status", apperrors.ErrValidation, statusCodeID)
	}
	switch sc.Name {
	case "APPROVED":
		return domain.LineApproved, nil
	case "REJECTED":
		return domain.LineRejected, nil
	default:
		return "", fmt.Errorf("%w: status code %s (%s) is not a decision", apperrors.ErrValidation, statusCodeID, sc.Name)
	}
}

// DecideLine applies one approver's decision to the line they hold.
// Implements portssvc.ApprovalDecideSvc
func (s *approvalService) DecideLine(ctx context.Context, lineID string, req dto.DecideLineRequest, deciderID string) (*domain.ApprovalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	decision, err := s.decisionFromStatusCode(ctx, req.StatusCodeID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	tx, err := s.documentRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin decide transaction: %w", err)
	}
	// Ignored once the transaction commits
	defer s.documentRepo.Rollback(ctx, tx)

	// Locks the line row; a racing decider blocks here until we commit and
	// then fails the AWAITING gate below.
	line, err := s.documentRepo.FindLineForUpdate(ctx, tx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to find line %s: %w", lineID, err)
	}
	if line.ApproverID != deciderID {
		logger.Warn("Decision attempted by non-approver", slog.String("line_id", lineID), slog.String("decider_id", deciderID), slog.String("approver_id", line.ApproverID))
		return nil, fmt.Errorf("%w: line %s is not assigned to employee %s", apperrors.ErrForbidden, lineID, deciderID)
	}
	if line.Status != domain.LineAwaiting {
		return nil, fmt.Errorf("%w: line %s has status %s, expected AWAITING", apperrors.ErrConflict, lineID, line.Status)
	}

	if err := s.documentRepo.SettleLineInTx(ctx, tx, lineID, decision, req.Comment, now, deciderID); err != nil {
		return nil, err
	}

	var nextApproverID string
	docStatus := domain.DocInProgress
	if decision == domain.LineRejected {
		// Rejection short-circuits the chain: later lines stay PENDING forever.
		docStatus = domain.DocRejected
	} else {
		next, nextErr := s.documentRepo.FindLineByDocumentAndOrderInTx(ctx, tx, line.DocumentID, line.ApprovalOrder+1)
		switch {
		case nextErr == nil:
			if err := s.documentRepo.SetLineAwaitingInTx(ctx, tx, next.LineID, deciderID, now); err != nil {
				return nil, err
			}
			nextApproverID = next.ApproverID
		case errors.Is(nextErr, apperrors.ErrNotFound):
			// This was the highest-order line.
			docStatus = domain.DocApproved
		default:
			return nil, nextErr
		}
	}

	// Always rewritten so the document records its last decider even when the
	// status itself is unchanged.
	if err := s.documentRepo.UpdateDocumentStatusInTx(ctx, tx, line.DocumentID, docStatus, deciderID, now); err != nil {
		return nil, err
	}

	if err := s.documentRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit decide transaction: %w", err)
	}

	logger.Info("Line decided", slog.String("line_id", lineID), slog.String("document_id", line.DocumentID), slog.String("decision", string(decision)), slog.String("document_status", string(docStatus)))

	doc, err := s.materializeDocument(ctx, line.DocumentID)
	if err != nil {
		return nil, err
	}

	// Post-commit, best-effort.
	switch docStatus {
	case domain.DocRejected:
		s.notifier.Notify(ctx, doc.CreatedBy, domain.TopicDocumentRejected, doc.DocumentID, "Document "+doc.Title+" was rejected")
	case domain.DocApproved:
		s.notifier.Notify(ctx, doc.CreatedBy, domain.TopicDocumentApproved, doc.DocumentID, "Document "+doc.Title+" was approved")
	default:
		if nextApproverID != "" {
			s.notifier.Notify(ctx, nextApproverID, domain.TopicDecisionRequired, doc.DocumentID, "Document "+doc.Title+" awaits your decision")
		}
	}

	return doc, nil
}

// GetDocument returns the materialized document for any involved party and
// stamps a watcher's first view exactly once.
// Implements portssvc.ApprovalViewerSvc
func (s *approvalService) GetDocument(ctx context.Context, documentID string, viewerID string) (*domain.ApprovalDocument, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.employeeSvc.GetEmployeeByID(ctx, viewerID); err != nil {
		return nil, fmt.Errorf("failed to resolve viewer %s: %w", viewerID, err)
	}

	doc, err := s.materializeDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	for _, ref := range doc.References {
		if ref.EmployeeID != viewerID || ref.FirstViewedAt != nil {
			continue
		}
		now := time.Now().UTC()
		stamped, markErr := s.documentRepo.MarkReferenceViewed(ctx, ref.ReferenceID, now)
		if markErr != nil {
			// The view itself still succeeds; the stamp retries on next view.
			logger.Error("Failed to stamp first view", slog.String("reference_id", ref.ReferenceID), slog.String("error", markErr.Error()))
			break
		}
		if stamped {
			for i := range doc.References {
				if doc.References[i].ReferenceID == ref.ReferenceID {
					viewedAt := now
					doc.References[i].FirstViewedAt = &viewedAt
				}
			}
		}
		break
	}

	return doc, nil
}

// materializeDocument loads the aggregate root with its lines and references.
func (s *approvalService) materializeDocument(ctx context.Context, documentID string) (*domain.ApprovalDocument, error) {
	doc, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	lines, err := s.documentRepo.FindLinesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of document %s: %w", documentID, err)
	}
	refs, err := s.documentRepo.FindReferencesByDocumentID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load references of document %s: %w", documentID, err)
	}

	doc.Lines = sortLinesByOrder(lines)
	doc.References = refs
	return doc, nil
}

// ListPending returns in-progress documents where the viewer holds an
// unsettled line.
// Implements portssvc.ApprovalInboxSvc
func (s *approvalService) ListPending(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	return s.listInbox(ctx, employeeID, params, s.documentRepo.ListPendingForApprover)
}

// ListDrafted returns documents the viewer created.
// Implements portssvc.ApprovalInboxSvc
func (s *approvalService) ListDrafted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	return s.listInbox(ctx, employeeID, params, s.documentRepo.ListDraftedByEmployee)
}

// ListReferenced returns documents the viewer watches.
// Implements portssvc.ApprovalInboxSvc
func (s *approvalService) ListReferenced(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	return s.listInbox(ctx, employeeID, params, s.documentRepo.ListReferencedToEmployee)
}

// ListCompleted returns terminal documents where the viewer held a line.
// Implements portssvc.ApprovalInboxSvc
func (s *approvalService) ListCompleted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	return s.listInbox(ctx, employeeID, params, s.documentRepo.ListCompletedForApprover)
}

type inboxQuery func(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error)

// listInbox runs one projection query and eagerly batch-loads children for
// the returned page.
func (s *approvalService) listInbox(ctx context.Context, employeeID string, params dto.ListApprovalsParams, query inboxQuery) (*dto.ListApprovalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = defaultInboxPageSize
	}
	if limit > maxInboxPageSize {
		limit = maxInboxPageSize
	}

	docs, nextToken, err := query(ctx, employeeID, limit, params.NextToken)
	if err != nil {
		logger.Error("Inbox query failed", slog.String("employee_id", employeeID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list documents for employee %s: %w", employeeID, err)
	}

	documentIDs := make([]string, len(docs))
	for i, d := range docs {
		documentIDs[i] = d.DocumentID
	}

	linesMap, err := s.documentRepo.FindLinesByDocumentIDs(ctx, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for inbox page: %w", err)
	}
	refsMap, err := s.documentRepo.FindReferencesByDocumentIDs(ctx, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load references for inbox page: %w", err)
	}

	responses := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		docs[i].Lines = sortLinesByOrder(linesMap[docs[i].DocumentID])
		docs[i].References = refsMap[docs[i].DocumentID]
		responses[i] = dto.ToDocumentResponse(&docs[i])
	}

	return &dto.ListApprovalsResponse{
		Documents: responses,
		NextToken: nextToken,
	}, nil
}

func sortLinesByOrder(lines []domain.ApprovalLine) []domain.ApprovalLine {
	sort.Slice(lines, func(i, j int) bool { return lines[i].ApprovalOrder < lines[j].ApprovalOrder })
	return lines
}

// uniqueStrings returns the input ids deduplicated, preserving first-seen order.
func uniqueStrings(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
