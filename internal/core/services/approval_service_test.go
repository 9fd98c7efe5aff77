package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portsrepo "github.com/hrplane/approval_flow_app/internal/core/ports/repositories"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/core/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// fakeTx satisfies pgx.Tx for passing through mocked repository calls. None
// of its methods are ever invoked because the repository itself is mocked.
type fakeTx struct {
	pgx.Tx
}

// --- Mock DocumentRepository ---
type MockDocumentRepository struct {
	mock.Mock
}

// Ensure MockDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*MockDocumentRepository)(nil)

func (m *MockDocumentRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockDocumentRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDocumentRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc domain.ApprovalDocument, lines []domain.ApprovalLine, refs []domain.ApprovalReference) error {
	args := m.Called(ctx, doc, lines, refs)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkReferenceViewed(ctx context.Context, referenceID string, viewedAt time.Time) (bool, error) {
	args := m.Called(ctx, referenceID, viewedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.ApprovalDocument, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindLineByID(ctx context.Context, lineID string) (*domain.ApprovalLine, error) {
	args := m.Called(ctx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalLine), args.Error(1)
}

func (m *MockDocumentRepository) FindLinesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalLine, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalLine), args.Error(1)
}

func (m *MockDocumentRepository) FindLinesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalLine, error) {
	args := m.Called(ctx, documentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.ApprovalLine), args.Error(1)
}

func (m *MockDocumentRepository) FindReferencesByDocumentID(ctx context.Context, documentID string) ([]domain.ApprovalReference, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalReference), args.Error(1)
}

func (m *MockDocumentRepository) FindReferencesByDocumentIDs(ctx context.Context, documentIDs []string) (map[string][]domain.ApprovalReference, error) {
	args := m.Called(ctx, documentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.ApprovalReference), args.Error(1)
}

func (m *MockDocumentRepository) FindReference(ctx context.Context, documentID, employeeID string) (*domain.ApprovalReference, error) {
	args := m.Called(ctx, documentID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalReference), args.Error(1)
}

func (m *MockDocumentRepository) FindLineForUpdate(ctx context.Context, tx pgx.Tx, lineID string) (*domain.ApprovalLine, error) {
	args := m.Called(ctx, tx, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalLine), args.Error(1)
}

func (m *MockDocumentRepository) SettleLineInTx(ctx context.Context, tx pgx.Tx, lineID string, status domain.LineStatus, comment *string, decidedAt time.Time, deciderID string) error {
	args := m.Called(ctx, tx, lineID, status, comment, decidedAt, deciderID)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindLineByDocumentAndOrderInTx(ctx context.Context, tx pgx.Tx, documentID string, order int) (*domain.ApprovalLine, error) {
	args := m.Called(ctx, tx, documentID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalLine), args.Error(1)
}

func (m *MockDocumentRepository) SetLineAwaitingInTx(ctx context.Context, tx pgx.Tx, lineID string, updaterID string, now time.Time) error {
	args := m.Called(ctx, tx, lineID, updaterID, now)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateDocumentStatusInTx(ctx context.Context, tx pgx.Tx, documentID string, status domain.DocumentStatus, updaterID string, now time.Time) error {
	args := m.Called(ctx, tx, documentID, status, updaterID, now)
	return args.Error(0)
}

func (m *MockDocumentRepository) listDocs(args mock.Arguments) ([]domain.ApprovalDocument, *string, error) {
	var docs []domain.ApprovalDocument
	if args.Get(0) != nil {
		docs = args.Get(0).([]domain.ApprovalDocument)
	}
	var nextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		nextToken = &tokenVal
	}
	return docs, nextToken, args.Error(2)
}

func (m *MockDocumentRepository) ListPendingForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	return m.listDocs(m.Called(ctx, employeeID, limit, nextToken))
}

func (m *MockDocumentRepository) ListDraftedByEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	return m.listDocs(m.Called(ctx, employeeID, limit, nextToken))
}

func (m *MockDocumentRepository) ListReferencedToEmployee(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	return m.listDocs(m.Called(ctx, employeeID, limit, nextToken))
}

func (m *MockDocumentRepository) ListCompletedForApprover(ctx context.Context, employeeID string, limit int, nextToken *string) ([]domain.ApprovalDocument, *string, error) {
	return m.listDocs(m.Called(ctx, employeeID, limit, nextToken))
}

// --- Mock EmployeeReaderSvc ---
type MockEmployeeReaderSvc struct {
	mock.Mock
}

var _ portssvc.EmployeeReaderSvc = (*MockEmployeeReaderSvc)(nil)

func (m *MockEmployeeReaderSvc) GetEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

func (m *MockEmployeeReaderSvc) GetEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Employee), args.Error(1)
}

func (m *MockEmployeeReaderSvc) GetEmployeeByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}

// --- Mock StatusResolverSvc ---
type MockStatusResolverSvc struct {
	mock.Mock
}

var _ portssvc.StatusResolverSvc = (*MockStatusResolverSvc)(nil)

func (m *MockStatusResolverSvc) Resolve(ctx context.Context, category domain.StatusCategory, name string) (string, error) {
	args := m.Called(ctx, category, name)
	return args.String(0), args.Error(1)
}

func (m *MockStatusResolverSvc) ResolveByID(ctx context.Context, statusCodeID string) (*domain.StatusCode, error) {
	args := m.Called(ctx, statusCodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusCode), args.Error(1)
}

func (m *MockStatusResolverSvc) ListStatusCodes(ctx context.Context) ([]domain.StatusCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusCode), args.Error(1)
}

// --- Mock NotifierSvc ---
type MockNotifierSvc struct {
	mock.Mock
}

var _ portssvc.NotifierSvc = (*MockNotifierSvc)(nil)

func (m *MockNotifierSvc) Notify(ctx context.Context, recipientID string, topic domain.NotificationTopic, documentID, message string) {
	m.Called(ctx, recipientID, topic, documentID, message)
}

func (m *MockNotifierSvc) ListNotifications(ctx context.Context, recipientID string, limit, offset int) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotifierSvc) MarkNotificationRead(ctx context.Context, recipientID, notificationID string) error {
	args := m.Called(ctx, recipientID, notificationID)
	return args.Error(0)
}

// --- Suite ---

type ApprovalServiceTestSuite struct {
	suite.Suite
	mockDocRepo  *MockDocumentRepository
	mockEmployee *MockEmployeeReaderSvc
	mockStatus   *MockStatusResolverSvc
	mockNotifier *MockNotifierSvc
	service      portssvc.ApprovalSvcFacade

	drafterID  string
	approver1  string
	approver2  string
	watcherID  string
	documentID string
	tx         pgx.Tx
}

func (suite *ApprovalServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockEmployee = new(MockEmployeeReaderSvc)
	suite.mockStatus = new(MockStatusResolverSvc)
	suite.mockNotifier = new(MockNotifierSvc)
	suite.service = services.NewApprovalService(suite.mockDocRepo, suite.mockEmployee, suite.mockStatus, suite.mockNotifier)

	suite.drafterID = uuid.NewString()
	suite.approver1 = uuid.NewString()
	suite.approver2 = uuid.NewString()
	suite.watcherID = uuid.NewString()
	suite.documentID = uuid.NewString()
	suite.tx = fakeTx{}
}

func (suite *ApprovalServiceTestSuite) employee(id string) *domain.Employee {
	return &domain.Employee{EmployeeID: id, Name: "emp-" + id[:8], Username: "user-" + id[:8]}
}

func (suite *ApprovalServiceTestSuite) expectVocabulary() {
	suite.mockStatus.On("Resolve", mock.Anything, domain.CategoryDocument, "IN_PROGRESS").Return(uuid.NewString(), nil).Once()
	suite.mockStatus.On("Resolve", mock.Anything, domain.CategoryLine, "PENDING").Return(uuid.NewString(), nil).Once()
	suite.mockStatus.On("Resolve", mock.Anything, domain.CategoryLine, "AWAITING").Return(uuid.NewString(), nil).Once()
}

func (suite *ApprovalServiceTestSuite) submitRequest() dto.SubmitApprovalRequest {
	return dto.SubmitApprovalRequest{
		Title:   "Leave request",
		Content: "Two weeks in October",
		Lines: []dto.SubmitLineRequest{
			{ApprovalOrder: 2, ApproverID: suite.approver2},
			{ApprovalOrder: 1, ApproverID: suite.approver1},
		},
		References: []string{suite.watcherID},
	}
}

// --- submit ---

func (suite *ApprovalServiceTestSuite) TestSubmitDocument_Success() {
	ctx := context.Background()
	req := suite.submitRequest()

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.drafterID).Return(suite.employee(suite.drafterID), nil).Once()
	suite.expectVocabulary()
	suite.mockEmployee.On("GetEmployeesByIDs", ctx, []string{suite.approver2, suite.approver1}).Return(map[string]domain.Employee{
		suite.approver1: *suite.employee(suite.approver1),
		suite.approver2: *suite.employee(suite.approver2),
	}, nil).Once()
	suite.mockEmployee.On("GetEmployeesByIDs", ctx, []string{suite.watcherID}).Return(map[string]domain.Employee{
		suite.watcherID: *suite.employee(suite.watcherID),
	}, nil).Once()

	var savedLines []domain.ApprovalLine
	suite.mockDocRepo.On("SaveDocument", ctx, mock.AnythingOfType("domain.ApprovalDocument"), mock.AnythingOfType("[]domain.ApprovalLine"), mock.AnythingOfType("[]domain.ApprovalReference")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.ApprovalLine)
		}).Return(nil).Once()

	suite.mockNotifier.On("Notify", ctx, suite.watcherID, domain.TopicReferenced, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Once()
	suite.mockNotifier.On("Notify", ctx, suite.approver1, domain.TopicDecisionRequired, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Once()

	doc, err := suite.service.SubmitDocument(ctx, req, suite.drafterID)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal(domain.DocInProgress, doc.Status)
	suite.Equal(suite.drafterID, doc.CreatedBy)

	// The first-order line starts AWAITING, everything else PENDING.
	suite.Require().Len(savedLines, 2)
	for _, l := range savedLines {
		if l.ApprovalOrder == 1 {
			suite.Equal(domain.LineAwaiting, l.Status)
			suite.Equal(suite.approver1, l.ApproverID)
		} else {
			suite.Equal(domain.LinePending, l.Status)
		}
	}

	// The returned aggregate is sorted ascending by order.
	suite.Require().Len(doc.Lines, 2)
	suite.Equal(1, doc.Lines[0].ApprovalOrder)
	suite.Equal(2, doc.Lines[1].ApprovalOrder)

	suite.Require().Len(doc.References, 1)
	suite.Equal(suite.watcherID, doc.References[0].EmployeeID)
	suite.Nil(doc.References[0].FirstViewedAt)

	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestSubmitDocument_NonContiguousOrders() {
	ctx := context.Background()
	req := suite.submitRequest()
	req.Lines[0].ApprovalOrder = 3 // 1 and 3: gap

	_, err := suite.service.SubmitDocument(ctx, req, suite.drafterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestSubmitDocument_DuplicateOrders() {
	ctx := context.Background()
	req := suite.submitRequest()
	req.Lines[0].ApprovalOrder = 1 // both lines at order 1

	_, err := suite.service.SubmitDocument(ctx, req, suite.drafterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ApprovalServiceTestSuite) TestSubmitDocument_MissingApprover() {
	ctx := context.Background()
	req := suite.submitRequest()

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.drafterID).Return(suite.employee(suite.drafterID), nil).Once()
	suite.expectVocabulary()
	// approver2 is absent from the directory
	suite.mockEmployee.On("GetEmployeesByIDs", ctx, []string{suite.approver2, suite.approver1}).Return(map[string]domain.Employee{
		suite.approver1: *suite.employee(suite.approver1),
	}, nil).Once()

	_, err := suite.service.SubmitDocument(ctx, req, suite.drafterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), suite.approver2)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveDocument", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestSubmitDocument_MissingVocabulary() {
	ctx := context.Background()
	req := suite.submitRequest()

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.drafterID).Return(suite.employee(suite.drafterID), nil).Once()
	suite.mockStatus.On("Resolve", mock.Anything, domain.CategoryDocument, "IN_PROGRESS").
		Return("", apperrors.NewConfigurationError("status DOC/IN_PROGRESS is not provisioned")).Once()

	_, err := suite.service.SubmitDocument(ctx, req, suite.drafterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
}

// --- decide ---

func (suite *ApprovalServiceTestSuite) awaitingLine(order int, approverID string) *domain.ApprovalLine {
	return &domain.ApprovalLine{
		LineID:        uuid.NewString(),
		DocumentID:    suite.documentID,
		ApprovalOrder: order,
		ApproverID:    approverID,
		Status:        domain.LineAwaiting,
	}
}

func (suite *ApprovalServiceTestSuite) lineStatusCode(name string) *domain.StatusCode {
	return &domain.StatusCode{StatusCodeID: uuid.NewString(), Category: domain.CategoryLine, Name: name}
}

func (suite *ApprovalServiceTestSuite) expectMaterialize(lines []domain.ApprovalLine, refs []domain.ApprovalReference) {
	doc := &domain.ApprovalDocument{
		DocumentID: suite.documentID,
		Title:      "Leave request",
		Status:     domain.DocInProgress,
		AuditFields: domain.AuditFields{
			CreatedBy: suite.drafterID,
		},
	}
	suite.mockDocRepo.On("FindDocumentByID", mock.Anything, suite.documentID).Return(doc, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentID", mock.Anything, suite.documentID).Return(lines, nil).Once()
	suite.mockDocRepo.On("FindReferencesByDocumentID", mock.Anything, suite.documentID).Return(refs, nil).Once()
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_ApproveAdvancesChain() {
	ctx := context.Background()
	sc := suite.lineStatusCode("APPROVED")
	line := suite.awaitingLine(1, suite.approver1)
	next := &domain.ApprovalLine{LineID: uuid.NewString(), DocumentID: suite.documentID, ApprovalOrder: 2, ApproverID: suite.approver2, Status: domain.LinePending}

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
	suite.mockDocRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockDocRepo.On("Rollback", ctx, suite.tx).Return(nil).Maybe()
	suite.mockDocRepo.On("FindLineForUpdate", ctx, suite.tx, line.LineID).Return(line, nil).Once()
	suite.mockDocRepo.On("SettleLineInTx", ctx, suite.tx, line.LineID, domain.LineApproved, (*string)(nil), mock.AnythingOfType("time.Time"), suite.approver1).Return(nil).Once()
	suite.mockDocRepo.On("FindLineByDocumentAndOrderInTx", ctx, suite.tx, suite.documentID, 2).Return(next, nil).Once()
	suite.mockDocRepo.On("SetLineAwaitingInTx", ctx, suite.tx, next.LineID, suite.approver1, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatusInTx", ctx, suite.tx, suite.documentID, domain.DocInProgress, suite.approver1, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDocRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	suite.expectMaterialize([]domain.ApprovalLine{*next, *line}, nil)
	suite.mockNotifier.On("Notify", ctx, suite.approver2, domain.TopicDecisionRequired, suite.documentID, mock.AnythingOfType("string")).Once()

	doc, err := suite.service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver1)

	suite.Require().NoError(err)
	suite.Require().NotNil(doc)
	suite.Equal(1, doc.Lines[0].ApprovalOrder)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_RejectTerminalizesDocument() {
	ctx := context.Background()
	sc := suite.lineStatusCode("REJECTED")
	line := suite.awaitingLine(1, suite.approver1)
	comment := "missing cost center"

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
	suite.mockDocRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockDocRepo.On("Rollback", ctx, suite.tx).Return(nil).Maybe()
	suite.mockDocRepo.On("FindLineForUpdate", ctx, suite.tx, line.LineID).Return(line, nil).Once()
	suite.mockDocRepo.On("SettleLineInTx", ctx, suite.tx, line.LineID, domain.LineRejected, &comment, mock.AnythingOfType("time.Time"), suite.approver1).Return(nil).Once()
	suite.mockDocRepo.On("UpdateDocumentStatusInTx", ctx, suite.tx, suite.documentID, domain.DocRejected, suite.approver1, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDocRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	suite.expectMaterialize([]domain.ApprovalLine{*line}, nil)
	suite.mockNotifier.On("Notify", ctx, suite.drafterID, domain.TopicDocumentRejected, suite.documentID, mock.AnythingOfType("string")).Once()

	_, err := suite.service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID, Comment: &comment}, suite.approver1)

	suite.Require().NoError(err)
	// The chain is never advanced on rejection.
	suite.mockDocRepo.AssertNotCalled(suite.T(), "FindLineByDocumentAndOrderInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SetLineAwaitingInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_LastLineApprovesDocument() {
	ctx := context.Background()
	sc := suite.lineStatusCode("APPROVED")
	line := suite.awaitingLine(2, suite.approver2)

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
	suite.mockDocRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockDocRepo.On("Rollback", ctx, suite.tx).Return(nil).Maybe()
	suite.mockDocRepo.On("FindLineForUpdate", ctx, suite.tx, line.LineID).Return(line, nil).Once()
	suite.mockDocRepo.On("SettleLineInTx", ctx, suite.tx, line.LineID, domain.LineApproved, (*string)(nil), mock.AnythingOfType("time.Time"), suite.approver2).Return(nil).Once()
	suite.mockDocRepo.On("FindLineByDocumentAndOrderInTx", ctx, suite.tx, suite.documentID, 3).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("UpdateDocumentStatusInTx", ctx, suite.tx, suite.documentID, domain.DocApproved, suite.approver2, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockDocRepo.On("Commit", ctx, suite.tx).Return(nil).Once()

	suite.expectMaterialize([]domain.ApprovalLine{*line}, nil)
	suite.mockNotifier.On("Notify", ctx, suite.drafterID, domain.TopicDocumentApproved, suite.documentID, mock.AnythingOfType("string")).Once()

	_, err := suite.service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver2)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_ForbiddenForOtherEmployee() {
	ctx := context.Background()
	sc := suite.lineStatusCode("APPROVED")
	line := suite.awaitingLine(1, suite.approver1)

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
	suite.mockDocRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
	suite.mockDocRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()
	suite.mockDocRepo.On("FindLineForUpdate", ctx, suite.tx, line.LineID).Return(line, nil).Once()

	_, err := suite.service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver2)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SettleLineInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_ConflictWhenNotAwaiting() {
	for _, status := range []domain.LineStatus{domain.LinePending, domain.LineApproved, domain.LineRejected} {
		suite.Run(string(status), func() {
			suite.SetupTest()
			ctx := context.Background()
			sc := suite.lineStatusCode("APPROVED")
			line := suite.awaitingLine(1, suite.approver1)
			line.Status = status

			suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
			suite.mockDocRepo.On("Begin", ctx).Return(suite.tx, nil).Once()
			suite.mockDocRepo.On("Rollback", ctx, suite.tx).Return(nil).Once()
			suite.mockDocRepo.On("FindLineForUpdate", ctx, suite.tx, line.LineID).Return(line, nil).Once()

			_, err := suite.service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver1)

			suite.Require().Error(err)
			suite.ErrorIs(err, apperrors.ErrConflict)
			suite.mockDocRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
		})
	}
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_UnknownStatusCode() {
	ctx := context.Background()
	statusCodeID := uuid.NewString()

	suite.mockStatus.On("ResolveByID", ctx, statusCodeID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.DecideLine(ctx, uuid.NewString(), dto.DecideLineRequest{StatusCodeID: statusCodeID}, suite.approver1)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_StatusCodeNotADecision() {
	ctx := context.Background()
	sc := suite.lineStatusCode("PENDING")

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()

	_, err := suite.service.DecideLine(ctx, uuid.NewString(), dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver1)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestDecideLine_DocumentCategoryCodeRejected() {
	ctx := context.Background()
	sc := &domain.StatusCode{StatusCodeID: uuid.NewString(), Category: domain.CategoryDocument, Name: "APPROVED"}

	suite.mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()

	_, err := suite.service.DecideLine(ctx, uuid.NewString(), dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, suite.approver1)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- view ---

func (suite *ApprovalServiceTestSuite) TestGetDocument_StampsWatcherFirstView() {
	ctx := context.Background()
	ref := domain.ApprovalReference{
		ReferenceID: uuid.NewString(),
		DocumentID:  suite.documentID,
		EmployeeID:  suite.watcherID,
	}

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.watcherID).Return(suite.employee(suite.watcherID), nil).Once()
	suite.expectMaterialize(nil, []domain.ApprovalReference{ref})
	suite.mockDocRepo.On("MarkReferenceViewed", ctx, ref.ReferenceID, mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	doc, err := suite.service.GetDocument(ctx, suite.documentID, suite.watcherID)

	suite.Require().NoError(err)
	suite.Require().Len(doc.References, 1)
	suite.NotNil(doc.References[0].FirstViewedAt)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestGetDocument_AlreadyViewedIsNoOp() {
	ctx := context.Background()
	firstViewed := time.Now().UTC().Add(-time.Hour)
	ref := domain.ApprovalReference{
		ReferenceID:   uuid.NewString(),
		DocumentID:    suite.documentID,
		EmployeeID:    suite.watcherID,
		FirstViewedAt: &firstViewed,
	}

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.watcherID).Return(suite.employee(suite.watcherID), nil).Once()
	suite.expectMaterialize(nil, []domain.ApprovalReference{ref})

	doc, err := suite.service.GetDocument(ctx, suite.documentID, suite.watcherID)

	suite.Require().NoError(err)
	suite.Equal(&firstViewed, doc.References[0].FirstViewedAt)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkReferenceViewed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestGetDocument_NonWatcherDoesNotStamp() {
	ctx := context.Background()
	ref := domain.ApprovalReference{
		ReferenceID: uuid.NewString(),
		DocumentID:  suite.documentID,
		EmployeeID:  suite.watcherID,
	}

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.approver1).Return(suite.employee(suite.approver1), nil).Once()
	suite.expectMaterialize(nil, []domain.ApprovalReference{ref})

	doc, err := suite.service.GetDocument(ctx, suite.documentID, suite.approver1)

	suite.Require().NoError(err)
	suite.Nil(doc.References[0].FirstViewedAt)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "MarkReferenceViewed", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalServiceTestSuite) TestGetDocument_NotFound() {
	ctx := context.Background()

	suite.mockEmployee.On("GetEmployeeByID", ctx, suite.approver1).Return(suite.employee(suite.approver1), nil).Once()
	suite.mockDocRepo.On("FindDocumentByID", ctx, suite.documentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetDocument(ctx, suite.documentID, suite.approver1)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- inbox projections ---

func (suite *ApprovalServiceTestSuite) TestListPending_SortsLinesAndPassesToken() {
	ctx := context.Background()
	nextTokenIn := "opaque-cursor"
	params := dto.ListApprovalsParams{Limit: 10, NextToken: &nextTokenIn}

	docRow := domain.ApprovalDocument{DocumentID: suite.documentID, Title: "Purchase request", Status: domain.DocInProgress}
	unsorted := []domain.ApprovalLine{
		{LineID: uuid.NewString(), DocumentID: suite.documentID, ApprovalOrder: 2, ApproverID: suite.approver2, Status: domain.LinePending},
		{LineID: uuid.NewString(), DocumentID: suite.documentID, ApprovalOrder: 1, ApproverID: suite.approver1, Status: domain.LineAwaiting},
	}

	suite.mockDocRepo.On("ListPendingForApprover", ctx, suite.approver1, 10, &nextTokenIn).Return([]domain.ApprovalDocument{docRow}, "next-cursor", nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentIDs", ctx, []string{suite.documentID}).Return(map[string][]domain.ApprovalLine{suite.documentID: unsorted}, nil).Once()
	suite.mockDocRepo.On("FindReferencesByDocumentIDs", ctx, []string{suite.documentID}).Return(map[string][]domain.ApprovalReference{suite.documentID: {}}, nil).Once()

	resp, err := suite.service.ListPending(ctx, suite.approver1, params)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Documents, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("next-cursor", *resp.NextToken)

	lines := resp.Documents[0].Lines
	suite.Require().Len(lines, 2)
	suite.Equal(1, lines[0].ApprovalOrder)
	suite.Equal(2, lines[1].ApprovalOrder)
}

func (suite *ApprovalServiceTestSuite) TestListDrafted_DefaultsAndClampsLimit() {
	ctx := context.Background()

	// Zero limit becomes the default page size.
	suite.mockDocRepo.On("ListDraftedByEmployee", ctx, suite.drafterID, 20, (*string)(nil)).Return([]domain.ApprovalDocument{}, nil, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentIDs", ctx, []string{}).Return(map[string][]domain.ApprovalLine{}, nil).Once()
	suite.mockDocRepo.On("FindReferencesByDocumentIDs", ctx, []string{}).Return(map[string][]domain.ApprovalReference{}, nil).Once()

	resp, err := suite.service.ListDrafted(ctx, suite.drafterID, dto.ListApprovalsParams{})
	suite.Require().NoError(err)
	suite.Empty(resp.Documents)
	suite.Nil(resp.NextToken)

	// Oversized limit is clamped.
	suite.mockDocRepo.On("ListDraftedByEmployee", ctx, suite.drafterID, 100, (*string)(nil)).Return([]domain.ApprovalDocument{}, nil, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentIDs", ctx, []string{}).Return(map[string][]domain.ApprovalLine{}, nil).Once()
	suite.mockDocRepo.On("FindReferencesByDocumentIDs", ctx, []string{}).Return(map[string][]domain.ApprovalReference{}, nil).Once()

	_, err = suite.service.ListDrafted(ctx, suite.drafterID, dto.ListApprovalsParams{Limit: 5000})
	suite.Require().NoError(err)

	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *ApprovalServiceTestSuite) TestListCompleted_DelegatesToRepository() {
	ctx := context.Background()
	docRow := domain.ApprovalDocument{DocumentID: suite.documentID, Status: domain.DocApproved}

	suite.mockDocRepo.On("ListCompletedForApprover", ctx, suite.approver1, 20, (*string)(nil)).Return([]domain.ApprovalDocument{docRow}, nil, nil).Once()
	suite.mockDocRepo.On("FindLinesByDocumentIDs", ctx, []string{suite.documentID}).Return(map[string][]domain.ApprovalLine{suite.documentID: {}}, nil).Once()
	suite.mockDocRepo.On("FindReferencesByDocumentIDs", ctx, []string{suite.documentID}).Return(map[string][]domain.ApprovalReference{suite.documentID: {}}, nil).Once()

	resp, err := suite.service.ListCompleted(ctx, suite.approver1, dto.ListApprovalsParams{})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Documents, 1)
	suite.Equal(string(domain.DocApproved), resp.Documents[0].Status)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}

// Decide must treat a repository error during chain advance as fatal.
func TestDecideLine_AdvanceErrorAborts(t *testing.T) {
	mockDocRepo := new(MockDocumentRepository)
	mockEmployee := new(MockEmployeeReaderSvc)
	mockStatus := new(MockStatusResolverSvc)
	mockNotifier := new(MockNotifierSvc)
	service := services.NewApprovalService(mockDocRepo, mockEmployee, mockStatus, mockNotifier)

	ctx := context.Background()
	tx := fakeTx{}
	deciderID := uuid.NewString()
	documentID := uuid.NewString()
	sc := &domain.StatusCode{StatusCodeID: uuid.NewString(), Category: domain.CategoryLine, Name: "APPROVED"}
	line := &domain.ApprovalLine{LineID: uuid.NewString(), DocumentID: documentID, ApprovalOrder: 1, ApproverID: deciderID, Status: domain.LineAwaiting}

	mockStatus.On("ResolveByID", ctx, sc.StatusCodeID).Return(sc, nil).Once()
	mockDocRepo.On("Begin", ctx).Return(tx, nil).Once()
	mockDocRepo.On("Rollback", ctx, tx).Return(nil).Once()
	mockDocRepo.On("FindLineForUpdate", ctx, tx, line.LineID).Return(line, nil).Once()
	mockDocRepo.On("SettleLineInTx", ctx, tx, line.LineID, domain.LineApproved, (*string)(nil), mock.AnythingOfType("time.Time"), deciderID).Return(nil).Once()
	mockDocRepo.On("FindLineByDocumentAndOrderInTx", ctx, tx, documentID, 2).Return(nil, errors.New("connection reset")).Once()

	_, err := service.DecideLine(ctx, line.LineID, dto.DecideLineRequest{StatusCodeID: sc.StatusCodeID}, deciderID)

	if err == nil {
		t.Fatal("expected error when chain advance fails")
	}
	mockDocRepo.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	mockNotifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
