package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hrplane/approval_flow_app/internal/apperrors"
	"github.com/hrplane/approval_flow_app/internal/core/domain"
	portssvc "github.com/hrplane/approval_flow_app/internal/core/ports/services"
	"github.com/hrplane/approval_flow_app/internal/dto"
	"github.com/hrplane/approval_flow_app/internal/handlers"
	"github.com/hrplane/approval_flow_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) SubmitDocument(ctx context.Context, req dto.SubmitApprovalRequest, submitterID string) (*domain.ApprovalDocument, error) {
	args := m.Called(ctx, req, submitterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalDocument), args.Error(1)
}

func (m *MockApprovalService) DecideLine(ctx context.Context, lineID string, req dto.DecideLineRequest, deciderID string) (*domain.ApprovalDocument, error) {
	args := m.Called(ctx, lineID, req, deciderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalDocument), args.Error(1)
}

func (m *MockApprovalService) GetDocument(ctx context.Context, documentID string, viewerID string) (*domain.ApprovalDocument, error) {
	args := m.Called(ctx, documentID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalDocument), args.Error(1)
}

func (m *MockApprovalService) ListPending(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	args := m.Called(ctx, employeeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListApprovalsResponse), args.Error(1)
}

func (m *MockApprovalService) ListDrafted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	args := m.Called(ctx, employeeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListApprovalsResponse), args.Error(1)
}

func (m *MockApprovalService) ListReferenced(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	args := m.Called(ctx, employeeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListApprovalsResponse), args.Error(1)
}

func (m *MockApprovalService) ListCompleted(ctx context.Context, employeeID string, params dto.ListApprovalsParams) (*dto.ListApprovalsResponse, error) {
	args := m.Called(ctx, employeeID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListApprovalsResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Test Suite ---
type ApprovalHandlerTestSuite struct {
	suite.Suite
	router              *gin.Engine
	mockApprovalService *MockApprovalService
	jwtSecret           string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ApprovalHandlerTestSuite) generateTestToken(employeeID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "afa-test",
		Subject:   employeeID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *ApprovalHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockApprovalService = new(MockApprovalService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterApprovalRoutes(v1, suite.mockApprovalService)
}

func (suite *ApprovalHandlerTestSuite) authedRequest(method, url string, body any, employeeID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		suite.Require().NoError(err)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(employeeID))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ApprovalHandlerTestSuite) sampleDocument(drafterID string) *domain.ApprovalDocument {
	now := time.Now().UTC()
	return &domain.ApprovalDocument{
		DocumentID: uuid.NewString(),
		Title:      "Expense report",
		Content:    "Team offsite expenses",
		Status:     domain.DocInProgress,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     drafterID,
			LastUpdatedAt: now,
			LastUpdatedBy: drafterID,
		},
		Lines: []domain.ApprovalLine{
			{LineID: uuid.NewString(), ApprovalOrder: 1, ApproverID: uuid.NewString(), Status: domain.LineAwaiting},
		},
	}
}

// --- Test Cases ---

func (suite *ApprovalHandlerTestSuite) TestSubmitApproval_Success() {
	drafterID := uuid.NewString()
	doc := suite.sampleDocument(drafterID)
	reqBody := dto.SubmitApprovalRequest{
		Title:   doc.Title,
		Content: doc.Content,
		Lines:   []dto.SubmitLineRequest{{ApprovalOrder: 1, ApproverID: doc.Lines[0].ApproverID}},
	}

	suite.mockApprovalService.On("SubmitDocument",
		mock.Anything,
		mock.MatchedBy(func(r dto.SubmitApprovalRequest) bool { return r.Title == reqBody.Title }),
		drafterID,
	).Return(doc, nil).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals", reqBody, drafterID)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(doc.DocumentID, resp.DocumentID)
	suite.Equal(string(domain.DocInProgress), resp.Status)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestSubmitApproval_MissingTitleFailsBinding() {
	drafterID := uuid.NewString()
	reqBody := dto.SubmitApprovalRequest{
		Content: "no title",
		Lines:   []dto.SubmitLineRequest{{ApprovalOrder: 1, ApproverID: uuid.NewString()}},
	}

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals", reqBody, drafterID)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockApprovalService.AssertNotCalled(suite.T(), "SubmitDocument", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ApprovalHandlerTestSuite) TestSubmitApproval_NoToken() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/approvals", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestDecideLine_Success() {
	deciderID := uuid.NewString()
	lineID := uuid.NewString()
	doc := suite.sampleDocument(uuid.NewString())
	doc.Status = domain.DocApproved
	reqBody := dto.DecideLineRequest{StatusCodeID: uuid.NewString()}

	suite.mockApprovalService.On("DecideLine", mock.Anything, lineID, reqBody, deciderID).Return(doc, nil).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals/lines/"+lineID+"/decision", reqBody, deciderID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(string(domain.DocApproved), resp.Status)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestDecideLine_ForbiddenMapsTo403() {
	deciderID := uuid.NewString()
	lineID := uuid.NewString()
	reqBody := dto.DecideLineRequest{StatusCodeID: uuid.NewString()}

	suite.mockApprovalService.On("DecideLine", mock.Anything, lineID, reqBody, deciderID).
		Return(nil, apperrors.ErrForbidden).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals/lines/"+lineID+"/decision", reqBody, deciderID)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestDecideLine_ConflictMapsTo409() {
	deciderID := uuid.NewString()
	lineID := uuid.NewString()
	reqBody := dto.DecideLineRequest{StatusCodeID: uuid.NewString()}

	suite.mockApprovalService.On("DecideLine", mock.Anything, lineID, reqBody, deciderID).
		Return(nil, apperrors.ErrConflict).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals/lines/"+lineID+"/decision", reqBody, deciderID)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestDecideLine_ConfigurationErrorIsOpaque500() {
	deciderID := uuid.NewString()
	lineID := uuid.NewString()
	reqBody := dto.DecideLineRequest{StatusCodeID: uuid.NewString()}

	suite.mockApprovalService.On("DecideLine", mock.Anything, lineID, reqBody, deciderID).
		Return(nil, apperrors.NewConfigurationError("status LINE/APPROVED is not provisioned")).Once()

	w := suite.authedRequest(http.MethodPost, "/api/v1/approvals/lines/"+lineID+"/decision", reqBody, deciderID)

	suite.Equal(http.StatusInternalServerError, w.Code)
	// The configuration detail must not leak to the caller.
	suite.NotContains(w.Body.String(), "provisioned")
}

func (suite *ApprovalHandlerTestSuite) TestGetApproval_Success() {
	viewerID := uuid.NewString()
	doc := suite.sampleDocument(uuid.NewString())

	suite.mockApprovalService.On("GetDocument", mock.Anything, doc.DocumentID, viewerID).Return(doc, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/"+doc.DocumentID, nil, viewerID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.DocumentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(doc.DocumentID, resp.DocumentID)
}

func (suite *ApprovalHandlerTestSuite) TestGetApproval_NotFoundMapsTo404() {
	viewerID := uuid.NewString()
	documentID := uuid.NewString()

	suite.mockApprovalService.On("GetDocument", mock.Anything, documentID, viewerID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/"+documentID, nil, viewerID)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestListPending_PassesPaginationParams() {
	employeeID := uuid.NewString()
	expected := &dto.ListApprovalsResponse{Documents: []dto.DocumentResponse{}, NextToken: nil}

	suite.mockApprovalService.On("ListPending",
		mock.Anything,
		employeeID,
		mock.MatchedBy(func(p dto.ListApprovalsParams) bool {
			return p.Limit == 5 && p.NextToken != nil && *p.NextToken == "abc"
		}),
	).Return(expected, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/inbox/pending?limit=5&nextToken=abc", nil, employeeID)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockApprovalService.AssertExpectations(suite.T())
}

func (suite *ApprovalHandlerTestSuite) TestListDrafted_Success() {
	employeeID := uuid.NewString()
	doc := suite.sampleDocument(employeeID)
	expected := &dto.ListApprovalsResponse{Documents: []dto.DocumentResponse{dto.ToDocumentResponse(doc)}}

	suite.mockApprovalService.On("ListDrafted", mock.Anything, employeeID, mock.AnythingOfType("dto.ListApprovalsParams")).
		Return(expected, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/inbox/drafted", nil, employeeID)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListApprovalsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Documents, 1)
	suite.Equal(doc.DocumentID, resp.Documents[0].DocumentID)
}

func (suite *ApprovalHandlerTestSuite) TestListCompleted_Success() {
	employeeID := uuid.NewString()
	expected := &dto.ListApprovalsResponse{Documents: []dto.DocumentResponse{}}

	suite.mockApprovalService.On("ListCompleted", mock.Anything, employeeID, mock.AnythingOfType("dto.ListApprovalsParams")).
		Return(expected, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/inbox/completed", nil, employeeID)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ApprovalHandlerTestSuite) TestListReferenced_Success() {
	employeeID := uuid.NewString()
	expected := &dto.ListApprovalsResponse{Documents: []dto.DocumentResponse{}}

	suite.mockApprovalService.On("ListReferenced", mock.Anything, employeeID, mock.AnythingOfType("dto.ListApprovalsParams")).
		Return(expected, nil).Once()

	w := suite.authedRequest(http.MethodGet, "/api/v1/approvals/inbox/referenced", nil, employeeID)

	suite.Equal(http.StatusOK, w.Code)
}

// --- Run Test Suite ---
func TestApprovalHandler(t *testing.T) {
	suite.Run(t, new(ApprovalHandlerTestSuite))
}
